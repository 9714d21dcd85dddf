package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"alcyxob/painrelief/internal/domain"
)

// --- Error Definitions ---
var (
	ErrSessionInvalid  = errors.New("session token is invalid or expired")
	ErrTokenGeneration = errors.New("failed to generate session token")
)

const tokenIssuer = "painrelief"

// SessionService issues and verifies anonymous session tokens. A token
// carries nothing but a random session id.
type SessionService interface {
	Start() (token string, session domain.Session, err error)
	Verify(token string) (domain.Session, error)
}

type sessionService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewSessionService creates a SessionService signing with secret (HS256).
func NewSessionService(secret string, expiration time.Duration) SessionService {
	if secret == "" {
		panic("session secret cannot be empty") // Critical configuration
	}
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &sessionService{secret: []byte(secret), expiration: expiration, now: time.Now}
}

// sessionClaims defines the structure of the token payload.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Start creates a new session and its signed token.
func (s *sessionService) Start() (string, domain.Session, error) {
	now := s.now().UTC().Truncate(time.Second)
	session := domain.Session{
		ID:        uuid.New(),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.expiration),
	}
	claims := &sessionClaims{
		SessionID: session.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.ID.String(),
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			Issuer:    tokenIssuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.Session{}, ErrTokenGeneration
	}
	return signed, session, nil
}

// Verify checks the signature, the algorithm and the expiry of token.
func (s *sessionService) Verify(token string) (domain.Session, error) {
	claims := &sessionClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Session{}, ErrSessionInvalid
	}
	if claims.Issuer != tokenIssuer {
		return domain.Session{}, ErrSessionInvalid
	}
	id, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return domain.Session{}, ErrSessionInvalid
	}
	session := domain.Session{ID: id}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return session, nil
}
