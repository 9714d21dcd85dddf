package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/painrelief/internal/domain"
	"alcyxob/painrelief/internal/service"
)

// SessionHandler issues anonymous session tokens.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// SessionResponse carries the bearer token for later calls.
type SessionResponse struct {
	Token   string         `json:"token"`
	Session domain.Session `json:"session"`
}

// StartSession godoc
// @Summary Start an anonymous session
// @Description Issues a bearer token that namespaces the caller's pain records.
// @Tags Sessions
// @Produce json
// @Success 201 {object} SessionResponse
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	token, session, err := h.sessionService.Start()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{Token: token, Session: session})
}
