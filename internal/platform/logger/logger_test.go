package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestRedactsCredentials(t *testing.T) {
	l, logs := observed()
	l.Info("issued", "token", "abc", "jwt_secret", "s3cr3t", "region", "neck")

	entry := logs.All()[0]
	fields := entry.ContextMap()
	if fields["token"] != "[REDACTED]" || fields["jwt_secret"] != "[REDACTED]" {
		t.Errorf("credentials leaked: %v", fields)
	}
	if fields["region"] != "neck" {
		t.Errorf("ordinary field altered: %v", fields["region"])
	}
}

func TestHashesSessionIDs(t *testing.T) {
	l, logs := observed()
	l.With("session_id", "6f1c").Warn("store failed")

	got, _ := logs.All()[0].ContextMap()["session_id"].(string)
	if !strings.HasPrefix(got, "hash:") || strings.Contains(got, "6f1c") {
		t.Errorf("session id not pseudonymised: %q", got)
	}
}

func TestRedactsBareJWTValues(t *testing.T) {
	l, logs := observed()
	l.Debug("header", "value", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTYifQ.sig")
	if v := logs.All()[0].ContextMap()["value"]; v != "[REDACTED]" {
		t.Errorf("expected jwt-shaped value to be redacted, got %v", v)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New("dev", "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	l, err := New("production", "info")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Sync()
}
