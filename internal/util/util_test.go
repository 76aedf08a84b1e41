package util

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrSessionNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", ErrConfigurationNotFound), http.StatusNotFound},
		{"completed", ErrSessionCompleted, http.StatusBadRequest},
		{"starting level", StartingLevelUndefined("Hard"), http.StatusBadRequest},
		{"invalid argument", InvalidArgument("title is required"), http.StatusBadRequest},
		{"permission", ErrPermissionDenied, http.StatusForbidden},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			HandleError(c, tt.err)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestErrorKinds(t *testing.T) {
	if !errors.Is(StartingLevelUndefined("x"), ErrInvalidState) {
		t.Error("StartingLevelUndefined should be an invalid state")
	}
	if !errors.Is(ErrInvalidRange, ErrInvalidArgument) {
		t.Error("ErrInvalidRange should be an invalid argument")
	}
	if errors.Is(ErrSessionCompleted, ErrNotFound) {
		t.Error("ErrSessionCompleted must not match ErrNotFound")
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 50},
		{"10", 10},
		{"0", 50},
		{"-3", 50},
		{"abc", 50},
		{"1000", 500},
	}
	for _, tt := range tests {
		if got := ParseLimit(tt.in, 50, 500); got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestJWT(t *testing.T) {
	const secret = "0123456789abcdef0123456789abcdef"

	token, err := GenerateJWT("kid", RolePlayer, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	claims, err := ParseJWT(token, secret)
	if err != nil {
		t.Fatalf("ParseJWT() error = %v", err)
	}
	if claims.UserID != "kid" || claims.Role != RolePlayer || claims.IsAdmin() {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := ParseJWT(token, "another-secret-another-secret-xx"); err == nil {
		t.Error("ParseJWT() with wrong secret should fail")
	}
	expired, err := GenerateJWT("kid", RolePlayer, secret, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseJWT(expired, secret); err == nil {
		t.Error("ParseJWT() of an expired token should fail")
	}
}
