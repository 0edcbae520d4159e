package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/adminkit/logger"
	"github.com/kbukum/adminkit/server/middleware"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(mw...)
	return e
}

func TestRecovery_Panic(t *testing.T) {
	e := newEngine(middleware.Recovery(logger.Nop()))
	e.GET("/boom", func(*gin.Context) { panic("test panic") })

	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["message"] != "Internal server error" {
		t.Fatalf("unexpected message: %s", body["message"])
	}
}

func TestRequestID(t *testing.T) {
	e := newEngine(middleware.RequestID())
	e.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	if rr.Header().Get(middleware.HeaderRequestID) == "" {
		t.Error("expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set(middleware.HeaderRequestID, "abc")
	rr = httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	if got := rr.Header().Get(middleware.HeaderRequestID); got != "abc" {
		t.Errorf("expected existing id preserved, got %q", got)
	}
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	e := newEngine(middleware.RequestLogger(logger.Nop()))
	e.GET("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", http.NoBody))
	if rr.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", rr.Code)
	}
}

func TestBearerAuth(t *testing.T) {
	validate := func(token string) (map[string]any, error) {
		if token != "good" {
			return nil, errors.New("bad token")
		}
		return map[string]any{"sub": "u1"}, nil
	}
	e := newEngine(middleware.BearerAuth(validate))
	e.GET("/secure", func(c *gin.Context) {
		claims := c.MustGet(middleware.ClaimsKey).(map[string]any)
		c.JSON(http.StatusOK, gin.H{"sub": claims["sub"]})
	})

	tests := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"missing", "", http.StatusUnauthorized, "Authorization header required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Invalid authorization header format"},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, "Invalid token"},
		{"valid", "Bearer good", http.StatusOK, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secure", http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			e.ServeHTTP(rr, req)

			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rr.Code)
			}
			var body map[string]any
			_ = json.Unmarshal(rr.Body.Bytes(), &body)
			if tc.msg != "" && body["message"] != tc.msg {
				t.Errorf("expected message %q, got %v", tc.msg, body["message"])
			}
			if tc.status == http.StatusOK && body["sub"] != "u1" {
				t.Errorf("expected claims in context, got %v", body)
			}
		})
	}
}
