package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/test", nil)
	handler(c)
	return w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return env
}

func TestOK(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		OK(c, "done", map[string]string{"name": "test"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	env := parseEnvelope(t, w)
	if !env.Success {
		t.Error("expected success true")
	}
	if env.Message != "done" {
		t.Errorf("expected message 'done', got %q", env.Message)
	}
}

func TestCreated(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Created(c, "created", map[string]int{"id": 1})
	})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	env := parseEnvelope(t, w)
	if !env.Success {
		t.Error("expected success true")
	}
}

func TestFail_WithAppError(t *testing.T) {
	cases := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"validation", NewValidation("missing field"), http.StatusBadRequest},
		{"auth", NewAuth("invalid credentials"), http.StatusUnauthorized},
		{"forbidden", NewForbidden("founder role required"), http.StatusForbidden},
		{"not found", NewNotFound("contact not found"), http.StatusNotFound},
		{"conflict", NewConflict("email taken"), http.StatusConflict},
		{"server", NewServerError("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performRequest(func(c *gin.Context) {
				Fail(c, tc.err)
			})

			if w.Code != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, w.Code)
			}

			env := parseEnvelope(t, w)
			if env.Success {
				t.Error("expected success false")
			}
			if env.Message != tc.err.Message {
				t.Errorf("expected message %q, got %q", tc.err.Message, env.Message)
			}
		})
	}
}

func TestFail_WithGenericError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Fail(c, errors.New("something went wrong"))
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	env := parseEnvelope(t, w)
	if env.Message != "internal server error" {
		t.Errorf("expected generic message, got %q", env.Message)
	}
	if env.Error != "" {
		t.Errorf("detail should be suppressed by default, got %q", env.Error)
	}
}

func TestFail_DetailGated(t *testing.T) {
	appErr := NewServerError("failed to load contact").WithCause(errors.New("dial tcp: refused"))

	w := performRequest(func(c *gin.Context) {
		Fail(c, appErr)
	})
	env := parseEnvelope(t, w)
	if env.Error != "" {
		t.Errorf("detail should be hidden when debug is off, got %q", env.Error)
	}

	SetIncludeErrorDetail(true)
	defer SetIncludeErrorDetail(false)

	w = performRequest(func(c *gin.Context) {
		Fail(c, appErr)
	})
	env = parseEnvelope(t, w)
	if env.Error != "dial tcp: refused" {
		t.Errorf("expected cause detail, got %q", env.Error)
	}
}

func TestFail_WrappedAppError(t *testing.T) {
	wrapped := errors.New("outer")
	appErr := NewNotFound("deal not found")

	w := performRequest(func(c *gin.Context) {
		Fail(c, errors.Join(wrapped, appErr))
	})

	if w.Code != http.StatusNotFound {
		t.Errorf("expected wrapped AppError status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestAppError_ErrorInterface(t *testing.T) {
	err := NewNotFound("user not found")
	if err.Error() != "user not found" {
		t.Errorf("expected 'user not found', got %q", err.Error())
	}

	cause := errors.New("row missing")
	withCause := err.WithCause(cause)
	if !errors.Is(withCause, cause) {
		t.Error("WithCause should keep the cause reachable via errors.Is")
	}
}
