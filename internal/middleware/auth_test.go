package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foundercrm/backend/internal/models"
	"github.com/foundercrm/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("middleware-test-secret")
}

func requestWithHeader(handler gin.HandlerFunc, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/test", nil)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}
	handler(c)
	return w
}

func TestAuthRequired_MissingHeader(t *testing.T) {
	// nil db is safe: these paths reject before any user lookup
	w := requestWithHeader(AuthRequired(nil), "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthRequired_MalformedHeader(t *testing.T) {
	cases := []string{
		"tokenwithoutscheme",
		"Basic dXNlcjpwYXNz",
		"Bearer",
	}
	for _, header := range cases {
		w := requestWithHeader(AuthRequired(nil), header)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestAuthRequired_InvalidToken(t *testing.T) {
	w := requestWithHeader(AuthRequired(nil), "Bearer not-a-real-token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthRequired_TokenSignedWithWrongSecret(t *testing.T) {
	utils.SetJWTSecret("some-other-secret")
	token, _ := utils.GenerateToken(1, "a@example.com", "founder", 1)
	utils.SetJWTSecret("middleware-test-secret")

	w := requestWithHeader(AuthRequired(nil), "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func withUser(user *AuthUser, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/test", nil)
	if user != nil {
		c.Set(contextUserKey, user)
	}
	handler(c)
	return w
}

func TestFounderRequired(t *testing.T) {
	cases := []struct {
		name   string
		user   *AuthUser
		status int
	}{
		{"founder passes", &AuthUser{ID: 1, Role: models.RoleFounder}, http.StatusOK},
		{"team member rejected", &AuthUser{ID: 2, Role: models.RoleTeamMember}, http.StatusForbidden},
		{"missing user rejected", nil, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := FounderRequired()
			w := withUser(tc.user, func(c *gin.Context) {
				handler(c)
				if !c.IsAborted() {
					c.Status(http.StatusOK)
				}
			})
			if w.Code != tc.status {
				t.Errorf("expected %d, got %d", tc.status, w.Code)
			}
		})
	}
}

func TestWorkspaceAccess_OwnWorkspace(t *testing.T) {
	handler := WorkspaceAccess()
	w := withUser(&AuthUser{ID: 1, WorkspaceID: 7}, func(c *gin.Context) {
		handler(c)
		if !c.IsAborted() {
			c.Status(http.StatusOK)
		}
	})
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for caller's own workspace, got %d", w.Code)
	}
}

func TestWorkspaceAccess_ForeignWorkspace(t *testing.T) {
	handler := WorkspaceAccess()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/test", nil)
	c.Params = gin.Params{{Key: "workspace_id", Value: "99"}}
	c.Set(contextUserKey, &AuthUser{ID: 1, WorkspaceID: 7})

	handler(c)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for foreign workspace, got %d", w.Code)
	}
}

func TestCurrentUser_Empty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if CurrentUser(c) != nil {
		t.Error("CurrentUser should return nil without auth")
	}
}
