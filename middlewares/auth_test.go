package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"volunteerhub/utils"
)

func init() { gin.SetMode(gin.TestMode) }

func whoami(c *gin.Context) {
	v := CurrentViewer(c)
	if v == nil {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, v.ID+"/"+v.UserType)
}

func tokenFor(t *testing.T, id, userType string) string {
	t.Helper()
	token, err := utils.GenerateToken(id, id+"@example.com", userType)
	if err != nil {
		t.Fatalf("gen token: %v", err)
	}
	return token
}

func TestAuthenticate(t *testing.T) {
	s := gin.New()
	s.GET("/me", Authenticate, whoami)
	tok := tokenFor(t, "u1", "individual")

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		code   int
		expect string
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized, ""},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "nope") }, http.StatusUnauthorized, ""},
		{"raw header", func(r *http.Request) { r.Header.Set("Authorization", tok) }, http.StatusOK, "u1/individual"},
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }, http.StatusOK, "u1/individual"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: tok}) }, http.StatusOK, "u1/individual"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tc.setup(req)
			s.ServeHTTP(w, req)
			if w.Code != tc.code {
				t.Fatalf("want %d, got %d (%s)", tc.code, w.Code, w.Body.String())
			}
			if tc.expect != "" && w.Body.String() != tc.expect {
				t.Fatalf("want %q, got %q", tc.expect, w.Body.String())
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	s := gin.New()
	s.GET("/me", OptionalAuth, whoami)

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusOK || w.Body.String() != "anonymous" {
		t.Fatalf("anonymous request: code=%d body=%q", w.Code, w.Body.String())
	}

	// an invalid cookie degrades to anonymous instead of failing
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "stale"})
	s.ServeHTTP(w, req)
	if w.Body.String() != "anonymous" {
		t.Fatalf("stale cookie: want anonymous, got %q", w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenFor(t, "org1", "organization"))
	s.ServeHTTP(w, req)
	if w.Body.String() != "org1/organization" {
		t.Fatalf("want org1/organization, got %q", w.Body.String())
	}
}
