package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"volunteerhub/models"
	"volunteerhub/utils"
)

const (
	viewerKey   = "viewer"
	TokenCookie = "token"
)

// tokenFrom reads the session token from the Authorization header (raw or
// "Bearer <token>") and falls back to the page cookie.
func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if ck, err := c.Cookie(TokenCookie); err == nil {
		return ck
	}
	return ""
}

func viewerFrom(c *gin.Context) *models.Viewer {
	token := tokenFrom(c)
	if token == "" {
		return nil
	}
	claims, err := utils.VerifyToken(token)
	if err != nil {
		return nil
	}
	return &models.Viewer{ID: claims.UserID, Email: claims.Email, UserType: claims.UserType}
}

// Authenticate rejects requests without a valid session.
func Authenticate(c *gin.Context) {
	v := viewerFrom(c)
	if v == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized."})
		return
	}
	c.Set(viewerKey, v)
	c.Next()
}

// OptionalAuth attaches the viewer when a valid session is present; anonymous
// requests pass through.
func OptionalAuth(c *gin.Context) {
	if v := viewerFrom(c); v != nil {
		c.Set(viewerKey, v)
	}
	c.Next()
}

// CurrentViewer returns the viewer placed by Authenticate or OptionalAuth, or nil.
func CurrentViewer(c *gin.Context) *models.Viewer {
	v, ok := c.Get(viewerKey)
	if !ok {
		return nil
	}
	viewer, _ := v.(*models.Viewer)
	return viewer
}

// ViewerID is a KeySelector-friendly accessor; empty for anonymous requests.
func ViewerID(c *gin.Context) string {
	if v := CurrentViewer(c); v != nil {
		return v.ID
	}
	return ""
}
