package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRejectsBadHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		authHeader string
	}{
		{"Empty header", ""},
		{"Invalid format", "Token abc"},
		{"Empty token", "Bearer "},
		{"Garbage token", "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			req := httptest.NewRequest("GET", "/classes/3/roster", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			c.Request = req

			Middleware(testSecret)(c)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestMiddlewareRemembersRequestedPath(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/members/7/classes", nil)

	Middleware(testSecret)(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body struct {
		Errors     []string `json:"errors"`
		RedirectTo string   `json:"redirect_to"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{MsgLoginRequired}, body.Errors)
	assert.Equal(t, "/members/7/classes", body.RedirectTo)
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	token, err := GenerateToken(7, "amy", true, testSecret)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest("GET", "/classes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c.Request = req

	Middleware(testSecret)(c)

	require.False(t, c.IsAborted())

	ident, ok := GetIdentity(c)
	require.True(t, ok)
	assert.Equal(t, 7, ident.MemberID)
	assert.Equal(t, "amy", ident.Username)
	assert.True(t, ident.Instructor)
}

func TestRequireInstructor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		instructor     any
		expectedStatus int
	}{
		{"Instructor passes", true, http.StatusOK},
		{"Member rejected", false, http.StatusForbidden},
		{"Missing flag", nil, http.StatusUnauthorized},
		{"Wrong flag type", "t", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/classes", nil)

			if tt.instructor != nil {
				c.Set(ctxInstructor, tt.instructor)
			}

			RequireInstructor()(c)

			if tt.expectedStatus == http.StatusOK {
				assert.False(t, c.IsAborted())
			} else {
				assert.Equal(t, tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestGetIdentityMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	_, ok := GetIdentity(c)
	assert.False(t, ok)
}
