package handlers

import (
	"net/http"
	"testing"

	"github.com/baharimarine/compro/internal/config"
	"github.com/baharimarine/compro/internal/middleware"
	"github.com/baharimarine/compro/internal/services"
	"github.com/baharimarine/compro/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter(t *testing.T) *gin.Engine {
	utils.SetJWTSecret("handler-test-secret")
	db := newTestDB(t)
	cfg := config.DefaultConfig()

	_, err := services.NewAuthService(db, &cfg.JWT).CreateUser(&services.CreateUserRequest{
		Username: "ops", Email: "ops@example.com", Password: "s3cret!!", Role: "admin",
	})
	require.NoError(t, err)

	h := NewAuthHandler(db, &cfg.JWT)
	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/logout", h.Logout)
	r.GET("/api/auth/me", middleware.AuthRequired(cfg.JWT.CookieName), h.Me)
	return r
}

func sessionCookie(w interface{ Result() *http.Response }) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_token" {
			return c
		}
	}
	return nil
}

func TestAuthHandler_LoginSetsCookie(t *testing.T) {
	r := authRouter(t)

	w := serveJSON(r, "POST", "/api/auth/login?next=/admin/gallery", `{"email":"OPS@example.com","password":"s3cret!!"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 7200, cookie.MaxAge)
	assert.Equal(t, "/", cookie.Path)

	var body struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		Redirect string `json:"redirect"`
	}
	decode(t, w, &body)
	assert.Equal(t, "ops@example.com", body.User.Email)
	assert.Equal(t, "admin", body.User.Role)
	assert.Equal(t, "/admin/gallery", body.Redirect)

	claims, err := utils.ParseToken(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Email)
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	r := authRouter(t)

	for _, body := range []string{
		`{"email":"ops@example.com","password":"wrong"}`,
		`{"email":"ghost@example.com","password":"s3cret!!"}`,
		`not json`,
	} {
		w := serveJSON(r, "POST", "/api/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code, body)
		env := decode(t, w, nil)
		assert.Equal(t, "email or password incorrect", env.Message)
		assert.Nil(t, sessionCookie(w))
	}
}

func TestAuthHandler_MeAndLogout(t *testing.T) {
	r := authRouter(t)

	w := serve(r, "GET", "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serveJSON(r, "POST", "/api/auth/login", `{"email":"ops@example.com","password":"s3cret!!"}`)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)

	req, _ := http.NewRequest("GET", "/api/auth/me", nil)
	req.AddCookie(cookie)
	w = serveRequest(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		User struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	decode(t, w, &me)
	assert.Equal(t, "ops@example.com", me.User.Email)
	assert.NotZero(t, me.User.ID)

	w = serve(r, "POST", "/api/auth/logout", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	cleared := sessionCookie(w)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}
