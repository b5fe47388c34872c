package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/folio/internal/middleware"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/services"
)

// LoginRequest accepts either an email or a username in Username.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// CookieOptions controls how the session cookie is written.
type CookieOptions struct {
	Secure bool
}

func setSession(c *gin.Context, token string, maxAge int, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", opts.Secure, true)
}

// LoginStatus reports who the current session belongs to.
func LoginStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"authenticated": user != nil,
			"user":          user,
		}, ""))
	}
}

func Login(auth *services.AuthService, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBind(&req); err != nil {
			bindError(c, err)
			return
		}

		user, token, err := auth.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		name := user.FullName()
		if name == "" {
			name = user.Username
		}
		setSession(c, token, int(auth.SessionTTL().Seconds()), opts)
		c.JSON(http.StatusOK, models.SuccessResponse(user, "Welcome back, "+name+"!"))
	}
}

func Logout(opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		setSession(c, "", -1, opts)
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "You have been logged out successfully."))
	}
}

// Register creates the account and signs the new user in.
func Register(auth *services.AuthService, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.RegisterInput
		if err := c.ShouldBind(&in); err != nil {
			bindError(c, err)
			return
		}

		user, err := auth.Register(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}

		if token, err := auth.IssueSession(user.ID); err == nil {
			setSession(c, token, int(auth.SessionTTL().Seconds()), opts)
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(user, "Account created successfully! Welcome to your portfolio."))
	}
}
