package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-gether/internal/domain"
)

type signupRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember *bool  `json:"remember"`
}

// requireAPISession answers 401 before any handler logic runs.
func (h *Handler) requireAPISession() gin.HandlerFunc {
	return h.requireSession(func(c *gin.Context) {
		abort(c, http.StatusUnauthorized, "Authentication required")
	})
}

// requirePageSession sends anonymous browsers to the login page.
func (h *Handler) requirePageSession() gin.HandlerFunc {
	return h.requireSession(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	})
}

func (h *Handler) requireSession(anonymous gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(h.cookie.Name)
		user, err := h.sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				anonymous(c)
				return
			}
			h.fail(c, err, "Not found")
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		h.fail(c, err, "Not found")
		return
	}

	h.logger.WithField("user_id", user.ID).Info("user signed up")
	respond(c, http.StatusCreated, "Account created! Please login.", nil)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err, "Invalid credentials")
		return
	}

	issued, err := h.sessions.Start(c.Request.Context(), user)
	if err != nil {
		h.fail(c, err, "Not found")
		return
	}

	remember := req.Remember == nil || *req.Remember
	maxAge := 0
	if remember {
		maxAge = int(h.sessions.TTL().Seconds())
	}
	h.setSessionCookie(c, issued.Token, maxAge)

	respond(c, http.StatusOK, "Logged in successfully!", nil)
}

func (h *Handler) logout(c *gin.Context) {
	token, _ := c.Cookie(h.cookie.Name)
	if err := h.sessions.End(c.Request.Context(), token); err != nil {
		h.logger.WithError(err).Warn("end session")
	}
	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, "/login")
}

// setSessionCookie writes an HttpOnly cookie; maxAge 0 makes it a browser
// session cookie and a negative maxAge deletes it.
func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
