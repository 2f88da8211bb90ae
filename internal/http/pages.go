package http

import (
	"embed"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

func (h *Handler) signupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{"title": "Sign up"})
}

func (h *Handler) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"title": "Log in"})
}

func (h *Handler) dashboardPage(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"title":    "Dashboard",
		"username": currentUser(c).Username,
	})
}

// currentTime reports server local time in the formats the dashboard header shows.
func (h *Handler) currentTime(c *gin.Context) {
	now := h.now()
	c.JSON(http.StatusOK, TimeResponse{
		Date:      now.Format("January 02, 2006"),
		Day:       now.Format("Monday"),
		Time:      now.Format("03:04 PM"),
		Timestamp: now.Format(time.RFC3339Nano),
	})
}
