package http

import (
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todo-gether/internal/domain"
	"todo-gether/internal/service"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	tasks    service.TaskService
	sessions service.SessionService
	exports  service.ExportService
	cookie   CookieConfig
	logger   logrus.FieldLogger
	now      func() time.Time
}

func NewHandler(
	users service.UserService,
	tasks service.TaskService,
	sessions service.SessionService,
	exports service.ExportService,
	cookie CookieConfig,
	logger logrus.FieldLogger,
) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:    users,
		tasks:    tasks,
		sessions: sessions,
		exports:  exports,
		cookie:   cookie,
		logger:   logger,
		now:      time.Now,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))
	router.Use(corsMiddleware())
	router.NoRoute(func(c *gin.Context) {
		abort(c, http.StatusNotFound, "Not found")
	})

	router.GET("/signup", h.signupPage)
	router.POST("/signup", h.signup)
	router.GET("/login", h.loginPage)
	router.POST("/login", h.login)

	pages := router.Group("/", h.requirePageSession())
	{
		pages.GET("/", h.dashboardPage)
		pages.GET("/dashboard", h.dashboardPage)
		pages.GET("/logout", h.logout)
	}

	router.GET("/api/time", h.currentTime)
	router.GET("/api/health", func(c *gin.Context) {
		respond(c, http.StatusOK, "", nil)
	})

	api := router.Group("/api", h.requireAPISession())
	{
		api.GET("/dashboard-data", h.dashboardData)
		api.POST("/todo", h.createTodo)
		api.PUT("/todo/:id", h.updateTodo)
		api.DELETE("/todo/:id", h.deleteTodo)
		api.PATCH("/todo/:id/reorder", h.reorderTodo)
		api.POST("/export", h.exportDashboard)
		api.GET("/export", h.listExports)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

const userContextKey = "todo.user"

func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}

// taskID parses the :id path parameter. Non-numeric ids are treated like
// unknown ones.
func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
