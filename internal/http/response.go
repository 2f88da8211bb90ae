package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todo-gether/internal/domain"
	"todo-gether/internal/service"
)

// envelope is the body shape shared by every JSON endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type TaskResponse struct {
	ID        int64  `json:"id"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
	UserID    int64  `json:"user_id"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	Order     int64  `json:"order"`
}

type ColumnResponse struct {
	UserID         int64          `json:"user_id"`
	Todos          []TaskResponse `json:"todos"`
	Count          int            `json:"count"`
	CompletedCount int            `json:"completed_count"`
}

type dashboardEntry struct {
	username string
	column   ColumnResponse
}

// dashboardData encodes as a JSON object keyed by username, keeping the
// signup order of the columns.
type dashboardData []dashboardEntry

func (d dashboardData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.username)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.column)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type DashboardResponse struct {
	Success     bool          `json:"success"`
	Data        dashboardData `json:"data"`
	CurrentUser string        `json:"current_user"`
}

type SnapshotResponse struct {
	ExportedAt string        `json:"exported_at"`
	ExportedBy string        `json:"exported_by"`
	Data       dashboardData `json:"data"`
}

type TimeResponse struct {
	Date      string `json:"date"`
	Day       string `json:"day"`
	Time      string `json:"time"`
	Timestamp string `json:"timestamp"`
}

type ExportResponse struct {
	Location string `json:"location"`
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func taskToResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Task:      task.Text,
		Completed: task.Completed,
		UserID:    task.OwnerID,
		CreatedBy: task.CreatedBy,
		CreatedAt: task.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: task.UpdatedAt.Format(time.RFC3339Nano),
		Order:     task.Order,
	}
}

func columnsToData(columns []service.DashboardColumn) dashboardData {
	data := make(dashboardData, 0, len(columns))
	for _, column := range columns {
		todos := make([]TaskResponse, len(column.Tasks))
		for i := range column.Tasks {
			todos[i] = taskToResponse(column.Tasks[i])
		}
		data = append(data, dashboardEntry{
			username: column.User.Username,
			column: ColumnResponse{
				UserID:         column.User.ID,
				Todos:          todos,
				Count:          len(todos),
				CompletedCount: column.CompletedCount,
			},
		})
	}
	return data
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{
		Success: status < http.StatusBadRequest,
		Message: message,
		Data:    data,
	})
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: message})
}

// fail maps err onto a status code and a client-safe message. notFound is
// the message used for domain.ErrNotFound.
func (h *Handler) fail(c *gin.Context, err error, notFound string) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		abort(c, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, domain.ErrDuplicateUsername):
		abort(c, http.StatusBadRequest, "Username already taken")
	case errors.Is(err, domain.ErrInvalidCredentials):
		abort(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, domain.ErrUnauthenticated):
		abort(c, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, domain.ErrNotFound):
		abort(c, http.StatusNotFound, notFound)
	case errors.Is(err, service.ErrExportDisabled):
		abort(c, http.StatusServiceUnavailable, "Export not configured")
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		abort(c, http.StatusInternalServerError, "Server error")
	}
}
