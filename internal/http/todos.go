package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todo-gether/internal/domain"
)

type createTodoRequest struct {
	Task   string `json:"task"`
	UserID *int64 `json:"user_id"`
}

type updateTodoRequest struct {
	Task      *string `json:"task"`
	Completed *bool   `json:"completed"`
}

type reorderTodoRequest struct {
	Order *int64 `json:"order"`
}

func (h *Handler) dashboardData(c *gin.Context) {
	columns, err := h.tasks.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Not found")
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		Success:     true,
		Data:        columnsToData(columns),
		CurrentUser: currentUser(c).Username,
	})
}

func (h *Handler) createTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	var ownerID int64
	if req.UserID != nil {
		ownerID = *req.UserID
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), ownerID, req.Task, currentUser(c).Username)
	if err != nil {
		h.fail(c, err, "User not found")
		return
	}

	respond(c, http.StatusCreated, "", taskToResponse(*task))
}

func (h *Handler) updateTodo(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		abort(c, http.StatusNotFound, "Todo not found")
		return
	}

	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), id, domain.TaskPatch{
		Text:      req.Task,
		Completed: req.Completed,
	})
	if err != nil {
		h.fail(c, err, "Todo not found")
		return
	}

	respond(c, http.StatusOK, "", taskToResponse(*task))
}

func (h *Handler) deleteTodo(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		abort(c, http.StatusNotFound, "Todo not found")
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Todo not found")
		return
	}

	respond(c, http.StatusOK, "Todo deleted", nil)
}

func (h *Handler) reorderTodo(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		abort(c, http.StatusNotFound, "Todo not found")
		return
	}

	var req reorderTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Order == nil {
		abort(c, http.StatusBadRequest, "Order value required")
		return
	}

	task, err := h.tasks.ReorderTask(c.Request.Context(), id, *req.Order)
	if err != nil {
		h.fail(c, err, "Todo not found")
		return
	}

	respond(c, http.StatusOK, "", taskToResponse(*task))
}

func (h *Handler) exportDashboard(c *gin.Context) {
	if !h.exports.Enabled() {
		abort(c, http.StatusServiceUnavailable, "Export not configured")
		return
	}

	columns, err := h.tasks.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Not found")
		return
	}

	user := currentUser(c)
	snapshot, err := json.Marshal(SnapshotResponse{
		ExportedAt: h.now().UTC().Format(time.RFC3339),
		ExportedBy: user.Username,
		Data:       columnsToData(columns),
	})
	if err != nil {
		h.fail(c, err, "Not found")
		return
	}

	location, err := h.exports.Export(c.Request.Context(), snapshot)
	if err != nil {
		h.fail(c, err, "Not found")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"location": location,
	}).Info("dashboard exported")
	respond(c, http.StatusCreated, "", ExportResponse{Location: location})
}

func (h *Handler) listExports(c *gin.Context) {
	objects, err := h.exports.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Not found")
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i, obj := range objects {
		resp[i] = StorageObjectResponse{Key: obj.Key, Size: obj.Size}
		if obj.LastModified != nil && !obj.LastModified.IsZero() {
			v := obj.LastModified.Format(time.RFC3339)
			resp[i].LastModified = &v
		}
	}
	respond(c, http.StatusOK, "", resp)
}
