package handlers

import (
	"github.com/gin-gonic/gin"
	"todoshare/middleware"
	"todoshare/models"
	"todoshare/services"
	"todoshare/utils"
)

type CreateTodoRequest struct {
	Text string `json:"text" binding:"required"`
	// AssignTo is a friend's user id; empty keeps the task private.
	AssignTo string `json:"assign_to"`
}

type TodosResponse struct {
	models.TodoLists
	Stats models.TodoStats `json:"stats"`
}

// GetTodos returns the three views filtered by q/status/order. Stats are
// computed before filtering.
func (h *Handler) GetTodos(c *gin.Context) {
	var raw models.TodoFilter
	if err := c.ShouldBindQuery(&raw); err != nil {
		utils.BadRequest(c, "invalid todo filter")
		return
	}
	filter, err := services.ParseTodoFilter(raw.Query, string(raw.Status), string(raw.Order))
	if err != nil {
		respondError(c, err)
		return
	}

	lists, err := h.todos.ListFor(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, TodosResponse{
		TodoLists: services.FilterLists(*lists, filter),
		Stats:     services.ComputeStats(*lists),
	})
}

func (h *Handler) CreateTodo(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "todo text is required")
		return
	}

	var (
		todo *models.Todo
		err  error
	)
	if req.AssignTo == "" || req.AssignTo == userID {
		todo, err = h.todos.Create(c.Request.Context(), userID, req.Text, "")
	} else {
		todo, err = h.todos.Create(c.Request.Context(), req.AssignTo, req.Text, userID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, todo)
}

func (h *Handler) ToggleTodo(c *gin.Context) {
	todo, err := h.todos.ToggleCompletion(c.Request.Context(), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, todo)
}

func (h *Handler) DeleteTodo(c *gin.Context) {
	if err := h.todos.Delete(c.Request.Context(), c.Param("id"), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, nil)
}
