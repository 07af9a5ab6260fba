package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"todoshare/models"
	"todoshare/repository"
	"todoshare/utils"
)

const maxTodoTextLength = 500

type TodoService struct {
	todos    repository.TodoRepository
	friends  *FriendshipService
	notifier Notifier
	logger   *log.Logger
}

func NewTodoService(todos repository.TodoRepository, friends *FriendshipService, notifier Notifier, logger *log.Logger) *TodoService {
	return &TodoService{
		todos:    todos,
		friends:  friends,
		notifier: notifierOrNop(notifier),
		logger:   loggerOrDiscard(logger),
	}
}

// Create adds a todo owned by ownerID. With an empty sharerID it is a
// private task created by the owner; otherwise the caller is sharerID
// assigning the task to an accepted friend.
func (s *TodoService) Create(ctx context.Context, ownerID, text, sharerID string) (*models.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationError("todo text is required")
	}
	if utf8.RuneCountInString(text) > maxTodoTextLength {
		return nil, validationError("todo text must be at most 500 characters")
	}
	if ownerID == "" {
		return nil, validationError("owner is required")
	}

	todo := &models.Todo{
		ID:        utils.GenerateUUID(),
		Text:      text,
		UserID:    ownerID,
		CreatedAt: time.Now(),
	}

	if sharerID != "" {
		if sharerID == ownerID {
			return nil, validationError("cannot share a task with yourself")
		}
		ok, err := s.friends.AreFriends(ctx, sharerID, ownerID)
		if err != nil {
			return nil, internalError("failed to check friendship", err)
		}
		if !ok {
			return nil, forbiddenError("tasks can only be shared with accepted friends")
		}
		todo.SharedByUserID = &sharerID
	}

	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, internalError("failed to add todo", err)
	}

	s.logger.Debug("todo created", "todo_id", todo.ID, "owner", ownerID, "sharer", sharerID)
	s.notifyParties(todo)
	return s.reload(ctx, todo.ID)
}

// ToggleCompletion flips completed. Only the owner may do it.
func (s *TodoService) ToggleCompletion(ctx context.Context, todoID, actingUserID string) (*models.Todo, error) {
	todo, err := s.ownedTodo(ctx, todoID, actingUserID, "only the owner can complete this task")
	if err != nil {
		return nil, err
	}
	changed, err := s.todos.ToggleCompleted(ctx, todo.ID, actingUserID)
	if err != nil {
		return nil, internalError("failed to update todo", err)
	}
	if !changed {
		return nil, notFoundError("todo not found")
	}
	s.notifyParties(todo)
	return s.reload(ctx, todo.ID)
}

// Delete removes a todo. Only the owner may do it.
func (s *TodoService) Delete(ctx context.Context, todoID, actingUserID string) error {
	todo, err := s.ownedTodo(ctx, todoID, actingUserID, "only the owner can delete this task")
	if err != nil {
		return err
	}
	deleted, err := s.todos.Delete(ctx, todo.ID, actingUserID)
	if err != nil {
		return internalError("failed to delete todo", err)
	}
	if !deleted {
		return notFoundError("todo not found")
	}
	s.logger.Debug("todo deleted", "todo_id", todo.ID)
	s.notifyParties(todo)
	return nil
}

// ListFor returns the user's own todos and the ones they shared.
func (s *TodoService) ListFor(ctx context.Context, userID string) (*models.TodoLists, error) {
	visible, err := s.todos.ListVisible(ctx, userID)
	if err != nil {
		return nil, internalError("failed to load todos", err)
	}
	lists := SplitTodos(userID, visible)
	return &lists, nil
}

func (s *TodoService) ownedTodo(ctx context.Context, todoID, actingUserID, denied string) (*models.Todo, error) {
	todo, err := s.todos.FindByID(ctx, todoID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("todo not found")
	}
	if err != nil {
		return nil, internalError("failed to load todo", err)
	}
	if todo.UserID != actingUserID {
		return nil, forbiddenError(denied)
	}
	return todo, nil
}

func (s *TodoService) reload(ctx context.Context, id string) (*models.Todo, error) {
	todo, err := s.todos.FindByID(ctx, id)
	if err != nil {
		return nil, internalError("failed to load todo", err)
	}
	return todo, nil
}

func (s *TodoService) notifyParties(todo *models.Todo) {
	if todo.IsShared() {
		s.notifier.Notify(EventTodosChanged, todo.UserID, todo.SharedBy())
		return
	}
	s.notifier.Notify(EventTodosChanged, todo.UserID)
}
