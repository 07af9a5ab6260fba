package services

import (
	"sort"
	"strings"

	"todoshare/models"
)

// SplitTodos partitions the todos visible to userID into the three views.
// SharedWithMe is a subset of Mine; SharedByMe holds tasks the user
// assigned to someone else.
func SplitTodos(userID string, visible []models.Todo) models.TodoLists {
	lists := models.TodoLists{
		Mine:         []models.Todo{},
		SharedWithMe: []models.Todo{},
		SharedByMe:   []models.Todo{},
	}
	for _, t := range visible {
		if t.UserID == userID {
			lists.Mine = append(lists.Mine, t)
			if t.IsShared() {
				lists.SharedWithMe = append(lists.SharedWithMe, t)
			}
			continue
		}
		if t.SharedBy() == userID {
			lists.SharedByMe = append(lists.SharedByMe, t)
		}
	}
	return lists
}

// ParseTodoFilter validates the raw filter values, applying the defaults
// all/newest for empty fields.
func ParseTodoFilter(query, status, order string) (models.TodoFilter, error) {
	f := models.TodoFilter{
		Query:  query,
		Status: models.TodoStatusFilter(strings.ToLower(strings.TrimSpace(status))),
		Order:  models.TodoSortOrder(strings.ToLower(strings.TrimSpace(order))),
	}
	switch f.Status {
	case "":
		f.Status = models.FilterAll
	case models.FilterAll, models.FilterActive, models.FilterCompleted:
	default:
		return f, validationError("status must be all, active or completed")
	}
	switch f.Order {
	case "":
		f.Order = models.OrderNewest
	case models.OrderNewest, models.OrderOldest:
	default:
		return f, validationError("order must be newest or oldest")
	}
	return f, nil
}

// FilterAndSort returns a new slice holding the todos that match f, ordered
// by creation time. Todos with equal timestamps keep their input order.
func FilterAndSort(todos []models.Todo, f models.TodoFilter) []models.Todo {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]models.Todo, 0, len(todos))
	for _, t := range todos {
		if query != "" && !strings.Contains(strings.ToLower(t.Text), query) {
			continue
		}
		switch f.Status {
		case models.FilterActive:
			if t.Completed {
				continue
			}
		case models.FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}

	oldestFirst := f.Order == models.OrderOldest
	sort.SliceStable(out, func(i, j int) bool {
		if oldestFirst {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// FilterLists applies f to each view.
func FilterLists(lists models.TodoLists, f models.TodoFilter) models.TodoLists {
	return models.TodoLists{
		Mine:         FilterAndSort(lists.Mine, f),
		SharedWithMe: FilterAndSort(lists.SharedWithMe, f),
		SharedByMe:   FilterAndSort(lists.SharedByMe, f),
	}
}

// ComputeStats summarizes the user's own tasks and how many they shared.
func ComputeStats(lists models.TodoLists) models.TodoStats {
	stats := models.TodoStats{
		Total:  len(lists.Mine),
		Shared: len(lists.SharedByMe),
	}
	for _, t := range lists.Mine {
		if t.Completed {
			stats.Completed++
		}
	}
	stats.Active = max(stats.Total-stats.Completed, 0)
	if stats.Total > 0 {
		stats.CompletionRate = int(float64(stats.Completed)/float64(stats.Total)*100 + 0.5)
	}
	return stats
}
