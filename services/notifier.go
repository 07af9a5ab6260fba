package services

const (
	EventTodosChanged   = "todos_changed"
	EventFriendsChanged = "friends_changed"
	EventProfileChanged = "profile_changed"
)

// Notifier tells connected sessions that a collection they render changed
// so they refetch it.
type Notifier interface {
	Notify(event string, userIDs ...string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, ...string) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
