package domain

// EventKind tags a change-feed notification.
type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// ChangeEvent is one notification from the post table's change feed.
// Post carries the affected record; for deletes it is the prior record
// (at minimum its id).
type ChangeEvent struct {
	Kind EventKind
	Post Post
}
