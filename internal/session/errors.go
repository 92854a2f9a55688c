package session

import "fmt"

// ErrItemPoolEmpty indicates Start was called with no items available, e.g.
// after a topic filter matched nothing. The session never leaves NotStarted;
// the caller may retry with a different pool.
type ErrItemPoolEmpty struct {
	Topic string
}

func (e *ErrItemPoolEmpty) Error() string {
	if e.Topic != "" {
		return fmt.Sprintf("item pool is empty for topic %q", e.Topic)
	}
	return "item pool is empty"
}

// ErrInvalidState indicates an operation was attempted outside its valid
// session state. Always a caller bug; never retried.
type ErrInvalidState struct {
	Op    string
	State State
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("%s is not valid in session state %s", e.Op, e.State)
}

// ErrUnknownItem indicates a recorded response references an item that is
// not part of the session's pool.
type ErrUnknownItem struct {
	ItemID string
}

func (e *ErrUnknownItem) Error() string {
	return fmt.Sprintf("item %q is not in the session pool", e.ItemID)
}

// ErrDuplicateItem indicates a response was recorded twice for the same item.
type ErrDuplicateItem struct {
	ItemID string
}

func (e *ErrDuplicateItem) Error() string {
	return fmt.Sprintf("item %q was already administered", e.ItemID)
}
