package domain

import "time"

// MaxTaskTextLength mirrors the width of the task column.
const MaxTaskTextLength = 300

// MaxOrder bounds order keys to integers a JSON client can represent exactly,
// leaving room for the next key a create assigns.
const MaxOrder int64 = 1 << 53

// Task is a single to-do item filed under its owner's dashboard column.
type Task struct {
	ID        int64
	Text      string
	Completed bool
	OwnerID   int64
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
	Order     int64
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Text      *string
	Completed *bool
}

// Empty reports whether the patch changes nothing besides updated_at.
func (p TaskPatch) Empty() bool {
	return p.Text == nil && p.Completed == nil
}

// Session is a server-side record backing an issued session token.
type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
