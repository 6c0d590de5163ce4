package domain

import "time"

// Session binds a bearer token to its owning user with an expiry. A user may
// hold many sessions at once. Refresh replaces Token and ExpiresAt in place,
// so the session identity persists across refreshes; logout deletes the row.
// An expired session is treated as invalid where it lies, not auto-deleted.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"index;not null"`
	User      User      `json:"-" gorm:"foreignKey:UserID;references:ID"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// Expired reports whether the session's expiry has passed at t.
func (s Session) Expired(t time.Time) bool {
	return t.After(s.ExpiresAt)
}
