package domain

import "time"

// DiaryEntry is a single travel diary record.
type DiaryEntry struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"       validate:"required"`
	Description string    `json:"description" validate:"required"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"    validate:"required"`
	Photos      []string  `json:"photos"`
}

// DiaryEntryPatch carries the fields of a merge-update. Nil fields are left
// untouched in the store.
type DiaryEntryPatch struct {
	Title       *string
	Description *string
	Date        *time.Time
	Location    *string
	Photos      *[]string
}

// IsEmpty reports whether the patch would change nothing.
func (p DiaryEntryPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil && p.Location == nil && p.Photos == nil
}
