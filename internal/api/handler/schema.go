package handler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// messageResponse is the envelope for errors and plain confirmations.
type messageResponse struct {
	Message string `json:"message"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type createEntryRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        *entryDate `json:"date"`
	Location    string     `json:"location"`
	Photos      []string   `json:"photos"`
}

// updateEntryRequest uses pointers so absent fields can be told apart from
// zero values.
type updateEntryRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Date        *entryDate `json:"date"`
	Location    *string    `json:"location"`
	Photos      *[]string  `json:"photos"`
}

type entryResponse struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Photos      []string  `json:"photos"`
}

var entryDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// entryDate is a request timestamp. It accepts RFC 3339, a bare
// "YYYY-MM-DD" day, or a JSON number of Unix milliseconds. Times without a
// zone are UTC.
type entryDate time.Time

func (d *entryDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] != '"' {
		ms, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("date: %w", err)
		}
		*d = entryDate(time.UnixMilli(int64(ms)).UTC())
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range entryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*d = entryDate(t.UTC())
			return nil
		}
	}
	return fmt.Errorf("date: unsupported format %q", s)
}

func (d *entryDate) toTime() *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}
