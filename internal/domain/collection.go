package domain

import (
	"time"
	"unicode/utf8"
)

// VerbList is a personal, named collection of verbs.
type VerbList struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	ItemCount int       `json:"itemCount"`
	CreatedAt time.Time `json:"createdAt"`
}

type VerbListItem struct {
	ID        int64      `json:"id"`
	ListID    int64      `json:"listId"`
	Verb      Verb       `json:"verb"`
	Due       *time.Time `json:"due,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

const maxListNameLen = 64

func NormalizeListName(name string) (string, error) {
	name = CleanText(name)
	if name == "" {
		return "", Invalid("name", "must not be empty")
	}
	if utf8.RuneCountInString(name) > maxListNameLen {
		return "", Invalid("name", "must be at most %d characters", maxListNameLen)
	}
	return name, nil
}

type Favorite struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Verb      Verb      `json:"verb"`
	CreatedAt time.Time `json:"createdAt"`
}
