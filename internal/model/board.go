package model

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// User is a board member. Users are reference data: boards and tasks point
// at them but never modify them.
type User struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Email      string `json:"email" yaml:"email"`
	Color      string `json:"color" yaml:"color"`
	Role       string `json:"role,omitempty" yaml:"role,omitempty"`
	Department string `json:"department,omitempty" yaml:"department,omitempty"`
}

// Initials returns up to two upper-case initials for avatar badges.
func (u User) Initials() string {
	var out []rune
	for _, word := range strings.Fields(u.Name) {
		r, _ := utf8.DecodeRuneInString(word)
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// Board is a named, ordered collection of tasks plus its members.
// A board exclusively owns its tasks.
type Board struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	Tasks       []Task    `json:"tasks"`
	Members     []User    `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a deep copy of b. The copy shares no slices or pointers
// with the original.
func (b Board) Clone() Board {
	out := b
	out.Tasks = make([]Task, len(b.Tasks))
	for i, t := range b.Tasks {
		out.Tasks[i] = t.Clone()
	}
	out.Members = make([]User, len(b.Members))
	copy(out.Members, b.Members)
	return out
}

// Member looks up a member by ID.
func (b Board) Member(id string) (User, bool) {
	for _, u := range b.Members {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// TaskIndex returns the position of the task with the given ID in the
// board's task order, or -1.
func (b Board) TaskIndex(id string) int {
	for i := range b.Tasks {
		if b.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Column is a derived, read-only grouping of tasks sharing a status.
type Column struct {
	ID    Status `json:"id"`
	Title string `json:"title"`
	Color string `json:"color"`
	Tasks []Task `json:"tasks"`
}
