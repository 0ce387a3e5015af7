package models

import "time"

// Post represents a post stored in the 'posts' table.
// UserID references the author in users.id and is the field the ownership
// check compares against.
type Post struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Photo     string    `db:"photo" json:"photo"`
	UserID    string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
