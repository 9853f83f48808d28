package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt    time.Time `json:"timestamp"`
}

type Post struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"not null"                 json:"title"`
	Content   string    `gorm:"not null"                 json:"content"`
	AuthorID  uint      `gorm:"index;not null"           json:"author_id"`
	CreatedAt time.Time `json:"timestamp"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    uint      `gorm:"index;not null"           json:"post_id"`
	Content   string    `gorm:"not null"                 json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// Excerpt is what the post list endpoint shows instead of the full body.
func (p Post) Excerpt() string {
	const max = 150
	runes := []rune(p.Content)
	if len(runes) <= max {
		return p.Content
	}
	return string(runes[:max]) + "..."
}
