package models

import (
	"strings"
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Email        string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false"    json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Game is a catalogue entry. Price and Size are display strings such as
// "$19.99", "Free", "6.78gb" or "450mb".
type Game struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"size:150;not null;index"  json:"title"`
	Description string    `gorm:"type:text"                json:"description"`
	Developer   string    `gorm:"size:150"                 json:"developer"`
	Publisher   string    `gorm:"size:150"                 json:"publisher"`
	Price       string    `gorm:"size:32"                  json:"price"`
	Size        string    `gorm:"size:32"                  json:"size"`
	Genre       string    `gorm:"size:255"                 json:"genre"`
	AgeRating   string    `gorm:"size:16"                  json:"age_rating"`
	VideoURL    string    `gorm:"size:512"                 json:"video_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Genres splits the comma separated genre field into trimmed, non-empty tags.
func (g Game) Genres() []string {
	if g.Genre == "" {
		return nil
	}
	parts := strings.Split(g.Genre, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Ownership marks a game as purchased by a user. Rows are ordered by ID, which
// is the acquisition order.
type Ownership struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"          json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_game;not null" json:"user_id"`
	GameID    uint      `gorm:"uniqueIndex:idx_user_game;not null;index" json:"game_id"`
	CreatedAt time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	JTI       string `gorm:"uniqueIndex;not null" json:"jti"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

// Session holds per-browser state (cart, flash notices) as a JSON object.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Data      string    `gorm:"type:text;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time
}
