package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // не отдаём наружу
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`

	// чат для уведомлений, 0 = не привязан
	TelegramChatID int64 `json:"telegram_chat_id,omitempty"`
}

// Requester is the authenticated caller of an operation.
type Requester struct {
	ID    string
	Email string
	Role  string
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
