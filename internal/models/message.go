package models

import "time"

type Message struct {
	ID       int    `json:"id"`
	SenderID int    `json:"sender_id"`
	ChatID   int    `json:"chat_id"`
	Content  string `json:"content"`

	Sender *User `json:"sender,omitempty"`
	Chat   *Chat `json:"chat,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
