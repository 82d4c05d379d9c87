package repositories

import (
	"database/sql"

	"github.com/pritamkumarbishwas/backend/internal/models"
)

type MessageRepository interface {
	Create(msg *models.Message) error
	GetByID(id int) (*models.Message, error)
	ListForChat(chatID int) ([]*models.Message, error)
	UpdateContent(id int, content string) (*models.Message, error)
	Delete(id int) error
}

type messageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{DB: db}
}

func scanMessage(row interface{ Scan(...interface{}) error }) (*models.Message, error) {
	msg := &models.Message{}
	if err := row.Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &msg.Content,
		&msg.CreatedAt, &msg.UpdatedAt); err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *messageRepository) Create(msg *models.Message) error {
	const q = `
                INSERT INTO messages (chat_id, sender_id, content)
                VALUES ($1, $2, $3)
                RETURNING id, created_at, updated_at
        `
	return r.DB.QueryRow(q, msg.ChatID, msg.SenderID, msg.Content).
		Scan(&msg.ID, &msg.CreatedAt, &msg.UpdatedAt)
}

func (r *messageRepository) GetByID(id int) (*models.Message, error) {
	const q = `
                SELECT id, chat_id, sender_id, content, created_at, updated_at
                FROM messages
                WHERE id = $1
        `
	return scanMessage(r.DB.QueryRow(q, id))
}

func (r *messageRepository) ListForChat(chatID int) ([]*models.Message, error) {
	const q = `
                SELECT id, chat_id, sender_id, content, created_at, updated_at
                FROM messages
                WHERE chat_id = $1
                ORDER BY created_at ASC, id ASC
        `
	rows, err := r.DB.Query(q, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *messageRepository) UpdateContent(id int, content string) (*models.Message, error) {
	const q = `
                UPDATE messages
                SET content = $2, updated_at = NOW()
                WHERE id = $1
                RETURNING id, chat_id, sender_id, content, created_at, updated_at
        `
	return scanMessage(r.DB.QueryRow(q, id, content))
}

func (r *messageRepository) Delete(id int) error {
	const q = `DELETE FROM messages WHERE id = $1 RETURNING id`
	var deleted int
	return r.DB.QueryRow(q, id).Scan(&deleted)
}
