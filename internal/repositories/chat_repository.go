package repositories

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/pritamkumarbishwas/backend/internal/models"
)

type ChatRepository interface {
	Create(chat *models.Chat) error
	GetByID(id int) (*models.Chat, error)
	// FindDirect looks up the non-group chat whose member set is exactly
	// {userA, userB}. Returns (nil, nil) when no such chat exists.
	FindDirect(userA, userB int) (*models.Chat, error)
	ListForUser(userID int) ([]*models.Chat, error)
	Rename(chatID int, name string) error
	AddMember(chatID, userID int) error
	RemoveMember(chatID, userID int) error
	SetLatestMessage(chatID, messageID int) error
}

type chatRepository struct {
	DB *sql.DB
}

func NewChatRepository(db *sql.DB) ChatRepository {
	return &chatRepository{DB: db}
}

const chatSelect = `
                SELECT c.id, c.name, c.is_group, c.admin_id, c.latest_message_id,
                       c.created_at, c.updated_at,
                       COALESCE(array_agg(cm.user_id ORDER BY cm.user_id) FILTER (WHERE cm.user_id IS NOT NULL), '{}') AS members
                FROM chats c
                LEFT JOIN chat_members cm ON cm.chat_id = c.id
`

func scanChat(row interface{ Scan(...interface{}) error }) (*models.Chat, error) {
	chat := &models.Chat{}
	var (
		adminID  sql.NullInt64
		latestID sql.NullInt64
		members  pq.Int64Array
	)
	if err := row.Scan(&chat.ID, &chat.Name, &chat.IsGroup, &adminID, &latestID,
		&chat.CreatedAt, &chat.UpdatedAt, &members); err != nil {
		return nil, err
	}
	if adminID.Valid {
		id := int(adminID.Int64)
		chat.AdminID = &id
	}
	if latestID.Valid {
		id := int(latestID.Int64)
		chat.LatestMessageID = &id
	}
	for _, m := range members {
		chat.MemberIDs = append(chat.MemberIDs, int(m))
	}
	return chat, nil
}

func (r *chatRepository) Create(chat *models.Chat) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
                INSERT INTO chats (name, is_group, admin_id)
                VALUES ($1, $2, $3)
                RETURNING id, created_at, updated_at
        `
	var adminID interface{}
	if chat.AdminID != nil {
		adminID = *chat.AdminID
	}
	if err := tx.QueryRow(q, chat.Name, chat.IsGroup, adminID).
		Scan(&chat.ID, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
		return err
	}

	const qm = `INSERT INTO chat_members (chat_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	for _, userID := range chat.MemberIDs {
		if _, err := tx.Exec(qm, chat.ID, userID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *chatRepository) GetByID(id int) (*models.Chat, error) {
	const q = chatSelect + `
                WHERE c.id = $1
                GROUP BY c.id
        `
	return scanChat(r.DB.QueryRow(q, id))
}

func (r *chatRepository) FindDirect(userA, userB int) (*models.Chat, error) {
	pair := pq.Int64Array{int64(userA), int64(userB)}
	if userB < userA {
		pair[0], pair[1] = pair[1], pair[0]
	}
	// Exact member-set match: a superset (e.g. a group containing both users)
	// must not be returned.
	const q = chatSelect + `
                WHERE c.is_group = FALSE
                GROUP BY c.id
                HAVING array_agg(cm.user_id ORDER BY cm.user_id) = $1::int[]
                LIMIT 1
        `
	chat, err := scanChat(r.DB.QueryRow(q, pair))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return chat, nil
}

func (r *chatRepository) ListForUser(userID int) ([]*models.Chat, error) {
	const q = chatSelect + `
                WHERE c.id IN (SELECT chat_id FROM chat_members WHERE user_id = $1)
                GROUP BY c.id
                ORDER BY c.updated_at DESC
        `
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []*models.Chat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (r *chatRepository) Rename(chatID int, name string) error {
	const q = `UPDATE chats SET name = $2, updated_at = NOW() WHERE id = $1 RETURNING id`
	var id int
	return r.DB.QueryRow(q, chatID, name).Scan(&id)
}

func (r *chatRepository) AddMember(chatID, userID int) error {
	const q = `INSERT INTO chat_members (chat_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	_, err := r.DB.Exec(q, chatID, userID)
	return err
}

// RemoveMember is idempotent: removing an absent member is not an error.
func (r *chatRepository) RemoveMember(chatID, userID int) error {
	const q = `DELETE FROM chat_members WHERE chat_id = $1 AND user_id = $2`
	_, err := r.DB.Exec(q, chatID, userID)
	return err
}

func (r *chatRepository) SetLatestMessage(chatID, messageID int) error {
	const q = `UPDATE chats SET latest_message_id = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.Exec(q, chatID, messageID)
	return err
}
