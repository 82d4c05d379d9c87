package services

import (
	"database/sql"
	"errors"
	"log"

	"github.com/pritamkumarbishwas/backend/internal/models"
	"github.com/pritamkumarbishwas/backend/internal/repositories"
)

// UserFields selects which display attributes of a referenced user are
// materialized. Credential material is never included either way.
type UserFields int

const (
	// UserFieldsBasic is name and pic only; used when returning a freshly
	// sent message.
	UserFieldsBasic UserFields = iota
	// UserFieldsContact adds email; used everywhere a chat or message list
	// is returned.
	UserFieldsContact
)

// Resolver materializes stored references (member ids, admin id, latest
// message id, sender id) into display views. Each step is explicit and
// composable: callers pick which references to expand instead of relying on
// implicit cascading.
type Resolver struct {
	users    repositories.UserRepository
	messages repositories.MessageRepository
}

func NewResolver(users repositories.UserRepository, messages repositories.MessageRepository) *Resolver {
	return &Resolver{users: users, messages: messages}
}

func userView(u *models.User, fields UserFields) models.User {
	view := models.User{
		ID:        u.ID,
		Name:      u.Name,
		Pic:       u.Pic,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if fields == UserFieldsContact {
		view.Email = u.Email
	}
	return view
}

// ResolveChat expands the chat's member and admin references. When
// withLatestMessage is set and the chat has a latest-message pointer, the
// message is expanded too, with its sender resolved to contact fields. A
// pointer to a deleted message is tolerated: the latest message is simply
// left out.
func (r *Resolver) ResolveChat(chat *models.Chat, withLatestMessage bool) error {
	members, err := r.users.GetByIDs(chat.MemberIDs)
	if err != nil {
		return err
	}
	chat.Users = make([]models.User, 0, len(members))
	for _, m := range members {
		chat.Users = append(chat.Users, userView(m, UserFieldsContact))
	}

	if chat.AdminID != nil {
		admin, err := r.users.GetByID(*chat.AdminID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if admin != nil {
			view := userView(admin, UserFieldsContact)
			chat.GroupAdmin = &view
		}
	}

	if withLatestMessage && chat.LatestMessageID != nil {
		msg, err := r.messages.GetByID(*chat.LatestMessageID)
		if errors.Is(err, sql.ErrNoRows) {
			// The pointed-at message was deleted; the pointer is not
			// recomputed on delete.
			log.Printf("[resolver][chat] chat=%d latest message %d no longer exists", chat.ID, *chat.LatestMessageID)
			return nil
		}
		if err != nil {
			return err
		}
		if err := r.ResolveMessageSender(msg, UserFieldsContact); err != nil {
			return err
		}
		chat.LatestMessage = msg
	}
	return nil
}

// ResolveMessageSender expands the message's sender reference with the given
// field subset.
func (r *Resolver) ResolveMessageSender(msg *models.Message, fields UserFields) error {
	sender, err := r.users.GetByID(msg.SenderID)
	if err != nil {
		return err
	}
	view := userView(sender, fields)
	msg.Sender = &view
	return nil
}
