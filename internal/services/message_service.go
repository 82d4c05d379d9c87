package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/pritamkumarbishwas/backend/internal/models"
	"github.com/pritamkumarbishwas/backend/internal/repositories"
)

type MessageService struct {
	repo     repositories.MessageRepository
	chats    repositories.ChatRepository
	resolver *Resolver
}

func NewMessageService(repo repositories.MessageRepository, chats repositories.ChatRepository, resolver *Resolver) *MessageService {
	return &MessageService{repo: repo, chats: chats, resolver: resolver}
}

// ListMessages returns the chat's messages in creation order, each with its
// sender resolved (name, pic, email) and the owning chat attached with its
// members resolved.
func (s *MessageService) ListMessages(chatID int) ([]*models.Message, error) {
	chat, err := s.resolvedChat(chatID)
	if err != nil {
		return nil, err
	}

	messages, err := s.repo.ListForChat(chatID)
	if err != nil {
		return nil, err
	}
	for _, msg := range messages {
		if err := s.resolver.ResolveMessageSender(msg, UserFieldsContact); err != nil {
			return nil, err
		}
		msg.Chat = chat
	}
	return messages, nil
}

// SendMessage persists the message, attaches the resolved views and updates
// the owning chat's latest-message pointer. The sender view is deliberately
// partial here (name and pic, no email), unlike on list.
func (s *MessageService) SendMessage(senderID, chatID int, content string) (*models.Message, error) {
	if content == "" || chatID == 0 {
		return nil, fmt.Errorf("%w: content and chatId are required", ErrInvalidRequest)
	}
	chat, err := s.resolvedChat(chatID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.repo.Create(msg); err != nil {
		return nil, err
	}
	if err := s.resolver.ResolveMessageSender(msg, UserFieldsBasic); err != nil {
		return nil, err
	}
	msg.Chat = chat

	if err := s.chats.SetLatestMessage(chatID, msg.ID); err != nil {
		// the message is already persisted; surface nothing to the sender
		log.Printf("[message][send] warning: failed to update latest message for chat=%d: %v", chatID, err)
	}
	return msg, nil
}

// EditMessage replaces the content and returns the raw updated record,
// without resolving references.
func (s *MessageService) EditMessage(messageID int, content string) (*models.Message, error) {
	msg, err := s.repo.UpdateContent(messageID, content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return msg, nil
}

// DeleteMessage removes the message. The owning chat's latest-message pointer
// is left as-is even when it references the deleted id; readers tolerate the
// dangling pointer.
func (s *MessageService) DeleteMessage(messageID int) error {
	if err := s.repo.Delete(messageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMessageNotFound
		}
		return err
	}
	return nil
}

func (s *MessageService) resolvedChat(chatID int) (*models.Chat, error) {
	chat, err := s.chats.GetByID(chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if err := s.resolver.ResolveChat(chat, false); err != nil {
		return nil, err
	}
	return chat, nil
}
