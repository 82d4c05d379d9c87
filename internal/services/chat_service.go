package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pritamkumarbishwas/backend/internal/models"
	"github.com/pritamkumarbishwas/backend/internal/repositories"
)

// ChatService owns the conversation model: direct-chat lookup/creation, the
// chat list, group management and the latest-message pointer.
type ChatService struct {
	repo     repositories.ChatRepository
	resolver *Resolver
}

func NewChatService(repo repositories.ChatRepository, resolver *Resolver) *ChatService {
	return &ChatService{repo: repo, resolver: resolver}
}

// AccessChat returns the direct chat between caller and other, creating it if
// none exists. The lookup and the create are not serialized: two concurrent
// calls for the same pair can each create a chat. Accepted race.
func (s *ChatService) AccessChat(callerID, otherID int) (*models.Chat, error) {
	if otherID == 0 {
		return nil, fmt.Errorf("%w: userId param not sent with request", ErrInvalidRequest)
	}

	chat, err := s.repo.FindDirect(callerID, otherID)
	if err != nil {
		return nil, err
	}
	if chat != nil {
		if err := s.resolver.ResolveChat(chat, true); err != nil {
			return nil, err
		}
		return chat, nil
	}

	chat = &models.Chat{
		Name:      "sender",
		IsGroup:   false,
		MemberIDs: []int{callerID, otherID},
	}
	if err := s.repo.Create(chat); err != nil {
		return nil, err
	}
	return s.getResolved(chat.ID, false)
}

// ListUserChats returns every chat the user is a member of, most recently
// updated first, fully resolved including the latest message and its sender.
func (s *ChatService) ListUserChats(userID int) ([]*models.Chat, error) {
	chats, err := s.repo.ListForUser(userID)
	if err != nil {
		return nil, err
	}
	for _, chat := range chats {
		if err := s.resolver.ResolveChat(chat, true); err != nil {
			return nil, err
		}
	}
	return chats, nil
}

// CreateGroupChat creates a group with the caller as admin. The caller is
// added on top of the given members, so at least two others are required.
func (s *ChatService) CreateGroupChat(callerID int, name string, memberIDs []int) (*models.Chat, error) {
	if name == "" || len(memberIDs) == 0 {
		return nil, fmt.Errorf("%w: please fill all the fields", ErrInvalidRequest)
	}
	if len(memberIDs) < 2 {
		return nil, fmt.Errorf("%w: more than 2 users are required to form a group chat", ErrInvalidRequest)
	}

	admin := callerID
	chat := &models.Chat{
		Name:      name,
		IsGroup:   true,
		AdminID:   &admin,
		MemberIDs: append(append([]int{}, memberIDs...), callerID),
	}
	if err := s.repo.Create(chat); err != nil {
		return nil, err
	}
	return s.getResolved(chat.ID, false)
}

func (s *ChatService) RenameChat(chatID int, name string) (*models.Chat, error) {
	if err := s.repo.Rename(chatID, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return s.getResolved(chatID, false)
}

func (s *ChatService) AddMember(chatID, userID int) (*models.Chat, error) {
	if _, err := s.getChat(chatID); err != nil {
		return nil, err
	}
	if err := s.repo.AddMember(chatID, userID); err != nil {
		return nil, err
	}
	return s.getResolved(chatID, false)
}

// RemoveMember is permissive: removing the admin or the last members is
// allowed, and removing a non-member is a no-op that still returns the chat.
func (s *ChatService) RemoveMember(chatID, userID int) (*models.Chat, error) {
	if _, err := s.getChat(chatID); err != nil {
		return nil, err
	}
	if err := s.repo.RemoveMember(chatID, userID); err != nil {
		return nil, err
	}
	return s.getResolved(chatID, false)
}

// SetLatestMessage overwrites the chat's latest-message pointer. Best-effort,
// not transactional with message creation.
func (s *ChatService) SetLatestMessage(chatID, messageID int) error {
	return s.repo.SetLatestMessage(chatID, messageID)
}

func (s *ChatService) getChat(chatID int) (*models.Chat, error) {
	chat, err := s.repo.GetByID(chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return chat, nil
}

func (s *ChatService) getResolved(chatID int, withLatestMessage bool) (*models.Chat, error) {
	chat, err := s.getChat(chatID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.ResolveChat(chat, withLatestMessage); err != nil {
		return nil, err
	}
	return chat, nil
}
