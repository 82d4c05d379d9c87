package services

import (
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/pritamkumarbishwas/backend/internal/models"
	"github.com/pritamkumarbishwas/backend/internal/repositories"
)

// In-memory repository fakes. Mutating methods mirror the SQL layer's
// behavior, including sql.ErrNoRows on missing ids.

type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]*models.User{}}
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) add(name, email string) *models.User {
	u := &models.User{Name: name, Email: email, Pic: models.DefaultPic, PasswordHash: "$2a$10$fake"}
	_ = r.Create(u)
	return u
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByIDs(ids []int) ([]*models.User, error) {
	sorted := append([]int{}, ids...)
	sort.Ints(sorted)
	var out []*models.User
	for _, id := range sorted {
		if u, ok := r.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Search(keyword string, excludeID int) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.users {
		if u.ID == excludeID {
			continue
		}
		if keyword == "" ||
			strings.Contains(strings.ToLower(u.Name), strings.ToLower(keyword)) ||
			strings.Contains(strings.ToLower(u.Email), strings.ToLower(keyword)) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeChatRepo struct {
	chats  map[int]*models.Chat
	nextID int
	clock  time.Time
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: map[int]*models.Chat{}, clock: time.Now()}
}

var _ repositories.ChatRepository = (*fakeChatRepo)(nil)

func (r *fakeChatRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func copyChat(c *models.Chat) *models.Chat {
	cp := *c
	cp.MemberIDs = append([]int{}, c.MemberIDs...)
	cp.Users = nil
	cp.GroupAdmin = nil
	cp.LatestMessage = nil
	return &cp
}

func (r *fakeChatRepo) Create(chat *models.Chat) error {
	r.nextID++
	chat.ID = r.nextID
	chat.CreatedAt = r.tick()
	chat.UpdatedAt = chat.CreatedAt
	r.chats[chat.ID] = copyChat(chat)
	return nil
}

func (r *fakeChatRepo) GetByID(id int) (*models.Chat, error) {
	c, ok := r.chats[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyChat(c), nil
}

func (r *fakeChatRepo) FindDirect(userA, userB int) (*models.Chat, error) {
	want := []int{userA, userB}
	sort.Ints(want)
	for _, c := range r.chats {
		if c.IsGroup || len(c.MemberIDs) != 2 {
			continue
		}
		have := append([]int{}, c.MemberIDs...)
		sort.Ints(have)
		if have[0] == want[0] && have[1] == want[1] {
			return copyChat(c), nil
		}
	}
	return nil, nil
}

func (r *fakeChatRepo) ListForUser(userID int) ([]*models.Chat, error) {
	var out []*models.Chat
	for _, c := range r.chats {
		for _, m := range c.MemberIDs {
			if m == userID {
				out = append(out, copyChat(c))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeChatRepo) Rename(chatID int, name string) error {
	c, ok := r.chats[chatID]
	if !ok {
		return sql.ErrNoRows
	}
	c.Name = name
	c.UpdatedAt = r.tick()
	return nil
}

func (r *fakeChatRepo) AddMember(chatID, userID int) error {
	c, ok := r.chats[chatID]
	if !ok {
		return sql.ErrNoRows
	}
	for _, m := range c.MemberIDs {
		if m == userID {
			return nil
		}
	}
	c.MemberIDs = append(c.MemberIDs, userID)
	return nil
}

func (r *fakeChatRepo) RemoveMember(chatID, userID int) error {
	c, ok := r.chats[chatID]
	if !ok {
		return sql.ErrNoRows
	}
	for i, m := range c.MemberIDs {
		if m == userID {
			c.MemberIDs = append(c.MemberIDs[:i], c.MemberIDs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeChatRepo) SetLatestMessage(chatID, messageID int) error {
	c, ok := r.chats[chatID]
	if !ok {
		return sql.ErrNoRows
	}
	id := messageID
	c.LatestMessageID = &id
	c.UpdatedAt = r.tick()
	return nil
}

type fakeMessageRepo struct {
	messages map[int]*models.Message
	nextID   int
	clock    time.Time
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: map[int]*models.Message{}, clock: time.Now()}
}

var _ repositories.MessageRepository = (*fakeMessageRepo)(nil)

func copyMessage(m *models.Message) *models.Message {
	cp := *m
	cp.Sender = nil
	cp.Chat = nil
	return &cp
}

func (r *fakeMessageRepo) Create(msg *models.Message) error {
	r.nextID++
	r.clock = r.clock.Add(time.Second)
	msg.ID = r.nextID
	msg.CreatedAt = r.clock
	msg.UpdatedAt = r.clock
	r.messages[msg.ID] = copyMessage(msg)
	return nil
}

func (r *fakeMessageRepo) GetByID(id int) (*models.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyMessage(m), nil
}

func (r *fakeMessageRepo) ListForChat(chatID int) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range r.messages {
		if m.ChatID == chatID {
			out = append(out, copyMessage(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMessageRepo) UpdateContent(id int, content string) (*models.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	m.Content = content
	m.UpdatedAt = m.UpdatedAt.Add(time.Second)
	return copyMessage(m), nil
}

func (r *fakeMessageRepo) Delete(id int) error {
	if _, ok := r.messages[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.messages, id)
	return nil
}
