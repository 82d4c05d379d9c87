package models

import "time"

// Chat is a conversation between two users (direct) or three and more (group).
// MemberIDs/AdminID/LatestMessageID are the stored references; Users,
// GroupAdmin and LatestMessage are filled by the resolver for API output.
type Chat struct {
	ID              int    `json:"id"`
	Name            string `json:"chatName"`
	IsGroup         bool   `json:"isGroupChat"`
	MemberIDs       []int  `json:"-"`
	AdminID         *int   `json:"-"`
	LatestMessageID *int   `json:"-"`

	Users         []User   `json:"users,omitempty"`
	GroupAdmin    *User    `json:"groupAdmin,omitempty"`
	LatestMessage *Message `json:"latestMessage,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasMember reports whether userID is in the stored member set.
func (c *Chat) HasMember(userID int) bool {
	for _, id := range c.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
