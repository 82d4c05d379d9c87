package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pritamkumarbishwas/backend/internal/services"
)

type ChatHandler struct {
	service *services.ChatService
}

func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

type accessChatRequest struct {
	TargetUserID int `json:"targetUserId"`
}

type createGroupRequest struct {
	Name      string `json:"name"`
	MemberIDs []int  `json:"memberIds"`
}

type renameChatRequest struct {
	ChatID int    `json:"chatId"`
	Name   string `json:"name"`
}

type chatMemberRequest struct {
	ChatID int `json:"chatId"`
	UserID int `json:"userId"`
}

// List returns the caller's chats, most recently updated first.
func (h *ChatHandler) List(c *gin.Context) {
	chats, err := h.service.ListUserChats(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

// Access fetches the direct chat with the target user, creating it on first
// contact.
func (h *ChatHandler) Access(c *gin.Context) {
	var req accessChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chat, err := h.service.AccessChat(currentUserID(c), req.TargetUserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *ChatHandler) CreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chat, err := h.service.CreateGroupChat(currentUserID(c), req.Name, req.MemberIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *ChatHandler) Rename(c *gin.Context) {
	var req renameChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chat, err := h.service.RenameChat(req.ChatID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *ChatHandler) AddMember(c *gin.Context) {
	var req chatMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chat, err := h.service.AddMember(req.ChatID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *ChatHandler) RemoveMember(c *gin.Context) {
	var req chatMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chat, err := h.service.RemoveMember(req.ChatID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}
