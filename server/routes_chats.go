// routes_chats.go - Verlaufs-Handler
// Enthaelt: ListChatsHandler, GetChatHandler, DeleteChatHandler, RenameChatHandler

package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/7blacky7/videocompanion/api"
	"github.com/7blacky7/videocompanion/app/store"
)

func chatInfo(chat store.Chat) api.ChatInfo {
	return api.ChatInfo{
		ID:        chat.ID,
		Title:     chat.Title,
		VideoID:   chat.VideoID,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
	}
}

// storeError uebersetzt Fehler des Verlaufs in HTTP-Antworten
func storeError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (s *Server) ListChatsHandler(c *gin.Context) {
	chats, err := s.store.Chats()
	if err != nil {
		storeError(c, err)
		return
	}

	resp := api.ChatsResponse{Chats: []api.ChatInfo{}}
	for _, chat := range chats {
		resp.Chats = append(resp.Chats, chatInfo(chat))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetChatHandler(c *gin.Context) {
	chat, err := s.store.Chat(c.Param("id"))
	if err != nil {
		storeError(c, err)
		return
	}

	resp := api.Chat{ChatInfo: chatInfo(*chat), Messages: []api.Message{}}
	for _, m := range chat.Messages {
		resp.Messages = append(resp.Messages, api.Message{
			ID:           m.ID,
			Role:         m.Role,
			Content:      m.Content,
			Reasoning:    m.Reasoning,
			Segments:     m.Segments,
			BoundarySeen: m.BoundarySeen,
			CreatedAt:    m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteChatHandler(c *gin.Context) {
	if err := s.store.DeleteChat(c.Param("id")); err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) RenameChatHandler(c *gin.Context) {
	var req api.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	if err := s.store.RenameChat(c.Param("id"), title); err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
