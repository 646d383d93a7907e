package router

import (
	"errors"
	"net/http"
	"strconv"

	"shop/internal/middleware"
	"shop/internal/model"
	"shop/internal/shop"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// createTicket opens a chat and stores its first message in one
// transaction.
func createTicket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Title   string `json:"title" binding:"required,max=200"`
			Content string `json:"content" binding:"required,max=500"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}

		user := middleware.CurrentUser(c)
		chat := &model.Chat{Title: req.Title, CreatorID: user.ID}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(chat).Error; err != nil {
				return err
			}
			msg := &model.Message{ChatID: chat.ID, UserID: user.ID, Content: req.Content}
			return tx.Create(msg).Error
		})
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, chat)
	}
}

// listTickets: staff see all open chats, customers see their own.
func listTickets(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		q := db.Preload("Creator")
		if user.IsStaff {
			q = model.OpenChats(q)
		} else {
			q = q.Where("creator_id = ?", user.ID)
		}
		var chats []model.Chat
		if err := q.Order("created_at DESC").Find(&chats).Error; err != nil {
			fail(c, err)
			return
		}
		ok(c, chats)
	}
}

func getTicket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		chat, found := chatByParam(db, c)
		if !found {
			return
		}
		user := middleware.CurrentUser(c)
		if !user.IsStaff && chat.CreatorID != user.ID {
			fail(c, shop.ErrPermissionDenied)
			return
		}
		ok(c, chat)
	}
}

// createMessage appends to an open chat. Only staff and the chat's creator
// may reply.
func createMessage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Content string `json:"content" binding:"required,max=500"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}

		chat, found := chatByParam(db, c)
		if !found {
			return
		}
		if !chat.IsOpen {
			fail(c, shop.ErrChatClosed)
			return
		}
		user := middleware.CurrentUser(c)
		if !user.IsStaff && chat.CreatorID != user.ID {
			fail(c, shop.ErrPermissionDenied)
			return
		}

		msg := &model.Message{ChatID: chat.ID, UserID: user.ID, Content: req.Content}
		if err := db.Create(msg).Error; err != nil {
			fail(c, err)
			return
		}
		ok(c, msg)
	}
}

func closeTicket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		chat, found := chatByParam(db, c)
		if !found {
			return
		}
		if !chat.IsOpen {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "the chat must be opened"})
			return
		}
		if err := db.Model(chat).Update("is_open", false).Error; err != nil {
			fail(c, err)
			return
		}
		ok(c, nil)
	}
}

func openTicket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		chat, found := chatByParam(db, c)
		if !found {
			return
		}
		if chat.IsOpen {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "the chat must be closed"})
			return
		}
		if err := db.Model(chat).Update("is_open", true).Error; err != nil {
			fail(c, err)
			return
		}
		ok(c, nil)
	}
}

func chatByParam(db *gorm.DB, c *gin.Context) (*model.Chat, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "invalid chat id"})
		return nil, false
	}
	var chat model.Chat
	if err := db.Preload("Messages").Preload("Creator").First(&chat, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, shop.ErrChatNotFound)
			return nil, false
		}
		fail(c, err)
		return nil, false
	}
	return &chat, true
}
