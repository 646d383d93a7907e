package router

import (
	"net/http"

	"shop/internal/middleware"
	"shop/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// createComment stores a review on a product. Any authenticated user may
// comment; the rate feeds the product's average rating.
func createComment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Title   string `json:"title" binding:"required,max=255"`
			Content string `json:"content" binding:"required,max=500"`
			Rate    int    `json:"rate" binding:"required,min=1,max=5"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}

		p, found := productBySlug(db, c)
		if !found {
			return
		}

		user := middleware.CurrentUser(c)
		comment := &model.Comment{
			ProductID: p.ID,
			UserID:    user.ID,
			Title:     req.Title,
			Content:   req.Content,
			Rate:      req.Rate,
		}
		if err := db.Create(comment).Error; err != nil {
			fail(c, err)
			return
		}
		ok(c, comment)
	}
}
