package router

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shop/internal/model"
	"shop/internal/shop"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// listCodes returns all discount codes, optionally only unexpired ones,
// ordered by expiration.
func listCodes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Model(&model.DiscountCode{}).Order("expiration_date ASC")
		if c.Query("only_unexpired") == "true" {
			q = q.Where("expiration_date > ?", time.Now())
		}
		var codes []model.DiscountCode
		if err := q.Find(&codes).Error; err != nil {
			fail(c, err)
			return
		}
		ok(c, codes)
	}
}

func getCode(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "invalid code id"})
			return
		}
		var dc model.DiscountCode
		if err := db.First(&dc, uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail(c, shop.ErrCodeNotFound)
				return
			}
			fail(c, err)
			return
		}
		ok(c, dc)
	}
}

// createCode makes a discount code; when no code text is given a random
// ten-character one is generated.
func createCode(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Percent        int64     `json:"percent" binding:"required,min=1,max=100"`
			ExpirationDate time.Time `json:"expiration_date" binding:"required"`
			Code           string    `json:"code"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}

		creator := currentUserID(c)
		dc := &model.DiscountCode{
			Code:           req.Code,
			Percent:        req.Percent,
			ExpirationDate: req.ExpirationDate,
			CreatorID:      creator,
		}
		if err := db.Create(dc).Error; err != nil {
			if model.IsDuplicate(err) {
				fail(c, shop.ErrDuplicate)
				return
			}
			fail(c, err)
			return
		}
		ok(c, dc)
	}
}

func updateCode(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "invalid code id"})
			return
		}

		var req struct {
			Percent        *int64     `json:"percent" binding:"omitempty,min=1,max=100"`
			ExpirationDate *time.Time `json:"expiration_date"`
			Code           *string    `json:"code"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}

		var dc model.DiscountCode
		if err := db.First(&dc, uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail(c, shop.ErrCodeNotFound)
				return
			}
			fail(c, err)
			return
		}

		if req.Code != nil {
			dc.Code = *req.Code
		}
		if req.ExpirationDate != nil {
			dc.ExpirationDate = *req.ExpirationDate
		}
		if req.Percent != nil {
			dc.Percent = *req.Percent
		}
		if err := db.Save(&dc).Error; err != nil {
			if model.IsDuplicate(err) {
				fail(c, shop.ErrDuplicate)
				return
			}
			fail(c, err)
			return
		}
		ok(c, dc)
	}
}

func deleteCode(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "invalid code id"})
			return
		}
		res := db.Delete(&model.DiscountCode{}, uint(id))
		if res.Error != nil {
			fail(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			fail(c, shop.ErrCodeNotFound)
			return
		}
		ok(c, nil)
	}
}
