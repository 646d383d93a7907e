package router

import (
	"errors"
	"net/http"

	"shop/internal/auth"
	"shop/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// registerUser creates an account. Phone numbers are validated against the
// shop's mobile pattern; the password is stored as a bcrypt hash.
func registerUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PhoneNumber string `json:"phone_number" binding:"required"`
			Username    string `json:"username" binding:"required"`
			Email       string `json:"email" binding:"omitempty,email"`
			FirstName   string `json:"first_name"`
			LastName    string `json:"last_name"`
			Password    string `json:"password" binding:"required,min=8"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}
		if !model.ValidPhoneNumber(req.PhoneNumber) {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "enter a valid mobile number"})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}

		user := &model.User{
			PhoneNumber:  req.PhoneNumber,
			Username:     req.Username,
			Email:        req.Email,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			PasswordHash: hash,
		}
		if err := db.Create(user).Error; err != nil {
			if model.IsDuplicate(err) {
				c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "a user with this phone number or username already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}
		ok(c, user)
	}
}

// loginUser checks credentials and issues a bearer token.
func loginUser(db *gorm.DB, tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PhoneNumber string `json:"phone_number" binding:"required"`
			Password    string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}

		var user model.User
		err := db.Where("phone_number = ?", req.PhoneNumber).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "wrong phone number or password"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}
		if !auth.CheckPassword(user.PasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "wrong phone number or password"})
			return
		}

		token, err := tokens.IssueToken(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}
		ok(c, gin.H{"token": token, "user": user})
	}
}
