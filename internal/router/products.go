package router

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"shop/internal/model"
	"shop/internal/shop"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// featureInput is a name/value spec row supplied on product create/update.
type featureInput struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value" binding:"required"`
}

func buildFeatures(in []featureInput) []model.ProductFeature {
	out := make([]model.ProductFeature, 0, len(in))
	for _, f := range in {
		out = append(out, model.ProductFeature{Name: f.Name, Value: f.Value})
	}
	return out
}

func buildColors(in []string) []model.ProductColor {
	out := make([]model.ProductColor, 0, len(in))
	for _, c := range in {
		out = append(out, model.ProductColor{Color: c})
	}
	return out
}

// attachRatings fills AverageRating for the given products in one grouped
// query: avg(rate) rounded to one decimal, 0 when uncommented.
func attachRatings(db *gorm.DB, products []*model.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]uint, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	var rows []struct {
		ProductID uint
		Avg       float64
	}
	err := db.Model(&model.Comment{}).
		Select("product_id, AVG(rate) AS avg").
		Where("product_id IN ?", ids).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	byID := make(map[uint]float64, len(rows))
	for _, r := range rows {
		byID[r.ProductID] = r.Avg
	}
	for _, p := range products {
		p.AverageRating = math.Round(byID[p.ID]*10) / 10
	}
	return nil
}

// listCategories returns all categories with their parents.
func listCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var list []model.Category
		if err := db.Preload("Parent").Find(&list).Error; err != nil {
			fail(c, err)
			return
		}
		ok(c, list)
	}
}

func getCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cat model.Category
		err := db.Preload("Parent").Where("slug = ?", c.Param("slug")).First(&cat).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"code": 404, "msg": "category not found"})
				return
			}
			fail(c, err)
			return
		}
		ok(c, cat)
	}
}

func createCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name       string `json:"name" binding:"required"`
			Slug       string `json:"slug"`
			ParentSlug string `json:"parent_slug"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}

		cat := &model.Category{Name: req.Name, Slug: req.Slug}
		if req.ParentSlug != "" {
			var parent model.Category
			if err := db.Where("slug = ?", req.ParentSlug).First(&parent).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "there is no category with this slug to be a parent"})
					return
				}
				fail(c, err)
				return
			}
			cat.ParentID = &parent.ID
		}

		if err := db.Create(cat).Error; err != nil {
			if model.IsDuplicate(err) {
				fail(c, shop.ErrDuplicate)
				return
			}
			fail(c, err)
			return
		}
		ok(c, cat)
	}
}

func updateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name       string `json:"name"`
			NewSlug    string `json:"new_slug"`
			ParentSlug string `json:"parent_slug"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}

		var cat model.Category
		if err := db.Where("slug = ?", c.Param("slug")).First(&cat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"code": 404, "msg": "category not found"})
				return
			}
			fail(c, err)
			return
		}

		if req.Name != "" {
			cat.Name = req.Name
		}
		if req.NewSlug != "" {
			cat.Slug = req.NewSlug
		}
		if req.ParentSlug != "" {
			var parent model.Category
			if err := db.Where("slug = ?", req.ParentSlug).First(&parent).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "there is no category with this slug to be a parent"})
					return
				}
				fail(c, err)
				return
			}
			cat.ParentID = &parent.ID
		}

		if err := db.Save(&cat).Error; err != nil {
			fail(c, err)
			return
		}
		ok(c, cat)
	}
}

func deleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Where("slug = ?", c.Param("slug")).Delete(&model.Category{})
		if res.Error != nil {
			fail(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "msg": "category not found"})
			return
		}
		ok(c, nil)
	}
}

// listProducts supports filtering and limit/offset pagination:
// title (contains), category slug, min/max price on the discounted price,
// min off percent, salable only, order_by.
func listProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Model(&model.Product{}).Preload("Category").Preload("Seller")

		if title := c.Query("title"); title != "" {
			q = q.Where("title LIKE ?", "%"+title+"%")
		}
		if slug := c.Query("category"); slug != "" {
			q = q.Joins("JOIN categories ON categories.id = products.category_id").
				Where("categories.slug = ?", slug)
		}
		if v := c.Query("price_gt"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				q = q.Where("new_price > ?", n)
			}
		}
		if v := c.Query("price_lt"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				q = q.Where("new_price < ?", n)
			}
		}
		if v := c.Query("off_percent_gt"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				q = q.Where("off_percent > ?", n)
			}
		}
		if c.Query("salable") == "true" {
			q = q.Where("is_salable = ?", true)
		}

		switch c.DefaultQuery("order_by", "created_at") {
		case "price":
			q = q.Order("new_price ASC")
		case "price_desc":
			q = q.Order("new_price DESC")
		case "title":
			q = q.Order("title ASC")
		default:
			q = q.Order("created_at DESC")
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if offset < 0 {
			offset = 0
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			fail(c, err)
			return
		}

		var list []model.Product
		if err := q.Limit(limit).Offset(offset).Find(&list).Error; err != nil {
			fail(c, err)
			return
		}

		ptrs := make([]*model.Product, len(list))
		for i := range list {
			ptrs[i] = &list[i]
		}
		if err := attachRatings(db, ptrs); err != nil {
			fail(c, err)
			return
		}
		ok(c, gin.H{"items": list, "total": total, "limit": limit, "offset": offset})
	}
}

func getProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p model.Product
		err := db.Preload("Category").Preload("Seller").
			Preload("Features").Preload("Colors").Preload("Comments.User").
			Where("slug = ?", c.Param("slug")).First(&p).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail(c, shop.ErrProductNotFound)
				return
			}
			fail(c, err)
			return
		}
		if err := attachRatings(db, []*model.Product{&p}); err != nil {
			fail(c, err)
			return
		}
		ok(c, p)
	}
}

func createProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Title          string `json:"title" binding:"required"`
			Slug           string `json:"slug"`
			Inventory      int    `json:"inventory" binding:"min=0"`
			Price          int64  `json:"price" binding:"required,min=1"`
			OffPercent     int64  `json:"off_percent" binding:"omitempty,min=0,max=100"`
			IsSalable      *bool  `json:"is_salable"`
			SellerUsername string `json:"seller_username" binding:"required"`
			CategorySlug   string `json:"category_slug" binding:"required"`

			Features []featureInput `json:"features" binding:"omitempty,dive"`
			Colors   []string       `json:"colors"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}

		var category model.Category
		if err := db.Where("slug = ?", req.CategorySlug).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "a category with this slug does not exist"})
				return
			}
			fail(c, err)
			return
		}
		var seller model.User
		if err := db.Where("username = ?", req.SellerUsername).First(&seller).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "a user with this username does not exist"})
				return
			}
			fail(c, err)
			return
		}

		salable := true
		if req.IsSalable != nil {
			salable = *req.IsSalable
		}
		p := &model.Product{
			Title:      req.Title,
			Slug:       req.Slug,
			Inventory:  req.Inventory,
			Price:      req.Price,
			OffPercent: req.OffPercent,
			IsSalable:  salable,
			SellerID:   &seller.ID,
			CategoryID: &category.ID,
			Features:   buildFeatures(req.Features),
			Colors:     buildColors(req.Colors),
		}
		if err := db.Create(p).Error; err != nil {
			if model.IsDuplicate(err) {
				fail(c, shop.ErrDuplicate)
				return
			}
			fail(c, err)
			return
		}
		ok(c, p)
	}
}

func updateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Title      *string `json:"title"`
			NewSlug    *string `json:"new_slug"`
			Inventory  *int    `json:"inventory"`
			Price      *int64  `json:"price"`
			OffPercent *int64  `json:"off_percent"`
			IsSalable  *bool   `json:"is_salable"`

			// Supplying features or colors replaces the existing set.
			Features *[]featureInput `json:"features" binding:"omitempty,dive"`
			Colors   *[]string       `json:"colors"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": err.Error()})
			return
		}

		var p model.Product
		if err := db.Where("slug = ?", c.Param("slug")).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail(c, shop.ErrProductNotFound)
				return
			}
			fail(c, err)
			return
		}

		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.NewSlug != nil {
			p.Slug = *req.NewSlug
		}
		if req.Inventory != nil {
			p.Inventory = *req.Inventory
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.OffPercent != nil {
			p.OffPercent = *req.OffPercent
		}
		if req.IsSalable != nil {
			p.IsSalable = *req.IsSalable
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			// Save runs the BeforeSave hook, recomputing new_price.
			if err := tx.Save(&p).Error; err != nil {
				return err
			}
			if req.Features != nil {
				if err := tx.Where("product_id = ?", p.ID).Delete(&model.ProductFeature{}).Error; err != nil {
					return err
				}
				p.Features = buildFeatures(*req.Features)
				for i := range p.Features {
					p.Features[i].ProductID = p.ID
					if err := tx.Create(&p.Features[i]).Error; err != nil {
						return err
					}
				}
			}
			if req.Colors != nil {
				if err := tx.Where("product_id = ?", p.ID).Delete(&model.ProductColor{}).Error; err != nil {
					return err
				}
				p.Colors = buildColors(*req.Colors)
				for i := range p.Colors {
					p.Colors[i].ProductID = p.ID
					if err := tx.Create(&p.Colors[i]).Error; err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, p)
	}
}

func deleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Where("slug = ?", c.Param("slug")).Delete(&model.Product{})
		if res.Error != nil {
			fail(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			fail(c, shop.ErrProductNotFound)
			return
		}
		ok(c, nil)
	}
}
