package router

import (
	"errors"
	"net/http"

	"shop/internal/cart"
	"shop/internal/middleware"
	"shop/internal/model"
	"shop/internal/shop"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// cartView joins the cart against live product rows. Products removed from
// the catalog since they were added simply disappear from the view.
func cartView(d Deps, crt *cart.Cart) (gin.H, error) {
	var products []model.Product
	if len(crt.Entries) > 0 {
		if err := d.DB.Where("id IN ?", crt.ProductIDs()).Find(&products).Error; err != nil {
			return nil, err
		}
	}
	return gin.H{
		"items":          crt.Join(products),
		"total_quantity": crt.Count(),
		"total_price":    crt.Total(),
	}, nil
}

func productBySlug(db *gorm.DB, c *gin.Context) (*model.Product, bool) {
	var p model.Product
	err := db.Where("slug = ?", c.Param("slug")).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, shop.ErrProductNotFound)
			return nil, false
		}
		fail(c, err)
		return nil, false
	}
	return &p, true
}

func showCart(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		crt, err := d.Carts.Load(c.Request.Context(), middleware.SessionID(c))
		if err != nil {
			fail(c, err)
			return
		}
		view, err := cartView(d, crt)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, view)
	}
}

// addToCart inserts or increments one cart line. The increment saturates
// at the product's inventory without erroring.
func addToCart(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, found := productBySlug(d.DB, c)
		if !found {
			return
		}

		ctx := c.Request.Context()
		sid := middleware.SessionID(c)
		crt, err := d.Carts.Load(ctx, sid)
		if err != nil {
			fail(c, err)
			return
		}
		crt.Add(*p)
		if err := d.Carts.Save(ctx, sid, crt); err != nil {
			fail(c, err)
			return
		}

		view, err := cartView(d, crt)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, view)
	}
}

func decreaseInCart(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, found := productBySlug(d.DB, c)
		if !found {
			return
		}

		ctx := c.Request.Context()
		sid := middleware.SessionID(c)
		crt, err := d.Carts.Load(ctx, sid)
		if err != nil {
			fail(c, err)
			return
		}
		if err := crt.Decrease(p.ID); err != nil {
			fail(c, err)
			return
		}
		if err := d.Carts.Save(ctx, sid, crt); err != nil {
			fail(c, err)
			return
		}

		view, err := cartView(d, crt)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, view)
	}
}

func removeFromCart(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, found := productBySlug(d.DB, c)
		if !found {
			return
		}

		ctx := c.Request.Context()
		sid := middleware.SessionID(c)
		crt, err := d.Carts.Load(ctx, sid)
		if err != nil {
			fail(c, err)
			return
		}
		if err := crt.Remove(p.ID); err != nil {
			fail(c, err)
			return
		}
		if err := d.Carts.Save(ctx, sid, crt); err != nil {
			fail(c, err)
			return
		}

		view, err := cartView(d, crt)
		if err != nil {
			fail(c, err)
			return
		}
		ok(c, view)
	}
}

// clearCart drops the whole cart value; the next access starts empty.
func clearCart(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := d.Carts.Drop(c.Request.Context(), middleware.SessionID(c)); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "data": gin.H{
			"items":          []cart.Line{},
			"total_quantity": 0,
			"total_price":    0,
		}})
	}
}
