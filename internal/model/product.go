package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Category groups products; Slug is derived from Name when not set.
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Slug     string    `gorm:"size:255;uniqueIndex" json:"slug"`
	ParentID *uint     `json:"parent_id"`
	Parent   *Category `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	return nil
}

// Product is a catalog entry. Prices are integer currency units; NewPrice
// is derived from Price and OffPercent on every save, so readers never see
// a stale discounted price.
type Product struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title      string `gorm:"size:255;uniqueIndex;not null" json:"title"`
	Slug       string `gorm:"size:255;uniqueIndex" json:"slug"`
	Inventory  int    `gorm:"not null;default:0" json:"inventory"`
	Price      int64  `gorm:"not null" json:"price"`
	OffPercent int64  `gorm:"not null;default:0" json:"off_percent"`
	NewPrice   int64  `gorm:"not null;default:0" json:"new_price"`
	// No column default: gorm drops zero-value fields when one is set,
	// which would turn an explicit false into true on create.
	IsSalable bool `gorm:"not null" json:"is_salable"`

	SellerID   *uint     `gorm:"index" json:"seller_id"`
	Seller     *User     `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	Features []ProductFeature `gorm:"foreignKey:ProductID" json:"features,omitempty"`
	Colors   []ProductColor   `gorm:"foreignKey:ProductID" json:"colors,omitempty"`
	Comments []Comment        `gorm:"foreignKey:ProductID" json:"comments,omitempty"`

	// Average comment rate rounded to one decimal, 0 when uncommented.
	// Computed per query, never stored.
	AverageRating float64 `gorm:"-" json:"average_rating"`
}

// ProductFeature is one name/value spec row on a product page.
type ProductFeature struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"-"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Value     string `gorm:"size:255;not null" json:"value"`
}

func (ProductFeature) TableName() string { return "product_features" }

// ProductColor is an available color name for a product.
type ProductColor struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ProductID uint   `gorm:"not null;index" json:"-"`
	Color     string `gorm:"size:255;not null" json:"color"`
}

func (ProductColor) TableName() string { return "product_colors" }

func (Product) TableName() string { return "products" }

// BeforeSave keeps Slug and NewPrice in sync with Title/Price/OffPercent.
// Integer arithmetic throughout: price - price*off/100, truncated.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.OffPercent > 0 {
		p.NewPrice = p.Price - (p.Price*p.OffPercent)/100
	} else {
		p.NewPrice = p.Price
	}
	return nil
}

// Slugify turns a display name into a URL slug (spaces to dashes).
func Slugify(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
}
