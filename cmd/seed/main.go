// Command seed creates a staff account and a small demo catalog, so a
// fresh database is immediately usable for manual testing.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"shop/internal/auth"
	"shop/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	dbPath := flag.String("db", "shop.db", "sqlite database path")
	adminPhone := flag.String("admin-phone", "989120000000", "staff account phone number")
	adminPassword := flag.String("admin-password", "change-me-now", "staff account password")
	withCatalog := flag.Bool("catalog", true, "seed demo categories and products")
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductFeature{},
		&model.ProductColor{},
		&model.Comment{},
		&model.Order{},
		&model.OrderItem{},
		&model.DiscountCode{},
		&model.Chat{},
		&model.Message{},
		&model.Notification{},
	); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	hash, err := auth.HashPassword(*adminPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	admin := &model.User{
		PhoneNumber:  *adminPhone,
		Username:     "admin",
		FirstName:    "Shop",
		LastName:     "Admin",
		PasswordHash: hash,
		IsStaff:      true,
	}
	if err := db.Where("username = ?", admin.Username).FirstOrCreate(admin).Error; err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	fmt.Printf("staff account ready: username=%s phone=%s\n", admin.Username, admin.PhoneNumber)

	if !*withCatalog {
		return
	}

	electronics := &model.Category{Name: "Electronics"}
	if err := db.Where("name = ?", electronics.Name).FirstOrCreate(electronics).Error; err != nil {
		log.Fatalf("seed category: %v", err)
	}

	products := []model.Product{
		{
			Title: "Wireless Headphones", Inventory: 25, Price: 1200000, OffPercent: 10,
			IsSalable: true, SellerID: &admin.ID, CategoryID: &electronics.ID,
			Features: []model.ProductFeature{{Name: "Battery life", Value: "30 hours"}},
			Colors:   []model.ProductColor{{Color: "black"}, {Color: "silver"}},
		},
		{Title: "Mechanical Keyboard", Inventory: 10, Price: 2400000, IsSalable: true, SellerID: &admin.ID, CategoryID: &electronics.ID},
		{Title: "USB C Hub", Inventory: 40, Price: 450000, OffPercent: 5, IsSalable: true, SellerID: &admin.ID, CategoryID: &electronics.ID},
	}
	for i := range products {
		p := &products[i]
		if err := db.Where("title = ?", p.Title).FirstOrCreate(p).Error; err != nil {
			log.Fatalf("seed product %q: %v", p.Title, err)
		}
	}

	code := &model.DiscountCode{
		Percent:        20,
		ExpirationDate: time.Now().Add(30 * 24 * time.Hour),
		CreatorID:      &admin.ID,
	}
	if err := db.Create(code).Error; err != nil {
		log.Fatalf("seed discount code: %v", err)
	}
	fmt.Printf("seeded %d products and discount code %s (20%% off)\n", len(products), code.Code)
}
