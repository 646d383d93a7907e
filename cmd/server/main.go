package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"shop/internal/auth"
	"shop/internal/cart"
	"shop/internal/config"
	"shop/internal/model"
	"shop/internal/queue"
	"shop/internal/router"
	"shop/internal/session"
	"shop/internal/shop"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
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

	rdb := rd.NewClient(&rd.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})

	carts := cart.NewManager(session.NewRedisStore(rdb, cfg.SessionTTL))
	outbox := queue.NewOutbox(rdb, cfg.OrderEventStream)
	svc := shop.NewService(db, carts, outbox)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	producer := queue.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()
	consumer := queue.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, db)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	relay := queue.NewRelay(rdb, producer, cfg.OrderEventStream, cfg.OrderEventGroup, cfg.OrderEventConsumer)
	go relay.Run(ctx)
	go consumer.Run(ctx)

	r := gin.Default()
	router.Setup(r, router.Deps{
		DB:     db,
		Redis:  rdb,
		Shop:   svc,
		Carts:  carts,
		Tokens: tokens,
		Cfg:    cfg,
	})

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("http serve: %v", err)
	}
}
