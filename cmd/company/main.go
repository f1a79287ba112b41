package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrms/internal/company/db"
	"hrms/internal/company/handlers"
	"hrms/internal/company/service"
	"hrms/internal/pkg/config"
	"hrms/internal/pkg/httpx"
	"hrms/internal/pkg/logger"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/messaging"
	"hrms/internal/pkg/token"
)

func main() {
	cfg, err := config.Load("company")
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger: ", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := db.NewRepository(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repo.Close(context.Background())

	producer, err := messaging.NewProducer(cfg.KafkaBrokers, zlog,
		messages.TopicManagerSetCompanyID,
	)
	if err != nil {
		zlog.Fatal("failed to initialize producer", zap.Error(err))
	}
	defer producer.Close()

	svc := service.New(repo, producer, zlog)

	consumer := messaging.NewConsumer(cfg.KafkaBrokers, "company-service", messages.TopicCompanySetManagerID, svc.HandleSetManagerID, zlog)
	consumer.Start(ctx)
	defer consumer.Close()

	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL, cfg.ActivationTTL)

	router := gin.New()
	router.Use(gin.Recovery())
	handlers.New(svc, tokens, zlog).Register(router)

	httpx.Serve(ctx, router, cfg.HTTPPort, zlog)
}
