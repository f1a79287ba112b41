package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrms/internal/employee/db"
	"hrms/internal/employee/handlers"
	"hrms/internal/employee/service"
	"hrms/internal/pkg/config"
	"hrms/internal/pkg/httpx"
	"hrms/internal/pkg/logger"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/messaging"
	"hrms/internal/pkg/token"
)

func main() {
	cfg, err := config.Load("employee")
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

	repo, err := db.NewRepository(&db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repo.Close()

	producer, err := messaging.NewProducer(cfg.KafkaBrokers, zlog,
		messages.TopicEmployeeCreate,
		messages.TopicMailEmployeeWelcome,
		messages.TopicAuthUpdate,
		messages.TopicAuthDelete,
	)
	if err != nil {
		zlog.Fatal("failed to initialize producer", zap.Error(err))
	}
	defer producer.Close()

	svc := service.New(repo, producer, zlog)

	consumers := []*messaging.Consumer{
		messaging.NewConsumer(cfg.KafkaBrokers, "employee-service", messages.TopicEmployeeSetAuthID, svc.HandleSetAuthID, zlog),
		messaging.NewConsumer(cfg.KafkaBrokers, "employee-service", messages.TopicEmployeeForgotPassword, svc.HandlePasswordReset, zlog),
	}
	for _, c := range consumers {
		c.Start(ctx)
		defer c.Close()
	}

	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL, cfg.ActivationTTL)

	router := gin.New()
	router.Use(gin.Recovery())
	handlers.New(svc, tokens, zlog).Register(router)

	httpx.Serve(ctx, router, cfg.HTTPPort, zlog)
}
