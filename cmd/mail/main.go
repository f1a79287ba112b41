package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"hrms/internal/mail/handlers"
	"hrms/internal/mail/sender"
	"hrms/internal/mail/service"
	"hrms/internal/pkg/config"
	"hrms/internal/pkg/httpx"
	"hrms/internal/pkg/logger"
	"hrms/internal/pkg/messages"
	"hrms/internal/pkg/messaging"
	"hrms/internal/pkg/token"
)

func main() {
	cfg, err := config.Load("mail")
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

	smtp := sender.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	svc := service.New(smtp, zlog)

	consumers := []*messaging.Consumer{
		messaging.NewConsumer(cfg.KafkaBrokers, "mail-service", messages.TopicMailActivation, svc.HandleActivation, zlog),
		messaging.NewConsumer(cfg.KafkaBrokers, "mail-service", messages.TopicMailForgotPassword, svc.HandleForgotPassword, zlog),
		messaging.NewConsumer(cfg.KafkaBrokers, "mail-service", messages.TopicMailEmployeeWelcome, svc.HandleEmployeeWelcome, zlog),
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
