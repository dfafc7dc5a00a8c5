package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/weldmart/storefront/internal/config"
	"github.com/weldmart/storefront/internal/es"
	"github.com/weldmart/storefront/internal/events"
	"github.com/weldmart/storefront/internal/httpserver"
	"github.com/weldmart/storefront/internal/mailer"
	"github.com/weldmart/storefront/internal/models"
	"github.com/weldmart/storefront/internal/razorpay"
	"github.com/weldmart/storefront/internal/repo"
	"github.com/weldmart/storefront/internal/service"
	"github.com/weldmart/storefront/pkg/db"
	"github.com/weldmart/storefront/pkg/logging"
	authmw "github.com/weldmart/storefront/pkg/middleware/auth"
	loggingmw "github.com/weldmart/storefront/pkg/middleware/logging"
	metricsmw "github.com/weldmart/storefront/pkg/middleware/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.ServiceName, cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(metricsmw.New(prometheus.DefaultRegisterer).Middleware())

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := database.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: database}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	var searchClient *elasticsearch.Client
	if cfg.ESURL != "" {
		searchClient, err = es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
	}

	var mail mailer.Mailer = mailer.Nop{}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	}

	gateway := razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	cartSvc := &service.CartService{Repo: gormRepo}
	catalogSvc := &service.CatalogService{Repo: gormRepo, ES: searchClient, Producer: producer}
	categorySvc := &service.CategoryService{Repo: gormRepo}
	authSvc := &service.AuthService{
		Repo:          gormRepo,
		Mailer:        mail,
		Producer:      producer,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		AdminEmails:   cfg.AdminEmails,
	}
	paymentSvc := &service.PaymentService{Repo: gormRepo, Gateway: gateway, Producer: producer}
	contactSvc := &service.ContactService{Mailer: mail, Inbox: cfg.ContactInbox}

	httpserver.Register(e, &httpserver.Deps{
		Auth:       &httpserver.AuthHTTP{Svc: authSvc},
		Cart:       &httpserver.CartHTTP{Svc: cartSvc},
		Catalog:    &httpserver.CatalogHTTP{Svc: catalogSvc},
		Categories: &httpserver.CategoryHTTP{Svc: categorySvc},
		Payment:    &httpserver.PaymentHTTP{Svc: paymentSvc, KeyID: cfg.RazorpayKeyID},
		Contact:    &httpserver.ContactHTTP{Svc: contactSvc},
		AuthMW:     authmw.New(cfg.JWTSecret),
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		logger.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("server stopped")
}
