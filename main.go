// main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-storefront/config"
	"go-storefront/controllers"
	"go-storefront/middleware"
	"go-storefront/repository"
	"go-storefront/routes"
	"go-storefront/services"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	db, err := repository.Connect(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("mongodb connection failed")
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.WithError(err).Error("mongodb disconnect failed")
		}
	}()

	// Repositories and services
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)

	tokens := utils.NewTokenService(cfg.JWTSecret)
	emailService := utils.NewEmailService(cfg.SendGridAPIKey, cfg.EmailSender, log)

	accountService := services.NewAccountService(userRepo, tokens, cfg.BcryptCost, log)
	catalogService := services.NewCatalogService(productRepo, log)
	cartService := services.NewCartService(userRepo, productRepo, cfg.CheckoutMode, log)

	// Controllers
	userController := controllers.NewUserController(accountService, emailService)
	productController := controllers.NewProductController(catalogService)
	cartController := controllers.NewCartController(cartService, emailService)

	// Router and middleware
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Limit)

	routes.RegisterRoutes(router, tokens, userController, productController, cartController)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped")
}
