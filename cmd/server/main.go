package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poolside/config"
	"poolside/internal/database"
	"poolside/internal/router"
	"poolside/internal/service"
	"poolside/pkg/cloudinary"
	"poolside/pkg/payment"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Gateway clients validate their config here - a missing merchant key
	// kills the boot instead of the first checkout.
	ozow, err := payment.NewOzowClient(payment.OzowConfig{
		SiteCode:     cfg.Ozow.SiteCode,
		CountryCode:  cfg.Ozow.CountryCode,
		CurrencyCode: cfg.Ozow.Currency,
		PrivateKey:   cfg.Ozow.PrivateKey,
		IsTest:       cfg.Ozow.IsTest,
		SuccessURL:   cfg.Store.FrontendBaseURL + "/payment/success",
		CancelURL:    cfg.Store.FrontendBaseURL + "/payment/cancelled",
		ErrorURL:     cfg.Store.FrontendBaseURL + "/payment/error",
		NotifyURL:    cfg.Store.PublicBaseURL + "/api/v1/payments/ozow/notify",
	})
	if err != nil {
		log.Fatalf("ozow config: %v", err)
	}
	payfast, err := payment.NewPayFastClient(payment.PayFastConfig{
		MerchantID:  cfg.PayFast.MerchantID,
		MerchantKey: cfg.PayFast.MerchantKey,
		Passphrase:  cfg.PayFast.Passphrase,
		ProcessURL:  cfg.PayFast.ProcessURL,
		ReturnURL:   cfg.Store.FrontendBaseURL + "/payment/success",
		CancelURL:   cfg.Store.FrontendBaseURL + "/payment/cancelled",
		NotifyURL:   cfg.Store.PublicBaseURL + "/api/v1/payments/payfast/itn",
	})
	if err != nil {
		log.Fatalf("payfast config: %v", err)
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedAdmin(db, &cfg.Admin)
	database.SeedShippingRates(db)

	cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		log.Fatalf("cloudinary: %v", err)
	}
	mailer := service.NewMailer(&cfg.SMTP, cfg.Store.Name)

	engine := router.Setup(cfg, db, cloud, mailer, ozow, payfast)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
