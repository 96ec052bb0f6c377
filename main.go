package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "github.com/WayneCarlG/meet-a-vet/internal/config"
	api "github.com/WayneCarlG/meet-a-vet/internal/http"
	"github.com/WayneCarlG/meet-a-vet/internal/mpesa"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := intconfig.ConnectDB(env)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	var rdb *redis.Client
	if env.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: env.RedisAddr})
		defer rdb.Close()
	}

	mpesaClient := mpesa.NewClient(mpesa.Config{
		APIKey:      env.DarajaAPIKey,
		APISecret:   env.DarajaAPISecret,
		Shortcode:   env.DarajaShortcode,
		Passkey:     env.DarajaPasskey,
		AuthURL:     env.DarajaAuthURL,
		STKPushURL:  env.DarajaSTKURL,
		CallbackURL: env.PublicBaseURL + "/api/payment-callback",
		Timeout:     env.DarajaTimeout,
	}, mpesa.NewTokenCache(rdb))

	r := api.NewRouter(api.Deps{
		Env:    env,
		DB:     db,
		Pusher: mpesaClient,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly.")
}
