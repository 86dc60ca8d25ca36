package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mwl313/yuuka-grow-sub000/internal/api"
	"github.com/mwl313/yuuka-grow-sub000/internal/store"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	logger := log.New(os.Stdout, "[SERVER] ", log.LstdFlags)

	addr := getenv("ADDR", ":8787")
	dbPath := getenv("DB_PATH", "leaderboard.db")
	adminToken := os.Getenv("ADMIN_TOKEN")

	db, err := store.NewSQLiteDB(dbPath)
	if err != nil {
		logger.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatalf("failed to migrate store: %v", err)
	}

	server := api.NewServer(db, api.Config{AdminToken: adminToken})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Printf("listening on %s (db=%s)", addr, dbPath)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Printf("shutdown error: %v", err)
	}
}
