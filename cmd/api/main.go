// Command api runs the Talento HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aspectfv/talento-mvp/internal/database"
	"github.com/aspectfv/talento-mvp/internal/server"
)

// @title Talento API
// @version 1.0
// @description Job board backend serving seekers, company admins and platform superadmins.
// @BasePath /api
func main() {
	srv := server.NewServer()

	go func() {
		log.Printf("API started on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}

	if db, err := database.GetMainDB(); err == nil {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}
}
