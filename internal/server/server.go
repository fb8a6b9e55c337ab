package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"github.com/aspectfv/talento-mvp/internal/controller/company"
	"github.com/aspectfv/talento-mvp/internal/database"
)

// MyServer bundles the database handle and optional blob storage shared by
// every route handler.
type MyServer struct {
	DB      *database.DBinstanceStruct
	Storage company.StorageClient
}

// NewServer constructs the http.Server serving the API. Logo storage is
// enabled only when GCS_LOGO_BUCKET is set.
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	var storage company.StorageClient
	if bucket := os.Getenv("GCS_LOGO_BUCKET"); bucket != "" {
		client, err := company.NewCloudStorageClient(bucket)
		if err != nil {
			log.Fatalf("Cloud storage failed to initialize: %s", err)
		}
		storage = client
	} else {
		log.Println("GCS_LOGO_BUCKET not set, logo uploads disabled")
	}

	s := &MyServer{DB: db, Storage: storage}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
