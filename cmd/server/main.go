package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/skillproof/server/internal/api"
	"github.com/skillproof/server/internal/config"
	"github.com/skillproof/server/internal/observability/metrics"
	"github.com/skillproof/server/internal/repositories"
	"github.com/skillproof/server/internal/store"
)

func main() {
	seedFile := flag.String("seed", "", "path to a legacy database export to import before serving")
	flag.Parse()

	repositories.ConnectDatabase()
	store.Init(repositories.DB)
	metrics.MustRegister()

	if r2 := config.Envs.R2; r2.AccessKeyID != "" {
		if err := repositories.InitR2(r2.AccessKeyID, r2.SecretAccessKey, r2.AccountID, r2.BucketName, r2.Region, r2.PublicBaseURL); err != nil {
			log.Fatal("Failed to initialize R2:", err)
		}
	} else {
		log.Println("R2 not configured, photo uploads disabled")
	}

	ctx := context.Background()

	if *seedFile != "" {
		data, err := os.ReadFile(*seedFile)
		if err != nil {
			log.Fatal("Failed to read seed file:", err)
		}
		export, err := store.ParseExport(data)
		if err != nil {
			log.Fatal("Failed to parse seed file:", err)
		}
		if err := store.Records.ImportExport(ctx, export); err != nil {
			log.Fatal("Failed to import seed file:", err)
		}
		log.Printf("Imported %d users and %d certificate subtrees", len(export.Users), len(export.Certificates))
	}

	// Warm the hub so the first subscriber gets a snapshot right away.
	if err := store.Records.Broadcast(ctx); err != nil {
		log.Println("Initial snapshot broadcast failed:", err)
	}

	mux := api.SetupRouter()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Envs.Port),
		Handler: mux,
		// No WriteTimeout: the event-stream endpoints hold their
		// connections open until the client goes away.
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	log.Printf("Starting SkillProof server on port: %s", config.Envs.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", config.Envs.Port, err)
	}
}
