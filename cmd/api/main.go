package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"festops/internal/api"
	"festops/internal/config"
	"festops/internal/docstore"
	"festops/internal/service"
	"festops/internal/store"
	"festops/internal/store/memstore"
)

const sweepInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	// Without DB_SOURCE the server runs entirely in memory, which is enough
	// for local demos and frontend development.
	var st store.Store
	if cfg.DemoMode() {
		log.Println("DB_SOURCE not set, running on the in-memory store")
		st = memstore.New()
	} else {
		pg, err := store.NewPostgres(ctx, cfg.DBSource)
		if err != nil {
			log.Fatalf("Unable to connect to database: %v", err)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal(err)
		}
		st = pg
	}

	docs, err := docstore.Open(ctx, cfg.DocStore)
	if err != nil {
		log.Fatalf("Unable to open document store: %v", err)
	}

	billing := service.NewBillingService(st, st)
	go billing.RunSweepLoop(ctx, sweepInterval)

	handler := api.NewHandler(st, docs, billing, cfg.SessionTTL)

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", handler.HealthCheckHandler)
	handler.Routes(r)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
