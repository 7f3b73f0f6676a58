/*
main.go - Application entry point

PURPOSE:

	Initializes and starts the rotation-engine server. Handles configuration,
	dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
 1. Parse command-line flags
 2. Initialize SQLite store
 3. Build allowance rates from flags
 4. Create API handler and router
 5. Start server with graceful shutdown

COMMAND-LINE FLAGS:

	-port           HTTP server port (default: 8080)
	-db             SQLite database path (default: roster.db); ":memory:" works
	-offshore-rate  Flat offshore daily allowance rate
	-medevac-rate   Flat per-day medevac allowance rate

GRACEFUL SHUTDOWN:

	On SIGINT/SIGTERM: stop accepting connections, drain active requests
	(30s timeout), close the database, exit.

EXAMPLES:

	./server -db=./data/roster.db
	./server -port=3000 -offshore-rate=150
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridian/rotation-engine/api"
	"github.com/meridian/rotation-engine/rotation"
	"github.com/meridian/rotation-engine/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "roster.db", "SQLite database path")
	offshoreRate := flag.String("offshore-rate", "", "flat offshore daily rate (overrides default)")
	medevacRate := flag.String("medevac-rate", "", "flat per-day medevac rate (overrides default)")
	flag.Parse()

	rates := rotation.DefaultRates()
	if *offshoreRate != "" {
		d, err := decimal.NewFromString(*offshoreRate)
		if err != nil {
			log.Fatalf("Invalid -offshore-rate: %v", err)
		}
		rates.OffshoreDaily = d
	}
	if *medevacRate != "" {
		d, err := decimal.NewFromString(*medevacRate)
		if err != nil {
			log.Fatalf("Invalid -medevac-rate: %v", err)
		}
		rates.MedevacPerDay = d
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, rates)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Rotation engine listening on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
