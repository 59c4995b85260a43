package main

import (
	"context"
	"log"

	"nominator/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (postgres, vote ledger, cache, webhooks).
// 3) Serve the ranking lifecycle HTTP API.
func main() {
	log.Println("nominator api starting")
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("nominator api stopped with error: %v", err)
	}
}
