package main

import (
	"log"

	"htf-zone-scanner/app"
	"htf-zone-scanner/config"
)

func main() {
	// Load config from .env file
	cfg := config.LoadFromEnv()

	// Create and run the daily pipeline
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal(err)
	}
}
