package main

import (
	"log"

	"councilwatch/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Start HTTP server.
func main() {
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("councilwatch api: %v", err)
	}
	defer app.Close()

	if err := app.Server.Start(); err != nil {
		log.Fatalf("councilwatch api: %v", err)
	}
}
