package main

import (
	"farmer_registry/internal/config" // Custom import path (Config)
	"farmer_registry/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	log := config.NewLogger(cfg)

	gdb, err := db.Open(cfg, log)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(gdb, log); err != nil {
		log.Fatal(err)
	}
}
