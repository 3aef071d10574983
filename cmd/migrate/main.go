package main

import (
	"miner_registry/internal/config" // Custom import path (Config)
	"miner_registry/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration

	db.Migrate(cfg.DSN()) // Apply the ledger schema
}
