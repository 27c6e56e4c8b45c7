package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"github.com/tmorriss/ledgerscope/internal/common"
	"github.com/tmorriss/ledgerscope/internal/config"
	"github.com/tmorriss/ledgerscope/internal/service"
	"github.com/tmorriss/ledgerscope/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/ledgerscope/ledgerscope.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	common.LogInfo("database ready", common.Fields{"path": dbPath})

	return store, nil
}

// truncateString shortens a string for table display.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
