package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/skyexpress/courier/internal/utils"
	"github.com/skyexpress/courier/pkg/kv"
	"github.com/skyexpress/courier/pkg/pickup"
	"github.com/skyexpress/courier/pkg/storage"
)

// openStore resolves the configured database path, makes sure its directory
// exists and opens the durable store.
func openStore() (*storage.DB, error) {
	dbPath, _ := rootCmd.PersistentFlags().GetString("dbpath")
	path, err := utils.GetAbsDBPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("could not resolve db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open database %s: %w", path, err)
	}
	return db, nil
}

// lockDB acquires the cross-process write lock for the configured database.
func lockDB() (*utils.DBLock, error) {
	dbPath, _ := rootCmd.PersistentFlags().GetString("dbpath")
	lock, err := utils.NewDBLock(dbPath)
	if err != nil {
		return nil, err
	}
	if err := lock.Lock(); err != nil {
		return nil, err
	}
	return lock, nil
}

// pipelineConfig assembles a pickup.Config from viper settings.
func pipelineConfig(store kv.Store, opener pickup.Opener) pickup.Config {
	return pickup.Config{
		Store:           store,
		Opener:          opener,
		BusinessName:    viper.GetString("business.name"),
		BusinessNumber:  viper.GetString("whatsapp.number"),
		MessagingHost:   viper.GetString("whatsapp.host"),
		CountryCode:     viper.GetString("phone.country_code"),
		FallbackPhone:   viper.GetString("business.fallback_phone"),
		Cooldown:        time.Duration(viper.GetInt("pickup.cooldown_ms")) * time.Millisecond,
		DuplicateWindow: time.Duration(viper.GetInt("pickup.duplicate_window_min")) * time.Minute,
	}
}
