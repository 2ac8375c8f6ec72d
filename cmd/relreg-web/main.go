// Command relreg-web serves the canonical relationship registry over HTTP.
//
// On startup it builds a registry seeded with the built-in relationship
// types, replays the latest snapshot from the configured store (so names
// registered by other processes resolve here too), then registers any
// operator-defined types from the YAML seed file. On shutdown it exports the
// registry back to the store as a new snapshot.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/obokit/relreg/internal/config"
	"github.com/obokit/relreg/internal/registry"
	"github.com/obokit/relreg/internal/server"
	"github.com/obokit/relreg/internal/storage"
	"github.com/obokit/relreg/internal/storage/postgres"
	"github.com/obokit/relreg/internal/storage/sqlite"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := openSnapshotStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	if store != nil {
		defer store.Close()
	}

	reg := registry.New()

	if store != nil {
		seedFromSnapshot(reg, store)
	}

	if path := cfg.Seeds.SeedFile; path != "" {
		sf, err := config.LoadSeedFile(path)
		if err != nil {
			log.Fatalf("Failed to load seed file: %v", err)
		}
		for _, def := range sf.Relationships {
			reg.GetOrCreate(def)
		}
		log.Printf("Registered seed file %s (%d entries)", path, len(sf.Relationships))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr, _, err := server.Start(ctx, cfg, reg)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("relreg listening on %s (%d relationship types)", addr, reg.Len())

	<-ctx.Done()
	log.Println("Shutting down...")

	if store != nil && cfg.Storage.SnapshotOnShutdown {
		saveSnapshot(reg, store)
	}
}

// openSnapshotStore builds the configured snapshot store. The Postgres store
// is wrapped in a circuit breaker since it crosses the network; "none"
// disables persistence entirely.
func openSnapshotStore(cfg *config.Config) (storage.SnapshotStore, error) {
	switch cfg.Storage.StorageEngine {
	case "sqlite":
		if err := os.MkdirAll(cfg.Storage.DataPath, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dsn := filepath.Join(cfg.Storage.DataPath, "relreg.db")
		return sqlite.NewSnapshotStore(dsn)
	case "postgres":
		if cfg.Storage.PostgresDSN == "" {
			return nil, errors.New("RELREG_POSTGRES_DSN is required for the postgres engine")
		}
		inner, err := postgres.NewSnapshotStore(cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return storage.NewBreakerStore(inner), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Storage.StorageEngine)
	}
}

func seedFromSnapshot(reg *registry.Registry, store storage.SnapshotStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap, err := store.LatestSnapshot(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("Warning: failed to load snapshot, continuing with built-in seeds: %v", err)
		return
	}

	for _, def := range snap.Definitions {
		reg.GetOrCreate(def)
	}
	log.Printf("Seeded from snapshot %s (%d definitions)", snap.ID, len(snap.Definitions))
}

func saveSnapshot(reg *registry.Registry, store storage.SnapshotStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap := storage.NewSnapshot(reg.Export())
	if err := store.SaveSnapshot(ctx, snap); err != nil {
		log.Printf("Failed to save snapshot: %v", err)
		return
	}
	log.Printf("Saved snapshot %s (%d definitions)", snap.ID, len(snap.Definitions))
}
