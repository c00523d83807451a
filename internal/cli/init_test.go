package cli

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"jizhang/internal/config"
	"jizhang/internal/log"
)

func TestInitBackend(t *testing.T) {
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"memory", config.Config{DataBackend: "memory"}},
		{"sqlite", config.Config{DataBackend: "sqlite", SQLiteDBPath: filepath.Join(t.TempDir(), "jizhang.db")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := InitBackend(context.Background(), logger, &tt.cfg)
			defer cleanup()

			all, err := store.ListAll(context.Background(), "alice")
			if err != nil {
				t.Fatal(err)
			}
			if len(all) != 0 {
				t.Errorf("expected an empty store, got %d records", len(all))
			}
		})
	}
}
