//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"sotadiploma/internal/diplomalog/ports"
	"sotadiploma/internal/platform/config"
	"sotadiploma/internal/platform/database"
	"sotadiploma/pkg/testutil/containers"
)

func TestPostgresEntryStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	suite.Run(t, &EntryStoreSuite{newStore: func(t *testing.T) ports.EntryStore {
		db, err := database.Open(context.Background(), config.DatabaseConfig{URL: pg.URL})
		if err != nil {
			t.Fatalf("open postgres: %v", err)
		}
		t.Cleanup(func() {
			_, _ = db.Exec(`TRUNCATE diploma_log`)
			_ = db.Close()
		})
		return NewSQL(db)
	}})
}
