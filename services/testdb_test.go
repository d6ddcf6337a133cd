package services

import (
	"context"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-ops/database"
	"github.com/yeremiapane/restaurant-ops/models"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// assertCategory checks the category mark set by the utils error helpers.
// The marks are only visible to cockroachdb errors.Is.
func assertCategory(t *testing.T, err, category error) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, errors.Is(err, category), "expected %q category, got: %v", category, err)
	}
}

func createTable(t *testing.T, db *gorm.DB, capacity int) models.Table {
	t.Helper()
	table := models.Table{Capacity: capacity, Status: models.TableAvailable}
	require.NoError(t, db.Create(&table).Error)
	return table
}

func createMenuItem(t *testing.T, db *gorm.DB, name, price, category string) models.MenuItem {
	t.Helper()
	item := models.MenuItem{Name: name, Price: decimal.RequireFromString(price), Category: category}
	require.NoError(t, db.Create(&item).Error)
	return item
}

type publishedEvent struct {
	key     string
	payload interface{}
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, key string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{key: key, payload: payload})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.events))
	for _, e := range p.events {
		keys = append(keys, e.key)
	}
	return keys
}
