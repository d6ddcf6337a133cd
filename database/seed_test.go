package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
	"gorm.io/gorm"
)

const testSeed = `
tables:
  - capacity: 2
  - capacity: 4
menu:
  - name: Masala Dosa
    price: "150.00"
    category: Main Course
staff:
  - username: maya
    password: secret
    role: Manager
inventory:
  - item_name: Rice
    current_stock: 5
    reorder_level: 10
`

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestLoadSeed(t *testing.T) {
	data, err := LoadSeed(strings.NewReader(testSeed))
	require.NoError(t, err)

	want := &SeedData{
		Tables:    []SeedTable{{Capacity: 2}, {Capacity: 4}},
		Menu:      []SeedMenuItem{{Name: "Masala Dosa", Price: "150.00", Category: "Main Course"}},
		Staff:     []SeedStaff{{Username: "maya", Password: "secret", Role: "Manager"}},
		Inventory: []SeedInventory{{ItemName: "Rice", CurrentStock: 5, ReorderLevel: 10}},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("LoadSeed mismatch (-want +got):\n%s", diff)
	}
}

func assertCategory(t *testing.T, err, category error) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, errors.Is(err, category), "expected %q category, got: %v", category, err)
	}
}

func TestLoadSeedRejectsBadInput(t *testing.T) {
	_, err := LoadSeed(strings.NewReader("staff:\n  - username: x\n    password: y\n    role: Janitor\n"))
	assertCategory(t, err, utils.ErrInvalid)

	_, err = LoadSeed(strings.NewReader("menu:\n  - name: x\n    price: \"1\"\n    category: Snacks\n"))
	assertCategory(t, err, utils.ErrInvalid)

	_, err = LoadSeed(strings.NewReader("tabels:\n  - capacity: 2\n"))
	assert.Error(t, err)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSeed), 0o600))

	first, err := SeedFromFile(context.Background(), db, path)
	require.NoError(t, err)
	if diff := cmp.Diff(SeedResult{Tables: 2, Menu: 1, Staff: 1, Inventory: 1}, first); diff != "" {
		t.Errorf("first seed mismatch (-want +got):\n%s", diff)
	}

	second, err := SeedFromFile(context.Background(), db, path)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{}, second)

	var staff models.Staff
	require.NoError(t, db.Where("username = ?", "maya").First(&staff).Error)
	assert.True(t, utils.CheckPassword(staff.Password, "secret"))
	assert.True(t, staff.Active)

	var tables []models.Table
	require.NoError(t, db.Order("id").Find(&tables).Error)
	require.Len(t, tables, 2)
	assert.Equal(t, models.TableAvailable, tables[0].Status)
}

func TestSeedExampleFileLoads(t *testing.T) {
	f, err := os.Open(filepath.Join("..", "seed.example.yaml"))
	require.NoError(t, err)
	defer f.Close()

	data, err := LoadSeed(f)
	require.NoError(t, err)
	assert.NotEmpty(t, data.Tables)
	assert.Len(t, data.Staff, len(models.StaffRoles))
}
