package database

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type SeedData struct {
	Tables    []SeedTable     `yaml:"tables"`
	Menu      []SeedMenuItem  `yaml:"menu"`
	Staff     []SeedStaff     `yaml:"staff"`
	Inventory []SeedInventory `yaml:"inventory"`
}

type SeedTable struct {
	Capacity int `yaml:"capacity"`
}

type SeedMenuItem struct {
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

type SeedStaff struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type SeedInventory struct {
	ItemName     string `yaml:"item_name"`
	CurrentStock int    `yaml:"current_stock"`
	ReorderLevel int    `yaml:"reorder_level"`
}

// SeedResult counts the rows actually inserted.
type SeedResult struct {
	Tables    int
	Menu      int
	Staff     int
	Inventory int
}

func LoadSeed(r io.Reader) (*SeedData, error) {
	var data SeedData
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(err, "decode seed file")
	}
	for _, s := range data.Staff {
		if !models.IsStaffRole(s.Role) {
			return nil, utils.Invalidf("seed staff %q has unknown role %q", s.Username, s.Role)
		}
	}
	for _, m := range data.Menu {
		if !models.IsMenuCategory(m.Category) {
			return nil, utils.Invalidf("seed menu item %q has unknown category %q", m.Name, m.Category)
		}
	}
	return &data, nil
}

func SeedFromFile(ctx context.Context, db *gorm.DB, path string) (SeedResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return SeedResult{}, errors.Wrap(err, "open seed file")
	}
	defer f.Close()

	data, err := LoadSeed(f)
	if err != nil {
		return SeedResult{}, err
	}
	return Seed(ctx, db, data)
}

// Seed inserts fixtures that are not present yet. Staff, menu and inventory
// rows are matched by name; tables are only created into an empty floor.
func Seed(ctx context.Context, db *gorm.DB, data *SeedData) (SeedResult, error) {
	var result SeedResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tableCount int64
		if err := tx.Model(&models.Table{}).Count(&tableCount).Error; err != nil {
			return err
		}
		if tableCount == 0 {
			for _, t := range data.Tables {
				table := models.Table{Capacity: t.Capacity, Status: models.TableAvailable}
				if err := tx.Create(&table).Error; err != nil {
					return err
				}
				result.Tables++
			}
		}

		for _, m := range data.Menu {
			price, err := decimal.NewFromString(m.Price)
			if err != nil {
				return utils.Invalidf("seed menu item %q has invalid price %q", m.Name, m.Price)
			}
			item := models.MenuItem{Name: m.Name, Price: price, Category: m.Category, Description: m.Description}
			res := tx.Where(models.MenuItem{Name: m.Name}).FirstOrCreate(&item)
			if res.Error != nil {
				return res.Error
			}
			result.Menu += int(res.RowsAffected)
		}

		for _, s := range data.Staff {
			hashed, err := utils.HashPassword(s.Password)
			if err != nil {
				return err
			}
			staff := models.Staff{Username: s.Username, Password: hashed, Role: s.Role, Active: true}
			res := tx.Where(models.Staff{Username: s.Username}).FirstOrCreate(&staff)
			if res.Error != nil {
				return res.Error
			}
			result.Staff += int(res.RowsAffected)
		}

		for _, i := range data.Inventory {
			item := models.InventoryItem{ItemName: i.ItemName, CurrentStock: i.CurrentStock, ReorderLevel: i.ReorderLevel}
			res := tx.Where(models.InventoryItem{ItemName: i.ItemName}).FirstOrCreate(&item)
			if res.Error != nil {
				return res.Error
			}
			result.Inventory += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, utils.DBError(err, "seed database")
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"tables":    result.Tables,
		"menu":      result.Menu,
		"staff":     result.Staff,
		"inventory": result.Inventory,
	}).Info("seed applied")
	return result, nil
}
