package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ops/kds"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TableController struct {
	DB       *gorm.DB
	Notifier *services.Notifier
}

func NewTableController(db *gorm.DB, notifier *services.Notifier) *TableController {
	return &TableController{DB: db, Notifier: notifier}
}

// CreateTable -> add a table with its seating capacity
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Capacity int `json:"capacity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{Capacity: req.Capacity, Status: models.TableAvailable}
	if err := tc.DB.WithContext(c.Request.Context()).Create(&table).Error; err != nil {
		utils.RespondServiceError(c, utils.DBError(err, "create table"))
		return
	}

	tc.Notifier.Notify(c.Request.Context(), kds.EventTableUpdate, table)
	utils.InfoLogger.WithField("table_id", table.ID).Infof("new table created (capacity=%d)", table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> every table with status and current order
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.WithContext(c.Request.Context()).Order("id").Find(&tables).Error; err != nil {
		utils.RespondServiceError(c, utils.DBError(err, "list tables"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// UpdateTableStatus -> manual status change. A table holding an open order
// cannot be marked Available; the order is released by payment.
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	id, err := paramID(c, "table_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Status != models.TableAvailable && body.Status != models.TableOccupied {
		utils.RespondServiceError(c, utils.Invalidf("status must be %s or %s", models.TableAvailable, models.TableOccupied))
		return
	}

	var table models.Table
	err = tc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, id).Error; err != nil {
			return utils.DBError(err, "find table")
		}
		if body.Status == models.TableAvailable && table.HasOpenOrder() {
			return utils.Conflictf("table %d has open order %d", table.ID, *table.CurrentOrderID)
		}
		return tx.Model(&table).Update("status", body.Status).Error
	})
	if err != nil {
		utils.RespondServiceError(c, utils.DBError(err, "update table"))
		return
	}

	tc.Notifier.Notify(c.Request.Context(), kds.EventTableUpdate, table)
	utils.InfoLogger.WithField("table_id", table.ID).Infof("table status changed to %s", table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}
