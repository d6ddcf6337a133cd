package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
	"gorm.io/gorm"
)

type InventoryController struct {
	DB      *gorm.DB
	Reports *services.ReportService
}

func NewInventoryController(db *gorm.DB, reports *services.ReportService) *InventoryController {
	return &InventoryController{DB: db, Reports: reports}
}

func (ic *InventoryController) GetInventory(c *gin.Context) {
	var items []models.InventoryItem
	if err := ic.DB.WithContext(c.Request.Context()).Order("item_name").Find(&items).Error; err != nil {
		utils.RespondServiceError(c, utils.DBError(err, "list inventory"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of inventory items", items)
}

func (ic *InventoryController) GetLowStock(c *gin.Context) {
	items, err := ic.Reports.LowStock(c.Request.Context())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Items at or below reorder level", items)
}

func (ic *InventoryController) CreateInventoryItem(c *gin.Context) {
	var input struct {
		ItemName     string `json:"item_name" binding:"required"`
		CurrentStock int    `json:"current_stock" binding:"min=0"`
		ReorderLevel int    `json:"reorder_level" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item := models.InventoryItem{
		ItemName:     strings.TrimSpace(input.ItemName),
		CurrentStock: input.CurrentStock,
		ReorderLevel: input.ReorderLevel,
	}
	if err := ic.DB.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		utils.RespondServiceError(c, utils.DBError(err, "create inventory item"))
		return
	}

	utils.InfoLogger.WithField("inventory_id", item.ID).Infof("inventory item %q added", item.ItemName)
	utils.RespondJSON(c, http.StatusCreated, "Inventory item created", item)
}

// UpdateInventoryItem -> set stock and/or reorder level
func (ic *InventoryController) UpdateInventoryItem(c *gin.Context) {
	id, err := paramID(c, "inventory_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	var input struct {
		CurrentStock *int `json:"current_stock"`
		ReorderLevel *int `json:"reorder_level"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if (input.CurrentStock != nil && *input.CurrentStock < 0) || (input.ReorderLevel != nil && *input.ReorderLevel < 0) {
		utils.RespondServiceError(c, utils.Invalidf("stock and reorder level must not be negative"))
		return
	}

	db := ic.DB.WithContext(c.Request.Context())
	var item models.InventoryItem
	if err := db.First(&item, id).Error; err != nil {
		utils.RespondServiceError(c, utils.DBError(err, "find inventory item"))
		return
	}

	updates := map[string]interface{}{}
	if input.CurrentStock != nil {
		updates["current_stock"] = *input.CurrentStock
	}
	if input.ReorderLevel != nil {
		updates["reorder_level"] = *input.ReorderLevel
	}
	if len(updates) > 0 {
		if err := db.Model(&item).Updates(updates).Error; err != nil {
			utils.RespondServiceError(c, utils.DBError(err, "update inventory item"))
			return
		}
	}

	fields := map[string]interface{}{"inventory_id": item.ID, "stock": item.CurrentStock}
	if item.NeedsReorder() {
		utils.InfoLogger.WithFields(fields).Warn("inventory item at reorder level")
	} else {
		utils.InfoLogger.WithFields(fields).Info("inventory item updated")
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory item updated", item)
}
