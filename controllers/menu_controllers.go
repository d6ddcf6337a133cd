package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
	"gorm.io/gorm"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetMenu -> all items, or one category with ?category=
func (mc *MenuController) GetMenu(c *gin.Context) {
	query := mc.DB.WithContext(c.Request.Context())
	if category := c.Query("category"); category != "" {
		if !models.IsMenuCategory(category) {
			utils.RespondError(c, http.StatusBadRequest, utils.Invalidf("unknown category %q", category))
			return
		}
		query = query.Where("category = ?", category).Order("name")
	} else {
		query = query.Order("category, name")
	}

	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		utils.RespondServiceError(c, utils.DBError(err, "list menu"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

type menuItemInput struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
}

func (in menuItemInput) validate(creating bool) error {
	if creating && (in.Name == nil || in.Price == nil || in.Category == nil) {
		return utils.Invalidf("name, price and category are required")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return utils.Invalidf("name must not be empty")
	}
	if in.Price != nil && !in.Price.IsPositive() {
		return utils.Invalidf("price must be greater than zero")
	}
	if in.Category != nil && !models.IsMenuCategory(*in.Category) {
		return utils.Invalidf("unknown category %q", *in.Category)
	}
	return nil
}

func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var input menuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := input.validate(true); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	item := models.MenuItem{
		Name:     strings.TrimSpace(*input.Name),
		Price:    input.Price.Round(2),
		Category: *input.Category,
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if err := mc.DB.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		utils.RespondServiceError(c, utils.DBError(err, "create menu item"))
		return
	}

	utils.InfoLogger.WithField("menu_item_id", item.ID).Infof("menu item %q added", item.Name)
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	id, err := paramID(c, "item_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	var input menuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := input.validate(false); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	db := mc.DB.WithContext(c.Request.Context())
	var item models.MenuItem
	if err := db.First(&item, id).Error; err != nil {
		utils.RespondServiceError(c, utils.DBError(err, "find menu item"))
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		updates["price"] = input.Price.Round(2)
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if len(updates) > 0 {
		if err := db.Model(&item).Updates(updates).Error; err != nil {
			utils.RespondServiceError(c, utils.DBError(err, "update menu item"))
			return
		}
	}

	utils.InfoLogger.WithField("menu_item_id", item.ID).Info("menu item updated")
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}
