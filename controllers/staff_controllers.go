package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
	"gorm.io/gorm"
)

type StaffController struct {
	DB *gorm.DB
}

func NewStaffController(db *gorm.DB) *StaffController {
	return &StaffController{DB: db}
}

func (sc *StaffController) GetAllStaff(c *gin.Context) {
	var staff []models.Staff
	if err := sc.DB.WithContext(c.Request.Context()).Order("role, username").Find(&staff).Error; err != nil {
		utils.RespondServiceError(c, utils.DBError(err, "list staff"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of staff", staff)
}

func (sc *StaffController) CreateStaff(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.IsStaffRole(input.Role) {
		utils.RespondServiceError(c, utils.Invalidf("unknown staff role %q", input.Role))
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	staff := models.Staff{
		Username: strings.TrimSpace(input.Username),
		Password: hashed,
		Role:     input.Role,
		Active:   true,
	}
	if err := sc.DB.WithContext(c.Request.Context()).Create(&staff).Error; err != nil {
		utils.RespondServiceError(c, utils.DBError(err, "create staff"))
		return
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"staff_id": staff.ID,
		"role":     staff.Role,
	}).Info("staff member added")
	utils.RespondJSON(c, http.StatusCreated, "Staff member created", staff)
}

func (sc *StaffController) UpdateStaff(c *gin.Context) {
	id, err := paramID(c, "staff_id")
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	var input struct {
		Username *string `json:"username"`
		Role     *string `json:"role"`
		Active   *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if input.Role != nil && !models.IsStaffRole(*input.Role) {
		utils.RespondServiceError(c, utils.Invalidf("unknown staff role %q", *input.Role))
		return
	}
	if input.Username != nil && strings.TrimSpace(*input.Username) == "" {
		utils.RespondServiceError(c, utils.Invalidf("username must not be empty"))
		return
	}

	db := sc.DB.WithContext(c.Request.Context())
	var staff models.Staff
	if err := db.First(&staff, id).Error; err != nil {
		utils.RespondServiceError(c, utils.DBError(err, "find staff"))
		return
	}

	updates := map[string]interface{}{}
	if input.Username != nil {
		updates["username"] = strings.TrimSpace(*input.Username)
	}
	if input.Role != nil {
		updates["role"] = *input.Role
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if len(updates) > 0 {
		if err := db.Model(&staff).Updates(updates).Error; err != nil {
			utils.RespondServiceError(c, utils.DBError(err, "update staff"))
			return
		}
	}

	utils.InfoLogger.WithField("staff_id", staff.ID).Info("staff member updated")
	utils.RespondJSON(c, http.StatusOK, "Staff member updated", staff)
}
