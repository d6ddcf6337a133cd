package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// Login -> staff login with username, password and role
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := ac.Auth.StaffLogin(c.Request.Context(), input.Username, input.Password, input.Role)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", result)
}

// Register -> customer self registration
func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Name  string  `json:"name" binding:"required"`
		Phone string  `json:"phone" binding:"required"`
		Email *string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, customer, err := ac.Auth.RegisterCustomer(c.Request.Context(), input.Name, input.Phone, input.Email)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Customer registered", gin.H{
		"token":    result.Token,
		"session":  result.Session,
		"screens":  result.Screens,
		"customer": customer,
	})
}

func (ac *AuthController) CustomerLogin(c *gin.Context) {
	var input struct {
		Name  string `json:"name" binding:"required"`
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := ac.Auth.CustomerLogin(c.Request.Context(), input.Name, input.Phone)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", result)
}

func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.Auth.Logout(c.Request.Context(), mustSession(c)); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (ac *AuthController) Me(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Current session", mustSession(c))
}

// Portal -> screens available to the caller's role
func (ac *AuthController) Portal(c *gin.Context) {
	session := mustSession(c)
	utils.RespondJSON(c, http.StatusOK, "Portal", gin.H{
		"role":    session.Role,
		"screens": services.ScreensFor(session.Role),
	})
}
