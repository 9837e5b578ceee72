package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenus -> katalog menu, diurutkan sort_order
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	var menus []models.Menu
	query := mc.DB.Preload("Category").Order("sort_order, name")

	// Customer hanya melihat item yang available
	if c.Query("include_unavailable") != "true" {
		query = query.Where("available = ?", true)
	}

	if err := query.Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// GetMenuByCategory -> menu dalam satu kategori
func (mc *MenuController) GetMenuByCategory(c *gin.Context) {
	categoryID := c.Query("category_id")
	if categoryID == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("category_id is required"))
		return
	}

	var menus []models.Menu
	if err := mc.DB.Preload("Category").
		Where("category_id = ? AND available = ?", categoryID, true).
		Order("sort_order, name").
		Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menus in category", menus)
}

type menuPayload struct {
	CategoryID  uint    `json:"category_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required"`
	Vegetarian  bool    `json:"vegetarian"`
	Vegan       bool    `json:"vegan"`
	GlutenFree  bool    `json:"gluten_free"`
	PrepMinutes int     `json:"prep_minutes"`
	Allergens   string  `json:"allergens"`
	Available   *bool   `json:"available"`
	SortOrder   int     `json:"sort_order"`
}

// CreateMenu -> menambahkan item katalog
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req menuPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Price <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("price must be positive"))
		return
	}

	menu := models.Menu{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Vegetarian:  req.Vegetarian,
		Vegan:       req.Vegan,
		GlutenFree:  req.GlutenFree,
		PrepMinutes: req.PrepMinutes,
		Allergens:   req.Allergens,
		Available:   true,
		SortOrder:   req.SortOrder,
	}
	if req.Available != nil {
		menu.Available = *req.Available
	}

	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New menu created: %s (price=%.2f)", menu.Name, menu.Price)
	utils.RespondJSON(c, http.StatusCreated, "Menu created successfully", menu)
}

// GetMenuByID -> detail satu item
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	menuID := c.Param("menu_id")
	var menu models.Menu
	if err := mc.DB.Preload("Category").First(&menu, menuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

// UpdateMenu -> edit item katalog. Harga baru tidak mengubah snapshot
// harga pada order yang sudah ada.
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	menuID := c.Param("menu_id")

	var menu models.Menu
	if err := mc.DB.First(&menu, menuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var body struct {
		CategoryID  *uint    `json:"category_id"`
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Vegetarian  *bool    `json:"vegetarian"`
		Vegan       *bool    `json:"vegan"`
		GlutenFree  *bool    `json:"gluten_free"`
		PrepMinutes *int     `json:"prep_minutes"`
		Allergens   *string  `json:"allergens"`
		Available   *bool    `json:"available"`
		SortOrder   *int     `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.CategoryID != nil {
		menu.CategoryID = *body.CategoryID
	}
	if body.Name != nil {
		menu.Name = *body.Name
	}
	if body.Description != nil {
		menu.Description = *body.Description
	}
	if body.Price != nil {
		if *body.Price <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must be positive"))
			return
		}
		menu.Price = *body.Price
	}
	if body.Vegetarian != nil {
		menu.Vegetarian = *body.Vegetarian
	}
	if body.Vegan != nil {
		menu.Vegan = *body.Vegan
	}
	if body.GlutenFree != nil {
		menu.GlutenFree = *body.GlutenFree
	}
	if body.PrepMinutes != nil {
		menu.PrepMinutes = *body.PrepMinutes
	}
	if body.Allergens != nil {
		menu.Allergens = *body.Allergens
	}
	if body.Available != nil {
		menu.Available = *body.Available
	}
	if body.SortOrder != nil {
		menu.SortOrder = *body.SortOrder
	}

	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

// DeleteMenu -> menghapus item katalog
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	menuID := c.Param("menu_id")
	var menu models.Menu
	if err := mc.DB.First(&menu, menuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := mc.DB.Delete(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"id": menu.ID})
}
