package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/canteen-pos/services"
	"github.com/yeremiapane/canteen-pos/utils"
)

type MenuItemController struct {
	Catalog *services.CatalogService
}

func NewMenuItemController(catalog *services.CatalogService) *MenuItemController {
	return &MenuItemController{Catalog: catalog}
}

type menuItemRequest struct {
	Category    *uint            `json:"category"`
	Name        *string          `json:"name" binding:"omitempty,max=100"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" copier:"-"`
	Available   *bool            `json:"available"`
	Image       *string          `json:"image" binding:"omitempty,max=255"`
}

func (r menuItemRequest) input() (services.MenuItemInput, error) {
	var in services.MenuItemInput
	if err := copier.Copy(&in, &r); err != nil {
		return in, err
	}
	// copier would route decimals through sql.Scanner
	in.CategoryID = r.Category
	in.Price = r.Price
	return in, nil
}

func (r menuItemRequest) missing() error {
	var fields []string
	if r.Category == nil {
		fields = append(fields, "category")
	}
	if r.Name == nil {
		fields = append(fields, "name")
	}
	if r.Price == nil {
		fields = append(fields, "price")
	}
	if len(fields) == 0 {
		return nil
	}
	return errors.New(strings.Join(fields, ", ") + ": this field is required")
}

// GetAllMenuItems supports ?category=, ?available= and ?search=.
func (mc *MenuItemController) GetAllMenuItems(c *gin.Context) {
	var filter services.MenuItemFilter

	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.RespondValidation(c, errors.New("category: select a valid choice"))
			return
		}
		catID := uint(id)
		filter.CategoryID = &catID
	}
	if raw := c.Query("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			utils.RespondValidation(c, errors.New("available: enter true or false"))
			return
		}
		filter.Available = &available
	}
	filter.Search = c.Query("search")

	items, err := mc.Catalog.ListMenuItems(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// GetMenuItemByID
func (mc *MenuItemController) GetMenuItemByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	item, err := mc.Catalog.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

// CreateMenuItem
func (mc *MenuItemController) CreateMenuItem(c *gin.Context) {
	var body menuItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondValidation(c, err)
		return
	}
	if err := body.missing(); err != nil {
		utils.RespondValidation(c, err)
		return
	}

	in, err := body.input()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	item, err := mc.Catalog.CreateMenuItem(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// ReplaceMenuItem handles PUT. category, name and price are required;
// omitted optional fields fall back to their defaults.
func (mc *MenuItemController) ReplaceMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body menuItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondValidation(c, err)
		return
	}
	if err := body.missing(); err != nil {
		utils.RespondValidation(c, err)
		return
	}
	empty, available := "", true
	if body.Description == nil {
		body.Description = &empty
	}
	if body.Image == nil {
		body.Image = &empty
	}
	if body.Available == nil {
		body.Available = &available
	}

	mc.update(c, id, body)
}

// UpdateMenuItem handles PATCH.
func (mc *MenuItemController) UpdateMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body menuItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondValidation(c, err)
		return
	}

	mc.update(c, id, body)
}

func (mc *MenuItemController) update(c *gin.Context, id uint, body menuItemRequest) {
	in, err := body.input()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	item, err := mc.Catalog.UpdateMenuItem(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem
func (mc *MenuItemController) DeleteMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := mc.Catalog.DeleteMenuItem(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"menu_item_id": id})
}
