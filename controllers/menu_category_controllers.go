package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/yeremiapane/canteen-pos/services"
	"github.com/yeremiapane/canteen-pos/utils"
)

type MenuCategoryController struct {
	Catalog *services.CatalogService
}

func NewMenuCategoryController(catalog *services.CatalogService) *MenuCategoryController {
	return &MenuCategoryController{Catalog: catalog}
}

type categoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	Image       *string `json:"image" binding:"omitempty,max=255"`
}

func (r categoryRequest) input() (services.CategoryInput, error) {
	var in services.CategoryInput
	err := copier.Copy(&in, &r)
	return in, err
}

// GetAllCategories
func (mcc *MenuCategoryController) GetAllCategories(c *gin.Context) {
	categories, err := mcc.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All menu categories", categories)
}

// CreateCategory
func (mcc *MenuCategoryController) CreateCategory(c *gin.Context) {
	var body categoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondValidation(c, err)
		return
	}
	if body.Name == nil {
		utils.RespondValidation(c, errors.New("name: this field is required"))
		return
	}

	in, err := body.input()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	category, err := mcc.Catalog.CreateCategory(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// GetCategoryByID
func (mcc *MenuCategoryController) GetCategoryByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	category, err := mcc.Catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category detail", category)
}

// ReplaceCategory handles PUT: omitted optional fields are cleared.
func (mcc *MenuCategoryController) ReplaceCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body categoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondValidation(c, err)
		return
	}
	if body.Name == nil {
		utils.RespondValidation(c, errors.New("name: this field is required"))
		return
	}
	empty := ""
	if body.Description == nil {
		body.Description = &empty
	}
	if body.Image == nil {
		body.Image = &empty
	}

	mcc.update(c, id, body)
}

// UpdateCategory handles PATCH.
func (mcc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body categoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondValidation(c, err)
		return
	}

	mcc.update(c, id, body)
}

func (mcc *MenuCategoryController) update(c *gin.Context, id uint, body categoryRequest) {
	in, err := body.input()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	category, err := mcc.Catalog.UpdateCategory(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory
func (mcc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := mcc.Catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": id})
}
