package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/canteen-pos/models"
	"github.com/yeremiapane/canteen-pos/utils"
	"gorm.io/gorm"
)

var maxMenuPrice = decimal.NewFromInt(1000000)

type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// ----- Categories -----

type CategoryInput struct {
	Name        *string
	Description *string
	Image       *string
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.MenuCategory, error) {
	categories := []models.MenuCategory{}
	err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	for i := range categories {
		for j := range categories[i].Items {
			categories[i].Items[j].CategoryName = categories[i].Name
		}
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.MenuCategory, error) {
	var category models.MenuCategory
	err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("menu category %d does not exist", id)
		}
		return nil, err
	}
	for i := range category.Items {
		category.Items[i].CategoryName = category.Name
	}
	return &category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.MenuCategory, error) {
	category := models.MenuCategory{}
	if err := applyCategory(&category, in); err != nil {
		return nil, err
	}
	if category.Name == "" {
		return nil, validationf("category name is required")
	}

	db := s.DB.WithContext(ctx)
	if err := s.ensureUniqueName(db, category.Name, 0); err != nil {
		return nil, err
	}
	if err := db.Create(&category).Error; err != nil {
		return nil, translateWrite(err, category.Name)
	}

	utils.InfoLogger.Printf("menu category %q created", category.Name)
	return s.GetCategory(ctx, category.ID)
}

// UpdateCategory writes the non-nil fields of in.
func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.MenuCategory, error) {
	db := s.DB.WithContext(ctx)

	var category models.MenuCategory
	if err := db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("menu category %d does not exist", id)
		}
		return nil, err
	}
	if err := applyCategory(&category, in); err != nil {
		return nil, err
	}
	if category.Name == "" {
		return nil, validationf("category name is required")
	}
	if err := s.ensureUniqueName(db, category.Name, category.ID); err != nil {
		return nil, err
	}
	if err := db.Omit("Items").Save(&category).Error; err != nil {
		return nil, translateWrite(err, category.Name)
	}
	return s.GetCategory(ctx, category.ID)
}

// DeleteCategory removes a category and its items. Order lines that pointed
// at those items keep their snapshots and lose the reference.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.MenuCategory
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("menu category %d does not exist", id)
			}
			return err
		}

		var itemIDs []uint
		if err := tx.Model(&models.MenuItem{}).Where("category_id = ?", id).Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if len(itemIDs) > 0 {
			if err := detachOrderItems(tx, itemIDs...); err != nil {
				return err
			}
			if err := tx.Where("id IN ?", itemIDs).Delete(&models.MenuItem{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		return err
	}
	utils.InfoLogger.Printf("menu category %d deleted", id)
	return nil
}

func applyCategory(category *models.MenuCategory, in CategoryInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len(name) > 100 {
			return validationf("category name must be at most 100 characters")
		}
		category.Name = name
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.Image != nil {
		category.Image = emptyToNil(*in.Image)
	}
	return nil
}

func (s *CatalogService) ensureUniqueName(db *gorm.DB, name string, exceptID uint) error {
	var count int64
	q := db.Model(&models.MenuCategory{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return conflictf("menu category with this name already exists")
	}
	return nil
}

// translateWrite maps a unique index violation that raced past the pre-check.
func translateWrite(err error, name string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflictf("menu category %q already exists", name)
	}
	return err
}

// ----- Menu items -----

type MenuItemFilter struct {
	CategoryID *uint
	Available  *bool
	Search     string
}

type MenuItemInput struct {
	CategoryID  *uint
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Available   *bool
	Image       *string
}

func (s *CatalogService) ListMenuItems(ctx context.Context, f MenuItemFilter) ([]models.MenuItem, error) {
	q := s.DB.WithContext(ctx).Preload("Category").Order("name ASC").Order("id ASC")
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Available != nil {
		q = q.Where("available = ?", *f.Available)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	items := []models.MenuItem{}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	for i := range items {
		fillCategoryName(&items[i])
	}
	return items, nil
}

func (s *CatalogService) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.DB.WithContext(ctx).Preload("Category").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("menu item %d does not exist", id)
		}
		return nil, err
	}
	fillCategoryName(&item)
	return &item, nil
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, in MenuItemInput) (*models.MenuItem, error) {
	if in.CategoryID == nil {
		return nil, validationf("category is required")
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, validationf("name is required")
	}
	if in.Price == nil {
		return nil, validationf("price is required")
	}

	item := models.MenuItem{Available: true}
	db := s.DB.WithContext(ctx)
	if err := s.applyMenuItem(db, &item, in); err != nil {
		return nil, err
	}
	if err := db.Omit("Category").Create(&item).Error; err != nil {
		return nil, err
	}
	// gorm skips zero values that have a column default on create
	if !item.Available {
		if err := db.Model(&item).Update("available", false).Error; err != nil {
			return nil, err
		}
	}

	utils.InfoLogger.Printf("menu item %q created at %s", item.Name, utils.FormatCurrency(item.Price.Decimal))
	return s.GetMenuItem(ctx, item.ID)
}

// UpdateMenuItem writes the non-nil fields of in. Existing order lines keep
// the price they were sold at.
func (s *CatalogService) UpdateMenuItem(ctx context.Context, id uint, in MenuItemInput) (*models.MenuItem, error) {
	db := s.DB.WithContext(ctx)

	var item models.MenuItem
	if err := db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("menu item %d does not exist", id)
		}
		return nil, err
	}
	if err := s.applyMenuItem(db, &item, in); err != nil {
		return nil, err
	}
	if err := db.Omit("Category").Save(&item).Error; err != nil {
		return nil, err
	}
	return s.GetMenuItem(ctx, item.ID)
}

func (s *CatalogService) DeleteMenuItem(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("menu item %d does not exist", id)
			}
			return err
		}
		if err := detachOrderItems(tx, item.ID); err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return err
	}
	utils.InfoLogger.Printf("menu item %d deleted", id)
	return nil
}

func (s *CatalogService) applyMenuItem(db *gorm.DB, item *models.MenuItem, in MenuItemInput) error {
	if in.CategoryID != nil {
		var category models.MenuCategory
		if err := db.First(&category, *in.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("menu category %d does not exist", *in.CategoryID)
			}
			return err
		}
		item.CategoryID = category.ID
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return validationf("name is required")
		}
		if len(name) > 100 {
			return validationf("name must be at most 100 characters")
		}
		item.Name = name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return err
		}
		item.Price = models.NewMoney(*in.Price)
	}
	if in.Available != nil {
		item.Available = *in.Available
	}
	if in.Image != nil {
		item.Image = emptyToNil(*in.Image)
	}
	return nil
}

// validatePrice enforces what a decimal(8,2) column can hold.
func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return validationf("price must not be negative")
	}
	if p.Exponent() < -2 && !p.Equal(p.Round(2)) {
		return validationf("price must have at most 2 decimal places")
	}
	if p.GreaterThanOrEqual(maxMenuPrice) {
		return validationf("price must be less than %s", maxMenuPrice.String())
	}
	return nil
}

func detachOrderItems(tx *gorm.DB, menuItemIDs ...uint) error {
	return tx.Model(&models.OrderItem{}).
		Where("menu_item_id IN ?", menuItemIDs).
		Update("menu_item_id", nil).Error
}

func fillCategoryName(item *models.MenuItem) {
	if item.Category != nil {
		item.CategoryName = item.Category.Name
	}
}

func emptyToNil(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
