// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shackcart/backoffice/internal/models"
)

// archivedWindowDays bounds the "recently archived" view. Archived products
// older than the window stay in the store but drop out of the listing.
const archivedWindowDays = 30

// CatalogService reconciles desired product/category shapes against stored
// state. Modifiers and their items are append/update only: a modifier id
// missing from a request is left untouched, never deleted.
type CatalogService struct {
	db    *gorm.DB
	slugs *SlugAllocator
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{
		db:    db,
		slugs: NewSlugAllocator(db),
	}
}

type ModifierItemInput struct {
	ID         *uuid.UUID   `json:"id,omitempty"`
	Name       string       `json:"name"`
	Cost       float64      `json:"cost"`
	Percentage bool         `json:"percentage"`
	Active     *bool        `json:"active,omitempty"`
	Meta       models.JSONB `json:"meta,omitempty"`
}

type ModifierInput struct {
	ID               *uuid.UUID          `json:"id,omitempty"`
	Name             string              `json:"name"`
	Type             string              `json:"type,omitempty"`
	DefaultValue     string              `json:"default_value,omitempty"`
	TemplateAccessor string              `json:"template_accessor,omitempty"`
	Active           *bool               `json:"active,omitempty"`
	Items            []ModifierItemInput `json:"items,omitempty"`
}

type UpsertProductRequest struct {
	ID              *uuid.UUID         `json:"id,omitempty"`
	Name            string             `json:"name,omitempty"`
	Price           *float64           `json:"price,omitempty"`
	Type            models.ProductType `json:"type,omitempty"`
	MinQuantity     *int               `json:"min_quantity,omitempty"`
	Public          *bool              `json:"public,omitempty"`
	Description     *string            `json:"description,omitempty"`
	Meta            models.JSONB       `json:"meta,omitempty"`
	Archived        *bool              `json:"archived,omitempty"`
	StoreCategoryID *uuid.UUID         `json:"store_category_id,omitempty"`

	// Modifiers carries the desired final order of the set. nil leaves the
	// stored set untouched.
	Modifiers []ModifierInput `json:"modifiers,omitempty"`
}

// UpsertProduct reconciles the desired representation against stored state
// and returns the rehydrated product re-read after commit.
func (s *CatalogService) UpsertProduct(req *UpsertProductRequest) (*models.Product, error) {
	if req.ID == nil {
		return s.createProduct(req)
	}
	return s.updateProduct(req)
}

func (s *CatalogService) createProduct(req *UpsertProductRequest) (*models.Product, error) {
	switch {
	case req.Name == "":
		return nil, validationError("product name is required")
	case req.Price == nil:
		return nil, validationError("product price is required")
	case req.Public == nil:
		return nil, validationError("product public flag is required")
	case req.StoreCategoryID == nil:
		return nil, validationError("product category is required")
	}

	attempt := func() (*models.Product, error) {
		slug, err := s.slugs.Allocate(&models.Product{}, req.Name, nil)
		if err != nil {
			return nil, err
		}

		product := &models.Product{
			Name:            req.Name,
			Slug:            slug,
			Price:           *req.Price,
			Type:            req.Type,
			MinQuantity:     req.MinQuantity,
			Public:          *req.Public,
			Meta:            req.Meta,
			StoreCategoryID: req.StoreCategoryID,
		}
		if req.Description != nil {
			product.Description = *req.Description
		}

		ordinal := 0
		for _, m := range req.Modifiers {
			if !boolOrDefault(m.Active, true) {
				continue
			}
			mod := models.ProductModifier{
				Name:             m.Name,
				Type:             m.Type,
				DefaultValue:     m.DefaultValue,
				TemplateAccessor: m.TemplateAccessor,
				Active:           true,
				Ordinal:          ordinal,
			}
			for j, item := range m.Items {
				mod.Items = append(mod.Items, newModifierItem(item, j))
			}
			product.Modifiers = append(product.Modifiers, mod)
			ordinal++
		}

		// gorm persists the product and its nested associations in one
		// transaction; partial failure leaves no rows behind.
		if err := s.db.Create(product).Error; err != nil {
			return nil, err
		}
		return product, nil
	}

	product, err := attempt()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent allocation observed the same match count. The unique
		// index is the arbiter: recompute and retry exactly once.
		product, err = attempt()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Resource: "product slug", Err: err}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return s.GetProductByID(product.ID)
}

func (s *CatalogService) updateProduct(req *UpsertProductRequest) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", *req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Scalar updates. The slug is assigned once at creation and never
	// recomputed here, even when the name changes.
	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Type != "" {
		updates["type"] = req.Type
	}
	if req.MinQuantity != nil {
		updates["min_quantity"] = *req.MinQuantity
	}
	if req.Public != nil {
		updates["public"] = *req.Public
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Meta != nil {
		updates["meta"] = req.Meta
	}
	if req.StoreCategoryID != nil {
		updates["store_category_id"] = *req.StoreCategoryID
	}
	if req.Archived != nil {
		updates["archived"] = *req.Archived
		if *req.Archived {
			updates["archived_at"] = time.Now()
		} else {
			updates["archived_at"] = nil
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	if req.Modifiers != nil {
		if err := s.reconcileModifiers(&product, req.Modifiers); err != nil {
			return nil, err
		}
		if err := s.reconcileCarriedItems(req.Modifiers); err != nil {
			return nil, err
		}
	}

	return s.GetProductByID(product.ID)
}

// reconcileModifiers upserts the supplied modifier set in one transaction.
// Ordinals are written from the position within the request list, so density
// holds without a renumbering pass.
func (s *CatalogService) reconcileModifiers(product *models.Product, inputs []ModifierInput) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for idx, m := range inputs {
			if m.ID == nil {
				mod := models.ProductModifier{
					ProductID:        product.ID,
					Name:             m.Name,
					Type:             m.Type,
					DefaultValue:     m.DefaultValue,
					TemplateAccessor: m.TemplateAccessor,
					Active:           boolOrDefault(m.Active, true),
					Ordinal:          idx,
				}
				for j, item := range m.Items {
					mod.Items = append(mod.Items, newModifierItem(item, j))
				}
				if err := tx.Create(&mod).Error; err != nil {
					return fmt.Errorf("failed to create modifier: %w", err)
				}
				continue
			}

			modUpdates := map[string]interface{}{
				"name":              m.Name,
				"type":              m.Type,
				"default_value":     m.DefaultValue,
				"template_accessor": m.TemplateAccessor,
				"ordinal":           idx,
			}
			if m.Active != nil {
				modUpdates["active"] = *m.Active
			}
			if err := tx.Model(&models.ProductModifier{}).
				Where("id = ? AND product_id = ?", *m.ID, product.ID).
				Updates(modUpdates).Error; err != nil {
				return fmt.Errorf("failed to update modifier: %w", err)
			}

			// Items arriving without an identifier are appended, positioned
			// within the id-less subset only.
			created := 0
			for _, item := range m.Items {
				if item.ID != nil {
					continue
				}
				row := newModifierItem(item, created)
				row.ModifierID = *m.ID
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("failed to create modifier item: %w", err)
				}
				created++
			}
		}
		return nil
	})
}

// reconcileCarriedItems batch-updates every item that arrived with an
// identifier, as a second transaction. Positions come from a single counter
// flattened across all modifiers in the request; stored data written by the
// system this one replaces used the same numbering, so it is kept.
func (s *CatalogService) reconcileCarriedItems(inputs []ModifierInput) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		position := 0
		for _, m := range inputs {
			for _, item := range m.Items {
				if item.ID == nil {
					continue
				}
				updates := map[string]interface{}{
					"name":       item.Name,
					"cost":       item.Cost,
					"percentage": item.Percentage,
					"ordinal":    position,
				}
				if item.Active != nil {
					updates["active"] = *item.Active
				}
				if item.Meta != nil {
					updates["meta"] = item.Meta
				}
				if err := tx.Model(&models.ProductModifierItem{}).
					Where("id = ?", *item.ID).
					Updates(updates).Error; err != nil {
					return fmt.Errorf("failed to update modifier item: %w", err)
				}
				position++
			}
		}
		return nil
	})
}

func newModifierItem(input ModifierItemInput, ordinal int) models.ProductModifierItem {
	return models.ProductModifierItem{
		Name:       input.Name,
		Cost:       input.Cost,
		Percentage: input.Percentage,
		Active:     boolOrDefault(input.Active, true),
		Ordinal:    ordinal,
		Meta:       input.Meta,
	}
}

func (s *CatalogService) hydrated() *gorm.DB {
	return s.db.
		Preload("StoreCategory").
		Preload("Modifiers", func(db *gorm.DB) *gorm.DB {
			return db.Where("active = ?", true).Order("ordinal ASC")
		}).
		Preload("Modifiers.Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("active = ?", true).Order("ordinal ASC")
		})
}

func (s *CatalogService) GetProductByID(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.hydrated().First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *CatalogService) GetProductBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := s.hydrated().First(&product, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

type ProductListParams struct {
	Published *bool
	Archived  bool
}

// ListProducts returns flat products (no modifier hydration). The archived
// view is limited to rows archived within the last 30 days.
func (s *CatalogService) ListProducts(params ProductListParams) ([]models.Product, error) {
	query := s.db.Preload("StoreCategory").Where("archived = ?", params.Archived)
	if params.Published != nil {
		query = query.Where("public = ?", *params.Published)
	}
	if params.Archived {
		cutoff := time.Now().AddDate(0, 0, -archivedWindowDays)
		query = query.Where("archived_at >= ? OR archived_at IS NULL", cutoff)
	}

	var products []models.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

type UpsertCategoryRequest struct {
	ID      *uuid.UUID `json:"id,omitempty"`
	Name    string     `json:"name,omitempty"`
	Visible *bool      `json:"visible,omitempty"`
	Ordinal *int       `json:"ordinal,omitempty"`
}

// UpsertCategory creates or updates a store category. Unlike products, a
// rename regenerates the slug (excluding the category itself from the
// collision count).
func (s *CatalogService) UpsertCategory(req *UpsertCategoryRequest) (*models.StoreCategory, error) {
	if req.ID == nil {
		return s.createCategory(req)
	}
	return s.updateCategory(req)
}

func (s *CatalogService) createCategory(req *UpsertCategoryRequest) (*models.StoreCategory, error) {
	if req.Name == "" {
		return nil, validationError("category name is required")
	}

	attempt := func() (*models.StoreCategory, error) {
		slug, err := s.slugs.Allocate(&models.StoreCategory{}, req.Name, nil)
		if err != nil {
			return nil, err
		}

		var count int64
		if err := s.db.Model(&models.StoreCategory{}).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count categories: %w", err)
		}

		category := &models.StoreCategory{
			Name:    req.Name,
			Slug:    slug,
			Ordinal: int(count) + 1,
			Visible: boolOrDefault(req.Visible, true),
		}
		if err := s.db.Create(category).Error; err != nil {
			return nil, err
		}
		return category, nil
	}

	category, err := attempt()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		category, err = attempt()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Resource: "category slug", Err: err}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) updateCategory(req *UpsertCategoryRequest) (*models.StoreCategory, error) {
	var category models.StoreCategory
	if err := s.db.First(&category, "id = ?", *req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	attempt := func() error {
		updates := make(map[string]interface{})
		if req.Name != "" {
			slug, err := s.slugs.Allocate(&models.StoreCategory{}, req.Name, req.ID)
			if err != nil {
				return err
			}
			updates["name"] = req.Name
			updates["slug"] = slug
		}
		if req.Visible != nil {
			updates["visible"] = *req.Visible
		}
		if req.Ordinal != nil {
			updates["ordinal"] = *req.Ordinal
		}
		if len(updates) == 0 {
			return nil
		}
		return s.db.Model(&category).Updates(updates).Error
	}

	err := attempt()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = attempt()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Resource: "category slug", Err: err}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	if err := s.db.First(&category, "id = ?", *req.ID).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

type CategoryWithCount struct {
	models.StoreCategory
	ProductCount int64 `json:"product_count"`
}

func (s *CatalogService) ListCategories(visible *bool) ([]CategoryWithCount, error) {
	query := s.db.Model(&models.StoreCategory{}).
		Select("store_categories.*, (SELECT COUNT(*) FROM products WHERE products.store_category_id = store_categories.id AND products.deleted_at IS NULL) AS product_count")
	if visible != nil {
		query = query.Where("visible = ?", *visible)
	}

	var categories []CategoryWithCount
	if err := query.Order("ordinal ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func boolOrDefault(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
