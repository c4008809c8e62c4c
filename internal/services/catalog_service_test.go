// internal/services/catalog_service_test.go
package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shackcart/backoffice/internal/models"
)

func ptr[T any](v T) *T { return &v }

type CatalogServiceSuite struct {
	suite.Suite
	db       *gorm.DB
	svc      *CatalogService
	category *models.StoreCategory
}

func (s *CatalogServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.svc = NewCatalogService(s.db)

	category, err := s.svc.UpsertCategory(&UpsertCategoryRequest{Name: "Menu"})
	s.Require().NoError(err)
	s.category = category
}

func (s *CatalogServiceSuite) createProduct(name string, modifiers []ModifierInput) *models.Product {
	product, err := s.svc.UpsertProduct(&UpsertProductRequest{
		Name:            name,
		Price:           ptr(7.5),
		Public:          ptr(true),
		StoreCategoryID: &s.category.ID,
		Modifiers:       modifiers,
	})
	s.Require().NoError(err)
	return product
}

func (s *CatalogServiceSuite) TestCreateProductValidation() {
	cases := []UpsertProductRequest{
		{Price: ptr(1.0), Public: ptr(true), StoreCategoryID: &s.category.ID},
		{Name: "Arepa", Public: ptr(true), StoreCategoryID: &s.category.ID},
		{Name: "Arepa", Price: ptr(1.0), StoreCategoryID: &s.category.ID},
		{Name: "Arepa", Price: ptr(1.0), Public: ptr(true)},
	}

	for i := range cases {
		_, err := s.svc.UpsertProduct(&cases[i])
		s.True(IsValidationError(err), "case %d", i)
	}
}

func (s *CatalogServiceSuite) TestProductSlugSequence() {
	for _, want := range []string{"arepa", "arepa-1", "arepa-2"} {
		product := s.createProduct("Arepa", nil)
		s.Equal(want, product.Slug)
	}
}

func (s *CatalogServiceSuite) TestProductRenameKeepsSlug() {
	product := s.createProduct("Arepa Reina Pepiada", nil)
	s.Equal("arepa-reina-pepiada", product.Slug)

	updated, err := s.svc.UpsertProduct(&UpsertProductRequest{
		ID:   &product.ID,
		Name: "Totally Different Name",
	})
	s.Require().NoError(err)
	s.Equal("arepa-reina-pepiada", updated.Slug)
	s.Equal("Totally Different Name", updated.Name)
}

func (s *CatalogServiceSuite) TestModifierOrdinalsFollowRequestOrder() {
	product := s.createProduct("Arepa Reina Pepiada", []ModifierInput{
		{Name: "Size", Items: []ModifierItemInput{
			{Name: "Small", Cost: 0},
			{Name: "Large", Cost: 2.5},
		}},
		{Name: "Extras", Items: []ModifierItemInput{
			{Name: "Cheese", Cost: 1},
		}},
	})

	s.Require().Len(product.Modifiers, 2)
	s.Equal("Size", product.Modifiers[0].Name)
	s.Equal("Extras", product.Modifiers[1].Name)
	s.Require().Len(product.Modifiers[0].Items, 2)
	s.Equal("Small", product.Modifiers[0].Items[0].Name)
	s.Equal("Large", product.Modifiers[0].Items[1].Name)

	var rows []models.ProductModifier
	s.Require().NoError(s.db.Where("product_id = ?", product.ID).Order("ordinal ASC").Find(&rows).Error)
	s.Require().Len(rows, 2)
	s.Equal(0, rows[0].Ordinal)
	s.Equal(1, rows[1].Ordinal)
}

func (s *CatalogServiceSuite) TestHydratedOutputHidesOrdinals() {
	product := s.createProduct("Arepa", []ModifierInput{
		{Name: "Size", Items: []ModifierItemInput{{Name: "Small"}}},
	})

	payload, err := json.Marshal(product.Modifiers)
	s.Require().NoError(err)
	s.NotContains(string(payload), `"ordinal"`)

	// Category ordering is part of the public shape and stays visible.
	full, err := json.Marshal(product)
	s.Require().NoError(err)
	s.Contains(string(full), `"ordinal":1`)
}

func (s *CatalogServiceSuite) TestInactiveModifierSkippedOnCreate() {
	product := s.createProduct("Arepa", []ModifierInput{
		{Name: "Hidden", Active: ptr(false)},
		{Name: "Size"},
	})

	s.Require().Len(product.Modifiers, 1)
	s.Equal("Size", product.Modifiers[0].Name)

	var row models.ProductModifier
	s.Require().NoError(s.db.Where("product_id = ? AND name = ?", product.ID, "Size").First(&row).Error)
	s.Equal(0, row.Ordinal)
}

func (s *CatalogServiceSuite) TestInactiveFlagsPersistOnUpdate() {
	product := s.createProduct("Arepa", []ModifierInput{
		{Name: "Size", Items: []ModifierItemInput{{Name: "Small"}}},
	})

	updated, err := s.svc.UpsertProduct(&UpsertProductRequest{
		ID: &product.ID,
		Modifiers: []ModifierInput{
			{ID: &product.Modifiers[0].ID, Name: "Size", Items: []ModifierItemInput{
				{ID: &product.Modifiers[0].Items[0].ID, Name: "Small"},
			}},
			{Name: "Retired", Active: ptr(false), Items: []ModifierItemInput{
				{Name: "Gone", Active: ptr(false)},
			}},
		},
	})
	s.Require().NoError(err)

	// The deactivated modifier and item must land as false rows, not fall
	// back to an active default, and stay out of the hydrated view.
	s.Require().Len(updated.Modifiers, 1)
	s.Equal("Size", updated.Modifiers[0].Name)

	var mod models.ProductModifier
	s.Require().NoError(s.db.Where("product_id = ? AND name = ?", product.ID, "Retired").First(&mod).Error)
	s.False(mod.Active)

	var item models.ProductModifierItem
	s.Require().NoError(s.db.Where("modifier_id = ? AND name = ?", mod.ID, "Gone").First(&item).Error)
	s.False(item.Active)
}

func (s *CatalogServiceSuite) TestOmittedModifiersUntouched() {
	product := s.createProduct("Arepa", []ModifierInput{
		{Name: "Size"},
		{Name: "Extras"},
	})

	updated, err := s.svc.UpsertProduct(&UpsertProductRequest{
		ID:    &product.ID,
		Price: ptr(9.0),
	})
	s.Require().NoError(err)
	s.Len(updated.Modifiers, 2)
	s.InDelta(9.0, updated.Price, 0.001)
}

func (s *CatalogServiceSuite) TestCarriedItemsGetFlattenedPositions() {
	product := s.createProduct("Arepa", []ModifierInput{
		{Name: "Size", Items: []ModifierItemInput{
			{Name: "Small"},
			{Name: "Large", Cost: 2.5},
		}},
		{Name: "Extras", Items: []ModifierItemInput{
			{Name: "Cheese", Cost: 1},
		}},
	})

	size := product.Modifiers[0]
	extras := product.Modifiers[1]
	s.Require().Len(size.Items, 2)
	s.Require().Len(extras.Items, 1)

	_, err := s.svc.UpsertProduct(&UpsertProductRequest{
		ID: &product.ID,
		Modifiers: []ModifierInput{
			{ID: &size.ID, Name: "Size", Items: []ModifierItemInput{
				{ID: &size.Items[0].ID, Name: "Small"},
				{ID: &size.Items[1].ID, Name: "Large", Cost: 2.5},
			}},
			{ID: &extras.ID, Name: "Extras", Items: []ModifierItemInput{
				{ID: &extras.Items[0].ID, Name: "Cheese", Cost: 1},
			}},
		},
	})
	s.Require().NoError(err)

	ordinalOf := func(id uuid.UUID) int {
		var row models.ProductModifierItem
		s.Require().NoError(s.db.First(&row, "id = ?", id).Error)
		return row.Ordinal
	}

	s.Equal(0, ordinalOf(size.Items[0].ID))
	s.Equal(1, ordinalOf(size.Items[1].ID))
	s.Equal(2, ordinalOf(extras.Items[0].ID))
}

func (s *CatalogServiceSuite) TestAppendedItemsPositionedWithinIdlessSubset() {
	product := s.createProduct("Arepa", []ModifierInput{
		{Name: "Extras", Items: []ModifierItemInput{{Name: "Cheese"}}},
	})
	extras := product.Modifiers[0]

	_, err := s.svc.UpsertProduct(&UpsertProductRequest{
		ID: &product.ID,
		Modifiers: []ModifierInput{
			{ID: &extras.ID, Name: "Extras", Items: []ModifierItemInput{
				{ID: &extras.Items[0].ID, Name: "Cheese"},
				{Name: "Avocado", Cost: 1.5},
				{Name: "Plantains", Cost: 1},
			}},
		},
	})
	s.Require().NoError(err)

	var rows []models.ProductModifierItem
	s.Require().NoError(s.db.Where("modifier_id = ?", extras.ID).Order("name ASC").Find(&rows).Error)
	s.Require().Len(rows, 3)

	byName := make(map[string]int)
	for _, row := range rows {
		byName[row.Name] = row.Ordinal
	}
	s.Equal(0, byName["Cheese"])
	s.Equal(0, byName["Avocado"])
	s.Equal(1, byName["Plantains"])
}

func (s *CatalogServiceSuite) TestArchiveSetsTimestamp() {
	product := s.createProduct("Arepa", nil)

	archived, err := s.svc.UpsertProduct(&UpsertProductRequest{
		ID:       &product.ID,
		Archived: ptr(true),
	})
	s.Require().NoError(err)
	s.True(archived.Archived)
	s.Require().NotNil(archived.ArchivedAt)

	restored, err := s.svc.UpsertProduct(&UpsertProductRequest{
		ID:       &product.ID,
		Archived: ptr(false),
	})
	s.Require().NoError(err)
	s.False(restored.Archived)
	s.Nil(restored.ArchivedAt)
}

func (s *CatalogServiceSuite) TestArchivedListingWindow() {
	recent := s.createProduct("Recent", nil)
	old := s.createProduct("Old", nil)
	s.createProduct("Live", nil)

	s.Require().NoError(s.db.Model(&models.Product{}).Where("id = ?", recent.ID).
		Updates(map[string]interface{}{"archived": true, "archived_at": time.Now().AddDate(0, 0, -10)}).Error)
	s.Require().NoError(s.db.Model(&models.Product{}).Where("id = ?", old.ID).
		Updates(map[string]interface{}{"archived": true, "archived_at": time.Now().AddDate(0, 0, -40)}).Error)

	products, err := s.svc.ListProducts(ProductListParams{Archived: true})
	s.Require().NoError(err)
	s.Require().Len(products, 1)
	s.Equal("Recent", products[0].Name)

	live, err := s.svc.ListProducts(ProductListParams{Archived: false})
	s.Require().NoError(err)
	s.Len(live, 1)
}

func (s *CatalogServiceSuite) TestListProductsPublishedFilter() {
	s.createProduct("Public", nil)
	_, err := s.svc.UpsertProduct(&UpsertProductRequest{
		Name:            "Hidden",
		Price:           ptr(3.0),
		Public:          ptr(false),
		StoreCategoryID: &s.category.ID,
	})
	s.Require().NoError(err)

	published, err := s.svc.ListProducts(ProductListParams{Published: ptr(true)})
	s.Require().NoError(err)
	s.Require().Len(published, 1)
	s.Equal("Public", published[0].Name)
}

func (s *CatalogServiceSuite) TestUpdateMissingProduct() {
	id := uuid.New()
	_, err := s.svc.UpsertProduct(&UpsertProductRequest{ID: &id, Name: "Ghost"})
	s.True(errors.Is(err, ErrNotFound))
}

func (s *CatalogServiceSuite) TestCategoryRenameRegeneratesSlug() {
	category, err := s.svc.UpsertCategory(&UpsertCategoryRequest{Name: "Drinks"})
	s.Require().NoError(err)
	s.Equal("drinks", category.Slug)

	renamed, err := s.svc.UpsertCategory(&UpsertCategoryRequest{ID: &category.ID, Name: "Cold Drinks"})
	s.Require().NoError(err)
	s.Equal("cold-drinks", renamed.Slug)

	// A rename with the same normalized form keeps the base slug because the
	// category excludes itself from the collision count.
	same, err := s.svc.UpsertCategory(&UpsertCategoryRequest{ID: &category.ID, Name: "Cold  Drinks!"})
	s.Require().NoError(err)
	s.Equal("cold-drinks", same.Slug)
}

func (s *CatalogServiceSuite) TestCategoryVisibilityAndCounts() {
	s.createProduct("Arepa", nil)

	hidden, err := s.svc.UpsertCategory(&UpsertCategoryRequest{Name: "Hidden", Visible: ptr(false)})
	s.Require().NoError(err)
	s.False(hidden.Visible)

	var stored models.StoreCategory
	s.Require().NoError(s.db.First(&stored, "id = ?", hidden.ID).Error)
	s.False(stored.Visible)

	all, err := s.svc.ListCategories(nil)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("Menu", all[0].Name)
	s.Equal(int64(1), all[0].ProductCount)
	s.Equal(int64(0), all[1].ProductCount)

	visible, err := s.svc.ListCategories(ptr(true))
	s.Require().NoError(err)
	s.Require().Len(visible, 1)
	s.NotEqual(hidden.ID, visible[0].ID)
}

func (s *CatalogServiceSuite) TestGetProductBySlug() {
	product := s.createProduct("Arepa Pabellon", nil)

	found, err := s.svc.GetProductBySlug("arepa-pabellon")
	s.Require().NoError(err)
	s.Equal(product.ID, found.ID)

	_, err = s.svc.GetProductBySlug("missing")
	s.True(errors.Is(err, ErrNotFound))
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}
