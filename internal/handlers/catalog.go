// internal/handlers/catalog.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shackcart/backoffice/internal/services"
	"github.com/shackcart/backoffice/internal/utils"
)

type CatalogHandler struct {
	catalog *services.CatalogService
	storage *services.StorageService
}

func NewCatalogHandler(catalog *services.CatalogService, storage *services.StorageService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, storage: storage}
}

func parseBoolQuery(c *gin.Context, key string) *bool {
	raw, exists := c.GetQuery(key)
	if !exists {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

func (h *CatalogHandler) UpsertProduct(c *gin.Context) {
	var req services.UpsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid product payload", nil)
		return
	}

	product, err := h.catalog.UpsertProduct(&req)
	if err != nil {
		respondServiceError(c, "product", err)
		return
	}

	if req.ID == nil {
		utils.CreatedResponse(c, product)
		return
	}
	utils.SuccessResponse(c, product)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	archived, _ := strconv.ParseBool(c.DefaultQuery("archived", "false"))
	params := services.ProductListParams{
		Published: parseBoolQuery(c, "published"),
		Archived:  archived,
	}

	products, err := h.catalog.ListProducts(params)
	if err != nil {
		respondServiceError(c, "products", err)
		return
	}
	utils.SuccessResponse(c, products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	product, err := h.catalog.GetProductByID(id)
	if err != nil {
		respondServiceError(c, "product", err)
		return
	}
	utils.SuccessResponse(c, product)
}

func (h *CatalogHandler) GetProductBySlug(c *gin.Context) {
	product, err := h.catalog.GetProductBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, "product", err)
		return
	}
	utils.SuccessResponse(c, product)
}

func (h *CatalogHandler) UpsertCategory(c *gin.Context) {
	var req services.UpsertCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid category payload", nil)
		return
	}

	category, err := h.catalog.UpsertCategory(&req)
	if err != nil {
		respondServiceError(c, "category", err)
		return
	}

	if req.ID == nil {
		utils.CreatedResponse(c, category)
		return
	}
	utils.SuccessResponse(c, category)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(parseBoolQuery(c, "visible"))
	if err != nil {
		respondServiceError(c, "categories", err)
		return
	}
	utils.SuccessResponse(c, categories)
}

func (h *CatalogHandler) UploadProductImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "Missing file upload", nil)
		return
	}
	defer file.Close()

	result, err := h.storage.UploadFile(file, header, services.ProductImageOptions())
	if err != nil {
		respondServiceError(c, "upload", err)
		return
	}
	utils.CreatedResponse(c, result)
}
