package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopd-dev/shopd/internal/models"
)

// ProductInput is the create/update request body for a product
type ProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Slug        string  `json:"slug" binding:"required,slug"`
	Description string  `json:"description"`
	BrandID     string  `json:"brand_id" binding:"required"`
	CategoryID  string  `json:"category_id" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	ImageURL    string  `json:"image_url"`
	Active      *bool   `json:"active"`
}

// ProductView is the wire representation of a product. Monetary amounts are
// serialized as strings, matching the platform API.
type ProductView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	BrandID     string         `json:"brand_id"`
	CategoryID  string         `json:"category_id"`
	Price       string         `json:"price"`
	ImageURL    string         `json:"image_url"`
	Active      bool           `json:"active"`
	CreatedAt   string         `json:"created_at"`
	Inventory   *InventoryView `json:"inventory,omitempty"`
}

// InventoryView is the wire representation of a product's stock
type InventoryView struct {
	ID                string `json:"id"`
	ProductID         string `json:"product_id"`
	Stock             int    `json:"stock"`
	Reserved          int    `json:"reserved"`
	Available         int    `json:"available"`
	LowStockThreshold int    `json:"low_stock_threshold"`
	LowStock          bool   `json:"low_stock"`
}

func productView(p *models.Product) *ProductView {
	view := &ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		BrandID:     p.BrandID,
		CategoryID:  p.CategoryID,
		Price:       money(p.Price),
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.Inventory != nil {
		view.Inventory = inventoryView(p.Inventory)
	}
	return view
}

func inventoryView(inv *models.Inventory) *InventoryView {
	return &InventoryView{
		ID:                inv.ID,
		ProductID:         inv.ProductID,
		Stock:             inv.Stock,
		Reserved:          inv.Reserved,
		Available:         inv.Available(),
		LowStockThreshold: inv.LowStockThreshold,
		LowStock:          inv.LowStock(),
	}
}

func (s *Server) listProducts(c *gin.Context) {
	const defaultPerPage = 50

	query := s.db.Model(&models.Product{})
	if brandID := c.Query("brand_id"); brandID != "" {
		query = query.Where("brand_id = ?", brandID)
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	if perPage < 1 || perPage > 200 {
		perPage = defaultPerPage
	}

	var products []models.Product
	err := query.Preload("Inventory").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&products).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list products")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]*ProductView, len(products))
	for i := range products {
		views[i] = productView(&products[i])
	}
	respond(c, http.StatusOK, views)
}

func (s *Server) getProduct(c *gin.Context) {
	var product models.Product
	if err := s.db.Preload("Inventory").Where("id = ?", c.Param("id")).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find product")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(c, http.StatusOK, productView(&product))
}

func (s *Server) createProduct(c *gin.Context) {
	var req ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	var brand models.Brand
	if err := s.db.Where("id = ?", req.BrandID).First(&brand).Error; err != nil {
		fail(c, http.StatusUnprocessableEntity, "Validation error", "brand does not exist")
		return
	}
	var category models.Category
	if err := s.db.Where("id = ?", req.CategoryID).First(&category).Error; err != nil {
		fail(c, http.StatusUnprocessableEntity, "Validation error", "category does not exist")
		return
	}

	var count int64
	if err := s.db.Model(&models.Product{}).Where("slug = ?", req.Slug).Count(&count).Error; err == nil && count > 0 {
		fail(c, http.StatusConflict, "A product with this slug already exists")
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		BrandID:     req.BrandID,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Active:      true,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	// Every product gets an inventory row so stock operations never 404
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		inv := &models.Inventory{ProductID: product.ID}
		if err := tx.Create(inv).Error; err != nil {
			return err
		}
		product.Inventory = inv
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create product")
		fail(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	respond(c, http.StatusCreated, productView(product))
}

func (s *Server) updateProduct(c *gin.Context) {
	var product models.Product
	if err := s.db.Preload("Inventory").Where("id = ?", c.Param("id")).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	var req struct {
		Name        string   `json:"name"`
		Slug        string   `json:"slug" binding:"omitempty,slug"`
		Description string   `json:"description"`
		Price       *float64 `json:"price" binding:"omitempty,gt=0"`
		ImageURL    string   `json:"image_url"`
		Active      *bool    `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Slug != "" {
		product.Slug = req.Slug
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.ImageURL != "" {
		product.ImageURL = req.ImageURL
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.db.Save(&product).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update product")
		fail(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	respond(c, http.StatusOK, productView(&product))
}

func (s *Server) deleteProduct(c *gin.Context) {
	var product models.Product
	if err := s.db.Where("id = ?", c.Param("id")).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var inv models.Inventory
		if err := tx.Where("product_id = ?", product.ID).First(&inv).Error; err == nil {
			if err := tx.Where("inventory_id = ?", inv.ID).Delete(&models.InventoryMovement{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&inv).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete product")
		fail(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	respond(c, http.StatusOK, gin.H{"deleted": true})
}

// RestockRequest adds stock to a product
type RestockRequest struct {
	Quantity int    `json:"quantity" binding:"required,gt=0"`
	Reason   string `json:"reason"`
}

// AdjustRequest corrects stock by a signed delta
type AdjustRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// InventoryMovementView is the wire representation of a stock change
type InventoryMovementView struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) findInventory(c *gin.Context) (*models.Inventory, bool) {
	var inv models.Inventory
	if err := s.db.Where("product_id = ?", c.Param("productId")).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return nil, false
		}
		s.logger.Error().Err(err).Msg("Failed to find inventory")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return &inv, true
}

func (s *Server) getInventory(c *gin.Context) {
	inv, ok := s.findInventory(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, inventoryView(inv))
}

func (s *Server) listInventoryMovements(c *gin.Context) {
	inv, ok := s.findInventory(c)
	if !ok {
		return
	}

	var movements []models.InventoryMovement
	if err := s.db.Where("inventory_id = ?", inv.ID).Order("created_at DESC").Find(&movements).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list inventory movements")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]*InventoryMovementView, len(movements))
	for i := range movements {
		m := &movements[i]
		views[i] = &InventoryMovementView{
			ID:        m.ID,
			Kind:      m.Kind,
			Delta:     m.Delta,
			Reason:    m.Reason,
			CreatedBy: m.CreatedBy,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	respond(c, http.StatusOK, views)
}

func (s *Server) restockInventory(c *gin.Context) {
	inv, ok := s.findInventory(c)
	if !ok {
		return
	}

	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	sessionData, _ := GetSessionData(c)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		inv.Stock += req.Quantity
		if err := tx.Save(inv).Error; err != nil {
			return err
		}
		return tx.Create(&models.InventoryMovement{
			InventoryID: inv.ID,
			Kind:        models.MovementRestock,
			Delta:       req.Quantity,
			Reason:      req.Reason,
			CreatedBy:   sessionData.UserID,
		}).Error
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to restock inventory")
		fail(c, http.StatusInternalServerError, "Failed to restock inventory")
		return
	}

	s.logger.Info().
		Str("product_id", inv.ProductID).
		Int("quantity", req.Quantity).
		Str("by", sessionData.UserID).
		Msg("Inventory restocked")

	respond(c, http.StatusOK, inventoryView(inv))
}

func (s *Server) adjustInventory(c *gin.Context) {
	inv, ok := s.findInventory(c)
	if !ok {
		return
	}

	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	if inv.Stock+req.Delta < 0 {
		fail(c, http.StatusUnprocessableEntity, "Validation error", "adjustment would make stock negative")
		return
	}

	sessionData, _ := GetSessionData(c)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		inv.Stock += req.Delta
		if err := tx.Save(inv).Error; err != nil {
			return err
		}
		return tx.Create(&models.InventoryMovement{
			InventoryID: inv.ID,
			Kind:        models.MovementAdjustment,
			Delta:       req.Delta,
			Reason:      req.Reason,
			CreatedBy:   sessionData.UserID,
		}).Error
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to adjust inventory")
		fail(c, http.StatusInternalServerError, "Failed to adjust inventory")
		return
	}

	s.logger.Info().
		Str("product_id", inv.ProductID).
		Int("delta", req.Delta).
		Str("by", sessionData.UserID).
		Msg("Inventory adjusted")

	respond(c, http.StatusOK, inventoryView(inv))
}
