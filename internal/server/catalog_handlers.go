package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopd-dev/shopd/internal/models"
)

// BrandInput is the create/update request body for a brand
type BrandInput struct {
	Name    string `json:"name" binding:"required"`
	Slug    string `json:"slug" binding:"required,slug"`
	LogoURL string `json:"logo_url"`
	Active  *bool  `json:"active"`
}

// BrandView is the wire representation of a brand
type BrandView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	LogoURL   string `json:"logo_url"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

func brandView(b *models.Brand) *BrandView {
	return &BrandView{
		ID:        b.ID,
		Name:      b.Name,
		Slug:      b.Slug,
		LogoURL:   b.LogoURL,
		Active:    b.Active,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) listBrands(c *gin.Context) {
	var brands []models.Brand
	if err := s.db.Order("name ASC").Find(&brands).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list brands")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]*BrandView, len(brands))
	for i := range brands {
		views[i] = brandView(&brands[i])
	}
	respond(c, http.StatusOK, views)
}

func (s *Server) getBrand(c *gin.Context) {
	var brand models.Brand
	if err := s.db.Where("id = ?", c.Param("id")).First(&brand).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find brand")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(c, http.StatusOK, brandView(&brand))
}

func (s *Server) createBrand(c *gin.Context) {
	var req BrandInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	var count int64
	if err := s.db.Model(&models.Brand{}).Where("slug = ?", req.Slug).Count(&count).Error; err == nil && count > 0 {
		fail(c, http.StatusConflict, "A brand with this slug already exists")
		return
	}

	brand := &models.Brand{
		Name:    req.Name,
		Slug:    req.Slug,
		LogoURL: req.LogoURL,
		Active:  true,
	}
	if req.Active != nil {
		brand.Active = *req.Active
	}

	if err := s.db.Create(brand).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create brand")
		fail(c, http.StatusInternalServerError, "Failed to create brand")
		return
	}

	respond(c, http.StatusCreated, brandView(brand))
}

func (s *Server) updateBrand(c *gin.Context) {
	var brand models.Brand
	if err := s.db.Where("id = ?", c.Param("id")).First(&brand).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Partial update: only bound fields are applied
	var req struct {
		Name    string `json:"name"`
		Slug    string `json:"slug" binding:"omitempty,slug"`
		LogoURL string `json:"logo_url"`
		Active  *bool  `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	if req.Name != "" {
		brand.Name = req.Name
	}
	if req.Slug != "" {
		brand.Slug = req.Slug
	}
	if req.LogoURL != "" {
		brand.LogoURL = req.LogoURL
	}
	if req.Active != nil {
		brand.Active = *req.Active
	}

	if err := s.db.Save(&brand).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update brand")
		fail(c, http.StatusInternalServerError, "Failed to update brand")
		return
	}

	respond(c, http.StatusOK, brandView(&brand))
}

func (s *Server) deleteBrand(c *gin.Context) {
	var brand models.Brand
	if err := s.db.Where("id = ?", c.Param("id")).First(&brand).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Brands with products cannot be removed
	var count int64
	if err := s.db.Model(&models.Product{}).Where("brand_id = ?", brand.ID).Count(&count).Error; err == nil && count > 0 {
		fail(c, http.StatusConflict, "Brand still has products")
		return
	}

	if err := s.db.Delete(&brand).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete brand")
		fail(c, http.StatusInternalServerError, "Failed to delete brand")
		return
	}

	respond(c, http.StatusOK, gin.H{"deleted": true})
}

// CategoryInput is the create/update request body for a category
type CategoryInput struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug" binding:"required,slug"`
	ParentID string `json:"parent_id"`
	Position int    `json:"position"`
}

// CategoryView is the wire representation of a category
type CategoryView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID string `json:"parent_id"`
	Position int    `json:"position"`
}

func categoryView(cat *models.Category) *CategoryView {
	view := &CategoryView{
		ID:       cat.ID,
		Name:     cat.Name,
		Slug:     cat.Slug,
		Position: cat.Position,
	}
	if cat.ParentID != nil {
		view.ParentID = *cat.ParentID
	}
	return view
}

func (s *Server) listCategories(c *gin.Context) {
	var categories []models.Category
	if err := s.db.Order("position ASC, name ASC").Find(&categories).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list categories")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]*CategoryView, len(categories))
	for i := range categories {
		views[i] = categoryView(&categories[i])
	}
	respond(c, http.StatusOK, views)
}

func (s *Server) createCategory(c *gin.Context) {
	var req CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	category := &models.Category{
		Name:     req.Name,
		Slug:     req.Slug,
		Position: req.Position,
	}
	if req.ParentID != "" {
		var parent models.Category
		if err := s.db.Where("id = ?", req.ParentID).First(&parent).Error; err != nil {
			fail(c, http.StatusUnprocessableEntity, "Validation error", "parent category does not exist")
			return
		}
		category.ParentID = &req.ParentID
	}

	if err := s.db.Create(category).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create category")
		fail(c, http.StatusInternalServerError, "Failed to create category")
		return
	}

	respond(c, http.StatusCreated, categoryView(category))
}

func (s *Server) updateCategory(c *gin.Context) {
	var category models.Category
	if err := s.db.Where("id = ?", c.Param("id")).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	var req struct {
		Name     string `json:"name"`
		Slug     string `json:"slug" binding:"omitempty,slug"`
		Position *int   `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Slug != "" {
		category.Slug = req.Slug
	}
	if req.Position != nil {
		category.Position = *req.Position
	}

	if err := s.db.Save(&category).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update category")
		fail(c, http.StatusInternalServerError, "Failed to update category")
		return
	}

	respond(c, http.StatusOK, categoryView(&category))
}

func (s *Server) deleteCategory(c *gin.Context) {
	var category models.Category
	if err := s.db.Where("id = ?", c.Param("id")).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	var count int64
	if err := s.db.Model(&models.Product{}).Where("category_id = ?", category.ID).Count(&count).Error; err == nil && count > 0 {
		fail(c, http.StatusConflict, "Category still has products")
		return
	}
	if err := s.db.Model(&models.Category{}).Where("parent_id = ?", category.ID).Count(&count).Error; err == nil && count > 0 {
		fail(c, http.StatusConflict, "Category still has subcategories")
		return
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.Specification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete category")
		fail(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	respond(c, http.StatusOK, gin.H{"deleted": true})
}

// SpecificationInput is the create request body for a specification
type SpecificationInput struct {
	CategoryID string `json:"category_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Unit       string `json:"unit"`
}

func (s *Server) listSpecifications(c *gin.Context) {
	categoryID := c.Query("category_id")
	if categoryID == "" {
		fail(c, http.StatusBadRequest, "Invalid request data", "category_id query parameter is required")
		return
	}

	var specs []models.Specification
	if err := s.db.Where("category_id = ?", categoryID).Order("name ASC").Find(&specs).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list specifications")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond(c, http.StatusOK, specs)
}

func (s *Server) createSpecification(c *gin.Context) {
	var req SpecificationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	var category models.Category
	if err := s.db.Where("id = ?", req.CategoryID).First(&category).Error; err != nil {
		fail(c, http.StatusUnprocessableEntity, "Validation error", "category does not exist")
		return
	}

	spec := &models.Specification{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Unit:       req.Unit,
	}
	if err := s.db.Create(spec).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create specification")
		fail(c, http.StatusInternalServerError, "Failed to create specification")
		return
	}

	respond(c, http.StatusCreated, spec)
}

func (s *Server) deleteSpecification(c *gin.Context) {
	result := s.db.Where("id = ?", c.Param("id")).Delete(&models.Specification{})
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to delete specification")
		fail(c, http.StatusInternalServerError, "Failed to delete specification")
		return
	}
	if result.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "Resource not found")
		return
	}

	respond(c, http.StatusOK, gin.H{"deleted": true})
}
