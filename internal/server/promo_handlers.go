package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopd-dev/shopd/internal/models"
)

// DealInput is the create request body for a deal
type DealInput struct {
	Title     string  `json:"title" binding:"required"`
	ProductID string  `json:"product_id" binding:"required"`
	DealPrice float64 `json:"deal_price" binding:"required,gt=0"`
	StartsAt  string  `json:"starts_at" binding:"required"`
	EndsAt    string  `json:"ends_at" binding:"required"`
}

// DealView is the wire representation of a deal
type DealView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ProductID string `json:"product_id"`
	DealPrice string `json:"deal_price"`
	StartsAt  string `json:"starts_at"`
	EndsAt    string `json:"ends_at"`
	Active    bool   `json:"active"`
}

func dealView(d *models.Deal) *DealView {
	return &DealView{
		ID:        d.ID,
		Title:     d.Title,
		ProductID: d.ProductID,
		DealPrice: money(d.DealPrice),
		StartsAt:  d.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:    d.EndsAt.UTC().Format(time.RFC3339),
		Active:    d.Active,
	}
}

func (s *Server) listDeals(c *gin.Context) {
	var deals []models.Deal
	if err := s.db.Order("starts_at DESC").Find(&deals).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list deals")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]*DealView, len(deals))
	for i := range deals {
		views[i] = dealView(&deals[i])
	}
	respond(c, http.StatusOK, views)
}

func (s *Server) createDeal(c *gin.Context) {
	var req DealInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, "Validation error", "starts_at must be RFC3339")
		return
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, "Validation error", "ends_at must be RFC3339")
		return
	}
	if !endsAt.After(startsAt) {
		fail(c, http.StatusUnprocessableEntity, "Validation error", "ends_at must be after starts_at")
		return
	}

	var product models.Product
	if err := s.db.Where("id = ?", req.ProductID).First(&product).Error; err != nil {
		fail(c, http.StatusUnprocessableEntity, "Validation error", "product does not exist")
		return
	}
	if req.DealPrice >= product.Price {
		fail(c, http.StatusUnprocessableEntity, "Validation error", "deal price must be below the regular price")
		return
	}

	deal := &models.Deal{
		Title:     req.Title,
		ProductID: req.ProductID,
		DealPrice: req.DealPrice,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		Active:    true,
	}
	if err := s.db.Create(deal).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create deal")
		fail(c, http.StatusInternalServerError, "Failed to create deal")
		return
	}

	respond(c, http.StatusCreated, dealView(deal))
}

func (s *Server) updateDeal(c *gin.Context) {
	var deal models.Deal
	if err := s.db.Where("id = ?", c.Param("id")).First(&deal).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	var req struct {
		Title     string   `json:"title"`
		DealPrice *float64 `json:"deal_price" binding:"omitempty,gt=0"`
		StartsAt  string   `json:"starts_at"`
		EndsAt    string   `json:"ends_at"`
		Active    *bool    `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	if req.Title != "" {
		deal.Title = req.Title
	}
	if req.DealPrice != nil {
		deal.DealPrice = *req.DealPrice
	}
	if req.StartsAt != "" {
		startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			fail(c, http.StatusUnprocessableEntity, "Validation error", "starts_at must be RFC3339")
			return
		}
		deal.StartsAt = startsAt
	}
	if req.EndsAt != "" {
		endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			fail(c, http.StatusUnprocessableEntity, "Validation error", "ends_at must be RFC3339")
			return
		}
		deal.EndsAt = endsAt
	}
	if !deal.EndsAt.After(deal.StartsAt) {
		fail(c, http.StatusUnprocessableEntity, "Validation error", "ends_at must be after starts_at")
		return
	}
	if req.Active != nil {
		deal.Active = *req.Active
	}

	if err := s.db.Save(&deal).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update deal")
		fail(c, http.StatusInternalServerError, "Failed to update deal")
		return
	}

	respond(c, http.StatusOK, dealView(&deal))
}

func (s *Server) deleteDeal(c *gin.Context) {
	result := s.db.Where("id = ?", c.Param("id")).Delete(&models.Deal{})
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to delete deal")
		fail(c, http.StatusInternalServerError, "Failed to delete deal")
		return
	}
	if result.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "Resource not found")
		return
	}

	respond(c, http.StatusOK, gin.H{"deleted": true})
}

// CouponInput is the create request body for a coupon
type CouponInput struct {
	Code          string  `json:"code" binding:"required"`
	Kind          string  `json:"kind" binding:"required,oneof=percent fixed"`
	Value         float64 `json:"value" binding:"required,gt=0"`
	MinOrderTotal float64 `json:"min_order_total" binding:"omitempty,gte=0"`
	MaxUses       int     `json:"max_uses" binding:"omitempty,gte=0"`
	ExpiresAt     string  `json:"expires_at"`
}

// CouponView is the wire representation of a coupon
type CouponView struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Kind          string `json:"kind"`
	Value         string `json:"value"`
	MinOrderTotal string `json:"min_order_total"`
	MaxUses       int    `json:"max_uses"`
	Uses          int    `json:"uses"`
	ExpiresAt     string `json:"expires_at"`
	Active        bool   `json:"active"`
}

func couponView(cp *models.Coupon) *CouponView {
	view := &CouponView{
		ID:            cp.ID,
		Code:          cp.Code,
		Kind:          cp.Kind,
		Value:         money(cp.Value),
		MinOrderTotal: money(cp.MinOrderTotal),
		MaxUses:       cp.MaxUses,
		Uses:          cp.Uses,
		Active:        cp.Active,
	}
	if cp.ExpiresAt != nil {
		view.ExpiresAt = cp.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return view
}

func (s *Server) listCoupons(c *gin.Context) {
	var coupons []models.Coupon
	if err := s.db.Order("created_at DESC").Find(&coupons).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list coupons")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]*CouponView, len(coupons))
	for i := range coupons {
		views[i] = couponView(&coupons[i])
	}
	respond(c, http.StatusOK, views)
}

func (s *Server) createCoupon(c *gin.Context) {
	var req CouponInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	if req.Kind == models.CouponPercent && req.Value > 100 {
		fail(c, http.StatusUnprocessableEntity, "Validation error", "percent value cannot exceed 100")
		return
	}

	var count int64
	if err := s.db.Model(&models.Coupon{}).Where("code = ?", req.Code).Count(&count).Error; err == nil && count > 0 {
		fail(c, http.StatusConflict, "A coupon with this code already exists")
		return
	}

	coupon := &models.Coupon{
		Code:          req.Code,
		Kind:          req.Kind,
		Value:         req.Value,
		MinOrderTotal: req.MinOrderTotal,
		MaxUses:       req.MaxUses,
		Active:        true,
	}
	if req.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			fail(c, http.StatusUnprocessableEntity, "Validation error", "expires_at must be RFC3339")
			return
		}
		coupon.ExpiresAt = &expiresAt
	}

	if err := s.db.Create(coupon).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create coupon")
		fail(c, http.StatusInternalServerError, "Failed to create coupon")
		return
	}

	respond(c, http.StatusCreated, couponView(coupon))
}

func (s *Server) updateCoupon(c *gin.Context) {
	var coupon models.Coupon
	if err := s.db.Where("id = ?", c.Param("id")).First(&coupon).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	var req struct {
		Value         *float64 `json:"value" binding:"omitempty,gt=0"`
		MinOrderTotal *float64 `json:"min_order_total" binding:"omitempty,gte=0"`
		MaxUses       *int     `json:"max_uses" binding:"omitempty,gte=0"`
		ExpiresAt     string   `json:"expires_at"`
		Active        *bool    `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	if req.Value != nil {
		if coupon.Kind == models.CouponPercent && *req.Value > 100 {
			fail(c, http.StatusUnprocessableEntity, "Validation error", "percent value cannot exceed 100")
			return
		}
		coupon.Value = *req.Value
	}
	if req.MinOrderTotal != nil {
		coupon.MinOrderTotal = *req.MinOrderTotal
	}
	if req.MaxUses != nil {
		coupon.MaxUses = *req.MaxUses
	}
	if req.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			fail(c, http.StatusUnprocessableEntity, "Validation error", "expires_at must be RFC3339")
			return
		}
		coupon.ExpiresAt = &expiresAt
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}

	if err := s.db.Save(&coupon).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update coupon")
		fail(c, http.StatusInternalServerError, "Failed to update coupon")
		return
	}

	respond(c, http.StatusOK, couponView(&coupon))
}

func (s *Server) deleteCoupon(c *gin.Context) {
	result := s.db.Where("id = ?", c.Param("id")).Delete(&models.Coupon{})
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to delete coupon")
		fail(c, http.StatusInternalServerError, "Failed to delete coupon")
		return
	}
	if result.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "Resource not found")
		return
	}

	respond(c, http.StatusOK, gin.H{"deleted": true})
}

// BannerInput is the create request body for a banner
type BannerInput struct {
	Title     string `json:"title" binding:"required"`
	ImageURL  string `json:"image_url" binding:"required,url"`
	TargetURL string `json:"target_url" binding:"omitempty,url"`
	Position  int    `json:"position"`
}

func (s *Server) listBanners(c *gin.Context) {
	var banners []models.Banner
	if err := s.db.Order("position ASC").Find(&banners).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list banners")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(c, http.StatusOK, banners)
}

func (s *Server) createBanner(c *gin.Context) {
	var req BannerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	banner := &models.Banner{
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		TargetURL: req.TargetURL,
		Position:  req.Position,
		Active:    true,
	}
	if err := s.db.Create(banner).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create banner")
		fail(c, http.StatusInternalServerError, "Failed to create banner")
		return
	}

	respond(c, http.StatusCreated, banner)
}

func (s *Server) updateBanner(c *gin.Context) {
	var banner models.Banner
	if err := s.db.Where("id = ?", c.Param("id")).First(&banner).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	var req struct {
		Title     string `json:"title"`
		ImageURL  string `json:"image_url" binding:"omitempty,url"`
		TargetURL string `json:"target_url" binding:"omitempty,url"`
		Position  *int   `json:"position"`
		Active    *bool  `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	if req.Title != "" {
		banner.Title = req.Title
	}
	if req.ImageURL != "" {
		banner.ImageURL = req.ImageURL
	}
	if req.TargetURL != "" {
		banner.TargetURL = req.TargetURL
	}
	if req.Position != nil {
		banner.Position = *req.Position
	}
	if req.Active != nil {
		banner.Active = *req.Active
	}

	if err := s.db.Save(&banner).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update banner")
		fail(c, http.StatusInternalServerError, "Failed to update banner")
		return
	}

	respond(c, http.StatusOK, banner)
}

func (s *Server) deleteBanner(c *gin.Context) {
	result := s.db.Where("id = ?", c.Param("id")).Delete(&models.Banner{})
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to delete banner")
		fail(c, http.StatusInternalServerError, "Failed to delete banner")
		return
	}
	if result.RowsAffected == 0 {
		fail(c, http.StatusNotFound, "Resource not found")
		return
	}

	respond(c, http.StatusOK, gin.H{"deleted": true})
}
