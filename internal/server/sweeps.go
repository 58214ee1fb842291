package server

import (
	"fmt"
	"time"

	"github.com/shopd-dev/shopd/internal/models"
)

// registerSweeps schedules the background jobs that keep promotions honest:
// coupons past their expiry and deals past their window are deactivated so
// listings never show stale offers.
func (s *Server) registerSweeps() error {
	if _, err := s.cron.AddFunc("* * * * *", s.sweepExpiredCoupons); err != nil {
		return fmt.Errorf("failed to schedule coupon sweep: %w", err)
	}
	if _, err := s.cron.AddFunc("* * * * *", s.sweepFinishedDeals); err != nil {
		return fmt.Errorf("failed to schedule deal sweep: %w", err)
	}
	return nil
}

func (s *Server) sweepExpiredCoupons() {
	now := time.Now()

	result := s.db.Model(&models.Coupon{}).
		Where("active = ? AND expires_at IS NOT NULL AND expires_at < ?", true, now).
		Update("active", false)
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Coupon sweep failed")
		return
	}
	if result.RowsAffected > 0 {
		s.logger.Info().Int64("count", result.RowsAffected).Msg("Expired coupons deactivated")
	}
}

func (s *Server) sweepFinishedDeals() {
	now := time.Now()

	result := s.db.Model(&models.Deal{}).
		Where("active = ? AND ends_at < ?", true, now).
		Update("active", false)
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Deal sweep failed")
		return
	}
	if result.RowsAffected > 0 {
		s.logger.Info().Int64("count", result.RowsAffected).Msg("Finished deals deactivated")
	}
}
