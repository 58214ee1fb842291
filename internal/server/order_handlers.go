package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopd-dev/shopd/internal/models"
)

// UpdateOrderStatusRequest moves an order to a new status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed shipped delivered cancelled"`
	Note   string `json:"note"`
}

// OrderView is the wire representation of an order
type OrderView struct {
	ID            string           `json:"id"`
	Number        string           `json:"number"`
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	Status        string           `json:"status"`
	Subtotal      string           `json:"subtotal"`
	Discount      string           `json:"discount"`
	Total         string           `json:"total"`
	CreatedAt     string           `json:"created_at"`
	Items         []OrderItemView  `json:"items,omitempty"`
	Events        []OrderEventView `json:"events,omitempty"`
}

// OrderItemView is a single order line
type OrderItemView struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// OrderEventView is a timeline entry
type OrderEventView struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Note      string `json:"note"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

func orderView(o *models.Order) *OrderView {
	view := &OrderView{
		ID:            o.ID,
		Number:        o.Number,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Status:        o.Status,
		Subtotal:      money(o.Subtotal),
		Discount:      money(o.Discount),
		Total:         money(o.Total),
		CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
	}
	for i := range o.Items {
		item := &o.Items[i]
		view.Items = append(view.Items, OrderItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: money(item.UnitPrice),
		})
	}
	for i := range o.Events {
		event := &o.Events[i]
		view.Events = append(view.Events, OrderEventView{
			ID:        event.ID,
			Status:    event.Status,
			Note:      event.Note,
			CreatedBy: event.CreatedBy,
			CreatedAt: event.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return view
}

func (s *Server) listOrders(c *gin.Context) {
	query := s.db.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list orders")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]*OrderView, len(orders))
	for i := range orders {
		views[i] = orderView(&orders[i])
	}
	respond(c, http.StatusOK, views)
}

func (s *Server) getOrder(c *gin.Context) {
	var order models.Order
	err := s.db.Preload("Items").
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", c.Param("id")).
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find order")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(c, http.StatusOK, orderView(&order))
}

// updateOrderStatus moves an order through its lifecycle. Invalid moves are
// rejected, a timeline entry records every accepted one, and stock held by
// the order is released or consumed on the terminal statuses.
func (s *Server) updateOrderStatus(c *gin.Context) {
	var order models.Order
	if err := s.db.Preload("Items").Where("id = ?", c.Param("id")).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			fail(c, http.StatusNotFound, "Resource not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find order")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data", err.Error())
		return
	}

	if !models.CanTransitionOrder(order.Status, req.Status) {
		fail(c, http.StatusUnprocessableEntity, "Validation error",
			gin.H{"status": "cannot move order from " + order.Status + " to " + req.Status})
		return
	}

	sessionData, _ := GetSessionData(c)
	previous := order.Status

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order.Status = req.Status
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.OrderEvent{
			OrderID:   order.ID,
			Status:    req.Status,
			Note:      req.Note,
			CreatedBy: sessionData.UserID,
		}).Error; err != nil {
			return err
		}

		switch req.Status {
		case models.OrderCancelled:
			// Release the reservation held for each line
			return s.releaseOrderStock(tx, &order, false)
		case models.OrderDelivered:
			// Consume reserved stock for good
			return s.releaseOrderStock(tx, &order, true)
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to update order status")
		fail(c, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("from", previous).
		Str("to", req.Status).
		Str("by", sessionData.UserID).
		Msg("Order status updated")

	// Reload with the fresh timeline
	if err := s.db.Preload("Items").
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", order.ID).
		First(&order).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to reload order")
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond(c, http.StatusOK, orderView(&order))
}

// releaseOrderStock clears the reservations an order holds. When consume is
// true the stock leaves the warehouse too (delivery), otherwise it returns
// to the available pool (cancellation).
func (s *Server) releaseOrderStock(tx *gorm.DB, order *models.Order, consume bool) error {
	for i := range order.Items {
		item := &order.Items[i]

		var inv models.Inventory
		if err := tx.Where("product_id = ?", item.ProductID).First(&inv).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return err
		}

		released := item.Quantity
		if released > inv.Reserved {
			released = inv.Reserved
		}
		inv.Reserved -= released
		if consume {
			inv.Stock -= released
		}

		if err := tx.Save(&inv).Error; err != nil {
			return err
		}
	}
	return nil
}
