package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/shopd-dev/shopd/internal/auth"
	"github.com/shopd-dev/shopd/internal/models"
)

// seedFile is the YAML fixture catalog loaded at startup with --seed.
// Products, deals and order items reference brands, categories and products
// by slug so fixtures stay readable.
type seedFile struct {
	Users []struct {
		Email    string `yaml:"email"`
		Name     string `yaml:"name"`
		Password string `yaml:"password"`
		Admin    bool   `yaml:"admin"`
	} `yaml:"users"`

	Brands []struct {
		Name string `yaml:"name"`
		Slug string `yaml:"slug"`
	} `yaml:"brands"`

	Categories []struct {
		Name   string `yaml:"name"`
		Slug   string `yaml:"slug"`
		Parent string `yaml:"parent"`
	} `yaml:"categories"`

	Products []struct {
		Name     string  `yaml:"name"`
		Slug     string  `yaml:"slug"`
		Brand    string  `yaml:"brand"`
		Category string  `yaml:"category"`
		Price    float64 `yaml:"price"`
		Stock    int     `yaml:"stock"`
	} `yaml:"products"`

	Coupons []struct {
		Code      string  `yaml:"code"`
		Kind      string  `yaml:"kind"`
		Value     float64 `yaml:"value"`
		ExpiresAt string  `yaml:"expires_at"`
	} `yaml:"coupons"`

	Deals []struct {
		Title    string  `yaml:"title"`
		Product  string  `yaml:"product"`
		Price    float64 `yaml:"price"`
		StartsAt string  `yaml:"starts_at"`
		EndsAt   string  `yaml:"ends_at"`
	} `yaml:"deals"`

	Banners []struct {
		Title    string `yaml:"title"`
		ImageURL string `yaml:"image_url"`
		Position int    `yaml:"position"`
	} `yaml:"banners"`

	Orders []struct {
		Number   string `yaml:"number"`
		Customer string `yaml:"customer"`
		Email    string `yaml:"email"`
		Status   string `yaml:"status"`
		Items    []struct {
			Product  string `yaml:"product"`
			Quantity int    `yaml:"quantity"`
		} `yaml:"items"`
	} `yaml:"orders"`
}

// Seed loads a YAML fixture file into the database. It is idempotent on the
// users and catalog (matched by email or slug); orders are only created when
// their number is new.
func (s *Server) Seed(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, u := range seed.Users {
			var count int64
			tx.Model(&models.User{}).Where("email = ?", u.Email).Count(&count)
			if count > 0 {
				continue
			}
			hash, err := auth.HashPassword(u.Password)
			if err != nil {
				return err
			}
			if err := tx.Create(&models.User{
				Email:        u.Email,
				Name:         u.Name,
				PasswordHash: hash,
				IsAdmin:      u.Admin,
				Active:       true,
			}).Error; err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.Email, err)
			}
		}

		brands := map[string]string{}
		for _, b := range seed.Brands {
			brand := models.Brand{Name: b.Name, Slug: b.Slug, Active: true}
			if err := tx.Where("slug = ?", b.Slug).FirstOrCreate(&brand).Error; err != nil {
				return fmt.Errorf("failed to seed brand %s: %w", b.Slug, err)
			}
			brands[b.Slug] = brand.ID
		}

		categories := map[string]string{}
		for _, cat := range seed.Categories {
			category := models.Category{Name: cat.Name, Slug: cat.Slug}
			if cat.Parent != "" {
				parentID, ok := categories[cat.Parent]
				if !ok {
					return fmt.Errorf("category %s references unknown parent %s", cat.Slug, cat.Parent)
				}
				category.ParentID = &parentID
			}
			if err := tx.Where("slug = ?", cat.Slug).FirstOrCreate(&category).Error; err != nil {
				return fmt.Errorf("failed to seed category %s: %w", cat.Slug, err)
			}
			categories[cat.Slug] = category.ID
		}

		products := map[string]*models.Product{}
		for _, p := range seed.Products {
			brandID, ok := brands[p.Brand]
			if !ok {
				return fmt.Errorf("product %s references unknown brand %s", p.Slug, p.Brand)
			}
			categoryID, ok := categories[p.Category]
			if !ok {
				return fmt.Errorf("product %s references unknown category %s", p.Slug, p.Category)
			}

			product := models.Product{
				Name:       p.Name,
				Slug:       p.Slug,
				BrandID:    brandID,
				CategoryID: categoryID,
				Price:      p.Price,
				Active:     true,
			}
			if err := tx.Where("slug = ?", p.Slug).FirstOrCreate(&product).Error; err != nil {
				return fmt.Errorf("failed to seed product %s: %w", p.Slug, err)
			}

			inv := models.Inventory{ProductID: product.ID, Stock: p.Stock}
			if err := tx.Where("product_id = ?", product.ID).FirstOrCreate(&inv).Error; err != nil {
				return fmt.Errorf("failed to seed inventory for %s: %w", p.Slug, err)
			}
			products[p.Slug] = &product
		}

		for _, cp := range seed.Coupons {
			coupon := models.Coupon{
				Code:   cp.Code,
				Kind:   cp.Kind,
				Value:  cp.Value,
				Active: true,
			}
			if cp.ExpiresAt != "" {
				expiresAt, err := time.Parse(time.RFC3339, cp.ExpiresAt)
				if err != nil {
					return fmt.Errorf("coupon %s has invalid expires_at: %w", cp.Code, err)
				}
				coupon.ExpiresAt = &expiresAt
			}
			if err := tx.Where("code = ?", cp.Code).FirstOrCreate(&coupon).Error; err != nil {
				return fmt.Errorf("failed to seed coupon %s: %w", cp.Code, err)
			}
		}

		for _, d := range seed.Deals {
			product, ok := products[d.Product]
			if !ok {
				return fmt.Errorf("deal %q references unknown product %s", d.Title, d.Product)
			}
			startsAt, err := time.Parse(time.RFC3339, d.StartsAt)
			if err != nil {
				return fmt.Errorf("deal %q has invalid starts_at: %w", d.Title, err)
			}
			endsAt, err := time.Parse(time.RFC3339, d.EndsAt)
			if err != nil {
				return fmt.Errorf("deal %q has invalid ends_at: %w", d.Title, err)
			}
			deal := models.Deal{
				Title:     d.Title,
				ProductID: product.ID,
				DealPrice: d.Price,
				StartsAt:  startsAt,
				EndsAt:    endsAt,
				Active:    true,
			}
			if err := tx.Where("title = ? AND product_id = ?", d.Title, product.ID).FirstOrCreate(&deal).Error; err != nil {
				return fmt.Errorf("failed to seed deal %q: %w", d.Title, err)
			}
		}

		for _, b := range seed.Banners {
			banner := models.Banner{
				Title:    b.Title,
				ImageURL: b.ImageURL,
				Position: b.Position,
				Active:   true,
			}
			if err := tx.Where("title = ?", b.Title).FirstOrCreate(&banner).Error; err != nil {
				return fmt.Errorf("failed to seed banner %q: %w", b.Title, err)
			}
		}

		for _, o := range seed.Orders {
			var count int64
			tx.Model(&models.Order{}).Where("number = ?", o.Number).Count(&count)
			if count > 0 {
				continue
			}

			status := o.Status
			if status == "" {
				status = models.OrderPending
			}

			order := models.Order{
				Number:        o.Number,
				CustomerName:  o.Customer,
				CustomerEmail: o.Email,
				Status:        status,
			}
			var subtotal float64
			var items []models.OrderItem
			for _, it := range o.Items {
				product, ok := products[it.Product]
				if !ok {
					return fmt.Errorf("order %s references unknown product %s", o.Number, it.Product)
				}
				items = append(items, models.OrderItem{
					ProductID: product.ID,
					Name:      product.Name,
					Quantity:  it.Quantity,
					UnitPrice: product.Price,
				})
				subtotal += product.Price * float64(it.Quantity)
			}
			order.Subtotal = subtotal
			order.Total = subtotal

			if err := tx.Create(&order).Error; err != nil {
				return fmt.Errorf("failed to seed order %s: %w", o.Number, err)
			}
			for i := range items {
				items[i].OrderID = order.ID
				if err := tx.Create(&items[i]).Error; err != nil {
					return fmt.Errorf("failed to seed order item: %w", err)
				}

				// Open orders hold a reservation against stock
				if status == models.OrderPending || status == models.OrderConfirmed || status == models.OrderShipped {
					if err := tx.Model(&models.Inventory{}).
						Where("product_id = ?", items[i].ProductID).
						Update("reserved", gorm.Expr("reserved + ?", items[i].Quantity)).Error; err != nil {
						return fmt.Errorf("failed to reserve stock: %w", err)
					}
				}
			}
			if err := tx.Create(&models.OrderEvent{
				OrderID: order.ID,
				Status:  status,
				Note:    "Imported from seed",
			}).Error; err != nil {
				return fmt.Errorf("failed to seed order event: %w", err)
			}
		}

		s.logger.Info().Str("path", path).Msg("Seed data loaded")
		return nil
	})
}
