package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// User represents a back-office operator account
type User struct {
	BaseModel
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	Name         string `json:"name" gorm:"not null"`
	IsAdmin      bool   `json:"is_admin" gorm:"not null;default:false"`
	Active       bool   `json:"active" gorm:"not null;default:true"`
}

// RefreshToken is an opaque long-lived credential used solely to mint new access tokens
type RefreshToken struct {
	BaseModel
	UserID    string     `json:"user_id" gorm:"index;not null"`
	Token     string     `json:"-" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null"`
	RevokedAt *time.Time `json:"revoked_at"`
}

// Valid reports whether the token can still be exchanged for an access token
func (r *RefreshToken) Valid(now time.Time) bool {
	return r.RevokedAt == nil && now.Before(r.ExpiresAt)
}

// Brand represents a product brand
type Brand struct {
	BaseModel
	Name    string `json:"name" gorm:"not null"`
	Slug    string `json:"slug" gorm:"uniqueIndex;not null"`
	LogoURL string `json:"logo_url"`
	Active  bool   `json:"active" gorm:"not null;default:true"`
}

// Category represents a product category; ParentID nil for top-level categories
type Category struct {
	BaseModel
	Name     string  `json:"name" gorm:"not null"`
	Slug     string  `json:"slug" gorm:"uniqueIndex;not null"`
	ParentID *string `json:"parent_id" gorm:"index"`
	Position int     `json:"position" gorm:"not null;default:0"`
}

// Specification describes an attribute products in a category carry (e.g. "Screen size", "inch")
type Specification struct {
	BaseModel
	CategoryID string `json:"category_id" gorm:"index;not null"`
	Name       string `json:"name" gorm:"not null"`
	Unit       string `json:"unit"`
}

// Product represents a sellable product
type Product struct {
	BaseModel
	Name        string  `json:"name" gorm:"not null"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;not null"`
	Description string  `json:"description" gorm:"type:text"`
	BrandID     string  `json:"brand_id" gorm:"index;not null"`
	CategoryID  string  `json:"category_id" gorm:"index;not null"`
	Price       float64 `json:"price" gorm:"not null"`
	ImageURL    string  `json:"image_url"`
	Active      bool    `json:"active" gorm:"not null;default:true"`

	// Relationships
	Inventory *Inventory `json:"inventory,omitempty" gorm:"foreignKey:ProductID"`
}

// Inventory tracks stock for a single product
type Inventory struct {
	BaseModel
	ProductID         string `json:"product_id" gorm:"uniqueIndex;not null"`
	Stock             int    `json:"stock" gorm:"not null;default:0"`
	Reserved          int    `json:"reserved" gorm:"not null;default:0"`
	LowStockThreshold int    `json:"low_stock_threshold" gorm:"not null;default:5"`
}

// Available returns stock not held by open orders
func (i *Inventory) Available() int {
	return i.Stock - i.Reserved
}

// LowStock reports whether available stock is at or below the threshold
func (i *Inventory) LowStock() bool {
	return i.Available() <= i.LowStockThreshold
}

// Inventory movement kinds
const (
	MovementRestock    = "restock"
	MovementAdjustment = "adjustment"
)

// InventoryMovement is an audit entry for a stock change
type InventoryMovement struct {
	BaseModel
	InventoryID string `json:"inventory_id" gorm:"index;not null"`
	Kind        string `json:"kind" gorm:"not null"` // restock, adjustment
	Delta       int    `json:"delta" gorm:"not null"`
	Reason      string `json:"reason"`
	CreatedBy   string `json:"created_by" gorm:"not null"`
}

// Order statuses
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// orderTransitions lists the allowed status moves
var orderTransitions = map[string][]string{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
}

// CanTransitionOrder reports whether an order may move from one status to another
func CanTransitionOrder(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Order represents a customer order managed from the back office
type Order struct {
	BaseModel
	Number        string  `json:"number" gorm:"uniqueIndex;not null"`
	CustomerName  string  `json:"customer_name" gorm:"not null"`
	CustomerEmail string  `json:"customer_email" gorm:"not null"`
	Status        string  `json:"status" gorm:"not null;default:pending"`
	Subtotal      float64 `json:"subtotal" gorm:"not null"`
	Discount      float64 `json:"discount" gorm:"not null;default:0"`
	Total         float64 `json:"total" gorm:"not null"`

	// Relationships
	Items  []OrderItem  `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Events []OrderEvent `json:"events,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem is a single line of an order
type OrderItem struct {
	BaseModel
	OrderID   string  `json:"order_id" gorm:"index;not null"`
	ProductID string  `json:"product_id" gorm:"not null"`
	Name      string  `json:"name" gorm:"not null"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"unit_price" gorm:"not null"`
}

// OrderEvent is a timeline entry recording a status change
type OrderEvent struct {
	BaseModel
	OrderID   string `json:"order_id" gorm:"index;not null"`
	Status    string `json:"status" gorm:"not null"`
	Note      string `json:"note"`
	CreatedBy string `json:"created_by"`
}

// Deal represents a time-windowed promotional price for a product
type Deal struct {
	BaseModel
	Title     string    `json:"title" gorm:"not null"`
	ProductID string    `json:"product_id" gorm:"index;not null"`
	DealPrice float64   `json:"deal_price" gorm:"not null"`
	StartsAt  time.Time `json:"starts_at" gorm:"not null"`
	EndsAt    time.Time `json:"ends_at" gorm:"not null"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
}

// Coupon kinds
const (
	CouponPercent = "percent"
	CouponFixed   = "fixed"
)

// Coupon represents a discount code
type Coupon struct {
	BaseModel
	Code          string     `json:"code" gorm:"uniqueIndex;not null"`
	Kind          string     `json:"kind" gorm:"not null"` // percent, fixed
	Value         float64    `json:"value" gorm:"not null"`
	MinOrderTotal float64    `json:"min_order_total" gorm:"not null;default:0"`
	MaxUses       int        `json:"max_uses" gorm:"not null;default:0"` // 0 = unlimited
	Uses          int        `json:"uses" gorm:"not null;default:0"`
	ExpiresAt     *time.Time `json:"expires_at"`
	Active        bool       `json:"active" gorm:"not null;default:true"`
}

// Banner represents a promotional banner shown on the storefront
type Banner struct {
	BaseModel
	Title     string `json:"title" gorm:"not null"`
	ImageURL  string `json:"image_url" gorm:"not null"`
	TargetURL string `json:"target_url"`
	Position  int    `json:"position" gorm:"not null;default:0"`
	Active    bool   `json:"active" gorm:"not null;default:true"`
}

// Upload records a file stored by the uploads endpoint
type Upload struct {
	BaseModel
	FileName    string `json:"file_name" gorm:"not null"`
	StoredPath  string `json:"stored_path" gorm:"not null"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size" gorm:"not null"`
	UploadedBy  string `json:"uploaded_by"`
}

// AutoMigrate runs schema migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Brand{},
		&Category{},
		&Specification{},
		&Product{},
		&Inventory{},
		&InventoryMovement{},
		&Order{},
		&OrderItem{},
		&OrderEvent{},
		&Deal{},
		&Coupon{},
		&Banner{},
		&Upload{},
	)
}
