package domain

import (
	"time"

	"bazaar/internal/service/order/domain/apperr"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Type distinguishes orders for stocked products from made-to-order work.
type Type string

const (
	TypeStocked Type = "stocked"
	TypeCustom  Type = "custom"
)

func (t Type) Valid() bool {
	return t == TypeStocked || t == TypeCustom
}

// Order is one seller's fulfillment obligation to one buyer for one product
// line. ProductID, Description and Price are optional; custom orders have no
// product id.
type Order struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Type        Type      `json:"type" gorm:"size:16"`
	BuyerID     string    `json:"buyerId" gorm:"index;size:64"`
	SellerID    string    `json:"sellerId" gorm:"index;size:64"`
	ProductID   string    `json:"productId,omitempty" gorm:"size:64"`
	Description string    `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Quantity    int       `json:"quantity"`
	Date        time.Time `json:"date"`
	Address     string    `json:"address"`
	Status      Status    `json:"status" gorm:"size:16"`
}

func (Order) TableName() string { return "orders" }

// Validate checks the invariants every persisted order must satisfy. The
// first violated field wins, and the message names it.
func (o *Order) Validate() error {
	if o.BuyerID == "" {
		return apperr.Validation("buyerId required")
	}
	if o.SellerID == "" {
		return apperr.Validation("sellerId required")
	}
	if !o.Type.Valid() {
		return apperr.Validation("type must be one of stocked, custom")
	}
	if o.Quantity < 1 {
		return apperr.Validation("quantity required")
	}
	if o.Address == "" {
		return apperr.Validation("address required")
	}
	if !o.Status.Valid() {
		return apperr.Validation("status must be one of pending, accepted, completed, cancelled")
	}
	if o.Price != nil && *o.Price < 0 {
		return apperr.Validation("price must not be negative")
	}
	return nil
}

// Patch is a partial field overlay for updates. Nil fields are left
// untouched on the target order.
type Patch struct {
	Type        *Type      `json:"type"`
	BuyerID     *string    `json:"buyerId"`
	SellerID    *string    `json:"sellerId"`
	ProductID   *string    `json:"productId"`
	Description *string    `json:"description"`
	Price       *float64   `json:"price"`
	Quantity    *int       `json:"quantity"`
	Date        *time.Time `json:"date"`
	Address     *string    `json:"address"`
	Status      *Status    `json:"status"`
}

// Apply overlays the present patch fields onto the order.
func (o *Order) Apply(p Patch) {
	if p.Type != nil {
		o.Type = *p.Type
	}
	if p.BuyerID != nil {
		o.BuyerID = *p.BuyerID
	}
	if p.SellerID != nil {
		o.SellerID = *p.SellerID
	}
	if p.ProductID != nil {
		o.ProductID = *p.ProductID
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
	if p.Price != nil {
		o.Price = p.Price
	}
	if p.Quantity != nil {
		o.Quantity = *p.Quantity
	}
	if p.Date != nil {
		o.Date = *p.Date
	}
	if p.Address != nil {
		o.Address = *p.Address
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
}
