package domain

import "time"

// OrderEvent is the message published to the broker for every created order.
// It is immutable once constructed and never persisted here.
type OrderEvent struct {
	OrderID  string    `json:"orderId"`
	BuyerID  string    `json:"buyerId"`
	SellerID string    `json:"sellerId"`
	Tenant   string    `json:"tenant"`
	Time     time.Time `json:"time"`
}

// NewOrderEvent builds the event for a persisted order, stamped with the
// publish time.
func NewOrderEvent(order *Order, tenant string) *OrderEvent {
	return &OrderEvent{
		OrderID:  order.ID,
		BuyerID:  order.BuyerID,
		SellerID: order.SellerID,
		Tenant:   tenant,
		Time:     time.Now().UTC(),
	}
}

// OutcomeStatus is the reported result of one publish attempt.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeError   OutcomeStatus = "error"
)

// PublishOutcome is the structured result of a publish attempt. The
// publisher always returns one of these and never raises, so a broker
// failure can never abort the surrounding request.
type PublishOutcome struct {
	Status  OutcomeStatus `json:"status"`
	Detail  string        `json:"detail"`
	Payload *OrderEvent   `json:"payload"`
}

// CartSnapshot is a buyer's cart as read from the cart service. Read-only
// here; never persisted.
type CartSnapshot struct {
	BuyerID  string     `json:"buyerId"`
	Contents []CartLine `json:"contents"`
}

// CartLine is one (product, quantity) pair within a cart.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// StockInfo is the stock service's current view of one product.
type StockInfo struct {
	ProductID   string  `json:"productId"`
	SellerID    string  `json:"sellerId"`
	Price       float64 `json:"price"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}
