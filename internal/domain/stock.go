// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrStockNotFound indicates that the stock is not found.
	ErrStockNotFound = errors.New("stock not found")
	// ErrStockOwnerMismatch indicates that the stock belongs to another user.
	// The delivery layer reports it as not found to avoid leaking the
	// existence of other users' records.
	ErrStockOwnerMismatch = errors.New("stock owner mismatch")
	// ErrTickerRequired indicates an empty ticker symbol.
	ErrTickerRequired = errors.New("ticker is required")
	// ErrInvalidDecimal indicates that a price or quantity is not a valid decimal.
	ErrInvalidDecimal = errors.New("invalid decimal number")
	// ErrNegativeBuyPrice indicates a negative buy price.
	ErrNegativeBuyPrice = errors.New("negative buy price")
	// ErrNegativeQuantity indicates a negative quantity.
	ErrNegativeQuantity = errors.New("negative quantity")
)

// Stock holds one user's position in a ticker symbol.
// BuyPrice and Quantity are decimal strings; all arithmetic on them
// goes through shopspring/decimal.
type Stock struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Ticker    string    `json:"ticker"`
	Name      string    `json:"name"`
	BuyPrice  string    `json:"buy_price"`
	Quantity  string    `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateStockParams is the input data to create a stock.
// OwnerID is always assigned by the service from the caller,
// never taken from a request body.
type CreateStockParams struct {
	OwnerID  int64  `json:"owner_id"`
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	BuyPrice string `json:"buy_price"`
	Quantity string `json:"quantity"`
}

// UpdateStockParams is the input data to replace the mutable
// fields of a stock. ID and OwnerID are not updatable.
type UpdateStockParams struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	BuyPrice string `json:"buy_price"`
	Quantity string `json:"quantity"`
}
