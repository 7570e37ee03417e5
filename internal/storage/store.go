// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/pokehouse/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for order storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// SaveOrder persists a priced order.
	// The order.ID and order.CreatedAt fields are populated when empty.
	SaveOrder(ctx context.Context, order *models.Order) error

	// GetOrder retrieves an order by its ID.
	// Returns ErrNotFound if no such order exists.
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)

	// ListOrders returns a customer's orders, newest first.
	ListOrders(ctx context.Context, customerID string) ([]*models.Order, error)

	// ListOrdersByDay returns every order of a business day (YYYY-MM-DD),
	// oldest first.
	ListOrdersByDay(ctx context.Context, day string) ([]*models.Order, error)

	// DailyCounts returns the number of bowls sold per size on a business day.
	// It is used to restore the daily ledger after a restart.
	DailyCounts(ctx context.Context, day string) (map[string]int, error)

	// Close releases any resources held by the store.
	Close() error
}
