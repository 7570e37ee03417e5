// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/pokehouse/internal/models"
	"github.com/mmynk/pokehouse/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

const (
	kindProtein    = "protein"
	kindIngredient = "ingredient"
)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// orderRow mirrors the orders table.
type orderRow struct {
	ID         string  `db:"id"`
	CustomerID string  `db:"customer_id"`
	Day        string  `db:"day"`
	Notes      string  `db:"notes"`
	Subtotal   float64 `db:"subtotal"`
	Discount   float64 `db:"discount"`
	Total      float64 `db:"total"`
	Discounted bool    `db:"discounted"`
	CreatedAt  int64   `db:"created_at"`
}

// bowlRow mirrors the order_bowls table.
type bowlRow struct {
	ID     int64   `db:"id"`
	Size   string  `db:"size"`
	Base   string  `db:"base"`
	Amount int     `db:"amount"`
	Price  float64 `db:"price"`
}

// componentRow is one protein or ingredient of a bowl.
type componentRow struct {
	BowlID int64  `db:"bowl_id"`
	Kind   string `db:"kind"`
	Name   string `db:"name"`
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewFromDB(db), nil
}

// NewFromDB wraps an already-migrated database handle.
func NewFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: sqlx.NewDb(db, "sqlite")}
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveOrder persists an order with its bowls in one transaction.
func (s *SQLiteStore) SaveOrder(ctx context.Context, order *models.Order) error {
	// Generate ID if not set
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt == 0 {
		order.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, customer_id, day, notes, subtotal, discount, total, discounted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.CustomerID, order.Day, order.Notes,
		order.Subtotal, order.Discount, order.Total, order.Discounted, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i, b := range order.Bowls {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO order_bowls (order_id, position, size, base, amount, price) VALUES (?, ?, ?, ?, ?, ?)",
			order.ID, i, b.Size, b.Base, b.Amount, b.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bowl: %w", err)
		}
		bowlID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get bowl id: %w", err)
		}

		if err := insertComponents(ctx, tx, bowlID, kindProtein, b.Proteins); err != nil {
			return err
		}
		if err := insertComponents(ctx, tx, bowlID, kindIngredient, b.Ingredients); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertComponents(ctx context.Context, tx *sqlx.Tx, bowlID int64, kind string, names []string) error {
	for pos, name := range names {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO bowl_components (bowl_id, kind, position, name) VALUES (?, ?, ?, ?)",
			bowlID, kind, pos, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert %s: %w", kind, err)
		}
	}
	return nil
}

// GetOrder retrieves an order by ID, including all bowls.
func (s *SQLiteStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var row orderRow
	err := s.db.GetContext(ctx, &row,
		"SELECT id, customer_id, day, notes, subtotal, discount, total, discounted, created_at FROM orders WHERE id = ?",
		orderID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", orderID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return s.withBowls(ctx, row)
}

// ListOrders returns a customer's orders, newest first.
func (s *SQLiteStore) ListOrders(ctx context.Context, customerID string) ([]*models.Order, error) {
	return s.listOrders(ctx,
		`SELECT id, customer_id, day, notes, subtotal, discount, total, discounted, created_at
		 FROM orders WHERE customer_id = ? ORDER BY created_at DESC, rowid DESC`,
		customerID,
	)
}

// ListOrdersByDay returns the orders of a business day, oldest first.
func (s *SQLiteStore) ListOrdersByDay(ctx context.Context, day string) ([]*models.Order, error) {
	return s.listOrders(ctx,
		`SELECT id, customer_id, day, notes, subtotal, discount, total, discounted, created_at
		 FROM orders WHERE day = ? ORDER BY created_at, rowid`,
		day,
	)
}

func (s *SQLiteStore) listOrders(ctx context.Context, query string, arg string) ([]*models.Order, error) {
	var rows []orderRow
	if err := s.db.SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]*models.Order, 0, len(rows))
	for _, row := range rows {
		order, err := s.withBowls(ctx, row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// DailyCounts sums the bowls sold per size on a business day.
func (s *SQLiteStore) DailyCounts(ctx context.Context, day string) (map[string]int, error) {
	var rows []struct {
		Size  string `db:"size"`
		Count int    `db:"count"`
	}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT b.size AS size, SUM(b.amount) AS count
		 FROM order_bowls b JOIN orders o ON o.id = b.order_id
		 WHERE o.day = ?
		 GROUP BY b.size`,
		day,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count daily bowls: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Size] = r.Count
	}
	return counts, nil
}

// withBowls loads the bowls of an order row.
func (s *SQLiteStore) withBowls(ctx context.Context, row orderRow) (*models.Order, error) {
	order := &models.Order{
		ID:         row.ID,
		CustomerID: row.CustomerID,
		Day:        row.Day,
		Notes:      row.Notes,
		Subtotal:   row.Subtotal,
		Discount:   row.Discount,
		Total:      row.Total,
		Discounted: row.Discounted,
		CreatedAt:  row.CreatedAt,
	}

	var bowls []bowlRow
	err := s.db.SelectContext(ctx, &bowls,
		"SELECT id, size, base, amount, price FROM order_bowls WHERE order_id = ? ORDER BY position",
		row.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bowls: %w", err)
	}
	if len(bowls) == 0 {
		return order, nil
	}

	var components []componentRow
	err = s.db.SelectContext(ctx, &components,
		`SELECT c.bowl_id, c.kind, c.name
		 FROM bowl_components c JOIN order_bowls b ON b.id = c.bowl_id
		 WHERE b.order_id = ?
		 ORDER BY c.bowl_id, c.kind, c.position`,
		row.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bowl components: %w", err)
	}

	index := make(map[int64]int, len(bowls))
	order.Bowls = make([]models.BowlLine, len(bowls))
	for i, b := range bowls {
		index[b.ID] = i
		order.Bowls[i] = models.BowlLine{
			Size:   b.Size,
			Base:   b.Base,
			Amount: b.Amount,
			Price:  b.Price,
		}
	}
	for _, c := range components {
		line := &order.Bowls[index[c.BowlID]]
		switch c.Kind {
		case kindProtein:
			line.Proteins = append(line.Proteins, c.Name)
		case kindIngredient:
			line.Ingredients = append(line.Ingredients, c.Name)
		}
	}

	return order, nil
}
