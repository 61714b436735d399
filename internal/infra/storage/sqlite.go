package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"apex_bot/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage persists order attempts to a local SQLite database.
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (creating if needed) the order history database.
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		path = filepath.Join("data", "orders.db")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create DB directory: %w", err)
		}
	}

	// Pure Go SQLite, no cgo.
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.OrderRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// RecordAttempt stores the terminal outcome of one order attempt.
func (s *Storage) RecordAttempt(outcome *domain.Outcome) error {
	record := &domain.OrderRecord{
		Symbol:   outcome.Request.Symbol,
		Side:     outcome.Request.Side,
		Kind:     outcome.Request.Kind,
		Quantity: outcome.Request.Quantity.String(),
		Warnings: strings.Join(outcome.Warnings, "\n"),
	}
	if outcome.Request.Price.IsPositive() {
		record.Price = outcome.Request.Price.String()
	}
	if outcome.Request.StopPrice.IsPositive() {
		record.StopPrice = outcome.Request.StopPrice.String()
	}

	if outcome.Accepted != nil {
		record.Accepted = true
		record.OrderID = outcome.Accepted.OrderID
		record.Status = outcome.Accepted.Status
	} else if outcome.Rejected != nil {
		record.RejectStage = outcome.Rejected.Stage
		record.Reason = outcome.Rejected.Reason
	}

	return s.db.Create(record).Error
}

// RecentOrders returns the latest attempts, newest first.
func (s *Storage) RecentOrders(limit int) ([]domain.OrderRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []domain.OrderRecord
	err := s.db.Order("id DESC").Limit(limit).Find(&records).Error
	return records, err
}

// OrdersBySymbol returns the attempts for one symbol, newest first.
func (s *Storage) OrdersBySymbol(symbol string, limit int) ([]domain.OrderRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []domain.OrderRecord
	err := s.db.Where("symbol = ?", symbol).Order("id DESC").Limit(limit).Find(&records).Error
	return records, err
}
