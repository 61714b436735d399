package storage

import (
	"path/filepath"
	"testing"

	"apex_bot/internal/domain"

	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return s
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRecordAttempt_Accepted(t *testing.T) {
	s := setupTestDB(t)

	outcome := &domain.Outcome{
		Request: domain.OrderRequest{
			Symbol:   "BTCUSDT",
			Side:     domain.SideBuy,
			Kind:     domain.KindLimit,
			Quantity: dec("0.01"),
			Price:    dec("50000"),
		},
		Accepted: &domain.Accepted{OrderID: "42", Status: "NEW"},
		Warnings: []string{"order value is below the exchange minimum"},
	}

	if err := s.RecordAttempt(outcome); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}

	records, err := s.RecentOrders(10)
	if err != nil {
		t.Fatalf("RecentOrders failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if !rec.Accepted || rec.OrderID != "42" || rec.Status != "NEW" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Quantity != "0.01" || rec.Price != "50000" {
		t.Errorf("numeric fields not preserved: %+v", rec)
	}
	if rec.Warnings == "" {
		t.Error("warnings should be stored")
	}
}

func TestRecordAttempt_Rejected(t *testing.T) {
	s := setupTestDB(t)

	outcome := &domain.Outcome{
		Request: domain.OrderRequest{
			Symbol:   "ETHUSDT",
			Side:     domain.SideSell,
			Kind:     domain.KindMarket,
			Quantity: dec("1"),
		},
		Rejected: &domain.Rejected{Stage: domain.StageValidation, Reason: "quantity must be positive"},
	}

	if err := s.RecordAttempt(outcome); err != nil {
		t.Fatalf("RecordAttempt failed: %v", err)
	}

	records, _ := s.RecentOrders(10)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Accepted {
		t.Error("rejected attempt stored as accepted")
	}
	if rec.RejectStage != domain.StageValidation || rec.Reason == "" {
		t.Errorf("rejection details missing: %+v", rec)
	}
}

func TestRecentOrders_NewestFirst(t *testing.T) {
	s := setupTestDB(t)

	for _, symbol := range []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"} {
		s.RecordAttempt(&domain.Outcome{
			Request:  domain.OrderRequest{Symbol: symbol, Side: "BUY", Kind: "MARKET", Quantity: dec("1")},
			Accepted: &domain.Accepted{OrderID: symbol, Status: "NEW"},
		})
	}

	records, err := s.RecentOrders(2)
	if err != nil {
		t.Fatalf("RecentOrders failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Symbol != "SOLUSDT" {
		t.Errorf("expected newest first, got %s", records[0].Symbol)
	}
}

func TestOrdersBySymbol(t *testing.T) {
	s := setupTestDB(t)

	for _, symbol := range []string{"BTCUSDT", "ETHUSDT", "BTCUSDT"} {
		s.RecordAttempt(&domain.Outcome{
			Request:  domain.OrderRequest{Symbol: symbol, Side: "BUY", Kind: "MARKET", Quantity: dec("1")},
			Rejected: &domain.Rejected{Stage: domain.StageSubmission, Reason: "network: down"},
		})
	}

	records, err := s.OrdersBySymbol("BTCUSDT", 10)
	if err != nil {
		t.Fatalf("OrdersBySymbol failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 BTCUSDT records, got %d", len(records))
	}
}
