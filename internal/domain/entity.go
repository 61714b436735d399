package domain

import "time"

// OrderRecord is the persisted form of one order attempt, accepted or not.
type OrderRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Symbol      string    `gorm:"index" json:"symbol"`
	Side        string    `json:"side"`
	Kind        string    `json:"kind"`
	Quantity    string    `json:"quantity"`
	Price       string    `json:"price"`
	StopPrice   string    `json:"stop_price"`
	Accepted    bool      `gorm:"index" json:"accepted"`
	OrderID     string    `json:"order_id"`     // exchange order id, empty on rejection
	Status      string    `json:"status"`       // exchange status, empty on rejection
	RejectStage string    `json:"reject_stage"` // "validation"/"submission", empty on accept
	Reason      string    `json:"reason"`
	Warnings    string    `json:"warnings"` // newline-joined advisory notes
	CreatedAt   time.Time `json:"created_at"`
}
