package domain

const (
	StageValidation = "validation"
	StageSubmission = "submission"
)

// Accepted carries the exchange's acknowledgement verbatim.
type Accepted struct {
	OrderID string            `json:"order_id"`
	Status  string            `json:"status"`
	Raw     map[string]string `json:"raw,omitempty"` // echoed wire fields
}

// Rejected records why an attempt went nowhere and at which stage.
type Rejected struct {
	Stage  string `json:"stage"` // "validation" or "submission"
	Reason string `json:"reason"`
}

// Outcome is the result of exactly one order placement attempt.
// Exactly one of Accepted/Rejected is set; Warnings are advisory
// (e.g. notional below the exchange minimum) and never block on their own.
type Outcome struct {
	Request  OrderRequest `json:"request"`
	Accepted *Accepted    `json:"accepted,omitempty"`
	Rejected *Rejected    `json:"rejected,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

// OK reports whether the order was accepted by the exchange.
func (o *Outcome) OK() bool {
	return o.Accepted != nil
}

// Reason returns the rejection reason, or "" for accepted outcomes.
func (o *Outcome) Reason() string {
	if o.Rejected == nil {
		return ""
	}
	return o.Rejected.Reason
}
