package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestOrderRequest_Normalize(t *testing.T) {
	req := OrderRequest{Symbol: " btcusdt ", Side: "buy", Kind: "stop_limit"}
	got := req.Normalize()

	if got.Symbol != "BTCUSDT" || got.Side != "BUY" || got.Kind != "STOP_LIMIT" {
		t.Errorf("Normalize() = %+v", got)
	}
	if req.Symbol != " btcusdt " {
		t.Error("Normalize must not mutate the receiver")
	}
}

func TestOrderRequest_EstimatedNotional(t *testing.T) {
	tests := []struct {
		name string
		req  OrderRequest
		want string
	}{
		{
			name: "limit uses qty*price",
			req:  OrderRequest{Kind: KindLimit, Quantity: dec("0.5"), Price: dec("2000")},
			want: "1000",
		},
		{
			name: "market degrades to qty",
			req:  OrderRequest{Kind: KindMarket, Quantity: dec("0.25")},
			want: "0.25",
		},
		{
			name: "stop limit uses qty*price",
			req:  OrderRequest{Kind: KindStopLimit, Quantity: dec("0.01"), Price: dec("50000"), StopPrice: dec("49000")},
			want: "500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.EstimatedNotional(); !got.Equal(dec(tt.want)) {
				t.Errorf("EstimatedNotional() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSymbolRules_AlignsToStep(t *testing.T) {
	rules := &SymbolRules{StepSize: dec("0.001")}

	tests := []struct {
		qty  string
		want bool
	}{
		{"0.006", true},
		{"0.0061", false}, // binary float would round this into a false accept
		{"0.001", true},
		{"1", true},
		{"0.0005", false},
	}

	for _, tt := range tests {
		t.Run(tt.qty, func(t *testing.T) {
			if got := rules.AlignsToStep(dec(tt.qty)); got != tt.want {
				t.Errorf("AlignsToStep(%s) = %v, want %v", tt.qty, got, tt.want)
			}
		})
	}

	t.Run("zero step accepts anything", func(t *testing.T) {
		free := &SymbolRules{}
		if !free.AlignsToStep(dec("0.1234567")) {
			t.Error("zero step size must not reject")
		}
	})
}
