package binance

import "time"

const (
	// Rule defaults when the exchange omits a filter, matching the
	// behavior the bot has always had.
	defaultMinQty      = "0.001"
	defaultStepSize    = "0.001"
	defaultMinNotional = "5.0"

	filterLotSize     = "LOT_SIZE"
	filterMinNotional = "MIN_NOTIONAL"

	symbolStatusTrading = "TRADING"

	requestTimeout = 10 * time.Second

	// Websocket stream tuning
	wsHandshakeTimeout = 10 * time.Second
	wsReadTimeout      = 90 * time.Second
	wsMaxRetries       = 10
	wsBaseDelay        = 1 * time.Second
	wsMaxDelay         = 60 * time.Second
)

// errorResponse is Binance's error envelope: {"code":-2019,"msg":"..."}
type errorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// orderResponse is the acknowledgement for POST /fapi/v1/order.
type orderResponse struct {
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Symbol        string `json:"symbol"`
	Status        string `json:"status"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	TimeInForce   string `json:"timeInForce"`
	OrigQty       string `json:"origQty"`
	Price         string `json:"price"`
	StopPrice     string `json:"stopPrice"`
	AvgPrice      string `json:"avgPrice"`
	ExecutedQty   string `json:"executedQty"`
	UpdateTime    int64  `json:"updateTime"`
}

// exchangeInfoResponse is the slice of GET /fapi/v1/exchangeInfo we need.
type exchangeInfoResponse struct {
	Symbols []symbolInfo `json:"symbols"`
}

type symbolInfo struct {
	Symbol  string       `json:"symbol"`
	Status  string       `json:"status"`
	Filters []infoFilter `json:"filters"`
}

type infoFilter struct {
	FilterType string `json:"filterType"`
	MinQty     string `json:"minQty,omitempty"`   // LOT_SIZE
	StepSize   string `json:"stepSize,omitempty"` // LOT_SIZE
	Notional   string `json:"notional,omitempty"` // MIN_NOTIONAL (futures naming)
}

// markPriceEvent is one <symbol>@markPrice stream update.
type markPriceEvent struct {
	EventType string `json:"e"`
	Symbol    string `json:"s"`
	MarkPrice string `json:"p"`
	EventTime int64  `json:"E"`
}
