package binance

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

// MarkPriceWorker subscribes to the <symbol>@markPrice stream on the
// futures testnet and keeps the latest mark price available for front
// ends that want to show it before an order is confirmed.
type MarkPriceWorker struct {
	wsURL     string
	symbol    string
	logger    *slog.Logger
	conn      *websocket.Conn
	mu        sync.RWMutex
	price     decimal.Decimal
	updatedAt time.Time
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewMarkPriceWorker creates a worker for one symbol.
func NewMarkPriceWorker(wsURL, symbol string) *MarkPriceWorker {
	return &MarkPriceWorker{
		wsURL:  strings.TrimSuffix(wsURL, "/"),
		symbol: strings.ToUpper(symbol),
		logger: slog.Default().With("module", "markprice_worker"),
	}
}

// Connect starts the stream with automatic reconnection.
func (w *MarkPriceWorker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.connectionLoop(ctx)
	return nil
}

// Disconnect stops the worker and waits for the read loop to exit.
func (w *MarkPriceWorker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
}

// IsConnected reports whether the stream is currently up.
func (w *MarkPriceWorker) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

// LastPrice returns the latest mark price and when it arrived.
// A zero price means nothing has been received yet.
func (w *MarkPriceWorker) LastPrice() (decimal.Decimal, time.Time) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.price, w.updatedAt
}

func (w *MarkPriceWorker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("mark price worker panic recovered", slog.Any("panic", r))
		}
	}()

	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("mark price stream stopped", slog.String("symbol", w.symbol))
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			w.logger.Warn("mark price connection failed",
				slog.String("symbol", w.symbol),
				slog.Any("error", err),
				slog.Int("retry", retryCount))

			delay := backoffDelay(retryCount)
			retryCount++
			if retryCount > wsMaxRetries {
				retryCount = 0
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		}

		retryCount = 0
		w.readLoop(ctx)
	}
}

func (w *MarkPriceWorker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: wsHandshakeTimeout}

	streamURL := w.wsURL + "/ws/" + strings.ToLower(w.symbol) + "@markPrice"
	conn, _, err := dialer.DialContext(ctx, streamURL, nil)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.mu.Unlock()

	w.logger.Info("mark price stream connected", slog.String("symbol", w.symbol))
	return nil
}

func (w *MarkPriceWorker) readLoop(ctx context.Context) {
	defer w.closeConnection()

	w.mu.RLock()
	conn := w.conn
	w.mu.RUnlock()
	if conn == nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			w.logger.Warn("mark price read failed, reconnecting", slog.Any("error", err))
			return
		}

		var event markPriceEvent
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}
		if event.EventType != "markPriceUpdate" {
			continue
		}

		price, err := decimal.NewFromString(event.MarkPrice)
		if err != nil {
			continue
		}

		w.mu.Lock()
		w.price = price
		w.updatedAt = time.UnixMilli(event.EventTime)
		w.mu.Unlock()
	}
}

func (w *MarkPriceWorker) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.connected = false
}

// backoffDelay doubles per retry, capped at wsMaxDelay.
func backoffDelay(retryCount int) time.Duration {
	delay := wsBaseDelay << uint(retryCount)
	if delay > wsMaxDelay || delay <= 0 {
		return wsMaxDelay
	}
	return delay
}
