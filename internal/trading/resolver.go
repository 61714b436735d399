package trading

import (
	"context"
	"log/slog"
	"sync"

	"apex_bot/internal/domain"
)

// RulesResolver fetches per-symbol trading constraints through the gateway
// and caches them for the life of the process. Entries are immutable once
// stored; the cache is read-mostly and safe for concurrent use.
type RulesResolver struct {
	gateway domain.ExchangeGateway
	logger  *slog.Logger

	mu    sync.RWMutex
	cache map[string]*domain.SymbolRules
}

// NewRulesResolver creates a resolver backed by the given gateway.
func NewRulesResolver(gateway domain.ExchangeGateway) *RulesResolver {
	return &RulesResolver{
		gateway: gateway,
		logger:  slog.Default().With("module", "rules_resolver"),
		cache:   make(map[string]*domain.SymbolRules),
	}
}

// Resolve returns the cached rules for symbol, fetching them on first use.
// It returns nil when the symbol is unknown, not trading, or the metadata
// call fails: absence means "skip dynamic checks", never "abort". Failed
// lookups are not cached, so a later attempt re-resolves.
func (r *RulesResolver) Resolve(ctx context.Context, symbol string) *domain.SymbolRules {
	r.mu.RLock()
	rules, ok := r.cache[symbol]
	r.mu.RUnlock()
	if ok {
		return rules
	}

	rules, err := r.gateway.SymbolRules(ctx, symbol)
	if err != nil {
		r.logger.Info("symbol rules unavailable, proceeding with static checks only",
			slog.String("symbol", symbol), slog.Any("error", err))
		return nil
	}
	if rules == nil {
		r.logger.Info("symbol unknown or not trading", slog.String("symbol", symbol))
		return nil
	}

	r.mu.Lock()
	// Another request may have raced us here; keep whichever landed first.
	if cached, ok := r.cache[symbol]; ok {
		rules = cached
	} else {
		r.cache[symbol] = rules
	}
	r.mu.Unlock()

	return rules
}

// Invalidate drops one symbol's cached rules.
func (r *RulesResolver) Invalidate(symbol string) {
	r.mu.Lock()
	delete(r.cache, symbol)
	r.mu.Unlock()
}
