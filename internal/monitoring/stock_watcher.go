package monitoring

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/Profanor/scello-commerce/internal/services"
)

// StockWatcher periodically sweeps the catalog for products at or below
// the configured stock threshold and records a lowstock event for each.
type StockWatcher struct {
	products  services.ProductServiceProvider
	events    services.EventServiceProvider
	threshold int
	schedule  cron.Schedule
	done      chan bool
	alerted   map[string]bool // product IDs already alerted, reset on restock
}

// NewStockWatcher creates a StockWatcher. spec is a standard cron
// expression or a descriptor like "@every 5m".
func NewStockWatcher(products services.ProductServiceProvider, events services.EventServiceProvider, threshold int, spec string) (*StockWatcher, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid stock sweep spec: %w", err)
	}
	return &StockWatcher{
		products:  products,
		events:    events,
		threshold: threshold,
		schedule:  schedule,
		done:      make(chan bool),
		alerted:   make(map[string]bool),
	}, nil
}

// Run starts the periodic sweep. It blocks until Stop is called.
func (w *StockWatcher) Run() {
	log.Info().Int("threshold", w.threshold).Msg("Starting background stock watcher...")

	// Run once immediately on start
	w.sweep()

	for {
		next := w.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-w.done:
			timer.Stop()
			log.Info().Msg("Stopping background stock watcher.")
			return
		case <-timer.C:
			w.sweep()
		}
	}
}

// Stop halts the periodic sweep.
func (w *StockWatcher) Stop() {
	w.done <- true
}

// sweep flags every product at or below the threshold, suppressing
// repeat alerts until the product is restocked above it.
func (w *StockWatcher) sweep() {
	low, err := w.products.GetLowStockProducts(w.threshold)
	if err != nil {
		log.Error().Err(err).Msg("StockWatcher: failed to query low-stock products")
		return
	}

	lowIDs := make(map[string]bool, len(low))
	for _, p := range low {
		lowIDs[p.ID] = true
		if w.alerted[p.ID] {
			continue
		}
		w.alerted[p.ID] = true

		id := p.ID
		msg := fmt.Sprintf("Product '%s' is low on stock (%d left).", p.Name, p.Stock)
		if err := w.events.CreateEvent("catalog.lowstock", "warn", msg, &id); err != nil {
			log.Error().Err(err).Str("product_id", p.ID).Msg("StockWatcher: failed to record lowstock event")
		}
	}

	// Products restocked above the threshold become alertable again.
	for id := range w.alerted {
		if !lowIDs[id] {
			delete(w.alerted, id)
		}
	}
}
