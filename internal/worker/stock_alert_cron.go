package worker

// stock_alert_cron.go
// Background goroutine that periodically scans for variations at or below
// their minimum stock and emails a restock report. Goes through the SMTP
// circuit breaker so a downed relay never piles up goroutines.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GestharPDV/gesthar-pdv/internal/infra"
	"github.com/GestharPDV/gesthar-pdv/internal/repository"

	"github.com/rs/zerolog/log"
)

const stockAlertInterval = 1 * time.Hour

// StockAlertConfig holds all dependencies for the alert goroutine.
type StockAlertConfig struct {
	Variations repository.VariationRepository
	Mailer     *infra.Mailer
	CB         *infra.CircuitBreaker
	AlertEmail string
	StoreName  string
}

// StartStockAlertCron launches a background goroutine that ticks hourly,
// queries low-stock variations, and emails the report. It respects the
// context for graceful shutdown. A no-op when AlertEmail is empty.
func StartStockAlertCron(ctx context.Context, cfg StockAlertConfig) {
	if cfg.AlertEmail == "" {
		log.Info().Msg("stock_alert_cron: no alert email configured, disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(stockAlertInterval)
		defer ticker.Stop()

		log.Info().Msg("stock_alert_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("stock_alert_cron: shutting down")
				return
			case <-ticker.C:
				processStockAlerts(ctx, cfg)
			}
		}
	}()
}

func processStockAlerts(ctx context.Context, cfg StockAlertConfig) {
	// If CB is open, skip entirely — don't hammer a downed relay
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("stock_alert_cron: circuit breaker is open, skipping tick")
		return
	}

	variations, err := cfg.Variations.ListBelowMinimum(ctx)
	if err != nil {
		log.Error().Err(err).Msg("stock_alert_cron: failed to query low stock")
		return
	}
	if len(variations) == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The following variations are at or below their minimum stock:\n\n")
	for _, v := range variations {
		productName := ""
		if v.Product != nil {
			productName = v.Product.Name
		}
		fmt.Fprintf(&b, "  %-20s %-30s stock=%d minimum=%d\n", v.SKU, productName, v.Stock, v.MinimumStock)
	}

	subject := fmt.Sprintf("%s — low stock report (%d items)", cfg.StoreName, len(variations))
	sendErr := cfg.CB.Execute(func() error {
		return cfg.Mailer.Send(cfg.AlertEmail, subject, b.String(), "")
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Msg("stock_alert_cron: failed to send report")
		return
	}
	log.Info().Int("count", len(variations)).Msg("stock_alert_cron: report sent")
}
