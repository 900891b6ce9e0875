package command

import (
	"context"

	"github.com/tair/retail-settlement/internal/stock/domain"
	"github.com/tair/retail-settlement/kafka"
	"github.com/tair/retail-settlement/pkg/logger"
)

// notifyMutation runs the side effects of a committed stock mutation:
// activation recompute and event publication. Both are best-effort and
// must never fail the stock operation itself.
func notifyMutation(ctx context.Context, notifier domain.ActivationNotifier, publisher *kafka.Publisher, stock *domain.Stock, delta int, reason string) {
	if notifier != nil {
		if err := notifier.VariantAvailabilityChanged(stock.VariantID); err != nil {
			logger.Error(ctx).
				Err(err).
				Uint("variant_id", stock.VariantID).
				Msg("Failed to recompute product activation")
		}
	}

	if publisher != nil {
		event := kafka.StockAdjustedEvent{
			StockID:    stock.ID,
			VariantID:  stock.VariantID,
			LocationID: stock.LocationID,
			Delta:      delta,
			Reason:     reason,
		}
		if err := publisher.PublishStockAdjusted(ctx, event); err != nil {
			logger.Error(ctx).
				Err(err).
				Uint("stock_id", stock.ID).
				Msg("Failed to publish stock adjusted event")
		}
	}
}
