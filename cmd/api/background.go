package main

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// sweepPendingOrders runs nightly and reports orders that have sat in pending
// for more than a day, so the back-office can chase them.
func (app *application) sweepPendingOrders() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-24 * time.Hour)
	n, err := app.orders.CountStalePending(ctx, cutoff)
	if err != nil {
		app.logger.Error("pending_order_sweep_failed", zap.Error(err))
		return
	}
	app.logger.Info("pending_order_sweep",
		zap.Int64("stale_pending", n),
		zap.Time("cutoff", cutoff),
	)
}
