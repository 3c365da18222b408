package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"barberia-backend/internal/repository"
)

// ReconcileService repairs drift between the cached product stock and the
// inventory movement log. Stock counts are advisory between runs: a crash
// after an invoice commit but before its outflow movements leaves stock
// overstated until the nightly run (or a manual correction) closes the gap.
type ReconcileService struct {
	Inventory repository.InventoryRepository
	Audit     repository.AuditRepository
	Logger    *slog.Logger
}

// Run compares every tracked product against its movement log and rewrites
// the cache where they disagree. Each repair is audit-logged.
func (s ReconcileService) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	drifts, err := s.Inventory.FindDrift(ctx)
	if err != nil {
		s.Logger.Error("stock reconciliation query failed", "err", err)
		return err
	}
	if len(drifts) == 0 {
		s.Logger.Info("stock reconciliation clean")
		return nil
	}

	for _, d := range drifts {
		if err := s.Inventory.RepairStock(ctx, d.ProductID, d.FromLog); err != nil {
			s.Logger.Error("stock repair failed", "productId", d.ProductID, "err", err)
			continue
		}
		s.Logger.Warn("stock drift repaired",
			"productId", d.ProductID, "product", d.ProductName,
			"cached", d.Cached, "fromLog", d.FromLog)
		detail := fmt.Sprintf("cached %d -> log %d", d.Cached, d.FromLog)
		if err := s.Audit.Log(ctx, "reconciler", "stock_repair", d.ProductName, detail); err != nil {
			s.Logger.Warn("audit write failed", "err", err)
		}
	}
	return nil
}
