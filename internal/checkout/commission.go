package checkout

import (
	"context"
	"log/slog"

	"barberia-backend/internal/db"
	"barberia-backend/internal/domain"
)

// SplitLocal computes a commission split without the database. The floor
// lands on the barber share only, so the odd cent always goes to the house
// and the two shares sum exactly to the total.
func SplitLocal(total int64, pct int, currency string) domain.CommissionSplit {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	barber := total * int64(pct) / 100
	return domain.CommissionSplit{
		Percentage:  pct,
		BarberShare: domain.Money{Amount: barber, Currency: currency},
		HouseShare:  domain.Money{Amount: total - barber, Currency: currency},
	}
}

// Calculator resolves a barber's split, preferring the calculate_commission
// database function so rate changes apply without a deploy.
type Calculator struct {
	DB       *db.Postgres
	Logger   *slog.Logger
	Currency string
}

// Split calls the stored function; any failure falls back to a local split
// at the barber's configured rate (or the default), logged but never
// surfaced to the operator.
func (c Calculator) Split(ctx context.Context, barber *domain.Barber, total int64) domain.CommissionSplit {
	if c.DB != nil {
		var barberID int64
		if barber != nil {
			barberID = barber.ID
		}
		var pct int
		var barberShare, houseShare int64
		err := c.DB.Pool.QueryRow(ctx, `
			SELECT percentage, barber_share, house_share
			FROM calculate_commission($1, $2)
		`, barberID, total).Scan(&pct, &barberShare, &houseShare)
		if err == nil {
			return domain.CommissionSplit{
				Percentage:  pct,
				BarberShare: domain.Money{Amount: barberShare, Currency: c.Currency},
				HouseShare:  domain.Money{Amount: houseShare, Currency: c.Currency},
			}
		}
		if c.Logger != nil {
			c.Logger.Warn("commission rpc failed, using local split", "barberId", barberID, "err", err)
		}
	}

	pct := domain.DefaultCommissionPct
	if barber != nil {
		pct = barber.Commission()
	}
	return SplitLocal(total, pct, c.Currency)
}
