package checkout

import (
	"context"
	"testing"

	"barberia-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSplitLocalSharesSumToTotal(t *testing.T) {
	for _, total := range []int64{0, 1, 99, 100, 101, 1005, 123457} {
		for pct := 0; pct <= 100; pct += 7 {
			split := SplitLocal(total, pct, "EUR")
			assert.Equal(t, total, split.BarberShare.Amount+split.HouseShare.Amount,
				"total=%d pct=%d", total, pct)
		}
	}
}

func TestSplitLocalFloorsBarberShare(t *testing.T) {
	// 1005 at 33% is 331.65; the barber gets the floor, the house the rest
	split := SplitLocal(1005, 33, "EUR")
	assert.Equal(t, int64(331), split.BarberShare.Amount)
	assert.Equal(t, int64(674), split.HouseShare.Amount)
}

func TestSplitLocalEvenSplit(t *testing.T) {
	split := SplitLocal(1000, 50, "EUR")
	assert.Equal(t, int64(500), split.BarberShare.Amount)
	assert.Equal(t, int64(500), split.HouseShare.Amount)
	assert.Equal(t, 50, split.Percentage)
}

func TestSplitLocalClampsPercentage(t *testing.T) {
	low := SplitLocal(1000, -10, "EUR")
	assert.Equal(t, 0, low.Percentage)
	assert.Equal(t, int64(0), low.BarberShare.Amount)

	high := SplitLocal(1000, 150, "EUR")
	assert.Equal(t, 100, high.Percentage)
	assert.Equal(t, int64(1000), high.BarberShare.Amount)
}

func TestCalculatorFallsBackToBarberRate(t *testing.T) {
	pct := 40
	calc := Calculator{Currency: "EUR"}
	split := calc.Split(context.Background(), &domain.Barber{ID: 1, CommissionPct: &pct}, 1000)
	assert.Equal(t, 40, split.Percentage)
	assert.Equal(t, int64(400), split.BarberShare.Amount)
	assert.Equal(t, int64(600), split.HouseShare.Amount)
}

func TestCalculatorDefaultsWithoutBarber(t *testing.T) {
	calc := Calculator{Currency: "EUR"}
	split := calc.Split(context.Background(), nil, 1500)
	assert.Equal(t, domain.DefaultCommissionPct, split.Percentage)
	assert.Equal(t, int64(750), split.BarberShare.Amount)
}
