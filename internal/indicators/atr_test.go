package indicators

import (
	"math"
	"testing"

	"silktrader/pkg/exchanges/common"
)

func TestTrueRangeCoversGaps(t *testing.T) {
	k := common.Kline{High: 105, Low: 100, Close: 102}

	// No gap: plain high-low range.
	if got := TrueRange(k, 103); got != 5 {
		t.Errorf("TrueRange = %v, want 5", got)
	}
	// Gap up: previous close far below the low.
	if got := TrueRange(k, 90); got != 15 {
		t.Errorf("TrueRange with gap up = %v, want 15", got)
	}
	// Gap down: previous close far above the high.
	if got := TrueRange(k, 120); got != 20 {
		t.Errorf("TrueRange with gap down = %v, want 20", got)
	}
}

func TestATRConstantRange(t *testing.T) {
	// Every candle spans exactly 2 with no gaps: ATR must be exactly 2
	// regardless of smoothing.
	var klines []common.Kline
	for i := 0; i < 30; i++ {
		base := 100.0
		klines = append(klines, common.Kline{
			Open: base, High: base + 2, Low: base, Close: base + 1,
		})
	}
	// Close 101, next low 100: |low-prevClose| = 1 < 2, high-low = 2.
	if got := ATR(klines, DefaultATRPeriod); math.Abs(got-2) > 1e-9 {
		t.Fatalf("ATR = %v, want 2", got)
	}
}

func TestATRInsufficientData(t *testing.T) {
	klines := make([]common.Kline, DefaultATRPeriod) // one short of period+1
	if got := ATR(klines, DefaultATRPeriod); got != 0 {
		t.Fatalf("ATR = %v, want 0 for insufficient data", got)
	}
	if got := ATR(nil, 14); got != 0 {
		t.Fatalf("ATR(nil) = %v, want 0", got)
	}
}

func TestATRSmoothingWeightsRecentRanges(t *testing.T) {
	// Quiet market, then one violent candle: the smoothed ATR moves toward
	// the spike but stays well under it.
	var klines []common.Kline
	for i := 0; i < 20; i++ {
		klines = append(klines, common.Kline{Open: 100, High: 101, Low: 100, Close: 100.5})
	}
	klines = append(klines, common.Kline{Open: 100, High: 120, Low: 95, Close: 110})

	got := ATR(klines, DefaultATRPeriod)
	if got <= 1 || got >= 25 {
		t.Fatalf("ATR = %v, want between quiet range 1 and spike 25", got)
	}
}

func TestATRPercent(t *testing.T) {
	var klines []common.Kline
	for i := 0; i < 30; i++ {
		klines = append(klines, common.Kline{Open: 100, High: 102, Low: 100, Close: 100})
	}
	got := ATRPercent(klines, DefaultATRPeriod)
	if math.Abs(got-0.02) > 1e-9 {
		t.Fatalf("ATRPercent = %v, want 0.02", got)
	}
}
