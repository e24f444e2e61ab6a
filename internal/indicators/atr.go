package indicators

import (
	"math"

	"silktrader/pkg/exchanges/common"
)

// DefaultATRPeriod is the conventional lookback for Average True Range.
const DefaultATRPeriod = 14

// TrueRange is the candle's range extended to cover gaps against the
// previous close.
func TrueRange(k common.Kline, prevClose float64) float64 {
	tr := k.High - k.Low
	if d := math.Abs(k.High - prevClose); d > tr {
		tr = d
	}
	if d := math.Abs(k.Low - prevClose); d > tr {
		tr = d
	}
	return tr
}

// ATR computes the Average True Range over klines with Wilder smoothing:
// the first value is a simple average of the initial period's true ranges,
// each later value blends the previous ATR with the new true range. Returns
// 0 when there are not enough candles (period+1 needed for the first gap).
func ATR(klines []common.Kline, period int) float64 {
	if period <= 0 || len(klines) < period+1 {
		return 0
	}

	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += TrueRange(klines[i], klines[i-1].Close)
	}
	atr := sum / float64(period)

	for i := period + 1; i < len(klines); i++ {
		tr := TrueRange(klines[i], klines[i-1].Close)
		atr = (atr*float64(period-1) + tr) / float64(period)
	}
	return atr
}

// ATRPercent expresses the ATR as a fraction of the last close, a quick
// volatility-regime check (a pair trading at 1-5% range per candle is
// typically tradeable; far outside that band it is not).
func ATRPercent(klines []common.Kline, period int) float64 {
	if len(klines) == 0 {
		return 0
	}
	last := klines[len(klines)-1].Close
	if last <= 0 {
		return 0
	}
	return ATR(klines, period) / last
}
