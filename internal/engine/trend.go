package engine

// Direction is the trend signal derived from a snapshot series.
type Direction string

const (
	TrendUp   Direction = "up"
	TrendDown Direction = "down"
	TrendFlat Direction = "flat"
)

// trendThreshold is the delta beyond which a trend reads as tilted
// rather than flat.
const trendThreshold = 3.0

// TrendResult carries the direction and the raw recent-minus-older
// mean delta behind it.
type TrendResult struct {
	Direction Direction `json:"direction"`
	Delta     float64   `json:"delta"`
}

// Trend compares the recent end of an ordered series against its older
// end. Each side uses min(5, len/2) points. Series shorter than 2
// points read as flat with delta 0.
func Trend(series []float64) TrendResult {
	if len(series) < 2 {
		return TrendResult{Direction: TrendFlat, Delta: 0}
	}

	half := len(series) / 2
	if half > 5 {
		half = 5
	}

	older := mean(series[:half])
	recent := mean(series[len(series)-half:])
	delta := recent - older

	dir := TrendFlat
	switch {
	case delta > trendThreshold:
		dir = TrendUp
	case delta < -trendThreshold:
		dir = TrendDown
	}
	return TrendResult{Direction: dir, Delta: delta}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
