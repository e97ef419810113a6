package scoring

import "math"

// Clamp01 bounds v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Round2 rounds to two decimal places for the API boundary. Internal
// computation keeps full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PositionStdev exposes the sample standard deviation for feature building.
func PositionStdev(xs []float64) float64 {
	return stddev(xs)
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

// stddev computes the sample standard deviation (n-1 denominator).
func stddev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := mean(xs)
	sum2 := 0.0
	for _, x := range xs {
		d := x - m
		sum2 += d * d
	}
	v := sum2 / float64(n-1)
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}

// linreg fits y = a + b*x over x = 0..n-1 by least squares and returns the
// slope and the residual standard deviation around the fit.
func linreg(ys []float64) (slope, residualStd float64) {
	n := len(ys)
	if n < 2 {
		return 0, 0
	}
	fn := float64(n)
	meanX := (fn - 1) / 2
	meanY := mean(ys)

	var sxy, sxx float64
	for i, y := range ys {
		dx := float64(i) - meanX
		sxy += dx * (y - meanY)
		sxx += dx * dx
	}
	if sxx == 0 {
		return 0, 0
	}
	slope = sxy / sxx
	intercept := meanY - slope*meanX

	var sse float64
	for i, y := range ys {
		r := y - (intercept + slope*float64(i))
		sse += r * r
	}
	residualStd = math.Sqrt(sse / fn)
	return slope, residualStd
}

// autocorr computes the autocorrelation of xs at the given lag, in [-1,1].
// Returns 0 when the series is too short or has zero variance.
func autocorr(xs []float64, lag int) float64 {
	n := len(xs)
	if lag <= 0 || n < 2*lag {
		return 0
	}
	m := mean(xs)
	var num, den float64
	for i := 0; i < n; i++ {
		d := xs[i] - m
		den += d * d
	}
	if den == 0 {
		return 0
	}
	for i := lag; i < n; i++ {
		num += (xs[i] - m) * (xs[i-lag] - m)
	}
	return num / den
}
