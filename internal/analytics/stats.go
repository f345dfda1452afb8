package analytics

import "math"

// stdDevEpsilon treats float noise from identical values as zero spread.
const stdDevEpsilon = 1e-9

// Mean calculates the arithmetic mean of values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PopulationStdDev divides by N, not N-1. A single value has zero spread.
func PopulationStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var varianceSum float64
	for _, v := range values {
		diff := v - mean
		varianceSum += diff * diff
	}
	return math.Sqrt(varianceSum / float64(len(values)))
}

// MeanStdDev calculates mean and population standard deviation in one call
func MeanStdDev(values []float64) (mean, stdDev float64) {
	return Mean(values), PopulationStdDev(values)
}

// ZScore returns |value-mean|/stdDev, or 0 when there is no spread.
func ZScore(value, mean, stdDev float64) float64 {
	if stdDev < stdDevEpsilon {
		return 0
	}
	return math.Abs(value-mean) / stdDev
}

// Round2 rounds to two decimal places (averages, z-scores)
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to one decimal place (percentages)
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
