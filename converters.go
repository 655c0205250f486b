package wxcraft

import (
	"math"
	"strconv"
)

const (
	knotsPerMPS = 1.94384
	knotsPerKMH = 0.539957
	hPaPerInHg  = 33.8639
)

// ToKnots converts a wind speed in the given unit (KT, MPS or KMH) to knots,
// rounding half to even.
func ToKnots(value int, unit string) int {
	switch unit {
	case "MPS":
		return int(math.RoundToEven(float64(value) * knotsPerMPS))
	case "KMH":
		return int(math.RoundToEven(float64(value) * knotsPerKMH))
	default:
		return value
	}
}

// CelsiusToFahrenheit converts temperature from Celsius to Fahrenheit
func CelsiusToFahrenheit(celsius int) int {
	return int(math.Round(float64(celsius)*9/5)) + 32
}

// InHgToMillibars converts pressure from inches of mercury to millibars (hPa)
func InHgToMillibars(inHg float64) float64 {
	return inHg * hPaPerInHg
}

// MillibarsToInHg converts pressure from millibars (hPa) to inches of mercury
func MillibarsToInHg(hPa float64) float64 {
	return hPa / hPaPerInHg
}

// Ordinal returns n with its English ordinal suffix: 1st, 2nd, 3rd, 11th, 22nd.
func Ordinal(n int) string {
	suffix := "th"
	if mod := n % 100; mod < 10 || mod > 20 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// hundredths reads a four-digit inHg group "nnnn" as nn.nn.
func hundredths(digits string) float64 {
	v, _ := strconv.Atoi(digits)
	return float64(v) / 100
}
