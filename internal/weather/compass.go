package weather

import "math"

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Compass maps a wind direction in degrees to one of 16 compass points.
func Compass(deg float64) string {
	i := int(roundHalfUp(deg/22.5)) % 16
	if i < 0 {
		i += 16
	}
	return compassPoints[i]
}

// RainProbability is the chance-of-rain heuristic: 4mm over the window counts
// as certain rain. It is a proxy, not a forecast probability.
func RainProbability(precipMM float64) int {
	p := int(roundHalfUp(precipMM / 4 * 100))
	if p > 100 {
		return 100
	}
	return p
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
