package weather

// SampleHours is the resolution of one forecast sample.
const SampleHours = 3

// SamplesForRange converts a display range in hours to a sample count.
func SamplesForRange(hours int) int {
	return hours / SampleHours
}

// Window returns the leading samples that cover the given range.
func Window(samples []ForecastSample, hours int) []ForecastSample {
	n := SamplesForRange(hours)
	if n < 0 {
		n = 0
	}
	if n > len(samples) {
		n = len(samples)
	}
	return samples[:n]
}
