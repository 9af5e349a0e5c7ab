package weather

import "fmt"

// DefaultForecastDays is the number of day cards shown for a forecast.
const DefaultForecastDays = 5

// Bucketize groups samples by calendar date. A bucket is opened the first
// time a date is seen, so bucket order follows first occurrence and samples
// keep their arrival order within each bucket.
func Bucketize(samples []ForecastSample) []DayBucket {
	var buckets []DayBucket
	index := make(map[string]int)

	for _, s := range samples {
		date := s.Date()
		i, ok := index[date]
		if !ok {
			i = len(buckets)
			index[date] = i
			buckets = append(buckets, DayBucket{Date: date})
		}
		buckets[i].Samples = append(buckets[i].Samples, s)
	}
	return buckets
}

// FirstNDays returns at most the first n buckets. A short input is not an error.
func FirstNDays(buckets []DayBucket, n int) []DayBucket {
	if n <= 0 {
		return []DayBucket{}
	}
	if n > len(buckets) {
		n = len(buckets)
	}
	return buckets[:n]
}

// Cards builds one card per bucket from the first sample of the day only.
// The headline is that sample, not a daily aggregate.
func Cards(buckets []DayBucket) []DayCard {
	cards := make([]DayCard, 0, len(buckets))
	for _, b := range buckets {
		first := b.Samples[0]
		cards = append(cards, DayCard{
			Date:         b.Date,
			IconID:       first.Icon,
			IconURL:      IconURL(first.Icon),
			HeadlineTemp: first.TemperatureC,
		})
	}
	return cards
}

// IconURL returns the upstream image URL for an icon id.
func IconURL(icon string) string {
	return fmt.Sprintf("https://openweathermap.org/img/wn/%s@2x.png", icon)
}

// FindDay returns the bucket for date.
func FindDay(buckets []DayBucket, date string) (DayBucket, bool) {
	for _, b := range buckets {
		if b.Date == date {
			return b, true
		}
	}
	return DayBucket{}, false
}
