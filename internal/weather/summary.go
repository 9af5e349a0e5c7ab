package weather

import (
	"bytes"
	"html/template"
	"strconv"
)

const summaryHTML = `<strong>Time:</strong> {{.First.Timestamp}}<br>` +
	`<strong>Temperature:</strong> {{num .First.TemperatureC}}°C<br>` +
	`<strong>Precipitation:</strong> {{num .First.PrecipMM}} mm<br>` +
	`<strong>Chance of Rain:</strong> {{.FirstChance}}%<br>` +
	`<strong>Cloud Coverage:</strong> {{.First.CloudsPct}}%<br>` +
	`<strong>Humidity:</strong> {{.First.HumidityPct}}%<br>` +
	`<strong>Pressure:</strong> {{num .First.PressureHpa}} hPa<br>` +
	`<strong>Wind:</strong> {{num .First.WindSpeedMS}} m/s ({{.FirstDir}})<br>` +
	`<strong>Chance of Rain by Time:</strong><br>` +
	`{{range .Chances}}{{.Label}}: {{.Chance}}%<br>{{end}}` +
	`<strong>Condition:</strong> {{.First.Description}}`

var summaryTemplate = template.Must(template.New("summary").
	Funcs(template.FuncMap{"num": formatNumber}).
	Parse(summaryHTML))

type timedChance struct {
	Label  string
	Chance int
}

// renderSummary builds the popup's info block from the first sample plus the
// chance-of-rain list over all samples.
func renderSummary(samples []ForecastSample, p *Projection) (string, error) {
	first := samples[0]

	dir := "N/A"
	if first.WindDeg != nil {
		dir = Compass(*first.WindDeg)
	}

	labels := p.Labels()
	chances := make([]timedChance, 0, len(samples))
	for i, s := range samples {
		chances = append(chances, timedChance{Label: labels[i], Chance: RainProbability(s.PrecipMM)})
	}

	var buf bytes.Buffer
	err := summaryTemplate.Execute(&buf, struct {
		First       ForecastSample
		FirstChance int
		FirstDir    string
		Chances     []timedChance
	}{
		First:       first,
		FirstChance: RainProbability(first.PrecipMM),
		FirstDir:    dir,
		Chances:     chances,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatNumber prints a float the shortest way, like the upstream JSON does.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
