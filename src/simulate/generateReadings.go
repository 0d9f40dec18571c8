package simulate

import (
	"encoding/json"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
)

var DefaultSites = []string{
	"site-alpha-pv-farm-01",
	"site-beta-wind-turbine-03",
	"site-gamma-hydro-plant-01",
	"site-delta-solar-roof-02",
	"site-epsilon-geothermal-01",
}

const (
	minReadingsPerSite = 5
	maxReadingsPerSite = 15
	anomalyChance      = 0.1
	readingInterval    = 15 * time.Second
)

// Reading is one mock meter reading in the raw batch file format.
type Reading struct {
	SiteID    string      `json:"site_id"`
	Timestamp string      `json:"timestamp"`
	Generated json.Number `json:"energy_generated_kwh"`
	Consumed  json.Number `json:"energy_consumed_kwh"`
}

type Generator struct {
	sites []string
	rand  *rand.Rand
	now   func() time.Time
}

func NewGenerator(sites []string, r *rand.Rand, now func() time.Time) *Generator {
	if len(sites) == 0 {
		sites = DefaultSites
	}
	return &Generator{sites: sites, rand: r, now: now}
}

// Generate draws 5-15 readings per site, stepping back 15s from now. With a
// 10% chance a site's whole run is anomalous: either generation or
// consumption goes negative.
func (g *Generator) Generate(now time.Time) []Reading {
	var readings []Reading
	now = now.UTC()

	for _, siteID := range g.sites {
		count := minReadingsPerSite + g.rand.IntN(maxReadingsPerSite-minReadingsPerSite+1)
		anomalous := g.rand.Float64() < anomalyChance

		for i := 0; i < count; i++ {
			var generated, consumed float64

			switch {
			case anomalous && g.rand.IntN(2) == 0:
				generated = -g.uniform(10, 50)
				consumed = g.uniform(20, 80)
			case anomalous:
				generated = g.uniform(50, 500)
				consumed = -g.uniform(10, 50)
			default:
				generated = g.uniform(50, 500)
				consumed = g.uniform(10, generated*0.8)
			}

			readings = append(readings, Reading{
				SiteID:    siteID,
				Timestamp: now.Add(-time.Duration(i) * readingInterval).Format("2006-01-02T15:04:05.000000Z"),
				Generated: kwh(generated),
				Consumed:  kwh(consumed),
			})
		}
	}

	return readings
}

func (g *Generator) uniform(low, high float64) float64 {
	return low + (high-low)*g.rand.Float64()
}

func kwh(value float64) json.Number {
	return json.Number(decimal.NewFromFloat(value).Round(2).String())
}

// ObjectKey names the batch file after the time it was generated.
func ObjectKey(at time.Time) string {
	return "raw/energy_data_" + at.UTC().Format("2006-01-02-15-04-05") + ".json"
}

func Encode(readings []Reading) ([]byte, error) {
	return json.MarshalIndent(readings, "", "  ")
}
