package service

import (
	"sort"
	"strings"
	"time"

	"alcyxob/painrelief/internal/domain"
)

// Time-of-day buckets used by Insights.
const (
	Morning   = "morning"   // before 12:00
	Afternoon = "afternoon" // 12:00 to 17:59
	Evening   = "evening"   // 18:00 onwards
)

// TriggersKey is the metadata key holding comma separated triggers.
const TriggersKey = "triggers"

type RegionCount struct {
	Region           domain.BodyRegion `json:"region"`
	Count            int               `json:"count"`
	AverageIntensity float64           `json:"averageIntensity"`
}

// Insights summarises a pain history.
type Insights struct {
	Total            int            `json:"total"`
	AverageIntensity float64        `json:"averageIntensity"`
	CommonRegions    []RegionCount  `json:"commonRegions"`
	TimeOfDay        map[string]int `json:"timeOfDay"`
	Triggers         map[string]int `json:"triggers"`
}

// ComputeInsights groups records by region, time of day (in loc) and
// reported trigger. Regions are ordered by count, then head to toe.
func ComputeInsights(records []domain.PainRecord, loc *time.Location) Insights {
	if loc == nil {
		loc = time.UTC
	}
	out := Insights{
		CommonRegions: []RegionCount{},
		TimeOfDay:     map[string]int{Morning: 0, Afternoon: 0, Evening: 0},
		Triggers:      map[string]int{},
	}
	if len(records) == 0 {
		return out
	}

	counts := map[domain.BodyRegion]int{}
	sums := map[domain.BodyRegion]int{}
	total := 0
	for _, r := range records {
		counts[r.Region]++
		sums[r.Region] += r.Intensity
		total += r.Intensity
		out.TimeOfDay[timeOfDay(r.Timestamp.In(loc))]++
		for _, trig := range strings.Split(r.Metadata[TriggersKey], ",") {
			if trig = strings.ToLower(strings.TrimSpace(trig)); trig != "" {
				out.Triggers[trig]++
			}
		}
	}
	out.Total = len(records)
	out.AverageIntensity = float64(total) / float64(len(records))

	order := map[domain.BodyRegion]int{}
	for i, r := range domain.AllRegions() {
		order[r] = i
	}
	for region, n := range counts {
		out.CommonRegions = append(out.CommonRegions, RegionCount{
			Region:           region,
			Count:            n,
			AverageIntensity: float64(sums[region]) / float64(n),
		})
	}
	sort.Slice(out.CommonRegions, func(i, j int) bool {
		a, b := out.CommonRegions[i], out.CommonRegions[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return order[a.Region] < order[b.Region]
	})
	return out
}

func timeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return Morning
	case h < 18:
		return Afternoon
	default:
		return Evening
	}
}

// Recent records within ChronicWindow, ChronicMinRecords or more of them,
// mark the pain as chronic.
const (
	ChronicWindow     = 7 * 24 * time.Hour
	ChronicMinRecords = 3
)

// PainPatternOf classifies a history as of now.
func PainPatternOf(records []domain.PainRecord, now time.Time) domain.PainPattern {
	since := now.Add(-ChronicWindow)
	recent := 0
	for _, r := range records {
		if r.Timestamp.After(since) {
			recent++
		}
	}
	if recent >= ChronicMinRecords {
		return domain.PatternChronic
	}
	return domain.PatternAcute
}
