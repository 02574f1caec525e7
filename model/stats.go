package model

import (
	"math"
	"sort"
	"time"
)

// AggregateStats is the collector's answer to ?action=getStats. It is
// recomputed from every stored row on each query.
type AggregateStats struct {
	Total int            `json:"total"`
	Q1    map[string]int `json:"q1"` // stress_situation
	Q2    map[string]int `json:"q2"` // stress_action
	Q3    map[string]int `json:"q3"` // best_time
	Q4    map[string]int `json:"q4"` // content_service
	Q5    []string       `json:"q5"` // special_method, storage order
	Q6    map[string]int `json:"q6"` // stress_level
}

// NewAggregateStats returns empty stats with every map allocated
func NewAggregateStats() *AggregateStats {
	return &AggregateStats{
		Q1: make(map[string]int),
		Q2: make(map[string]int),
		Q3: make(map[string]int),
		Q4: make(map[string]int),
		Q5: make([]string, 0),
		Q6: make(map[string]int),
	}
}

// Row is one stored submission
type Row struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Record    Record    `json:"record"`
}

// SeriesPoint is one labeled value handed to a chart
type SeriesPoint struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"` // One decimal place
}

// BarSeries orders counts by descending count (ties by label) and expresses
// each as a share of total respondents.
func BarSeries(counts map[string]int, total int) []SeriesPoint {
	points := toPoints(counts)
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Count != points[j].Count {
			return points[i].Count > points[j].Count
		}
		return points[i].Label < points[j].Label
	})
	for i := range points {
		points[i].Percent = percent(points[i].Count, total)
	}
	return points
}

// PieSeries orders counts by label and expresses each as a share of the
// series sum.
func PieSeries(counts map[string]int) []SeriesPoint {
	points := toPoints(counts)
	sort.Slice(points, func(i, j int) bool { return points[i].Label < points[j].Label })
	sum := 0
	for _, p := range points {
		sum += p.Count
	}
	for i := range points {
		points[i].Percent = percent(points[i].Count, sum)
	}
	return points
}

func toPoints(counts map[string]int) []SeriesPoint {
	points := make([]SeriesPoint, 0, len(counts))
	for label, n := range counts {
		points = append(points, SeriesPoint{Label: label, Count: n})
	}
	return points
}

func percent(n, of int) float64 {
	if of <= 0 {
		return 0
	}
	return math.Round(float64(n)/float64(of)*1000) / 10
}
