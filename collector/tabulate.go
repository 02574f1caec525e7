package collector

import (
	"strings"

	"go-away-stress/model"
)

// Tabulate turns rows into frequency tables. Multi-select answers count once
// per tag per row; a row with free text counts it under EtcPrefix+text in
// place of the bare "other" tag.
func Tabulate(rows []model.Row, opts Options) *model.AggregateStats {
	stats := model.NewAggregateStats()
	stats.Total = len(rows)

	for _, row := range rows {
		rec := row.Record
		countTags(stats.Q1, rec.StressSituation, rec.StressSituationEtc, opts)
		countTags(stats.Q2, rec.StressAction, rec.StressActionEtc, opts)
		countChoice(stats.Q3, rec.BestTime)
		countTags(stats.Q4, rec.ContentService, rec.ContentServiceEtc, opts)
		countChoice(stats.Q6, rec.StressLevel)

		if m := strings.TrimSpace(rec.SpecialMethod); m != "" {
			stats.Q5 = append(stats.Q5, m)
		}
	}

	return stats
}

func countTags(counts map[string]int, tags []string, etc string, opts Options) {
	etc = strings.TrimSpace(etc)
	seen := make(map[string]struct{}, len(tags))

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}

		if tag == opts.OtherTag && etc != "" {
			continue
		}
		counts[tag]++
	}

	if etc != "" {
		counts[opts.EtcPrefix+etc]++
	}
}

func countChoice(counts map[string]int, choice string) {
	if choice = strings.TrimSpace(choice); choice != "" {
		counts[choice]++
	}
}
