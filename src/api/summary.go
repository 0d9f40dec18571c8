package api

import "energy-telemetry-pipeline/src/types"

// Summarize aggregates scanned flags. The distribution only lists sites that
// have at least one anomaly.
func Summarize(flags []types.SiteFlag) types.Summary {
	summary := types.Summary{SiteAnomalyDistribution: map[string]int{}}
	sites := make(map[string]struct{})

	for _, flag := range flags {
		summary.TotalRecords++
		sites[flag.SiteID] = struct{}{}

		if flag.Anomaly {
			summary.TotalAnomalies++
			summary.SiteAnomalyDistribution[flag.SiteID]++
		}
	}

	summary.TotalSites = len(sites)
	return summary
}
