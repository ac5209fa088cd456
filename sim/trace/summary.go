package trace

// TraceSummary aggregates counts from a SimulationTrace.
type TraceSummary struct {
	Arrived  int `yaml:"arrived"`
	Served   int `yaml:"served"`
	Departed int `yaml:"departed"`
	// Waiting counts entities that arrived but were never granted a server.
	Waiting int `yaml:"waiting"`
	// InService counts entities that were granted a server but did not leave.
	InService int `yaml:"in_service"`
	// ArrivalsByCategory maps category → number of arrivals.
	ArrivalsByCategory map[string]int `yaml:"arrivals_by_category"`
}

// Summarize computes aggregate counts from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ArrivalsByCategory: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.Arrived = len(st.Arrivals)
	summary.Served = len(st.Services)
	summary.Departed = len(st.Departures)
	for _, a := range st.Arrivals {
		summary.ArrivalsByCategory[a.Category]++
	}
	summary.Waiting = summary.Arrived - summary.Served
	summary.InService = summary.Served - summary.Departed

	return summary
}
