package main

import (
	"math"
	"sort"
	"sync"
	"time"
)

const scenarioMethod = "scenario"

type latencySummary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type stepReport struct {
	Calls     int64            `json:"calls"`
	Failed    int64            `json:"failed"`
	ErrorRate float64          `json:"error_rate"`
	Outcomes  map[string]int64 `json:"outcomes"`
	LatencyMs latencySummary   `json:"latency_ms"`
}

type report struct {
	StartedAt         time.Time             `json:"started_at"`
	DurationSeconds   float64               `json:"duration_seconds"`
	Mode              string                `json:"mode"`
	TotalScenarios    int64                 `json:"total_scenarios"`
	FailedScenarios   int64                 `json:"failed_scenarios"`
	ErrorRate         float64               `json:"error_rate"`
	ScenariosPerSec   float64               `json:"scenarios_per_sec"`
	ScenarioLatencyMs latencySummary        `json:"scenario_latency_ms"`
	Steps             map[string]stepReport `json:"steps"`
}

type stepStats struct {
	calls     int64
	failed    int64
	outcomes  map[string]int64
	latencies []float64
}

// collector копит латентности и исходы по шагам сценария. Безопасен для конкурентного использования.
type collector struct {
	mu    sync.Mutex
	steps map[string]*stepStats
}

func newCollector() *collector {
	return &collector{steps: make(map[string]*stepStats)}
}

// record учитывает один вызов. outcome "OK" считается успехом.
func (c *collector) record(step string, latency time.Duration, outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.steps[step]
	if !ok {
		st = &stepStats{outcomes: make(map[string]int64)}
		c.steps[step] = st
	}
	st.calls++
	if outcome != outcomeOK {
		st.failed++
	}
	st.outcomes[outcome]++
	st.latencies = append(st.latencies, float64(latency.Microseconds())/1000.0)
}

func (c *collector) report(mode loadMode, startedAt time.Time, elapsed time.Duration) report {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := report{
		StartedAt:       startedAt.UTC(),
		DurationSeconds: elapsed.Seconds(),
		Mode:            string(mode),
		Steps:           make(map[string]stepReport, len(c.steps)),
	}
	for name, st := range c.steps {
		outcomes := make(map[string]int64, len(st.outcomes))
		for k, v := range st.outcomes {
			outcomes[k] = v
		}
		sr := stepReport{
			Calls:     st.calls,
			Failed:    st.failed,
			ErrorRate: ratio(st.failed, st.calls),
			Outcomes:  outcomes,
			LatencyMs: summarize(st.latencies),
		}
		if name == scenarioMethod {
			r.TotalScenarios = sr.Calls
			r.FailedScenarios = sr.Failed
			r.ErrorRate = sr.ErrorRate
			r.ScenarioLatencyMs = sr.LatencyMs
			continue
		}
		r.Steps[name] = sr
	}
	if elapsed > 0 {
		r.ScenariosPerSec = float64(r.TotalScenarios) / elapsed.Seconds()
	}
	return r
}

func summarize(values []float64) latencySummary {
	if len(values) == 0 {
		return latencySummary{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return latencySummary{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: sum / float64(len(sorted)),
		P50: percentile(sorted, 50),
		P95: percentile(sorted, 95),
		P99: percentile(sorted, 99),
	}
}

// percentile ожидает отсортированный срез и использует метод ближайшего ранга.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	rank = max(0, min(rank, len(sorted)-1))
	return sorted[rank]
}

func ratio(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}
