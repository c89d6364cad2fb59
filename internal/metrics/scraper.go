package metrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// DefaultScrapeTimeout bounds a single Scrape call when the context has no
// deadline.
const DefaultScrapeTimeout = 5 * time.Second

// AlgorithmSnapshot holds the scraped counters for one algorithm.
type AlgorithmSnapshot struct {
	Algorithm       string
	Succeeded       float64
	Failed          float64
	Processes       float64
	TimeUnits       float64
	ContextSwitches float64
	LastAvgWaiting  float64
}

// Snapshot is a decoded view of a running server's /metrics output.
type Snapshot struct {
	Version     string
	Comparisons float64
	RunsStored  float64
	Algorithms  []AlgorithmSnapshot // sorted by name
}

// Scrape fetches url and decodes the cpusched_* families.
func Scrape(ctx context.Context, client *http.Client, url string) (*Snapshot, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultScrapeTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch metrics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}

	families, err := decodeFamilies(resp.Body)
	if err != nil {
		return nil, err
	}
	return snapshotFrom(families), nil
}

// decodeFamilies parses Prometheus text format into families keyed by name.
func decodeFamilies(r io.Reader) (map[string]*dto.MetricFamily, error) {
	decoder := expfmt.NewDecoder(r, expfmt.FmtText)
	families := make(map[string]*dto.MetricFamily)

	for {
		var mf dto.MetricFamily
		if err := decoder.Decode(&mf); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("decode error: %w", err)
		}
		families[mf.GetName()] = &mf
	}
	return families, nil
}

func snapshotFrom(families map[string]*dto.MetricFamily) *Snapshot {
	s := &Snapshot{}
	algs := make(map[string]*AlgorithmSnapshot)
	get := func(name string) *AlgorithmSnapshot {
		a, ok := algs[name]
		if !ok {
			a = &AlgorithmSnapshot{Algorithm: name}
			algs[name] = a
		}
		return a
	}

	if mf, ok := families["cpusched_info"]; ok {
		for _, m := range mf.GetMetric() {
			s.Version = labelValue(m, "version")
		}
	}
	s.Comparisons = sumCounter(families["cpusched_comparisons_total"])
	s.RunsStored = sumCounter(families["cpusched_runs_stored_total"])

	if mf, ok := families["cpusched_simulations_total"]; ok {
		for _, m := range mf.GetMetric() {
			a := get(labelValue(m, "algorithm"))
			if labelValue(m, "result") == ResultOK {
				a.Succeeded += m.GetCounter().GetValue()
			} else {
				a.Failed += m.GetCounter().GetValue()
			}
		}
	}

	perAlgorithm := []struct {
		family string
		set    func(*AlgorithmSnapshot, float64)
	}{
		{"cpusched_processes_scheduled_total", func(a *AlgorithmSnapshot, v float64) { a.Processes = v }},
		{"cpusched_time_units_simulated_total", func(a *AlgorithmSnapshot, v float64) { a.TimeUnits = v }},
		{"cpusched_context_switches_total", func(a *AlgorithmSnapshot, v float64) { a.ContextSwitches = v }},
	}
	for _, pa := range perAlgorithm {
		mf, ok := families[pa.family]
		if !ok {
			continue
		}
		for _, m := range mf.GetMetric() {
			pa.set(get(labelValue(m, "algorithm")), m.GetCounter().GetValue())
		}
	}
	if mf, ok := families["cpusched_last_average_waiting_time"]; ok {
		for _, m := range mf.GetMetric() {
			get(labelValue(m, "algorithm")).LastAvgWaiting = m.GetGauge().GetValue()
		}
	}

	names := make([]string, 0, len(algs))
	for name := range algs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.Algorithms = append(s.Algorithms, *algs[name])
	}
	return s
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func sumCounter(mf *dto.MetricFamily) float64 {
	var total float64
	for _, m := range mf.GetMetric() {
		total += m.GetCounter().GetValue()
	}
	return total
}
