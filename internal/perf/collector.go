package perf

import (
	"net/http"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/procfs"

	"github.com/agentflow/agentflow-api/internal/logger"
)

const (
	maxSamplesPerEndpoint = 100
	maxSystemMetrics      = 360 // one hour at the 10s sample interval
	systemSampleInterval  = 10 * time.Second
)

var numericSegment = regexp.MustCompile(`^\d+$`)

// Collector keeps per-endpoint latency samples in bounded ring buffers plus a
// periodic trail of host/process metrics. Reads are aggregation only; stored
// samples are never mutated after append.
type Collector struct {
	mu        sync.Mutex
	endpoints map[string][]float64
	system    []SystemMetric
	log       *logger.Logger
	fs        procfs.FS
	hasProc   bool

	// previous /proc/stat snapshot; only the sampler goroutine touches it
	prevCPU    procfs.CPUStat
	hasPrevCPU bool
}

type SystemMetric struct {
	Timestamp   time.Time `json:"timestamp"`
	CPUUsagePct float64   `json:"cpu_usage_pct"`
	MemTotalKB  uint64    `json:"mem_total_kb"`
	MemFreeKB   uint64    `json:"mem_free_kb"`
	MemUsedKB   uint64    `json:"mem_used_kb"`
	MemUsedPct  float64   `json:"mem_used_pct"`
	LoadAverage []float64 `json:"load_average"`
	Goroutines  int       `json:"goroutines"`
	HeapAllocKB uint64    `json:"heap_alloc_kb"`
}

type EndpointReport struct {
	Endpoint string  `json:"endpoint"`
	Count    int     `json:"count"`
	MinMs    float64 `json:"min_ms"`
	MaxMs    float64 `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

type Report struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Endpoints   []EndpointReport `json:"endpoints"`
	System      []SystemMetric   `json:"system"`
}

func NewCollector(log *logger.Logger) *Collector {
	c := &Collector{
		endpoints: make(map[string][]float64),
		log:       log.Child("perf", nil),
	}
	if fs, err := procfs.NewDefaultFS(); err == nil {
		c.fs = fs
		c.hasProc = true
	} else {
		c.log.Warn("procfs unavailable, system metrics reduced to runtime stats")
	}
	return c
}

// NormalizeEndpoint strips a literal /api/ prefix and replaces every numeric
// path segment with :id, keeping endpoint cardinality bounded no matter how
// many distinct IDs show up.
func NormalizeEndpoint(method, path string) string {
	path = strings.TrimPrefix(path, "/api/")
	path = strings.TrimPrefix(path, "/")

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if numericSegment.MatchString(seg) {
			segments[i] = ":id"
		}
	}
	return method + " " + strings.Join(segments, "/")
}

// Record appends one latency sample, evicting the oldest past capacity.
func (c *Collector) Record(endpoint string, durationMs float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	samples := c.endpoints[endpoint]
	if len(samples) >= maxSamplesPerEndpoint {
		samples = samples[1:]
	}
	c.endpoints[endpoint] = append(samples, durationMs)
}

// Middleware records every request against its normalized endpoint key.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		c.Record(
			NormalizeEndpoint(r.Method, r.URL.Path),
			float64(time.Since(start).Microseconds())/1000.0,
		)
	})
}

// StartSystemSampler appends one SystemMetric every 10 seconds until stop is
// closed.
func (c *Collector) StartSystemSampler(stop <-chan struct{}) {
	ticker := time.NewTicker(systemSampleInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.sampleSystem()
			case <-stop:
				return
			}
		}
	}()
}

func (c *Collector) sampleSystem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	metric := SystemMetric{
		Timestamp:   time.Now(),
		Goroutines:  runtime.NumGoroutine(),
		HeapAllocKB: ms.HeapAlloc / 1024,
	}

	if c.hasProc {
		if mi, err := c.fs.Meminfo(); err == nil && mi.MemTotal != nil && mi.MemAvailable != nil {
			metric.MemTotalKB = *mi.MemTotal
			metric.MemFreeKB = *mi.MemAvailable
			metric.MemUsedKB = *mi.MemTotal - *mi.MemAvailable
			if *mi.MemTotal > 0 {
				metric.MemUsedPct = float64(metric.MemUsedKB) / float64(*mi.MemTotal) * 100
			}
		}
		if la, err := c.fs.LoadAvg(); err == nil {
			metric.LoadAverage = []float64{la.Load1, la.Load5, la.Load15}
		}
		if stat, err := c.fs.Stat(); err == nil {
			if c.hasPrevCPU {
				metric.CPUUsagePct = cpuUsagePct(c.prevCPU, stat.CPUTotal)
			}
			c.prevCPU = stat.CPUTotal
			c.hasPrevCPU = true
		}
	}

	c.mu.Lock()
	if len(c.system) >= maxSystemMetrics {
		c.system = c.system[1:]
	}
	c.system = append(c.system, metric)
	c.mu.Unlock()
}

// GenerateReport summarizes every endpoint from a sorted copy of its buffer.
// p99 falls back to the max below 100 samples; the resolution isn't there.
func (c *Collector) GenerateReport() Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	report := Report{
		GeneratedAt: time.Now(),
		System:      append([]SystemMetric(nil), c.system...),
	}

	for endpoint, samples := range c.endpoints {
		if len(samples) == 0 {
			continue
		}

		sorted := append([]float64(nil), samples...)
		sort.Float64s(sorted)

		sum := 0.0
		for _, s := range sorted {
			sum += s
		}

		er := EndpointReport{
			Endpoint: endpoint,
			Count:    len(sorted),
			MinMs:    sorted[0],
			MaxMs:    sorted[len(sorted)-1],
			AvgMs:    sum / float64(len(sorted)),
			P95Ms:    percentile(sorted, 0.95),
		}
		if len(sorted) >= 100 {
			er.P99Ms = percentile(sorted, 0.99)
		} else {
			er.P99Ms = er.MaxMs
		}
		report.Endpoints = append(report.Endpoints, er)
	}

	sort.Slice(report.Endpoints, func(i, j int) bool {
		return report.Endpoints[i].Endpoint < report.Endpoints[j].Endpoint
	})
	return report
}

// cpuUsagePct derives the busy percentage between two /proc/stat snapshots.
// Idle covers idle+iowait; a zero or negative elapsed delta yields 0.
func cpuUsagePct(prev, cur procfs.CPUStat) float64 {
	total := cpuTotal(cur) - cpuTotal(prev)
	if total <= 0 {
		return 0
	}
	idle := (cur.Idle + cur.Iowait) - (prev.Idle + prev.Iowait)
	busy := total - idle
	if busy < 0 {
		busy = 0
	}
	return busy / total * 100
}

func cpuTotal(s procfs.CPUStat) float64 {
	return s.User + s.Nice + s.System + s.Idle + s.Iowait + s.IRQ + s.SoftIRQ + s.Steal
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
