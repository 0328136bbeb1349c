// Command simulate fires concurrent booking requests at a running api-server
// to exercise the double-booking guard: many workers race for the same slot
// and exactly one request is expected to win it.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type simConfig struct {
	apiBaseURL string
	tenantID   string
	serviceID  string
	startTime  string
	workers    int
}

type raceMetrics struct {
	total     int64
	created   int64
	conflicts int64
	errors    int64

	mu        sync.Mutex
	latencies []time.Duration
}

func (m *raceMetrics) record(latency time.Duration, status int) {
	atomic.AddInt64(&m.total, 1)
	switch {
	case status == http.StatusCreated:
		atomic.AddInt64(&m.created, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&m.conflicts, 1)
	default:
		atomic.AddInt64(&m.errors, 1)
	}

	m.mu.Lock()
	m.latencies = append(m.latencies, latency)
	m.mu.Unlock()
}

func (m *raceMetrics) percentile(p int) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.latencies) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := simConfig{}
	flag.StringVar(&cfg.apiBaseURL, "api", envOr("API_BASE_URL", "http://localhost:8080"), "api-server base URL")
	flag.StringVar(&cfg.tenantID, "tenant", os.Getenv("SIM_TENANT_ID"), "tenant UUID")
	flag.StringVar(&cfg.serviceID, "service", os.Getenv("SIM_SERVICE_ID"), "service UUID")
	flag.StringVar(&cfg.startTime, "start", os.Getenv("SIM_START_TIME"), "slot start time, RFC 3339")
	flag.IntVar(&cfg.workers, "workers", 50, "concurrent booking attempts")
	flag.Parse()

	if cfg.tenantID == "" || cfg.serviceID == "" || cfg.startTime == "" {
		log.Fatal("tenant, service and start are required (flags or SIM_* env)")
	}

	log.Printf("racing %d workers for slot %s", cfg.workers, cfg.startTime)

	metrics := &raceMetrics{}
	client := &http.Client{Timeout: 10 * time.Second}

	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < cfg.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			attemptBooking(client, cfg, metrics)
		}()
	}

	close(start)
	wg.Wait()

	fmt.Println("--- race results ---")
	fmt.Printf("attempts:  %d\n", atomic.LoadInt64(&metrics.total))
	fmt.Printf("created:   %d\n", atomic.LoadInt64(&metrics.created))
	fmt.Printf("conflicts: %d\n", atomic.LoadInt64(&metrics.conflicts))
	fmt.Printf("errors:    %d\n", atomic.LoadInt64(&metrics.errors))
	fmt.Printf("p50=%s p95=%s\n", metrics.percentile(50), metrics.percentile(95))

	if created := atomic.LoadInt64(&metrics.created); created != 1 {
		log.Fatalf("DOUBLE BOOKING GUARD FAILED: expected exactly 1 created booking, got %d", created)
	}
	log.Println("exactly one booking won the slot")
}

func attemptBooking(client *http.Client, cfg simConfig, metrics *raceMetrics) {
	payload := map[string]any{
		"service_id":  cfg.serviceID,
		"customer_id": uuid.NewString(),
		"start_time":  cfg.startTime,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("marshal payload: %v", err)
		return
	}

	url := fmt.Sprintf("%s/tenants/%s/bookings", cfg.apiBaseURL, cfg.tenantID)

	began := time.Now()
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	latency := time.Since(began)

	if err != nil {
		log.Printf("request error: %v", err)
		metrics.record(latency, 0)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	metrics.record(latency, resp.StatusCode)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
