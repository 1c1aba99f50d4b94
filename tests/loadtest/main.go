package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	maxPoolSize  = 10
)

// Fallback pool when the archive is empty. High-activity accounts, so
// every persona has enough records to aggregate.
var seedUsers = []string{
	"spez", "AutoModerator", "kn0thing", "GovSchwarzenegger", "washingtonpost",
	"Shitty_Watercolour", "PoppinKREAM", "Here_Comes_The_King", "iamthatis", "woodpaneled",
}

var formats = []string{"text", "text", "json"}

var users []string

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== RPD Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s per phase\n\n", numWorkers, testDuration)

	fmt.Print("Waiting for server... ")
	if !waitForServer() {
		fmt.Println("FAILED: server not responding")
		return
	}
	fmt.Println("OK")

	users = discoverUsers()
	fmt.Printf("User pool: %d users (%s, ...)\n", len(users), users[0])

	// Phase 1: warm every persona so later phases measure the cached path.
	// The first request per user walks the Reddit API, the rest hit the store.
	fmt.Println("\n--- Phase 1: Warming personas (GET /persona) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doGetPersona(rng)
	})

	// Phase 2: Mixed load with forced refreshes thrown in
	fmt.Println("\n--- Phase 2: Mixed load (80% persona, 12% users, 8% refresh) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.80:
			return doGetPersona(rng)
		case r < 0.92:
			return timedGet("GET /users", baseURL+"/users")
		default:
			return doRefresh(rng)
		}
	})

	// Phase 3: Read-only load
	fmt.Println("\n--- Phase 3: Read-only load (70% persona, 15% users, 15% health) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.70:
			return doGetPersona(rng)
		case r < 0.85:
			return timedGet("GET /users", baseURL+"/users")
		default:
			return timedGet("GET /health", baseURL+"/health")
		}
	})
}

func waitForServer() bool {
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return true
		}
		time.Sleep(200 * time.Millisecond)
	}
	return false
}

// discoverUsers pulls the archived user list so the test replays real
// traffic. Falls back to seedUsers on a fresh archive.
func discoverUsers() []string {
	resp, err := httpClient.Get(baseURL + "/users")
	if err != nil {
		return seedUsers
	}
	defer resp.Body.Close()

	var archived []string
	if err := json.NewDecoder(resp.Body).Decode(&archived); err != nil || len(archived) == 0 {
		return seedUsers
	}
	if len(archived) > maxPoolSize {
		archived = archived[:maxPoolSize]
	}
	return archived
}

func runPhase(duration time.Duration, op func(rng *rand.Rand) result) {
	var wg sync.WaitGroup
	stop := make(chan struct{})
	perWorker := make([][]result, numWorkers)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(idx)))
			for {
				select {
				case <-stop:
					return
				default:
					perWorker[idx] = append(perWorker[idx], op(rng))
				}
			}
		}(i)
	}

	time.Sleep(duration)
	close(stop)
	wg.Wait()

	byEndpoint := make(map[string]*stats)
	for _, results := range perWorker {
		for _, r := range results {
			s, ok := byEndpoint[r.endpoint]
			if !ok {
				s = &stats{}
				byEndpoint[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
	}

	printResults(byEndpoint, duration)
}

func printResults(byEndpoint map[string]*stats, duration time.Duration) {
	endpoints := make([]string, 0, len(byEndpoint))
	for ep := range byEndpoint {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-16s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 82))

	var totalOps, totalErrors int64
	for _, ep := range endpoints {
		s := byEndpoint[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-16s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)), fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)), fmtDur(percentile(s.latencies, 0.99)))
	}

	fmt.Println("  " + strings.Repeat("-", 82))
	rps := float64(totalOps) / duration.Seconds()
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doGetPersona(rng *rand.Rand) result {
	u := users[rng.Intn(len(users))]
	format := formats[rng.Intn(len(formats))]
	return timedGet("GET /persona", fmt.Sprintf("%s/persona?u=%s&format=%s", baseURL, u, format))
}

func doRefresh(rng *rand.Rand) result {
	u := users[rng.Intn(len(users))]
	data, _ := json.Marshal(map[string]string{"u": u})
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/refresh", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /refresh", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /refresh", resp.StatusCode, lat, resp.StatusCode != 200}
}

func timedGet(endpoint, url string) result {
	start := time.Now()
	resp, err := httpClient.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != 200}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
