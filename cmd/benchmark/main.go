// Benchmark tool for load-testing the VSSBridge profile API.
//
// Usage:
//   go run cmd/benchmark/main.go -file /path/to/taxids.txt -url http://localhost:8080
//
// This tool:
//  1. Reads tax ids from a text or CSV file (or generates synthetic ones)
//  2. Sends each id to POST /v1/profiles with a pool of workers
//  3. Tracks latency percentiles, throughput, and data-source mix
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ProfileRequest is the VSSBridge API request format
type ProfileRequest struct {
	TaxID string `json:"taxId"`
}

// ProfileResponse is the subset of the API response the benchmark inspects
type ProfileResponse struct {
	Result struct {
		TaxID           string  `json:"taxId"`
		DataQuality     float64 `json:"dataQualityScore"`
		RealDataPercent float64 `json:"realDataPercentage"`
		CompanyProfile  struct {
			Authentic bool `json:"authentic"`
		} `json:"companyProfile"`
	} `json:"result"`
	Screening *struct {
		Status string  `json:"status"`
		Score  float64 `json:"score"`
	} `json:"screening,omitempty"`
}

// Metrics tracks benchmark results
type Metrics struct {
	TotalProcessed int64
	TotalErrors    int64
	RealSource     int64
	Synthetic      int64
	Alerts         int64

	mu        sync.Mutex
	latencies []time.Duration
}

func (m *Metrics) recordLatency(d time.Duration) {
	m.mu.Lock()
	m.latencies = append(m.latencies, d)
	m.mu.Unlock()
}

func (m *Metrics) percentile(p float64) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.latencies) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

func main() {
	filePath := flag.String("file", "", "Path to a file with one tax id per line (txt or csv)")
	baseURL := flag.String("url", "http://localhost:8080", "VSSBridge base URL")
	generate := flag.Int("generate", 0, "Generate N synthetic tax ids instead of reading a file")
	limit := flag.Int("limit", 0, "Maximum tax ids to process (0 = all)")
	workers := flag.Int("workers", 10, "Number of concurrent workers")
	verbose := flag.Bool("verbose", false, "Print each profile result")
	flag.Parse()

	if *filePath == "" && *generate == 0 {
		fmt.Println("Usage: benchmark -file /path/to/taxids.txt [-url http://localhost:8080]")
		fmt.Println("       benchmark -generate 1000 [-url http://localhost:8080]")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║            VSSBRIDGE BENCHMARK - Profile Pipeline             ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")
	if *filePath != "" {
		fmt.Printf("\nInput File:    %s\n", *filePath)
	} else {
		fmt.Printf("\nGenerated Ids: %d\n", *generate)
	}
	fmt.Printf("Server URL:    %s\n", *baseURL)
	fmt.Printf("Workers:       %d\n", *workers)
	fmt.Printf("Limit:         %d\n", *limit)
	fmt.Println()

	if err := checkHealth(*baseURL); err != nil {
		fmt.Printf("ERROR: server not reachable at %s: %v\n", *baseURL, err)
		fmt.Println("\nMake sure the server is running:")
		fmt.Println("  go run cmd/vssbridge/main.go serve")
		os.Exit(1)
	}
	fmt.Println("✓ Server is healthy")

	var taxIDs []string
	var err error
	if *filePath != "" {
		fmt.Printf("\nReading tax ids from %s...\n", *filePath)
		taxIDs, err = readTaxIDs(*filePath, *limit)
		if err != nil {
			fmt.Printf("ERROR: failed to read input: %v\n", err)
			os.Exit(1)
		}
	} else {
		taxIDs = generateTaxIDs(*generate)
	}
	fmt.Printf("✓ Loaded %d tax ids\n", len(taxIDs))

	fmt.Printf("\nRunning benchmark with %d workers...\n", *workers)
	startTime := time.Now()
	metrics := runBenchmark(taxIDs, *baseURL, *workers, *verbose)
	duration := time.Since(startTime)

	printResults(metrics, duration)
}

func checkHealth(baseURL string) error {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// readTaxIDs accepts either a plain text file with one id per line or a
// CSV whose first column (or a column named mst/taxid/tax_id) holds the id.
func readTaxIDs(path string, limit int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var ids []string

	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		reader := csv.NewReader(file)
		reader.FieldsPerRecord = -1

		col := 0
		first, err := reader.Read()
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		headerSkipped := false
		for i, name := range first {
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "mst", "taxid", "tax_id":
				col = i
				headerSkipped = true
			}
		}
		if !headerSkipped && col < len(first) {
			ids = append(ids, strings.TrimSpace(first[col]))
		}

		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				continue // Skip malformed rows
			}
			if col >= len(record) {
				continue
			}
			if id := strings.TrimSpace(record[col]); id != "" {
				ids = append(ids, id)
			}
			if limit > 0 && len(ids) >= limit {
				break
			}
		}
		return ids, nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if id := strings.TrimSpace(line); id != "" && !strings.HasPrefix(id, "#") {
			ids = append(ids, id)
		}
		if limit > 0 && len(ids) >= limit {
			break
		}
	}
	return ids, nil
}

// generateTaxIDs produces well-formed ten digit ids with the Hanoi prefix.
func generateTaxIDs(n int) []string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("01%08d", rng.Intn(100000000))
	}
	return ids
}

func runBenchmark(taxIDs []string, baseURL string, numWorkers int, verbose bool) *Metrics {
	metrics := &Metrics{}

	work := make(chan string, 100)
	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &http.Client{Timeout: 60 * time.Second}

			for taxID := range work {
				start := time.Now()
				result, err := buildProfile(client, baseURL, taxID)
				elapsed := time.Since(start)

				metrics.recordLatency(elapsed)
				atomic.AddInt64(&metrics.TotalProcessed, 1)

				if err != nil {
					atomic.AddInt64(&metrics.TotalErrors, 1)
					if verbose {
						fmt.Printf("ERROR: %s -> %v\n", taxID, err)
					}
					continue
				}

				if result.Result.CompanyProfile.Authentic {
					atomic.AddInt64(&metrics.RealSource, 1)
				} else {
					atomic.AddInt64(&metrics.Synthetic, 1)
				}
				if result.Screening != nil && result.Screening.Status == "ALERT" {
					atomic.AddInt64(&metrics.Alerts, 1)
				}

				if verbose {
					source := "synthetic"
					if result.Result.CompanyProfile.Authentic {
						source = "real"
					}
					screening := "-"
					if result.Screening != nil {
						screening = fmt.Sprintf("%s (%.2f)", result.Screening.Status, result.Screening.Score)
					}
					fmt.Printf("✓ %-13s | Source: %-9s | Quality: %5.1f | Real data: %5.1f%% | Screening: %s | %v\n",
						taxID,
						source,
						result.Result.DataQuality,
						result.Result.RealDataPercent,
						screening,
						elapsed.Round(time.Millisecond),
					)
				}
			}
		}()
	}

	for _, id := range taxIDs {
		work <- id
	}
	close(work)

	wg.Wait()

	return metrics
}

func buildProfile(client *http.Client, baseURL, taxID string) (*ProfileResponse, error) {
	body, err := json.Marshal(ProfileRequest{TaxID: taxID})
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(baseURL+"/v1/profiles", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var result ProfileResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func printResults(m *Metrics, duration time.Duration) {
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                         RESULTS                               ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════╝")

	total := atomic.LoadInt64(&m.TotalProcessed)
	errors := atomic.LoadInt64(&m.TotalErrors)
	succeeded := total - errors

	fmt.Printf("\nDuration:      %v\n", duration.Round(time.Millisecond))
	fmt.Printf("Processed:     %d\n", total)
	fmt.Printf("Succeeded:     %d\n", succeeded)
	fmt.Printf("Errors:        %d\n", errors)
	if duration > 0 {
		fmt.Printf("Throughput:    %.1f profiles/sec\n", float64(total)/duration.Seconds())
	}

	fmt.Println("\nData sources:")
	fmt.Printf("  Real:        %d\n", atomic.LoadInt64(&m.RealSource))
	fmt.Printf("  Synthetic:   %d\n", atomic.LoadInt64(&m.Synthetic))
	fmt.Printf("  Alerts:      %d\n", atomic.LoadInt64(&m.Alerts))

	fmt.Println("\nLatency:")
	fmt.Printf("  p50:         %v\n", m.percentile(0.50).Round(time.Millisecond))
	fmt.Printf("  p90:         %v\n", m.percentile(0.90).Round(time.Millisecond))
	fmt.Printf("  p99:         %v\n", m.percentile(0.99).Round(time.Millisecond))
	fmt.Printf("  max:         %v\n", m.percentile(1.00).Round(time.Millisecond))
	fmt.Println()
}
