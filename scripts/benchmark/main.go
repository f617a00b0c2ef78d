package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/use-agent/pricecheck/models"
	"github.com/use-agent/pricecheck/scraper"
)

// CLI flags
var (
	apiURL   = flag.String("api-url", "http://localhost:3000", "pricecheck API base URL")
	runs     = flag.Int("runs", 3, "Number of runs per query for averaging")
	platform = flag.String("platform", "bing", "Platform selector sent with every search")
	output   = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// Queries covering cheap commodity items through high-priced electronics.
var testQueries = []string{
	"usb c cable",
	"wireless mouse",
	"running shoes",
	"espresso machine",
	"4k monitor",
}

type runResult struct {
	Run        int    `json:"run"`
	LatencyMs  int64  `json:"latency_ms"`
	HTTPStatus int    `json:"http_status"`
	Count      int    `json:"count"`
	Sorted     bool   `json:"sorted"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

type queryResult struct {
	Query        string      `json:"query"`
	Runs         []runResult `json:"runs"`
	AvgLatencyMs float64     `json:"avg_latency_ms,omitempty"`
	AvgCount     float64     `json:"avg_count,omitempty"`
}

type benchmarkReport struct {
	Timestamp    string        `json:"timestamp"`
	APIURL       string        `json:"api_url"`
	Platform     string        `json:"platform"`
	RunsPerQuery int           `json:"runs_per_query"`
	Results      []queryResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== pricecheck search benchmark ===")
	fmt.Printf("API URL:   %s\n", *apiURL)
	fmt.Printf("Platform:  %s\n", *platform)
	fmt.Printf("Runs:      %d\n", *runs)
	fmt.Println()

	client := &http.Client{Timeout: 60 * time.Second}
	if err := checkAPI(client, *apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:    models.Timestamp(time.Now()),
		APIURL:       *apiURL,
		Platform:     *platform,
		RunsPerQuery: *runs,
	}

	for _, q := range testQueries {
		fmt.Printf("Searching %q ...\n", q)
		qr := queryResult{Query: q}
		for i := 1; i <= *runs; i++ {
			rr := benchmarkQuery(client, q, i)
			if rr.Success {
				fmt.Printf("  Run %d/%d  OK  %dms  %d results\n", i, *runs, rr.LatencyMs, rr.Count)
			} else {
				fmt.Printf("  Run %d/%d  FAILED: %s\n", i, *runs, rr.Error)
			}
			qr.Runs = append(qr.Runs, rr)
		}
		qr.AvgLatencyMs, qr.AvgCount = averages(qr.Runs)
		report.Results = append(report.Results, qr)
	}

	printTable(report.Results)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(client *http.Client, baseURL string) error {
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func benchmarkQuery(client *http.Client, query string, run int) runResult {
	rr := runResult{Run: run}
	params := url.Values{"q": {query}, "platform": {*platform}}

	start := time.Now()
	resp, err := client.Get(*apiURL + "/api/search?" + params.Encode())
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()
	rr.HTTPStatus = resp.StatusCode

	if resp.StatusCode != http.StatusOK {
		var er models.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		rr.Error = strings.TrimSpace(er.Error + " " + er.Message)
		rr.LatencyMs = time.Since(start).Milliseconds()
		return rr
	}

	var sr models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		rr.Error = fmt.Sprintf("decode error: %v", err)
		return rr
	}
	rr.LatencyMs = time.Since(start).Milliseconds()
	rr.Success = sr.Success && sr.Count == len(sr.Results)
	rr.Count = sr.Count
	rr.Sorted = isSorted(sr.Results)
	if !rr.Success {
		rr.Error = "count does not match results"
	}
	return rr
}

func isSorted(results []models.Listing) bool {
	for i := 1; i < len(results); i++ {
		if scraper.ComparePrices(results[i-1].Price, results[i].Price) > 0 {
			return false
		}
	}
	return true
}

func averages(runs []runResult) (latency, count float64) {
	var n float64
	for _, r := range runs {
		if !r.Success {
			continue
		}
		n++
		latency += float64(r.LatencyMs)
		count += float64(r.Count)
	}
	if n == 0 {
		return 0, 0
	}
	return latency / n, count / n
}

func printTable(results []queryResult) {
	fmt.Println(strings.Repeat("─", 70))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Query\tAvg Latency\tAvg Results\tSorted\n")
	fmt.Fprintf(w, "─────\t───────────\t───────────\t──────\n")
	for _, r := range results {
		if r.AvgLatencyMs == 0 {
			fmt.Fprintf(w, "%s\tFAILED\t-\t-\n", r.Query)
			continue
		}
		sorted := "yes"
		for _, run := range r.Runs {
			if run.Success && !run.Sorted {
				sorted = "NO"
			}
		}
		fmt.Fprintf(w, "%s\t%dms\t%.1f\t%s\n", r.Query, int64(r.AvgLatencyMs), r.AvgCount, sorted)
	}
	w.Flush()
	fmt.Println(strings.Repeat("─", 70))
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
