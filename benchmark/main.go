// Package main provides a performance benchmarking tool for the repometrics CLI.
// It measures run times for growing fleets of local repositories, running each
// fleet multiple times, treating the first successful cached run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - repometrics binary installed and available in PATH
// - Working copies with a package.json cloned under the base directory
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory whose subdirectories are the repositories to evaluate
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	FleetSize   int
	Workers     int
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase    string
	Timeout     time.Duration
	Workers     []int
	NoCacheRuns int
	CacheRuns   int
	FleetSizes  []int
	Repos       []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	repoBase := os.Args[1]

	config := BenchmarkConfig{
		RepoBase:    repoBase,
		Timeout:     5 * time.Minute,
		Workers:     []int{1, 8},
		NoCacheRuns: 3,
		CacheRuns:   4,
		FleetSizes:  []int{1, 4, 16},
	}

	repos, err := discoverRepos(repoBase)
	if err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}
	config.Repos = repos

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// discoverRepos lists subdirectories of base that carry a package.json.
func discoverRepos(base string) ([]string, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, err
	}
	var repos []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(base, e.Name())
		if _, err := os.Stat(filepath.Join(dir, "package.json")); err == nil {
			repos = append(repos, dir)
		}
	}
	sort.Strings(repos)
	return repos, nil
}

// checkPrerequisites verifies that the repometrics binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("repometrics"); err != nil {
		return fmt.Errorf("repometrics binary not found in PATH")
	}
	if len(config.Repos) == 0 {
		return fmt.Errorf("no repositories with a package.json found under %s", config.RepoBase)
	}
	return nil
}

// runBenchmarks executes all benchmark runs across fleet sizes and worker counts
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, workers %v, no-cache: %d runs, cache: %d runs\n",
		len(config.Repos), config.Timeout, config.Workers, config.NoCacheRuns, config.CacheRuns)

	for _, size := range config.FleetSizes {
		if size > len(config.Repos) {
			size = len(config.Repos)
		}
		for _, workers := range config.Workers {
			results = append(results, runBenchmarkSuite(config, config.Repos[:size], workers))
		}
		if size == len(config.Repos) {
			break
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for one fleet
func runBenchmarkSuite(config BenchmarkConfig, repos []string, workers int) BenchmarkResult {
	fmt.Printf("Running fleet of %d with %d workers\n", len(repos), workers)

	workDir, err := os.MkdirTemp("", "repometrics-bench-*")
	if err != nil {
		fmt.Printf("  failed to create work dir: %v\n", err)
		return BenchmarkResult{FleetSize: len(repos), Workers: workers, NoCacheTime: "ERROR", ColdTime: "ERROR", WarmTime: "ERROR"}
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	configPath := filepath.Join(workDir, ".repometrics.yaml")
	if err := writeFleetConfig(configPath, repos); err != nil {
		fmt.Printf("  failed to write config: %v\n", err)
		return BenchmarkResult{FleetSize: len(repos), Workers: workers, NoCacheTime: "ERROR", ColdTime: "ERROR", WarmTime: "ERROR"}
	}

	runPhase := func(args []string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, workDir, args, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	base := []string{"run", "--config", configPath, "--workers", fmt.Sprint(workers)}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase(append(base, "--report-backend", "none"), config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs against a fresh SQLite store
	dbPath := filepath.Join(workDir, "reports.db")
	coldTime, warmAvg := runPhase(append(base, "--report-backend", "sqlite", "--report-db-connect", dbPath), config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		FleetSize:   len(repos),
		Workers:     workers,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// writeFleetConfig writes a config listing every repository as a local working copy.
func writeFleetConfig(path string, repos []string) error {
	var b strings.Builder
	b.WriteString("repositories:\n")
	for _, repo := range repos {
		fmt.Fprintf(&b, "  - label: %s\n    local: true\n    path: %s\n", filepath.Base(repo), repo)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// runBenchmark executes a repometrics command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, dir string, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("repometrics", args...)
		cmd.Dir = dir

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates a finished run
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "run finished")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/repometrics_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"fleet_size", "workers", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{fmt.Sprint(result.FleetSize), fmt.Sprint(result.Workers), result.NoCacheTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  fleet %-4d workers %-3d: No-cache: %s, Cold: %s, Warm: %s\n",
			result.FleetSize, result.Workers, result.NoCacheTime, result.ColdTime, result.WarmTime)
	}
}
