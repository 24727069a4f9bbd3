package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"sprintlens/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "steady", "Scenario to generate: steady, late, chaos")
	distribution := flag.String("distribution", "uniform", "Distribution to use: uniform, weibull")
	outDir := flag.String("out", engine.DefaultOutDir(), "Snapshot directory to write into (defaults to the sprintlens cache under DATA_PATH)")
	sprint := flag.String("sprint", "mock", "Catalog sprint name the snapshot is stored under")
	start := flag.String("start", "", "First sprint day (YYYY-MM-DD), defaults to a week ago")
	days := flag.Int("days", 10, "Sprint length in calendar days")
	count := flag.Int("count", 40, "Number of work items to generate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Count:        *count,
		Days:         *days,
		Seed:         *seed,
	}
	if *start != "" {
		t, err := time.Parse("2006-01-02", *start)
		if err != nil {
			fmt.Printf("Invalid start date: %v\n", err)
			os.Exit(1)
		}
		cfg.Start = t
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Count: %d) as sprint '%s' in %s...\n", cfg.Scenario, cfg.Distribution, cfg.Count, *sprint, *outDir)

	items := engine.Generate(cfg)
	if err := engine.Save(*outDir, *sprint, items); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
