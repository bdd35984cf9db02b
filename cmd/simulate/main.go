// Command simulate runs simulation batches from the command line and
// prints summary statistics, without the HTTP server or database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/mdelaney-dev/broadside/internal/board"
	"github.com/mdelaney-dev/broadside/internal/generic"
	"github.com/mdelaney-dev/broadside/internal/sim"
	"github.com/mdelaney-dev/broadside/internal/stats"
	"github.com/mdelaney-dev/broadside/internal/targeting"
)

func main() {
	logger := log.New(os.Stderr, "[SIMULATE] ", log.LstdFlags)

	algos := flag.String("algorithms", "random_search", "comma-separated algorithm ids; two or more run as a comparison")
	games := flag.Int("games", 100, "games per batch")
	size := flag.Int("size", 10, "board size")
	seed := flag.Uint64("seed", 0, "batch seed, 0 picks one at random")
	fleet := flag.String("fleet", "classic", "fleet configuration: classic or modern")
	algoDir := flag.String("algo-dir", "", "directory of JSON algorithm documents to load")
	list := flag.Bool("list", false, "list available algorithms and exit")
	flag.Parse()

	registry := targeting.NewRegistry()
	if err := generic.RegisterBuiltins(registry); err != nil {
		logger.Fatalf("builtin_documents_failed error=%v", err)
	}
	if *algoDir != "" {
		if err := generic.RegisterDir(registry, *algoDir); err != nil {
			logger.Fatalf("document_directory_failed dir=%s error=%v", *algoDir, err)
		}
	}

	if *list {
		for _, info := range registry.List() {
			fmt.Printf("%-24s %s\n", info.ID, info.Name)
		}
		return
	}

	var cfg board.Config
	switch *fleet {
	case "classic":
		cfg = board.ClassicConfig()
	case "modern":
		cfg = board.ModernConfig()
	default:
		logger.Fatalf("unknown_fleet fleet=%s", *fleet)
	}

	batchSeed := *seed
	if batchSeed == 0 {
		batchSeed = rand.Uint64()
	}

	req := sim.BatchRequest{
		NumGames:  *games,
		BoardSize: *size,
		Seed:      batchSeed,
		Placement: &board.Placer{
			Mode:   board.PlacementRandom,
			Size:   *size,
			Config: cfg,
		},
	}

	runner := sim.NewRunner(registry)
	ids := strings.Split(*algos, ",")
	for i := range ids {
		ids[i] = strings.TrimSpace(ids[i])
	}

	start := time.Now()
	if len(ids) == 1 {
		req.Algorithm = ids[0]
		result, err := runner.Run(context.Background(), req)
		if err != nil {
			logger.Fatalf("batch_failed algorithm=%s error=%v", ids[0], err)
		}
		printResult(result)
	} else {
		results, err := runner.Compare(context.Background(), req, ids)
		if err != nil {
			logger.Fatalf("comparison_failed error=%v", err)
		}
		groups := make([][]int, len(results))
		for i, result := range results {
			printResult(result)
			groups[i] = result.ShotsPerGame
		}
		anova := stats.OneWayANOVA(groups...)
		fmt.Printf("\nANOVA: F=%.4f p=%.6f significant=%t\n", anova.F, anova.P, anova.Significant)
	}
	logger.Printf("done seed=%d duration=%v", batchSeed, time.Since(start))
}

func printResult(result *sim.BatchResult) {
	summary := stats.Analyze(result.ShotsPerGame)
	fmt.Printf("\n%s (%d games, seed %d)\n", result.Algorithm, result.NumGames, result.Seed)
	fmt.Printf("  mean=%.2f median=%.1f stddev=%.2f min=%d max=%d\n",
		summary.Mean, summary.Median, summary.StdDev, summary.Min, summary.Max)
	if len(result.Failures) > 0 {
		fmt.Printf("  failures=%d (first: game %d, %s)\n",
			len(result.Failures), result.Failures[0].Game, result.Failures[0].Reason)
	}
}
