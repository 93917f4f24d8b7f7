// Command replay summarizes a saved routing session trace.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"pcb-router/internal/logger"
)

func main() {
	tracePath := flag.String("trace", "", "Path to a saved session trace")
	verbose := flag.Bool("v", false, "Print every event")
	flag.Parse()

	if *tracePath == "" {
		fmt.Println("Usage: replay -trace <path> [-v]")
		os.Exit(1)
	}

	f, err := os.Open(*tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open trace: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	records, err := logger.ReadEvents(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read trace: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("%-6s %-12s %10s %10s  %s\n", "#", "Event", "X", "Y", "Item")
		for i, r := range records {
			fmt.Printf("%-6d %-12s %10d %10d  %s\n", i, r.Type, r.Pos.X, r.Pos.Y, r.Parent)
		}
		fmt.Println()
	}

	counts := logger.Summary(records)
	types := lo.Keys(counts)
	slices.Sort(types)
	fmt.Printf("Events by type:\n")
	for _, t := range types {
		fmt.Printf("  %-12s %d\n", t, counts[t])
	}

	items := lo.Uniq(lo.Map(records, func(r logger.Record, _ int) uuid.UUID { return r.Parent }))
	fmt.Printf("\nTotal: %d events touching %d board items\n", len(records), len(items))
}
