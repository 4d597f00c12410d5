// Package main lists and compares simulation runs recorded in a SQLite store.
//
// Usage:
//
//	go run ./cmd/runs -db runs.db             # list runs
//	go run ./cmd/runs -db runs.db -run <id>   # catch by kind and window summary
//	go run ./cmd/runs -db runs.db -run <id> -csv > windows.csv
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/seine/telemetry"
)

func main() {
	dbPath := flag.String("db", "", "SQLite file written by the simulation's -db flag")
	runID := flag.String("run", "", "Run id to report on (empty = list runs)")
	asCSV := flag.Bool("csv", false, "Write the run's window statistics as CSV to stdout")
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db is required")
	}

	store, err := telemetry.OpenStore(*dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	switch {
	case *runID == "":
		err = listRuns(store)
	case *asCSV:
		err = exportWindows(store, *runID)
	default:
		err = reportRun(store, *runID)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func listRuns(store *telemetry.Store) error {
	runs, err := store.Runs()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSEED\tYEAR\tDAYS\tSTARTED\tFINISHED")
	for _, r := range runs {
		finished := "running"
		if r.FinishedAt.Valid {
			finished = r.FinishedAt.String
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n", r.ID, r.Seed, r.Year, r.Days, r.StartedAt, finished)
	}
	return tw.Flush()
}

func reportRun(store *telemetry.Store, runID string) error {
	catch, err := store.CatchByKind(runID)
	if err != nil {
		return fmt.Errorf("catch by kind: %w", err)
	}
	windows, err := store.Windows(runID)
	if err != nil {
		return fmt.Errorf("windows: %w", err)
	}

	kinds := make([]string, 0, len(catch))
	var total float64
	for k, t := range catch {
		kinds = append(kinds, k)
		total += t
	}
	sort.Strings(kinds)

	fmt.Printf("Run %s\n\n", runID)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tCATCH_T\tSHARE")
	for _, k := range kinds {
		share := 0.0
		if total > 0 {
			share = catch[k] / total
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f%%\n", k, catch[k], share*100)
	}
	fmt.Fprintf(tw, "total\t%.1f\t\n", total)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(windows) == 0 {
		return nil
	}
	var sets, trips int
	var revenue float64
	for _, w := range windows {
		sets += w.FadSets + w.OpportunisticSets + w.FreeSchoolSets + w.DolphinSets
		trips += w.TripsEnded
		revenue += w.LandedRevenue
	}
	last := windows[len(windows)-1]
	fmt.Printf("\n%d windows through day %d: %d sets, %d trips, revenue %.0f\n",
		len(windows), last.WindowEndDay, sets, trips, revenue)
	fmt.Printf("final: %d active / %d inactive FADs, hold fill %.2f\n",
		last.ActiveFads, last.InactiveFads, last.HoldFillMean)
	return nil
}

func exportWindows(store *telemetry.Store, runID string) error {
	windows, err := store.Windows(runID)
	if err != nil {
		return fmt.Errorf("windows: %w", err)
	}
	return gocsv.Marshal(windows, os.Stdout)
}
