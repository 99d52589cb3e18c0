// Command gfpop-diagnose fits diagnostics for a previously persisted run
// and prints a human-readable model-comparison report.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gfpop-go/gfpop/internal/log"
	"github.com/gfpop-go/gfpop/internal/storage"
	"github.com/gfpop-go/gfpop/pkg/config"
	"github.com/gfpop-go/gfpop/pkg/gfpop"
)

func main() {
	var (
		cfgFile  = flag.String("config", "gfpopd.yaml", "Path to the YAML configuration file")
		runID    = flag.String("run", "", "Run ID to fetch diagnostics for (mutually exclusive with -csv)")
		csvPath  = flag.String("csv", "", "CSV file of raw values to segment and diagnose directly")
		dumpFlag = flag.Bool("dump", false, "Print the full segmentation alongside the summary")
		baseline = flag.Bool("baseline", false, "Cross-check against an unconstrained kernel-cost baseline segmentation")
	)
	flag.Parse()

	if err := log.Init(false); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	var data gfpop.Data
	var res gfpop.Result
	start := time.Now()

	switch {
	case *csvPath != "":
		var err error
		data, err = readCSV(*csvPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading CSV: %v\n", err)
			os.Exit(1)
		}
		res = segmentWithDefaults(data)
	case *runID != "":
		provider := config.NewYAMLProvider(*cfgFile)
		storeCfg, err := provider.GetStorageConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading storage config: %v\n", err)
			os.Exit(1)
		}
		store, err := openStore(storeCfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening result store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		res, err = store.GetRun(*runID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error fetching run %s: %v\n", *runID, err)
			os.Exit(1)
		}
		data = syntheticDataFromResult(res)
	default:
		fmt.Fprintln(os.Stderr, "one of -run or -csv is required")
		os.Exit(1)
	}

	diag := gfpop.Evaluate(data, res)
	elapsed := time.Since(start)

	fmt.Printf("segments:     %d\n", res.NSegments())
	fmt.Printf("observations: %s\n", humanize.Comma(int64(res.N)))
	fmt.Printf("global cost:  %.4f\n", res.GlobalCost)
	fmt.Printf("R-squared:    %.4f\n", diag.RSquared)
	fmt.Printf("AIC:          %.4f\n", diag.AIC)
	fmt.Printf("BIC:          %.4f\n", diag.BIC)
	fmt.Printf("elapsed:      %s\n", humanize.RelTime(start, start.Add(elapsed), "", ""))

	if *dumpFlag {
		for i, cp := range res.Changepoints {
			fmt.Printf("  segment %d: ends at %d, mean %.4f, state %d, forced=%v\n",
				i, cp, res.Parameters[i], res.States[i], res.Forced[i])
		}
	}

	if *baseline {
		bkps := gfpop.Baseline(data, diag.AIC/float64(res.N), 2, 1)
		fmt.Printf("baseline changepoints (unconstrained, kernel cost): %v\n", bkps)
		fmt.Printf("graph-constrained changepoints:                     %v\n", res.Changepoints)
	}
}

func openStore(cfg *config.StorageData) (*storage.Client, error) {
	logger := log.GetSugaredLogger()
	switch {
	case cfg.Postgres != nil:
		return storage.NewPostgresClient(cfg.Postgres.ConnectionString, logger)
	case cfg.SQLite != nil:
		return storage.NewSQLiteClient(cfg.SQLite.Path, logger)
	default:
		return storage.NewSQLiteClient("gfpopd.db", logger)
	}
}

func readCSV(path string) (gfpop.Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return gfpop.NewData(values), nil
}

func segmentWithDefaults(data gfpop.Data) gfpop.Result {
	graph := gfpop.Graph{
		NStates: 1,
		Edges:   []gfpop.Edge{{From: 0, To: 0, Kind: gfpop.KindStd, Penalty: 2 * mean(data), Decay: 1}},
	}
	engine, err := gfpop.New(graph, gfpop.UnconstrainedBound(), gfpop.L2Params())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error building engine: %v\n", err)
		os.Exit(1)
	}
	res, err := engine.Run(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running engine: %v\n", err)
		os.Exit(1)
	}
	return res
}

func mean(data gfpop.Data) float64 {
	if len(data) == 0 {
		return 1
	}
	var sum float64
	for _, pt := range data {
		sum += pt.Y
	}
	return sum / float64(len(data))
}

// syntheticDataFromResult rebuilds a Data sequence of the right length and
// per-segment mean from a persisted Result, since diagnostics need an
// observation sequence but the store only keeps the segmentation summary.
// Residuals computed against these placeholder values are necessarily zero
// within each segment, so Evaluate reports AIC and BIC as 0 in this path
// and R-squared takes its degenerate value.
func syntheticDataFromResult(res gfpop.Result) gfpop.Data {
	values := make([]float64, res.N)
	start := 0
	for i, end := range res.Changepoints {
		for j := start; j < end; j++ {
			values[j] = res.Parameters[i]
		}
		start = end
	}
	return gfpop.NewData(values)
}
