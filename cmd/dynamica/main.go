// Command dynamica runs the circuit analysis engine, either as a one-shot
// CLI over a circuit file or as the asynchronous HTTP job API.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/M4rulli/Dynamica/internal/jobs"
	"github.com/M4rulli/Dynamica/internal/server"
	"github.com/M4rulli/Dynamica/pkg/algebra"
	"github.com/M4rulli/Dynamica/pkg/analysis"
	"github.com/M4rulli/Dynamica/pkg/graph"
	"github.com/M4rulli/Dynamica/pkg/mesh"
	"github.com/M4rulli/Dynamica/pkg/util"
)

func main() {
	root := &cobra.Command{
		Use:           "dynamica",
		Short:         "Mesh analysis for geometrically-specified circuits",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnalyzeCmd(), newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("ANALYSIS_DEBUG")) {
	case "1", "true", "yes", "on":
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP job-submission API",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			engine := server.New(jobs.NewStore(), log)
			log.Info("listening", "addr", addr)
			return engine.Run(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <circuit.json>",
		Short: "Run mesh analysis over a circuit file and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var req analysis.Request
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}
			if req.Kind == "" {
				req.Kind = analysis.Mesh
			}
			if err := graph.ValidateIntegrity(req.Circuit.Components); err != nil {
				return err
			}
			res, err := analysis.Run(req)
			if err != nil {
				return err
			}
			printResult(res)
			return nil
		},
	}
}

func printResult(r *mesh.Result) {
	fmt.Println("Mesh Analysis Report")
	fmt.Println("====================")
	fmt.Printf("Nodes (%d): %s\n", len(r.Nodes), strings.Join(r.Nodes, ", "))

	labels := func(idx []int) string {
		out := make([]string, len(idx))
		for i, e := range idx {
			out[i] = r.Edges[e].Label
		}
		return strings.Join(out, ", ")
	}
	fmt.Printf("Tree:   %s\n", labels(r.Forest.Tree))
	fmt.Printf("Cotree: %s\n", labels(r.Forest.Cotree))

	fmt.Println("\nEquations:")
	for _, eq := range r.EquationStrings() {
		fmt.Println("  " + eq)
	}

	fmt.Println("\nSolution:")
	for _, u := range r.Unknowns {
		v, ok := r.Solution[u]
		if !ok {
			continue
		}
		line := string(u) + " = " + v.String()
		if x, err := algebra.Eval(v, nil); err == nil {
			unit := "A"
			if strings.HasPrefix(string(u), "V_") {
				unit = "V"
			}
			line += "  (" + util.FormatValueFactor(x, unit) + ")"
		}
		fmt.Println("  " + line)
	}

	fmt.Println("\nBranch currents:")
	for _, b := range r.Branches {
		line := fmt.Sprintf("  I(%s) = %s", b.Label, b.Value)
		if x, err := algebra.Eval(b.Value, nil); err == nil {
			line += "  (" + util.FormatValueFactor(x, "A") + ")"
		}
		fmt.Println(line)
	}

	fmt.Println("\nPower balance:")
	if r.Power.NumericSigns {
		fmt.Printf("  entering = %s, exiting = %s\n",
			util.FormatValueFactor(r.Power.Entering, "W"),
			util.FormatValueFactor(r.Power.Exiting, "W"))
	}
	fmt.Printf("  total = %s, balanced = %v\n", r.Power.Total, r.Power.Balanced)
	if r.Power.UnknownCount > 0 {
		fmt.Printf("  warning: %d branch powers unknown\n", r.Power.UnknownCount)
	}

	d := r.Diagnostics
	fmt.Printf("\nLoops: %d, constraints: %d, supermeshes: %d\n",
		d.FundamentalLoops, d.Constraints, d.Supermeshes)
}
