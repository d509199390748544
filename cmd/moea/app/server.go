/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package app implements the optimizer command.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/mihai-snyk/moea/cmd/moea/app/options"
	"github.com/mihai-snyk/moea/pkg/api/v1alpha1"
	"github.com/mihai-snyk/moea/pkg/multiobjective/algorithms"
	"github.com/mihai-snyk/moea/pkg/multiobjective/benchmarks"
	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
	"github.com/mihai-snyk/moea/pkg/multiobjective/metrics"
	"github.com/mihai-snyk/moea/pkg/multiobjective/util"
)

// NewOptimizerCommand creates a *cobra.Command object with default parameters
func NewOptimizerCommand(out io.Writer) *cobra.Command {
	o := options.NewOptimizerOptions()
	cmd := &cobra.Command{
		Use:   "moea",
		Short: "moea runs NSGA-II on a multi-objective problem",
		Long: `moea evolves a population with NSGA-II and prints the non-dominated
solutions it found. Benchmark problems report their distance to the
true Pareto front; the Placement problem reports bin assignments.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return Run(ctx, o, out)
		},
	}
	cmd.SetOut(out)

	fs := cmd.Flags()
	o.AddFlags(fs)
	klogFlags := goFlagSet()
	fs.AddGoFlagSet(klogFlags)

	cmd.AddCommand(newSuiteCommand(out))
	return cmd
}

// Run executes a single optimization described by o and writes the result
// to out. An interrupted run still prints the best front found so far.
func Run(ctx context.Context, o *options.OptimizerOptions, out io.Writer) error {
	logger := klog.LoggerWithValues(klog.FromContext(ctx), "runID", uuid.NewString())
	ctx = klog.NewContext(ctx, logger)

	args, err := o.OptimizerArgs()
	if err != nil {
		return err
	}
	problem, err := options.NewBenchmark(args)
	if err != nil {
		return err
	}
	config := options.NSGA2Config(args)

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	opts := []algorithms.Option{
		algorithms.WithObservers(algorithms.LoggingObserver(config.MaxGenerations), recorder.ForProblem(problem.Name())),
	}
	if s := args.Stagnation; s != nil {
		opts = append(opts, algorithms.WithTerminator(algorithms.StagnationTerminator(s.Patience, s.Tolerance)))
	}
	if seeder, ok := problem.(benchmarks.Seeder); ok {
		opts = append(opts, algorithms.WithSeeds(seeder.SeedGenomes()...))
	}
	if o.OTLPEndpoint != "" {
		tp, err := NewTracerProvider(ctx, o.OTLPEndpoint, o.OTLPInsecure)
		if err != nil {
			return err
		}
		defer func() {
			// The run context may already be cancelled; flush on a fresh one.
			if err := tp.Shutdown(context.WithoutCancel(ctx)); err != nil {
				logger.Error(err, "Failed to shut down tracer provider")
			}
		}()
		opts = append(opts, algorithms.WithTracerProvider(tp))
	}

	nsga2, err := algorithms.NewNSGAII(config, problem, problem.NewVariator(config.CrossoverProbability, config.MutationProbability), opts...)
	if err != nil {
		return err
	}

	result, runErr := nsga2.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Info("Printing partial result", "generations", result.Generations, "err", runErr)
	}

	front := algorithms.GetParetoFront(result.Population)
	if err := writeResult(out, problem, args, result, front); err != nil {
		return err
	}
	if placement, ok := problem.(*benchmarks.Placement); ok {
		logger.V(2).Info("Placement evaluations", "rememberedAssignments", placement.Evaluated())
	}
	if o.OutputDir != "" && problem.ObjectiveCount() == 2 {
		if err := os.MkdirAll(o.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		plotFile := filepath.Join(o.OutputDir, fmt.Sprintf("%s_%s_results.html", problem.Name(), nsga2.Name()))
		if err := util.PlotResults(front, problem, nsga2.Name(), plotFile); err != nil {
			return fmt.Errorf("plotting results: %w", err)
		}
		fmt.Fprintf(out, "plot written to %s\n", plotFile)
	}
	if o.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(o.MetricsFile, registry); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func writeResult(out io.Writer, problem benchmarks.Benchmark, args *v1alpha1.OptimizerArgs, result *algorithms.Result, front []framework.ObjectiveSpacePoint) error {
	fmt.Fprintf(out, "problem: %s\nseed: %d\ngenerations: %d\nelapsed: %s\nfront size: %d\n",
		problem.Name(), result.Seed, result.Generations, result.Elapsed.Round(time.Millisecond), len(front))

	if trueFront := problem.TrueParetoFront(500); trueFront != nil {
		fmt.Fprintf(out, "IGD: %.6f\n", benchmarks.IGD(front, trueFront))
	}

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	header := make([]string, problem.ObjectiveCount())
	for i := range header {
		header[i] = fmt.Sprintf("f%d", i+1)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, point := range front {
		cols := make([]string, len(point))
		for i, v := range point {
			cols[i] = fmt.Sprintf("%.6g", v)
		}
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	placement, ok := problem.(*benchmarks.Placement)
	if !ok {
		return nil
	}
	best, score := algorithms.BestByWeightedSum(result.ParetoFront, args.Weights)
	if best == nil || math.IsNaN(score) {
		return nil
	}
	fmt.Fprintf(out, "best assignment (score %.4f, feasible %t):\n", score, placement.Feasible(best.Decoded))
	assignment := placement.Describe(best.Decoded)
	cpu, mem := placement.Usage(best.Decoded)
	for i, bin := range placement.Bins() {
		name := bin.Name
		if name == "" {
			name = fmt.Sprintf("bin-%d", i)
		}
		items := "-"
		if len(assignment[name]) > 0 {
			items = strings.Join(assignment[name], ", ")
		}
		fmt.Fprintf(out, "  %s (cpu %.2f/%.2f, memory %s/%s): %s\n", name,
			cpu[i]/1000, bin.CPUCapacity/1000,
			humanize.IBytes(uint64(mem[i])), humanize.IBytes(uint64(bin.MemCapacity)),
			items)
	}
	return nil
}
