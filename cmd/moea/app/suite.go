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

package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/mihai-snyk/moea/pkg/multiobjective/algorithms"
	"github.com/mihai-snyk/moea/pkg/multiobjective/benchmarks"
)

// goFlagSet exposes the klog flags (-v, --logtostderr, ...) to cobra.
func goFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	return fs
}

type suiteOptions struct {
	populationSize int
	generations    int
	seed           uint64
	workers        int
	outputDir      string
}

func newSuiteCommand(out io.Writer) *cobra.Command {
	o := &suiteOptions{
		populationSize: 100,
		generations:    250,
	}
	cmd := &cobra.Command{
		Use:   "suite",
		Short: "Run NSGA-II on the standard ZDT and DTLZ benchmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(cmd.Context(), o, out)
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&o.populationSize, "population-size", o.populationSize, "Population size, an even number of at least 4.")
	fs.IntVar(&o.generations, "generations", o.generations, "Generations per benchmark.")
	fs.Uint64Var(&o.seed, "seed", o.seed, "Seed shared by every benchmark. Zero picks one from the clock.")
	fs.IntVar(&o.workers, "workers", o.workers, "Goroutines evaluating candidates. Zero evaluates sequentially.")
	fs.StringVar(&o.outputDir, "output-dir", o.outputDir, "Directory for HTML plots of two-objective fronts.")
	return cmd
}

func runSuite(ctx context.Context, o *suiteOptions, out io.Writer) error {
	config := algorithms.NSGA2Config{
		PopulationSize:       o.populationSize,
		MaxGenerations:       o.generations,
		CrossoverProbability: 0.9,
		// each benchmark variator turns a zero rate into 1/n
		MutationProbability: 0,
		Seed:                o.seed,
		ParallelExecution:   o.workers > 1,
		Workers:             o.workers,
	}
	ts := benchmarks.NewTestSuite(config, algorithms.WithObservers(algorithms.LoggingObserver(config.MaxGenerations)))
	ts.AddStandardProblems()

	results, err := ts.Run(ctx, o.outputDir)
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "PROBLEM\tGENERATIONS\tFRONT\tIGD\tPLOT")
	for _, r := range results {
		igd := "-"
		if !math.IsNaN(r.IGD) {
			igd = fmt.Sprintf("%.6f", r.IGD)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", r.Problem, r.Generations, len(r.ParetoFront), igd, r.PlotFile)
	}
	if flushErr := w.Flush(); flushErr != nil && err == nil {
		err = flushErr
	}
	return err
}
