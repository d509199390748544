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

// Package options provides the flags used by the optimizer command and turns
// them, together with an optional config file, into a runnable configuration.
package options

import (
	"fmt"

	"github.com/spf13/pflag"
	"k8s.io/utils/ptr"

	"github.com/mihai-snyk/moea/pkg/api/v1alpha1"
	"github.com/mihai-snyk/moea/pkg/multiobjective/algorithms"
	"github.com/mihai-snyk/moea/pkg/multiobjective/benchmarks"
	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
)

// OptimizerOptions holds everything the command line can set.
type OptimizerOptions struct {
	// ConfigFile is an OptimizerArgs YAML file. Flags override its values.
	ConfigFile string

	Problem              string
	NumVariables         int
	NumObjectives        int
	Encoding             string
	BitsPerVariable      int
	PopulationSize       int
	Generations          int
	CrossoverProbability float64
	MutationProbability  float64
	Seed                 uint64
	Workers              int

	// OutputDir receives plots of two-objective fronts. Empty disables plots.
	OutputDir string
	// MetricsFile receives the run metrics in the Prometheus text format.
	MetricsFile string
	// OTLPEndpoint of a trace collector. Empty disables tracing.
	OTLPEndpoint string
	OTLPInsecure bool

	flags *pflag.FlagSet
}

// NewOptimizerOptions returns options with the flag defaults.
func NewOptimizerOptions() *OptimizerOptions {
	return &OptimizerOptions{
		Problem: v1alpha1.ProblemZDT1,
	}
}

// AddFlags adds flags for a specific optimizer run to the specified FlagSet
func (o *OptimizerOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "Path to an OptimizerArgs file. Flags override values from the file.")
	fs.StringVar(&o.Problem, "problem", o.Problem, fmt.Sprintf("Problem to optimize, one of %v.", v1alpha1.SupportedProblems))
	fs.IntVar(&o.NumVariables, "variables", o.NumVariables, "Number of decision variables. Zero uses the problem default.")
	fs.IntVar(&o.NumObjectives, "objectives", o.NumObjectives, "Number of objectives of the DTLZ problems.")
	fs.StringVar(&o.Encoding, "encoding", o.Encoding, fmt.Sprintf("Genome encoding of the real-valued problems, one of %v.", v1alpha1.SupportedEncodings))
	fs.IntVar(&o.BitsPerVariable, "bits-per-variable", o.BitsPerVariable, "Bits per variable of binary genomes. Zero uses 16.")
	fs.IntVar(&o.PopulationSize, "population-size", o.PopulationSize, "Population size, an even number of at least 4.")
	fs.IntVar(&o.Generations, "generations", o.Generations, "Maximum number of generations.")
	fs.Float64Var(&o.CrossoverProbability, "crossover-probability", o.CrossoverProbability, "Probability of recombining two parents.")
	fs.Float64Var(&o.MutationProbability, "mutation-probability", o.MutationProbability, "Per-gene mutation probability.")
	fs.Uint64Var(&o.Seed, "seed", o.Seed, "Seed of the run. Zero picks one from the clock.")
	fs.IntVar(&o.Workers, "workers", o.Workers, "Goroutines evaluating candidates. Zero evaluates sequentially.")
	fs.StringVar(&o.OutputDir, "output-dir", o.OutputDir, "Directory for HTML plots of two-objective fronts.")
	fs.StringVar(&o.MetricsFile, "metrics-file", o.MetricsFile, "Write run metrics to this file in the Prometheus text format.")
	fs.StringVar(&o.OTLPEndpoint, "otlp-endpoint", o.OTLPEndpoint, "OTLP gRPC endpoint receiving generation spans.")
	fs.BoolVar(&o.OTLPInsecure, "otlp-insecure", o.OTLPInsecure, "Connect to the OTLP endpoint without TLS.")
	o.flags = fs
}

func (o *OptimizerOptions) changed(name string) bool {
	return o.flags != nil && o.flags.Changed(name)
}

// OptimizerArgs loads the config file, if any, lets explicitly set flags
// override it, then defaults and validates the result.
func (o *OptimizerOptions) OptimizerArgs() (*v1alpha1.OptimizerArgs, error) {
	args := &v1alpha1.OptimizerArgs{}
	if o.ConfigFile != "" {
		loaded, err := v1alpha1.LoadOptimizerArgs(o.ConfigFile)
		if err != nil {
			return nil, err
		}
		args = loaded
	}

	if args.Problem == "" || o.changed("problem") {
		args.Problem = o.Problem
	}
	if o.changed("variables") {
		args.NumVariables = o.NumVariables
	}
	if o.changed("objectives") {
		args.NumObjectives = o.NumObjectives
	}
	if o.changed("encoding") {
		args.Encoding = o.Encoding
	}
	if o.changed("bits-per-variable") {
		args.BitsPerVariable = o.BitsPerVariable
	}
	if o.changed("population-size") {
		args.PopulationSize = o.PopulationSize
	}
	if o.changed("generations") {
		args.Generations = o.Generations
	}
	if o.changed("crossover-probability") {
		args.CrossoverProbability = ptr.To(o.CrossoverProbability)
	}
	if o.changed("mutation-probability") {
		args.MutationProbability = ptr.To(o.MutationProbability)
	}
	if o.changed("seed") {
		args.Seed = o.Seed
	}
	if o.changed("workers") {
		args.Workers = o.Workers
	}

	v1alpha1.SetDefaults_OptimizerArgs(args)
	if err := v1alpha1.ValidateOptimizerArgs(args); err != nil {
		return nil, err
	}
	return args, nil
}

// NSGA2Config converts validated args into the algorithm configuration.
func NSGA2Config(args *v1alpha1.OptimizerArgs) algorithms.NSGA2Config {
	return algorithms.NSGA2Config{
		PopulationSize:       args.PopulationSize,
		MaxGenerations:       args.Generations,
		NumObjectives:        args.NumObjectives,
		CrossoverProbability: ptr.Deref(args.CrossoverProbability, 0.9),
		MutationProbability:  ptr.Deref(args.MutationProbability, 0),
		TournamentSize:       args.TournamentSize,
		Seed:                 args.Seed,
		ParallelExecution:    args.Workers > 1,
		Workers:              args.Workers,
		Weights:              args.Weights,
	}
}

// NewBenchmark builds the problem named in validated args, in the requested
// encoding.
func NewBenchmark(args *v1alpha1.OptimizerArgs) (benchmarks.Benchmark, error) {
	problem, err := newBenchmark(args)
	if err != nil {
		return nil, err
	}
	if args.Encoding != v1alpha1.EncodingBinary {
		return problem, nil
	}
	bounded, ok := problem.(benchmarks.BoundedBenchmark)
	if !ok {
		return nil, fmt.Errorf("problem %s has no binary encoding", args.Problem)
	}
	return benchmarks.NewBinaryEncoded(bounded, args.BitsPerVariable), nil
}

func newBenchmark(args *v1alpha1.OptimizerArgs) (benchmarks.Benchmark, error) {
	switch args.Problem {
	case v1alpha1.ProblemSCH:
		return benchmarks.NewSCH(args.NumVariables), nil
	case v1alpha1.ProblemZDT1:
		return benchmarks.NewZDT1(args.NumVariables), nil
	case v1alpha1.ProblemZDT2:
		return benchmarks.NewZDT2(args.NumVariables), nil
	case v1alpha1.ProblemZDT3:
		return benchmarks.NewZDT3(args.NumVariables), nil
	case v1alpha1.ProblemDTLZ1:
		return benchmarks.NewDTLZ1(args.NumVariables, args.NumObjectives), nil
	case v1alpha1.ProblemDTLZ2:
		return benchmarks.NewDTLZ2(args.NumVariables, args.NumObjectives), nil
	case v1alpha1.ProblemPlacement:
		if args.Placement == nil {
			return nil, fmt.Errorf("problem %s needs a placement section", args.Problem)
		}
		items, bins := PlacementInstance(args.Placement)
		crossover, err := PlacementCrossover(args.Placement)
		if err != nil {
			return nil, err
		}
		return benchmarks.NewPlacement(items, bins, benchmarks.WithCrossover(crossover)), nil
	}
	return nil, fmt.Errorf("unknown problem %q", args.Problem)
}

// PlacementInstance converts resource quantities to millicores and bytes.
func PlacementInstance(p *v1alpha1.PlacementArgs) ([]benchmarks.Item, []benchmarks.Bin) {
	items := make([]benchmarks.Item, len(p.Items))
	for i, item := range p.Items {
		items[i] = benchmarks.Item{
			Name:   item.Name,
			CPU:    float64(item.CPU.MilliValue()),
			Mem:    float64(item.Memory.Value()),
			Origin: ptr.Deref(item.Origin, -1),
			Pinned: item.Pinned,
		}
	}
	bins := make([]benchmarks.Bin, len(p.Bins))
	for i, bin := range p.Bins {
		bins[i] = benchmarks.Bin{
			Name:        bin.Name,
			CPUCapacity: float64(bin.CPU.MilliValue()),
			MemCapacity: float64(bin.Memory.Value()),
			CostPerHour: bin.CostPerHour,
		}
	}
	return items, bins
}

// PlacementCrossover resolves the crossover named in p.
func PlacementCrossover(p *v1alpha1.PlacementArgs) (framework.CrossoverFunc, error) {
	switch p.Crossover {
	case "", v1alpha1.CrossoverGroupAware:
		return framework.GroupAwareCrossover, nil
	case v1alpha1.CrossoverUniform:
		return framework.UniformCrossover, nil
	case v1alpha1.CrossoverOnePoint:
		return framework.OnePointCrossover, nil
	case v1alpha1.CrossoverTwoPoint:
		return framework.TwoPointCrossover, nil
	case v1alpha1.CrossoverKPoint:
		return framework.KPointCrossover(p.CrossoverPoints), nil
	}
	return nil, fmt.Errorf("unknown crossover %q", p.Crossover)
}
