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

package benchmarks

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"k8s.io/klog/v2"

	"github.com/mihai-snyk/moea/pkg/multiobjective/algorithms"
	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
	"github.com/mihai-snyk/moea/pkg/multiobjective/util"
)

// referenceFrontSize is the number of points sampled from true fronts.
const referenceFrontSize = 500

// Benchmark is a problem that knows which variation operators suit its
// encoding.
type Benchmark interface {
	framework.Problem
	NewVariator(crossoverRate, mutationRate float64) framework.Variator
}

// Seeder is implemented by benchmarks that can propose good initial genomes.
type Seeder interface {
	SeedGenomes() []framework.Genome
}

// SuiteResult summarizes one benchmark run.
type SuiteResult struct {
	Problem     string
	ParetoFront []framework.ObjectiveSpacePoint
	// IGD against the true front, NaN when the front is unknown.
	IGD         float64
	Generations int
	// PlotFile is empty unless a 2-D plot was written.
	PlotFile string
}

// TestSuite runs a set of benchmark problems
type TestSuite struct {
	problems []Benchmark
	config   algorithms.NSGA2Config
	options  []algorithms.Option
}

// NewTestSuite creates a new benchmark test suite. The options are passed to
// every NSGA-II instance.
func NewTestSuite(config algorithms.NSGA2Config, opts ...algorithms.Option) *TestSuite {
	return &TestSuite{
		config:  config,
		options: opts,
	}
}

// AddProblem adds a problem to the test suite
func (ts *TestSuite) AddProblem(p Benchmark) {
	ts.problems = append(ts.problems, p)
}

// AddStandardProblems adds common benchmark problems
func (ts *TestSuite) AddStandardProblems() {
	// ZDT problems with 30 variables (standard)
	ts.AddProblem(NewZDT1(30))
	ts.AddProblem(NewZDT2(30))
	ts.AddProblem(NewZDT3(30))

	// 2 objectives, 7 variables (M + k - 1, where k=5 for DTLZ1)
	ts.AddProblem(NewDTLZ1(7, 2))
	// 2 objectives, 12 variables (M + k - 1, where k=10 for DTLZ2)
	ts.AddProblem(NewDTLZ2(12, 2))

	// 3 objectives versions
	ts.AddProblem(NewDTLZ1(8, 3))
	ts.AddProblem(NewDTLZ2(13, 3))
}

// Run executes the test suite. Plots of 2-D problems are written to
// outputDir unless it is empty.
func (ts *TestSuite) Run(ctx context.Context, outputDir string) ([]SuiteResult, error) {
	logger := klog.FromContext(ctx)
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	results := make([]SuiteResult, 0, len(ts.problems))
	for _, problem := range ts.problems {
		res, err := ts.runOne(ctx, problem, outputDir)
		if err != nil {
			return results, fmt.Errorf("running %s: %w", problem.Name(), err)
		}
		logger.Info("Benchmark finished", "problem", problem.Name(),
			"objectives", problem.ObjectiveCount(), "paretoFrontSize", len(res.ParetoFront), "igd", res.IGD)
		results = append(results, res)
	}
	return results, nil
}

func (ts *TestSuite) runOne(ctx context.Context, problem Benchmark, outputDir string) (SuiteResult, error) {
	config := ts.config
	config.NumObjectives = problem.ObjectiveCount()
	if len(config.Weights) != config.NumObjectives {
		config.Weights = nil
	}

	opts := ts.options
	if seeder, ok := problem.(Seeder); ok {
		opts = append(append([]algorithms.Option(nil), opts...), algorithms.WithSeeds(seeder.SeedGenomes()...))
	}

	variator := problem.NewVariator(config.CrossoverProbability, config.MutationProbability)
	nsga2, err := algorithms.NewNSGAII(config, problem, variator, opts...)
	if err != nil {
		return SuiteResult{}, err
	}
	result, err := nsga2.Run(ctx)
	if err != nil {
		return SuiteResult{}, err
	}

	res := SuiteResult{
		Problem:     problem.Name(),
		ParetoFront: algorithms.GetParetoFront(result.Population),
		IGD:         math.NaN(),
		Generations: result.Generations,
	}
	if trueFront := problem.TrueParetoFront(referenceFrontSize); trueFront != nil {
		res.IGD = IGD(res.ParetoFront, trueFront)
	}

	if outputDir != "" && problem.ObjectiveCount() == 2 {
		plotFile := filepath.Join(outputDir, fmt.Sprintf("%s_%s_results.html", problem.Name(), nsga2.Name()))
		if err := util.PlotResults(res.ParetoFront, problem, nsga2.Name(), plotFile); err != nil {
			klog.FromContext(ctx).Error(err, "Failed to plot results", "problem", problem.Name())
		} else {
			res.PlotFile = plotFile
		}
	}
	return res, nil
}

// IGD is the Inverted Generational Distance: the mean Euclidean distance
// from every reference point to its nearest obtained point.
func IGD(obtained, reference []framework.ObjectiveSpacePoint) float64 {
	if len(reference) == 0 {
		return 0
	}
	if len(obtained) == 0 {
		return math.Inf(1)
	}
	total := 0.0
	for _, ref := range reference {
		minDist := math.Inf(1)
		for _, point := range obtained {
			minDist = math.Min(minDist, floats.Distance(ref, point, 2))
		}
		total += minDist
	}
	return total / float64(len(reference))
}
