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

package util_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mihai-snyk/moea/pkg/multiobjective/benchmarks"
	"github.com/mihai-snyk/moea/pkg/multiobjective/framework"
	"github.com/mihai-snyk/moea/pkg/multiobjective/util"
)

func TestRenderResults(t *testing.T) {
	problem := benchmarks.NewZDT1(3)
	results := []framework.ObjectiveSpacePoint{{0, 1}, {0.25, 0.5}, {1, 0}}

	var buf bytes.Buffer
	if err := util.RenderResults(&buf, results, problem, "NSGA-II"); err != nil {
		t.Fatalf("RenderResults() error = %v", err)
	}
	html := buf.String()
	for _, want := range []string{"NSGA-II Results for ZDT1 Benchmark", "True Pareto Front", "NSGA-II Solutions"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered plot does not contain %q", want)
		}
	}
}

func TestRenderResultsRejects(t *testing.T) {
	tests := []struct {
		name    string
		problem framework.Problem
		results []framework.ObjectiveSpacePoint
	}{
		{name: "empty", problem: benchmarks.NewZDT1(3)},
		{name: "three objectives", problem: benchmarks.NewDTLZ2(12, 3), results: []framework.ObjectiveSpacePoint{{1, 0, 0}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := util.RenderResults(&buf, tc.results, tc.problem, "NSGA-II"); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestPlotResultsWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sch.html")
	results := []framework.ObjectiveSpacePoint{{0, 4}, {1, 1}, {4, 0}}
	if err := util.PlotResults(results, benchmarks.NewSCH(1), "NSGA-II", out); err != nil {
		t.Fatalf("PlotResults() error = %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("plot file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Errorf("plot file is empty")
	}
}
