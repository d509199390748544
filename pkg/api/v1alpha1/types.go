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

// Package v1alpha1 contains the versioned configuration of an optimizer run.
package v1alpha1

import (
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	GroupVersion = "moea/v1alpha1"
	Kind         = "OptimizerArgs"
)

// Problem names accepted in OptimizerArgs.Problem.
const (
	ProblemSCH       = "SCH"
	ProblemZDT1      = "ZDT1"
	ProblemZDT2      = "ZDT2"
	ProblemZDT3      = "ZDT3"
	ProblemDTLZ1     = "DTLZ1"
	ProblemDTLZ2     = "DTLZ2"
	ProblemPlacement = "Placement"
)

// SupportedProblems lists every accepted problem name.
var SupportedProblems = []string{
	ProblemSCH, ProblemZDT1, ProblemZDT2, ProblemZDT3, ProblemDTLZ1, ProblemDTLZ2, ProblemPlacement,
}

// Encodings accepted in OptimizerArgs.Encoding.
const (
	EncodingReal   = "real"
	EncodingBinary = "binary"
)

// SupportedEncodings lists every accepted genome encoding.
var SupportedEncodings = []string{EncodingReal, EncodingBinary}

// Crossover operators accepted in PlacementArgs.Crossover.
const (
	CrossoverGroupAware = "groupAware"
	CrossoverUniform    = "uniform"
	CrossoverOnePoint   = "onePoint"
	CrossoverTwoPoint   = "twoPoint"
	CrossoverKPoint     = "kPoint"
)

// SupportedCrossovers lists every accepted placement crossover.
var SupportedCrossovers = []string{
	CrossoverGroupAware, CrossoverUniform, CrossoverOnePoint, CrossoverTwoPoint, CrossoverKPoint,
}

// OptimizerArgs holds arguments used to configure an NSGA-II run
type OptimizerArgs struct {
	metav1.TypeMeta `json:",inline"`

	// Problem is the benchmark to optimize
	Problem string `json:"problem"`
	// NumVariables defaults per problem
	NumVariables int `json:"numVariables,omitempty"`
	// NumObjectives is only configurable for the DTLZ problems
	NumObjectives int `json:"numObjectives,omitempty"`
	// Encoding of the genomes of real-valued problems, "real" or "binary"
	Encoding string `json:"encoding,omitempty"`
	// BitsPerVariable is the width of one variable in binary genomes
	BitsPerVariable int `json:"bitsPerVariable,omitempty"`

	PopulationSize int `json:"populationSize,omitempty"`
	Generations    int `json:"generations,omitempty"`
	// CrossoverProbability defaults to 0.9
	CrossoverProbability *float64 `json:"crossoverProbability,omitempty"`
	// MutationProbability defaults to 1/NumVariables
	MutationProbability *float64 `json:"mutationProbability,omitempty"`
	TournamentSize      int      `json:"tournamentSize,omitempty"`

	// Seed of the run; zero picks one from the clock
	Seed uint64 `json:"seed,omitempty"`
	// Workers evaluating candidates in parallel; zero evaluates sequentially
	Workers int `json:"workers,omitempty"`

	// Weights rank candidates in progress reports; they must sum to 1
	Weights []float64 `json:"weights,omitempty"`

	// Stagnation ends the run early when progress stalls
	Stagnation *StagnationArgs `json:"stagnation,omitempty"`

	// Placement describes the instance for the Placement problem
	Placement *PlacementArgs `json:"placement,omitempty"`
}

// StagnationArgs configures early termination.
type StagnationArgs struct {
	// Patience is the number of generations without improvement tolerated
	Patience int `json:"patience"`
	// Tolerance is the minimum improvement of the best weighted score
	Tolerance float64 `json:"tolerance,omitempty"`
}

// PlacementArgs lists the items to place and the bins available.
type PlacementArgs struct {
	Items []ItemArgs `json:"items"`
	Bins  []BinArgs  `json:"bins"`
	// Crossover recombining two assignments, groupAware by default
	Crossover string `json:"crossover,omitempty"`
	// CrossoverPoints is the number of cut points of the kPoint crossover
	CrossoverPoints int `json:"crossoverPoints,omitempty"`
}

// ItemArgs describes one item, e.g. a pod, by its resource requests
type ItemArgs struct {
	Name   string            `json:"name"`
	CPU    resource.Quantity `json:"cpu"`
	Memory resource.Quantity `json:"memory"`
	// Origin is the index of the bin currently holding the item
	Origin *int `json:"origin,omitempty"`
	// Pinned items cannot leave their origin
	Pinned bool `json:"pinned,omitempty"`
}

// BinArgs describes one bin, e.g. a node
type BinArgs struct {
	Name        string            `json:"name"`
	CPU         resource.Quantity `json:"cpu"`
	Memory      resource.Quantity `json:"memory"`
	CostPerHour float64           `json:"costPerHour"`
}
