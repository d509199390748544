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

package v1alpha1

import (
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"
)

// SetDefaults_OptimizerArgs fills every unset field of args.
func SetDefaults_OptimizerArgs(args *OptimizerArgs) {
	klog.V(5).InfoS("Setting defaults", "problem", args.Problem)

	if args.APIVersion == "" {
		args.APIVersion = GroupVersion
	}
	if args.Kind == "" {
		args.Kind = Kind
	}

	if args.NumObjectives == 0 {
		switch args.Problem {
		case ProblemPlacement:
			args.NumObjectives = 3
		default:
			args.NumObjectives = 2
		}
	}
	if args.NumVariables == 0 {
		args.NumVariables = defaultNumVariables(args)
	}
	if args.Encoding == "" {
		args.Encoding = EncodingReal
	}
	if args.Encoding == EncodingBinary && args.BitsPerVariable == 0 {
		args.BitsPerVariable = 16
	}
	if args.PopulationSize == 0 {
		args.PopulationSize = 100
	}
	if args.Generations == 0 {
		args.Generations = 250
	}
	if args.CrossoverProbability == nil {
		args.CrossoverProbability = ptr.To(0.9)
	}
	if args.MutationProbability == nil && args.NumVariables > 0 {
		genes := args.NumVariables
		if args.Encoding == EncodingBinary {
			genes *= args.BitsPerVariable
		}
		args.MutationProbability = ptr.To(1.0 / float64(genes))
	}
	if args.TournamentSize == 0 {
		args.TournamentSize = 2
	}
	if p := args.Placement; p != nil {
		if p.Crossover == "" {
			p.Crossover = CrossoverGroupAware
		}
		if p.Crossover == CrossoverKPoint && p.CrossoverPoints == 0 {
			p.CrossoverPoints = 3
		}
	}
	if args.Stagnation != nil && args.Stagnation.Patience == 0 {
		args.Stagnation.Patience = 20
	}
}

func defaultNumVariables(args *OptimizerArgs) int {
	switch args.Problem {
	case ProblemSCH:
		return 1
	case ProblemZDT1, ProblemZDT2, ProblemZDT3:
		return 30
	case ProblemDTLZ1:
		// M + k - 1 with k = 5
		return args.NumObjectives + 4
	case ProblemDTLZ2:
		// M + k - 1 with k = 10
		return args.NumObjectives + 9
	case ProblemPlacement:
		if args.Placement != nil {
			return len(args.Placement.Items)
		}
	}
	return 0
}
