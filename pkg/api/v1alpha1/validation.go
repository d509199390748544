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
	"fmt"
	"slices"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// ValidateOptimizerArgs validates defaulted optimizer arguments and returns
// an aggregate of every problem found, or nil.
func ValidateOptimizerArgs(args *OptimizerArgs) error {
	var allErrs field.ErrorList

	if !slices.Contains(SupportedProblems, args.Problem) {
		allErrs = append(allErrs, field.NotSupported(field.NewPath("problem"), args.Problem, SupportedProblems))
	}

	allErrs = append(allErrs, validateShape(args)...)
	allErrs = append(allErrs, validateEncoding(args)...)

	if args.PopulationSize < 4 || args.PopulationSize%2 != 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("populationSize"), args.PopulationSize, "must be an even number of at least 4"))
	}
	if args.Generations < 1 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("generations"), args.Generations, "must be at least 1"))
	}
	allErrs = append(allErrs, validateProbability(field.NewPath("crossoverProbability"), args.CrossoverProbability)...)
	allErrs = append(allErrs, validateProbability(field.NewPath("mutationProbability"), args.MutationProbability)...)
	if args.TournamentSize < 2 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("tournamentSize"), args.TournamentSize, "must be at least 2"))
	}
	if args.Workers < 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("workers"), args.Workers, "must not be negative"))
	}

	allErrs = append(allErrs, validateWeights(field.NewPath("weights"), args.Weights, args.NumObjectives)...)

	if s := args.Stagnation; s != nil {
		stagnationPath := field.NewPath("stagnation")
		if s.Patience < 1 {
			allErrs = append(allErrs, field.Invalid(stagnationPath.Child("patience"), s.Patience, "must be at least 1"))
		}
		if s.Tolerance < 0 {
			allErrs = append(allErrs, field.Invalid(stagnationPath.Child("tolerance"), s.Tolerance, "must not be negative"))
		}
	}

	placementPath := field.NewPath("placement")
	switch {
	case args.Problem == ProblemPlacement && args.Placement == nil:
		allErrs = append(allErrs, field.Required(placementPath, "required for the Placement problem"))
	case args.Problem != ProblemPlacement && args.Placement != nil:
		allErrs = append(allErrs, field.Forbidden(placementPath, "only valid for the Placement problem"))
	case args.Placement != nil:
		allErrs = append(allErrs, validatePlacement(placementPath, args.Placement)...)
	}

	return allErrs.ToAggregate()
}

func validateShape(args *OptimizerArgs) field.ErrorList {
	var allErrs field.ErrorList
	objectivesPath := field.NewPath("numObjectives")
	variablesPath := field.NewPath("numVariables")

	switch args.Problem {
	case ProblemSCH, ProblemZDT1, ProblemZDT2, ProblemZDT3:
		if args.NumObjectives != 2 {
			allErrs = append(allErrs, field.Invalid(objectivesPath, args.NumObjectives, fmt.Sprintf("%s has exactly 2 objectives", args.Problem)))
		}
		minVars := 2
		if args.Problem == ProblemSCH {
			minVars = 1
		}
		if args.NumVariables < minVars {
			allErrs = append(allErrs, field.Invalid(variablesPath, args.NumVariables, fmt.Sprintf("must be at least %d", minVars)))
		}
	case ProblemDTLZ1, ProblemDTLZ2:
		if args.NumObjectives < 2 {
			allErrs = append(allErrs, field.Invalid(objectivesPath, args.NumObjectives, "must be at least 2"))
		}
		if args.NumVariables < args.NumObjectives {
			allErrs = append(allErrs, field.Invalid(variablesPath, args.NumVariables, "must not be lower than numObjectives"))
		}
	case ProblemPlacement:
		if args.NumObjectives != 3 {
			allErrs = append(allErrs, field.Invalid(objectivesPath, args.NumObjectives, "Placement has exactly 3 objectives"))
		}
		if args.Placement != nil && args.NumVariables != len(args.Placement.Items) {
			allErrs = append(allErrs, field.Invalid(variablesPath, args.NumVariables, "must match the number of items"))
		}
	}
	return allErrs
}

func validateEncoding(args *OptimizerArgs) field.ErrorList {
	var allErrs field.ErrorList
	encodingPath := field.NewPath("encoding")
	bitsPath := field.NewPath("bitsPerVariable")

	switch args.Encoding {
	case EncodingReal:
		if args.BitsPerVariable != 0 {
			allErrs = append(allErrs, field.Forbidden(bitsPath, "only valid for the binary encoding"))
		}
	case EncodingBinary:
		if args.Problem == ProblemPlacement {
			allErrs = append(allErrs, field.Forbidden(encodingPath, "Placement assignments are integer encoded"))
		}
		// decoded values are exact up to the float64 mantissa
		if args.BitsPerVariable < 1 || args.BitsPerVariable > 52 {
			allErrs = append(allErrs, field.Invalid(bitsPath, args.BitsPerVariable, "must be between 1 and 52"))
		}
	default:
		allErrs = append(allErrs, field.NotSupported(encodingPath, args.Encoding, SupportedEncodings))
	}
	return allErrs
}

func validateProbability(path *field.Path, p *float64) field.ErrorList {
	if p == nil {
		return field.ErrorList{field.Required(path, "")}
	}
	if *p < 0 || *p > 1 {
		return field.ErrorList{field.Invalid(path, *p, "must be between 0 and 1")}
	}
	return nil
}

func validateWeights(path *field.Path, weights []float64, numObjectives int) field.ErrorList {
	if weights == nil {
		return nil
	}
	var allErrs field.ErrorList
	if len(weights) != numObjectives {
		allErrs = append(allErrs, field.Invalid(path, weights, fmt.Sprintf("must have one weight per objective (%d)", numObjectives)))
	}
	sum := 0.0
	for i, w := range weights {
		if w < 0 || w > 1 {
			allErrs = append(allErrs, field.Invalid(path.Index(i), w, "must be between 0 and 1"))
		}
		sum += w
	}
	// Weights should sum to 1 (with some tolerance for floating point)
	if sum < 0.99 || sum > 1.01 {
		allErrs = append(allErrs, field.Invalid(path, weights, fmt.Sprintf("should sum to 1.0, got %v", sum)))
	}
	return allErrs
}

func validatePlacement(path *field.Path, p *PlacementArgs) field.ErrorList {
	var allErrs field.ErrorList
	if len(p.Items) == 0 {
		allErrs = append(allErrs, field.Required(path.Child("items"), "at least one item is needed"))
	}
	if len(p.Bins) == 0 {
		allErrs = append(allErrs, field.Required(path.Child("bins"), "at least one bin is needed"))
	}
	if !slices.Contains(SupportedCrossovers, p.Crossover) {
		allErrs = append(allErrs, field.NotSupported(path.Child("crossover"), p.Crossover, SupportedCrossovers))
	}
	switch {
	case p.Crossover == CrossoverKPoint && p.CrossoverPoints < 1:
		allErrs = append(allErrs, field.Invalid(path.Child("crossoverPoints"), p.CrossoverPoints, "must be at least 1"))
	case p.Crossover != CrossoverKPoint && p.CrossoverPoints != 0:
		allErrs = append(allErrs, field.Forbidden(path.Child("crossoverPoints"), "only valid for the kPoint crossover"))
	}

	for i, item := range p.Items {
		itemPath := path.Child("items").Index(i)
		if item.CPU.Sign() < 0 {
			allErrs = append(allErrs, field.Invalid(itemPath.Child("cpu"), item.CPU.String(), "must not be negative"))
		}
		if item.Memory.Sign() < 0 {
			allErrs = append(allErrs, field.Invalid(itemPath.Child("memory"), item.Memory.String(), "must not be negative"))
		}
		if item.Origin != nil && (*item.Origin < 0 || *item.Origin >= len(p.Bins)) {
			allErrs = append(allErrs, field.Invalid(itemPath.Child("origin"), *item.Origin, "must be the index of a bin"))
		}
		if item.Pinned && item.Origin == nil {
			allErrs = append(allErrs, field.Required(itemPath.Child("origin"), "pinned items need an origin"))
		}
	}

	for i, bin := range p.Bins {
		binPath := path.Child("bins").Index(i)
		if bin.CPU.Sign() <= 0 {
			allErrs = append(allErrs, field.Invalid(binPath.Child("cpu"), bin.CPU.String(), "must be positive"))
		}
		if bin.Memory.Sign() <= 0 {
			allErrs = append(allErrs, field.Invalid(binPath.Child("memory"), bin.Memory.String(), "must be positive"))
		}
		if bin.CostPerHour < 0 {
			allErrs = append(allErrs, field.Invalid(binPath.Child("costPerHour"), bin.CostPerHour, "must not be negative"))
		}
	}
	return allErrs
}
