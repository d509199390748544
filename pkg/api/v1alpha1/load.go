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
	"os"

	"sigs.k8s.io/yaml"
)

// LoadOptimizerArgs reads a YAML or JSON file, applies defaults and
// validates the result.
func LoadOptimizerArgs(path string) (*OptimizerArgs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading optimizer config: %w", err)
	}
	args, err := DecodeOptimizerArgs(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return args, nil
}

// DecodeOptimizerArgs parses data strictly, so unknown fields are rejected,
// then defaults and validates it.
func DecodeOptimizerArgs(data []byte) (*OptimizerArgs, error) {
	args := &OptimizerArgs{}
	if err := yaml.UnmarshalStrict(data, args); err != nil {
		return nil, fmt.Errorf("decoding optimizer config: %w", err)
	}
	if args.APIVersion != "" && args.APIVersion != GroupVersion {
		return nil, fmt.Errorf("unsupported apiVersion %q, want %q", args.APIVersion, GroupVersion)
	}
	if args.Kind != "" && args.Kind != Kind {
		return nil, fmt.Errorf("unsupported kind %q, want %q", args.Kind, Kind)
	}

	SetDefaults_OptimizerArgs(args)
	if err := ValidateOptimizerArgs(args); err != nil {
		return nil, fmt.Errorf("invalid optimizer config: %w", err)
	}
	return args, nil
}
