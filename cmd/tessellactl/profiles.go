package main

import (
	"fmt"

	tessapi "tessella/pkg/tessella"
)

// searchProfile is a named bundle of solver knobs. Zero-valued fields
// leave the engine defaults in place.
type searchProfile struct {
	ParentRatio    float64
	MutationFloor  int
	MutationCap    int
	StagnationBase int
	CrossoverGate  int
}

var searchProfiles = map[string]searchProfile{
	// Engine defaults.
	"default": {},

	// Lower churn: a smaller parent pool, gentler mutation, crossover
	// engaged only close to a solution. Suited to long overnight runs.
	"patient": {
		ParentRatio:   0.15,
		MutationCap:   16,
		CrossoverGate: 6,
	},

	// High churn: half the population recombines every generation with
	// crossover always on and early restarts.
	"aggressive": {
		ParentRatio:    0.5,
		MutationCap:    48,
		StagnationBase: 200,
		CrossoverGate:  1 << 16,
	},
}

// applyProfile overlays a named profile onto the request. Flags the user
// set explicitly win over the profile values.
func applyProfile(req *tessapi.SolveRequest, name string) error {
	if name == "" {
		return nil
	}
	profile, ok := searchProfiles[name]
	if !ok {
		return fmt.Errorf("unknown profile: %s", name)
	}
	if req.ParentRatio == 0 {
		req.ParentRatio = profile.ParentRatio
	}
	if req.MutationFloor == 0 {
		req.MutationFloor = profile.MutationFloor
	}
	if req.MutationCap == 0 {
		req.MutationCap = profile.MutationCap
	}
	if req.StagnationBase == 0 {
		req.StagnationBase = profile.StagnationBase
	}
	if req.CrossoverGate == 0 {
		req.CrossoverGate = profile.CrossoverGate
	}
	return nil
}
