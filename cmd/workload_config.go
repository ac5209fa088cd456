package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erqsim/erqsim/sim"
	"github.com/erqsim/erqsim/sim/workload"
)

// buildWorkload assembles the effective workload. Without a workload file
// every flag applies; with one, only the flags the user set override it.
func buildWorkload(o runOptions, changed func(string) bool) (*workload.WorkloadSpec, error) {
	spec := &workload.WorkloadSpec{Version: workload.CurrentVersion}
	if o.workloadPath != "" {
		loaded, err := workload.LoadWorkloadSpec(o.workloadPath)
		if err != nil {
			return nil, err
		}
		spec = loaded
	} else {
		changed = func(string) bool { return true }
	}

	if changed("seed") {
		spec.Seed = o.seed
	}
	if changed("horizon") {
		spec.Horizon = o.horizon
	}
	if changed("servers") {
		spec.Servers = o.servers
	}
	if changed("arrival-mean") {
		spec.Arrival.Mean = o.arrivalMean
	}
	if changed("service-mean") {
		spec.Service.Mean = o.serviceMean
	}
	if changed("arrival-dist") {
		spec.Arrival.Distribution = o.arrivalDist
	}
	if changed("service-dist") {
		spec.Service.Distribution = o.serviceDist
	}
	if changed("max-arrivals") {
		spec.Arrival.MaxArrivals = o.maxArrivals
	}
	if changed("trace") {
		spec.Trace = o.trace
	}
	if changed("classes") {
		classes, err := parseClasses(o.classes)
		if err != nil {
			return nil, err
		}
		spec.Classes = classes
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload: %w", err)
	}
	return spec, nil
}

// parseClasses turns name=weight entries into priority classes. The first
// entry gets priority 0 (served first), the next 1, and so on.
func parseClasses(entries []string) ([]sim.PriorityClass, error) {
	var classes []sim.PriorityClass
	for i, entry := range entries {
		name, raw, ok := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("class %q: expected name=weight", entry)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("class %q: weight: %w", entry, err)
		}
		classes = append(classes, sim.PriorityClass{Name: name, Priority: i, Weight: weight})
	}
	return classes, nil
}
