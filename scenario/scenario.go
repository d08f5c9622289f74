// Package scenario runs suites of browser scenarios. Every case gets a fresh
// driver session and its own goroutine; failures are collected per step and
// never leak into other cases.
package scenario

import (
	"path"
	"strings"

	"github.com/samber/lo"

	"github.com/networkteam/staycheck/driver"
)

// Scenario is one isolated test case.
type Scenario struct {
	Name string
	// Focus marks the scenario as exclusive within its run. Runners only
	// honor it when Options.HonorFocus is set.
	Focus bool
	// Skip, when not empty, skips the scenario with this reason.
	Skip string
	Run  func(c *Case, d driver.Driver)
}

// Suite is a named, ordered group of scenarios.
type Suite struct {
	Name      string
	Scenarios []Scenario
}

// FullName returns "suite/scenario".
func FullName(suite, scenario string) string {
	return suite + "/" + scenario
}

// Match reports whether pattern (see path.Match) selects the suite name or
// the full scenario name. An empty pattern matches everything.
func Match(pattern, suite, scenario string) (bool, error) {
	if pattern == "" {
		return true, nil
	}
	for _, name := range []string{suite, FullName(suite, scenario)} {
		ok, err := path.Match(pattern, name)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Filter returns the suites reduced to scenarios matching any of the
// comma separated glob patterns. Suites left empty are dropped.
func Filter(suites []Suite, patterns string) ([]Suite, error) {
	globs := lo.Compact(lo.Map(strings.Split(patterns, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	}))
	if len(globs) == 0 {
		return suites, nil
	}

	var filtered []Suite
	for _, suite := range suites {
		var scenarios []Scenario
		for _, sc := range suite.Scenarios {
			for _, glob := range globs {
				ok, err := Match(glob, suite.Name, sc.Name)
				if err != nil {
					return nil, err
				}
				if ok {
					scenarios = append(scenarios, sc)
					break
				}
			}
		}
		if len(scenarios) > 0 {
			filtered = append(filtered, Suite{Name: suite.Name, Scenarios: scenarios})
		}
	}
	return filtered, nil
}
