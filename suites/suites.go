// Package suites holds the scenarios run against the Shady Meadows B&B site.
package suites

import (
	"time"

	"github.com/samber/lo"

	"github.com/networkteam/staycheck/scenario"
)

// All returns every suite in a stable order.
func All() []scenario.Suite {
	return []scenario.Suite{
		BookingFlow(),
		NavigationAndUI(),
		ContactForm(),
		Datepicker(time.Now),
		RoomBooking(),
	}
}

// Select returns the suites reduced to scenarios matching patterns, a comma
// separated list of globs over suite and "suite/scenario" names.
func Select(patterns string) ([]scenario.Suite, error) {
	return scenario.Filter(All(), patterns)
}

// Names lists "suite/scenario" for every scenario of suites.
func Names(suites []scenario.Suite) []string {
	return lo.FlatMap(suites, func(s scenario.Suite, _ int) []string {
		return lo.Map(s.Scenarios, func(sc scenario.Scenario, _ int) string {
			return scenario.FullName(s.Name, sc.Name)
		})
	})
}
