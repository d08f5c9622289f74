package suites

import (
	"time"

	"github.com/networkteam/staycheck/driver"
	"github.com/networkteam/staycheck/pages"
	"github.com/networkteam/staycheck/scenario"
)

// Datepicker picks a stay with the date pickers and checks availability.
// now is called when a case runs.
func Datepicker(now func() time.Time) scenario.Suite {
	return scenario.Suite{
		Name: "datepicker",
		Scenarios: []scenario.Scenario{
			{
				Name: "check-availability",
				Run: func(c *scenario.Case, d driver.Driver) {
					home := pages.NewHomePage(c, d)
					home.Navigate()

					checkIn, checkOut := StayDates(now())
					dp := pages.NewDatePicker(c, d)
					dp.SelectRange(checkIn, checkOut)
					dp.CheckAvailability()

					c.Expect().Element(home.RoomCards()).ToHaveCount(len(RoomCards()))
				},
			},
		},
	}
}
