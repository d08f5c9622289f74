package pages

import (
	"time"

	"github.com/stretchr/testify/require"

	"github.com/networkteam/staycheck/driver"
	"github.com/networkteam/staycheck/expect"
)

// DatePicker drives the check-in/check-out pickers of the booking section.
type DatePicker struct {
	Driver driver.Driver
	t      expect.TB
}

func NewDatePicker(t expect.TB, d driver.Driver) *DatePicker {
	return &DatePicker{Driver: d, t: t}
}

func (dp *DatePicker) CheckIn() driver.Element {
	return dp.Driver.Find(driver.Role(driver.RoleTextbox, "")).First()
}

func (dp *DatePicker) CheckOut() driver.Element {
	return dp.Driver.Find(driver.Role(driver.RoleTextbox, "")).Nth(1)
}

// OptionLabel is the accessible name of the picker day for date, e.g.
// "Choose Thursday, 19 February".
func OptionLabel(date time.Time) string {
	return "Choose " + date.Format("Monday, 2 January")
}

// Option returns the picker day for date.
func (dp *DatePicker) Option(date time.Time) driver.Element {
	return dp.Driver.Find(driver.Role(driver.RoleOption, OptionLabel(date)))
}

// Pick opens the picker of input and chooses date.
func (dp *DatePicker) Pick(input driver.Element, date time.Time) {
	dp.t.Helper()

	ctx := dp.t.Context()
	err := input.Click(ctx)
	require.NoError(dp.t, err, "failed to open date picker")
	err = dp.Option(date).Click(ctx)
	require.NoError(dp.t, err, "failed to choose %s", OptionLabel(date))
}

// SelectRange picks check-in and check-out dates.
func (dp *DatePicker) SelectRange(checkIn, checkOut time.Time) {
	dp.t.Helper()

	dp.Pick(dp.CheckIn(), checkIn)
	dp.Pick(dp.CheckOut(), checkOut)
}

func (dp *DatePicker) CheckAvailability() {
	dp.t.Helper()

	err := dp.Driver.Find(driver.Role(driver.RoleButton, "Check Availability")).Click(dp.t.Context())
	require.NoError(dp.t, err, "failed to click Check Availability")
}
