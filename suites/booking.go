package suites

import (
	"github.com/stretchr/testify/require"

	"github.com/networkteam/staycheck/driver"
	"github.com/networkteam/staycheck/pages"
	"github.com/networkteam/staycheck/scenario"
)

// openBooking navigates and brings a booking page to the guest form.
func openBooking(c *scenario.Case, d driver.Driver, roomIndex int) *pages.BookingPage {
	bp := pages.NewBookingPage(c, d)
	bp.Navigate()
	bp.StartBooking(roomIndex)
	bp.SelectFirstAvailableDate()
	bp.ConfirmDates()
	return bp
}

// BookingFlow covers the reservation workflow with valid and invalid guests.
func BookingFlow() scenario.Suite {
	return scenario.Suite{
		Name: "booking-flow",
		Scenarios: []scenario.Scenario{
			{
				Name: "positive-booking",
				Run: func(c *scenario.Case, d driver.Driver) {
					bp := pages.NewBookingPage(c, d)
					bp.Navigate()

					c.Step("Start booking process", func() {
						bp.StartBooking(1)
						bp.SelectFirstAvailableDate()
						bp.ConfirmDates()
					})
					c.Step("Fill booking form", func() {
						bp.FillBookingForm(ValidGuest())
						outcome := bp.SubmitBooking()
						require.Equal(c, pages.StateSuccess, outcome, "booking was not confirmed")
					})
					c.Step("Return home", func() {
						bp.ReturnHome()
					})
				},
			},
			{
				Name: "form-round-trip",
				Run: func(c *scenario.Case, d driver.Driver) {
					bp := openBooking(c, d, 0)
					guest := ValidGuest()
					bp.FillBookingForm(guest)

					e := c.Expect()
					for name, want := range map[string]string{
						"Firstname": guest.FirstName,
						"Lastname":  guest.LastName,
						"Email":     guest.Email,
						"Phone":     guest.Phone,
					} {
						e.Element(d.Find(driver.Role(driver.RoleTextbox, name))).ToHaveValue(want)
					}
					if got := bp.FormValues(); got != guest {
						c.Errorf("form values %+v, want %+v", got, guest)
					}
				},
			},
			{
				Name: "invalid-email",
				Run: func(c *scenario.Case, d driver.Driver) {
					bp := openBooking(c, d, 1)
					bp.FillBookingForm(InvalidEmailGuest())
					outcome := bp.SubmitBooking()

					require.Equal(c, pages.StateValidationError, outcome)
					c.Expect().Element(bp.ErrorAlert()).ToContainText(InvalidEmailErrors()[0])
				},
			},
			{
				Name: "multiple-field-errors",
				Run: func(c *scenario.Case, d driver.Driver) {
					bp := openBooking(c, d, 0)
					bp.FillBookingForm(InvalidFieldsGuest())
					outcome := bp.SubmitBooking()

					require.Equal(c, pages.StateValidationError, outcome)
					e := c.Expect()
					for _, msg := range MultipleFieldErrors() {
						e.Element(bp.ErrorAlert()).ToContainText(msg)
					}
				},
			},
		},
	}
}
