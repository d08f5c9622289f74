package suites_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/staycheck/driver"
	"github.com/networkteam/staycheck/driver/drivertest"
	"github.com/networkteam/staycheck/scenario"
	"github.com/networkteam/staycheck/suites"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		"booking-flow/positive-booking",
		"booking-flow/form-round-trip",
		"booking-flow/invalid-email",
		"booking-flow/multiple-field-errors",
		"navigation-and-ui/navigation",
		"navigation-and-ui/ui-validation",
		"contact-form/submit-contact-form",
		"contact-form/empty-after-navigate",
		"datepicker/check-availability",
		"room-booking/book-single-room",
		"room-booking/unavailable-slot",
		"room-booking/invalid-input-errors",
	}, suites.Names(suites.All()))
}

func TestSelect(t *testing.T) {
	selected, err := suites.Select("booking-flow/*-errors,room-booking")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"booking-flow/multiple-field-errors",
		"room-booking/book-single-room",
		"room-booking/unavailable-slot",
		"room-booking/invalid-input-errors",
	}, suites.Names(selected))
}

func TestOnlyUnavailableSlotIsFocused(t *testing.T) {
	var focused []string
	for _, s := range suites.All() {
		for _, sc := range s.Scenarios {
			if sc.Focus {
				focused = append(focused, scenario.FullName(s.Name, sc.Name))
			}
		}
	}
	assert.Equal(t, []string{"room-booking/unavailable-slot"}, focused)
}

func TestFixturesAreFreshCopies(t *testing.T) {
	rooms := suites.RoomCards()
	rooms[0].Title = "changed"
	assert.Equal(t, "Single", suites.RoomCards()[0].Title)

	errs := suites.MultipleFieldErrors()
	errs[0] = "changed"
	assert.Equal(t, "size must be between 3 and 30", suites.MultipleFieldErrors()[0])
}

func TestRoomCards(t *testing.T) {
	rooms := suites.RoomCards()
	require.Len(t, rooms, 3)
	assert.True(t, rooms[1].BookingHref.MatchString("/reservation/2?checkin=2026-02-19"))
	assert.False(t, rooms[1].BookingHref.MatchString("/reservation/3"))
	assert.Equal(t, "/images/room3.jpg", rooms[2].ImageSrc)
}

func TestNavigationTargets(t *testing.T) {
	for _, target := range suites.NavigationTargets() {
		if target.Name == "Admin" {
			assert.True(t, target.URLSuffix.MatchString("https://automationintesting.online/admin"))
			assert.False(t, target.URLSuffix.MatchString("https://automationintesting.online/#admin"))
			continue
		}
		hash := "#" + strings.ToLower(target.Name)
		assert.True(t, target.URLSuffix.MatchString("https://automationintesting.online/"+hash), target.Name)
		assert.False(t, target.URLSuffix.MatchString("https://automationintesting.online/"+hash+"/x"), target.Name)
	}
}

func TestStayDates(t *testing.T) {
	tests := []struct {
		now     time.Time
		wantIn  string
		wantOut string
	}{
		{time.Date(2026, time.February, 10, 15, 4, 0, 0, time.UTC), "2026-02-10", "2026-02-12"},
		{time.Date(2026, time.February, 27, 0, 0, 0, 0, time.UTC), "2026-02-26", "2026-02-28"},
		{time.Date(2026, time.December, 31, 23, 0, 0, 0, time.UTC), "2026-12-29", "2026-12-31"},
	}
	for _, tt := range tests {
		in, out := suites.StayDates(tt.now)
		assert.Equal(t, tt.wantIn, in.Format(time.DateOnly))
		assert.Equal(t, tt.wantOut, out.Format(time.DateOnly))
	}
}

// navigationSite scripts the menu of the home page on a fake session.
func navigationSite() *drivertest.Session {
	s := drivertest.New("https://site.test")
	for _, target := range suites.NavigationTargets() {
		desc := driver.Role(driver.RoleLink, target.Name).WithExact().String()
		s.Set(desc, &drivertest.Node{Text: target.Name})
		u := "https://site.test/#" + strings.ToLower(target.Name)
		if target.Name == "Admin" {
			u = "https://site.test/admin"
		}
		s.OnClick(desc, func(s *drivertest.Session) { s.SetURL(u) })
	}
	return s
}

func TestNavigationScenario(t *testing.T) {
	launcher := drivertest.NewLauncher(navigationSite)
	selected, err := suites.Select("navigation-and-ui/navigation")
	require.NoError(t, err)

	runner := scenario.NewRunner(launcher, scenario.Options{Logger: zerolog.Nop(), Timeout: 50 * time.Millisecond})
	res, err := runner.Run(context.Background(), selected...)
	require.NoError(t, err)

	require.Len(t, res.Cases, 1)
	assert.Equal(t, scenario.StatusPassed, res.Cases[0].Status, "failures: %v", res.Cases[0].Failures)
}

func TestNavigationScenario_reportsWrongTarget(t *testing.T) {
	launcher := drivertest.NewLauncher(func() *drivertest.Session {
		s := navigationSite()
		// Amenities is broken and leaves the location unchanged.
		s.OnClick(driver.Role(driver.RoleLink, "Amenities").WithExact().String(), func(*drivertest.Session) {})
		return s
	})
	selected, err := suites.Select("navigation-and-ui/navigation")
	require.NoError(t, err)

	runner := scenario.NewRunner(launcher, scenario.Options{Logger: zerolog.Nop(), Timeout: 50 * time.Millisecond})
	res, err := runner.Run(context.Background(), selected...)
	require.NoError(t, err)

	cr := res.Cases[0]
	assert.Equal(t, scenario.StatusFailed, cr.Status)
	require.Len(t, cr.Failures, 1, "only the broken link fails, the rest keep running")
	assert.Contains(t, cr.Failures[0].Message, "#amenities$")
	assert.Contains(t, cr.Failures[0].Message, "https://site.test/#booking")
}

func runCase(t *testing.T, launcher *drivertest.Launcher, name string) scenario.CaseResult {
	t.Helper()

	selected, err := suites.Select(name)
	require.NoError(t, err)

	runner := scenario.NewRunner(launcher, scenario.Options{Logger: zerolog.Nop(), Timeout: 50 * time.Millisecond})
	res, err := runner.Run(context.Background(), selected...)
	require.NoError(t, err)
	require.Len(t, res.Cases, 1)
	return res.Cases[0]
}

func guestField(name string) string {
	return driver.Role(driver.RoleTextbox, name).String()
}

// bookingSite scripts the reservation workflow on a fake session. The second
// Reserve Now click validates the guest form like the site does, unless
// lenient accepts any input.
func bookingSite(lenient bool) func() *drivertest.Session {
	return func() *drivertest.Session {
		s := drivertest.New("https://site.test")
		bookNow := driver.Role(driver.RoleLink, "Book now").String()
		reserve := driver.Role(driver.RoleButton, "Reserve Now").String()

		s.Set(driver.Role(driver.RoleButton, "Check Availability").String(), &drivertest.Node{Text: "Check Availability"})
		s.Set(bookNow, &drivertest.Node{}, &drivertest.Node{}, &drivertest.Node{})
		for i := range 3 {
			s.OnClick(driver.NthDescription(bookNow, i), func(s *drivertest.Session) {
				s.SetURL(fmt.Sprintf("https://site.test/reservation/%d", i+1))
				s.Set(".rbc-row-bg div", &drivertest.Node{}, &drivertest.Node{})
				s.Set(reserve, &drivertest.Node{Text: "Reserve Now"})
			})
		}

		formShown := false
		s.OnClick(reserve, func(s *drivertest.Session) {
			if !formShown {
				formShown = true
				for _, name := range []string{"Firstname", "Lastname", "Email", "Phone"} {
					s.Set(guestField(name), &drivertest.Node{})
				}
				return
			}

			value := func(name string) string {
				v, _ := s.Find(driver.Role(driver.RoleTextbox, name)).Value(context.Background())
				return v
			}
			var errs []string
			for _, f := range []struct {
				name     string
				min, max int
			}{{"Firstname", 3, 18}, {"Lastname", 3, 30}, {"Phone", 11, 21}} {
				if n := len(value(f.name)); n < f.min || n > f.max {
					errs = append(errs, fmt.Sprintf("size must be between %d and %d", f.min, f.max))
				}
			}
			if !strings.Contains(value("Email"), "@") {
				errs = append(errs, "must be a well-formed email address")
			}
			if len(errs) > 0 && !lenient {
				s.Set(".alert.alert-danger", &drivertest.Node{Text: strings.Join(errs, "\n")})
				return
			}
			s.Set(driver.Role(driver.RoleLink, "Return home").String(), &drivertest.Node{Text: "Return home"})
		})
		return s
	}
}

func TestBookingFlowScenarios(t *testing.T) {
	for _, name := range []string{
		"booking-flow/form-round-trip",
		"booking-flow/invalid-email",
		"booking-flow/multiple-field-errors",
	} {
		t.Run(name, func(t *testing.T) {
			cr := runCase(t, drivertest.NewLauncher(bookingSite(false)), name)
			assert.Equal(t, scenario.StatusPassed, cr.Status, "failures: %v", cr.Failures)
		})
	}
}

func TestBookingFlowScenarios_failWhenInvalidGuestIsAccepted(t *testing.T) {
	for _, name := range []string{
		"booking-flow/invalid-email",
		"booking-flow/multiple-field-errors",
	} {
		t.Run(name, func(t *testing.T) {
			cr := runCase(t, drivertest.NewLauncher(bookingSite(true)), name)
			assert.Equal(t, scenario.StatusFailed, cr.Status)
			assert.True(t, cr.Aborted, "no alert to check once the booking went through")
			require.Len(t, cr.Failures, 1)
		})
	}
}

func TestMultipleFieldErrorsScenario_reportsMissingMessage(t *testing.T) {
	launcher := drivertest.NewLauncher(func() *drivertest.Session {
		s := bookingSite(false)()
		reserve := driver.Role(driver.RoleButton, "Reserve Now").String()
		shown := false
		// Only the email is validated.
		s.OnClick(reserve, func(s *drivertest.Session) {
			if !shown {
				shown = true
				for _, name := range []string{"Firstname", "Lastname", "Email", "Phone"} {
					s.Set(guestField(name), &drivertest.Node{})
				}
				return
			}
			s.Set(".alert.alert-danger", &drivertest.Node{Text: "must be a well-formed email address"})
		})
		return s
	})

	cr := runCase(t, launcher, "booking-flow/multiple-field-errors")
	assert.Equal(t, scenario.StatusFailed, cr.Status)
	assert.False(t, cr.Aborted)
	require.Len(t, cr.Failures, 2)
	assert.Contains(t, cr.Failures[0].Message, "size must be between 3 and 30")
	assert.Contains(t, cr.Failures[1].Message, "size must be between 11 and 21")
}

var contactTestIDs = []string{"ContactName", "ContactEmail", "ContactPhone", "ContactSubject", "ContactDescription"}

// contactSite scripts the contact form. With reset, every navigation empties
// the form like a page load.
func contactSite(reset bool) func() *drivertest.Session {
	return func() *drivertest.Session {
		s := drivertest.New("https://site.test")
		empty := func(s *drivertest.Session) {
			for _, id := range contactTestIDs {
				s.Set(driver.TestID(id).String(), &drivertest.Node{})
			}
		}
		empty(s)
		s.Set(driver.Role(driver.RoleButton, "Submit").String(), &drivertest.Node{Text: "Submit"})
		if reset {
			s.OnNavigate(func(s *drivertest.Session, _ string) { empty(s) })
		}
		return s
	}
}

func TestEmptyAfterNavigateScenario(t *testing.T) {
	launcher := drivertest.NewLauncher(contactSite(true))
	cr := runCase(t, launcher, "contact-form/empty-after-navigate")
	assert.Equal(t, scenario.StatusPassed, cr.Status, "failures: %v", cr.Failures)

	actions := launcher.Sessions()[0].Actions()
	navigations := 0
	for _, a := range actions {
		if a == "navigate /" {
			navigations++
		}
	}
	assert.Equal(t, 3, navigations)
}

func TestEmptyAfterNavigateScenario_reportsKeptValues(t *testing.T) {
	cr := runCase(t, drivertest.NewLauncher(contactSite(false)), "contact-form/empty-after-navigate")
	assert.Equal(t, scenario.StatusFailed, cr.Status)
	assert.False(t, cr.Aborted)
	// Five fields keep their values on the second and third load.
	require.Len(t, cr.Failures, 10)
	assert.Contains(t, cr.Failures[0].Message, `testid="ContactName": to have value`)
	assert.Contains(t, cr.Failures[0].Message, `"John Doe"`)
}
