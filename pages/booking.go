// Package pages contains page objects for the Shady Meadows B&B site. Page
// objects hold the driver capability and a TB; unmet preconditions are hard
// failures reported with require, like test helpers.
package pages

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/staycheck/driver"
	"github.com/networkteam/staycheck/expect"
)

// BookingFormData is the guest data entered on the reservation form.
type BookingFormData struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// BookingState is the position of a booking page in the reservation workflow.
type BookingState int

const (
	StateHome BookingState = iota
	StateAvailabilityOpen
	StateDateSelected
	StateFormVisible
	StateSubmitted
	StateSuccess
	StateValidationError
)

func (s BookingState) String() string {
	switch s {
	case StateHome:
		return "Home"
	case StateAvailabilityOpen:
		return "AvailabilityOpen"
	case StateDateSelected:
		return "DateSelected"
	case StateFormVisible:
		return "FormVisible"
	case StateSubmitted:
		return "Submitted"
	case StateSuccess:
		return "Success"
	case StateValidationError:
		return "ValidationError"
	default:
		return fmt.Sprintf("BookingState(%d)", int(s))
	}
}

// ErrInvalidTransition is reported when an action is not allowed in the
// current workflow state.
var ErrInvalidTransition = errors.New("invalid booking transition")

// BookingPage drives the reservation workflow:
// Home -> AvailabilityOpen -> DateSelected -> FormVisible -> Success | ValidationError.
type BookingPage struct {
	Driver driver.Driver
	// Timeout bounds waits for preconditions and outcomes.
	Timeout time.Duration

	t     expect.TB
	state BookingState
	// staleAlert holds the alert texts shown before a resubmission.
	staleAlert []string
}

// NewBookingPage creates a booking page object in the Home state.
func NewBookingPage(t expect.TB, d driver.Driver) *BookingPage {
	return &BookingPage{
		Driver:  d,
		Timeout: expect.DefaultTimeout,
		t:       t,
	}
}

// State returns the current workflow state.
func (bp *BookingPage) State() BookingState {
	return bp.state
}

func (bp *BookingPage) require(action string, allowed ...BookingState) {
	bp.t.Helper()

	if !lo.Contains(allowed, bp.state) {
		require.Fail(bp.t, fmt.Sprintf("%s: %v in state %s", action, ErrInvalidTransition, bp.state))
	}
}

// Navigate loads the application root.
func (bp *BookingPage) Navigate() {
	bp.t.Helper()

	err := bp.Driver.Navigate(bp.t.Context(), "/")
	require.NoError(bp.t, err, "failed to load home page")
	bp.state = StateHome
}

// StartBooking opens the availability widget and follows the roomIndex-th
// (0-based) "Book now" link.
func (bp *BookingPage) StartBooking(roomIndex int) {
	bp.t.Helper()
	bp.require("start booking", StateHome)

	ctx := bp.t.Context()
	err := bp.Driver.Find(driver.Role(driver.RoleButton, "Check Availability")).Click(ctx)
	require.NoError(bp.t, err, "failed to click Check Availability")

	links := bp.Driver.Find(driver.Role(driver.RoleLink, "Book now"))
	var count int
	err = driver.Poll(ctx, bp.Timeout, func() error {
		n, err := links.Count(ctx)
		if err != nil {
			return err
		}
		count = n
		if count <= roomIndex {
			return fmt.Errorf("%s: %w", driver.NthDescription(links.Describe(), roomIndex), driver.ErrNotFound)
		}
		return nil
	})
	require.NoError(bp.t, err, "expected at least %d Book now links, found %d", roomIndex+1, count)

	err = links.Nth(roomIndex).Click(ctx)
	require.NoError(bp.t, err, "failed to click Book now link %d", roomIndex)
	bp.state = StateAvailabilityOpen
}

// StartBookingFor follows the "Book now" link of the room card with the given title.
func (bp *BookingPage) StartBookingFor(title string) {
	bp.t.Helper()
	bp.require("start booking", StateHome)

	ctx := bp.t.Context()
	err := bp.Driver.Find(driver.Role(driver.RoleButton, "Check Availability")).Click(ctx)
	require.NoError(bp.t, err, "failed to click Check Availability")

	link := bp.Driver.Find(driver.CSS("#rooms .room-card").WithHasText(title)).First().
		Find(driver.Role(driver.RoleLink, "Book now"))
	err = link.Click(ctx)
	require.NoError(bp.t, err, "failed to book room %q", title)
	bp.state = StateAvailabilityOpen
}

// SelectFirstAvailableDate clicks the first cell of the calendar grid.
func (bp *BookingPage) SelectFirstAvailableDate() {
	bp.t.Helper()
	bp.SelectDateCell(0)
}

// SelectDateCell clicks the index-th (0-based) cell of the calendar grid.
func (bp *BookingPage) SelectDateCell(index int) {
	bp.t.Helper()
	bp.require("select date", StateAvailabilityOpen, StateDateSelected)

	err := bp.Driver.Find(driver.CSS(".rbc-row-bg div")).Nth(index).Click(bp.t.Context())
	require.NoError(bp.t, err, "failed to select calendar cell %d", index)
	bp.state = StateDateSelected
}

// UnavailableMarker returns the calendar event marking booked days.
func (bp *BookingPage) UnavailableMarker() driver.Element {
	return bp.Driver.Find(driver.Text("Unavailable")).First()
}

// SelectUnavailableSlot clicks the "Unavailable" calendar event.
func (bp *BookingPage) SelectUnavailableSlot() {
	bp.t.Helper()
	bp.require("select unavailable slot", StateAvailabilityOpen, StateDateSelected)

	err := bp.UnavailableMarker().Click(bp.t.Context())
	require.NoError(bp.t, err, "failed to click Unavailable marker")
	bp.state = StateDateSelected
}

// ClickReserve clicks the "Reserve Now" control. It does not change the
// workflow state; use ConfirmDates or SubmitBooking.
func (bp *BookingPage) ClickReserve() {
	bp.t.Helper()

	err := bp.Driver.Find(driver.Role(driver.RoleButton, "Reserve Now")).Click(bp.t.Context())
	require.NoError(bp.t, err, "failed to click Reserve Now")
}

// ConfirmDates advances from the calendar to the guest form.
func (bp *BookingPage) ConfirmDates() {
	bp.t.Helper()
	bp.require("confirm dates", StateAvailabilityOpen, StateDateSelected)

	bp.ClickReserve()
	err := bp.field("Firstname").WaitVisible(bp.t.Context())
	require.NoError(bp.t, err, "booking form did not appear")
	bp.state = StateFormVisible
}

func (bp *BookingPage) field(name string) driver.Element {
	return bp.Driver.Find(driver.Role(driver.RoleTextbox, name))
}

// FillBookingForm fills the four guest fields. It neither validates nor submits.
func (bp *BookingPage) FillBookingForm(data BookingFormData) {
	bp.t.Helper()
	bp.require("fill booking form", StateFormVisible, StateValidationError)

	ctx := bp.t.Context()
	for _, f := range []struct{ name, value string }{
		{"Firstname", data.FirstName},
		{"Lastname", data.LastName},
		{"Email", data.Email},
		{"Phone", data.Phone},
	} {
		err := bp.field(f.name).Fill(ctx, f.value)
		require.NoError(bp.t, err, "failed to fill %s", f.name)
	}
}

// FormValues reads the four guest fields back.
func (bp *BookingPage) FormValues() BookingFormData {
	bp.t.Helper()

	ctx := bp.t.Context()
	read := func(name string) string {
		bp.t.Helper()
		v, err := bp.field(name).Value(ctx)
		require.NoError(bp.t, err, "failed to read %s", name)
		return v
	}
	return BookingFormData{
		FirstName: read("Firstname"),
		LastName:  read("Lastname"),
		Email:     read("Email"),
		Phone:     read("Phone"),
	}
}

// SubmitBooking submits the guest form and waits for the outcome. From
// ValidationError it resubmits the corrected form; the alert of the previous
// attempt does not count as the new outcome.
func (bp *BookingPage) SubmitBooking() BookingState {
	bp.t.Helper()
	bp.require("submit booking", StateFormVisible, StateValidationError)

	bp.staleAlert = nil
	if bp.state == StateValidationError {
		texts, err := bp.ErrorAlert().Texts(bp.t.Context())
		require.NoError(bp.t, err, "failed to read validation alert")
		bp.staleAlert = texts
	}

	bp.ClickReserve()
	bp.state = StateSubmitted
	return bp.AwaitOutcome()
}

// errStaleAlert means only the alert of the previous submission is shown.
var errStaleAlert = errors.New("previous validation alert still shown")

// AwaitOutcome waits until either the confirmation or a validation alert is
// shown and records the resulting state. After a resubmission an alert only
// counts once it went away or changed; an alert unchanged for the whole
// timeout is taken as the same errors reported again.
func (bp *BookingPage) AwaitOutcome() BookingState {
	bp.t.Helper()
	bp.require("await outcome", StateSubmitted, StateSuccess, StateValidationError)

	ctx := bp.t.Context()
	returnHome := bp.returnHomeLink()
	alert := bp.ErrorAlert()
	stale := bp.staleAlert
	alertGone := false

	err := driver.Poll(ctx, bp.Timeout, func() error {
		if ok, err := returnHome.Visible(ctx); err != nil {
			return err
		} else if ok {
			bp.state = StateSuccess
			return nil
		}
		ok, err := alert.Visible(ctx)
		if err != nil {
			return err
		}
		if !ok {
			alertGone = true
			return fmt.Errorf("neither %s nor %s: %w", returnHome.Describe(), alert.Describe(), driver.ErrNotVisible)
		}
		if stale != nil && !alertGone {
			texts, err := alert.Texts(ctx)
			if err != nil {
				return err
			}
			if slices.Equal(texts, stale) {
				return fmt.Errorf("%s: %w", alert.Describe(), errStaleAlert)
			}
		}
		bp.state = StateValidationError
		return nil
	})
	if errors.Is(err, errStaleAlert) && ctx.Err() == nil {
		bp.state = StateValidationError
		err = nil
	}
	bp.staleAlert = nil
	require.NoError(bp.t, err, "booking outcome did not appear")
	return bp.state
}

func (bp *BookingPage) returnHomeLink() driver.Element {
	return bp.Driver.Find(driver.Role(driver.RoleLink, "Return home"))
}

// ReturnHome follows the "Return home" link shown after a successful booking.
func (bp *BookingPage) ReturnHome() {
	bp.t.Helper()
	bp.require("return home", StateSuccess)

	err := bp.returnHomeLink().Click(bp.t.Context())
	require.NoError(bp.t, err, "failed to click Return home")
	bp.state = StateHome
}

// ErrorAlert returns the validation alert without asserting on it.
func (bp *BookingPage) ErrorAlert() driver.Element {
	return bp.Driver.Find(driver.CSS(".alert.alert-danger"))
}
