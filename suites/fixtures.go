package suites

import (
	"regexp"
	"time"

	"github.com/networkteam/staycheck/pages"
)

// NavigationTarget is a top navigation link and the location it leads to.
type NavigationTarget struct {
	Name      string
	URLSuffix *regexp.Regexp
}

// NavigationTargets returns the navigation links in menu order.
func NavigationTargets() []NavigationTarget {
	return []NavigationTarget{
		{Name: "Rooms", URLSuffix: regexp.MustCompile(`#rooms$`)},
		{Name: "Booking", URLSuffix: regexp.MustCompile(`#booking$`)},
		{Name: "Amenities", URLSuffix: regexp.MustCompile(`#amenities$`)},
		{Name: "Location", URLSuffix: regexp.MustCompile(`#location$`)},
		{Name: "Contact", URLSuffix: regexp.MustCompile(`#contact$`)},
		// Admin is a separate route, not a section.
		{Name: "Admin", URLSuffix: regexp.MustCompile(`/admin$`)},
	}
}

// RoomCardExpectation describes a rendered room card. Expectations are
// index aligned with the cards on the page.
type RoomCardExpectation struct {
	Title       string
	Price       string
	BookingHref *regexp.Regexp
	ImageSrc    string
}

func RoomCards() []RoomCardExpectation {
	return []RoomCardExpectation{
		{Title: "Single", Price: "£100", BookingHref: regexp.MustCompile(`reservation/1`), ImageSrc: "/images/room1.jpg"},
		{Title: "Double", Price: "£150", BookingHref: regexp.MustCompile(`reservation/2`), ImageSrc: "/images/room2.jpg"},
		{Title: "Suite", Price: "£225", BookingHref: regexp.MustCompile(`reservation/3`), ImageSrc: "/images/room3.jpg"},
	}
}

// ValidationErrorExpectation is a set of messages expected somewhere in the
// error alerts, in any order.
type ValidationErrorExpectation []string

func InvalidEmailErrors() ValidationErrorExpectation {
	return ValidationErrorExpectation{"must be a well-formed email address"}
}

func MultipleFieldErrors() ValidationErrorExpectation {
	return ValidationErrorExpectation{
		"size must be between 3 and 30",
		"size must be between 11 and 21",
		"must be a well-formed email address",
	}
}

func ValidGuest() pages.BookingFormData {
	return pages.BookingFormData{
		FirstName: "TestFirstName",
		LastName:  "TestLastName",
		Email:     "test@test.com",
		Phone:     "+3685142536",
	}
}

func InvalidEmailGuest() pages.BookingFormData {
	return pages.BookingFormData{
		FirstName: "TestFirstName",
		LastName:  "TestLastName",
		Email:     "invalid-email",
		Phone:     "+3684523694",
	}
}

func InvalidFieldsGuest() pages.BookingFormData {
	return pages.BookingFormData{
		FirstName: "@ test_test ",
		LastName:  "!%",
		Email:     "test-test.com",
		Phone:     "12345678",
	}
}

func ContactMessage() pages.ContactFormData {
	return pages.ContactFormData{
		Name:    "John Doe",
		Email:   "john.doe@test.com",
		Phone:   "+36123456789",
		Subject: "Test Subject",
		Message: "This is a test message sent by browser automation.",
	}
}

// ContactSectionFields are the labels rendered in the contact section.
func ContactSectionFields() []string {
	return []string{"Name", "Email", "Phone", "Subject", "Message"}
}

// StayDates returns a check-in and check-out date two days apart within the
// month of now, the month the date pickers open on.
func StayDates(now time.Time) (checkIn, checkOut time.Time) {
	y, m, d := now.Date()
	lastDay := time.Date(y, m+1, 0, 0, 0, 0, 0, now.Location()).Day()
	if d+2 > lastDay {
		d = lastDay - 2
	}
	checkIn = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return checkIn, checkIn.AddDate(0, 0, 2)
}
