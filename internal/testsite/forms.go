package testsite

import (
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"
)

type bookingForm struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	CheckIn   string
	CheckOut  string
	Errors    []string
}

// sizeError returns the message for a value outside [lo, hi] characters.
func sizeError(value string, lo, hi int) string {
	n := utf8.RuneCountInString(value)
	if n < lo || n > hi {
		return "size must be between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi)
	}
	return ""
}

func wellFormedEmail(v string) bool {
	addr, err := mail.ParseAddress(v)
	return err == nil && addr.Address == v
}

// validate returns the messages of the booking API, in field order.
func (f bookingForm) validate() []string {
	var errs []string
	add := func(msg string) {
		if msg != "" {
			errs = append(errs, msg)
		}
	}

	if strings.TrimSpace(f.FirstName) == "" {
		add("Firstname should not be blank")
	}
	add(sizeError(f.FirstName, 3, 18))
	if strings.TrimSpace(f.LastName) == "" {
		add("Lastname should not be blank")
	}
	add(sizeError(f.LastName, 3, 30))
	if !wellFormedEmail(f.Email) {
		add("must be a well-formed email address")
	}
	add(sizeError(f.Phone, 11, 21))
	if f.CheckOut < f.CheckIn {
		add("Checkout must be after checkin")
	}
	return errs
}

type contactForm struct {
	Name        string
	Email       string
	Phone       string
	Subject     string
	Description string
	Errors      []string
}

func (f contactForm) validate() []string {
	var errs []string
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, "Name may not be blank")
	}
	if !wellFormedEmail(f.Email) {
		errs = append(errs, "must be a well-formed email address")
	}
	if n := utf8.RuneCountInString(f.Phone); n < 11 || n > 21 {
		errs = append(errs, "Phone must be between 11 and 21 characters.")
	}
	if n := utf8.RuneCountInString(f.Subject); n < 5 || n > 100 {
		errs = append(errs, "Subject must be between 5 and 100 characters.")
	}
	if n := utf8.RuneCountInString(f.Description); n < 20 || n > 2000 {
		errs = append(errs, "Message must be between 20 and 2000 characters.")
	}
	return errs
}
