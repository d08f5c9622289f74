package testsite_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/staycheck/internal/testsite"
)

// Thursday; February 2026 starts on a Sunday.
var fixedNow = time.Date(2026, time.February, 19, 10, 0, 0, 0, time.UTC)

func newSite(opts testsite.Options) http.Handler {
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	opts.Logger = zerolog.Nop()
	return testsite.NewHandler(opts)
}

func request(t *testing.T, h http.Handler, method, target string, form url.Values) (int, *goquery.Document) {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return rec.Code, doc
}

func texts(sel *goquery.Selection) []string {
	return sel.Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	})
}

func attrs(sel *goquery.Selection, name string) []string {
	return sel.Map(func(_ int, s *goquery.Selection) string {
		return s.AttrOr(name, "")
	})
}

func TestHome(t *testing.T) {
	h := newSite(testsite.Options{})
	status, doc := request(t, h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, status)

	t.Run("navigation", func(t *testing.T) {
		nav := doc.Find("nav")
		assert.Contains(t, nav.Text(), "Shady Meadows B&B")
		assert.Equal(t,
			[]string{"/", "/#rooms", "/#booking", "/#amenities", "/#location", "/#contact", "/admin"},
			attrs(nav.Find("a"), "href"),
		)
		assert.Equal(t, []string{"Welcome to Shady Meadows B&B"}, texts(doc.Find("h1")))
	})

	t.Run("room cards", func(t *testing.T) {
		cards := doc.Find("#rooms .room-card")
		require.Equal(t, 3, cards.Length())
		assert.Equal(t, []string{"Single", "Double", "Suite"}, texts(cards.Find(".card-title")))
		assert.Equal(t, []string{"/reservation/1", "/reservation/2", "/reservation/3"}, attrs(cards.Find(".btn-primary"), "href"))
		assert.Equal(t, []string{"/images/room1.jpg", "/images/room2.jpg", "/images/room3.jpg"}, attrs(cards.Find("img"), "src"))
		assert.Contains(t, cards.Eq(2).Text(), "£225")
		assert.Equal(t, []string{"Book now", "Book now", "Book now"}, texts(cards.Find("a")))
	})

	t.Run("booking section", func(t *testing.T) {
		booking := doc.Find("#booking")
		assert.Contains(t, booking.Text(), "Check Availability & Book Your Stay")
		assert.Equal(t, []string{"Check In", "Check Out"}, texts(booking.Find("label")))
		assert.Equal(t, "Check Availability", strings.TrimSpace(booking.Find("button").Text()))

		// The stay inputs are the first text inputs of the page.
		assert.Equal(t, []string{"checkin-date", "checkout-date"}, attrs(doc.Find("input[type=text]").Slice(0, 2), "id"))
	})

	t.Run("date picker", func(t *testing.T) {
		picker := doc.Find("#datepicker")
		_, hidden := picker.Attr("hidden")
		assert.True(t, hidden)

		options := picker.Find("[role=option]")
		require.Equal(t, 28, options.Length())
		assert.Equal(t, "Choose Sunday, 1 February", options.First().AttrOr("aria-label", ""))
		assert.Equal(t, "Choose Thursday, 19 February", options.Eq(18).AttrOr("aria-label", ""))
		assert.Equal(t, "19/02/2026", options.Eq(18).AttrOr("data-value", ""))
	})

	t.Run("location and contact", func(t *testing.T) {
		location := doc.Find("#location").Text()
		for _, s := range []string{"Our Location", "Contact Information", "012345678901", "fake@fakeemail.com"} {
			assert.Contains(t, location, s)
		}

		contact := doc.Find("#contact")
		assert.Equal(t, []string{"Name", "Email", "Phone", "Subject", "Message"}, texts(contact.Find("label")))
		assert.Equal(t,
			[]string{"ContactName", "ContactEmail", "ContactPhone", "ContactSubject", "ContactDescription"},
			attrs(contact.Find("[data-testid]"), "data-testid"),
		)
		assert.Equal(t, "textarea", goquery.NodeName(contact.Find("[data-testid=ContactDescription]")))
		assert.Equal(t, "Submit", strings.TrimSpace(contact.Find("button[type=submit]").Text()))
	})

	t.Run("footer", func(t *testing.T) {
		footer := doc.Find("footer")
		require.Equal(t, 1, footer.Length())
		assert.Equal(t, 0, doc.Find("section footer").Length())
		assert.Contains(t, footer.Text(), "Shady Meadows B&B")
		assert.Contains(t, footer.Text(), "Quick Links")
		// Exact nav names stay unique.
		assert.NotContains(t, texts(footer.Find("a")), "Rooms")
	})
}

func TestReservationPage(t *testing.T) {
	h := newSite(testsite.Options{})

	t.Run("unknown room", func(t *testing.T) {
		status, _ := request(t, h, http.MethodGet, "/reservation/9", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("calendar", func(t *testing.T) {
		status, doc := request(t, h, http.MethodGet, "/reservation/2", nil)
		require.Equal(t, http.StatusOK, status)

		assert.Equal(t, "February 2026", doc.Find(".rbc-toolbar-label").Text())
		cells := doc.Find(".rbc-row-bg div")
		require.Equal(t, 35, cells.Length(), "five Monday-first weeks")
		assert.Equal(t, "2026-01-26", cells.First().AttrOr("data-date", ""))
		assert.True(t, cells.First().HasClass("rbc-off-range-bg"))
		assert.Equal(t, "2026-02-10", cells.Eq(15).AttrOr("data-date", ""))
		assert.Equal(t, "2026-03-01", cells.Last().AttrOr("data-date", ""))

		events := doc.Find(".rbc-event")
		assert.Equal(t, []string{"2026-02-10", "2026-02-11"}, attrs(events, "data-date"))
		assert.Equal(t, []string{"Unavailable", "Unavailable"}, texts(events))
	})

	t.Run("rooms without unavailable days", func(t *testing.T) {
		_, doc := request(t, h, http.MethodGet, "/reservation/1", nil)
		assert.Equal(t, 0, doc.Find(".rbc-event").Length())
		assert.NotContains(t, doc.Find("body").Text(), "Unavailable")
	})

	t.Run("booking form", func(t *testing.T) {
		_, doc := request(t, h, http.MethodGet, "/reservation/1", nil)

		details := doc.Find(".booking-details")
		_, hidden := details.Attr("hidden")
		assert.True(t, hidden)
		assert.Equal(t, []string{"Firstname", "Lastname", "Email", "Phone"}, attrs(details.Find("input"), "aria-label"))
		assert.Equal(t, 0, doc.Find(".alert.alert-danger").Length())

		reserve := doc.Find("button")
		require.Equal(t, 1, reserve.Length())
		assert.Equal(t, "Reserve Now", strings.TrimSpace(reserve.Text()))
		assert.Equal(t, "button", reserve.AttrOr("type", ""))
	})

	t.Run("application error", func(t *testing.T) {
		_, doc := request(t, h, http.MethodGet, "/reservation/1", nil)
		assert.NotContains(t, doc.Find("script").Text(), "throw new Error")

		throwing := newSite(testsite.Options{ThrowOnReservation: true})
		_, doc = request(t, throwing, http.MethodGet, "/reservation/1", nil)
		assert.Contains(t, doc.Find("script").Text(), "throw new Error")
	})
}

func bookingForm(firstname, lastname, email, phone string) url.Values {
	return url.Values{
		"firstname": {firstname},
		"lastname":  {lastname},
		"email":     {email},
		"phone":     {phone},
		"checkin":   {"2026-02-10"},
		"checkout":  {"2026-02-12"},
	}
}

func TestBook(t *testing.T) {
	h := newSite(testsite.Options{})

	t.Run("confirmed", func(t *testing.T) {
		status, doc := request(t, h, http.MethodPost, "/reservation/2",
			bookingForm("TestFirstName", "TestLastName", "test@test.com", "+3685142536"))
		require.Equal(t, http.StatusOK, status)

		assert.Equal(t, "Booking Confirmed", doc.Find("h2").First().Text())
		assert.Equal(t, "2026-02-10 - 2026-02-12", doc.Find(".booking-dates").Text())
		home := doc.Find("#confirmation a")
		assert.Equal(t, "Return home", home.Text())
		assert.Equal(t, "/", home.AttrOr("href", ""))
	})

	t.Run("dates default to today", func(t *testing.T) {
		form := bookingForm("TestFirstName", "TestLastName", "test@test.com", "+3685142536")
		form.Del("checkin")
		form.Del("checkout")
		status, doc := request(t, h, http.MethodPost, "/reservation/1", form)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "2026-02-19 - 2026-02-19", doc.Find(".booking-dates").Text())
	})

	t.Run("invalid email", func(t *testing.T) {
		status, doc := request(t, h, http.MethodPost, "/reservation/1",
			bookingForm("TestFirstName", "TestLastName", "invalid-email", "+3684523694"))
		require.Equal(t, http.StatusBadRequest, status)

		assert.Equal(t, []string{"must be a well-formed email address"}, texts(doc.Find(".alert.alert-danger p")))
		_, hidden := doc.Find(".booking-details").Attr("hidden")
		assert.False(t, hidden)
		assert.Equal(t,
			[]string{"TestFirstName", "TestLastName", "invalid-email", "+3684523694"},
			attrs(doc.Find(".booking-details input"), "value"),
		)
	})

	t.Run("multiple field errors", func(t *testing.T) {
		status, doc := request(t, h, http.MethodPost, "/reservation/1",
			bookingForm("@ test_test ", "!%", "test-test.com", "12345678"))
		require.Equal(t, http.StatusBadRequest, status)

		assert.ElementsMatch(t, []string{
			"size must be between 3 and 30",
			"must be a well-formed email address",
			"size must be between 11 and 21",
		}, texts(doc.Find(".alert.alert-danger p")))
	})

	t.Run("blank", func(t *testing.T) {
		_, doc := request(t, h, http.MethodPost, "/reservation/1", bookingForm("", "", "", ""))
		got := texts(doc.Find(".alert.alert-danger p"))
		assert.Contains(t, got, "Firstname should not be blank")
		assert.Contains(t, got, "Lastname should not be blank")
		assert.Contains(t, got, "size must be between 3 and 18")
	})
}

func TestContact(t *testing.T) {
	h := newSite(testsite.Options{})

	t.Run("sent", func(t *testing.T) {
		status, doc := request(t, h, http.MethodPost, "/contact", url.Values{
			"name":        {"John Doe"},
			"email":       {"john.doe@test.com"},
			"phone":       {"+36123456789"},
			"subject":     {"Test Subject"},
			"description": {"This is a test message sent by browser automation."},
		})
		require.Equal(t, http.StatusOK, status)

		contact := doc.Find("#contact")
		assert.Equal(t, "Thanks for getting in touch John Doe!", contact.Find("h3").Text())
		assert.Equal(t, "Test Subject", contact.Find(".contact-subject").Text())
		assert.Equal(t, 0, contact.Find("form").Length())
	})

	t.Run("invalid", func(t *testing.T) {
		status, doc := request(t, h, http.MethodPost, "/contact", url.Values{
			"name":    {"John Doe"},
			"email":   {"john"},
			"subject": {"Hi"},
		})
		require.Equal(t, http.StatusBadRequest, status)

		contact := doc.Find("#contact")
		assert.ElementsMatch(t, []string{
			"must be a well-formed email address",
			"Phone must be between 11 and 21 characters.",
			"Subject must be between 5 and 100 characters.",
			"Message must be between 20 and 2000 characters.",
		}, texts(contact.Find(".alert-danger p")))
		assert.Equal(t, "John Doe", contact.Find("[data-testid=ContactName]").AttrOr("value", ""))
	})
}

func TestAdminAndImages(t *testing.T) {
	h := newSite(testsite.Options{})

	status, doc := request(t, h, http.MethodGet, "/admin", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Login", doc.Find("#admin h2").Text())

	req := httptest.NewRequest(http.MethodGet, "/images/room1.jpg", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/gif", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "GIF89a"))
}

func TestRooms(t *testing.T) {
	rooms := testsite.Rooms()
	require.Len(t, rooms, 3)
	assert.Equal(t, "/images/room2.jpg", rooms[1].Image())

	// The card filter for "Single" must only match the first card.
	for _, r := range rooms[1:] {
		assert.NotContains(t, strings.ToLower(r.Title+" "+r.Description), "single")
	}
}
