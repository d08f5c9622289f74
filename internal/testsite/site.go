// Package testsite serves a local replica of the Shady Meadows B&B booking
// site: the same roles, names, CSS hooks, test ids and validation messages,
// rendered server side with a little script for the calendar and pickers.
package testsite

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Room is a bookable room shown as a card.
type Room struct {
	ID          int
	Title       string
	Price       int
	Description string
	// Unavailable days of the displayed month.
	Unavailable []int
}

// Image is the path of the card image.
func (r Room) Image() string {
	return "/images/room" + strconv.Itoa(r.ID) + ".jpg"
}

// Rooms returns the rooms in card order.
func Rooms() []Room {
	return []Room{
		{ID: 1, Title: "Single", Price: 100, Description: "A cosy room for one guest with a garden view."},
		{ID: 2, Title: "Double", Price: 150, Description: "Room for two with a king size bed.", Unavailable: []int{10, 11}},
		{ID: 3, Title: "Suite", Price: 225, Description: "Our largest room with a separate lounge."},
	}
}

func roomByID(id string) (Room, bool) {
	for _, r := range Rooms() {
		if strconv.Itoa(r.ID) == id {
			return r, true
		}
	}
	return Room{}, false
}

// Options configures the site.
type Options struct {
	// ThrowOnReservation makes reservation pages raise an uncaught script error.
	ThrowOnReservation bool
	// Now returns the current time. Default: time.Now
	Now    func() time.Time
	Logger zerolog.Logger
}

type site struct {
	opts Options
}

// NewHandler returns the site's router.
func NewHandler(opts Options) http.Handler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &site{opts: opts}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(opts.Logger))

	r.Get("/", s.home)
	r.Post("/contact", s.contact)
	r.Get("/reservation/{id}", s.reservation)
	r.Post("/reservation/{id}", s.book)
	r.Get("/admin", s.admin)
	r.Get("/images/{name}", s.image)
	return r
}

func requestLogger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			l.Debug().
				Str("route", route).
				Str("method", r.Method).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("http_request")
		})
	}
}

func (s *site) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		s.opts.Logger.Error().Err(err).Str("template", name).Msg("Rendering page failed")
	}
}

type homeData struct {
	Rooms   []Room
	Picker  []pickerDay
	Contact contactForm
	Sent    bool
}

func (s *site) home(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "home", homeData{
		Rooms:  Rooms(),
		Picker: pickerDays(s.opts.Now()),
	})
}

func (s *site) contact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := contactForm{
		Name:        r.PostForm.Get("name"),
		Email:       r.PostForm.Get("email"),
		Phone:       r.PostForm.Get("phone"),
		Subject:     r.PostForm.Get("subject"),
		Description: r.PostForm.Get("description"),
	}
	form.Errors = form.validate()

	status := http.StatusOK
	if len(form.Errors) > 0 {
		status = http.StatusBadRequest
	}
	s.render(w, status, "home", homeData{
		Rooms:   Rooms(),
		Picker:  pickerDays(s.opts.Now()),
		Contact: form,
		Sent:    len(form.Errors) == 0,
	})
}

type reservationData struct {
	Room        Room
	Month       calendarMonth
	Booking     bookingForm
	ShowDetails bool
	Throw       bool
}

func (s *site) reservation(w http.ResponseWriter, r *http.Request) {
	room, ok := roomByID(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.render(w, http.StatusOK, "reservation", reservationData{
		Room:  room,
		Month: newCalendarMonth(s.opts.Now(), room),
		Throw: s.opts.ThrowOnReservation,
	})
}

type confirmationData struct {
	Room    Room
	Booking bookingForm
}

func (s *site) book(w http.ResponseWriter, r *http.Request) {
	room, ok := roomByID(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	now := s.opts.Now()
	form := bookingForm{
		FirstName: r.PostForm.Get("firstname"),
		LastName:  r.PostForm.Get("lastname"),
		Email:     r.PostForm.Get("email"),
		Phone:     r.PostForm.Get("phone"),
		CheckIn:   r.PostForm.Get("checkin"),
		CheckOut:  r.PostForm.Get("checkout"),
	}
	if form.CheckIn == "" {
		form.CheckIn = now.Format(time.DateOnly)
	}
	if form.CheckOut == "" {
		form.CheckOut = form.CheckIn
	}
	form.Errors = form.validate()

	if len(form.Errors) > 0 {
		s.render(w, http.StatusBadRequest, "reservation", reservationData{
			Room:        room,
			Month:       newCalendarMonth(now, room),
			Booking:     form,
			ShowDetails: true,
			Throw:       s.opts.ThrowOnReservation,
		})
		return
	}
	s.opts.Logger.Info().Int("room", room.ID).Str("checkin", form.CheckIn).Str("checkout", form.CheckOut).Msg("Booking confirmed")
	s.render(w, http.StatusOK, "confirmation", confirmationData{Room: room, Booking: form})
}

func (s *site) admin(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "admin", nil)
}

// pixel is a 1x1 transparent GIF.
var pixel = []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\x00\x00\x00\xff\xff\xff!\xf9\x04\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;")

func (s *site) image(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "max-age=3600")
	_, _ = w.Write(pixel)
}
