package testsite

import (
	"time"

	"github.com/samber/lo"
)

type calendarDay struct {
	Date        string
	Day         int
	OffRange    bool
	Unavailable bool
}

type calendarEvent struct {
	Date  string
	Title string
}

type calendarWeek struct {
	Days   []calendarDay
	Events []calendarEvent
}

type calendarMonth struct {
	Label string
	Weeks []calendarWeek
}

// newCalendarMonth lays out the month containing now as Monday-first weeks,
// padded with days of the neighbouring months.
func newCalendarMonth(now time.Time, room Room) calendarMonth {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -((int(first.Weekday()) + 6) % 7))
	end := last.AddDate(0, 0, (7-int(last.Weekday()))%7)

	month := calendarMonth{Label: first.Format("January 2006")}
	var week calendarWeek
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		inMonth := d.Month() == first.Month()
		day := calendarDay{
			Date:        d.Format(time.DateOnly),
			Day:         d.Day(),
			OffRange:    !inMonth,
			Unavailable: inMonth && lo.Contains(room.Unavailable, d.Day()),
		}
		week.Days = append(week.Days, day)
		if day.Unavailable {
			week.Events = append(week.Events, calendarEvent{Date: day.Date, Title: "Unavailable"})
		}
		if len(week.Days) == 7 {
			month.Weeks = append(month.Weeks, week)
			week = calendarWeek{}
		}
	}
	return month
}

type pickerDay struct {
	Label string
	Value string
	Day   int
}

// pickerDays lists the days of the month containing now as date picker options.
func pickerDays(now time.Time) []pickerDay {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	var days []pickerDay
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		days = append(days, pickerDay{
			Label: "Choose " + d.Format("Monday, 2 January"),
			Value: d.Format("02/01/2006"),
			Day:   d.Day(),
		})
	}
	return days
}
