package services

import (
	"strings"
	"time"

	"github.com/6tail/lunar-go/HolidayUtil"
	"github.com/6tail/lunar-go/calendar"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/au"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/nl"
	"github.com/rickar/cal/v2/no"
	"github.com/rickar/cal/v2/us"
)

const countryNone = "NONE"

// WorkdayCalendar counts business days for one configured country.
// CN follows the official adjusted schedule, NONE is plain Mon-Fri.
type WorkdayCalendar struct {
	country  string
	business *cal.BusinessCalendar
}

func NewWorkdayCalendar(countryCode string) *WorkdayCalendar {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	w := &WorkdayCalendar{country: code}

	switch code {
	case "US":
		w.business = newBusinessCalendar("United States", us.Holidays...)
	case "GB":
		w.business = newBusinessCalendar("United Kingdom", gb.Holidays...)
	case "DE":
		w.business = newBusinessCalendar("Germany", de.Holidays...)
	case "NL":
		w.business = newBusinessCalendar("Netherlands", nl.Holidays...)
	case "NO":
		w.business = newBusinessCalendar("Norway", no.Holidays...)
	case "AU":
		w.business = newBusinessCalendar("Australia", au.HolidaysNSW...)
	case "CN":
	default:
		w.country = countryNone
	}
	return w
}

func newBusinessCalendar(name string, holidays ...*cal.Holiday) *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.Name = name
	c.AddHoliday(holidays...)
	return c
}

func (w *WorkdayCalendar) Country() string { return w.country }

func (w *WorkdayCalendar) IsWorkday(t time.Time) bool {
	switch {
	case w.country == "CN":
		return isWorkdayChina(t)
	case w.business != nil:
		return w.business.IsWorkday(t)
	default:
		return !cal.IsWeekend(t)
	}
}

func isWorkdayChina(t time.Time) bool {
	solar := calendar.NewSolarFromDate(t)
	holiday := HolidayUtil.GetHolidayByYmd(solar.GetYear(), solar.GetMonth(), solar.GetDay())

	if holiday != nil {
		return holiday.IsWork()
	}

	weekday := t.Weekday()
	return weekday != time.Saturday && weekday != time.Sunday
}

// CountWorkdays counts business days between two dates, both inclusive.
func (w *WorkdayCalendar) CountWorkdays(start, end time.Time) int {
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if w.IsWorkday(d) {
			count++
		}
	}
	return count
}
