package services

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var businessCal = newBusinessCalendar()

func newBusinessCalendar() *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(us.Holidays...)
	return c
}

// followUpDate lands a suggested follow-up on a working day: counts the
// requested days forward skipping weekends and holidays, so "follow up in
// 7 days" never schedules a Saturday call.
func followUpDate(from time.Time, days int) time.Time {
	if days <= 0 {
		days = 1
	}
	d := from
	for added := 0; added < days; {
		d = d.AddDate(0, 0, 1)
		if businessCal.IsWorkday(d) {
			added++
		}
	}
	return d
}
