package patient

import "time"

// NextAppointment derives the patient's next-appointment date from an
// attendance collection: the first attendance in collection order that is
// unattended and dated strictly after now, or nil when there is none.
// Collection order wins over chronological order when several qualify.
func NextAppointment(attendances []*Attendance, now time.Time) *time.Time {
	for _, a := range attendances {
		if a.Attended {
			continue
		}
		if a.DateOfAttendance.After(now) {
			d := a.DateOfAttendance
			return &d
		}
	}
	return nil
}
