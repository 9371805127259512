package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

const twoEventCalendar = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Riverside Clinic//Scheduling//EN
BEGIN:VEVENT
UID:appt-1001@riverside.example
DTSTAMP:20260301T120000Z
DTSTART:20260317T143000Z
DTEND:20260317T151500Z
SUMMARY:Dr. Anika Patel - Cardiology follow-up
LOCATION:Riverside Heart Center
DESCRIPTION:Bring your medication list
ORGANIZER;CN=Front Desk:mailto:frontdesk@riverside.example
END:VEVENT
BEGIN:VEVENT
UID:appt-1002@riverside.example
DTSTAMP:20260301T120000Z
DTSTART;VALUE=DATE:20260402
DTEND;VALUE=DATE:20260403
SUMMARY:Lab work
END:VEVENT
END:VCALENDAR`

func TestParseICS(t *testing.T) {
	events := ParseICS(twoEventCalendar, logging.Discard())
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, ptr("Dr. Anika Patel - Cardiology follow-up"), first.Summary)
	assert.Equal(t, ptr("Riverside Heart Center"), first.Location)
	assert.Equal(t, ptr("Bring your medication list"), first.Description)
	assert.Equal(t, ptr("2026-03-17"), first.StartDate)
	assert.Equal(t, ptr("14:30"), first.StartTime)
	assert.Equal(t, ptr("2026-03-17"), first.EndDate)
	assert.Equal(t, ptr("15:15"), first.EndTime)
	assert.Equal(t, ptr("frontdesk@riverside.example"), first.Organizer)
	assert.Equal(t, ptr("appt-1001@riverside.example"), first.UID)

	allDay := events[1]
	assert.Equal(t, ptr("Lab work"), allDay.Summary)
	assert.Equal(t, ptr("2026-04-02"), allDay.StartDate)
	assert.Nil(t, allDay.StartTime)
	assert.Nil(t, allDay.EndTime)
	assert.Nil(t, allDay.Location)
	assert.Nil(t, allDay.Organizer)
}

func TestParseICSInvalidInput(t *testing.T) {
	assert.Empty(t, ParseICS("definitely not a calendar", logging.Discard()))
	assert.Empty(t, ParseICS("", logging.Discard()))
}

func TestEventToAppointment(t *testing.T) {
	events := ParseICS(twoEventCalendar, logging.Discard())
	require.NotEmpty(t, events)

	appt := EventToAppointment(events[0])
	assert.Equal(t, events[0].Summary, appt.Doctor)
	assert.Equal(t, events[0].Location, appt.Location)
	assert.Equal(t, ptr("2026-03-17"), appt.Date)
	assert.Equal(t, ptr("14:30"), appt.Time)
	assert.Equal(t, events[0].Description, appt.Notes)
	assert.Nil(t, appt.Specialty)
}

func TestUnescapeText(t *testing.T) {
	assert.Equal(t, "Suite 4, Floor 2; east wing", unescapeText(`Suite 4\, Floor 2\; east wing`))
	assert.Equal(t, "line one\nline two", unescapeText(`line one\nline two`))
	assert.Equal(t, "plain", unescapeText("plain"))
}
