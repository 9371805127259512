package content

import (
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

// CalendarEvent is one VEVENT from an RFC 5545 file. Times are nil for
// all-day events.
type CalendarEvent struct {
	Summary     *string `json:"summary"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	StartDate   *string `json:"startDate"`
	StartTime   *string `json:"startTime"`
	EndDate     *string `json:"endDate"`
	EndTime     *string `json:"endTime"`
	Organizer   *string `json:"organizer"`
	UID         *string `json:"uid"`
}

// CalendarAppointment is the subset of appointment fields a calendar event
// can fill.
type CalendarAppointment struct {
	Doctor    *string `json:"doctor"`
	Specialty *string `json:"specialty"`
	Location  *string `json:"location"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Notes     *string `json:"notes"`
}

var icsTimeLayouts = []string{"20060102T150405", "20060102T1504"}

// ParseICS returns every event in text. A file that cannot be parsed yields an
// empty list and an error log on logger (logging.Default when nil).
func ParseICS(text string, logger *logging.Logger) []CalendarEvent {
	if logger == nil {
		logger = logging.Default()
	}
	cal, err := ics.ParseCalendar(strings.NewReader(normalizeLineEndings(text)))
	if err != nil {
		logger.Error("failed to parse calendar file", "error", err)
		return []CalendarEvent{}
	}

	events := cal.Events()
	out := make([]CalendarEvent, 0, len(events))
	for _, ev := range events {
		startDate, startTime := eventTime(ev.GetProperty(ics.ComponentPropertyDtStart))
		endDate, endTime := eventTime(ev.GetProperty(ics.ComponentPropertyDtEnd))

		organizer := textProperty(ev, ics.ComponentPropertyOrganizer)
		if organizer != nil {
			trimmed := *organizer
			if len(trimmed) >= 7 && strings.EqualFold(trimmed[:7], "mailto:") {
				trimmed = trimmed[7:]
			}
			organizer = &trimmed
		}

		out = append(out, CalendarEvent{
			Summary:     textProperty(ev, ics.ComponentPropertySummary),
			Location:    textProperty(ev, ics.ComponentPropertyLocation),
			Description: textProperty(ev, ics.ComponentPropertyDescription),
			StartDate:   startDate,
			StartTime:   startTime,
			EndDate:     endDate,
			EndTime:     endTime,
			Organizer:   organizer,
			UID:         textProperty(ev, ics.ComponentPropertyUniqueId),
		})
	}
	return out
}

// EventToAppointment maps an event onto appointment fields. Calendar files
// carry no specialty.
func EventToAppointment(ev CalendarEvent) CalendarAppointment {
	return CalendarAppointment{
		Doctor:   ev.Summary,
		Location: ev.Location,
		Date:     ev.StartDate,
		Time:     ev.StartTime,
		Notes:    ev.Description,
	}
}

func normalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(strings.TrimSpace(text), "\n", "\r\n") + "\r\n"
}

func textProperty(ev *ics.VEvent, name ics.ComponentProperty) *string {
	prop := ev.GetProperty(name)
	if prop == nil {
		return nil
	}
	v := unescapeText(strings.TrimSpace(prop.Value))
	if v == "" {
		return nil
	}
	return &v
}

var icsTextUnescaper = strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)

func unescapeText(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return icsTextUnescaper.Replace(s)
}

// eventTime reads DTSTART/DTEND as wall-clock values in the event's own zone.
// VALUE=DATE and bare eight-digit values are all-day.
func eventTime(prop *ics.IANAProperty) (date, clock *string) {
	if prop == nil {
		return nil, nil
	}
	raw := strings.TrimSpace(prop.Value)
	if raw == "" {
		return nil, nil
	}

	allDay := len(raw) == 8
	if vals, ok := prop.ICalParameters[string(ics.ParameterValue)]; ok && len(vals) > 0 && strings.EqualFold(vals[0], "DATE") {
		allDay = true
	}
	if allDay {
		t, err := time.Parse("20060102", raw[:min(len(raw), 8)])
		if err != nil {
			return nil, nil
		}
		d := t.Format("2006-01-02")
		return &d, nil
	}

	loc := time.UTC
	if tzids, ok := prop.ICalParameters[string(ics.ParameterTzid)]; ok && len(tzids) > 0 {
		if l, err := time.LoadLocation(tzids[0]); err == nil {
			loc = l
		}
	}
	value := strings.TrimSuffix(raw, "Z")
	for _, layout := range icsTimeLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err != nil {
			continue
		}
		d := t.Format("2006-01-02")
		c := t.Format("15:04")
		return &d, &c
	}
	return nil, nil
}
