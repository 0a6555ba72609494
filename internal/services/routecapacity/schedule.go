package routecapacity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xelth-com/freshroute/internal/utils"
)

// Weekdays is a set of delivery weekdays indexed by time.Weekday.
type Weekdays [7]bool

// EveryDay is used for routes without configured delivery days.
var EveryDay = Weekdays{true, true, true, true, true, true, true}

var weekdayNames = map[string]time.Weekday{
	"DOM": time.Sunday, "DOMINGO": time.Sunday, "SUN": time.Sunday, "SUNDAY": time.Sunday,
	"SEG": time.Monday, "SEGUNDA": time.Monday, "MON": time.Monday, "MONDAY": time.Monday,
	"TER": time.Tuesday, "TERCA": time.Tuesday, "TUE": time.Tuesday, "TUESDAY": time.Tuesday,
	"QUA": time.Wednesday, "QUARTA": time.Wednesday, "WED": time.Wednesday, "WEDNESDAY": time.Wednesday,
	"QUI": time.Thursday, "QUINTA": time.Thursday, "THU": time.Thursday, "THURSDAY": time.Thursday,
	"SEX": time.Friday, "SEXTA": time.Friday, "FRI": time.Friday, "FRIDAY": time.Friday,
	"SAB": time.Saturday, "SABADO": time.Saturday, "SAT": time.Saturday, "SATURDAY": time.Saturday,
}

var rangeWords = map[string]bool{"-": true, "A": true, "ATE": true, "TO": true}

func weekdayToken(tok string) (time.Weekday, bool) {
	if d, ok := weekdayNames[tok]; ok {
		return d, true
	}
	if n, err := strconv.Atoi(tok); err == nil && n >= 0 && n <= 6 {
		return time.Weekday(n), true
	}
	return 0, false
}

// ParseDeliveryDays reads lists such as "seg, qua, sex", "Segunda-feira a
// Sexta", "mon-fri" or "1,3,5" (0 is Sunday). Empty or unreadable input
// means every day; ok is false only for unreadable input.
func ParseDeliveryDays(raw string) (days Weekdays, ok bool) {
	s := utils.NormalizeKey(raw)
	if s == "" {
		return EveryDay, true
	}
	s = strings.ReplaceAll(s, "-FEIRA", "")
	s = strings.ReplaceAll(s, "-", " - ")
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})

	found := false
	for i, tok := range tokens {
		if rangeWords[tok] && i > 0 && i+1 < len(tokens) {
			from, okFrom := weekdayToken(tokens[i-1])
			to, okTo := weekdayToken(tokens[i+1])
			if okFrom && okTo {
				for d := from; d != to; d = (d + 1) % 7 {
					days[d] = true
				}
			}
			continue
		}
		if d, isDay := weekdayToken(tok); isDay {
			days[d] = true
			found = true
		}
	}
	if !found {
		return EveryDay, false
	}
	return days, true
}

// ParseCutoff reads "HH:MM" (or "HHhMM") into hour and minute.
func ParseCutoff(raw string) (hour, minute int, err error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Replace(s, "h", ":", 1)
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid cutoff %q", raw)
	}
	if parts[1] == "" {
		parts[1] = "0"
	}
	hour, errH := strconv.Atoi(parts[0])
	minute, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid cutoff %q", raw)
	}
	return hour, minute, nil
}

// Schedule decides which calendar days a route can be delivered on.
// HasCutoff is false when the route has no configured cutoff time.
type Schedule struct {
	Days         Weekdays
	HasCutoff    bool
	CutoffHour   int
	CutoffMinute int
}

// Eligible reports whether day can still be booked at now. A day D needs an
// order before the cutoff on D-1; without a cutoff D must be after today.
func (s Schedule) Eligible(day, now time.Time) bool {
	day = utils.StartOfDay(day)
	if !s.Days[day.Weekday()] {
		return false
	}
	prev := utils.AddDays(day, -1)
	if !s.HasCutoff {
		today := utils.StartOfDay(now.In(day.Location()))
		return !today.After(prev)
	}
	deadline := time.Date(prev.Year(), prev.Month(), prev.Day(), s.CutoffHour, s.CutoffMinute, 0, 0, day.Location())
	return now.Before(deadline)
}

// Next returns the first eligible day strictly after from, within horizon days.
func (s Schedule) Next(from, now time.Time, horizon int) (time.Time, bool) {
	from = utils.StartOfDay(from)
	for i := 1; i <= horizon; i++ {
		candidate := utils.AddDays(from, i)
		if s.Eligible(candidate, now) {
			return candidate, true
		}
	}
	return time.Time{}, false
}
