package entities

import "time"

// Reference master data. Maintained outside this engine; the engine only
// reads these entities through repository ports.

type GoverningBody struct {
	ID   int64
	Name string
}

type Conference struct {
	ID              int64
	GoverningBodyID int64
	Name            string
}

type Meeting struct {
	ID           int64
	ConferenceID int64
	Date         *time.Time
	Name         string
}

type Politician struct {
	ID          int64
	Name        string
	NameReading string
}

type ParliamentaryGroup struct {
	ID              int64
	GoverningBodyID int64
	Name            string
	Active          bool
}

// Membership is a half-open-or-unbounded affiliation interval. EndDate, when
// present, must be >= StartDate.
type Membership struct {
	ID           int64
	PoliticianID int64
	GroupID      int64
	StartDate    time.Time
	EndDate      *time.Time
}

// ActiveOn reports whether the membership covers the given date. This is the
// single home of the interval predicate; callers must not re-derive it.
func (m Membership) ActiveOn(date time.Time) bool {
	if date.Before(m.StartDate) {
		return false
	}
	if m.EndDate != nil && date.After(*m.EndDate) {
		return false
	}
	return true
}
