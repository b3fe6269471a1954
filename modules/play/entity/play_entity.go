package entity

import "time"

// MaxParticipantsPerPlaySlot caps sign-ups per session occurrence.
const MaxParticipantsPerPlaySlot = 12

// WeeksToDisplay is how many upcoming occurrences per template are advertised
// and open for sign-up.
const WeeksToDisplay = 4

// PlaySlotTemplate is one recurring weekly communal session window. During the
// window both courts are claimed by the session and regular booking is closed.
type PlaySlotTemplate struct {
	Key       string       `json:"key"`
	Label     string       `json:"label"`
	DayOfWeek time.Weekday `json:"day_of_week"`
	TimeRange string       `json:"time_range"` // "HH:MM - HH:MM"
}

var templates = []PlaySlotTemplate{
	{Key: "fri-16-20", Label: "Friday Play", DayOfWeek: time.Friday, TimeRange: "16:00 - 20:00"},
	{Key: "sat-16-20", Label: "Saturday Play", DayOfWeek: time.Saturday, TimeRange: "16:00 - 20:00"},
	{Key: "sun-16-20", Label: "Sunday Play", DayOfWeek: time.Sunday, TimeRange: "16:00 - 20:00"},
}

// Templates returns all configured session templates.
func Templates() []PlaySlotTemplate {
	out := make([]PlaySlotTemplate, len(templates))
	copy(out, templates)
	return out
}

// FindTemplate looks a template up by key. Returns nil when the key is unknown.
func FindTemplate(key string) *PlaySlotTemplate {
	for i := range templates {
		if templates[i].Key == key {
			t := templates[i]
			return &t
		}
	}
	return nil
}

// PlaySignUp is one participant's claim to a session occurrence.
type PlaySignUp struct {
	ID         string    `db:"id" json:"id"`
	SlotKey    string    `db:"slot_key" json:"slot_key"`
	Date       string    `db:"date" json:"date"`
	UserID     string    `db:"user_id" json:"user_id"`
	UserName   string    `db:"user_name" json:"user_name"`
	UserEmail  string    `db:"user_email" json:"user_email"`
	SignedUpAt time.Time `db:"signed_up_at" json:"signed_up_at"`
}
