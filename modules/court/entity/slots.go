package entity

// AvailableTimeSlots is the fixed daily enumeration of bookable slot start
// times. Each slot lasts one hour.
var AvailableTimeSlots = []string{
	"09:00", "10:00", "11:00", "12:00", "13:00", "14:00",
	"15:00", "16:00", "17:00", "18:00", "19:00", "20:00",
}

// IsValidTimeSlot reports whether t is a member of the configured slot set.
func IsValidTimeSlot(t string) bool {
	for _, slot := range AvailableTimeSlots {
		if slot == t {
			return true
		}
	}
	return false
}

// TimeSlotStatus is one availability entry for a court on a given date.
// A slot is bookable only when both flags are false.
type TimeSlotStatus struct {
	Time       string `json:"time"`
	IsBooked   bool   `json:"is_booked"`
	IsPlayTime bool   `json:"is_play_time"`
}
