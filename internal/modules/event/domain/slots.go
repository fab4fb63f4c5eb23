package domain

// Candidate start times are offered on a fixed half-hour grid inside each
// window, independent of the session duration.
const slotStrideMinutes = 30

// GenerateSlots expands availability windows into the discrete start
// instants a participant can pick from. Output preserves window input
// order, with ascending minutes inside each window; it is never globally
// sorted. A window shorter than the duration contributes no slots.
func GenerateSlots(windows []DateWindow, durationMinutes int) ([]TimeSlot, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	var slots []TimeSlot
	for _, window := range windows {
		if err := window.Validate(); err != nil {
			return nil, err
		}

		lastPossibleStart := window.To - durationMinutes
		for minute := window.From; minute <= lastPossibleStart; minute += slotStrideMinutes {
			slots = append(slots, TimeSlot{Date: window.Date, Minute: minute})
		}
	}

	return slots, nil
}
