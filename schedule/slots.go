package schedule

const (
	firstSlotHour = 7
	lastSlotHour  = 22
)

var compactSlots = []TimeOfDay{At(8, 0), At(10, 0), At(12, 0), At(14, 0), At(16, 0), At(18, 0), At(20, 0)}

// Slots returns the hourly grid rows: 07:00 through 22:00, or the seven
// even-hour rows of the compact view.
func Slots(compact bool) []TimeOfDay {
	if compact {
		out := make([]TimeOfDay, len(compactSlots))
		copy(out, compactSlots)
		return out
	}
	out := make([]TimeOfDay, 0, lastSlotHour-firstSlotHour+1)
	for h := firstSlotHour; h <= lastSlotHour; h++ {
		out = append(out, At(h, 0))
	}
	return out
}
