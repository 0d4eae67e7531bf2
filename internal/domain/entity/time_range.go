package entity

// TimeRangePreset defines how many calendar points to request and at what granularity.
// Exactly one of Days, Months or Years is set.
type TimeRangePreset struct {
	ID     string `json:"id"`
	Days   int    `json:"days,omitempty"`
	Months int    `json:"months,omitempty"`
	Years  int    `json:"years,omitempty"`
}

// Preset identifiers offered by the widget
const (
	Range7Days   = "7D"
	Range1Month  = "1M"
	Range1Year   = "1Y"
	RangeCustom  = "custom"
	DefaultRange = Range1Month
)

// DefaultPresets returns the presets in display order
func DefaultPresets() []TimeRangePreset {
	return []TimeRangePreset{
		{ID: Range7Days, Days: 7},
		{ID: Range1Month, Days: 30},
		{ID: Range1Year, Months: 12},
	}
}

// PresetByID looks up a default preset
func PresetByID(id string) (TimeRangePreset, bool) {
	for _, p := range DefaultPresets() {
		if p.ID == id {
			return p, true
		}
	}
	return TimeRangePreset{}, false
}

// Granularities reports how many of Days, Months and Years are set
func (p TimeRangePreset) Granularities() int {
	n := 0
	for _, v := range []int{p.Days, p.Months, p.Years} {
		if v != 0 {
			n++
		}
	}
	return n
}

// Valid reports whether the preset has no negative counts and at most one granularity.
// A preset with every count at zero is valid but yields no dates.
func (p TimeRangePreset) Valid() bool {
	if p.Days < 0 || p.Months < 0 || p.Years < 0 {
		return false
	}
	return p.Granularities() <= 1
}
