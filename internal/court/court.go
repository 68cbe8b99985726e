package court

import (
	"fmt"
	"time"
)

// Fixed facility identifiers used by the municipal Appointlet account.
const (
	Organization = 130103
	Timezone     = "Europe/Madrid"
)

// Court is one of the two bookable surfaces. The set is fixed at
// configuration time and not user-editable.
type Court struct {
	Key      string
	Name     string
	Bookable int
	Service  int
	Minutes  int
}

var (
	Padel = Court{
		Key:      "padel",
		Name:     "Pàdel",
		Bookable: 194780,
		Service:  570818,
		Minutes:  90,
	}
	Frontenis = Court{
		Key:      "frontenis",
		Name:     "Frontenis",
		Bookable: 195640,
		Service:  570852,
		Minutes:  60,
	}
)

// All lists the courts in display order.
func All() []Court { return []Court{Padel, Frontenis} }

// ByKey resolves a court from its stable key ("padel" or "frontenis").
func ByKey(key string) (Court, bool) {
	for _, c := range All() {
		if c.Key == key {
			return c, true
		}
	}
	return Court{}, false
}

// Duration is the fixed slot length for this court.
func (c Court) Duration() time.Duration {
	return time.Duration(c.Minutes) * time.Minute
}

// AvailabilityPath is the availability-query path relative to the API base.
func (c Court) AvailabilityPath() string {
	return fmt.Sprintf("/bookables/%d/available_times?service=%d", c.Bookable, c.Service)
}

// Location returns the facility timezone. It is a fixed constant, so a
// load failure indicates a broken tzdata install and is treated as fatal
// by callers at startup.
func Location() (*time.Location, error) {
	return time.LoadLocation(Timezone)
}
