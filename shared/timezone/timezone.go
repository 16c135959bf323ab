package timezone

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"termin/config"
)

var (
	location *time.Location
	once     sync.Once
)

// Location returns the application timezone. It is resolved from APP_TIMEZONE on first use
// and falls back to UTC when unset or unknown.
func Location() *time.Location {
	once.Do(func() {
		name := config.Get().App.Timezone
		if name == "" {
			name = "UTC"
		}

		loc, err := time.LoadLocation(name)
		if err != nil {
			log.Error().Err(err).Str("timezone", name).Msg("failed to load timezone, using UTC")

			loc = time.UTC
		}

		location = loc
	})

	return location
}

// Now returns the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(Location())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(Location())
}

// Parse reads a wall clock value as local to the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, Location())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// Clock yields the current instant. Services take one so tests can pin time.
type Clock func() time.Time

func NewClock() Clock {
	return Now
}
