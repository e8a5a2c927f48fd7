package tracker

import (
	"time"

	"github.com/daylist-app/daylist/internal/datekey"
)

// Clock supplies the tracker's notion of time: completion timestamps
// and the current calendar day. Injected so tests can pin both.
type Clock interface {
	// Now returns the current instant, used for completedAt stamps.
	Now() time.Time

	// Today returns the current local calendar day.
	Today() datekey.Key
}

// SystemClock is the production Clock backed by the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Today returns the key for the current local day.
func (SystemClock) Today() datekey.Key { return datekey.Today(time.Now()) }
