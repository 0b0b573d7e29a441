// Package ids generates ULID identifiers for new documents.
package ids

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a lower-case ULID for the given moment. Monotonic entropy keeps
// ids generated within the same millisecond sortable.
func New(now time.Time) string {
	mu.Lock()
	defer mu.Unlock()
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(now.UTC()), entropy).String())
}
