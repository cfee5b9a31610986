package resolver

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FallbackIDPrefix marks event ids that were synthesized rather than sent
// by the upstream platform.
const FallbackIDPrefix = "evt_"

// IDGenerator produces event ids for payloads that carry none.
type IDGenerator interface {
	NewEventID() string
}

// RandomIDGenerator builds ids of the form evt_<unix-ms>_<32 hex chars>.
// Ids are never reused, so retries of an unidentifiable event are stored
// as distinct rows.
type RandomIDGenerator struct {
	now func() time.Time
}

// NewRandomIDGenerator returns a generator reading the clock from now.
func NewRandomIDGenerator(now func() time.Time) *RandomIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &RandomIDGenerator{now: now}
}

func (g *RandomIDGenerator) NewEventID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return FallbackIDPrefix + strconv.FormatInt(g.now().UnixMilli(), 10) + "_" + suffix
}
