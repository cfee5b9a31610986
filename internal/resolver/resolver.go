// Package resolver maps a schema-drifting webhook payload onto the fixed
// set of fields stored for every camera event.
//
// Each field is resolved from an ordered list of candidate paths. The first
// path holding a present value wins; later paths are never consulted, so
// ambiguity between unrelated fields sharing a name is settled by order alone.
package resolver

import (
	"strings"
	"time"

	"github.com/PratikDhanave/vms-webhook-ingest/internal/models"
	"github.com/PratikDhanave/vms-webhook-ingest/internal/payload"
)

// Present reports whether a candidate value counts as a real value and
// returns its trimmed string form. Null, the literals "null" and
// "undefined", and strings that are empty after trimming are absent.
// Zero and false are present.
func Present(v any) (string, bool) {
	s, ok := payload.Scalar(v)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	switch s {
	case "", "null", "undefined":
		return "", false
	}
	return s, true
}

// FirstPresent returns the first value along paths accepted by Present.
func FirstPresent(tree payload.Tree, paths []payload.Path) (string, bool) {
	for _, p := range paths {
		v, ok := tree.Lookup(p)
		if !ok {
			continue
		}
		if s, ok := Present(v); ok {
			return s, true
		}
	}
	return "", false
}

// Resolver extracts an EventRecord from a payload tree. The zero value is
// not usable; construct with New.
type Resolver struct {
	candidates Candidates
	ids        IDGenerator
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCandidates replaces the default candidate path lists.
func WithCandidates(c Candidates) Option {
	return func(r *Resolver) { r.candidates = c }
}

// WithIDGenerator replaces the fallback event id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Resolver) { r.ids = g }
}

// New returns a Resolver using DefaultCandidates and random fallback ids.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		candidates: DefaultCandidates(),
		ids:        NewRandomIDGenerator(time.Now),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve extracts every field from tree. It never fails: fields without an
// acceptable candidate are left nil, and a missing event id is synthesized.
func (r *Resolver) Resolve(tree payload.Tree) models.EventRecord {
	rec := models.EventRecord{RawPayload: tree.Raw()}

	rec.EventID, rec.EventIDSynthesized = r.EventID(tree)
	rec.CameraID = optional(FirstPresent(tree, r.candidates.CameraID))
	rec.CameraName = optional(FirstPresent(tree, r.candidates.CameraName))
	rec.Scenario = optional(FirstPresent(tree, r.candidates.Scenario))

	if raw, ok := FirstPresent(tree, r.candidates.Timestamp); ok {
		rec.RawTimestamp = &raw
		if ts, ok := NormalizeTimestamp(raw); ok {
			rec.EventTS = &ts
		}
	}

	return rec
}

// EventID returns the payload's own event identifier, or a synthesized one
// when no candidate is present. The second result is true when synthesized.
func (r *Resolver) EventID(tree payload.Tree) (string, bool) {
	if id, ok := FirstPresent(tree, r.candidates.EventID); ok {
		return id, false
	}
	return r.ids.NewEventID(), true
}

func optional(s string, ok bool) *string {
	if !ok {
		return nil
	}
	return &s
}
