// Package resolver maintains the per-role address resolution state machines
// for one trip form session. Each role (start, pickup, dropoff) moves through
// Idle → Dirty → Pending → Idle/Unresolved as the address is edited, looked
// up, and resolved. A monotonically increasing per-role sequence number
// supersedes stale lookups: a completion is applied only if its captured
// sequence still matches the latest for that role.
package resolver

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"tripgateway/internal/geocode"
	"tripgateway/internal/trips/transport"
	"tripgateway/platform/apperr"
	"tripgateway/platform/logger"

	"golang.org/x/sync/semaphore"
)

// DefaultDebounce is the delay between the last address edit and the
// automatic lookup it triggers.
const DefaultDebounce = 1500 * time.Millisecond

// Geocoder resolves a free-text address to candidate matches.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]geocode.Match, error)
}

// State is the resolution state of one role.
type State int

const (
	// StateIdle means the role's address and coordinates agree.
	StateIdle State = iota
	// StateDirty means the address was edited and coordinates were cleared.
	StateDirty
	// StatePending means a lookup is in flight.
	StatePending
	// StateUnresolved means the last lookup found no match or failed.
	StateUnresolved
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDirty:
		return "dirty"
	case StatePending:
		return "pending"
	case StateUnresolved:
		return "unresolved"
	}
	return "unknown"
}

// LocationInput is the immutable per-role form value. Edits and lookup
// completions produce new values rather than mutating in place.
type LocationInput struct {
	Role    transport.Role
	Address string
	Lat     *float64
	Lng     *float64
}

// Resolved reports whether both coordinates are present and finite.
func (l LocationInput) Resolved() bool {
	return finite(l.Lat) && finite(l.Lng)
}

func (l LocationInput) withAddress(address string) LocationInput {
	return LocationInput{Role: l.Role, Address: address}
}

func (l LocationInput) withCoordinates(lat, lng float64) LocationInput {
	return LocationInput{Role: l.Role, Address: l.Address, Lat: &lat, Lng: &lng}
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

type roleState struct {
	input LocationInput
	state State
	seq   uint64
	timer *time.Timer
}

// Session owns the three role state machines for one form. It is private to
// the form session; all mutation happens through its own methods.
type Session struct {
	mu       sync.Mutex
	roles    map[transport.Role]*roleState
	geocoder Geocoder
	log      *logger.Logger
	debounce time.Duration

	// outbound bounds in-flight geocode calls to one at a time; the
	// external service is rate sensitive.
	outbound *semaphore.Weighted
}

// Option configures a Session.
type Option func(*Session)

// WithDebounce overrides the debounce delay. Intended for tests.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) { s.debounce = d }
}

// NewSession creates a form session with all three roles empty and Dirty.
func NewSession(geocoder Geocoder, log *logger.Logger, opts ...Option) *Session {
	s := &Session{
		roles:    make(map[transport.Role]*roleState, len(transport.RoleOrder)),
		geocoder: geocoder,
		log:      log,
		debounce: DefaultDebounce,
		outbound: semaphore.NewWeighted(1),
	}
	for _, role := range transport.RoleOrder {
		s.roles[role] = &roleState{
			input: LocationInput{Role: role},
			state: StateDirty,
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetAddress records an address edit for a role: coordinates are cleared, the
// role moves to Dirty, any in-flight lookup is superseded, and the role's
// debounce timer restarts. Other roles' timers are untouched.
func (s *Session) SetAddress(role transport.Role, address string) error {
	if !role.Valid() {
		return apperr.BadRequest(fmt.Sprintf("unknown location role %q", role))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rs := s.roles[role]
	rs.input = rs.input.withAddress(address)
	rs.state = StateDirty
	rs.seq++

	if rs.timer != nil {
		rs.timer.Stop()
		rs.timer = nil
	}

	if strings.TrimSpace(address) == "" {
		return nil
	}

	rs.timer = time.AfterFunc(s.debounce, func() {
		// Timer-driven lookups have no caller to report to; failures leave
		// the role Unresolved and surface at consolidation time.
		_ = s.Lookup(context.Background(), role)
	})

	return nil
}

// SetCoordinates records a manual coordinate edit, marking the role resolved.
func (s *Session) SetCoordinates(role transport.Role, lat, lng float64) error {
	if !role.Valid() {
		return apperr.BadRequest(fmt.Sprintf("unknown location role %q", role))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rs := s.roles[role]
	rs.input = rs.input.withCoordinates(lat, lng)
	rs.seq++
	if rs.input.Resolved() {
		rs.state = StateIdle
	} else {
		rs.state = StateUnresolved
	}
	if rs.timer != nil {
		rs.timer.Stop()
		rs.timer = nil
	}
	return nil
}

// Lookup dispatches a geocode lookup for the role's current address. It is
// the shared path for debounce expiry, explicit triggers, and field blur.
// An empty address is a no-op. The completion is discarded if the address
// changed, or a newer lookup was dispatched, while this one was in flight.
func (s *Session) Lookup(ctx context.Context, role transport.Role) error {
	if !role.Valid() {
		return apperr.BadRequest(fmt.Sprintf("unknown location role %q", role))
	}

	s.mu.Lock()
	rs := s.roles[role]
	address := rs.input.Address
	if strings.TrimSpace(address) == "" {
		s.mu.Unlock()
		return nil
	}
	if rs.timer != nil {
		rs.timer.Stop()
		rs.timer = nil
	}
	rs.seq++
	dispatched := rs.seq
	rs.state = StatePending
	s.mu.Unlock()

	if err := s.outbound.Acquire(ctx, 1); err != nil {
		s.fail(role, dispatched)
		return err
	}
	matches, err := s.geocoder.Search(ctx, address)
	s.outbound.Release(1)

	if err != nil {
		s.log.Error("geocode lookup failed", "role", string(role), "error", err)
		s.fail(role, dispatched)
		return err
	}

	s.log.GeocodeEvent(string(role), address, len(matches) > 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	if rs.seq != dispatched {
		// Superseded by a newer edit or lookup while in flight.
		return nil
	}

	if len(matches) == 0 {
		rs.state = StateUnresolved
		return nil
	}

	rs.input = rs.input.withCoordinates(matches[0].Lat, matches[0].Lng)
	rs.state = StateIdle
	return nil
}

// fail transitions the role to Unresolved unless the dispatch was superseded.
func (s *Session) fail(role transport.Role, dispatched uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rs := s.roles[role]
	if rs.seq == dispatched {
		rs.state = StateUnresolved
	}
}

// Location returns a copy of the role's current input.
func (s *Session) Location(role transport.Role) LocationInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roles[role].input
}

// StateOf returns the role's current resolution state.
func (s *Session) StateOf(role transport.Role) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roles[role].state
}

// Consolidate performs the blocking pre-submission pass: every role that is
// not yet resolved but has a non-empty address is looked up in canonical role
// order, strictly one at a time. Roles still unresolved afterwards are
// reported together in a single validation error naming each of them.
func (s *Session) Consolidate(ctx context.Context) error {
	for _, role := range transport.RoleOrder {
		s.mu.Lock()
		input := s.roles[role].input
		s.mu.Unlock()

		if input.Resolved() || strings.TrimSpace(input.Address) == "" {
			continue
		}

		// Lookup failures are deliberately not returned here; the role stays
		// Unresolved and is collected below with any other failures.
		_ = s.Lookup(ctx, role)

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	if unresolved := s.unresolvedRoles(); len(unresolved) > 0 {
		return apperr.Validation(
			"unresolved locations: " + strings.Join(unresolved, ", "),
		).WithDetails(unresolved)
	}

	return nil
}

func (s *Session) unresolvedRoles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var unresolved []string
	for _, role := range transport.RoleOrder {
		if !s.roles[role].input.Resolved() {
			unresolved = append(unresolved, string(role))
		}
	}
	return unresolved
}

// dailyStartTime is the fixed local start-of-day appended to the trip date.
const dailyStartTime = "T08:00:00"

// BuildRequest constructs the trip plan payload. It fails if any role is
// unresolved, the cycle hours are out of range, or the date is malformed —
// a request is never built with missing or non-finite coordinates.
func (s *Session) BuildRequest(cycleUsedHours float64, startDate string) (transport.PlanTripRequest, error) {
	if unresolved := s.unresolvedRoles(); len(unresolved) > 0 {
		return transport.PlanTripRequest{}, apperr.Validation(
			"unresolved locations: " + strings.Join(unresolved, ", "),
		).WithDetails(unresolved)
	}

	if cycleUsedHours < 0 || cycleUsedHours > 70 {
		return transport.PlanTripRequest{}, apperr.Validation(
			fmt.Sprintf("current_cycle_used_hours must be between 0 and 70, got %v", cycleUsedHours),
		)
	}

	if _, err := time.Parse("2006-01-02", startDate); err != nil {
		return transport.PlanTripRequest{}, apperr.Validation(
			fmt.Sprintf("invalid start date %q, expected YYYY-MM-DD", startDate),
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return transport.PlanTripRequest{
		Start:                 payload(s.roles[transport.RoleStart].input),
		Pickup:                payload(s.roles[transport.RolePickup].input),
		Dropoff:               payload(s.roles[transport.RoleDropoff].input),
		CurrentCycleUsedHours: cycleUsedHours,
		StartDatetime:         startDate + dailyStartTime,
	}, nil
}

func payload(input LocationInput) transport.LocationPayload {
	return transport.LocationPayload{
		Lat:     *input.Lat,
		Lng:     *input.Lng,
		Address: input.Address,
	}
}

// Close stops any pending debounce timers. The session is not usable after.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rs := range s.roles {
		if rs.timer != nil {
			rs.timer.Stop()
			rs.timer = nil
		}
	}
}
