// Package garden implements the placement engine: the single owner of the
// mutable garden state. Objects are planted into named slots with a cascading
// fallback (replace a duplicate, evict the oldest occupant at capacity, or
// forcibly displace an occupant when no permitted slot is free), and every
// state change is described by an ordered event list handed to an Emitter.
//
// All operations serialize on one mutex: each runs to completion before any
// other mutation (including the idle monitor's callback) can observe state.
package garden

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/pottingshed/verdant/internal/catalog"
)

// Tuning constants. MaxCapacity bounds the occupant count regardless of how
// many slots the catalog declares.
const (
	DefaultMaxCapacity = 22
	DefaultIdleTimeout = 5 * time.Minute

	// The idle action is suppressed while the occupant count is inside
	// [IdleProtectMin, IdleProtectMax]. Empty and well-populated gardens
	// are reset; small ones someone is actively tending are left alone.
	IdleProtectMin = 1
	IdleProtectMax = 6
)

// ObjectRef describes one object affected by an operation.
type ObjectRef struct {
	ObjectID string `json:"object_id"`
	Name     string `json:"name"`
	SlotID   string `json:"slot_id"`
	Category string `json:"category"`
	Reason   Reason `json:"reason,omitempty"` // removals only
}

// Result is the outcome of one engine operation.
type Result struct {
	OK      bool        `json:"ok"`
	Message string      `json:"message"`
	Added   []ObjectRef `json:"added,omitempty"`
	Removed []ObjectRef `json:"removed,omitempty"`
	Failed  []string    `json:"failed,omitempty"` // object IDs skipped in a batch
	State   Snapshot    `json:"state"`
}

// Config holds the engine's collaborators and tunables. Zero fields fall
// back to defaults: the built-in catalog, math/rand selection, wall-clock
// time, DefaultMaxCapacity, and the catalog's default reinit list.
type Config struct {
	Catalog     *catalog.Catalog
	Emitter     Emitter
	Intn        func(n int) int  // uniform choice in [0,n); injectable for tests
	Now         func() time.Time // clock; injectable for tests
	MaxCapacity int
	ReinitList  []string
}

// Engine owns the garden state. Create one with NewEngine; the zero value is
// not usable.
type Engine struct {
	mu sync.Mutex

	cat         *catalog.Catalog
	emitter     Emitter
	intn        func(int) int
	now         func() time.Time
	maxCapacity int
	reinitList  []string
	idle        *IdleMonitor

	occupants     []occupant
	additionOrder []string
	timestamps    map[string]time.Time
	version       uint64
	lastModified  time.Time
}

// NewEngine creates an empty garden engine.
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		cat:         cfg.Catalog,
		emitter:     cfg.Emitter,
		intn:        cfg.Intn,
		now:         cfg.Now,
		maxCapacity: cfg.MaxCapacity,
		reinitList:  cfg.ReinitList,
		timestamps:  make(map[string]time.Time),
	}
	if e.cat == nil {
		e.cat = catalog.Default()
	}
	if e.intn == nil {
		e.intn = rand.IntN
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.maxCapacity <= 0 {
		e.maxCapacity = DefaultMaxCapacity
	}
	if e.reinitList == nil {
		e.reinitList = append([]string(nil), catalog.DefaultReinitObjects...)
	}
	return e
}

// BindIdleMonitor makes the engine restart the monitor's countdown on every
// mutation. Call before the engine starts receiving operations.
func (e *Engine) BindIdleMonitor(m *IdleMonitor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.idle = m
}

// Catalog returns the engine's immutable catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// State returns a defensive copy of the current garden state.
func (e *Engine) State() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Add plants a single object. If the object is already planted it is
// replanted (one duplicate removal, then a fresh placement). When no
// permitted slot is free, an occupant is displaced to make room; when the
// garden is at capacity and nothing was evicted yet, the oldest occupant is
// evicted first.
func (e *Engine) Add(objectID string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	events, added, removed, err := e.addLocked(objectID)
	if err != nil {
		return Result{}, err
	}
	e.bumpLocked()
	e.emitLocked(DestSingle, events)

	return Result{
		OK:      true,
		Message: fmt.Sprintf("planted %s (%s) at %s", added.Name, added.ObjectID, added.SlotID),
		Added:   []ObjectRef{added},
		Removed: removed,
		State:   e.snapshotLocked(),
	}, nil
}

// Remove evicts a single planted object.
func (e *Engine) Remove(objectID string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.evictLocked(objectID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrNotFound, objectID)
	}
	ev := e.removalEvent(o, ReasonManual)
	e.bumpLocked()
	e.emitLocked(DestSingle, []Event{ev})

	ref := refFromEvent(ev, e.cat)
	return Result{
		OK:      true,
		Message: fmt.Sprintf("removed %s (%s) from %s", ref.Name, ref.ObjectID, ref.SlotID),
		Removed: []ObjectRef{ref},
		State:   e.snapshotLocked(),
	}, nil
}

// AddBatch applies the add algorithm to each ID in order, under a single
// version bump. With clearFirst, every current occupant is evicted before the
// list is processed. Unknown IDs are skipped and reported in Result.Failed;
// they never abort the rest of the batch. The caller-facing boundary is
// responsible for deduplicating the input list.
func (e *Engine) AddBatch(objectIDs []string, clearFirst bool) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var events []Event
	var removed []ObjectRef
	if clearFirst {
		evs := e.clearAllLocked()
		events = append(events, evs...)
		for _, ev := range evs {
			removed = append(removed, refFromEvent(ev, e.cat))
		}
	}

	var added []ObjectRef
	var failed []string
	for _, id := range objectIDs {
		evs, ref, rm, err := e.addLocked(id)
		if err != nil {
			failed = append(failed, id)
			continue
		}
		events = append(events, evs...)
		added = append(added, ref)
		removed = append(removed, rm...)
	}

	e.bumpLocked()
	e.emitLocked(DestBatch, events)

	msg := fmt.Sprintf("garden set: %d planted", len(added))
	if len(failed) > 0 {
		msg = fmt.Sprintf("%s, %d unknown", msg, len(failed))
	}
	return Result{
		OK:      true,
		Message: msg,
		Added:   added,
		Removed: removed,
		Failed:  failed,
		State:   e.snapshotLocked(),
	}, nil
}

// Clear evicts every occupant under a single version bump.
func (e *Engine) Clear() (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	events := e.clearAllLocked()
	removed := make([]ObjectRef, 0, len(events))
	for _, ev := range events {
		removed = append(removed, refFromEvent(ev, e.cat))
	}
	e.bumpLocked()
	e.emitLocked(DestBatch, events)

	return Result{
		OK:      true,
		Message: fmt.Sprintf("garden cleared (%d removed)", len(removed)),
		Removed: removed,
		State:   e.snapshotLocked(),
	}, nil
}

// RemoveOldestHalf evicts the floor(n/2) oldest occupants. With zero or one
// occupant it is a no-op: no version bump, no events.
func (e *Engine) RemoveOldestHalf() (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.occupants) / 2
	if n == 0 {
		return Result{
			OK:      true,
			Message: "nothing to prune",
			State:   e.snapshotLocked(),
		}, nil
	}

	victims := append([]string(nil), e.additionOrder[:n]...)
	events := make([]Event, 0, n)
	removed := make([]ObjectRef, 0, n)
	for _, id := range victims {
		o, _ := e.evictLocked(id)
		ev := e.removalEvent(o, ReasonIdleCleanup)
		events = append(events, ev)
		removed = append(removed, refFromEvent(ev, e.cat))
	}
	e.bumpLocked()
	e.emitLocked(DestBatch, events)

	return Result{
		OK:      true,
		Message: fmt.Sprintf("pruned %d oldest occupants", n),
		Removed: removed,
		State:   e.snapshotLocked(),
	}, nil
}

// Reinitialize clears the garden and plants the default object list, all
// under one version bump and one combined event emission.
func (e *Engine) Reinitialize() (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reinitializeLocked(), nil
}

// HandleIdle is the idle monitor's default action: reinitialize the garden
// unless the occupant count is inside the protection band, in which case
// nothing happens and the countdown stays stopped until the next mutation.
func (e *Engine) HandleIdle() {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.occupants)
	if n >= IdleProtectMin && n <= IdleProtectMax {
		return
	}
	e.reinitializeLocked()
}

func (e *Engine) reinitializeLocked() Result {
	events := e.clearAllLocked()
	removed := make([]ObjectRef, 0, len(events))
	for _, ev := range events {
		removed = append(removed, refFromEvent(ev, e.cat))
	}

	var added []ObjectRef
	var failed []string
	for _, id := range e.reinitList {
		evs, ref, rm, err := e.addLocked(id)
		if err != nil {
			failed = append(failed, id)
			continue
		}
		events = append(events, evs...)
		added = append(added, ref)
		removed = append(removed, rm...)
	}

	e.bumpLocked()
	e.emitLocked(DestBatch, events)

	return Result{
		OK:      true,
		Message: fmt.Sprintf("garden reset to defaults (%d planted)", len(added)),
		Added:   added,
		Removed: removed,
		Failed:  failed,
		State:   e.snapshotLocked(),
	}
}

// addLocked runs the full add algorithm for one object. Caller holds e.mu
// and is responsible for the version bump and emission.
func (e *Engine) addLocked(objectID string) (events []Event, added ObjectRef, removed []ObjectRef, err error) {
	def, ok := e.cat.DefinitionOf(objectID)
	if !ok {
		return nil, ObjectRef{}, nil, fmt.Errorf("%w: %q", ErrUnknownObject, objectID)
	}

	evicted := false

	// Duplicate replace: evict the existing placement before the slot
	// search so its slot is free for reselection.
	if o, was := e.evictLocked(objectID); was {
		ev := e.removalEvent(o, ReasonDuplicate)
		events = append(events, ev)
		removed = append(removed, refFromEvent(ev, e.cat))
		evicted = true
	}

	occupied := make(map[string]string, len(e.occupants))
	for _, o := range e.occupants {
		occupied[o.slotID] = o.objectID
	}

	// Free slots, preferred category first.
	var preferredFree, otherFree []string
	for _, cat := range def.Permitted {
		for _, s := range e.cat.SlotsOf(cat) {
			if _, taken := occupied[s]; taken {
				continue
			}
			if def.HasPreferred() && cat == def.Preferred {
				preferredFree = append(preferredFree, s)
			} else {
				otherFree = append(otherFree, s)
			}
		}
	}

	var slotID string
	switch {
	case len(preferredFree) > 0:
		slotID = preferredFree[e.intn(len(preferredFree))]
	case len(otherFree) > 0:
		slotID = otherFree[e.intn(len(otherFree))]
	default:
		// Forced displacement. Prefer evicting from the preferred
		// category; otherwise draw from every slot across the object's
		// permitted categories. The pool never extends beyond them.
		var pool []string
		if def.HasPreferred() {
			for _, s := range e.cat.SlotsOf(def.Preferred) {
				if _, taken := occupied[s]; taken {
					pool = append(pool, s)
				}
			}
		}
		if len(pool) == 0 {
			for _, cat := range def.Permitted {
				pool = append(pool, e.cat.SlotsOf(cat)...)
			}
		}
		slotID = pool[e.intn(len(pool))]
		if victimID, taken := occupied[slotID]; taken && victimID != objectID {
			o, _ := e.evictLocked(victimID)
			ev := e.removalEvent(o, ReasonForcedDisplacement)
			events = append(events, ev)
			removed = append(removed, refFromEvent(ev, e.cat))
			evicted = true
		}
	}

	// Capacity guard: if the garden is still full and nothing was evicted
	// during this call, the oldest occupant goes.
	if len(e.occupants) >= e.maxCapacity && !evicted {
		oldest := e.additionOrder[0]
		o, _ := e.evictLocked(oldest)
		ev := e.removalEvent(o, ReasonOldest)
		events = append(events, ev)
		removed = append(removed, refFromEvent(ev, e.cat))
	}

	e.occupants = append(e.occupants, occupant{objectID: objectID, slotID: slotID})
	e.additionOrder = append(e.additionOrder, objectID)
	e.timestamps[objectID] = e.now()

	cat, _ := e.cat.CategoryOf(slotID)
	addEv := Event{ObjectID: objectID, SlotID: slotID, Category: cat, Action: ActionAdd}
	events = append(events, addEv)
	added = ObjectRef{ObjectID: objectID, Name: def.Name, SlotID: slotID, Category: cat}

	return events, added, removed, nil
}

// evictLocked removes objectID from all three state sequences and returns
// its placement record. Caller holds e.mu.
func (e *Engine) evictLocked(objectID string) (occupant, bool) {
	idx := -1
	for i, o := range e.occupants {
		if o.objectID == objectID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return occupant{}, false
	}
	o := e.occupants[idx]
	e.occupants = append(e.occupants[:idx], e.occupants[idx+1:]...)
	for i, id := range e.additionOrder {
		if id == objectID {
			e.additionOrder = append(e.additionOrder[:i], e.additionOrder[i+1:]...)
			break
		}
	}
	delete(e.timestamps, objectID)
	return o, true
}

// clearAllLocked evicts every occupant in placement order with reason
// cleared. Caller holds e.mu.
func (e *Engine) clearAllLocked() []Event {
	events := make([]Event, 0, len(e.occupants))
	for len(e.occupants) > 0 {
		o, _ := e.evictLocked(e.occupants[0].objectID)
		events = append(events, e.removalEvent(o, ReasonCleared))
	}
	return events
}

func (e *Engine) removalEvent(o occupant, reason Reason) Event {
	cat, _ := e.cat.CategoryOf(o.slotID)
	return Event{
		ObjectID: o.objectID,
		SlotID:   o.slotID,
		Category: cat,
		Action:   ActionRemove,
		Reason:   reason,
	}
}

// bumpLocked advances the version, stamps the mutation time, and restarts
// the idle countdown. Exactly one bump per operation, batches included.
func (e *Engine) bumpLocked() {
	e.version++
	e.lastModified = e.now()
	if e.idle != nil {
		e.idle.Touch()
	}
}

// emitLocked hands the operation's complete event list to the emitter. The
// emitter contract is non-blocking, so holding e.mu here keeps the global
// emission order aligned with version order.
func (e *Engine) emitLocked(dest Dest, events []Event) {
	if e.emitter == nil || len(events) == 0 {
		return
	}
	e.emitter.Emit(dest, events)
}

func refFromEvent(ev Event, cat *catalog.Catalog) ObjectRef {
	name := ""
	if def, ok := cat.DefinitionOf(ev.ObjectID); ok {
		name = def.Name
	}
	return ObjectRef{
		ObjectID: ev.ObjectID,
		Name:     name,
		SlotID:   ev.SlotID,
		Category: ev.Category,
		Reason:   ev.Reason,
	}
}
