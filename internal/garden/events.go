package garden

// Action tags an event as a placement or a removal.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// Reason explains why a removal happened. Addition events carry no reason.
type Reason string

const (
	// ReasonDuplicate: the object was already planted and is being replanted.
	ReasonDuplicate Reason = "duplicate"
	// ReasonForcedDisplacement: the occupant was evicted because no free slot
	// existed for an incoming object.
	ReasonForcedDisplacement Reason = "forced_displacement"
	// ReasonOldest: the oldest occupant was evicted to stay under capacity.
	ReasonOldest Reason = "oldest"
	// ReasonManual: a direct remove request.
	ReasonManual Reason = "manual"
	// ReasonCleared: the whole garden was cleared.
	ReasonCleared Reason = "cleared"
	// ReasonIdleCleanup: removed by the prune-oldest maintenance operation.
	ReasonIdleCleanup Reason = "idle_cleanup"
)

// Event describes one placement or removal. Every mutation produces an
// ordered list of these; the order within one operation is part of the
// contract with the downstream consumer.
type Event struct {
	ObjectID string `json:"object_id"`
	SlotID   string `json:"slot_id"`
	Category string `json:"category"`
	Action   Action `json:"action"`
	Reason   Reason `json:"reason,omitempty"`
}

// Dest distinguishes notifications produced by single-object operations from
// multi-object ones, so the consumer can render them differently.
type Dest string

const (
	DestSingle Dest = "single"
	DestBatch  Dest = "batch"
)

// Emitter receives the complete ordered event list of one mutation. Delivery
// is best effort: implementations must not block the caller, and a delivery
// failure never affects the state change that produced the events.
type Emitter interface {
	Emit(dest Dest, events []Event)
}
