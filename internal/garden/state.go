package garden

import "time"

// Occupant is one placed object in a state snapshot.
type Occupant struct {
	ObjectID string    `json:"object_id"`
	Name     string    `json:"name"`
	SlotID   string    `json:"slot_id"`
	Category string    `json:"category"`
	PlacedAt time.Time `json:"placed_at"`
}

// Snapshot is a defensive copy of the garden state, safe to hand to callers
// while mutations continue.
type Snapshot struct {
	Occupants     []Occupant           `json:"occupants"`
	Slots         map[string]string    `json:"slots"` // slot ID -> object ID
	AdditionOrder []string             `json:"addition_order"`
	Timestamps    map[string]time.Time `json:"timestamps"`
	Version       uint64               `json:"version"`
	LastModified  time.Time            `json:"last_modified"`
}

// Count returns the number of occupants in the snapshot.
func (s Snapshot) Count() int { return len(s.Occupants) }

// occupant is the engine's internal placement record.
type occupant struct {
	objectID string
	slotID   string
}

// snapshotLocked deep-copies the mutable state. Caller holds e.mu.
func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		Occupants:     make([]Occupant, 0, len(e.occupants)),
		Slots:         make(map[string]string, len(e.occupants)),
		AdditionOrder: append([]string(nil), e.additionOrder...),
		Timestamps:    make(map[string]time.Time, len(e.timestamps)),
		Version:       e.version,
		LastModified:  e.lastModified,
	}
	for _, o := range e.occupants {
		cat, _ := e.cat.CategoryOf(o.slotID)
		name := ""
		if def, ok := e.cat.DefinitionOf(o.objectID); ok {
			name = def.Name
		}
		snap.Occupants = append(snap.Occupants, Occupant{
			ObjectID: o.objectID,
			Name:     name,
			SlotID:   o.slotID,
			Category: cat,
			PlacedAt: e.timestamps[o.objectID],
		})
		snap.Slots[o.slotID] = o.objectID
	}
	for id, ts := range e.timestamps {
		snap.Timestamps[id] = ts
	}
	return snap
}
