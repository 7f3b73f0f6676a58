/*
pending.go - Pending-edits cache

PURPOSE:

	Holds notes/allowance edits the UI has staged but not yet persisted. Edits
	are keyed by (crew_id, cycle_number) and merged into the pivot view only at
	read time, so the storage collaborator stays the sole source of truth: a
	successful write is followed by a Discard, and the next pivot read reflects
	storage alone.
*/
package rotation

import (
	"sync"

	"github.com/shopspring/decimal"
)

// PendingKey addresses one staged edit.
type PendingKey struct {
	CrewID      string
	CycleNumber int
}

// PendingEdit carries the editable cycle fields. Nil means "not touched".
type PendingEdit struct {
	Notes       *string
	ReliefRate  *decimal.Decimal
	StandbyRate *decimal.Decimal
	ReliefDays  *int
	StandbyDays *int
}

// PendingEdits is a concurrency-safe staging area. The engine itself is pure;
// this is the one stateful piece, owned by whatever layer serves reads.
type PendingEdits struct {
	mu    sync.RWMutex
	edits map[PendingKey]PendingEdit
}

func NewPendingEdits() *PendingEdits {
	return &PendingEdits{edits: make(map[PendingKey]PendingEdit)}
}

// Stage records or replaces the staged edit for a key.
func (p *PendingEdits) Stage(key PendingKey, edit PendingEdit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.edits[key] = edit
}

// Discard drops the staged edit for a key, if any.
func (p *PendingEdits) Discard(key PendingKey) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.edits, key)
}

// Clear drops every staged edit.
func (p *PendingEdits) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.edits = make(map[PendingKey]PendingEdit)
}

// Len returns the number of staged edits.
func (p *PendingEdits) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.edits)
}

// MergeInto overlays staged edits onto a freshly built pivot. The pivot is a
// per-read projection, so mutating it in place is safe; storage is untouched.
func (p *PendingEdits) MergeInto(pivot map[CrewKey]*PivotedCrew) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.edits) == 0 {
		return
	}

	for _, crew := range pivot {
		for n, cycle := range crew.Cycles {
			edit, ok := p.edits[PendingKey{CrewID: crew.CrewID, CycleNumber: n}]
			if !ok {
				continue
			}
			if edit.Notes != nil {
				cycle.Notes = *edit.Notes
			}
			if edit.ReliefRate != nil {
				cycle.ReliefRate = edit.ReliefRate
			}
			if edit.StandbyRate != nil {
				cycle.StandbyRate = edit.StandbyRate
			}
			if edit.ReliefDays != nil {
				cycle.ReliefDays = edit.ReliefDays
			}
			if edit.StandbyDays != nil {
				cycle.StandbyDays = edit.StandbyDays
			}
			crew.Cycles[n] = cycle
		}
	}
}
