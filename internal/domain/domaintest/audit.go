package domaintest

import (
	"context"
	"sync"

	"abacus/internal/core/id"
	"abacus/internal/domain/audit"
)

// AuditRecord captures one recorded audit action.
type AuditRecord struct {
	EntityType string
	EntityID   id.ID
	Action     audit.Action
	Changes    map[string]any
}

// FakeAudit is an in-memory audit.Recorder.
type FakeAudit struct {
	mu      sync.Mutex
	Records []AuditRecord
}

// NewFakeAudit creates an empty fake audit trail.
func NewFakeAudit() *FakeAudit {
	return &FakeAudit{}
}

func (f *FakeAudit) Record(_ context.Context, entityType string, entityID id.ID, action audit.Action, changes map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Records = append(f.Records, AuditRecord{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Changes:    changes,
	})
	return nil
}

// ByEntity returns the records for one entity in recording order.
func (f *FakeAudit) ByEntity(entityType string, entityID id.ID) []AuditRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []AuditRecord
	for _, r := range f.Records {
		if r.EntityType == entityType && r.EntityID == entityID {
			out = append(out, r)
		}
	}
	return out
}
