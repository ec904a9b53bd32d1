// Package audit defines the audit trail contract for document
// operations. Implementations persist records inside the caller's
// transaction, so an audit row commits or rolls back with the posting
// it describes.
package audit

import (
	"context"

	"abacus/internal/core/id"
)

// Action identifies the audited operation.
type Action string

const (
	ActionCreate   Action = "create"
	ActionPost     Action = "post"
	ActionPayment  Action = "payment"
	ActionWriteOff Action = "write_off"
)

// Recorder persists audit records.
type Recorder interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action Action, changes map[string]any) error
}
