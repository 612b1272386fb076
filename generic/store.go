/*
store.go - Audit log interface

PURPOSE:
  Record stores live next to their domain (commercial.Store, health.Store,
  finance.Store). This file holds the one persistence concern shared by all
  of them: the audit log of who changed what.

APPEND-ONLY CONTRACT:
  The AuditLog is append-only. Records may be edited and deleted by the
  dashboard, but every mutation leaves an entry here.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - api/handlers.go: Writes an entry after every mutation
*/
package generic

import (
	"context"
	"time"
)

// =============================================================================
// AUDIT LOG - Tracks who did what when
// =============================================================================

// AuditEntry records who did what when.
type AuditEntry struct {
	ID        string
	Timestamp time.Time
	ActorID   string
	Action    AuditAction
	Kind      string // "commercial", "health", "finance", "salesperson"
	RecordID  string
	Period    string
	Payload   map[string]any
}

type AuditAction string

const (
	AuditCreated  AuditAction = "created"
	AuditUpdated  AuditAction = "updated"
	AuditDeleted  AuditAction = "deleted"
	AuditScenario AuditAction = "scenario_loaded"
)

// AuditLog stores audit entries. Append-only.
type AuditLog interface {
	AppendAudit(ctx context.Context, entry AuditEntry) error
	QueryAudit(ctx context.Context, filter AuditFilter) ([]AuditEntry, error)
}

type AuditFilter struct {
	Kind     string
	RecordID string
	Actions  []AuditAction
	Limit    int
}

// Matches reports whether e passes the filter (Limit is ignored).
func (f AuditFilter) Matches(e AuditEntry) bool {
	if f.Kind != "" && e.Kind != f.Kind {
		return false
	}
	if f.RecordID != "" && e.RecordID != f.RecordID {
		return false
	}
	if len(f.Actions) == 0 {
		return true
	}
	for _, a := range f.Actions {
		if a == e.Action {
			return true
		}
	}
	return false
}

// =============================================================================
// SALESPEOPLE - Owners of commercial and health activities
// =============================================================================

// Salesperson is the person a month's activities are evaluated for.
// Credentials and roles are handled outside this engine.
type Salesperson struct {
	ID        SalespersonID
	Name      string
	Email     string
	AgencyID  AgencyID
	CreatedAt time.Time
}

// SalespersonStore persists salespeople.
type SalespersonStore interface {
	SaveSalesperson(ctx context.Context, s Salesperson) error
	GetSalesperson(ctx context.Context, id SalespersonID) (*Salesperson, error)
	ListSalespeople(ctx context.Context) ([]Salesperson, error)
}
