// Package store provides in-memory Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/commission-engine/commercial"
	"github.com/warp/commission-engine/finance"
	"github.com/warp/commission-engine/generic"
	"github.com/warp/commission-engine/health"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	commercial  map[generic.RecordID]commercial.Activity
	health      map[generic.RecordID]health.Activity
	entries     map[entryKey]finance.MonthlyEntry
	salespeople map[generic.SalespersonID]generic.Salesperson
	audit       []generic.AuditEntry
}

type entryKey struct {
	AgencyID generic.AgencyID
	Period   generic.Period
}

// Compile-time checks
var (
	_ commercial.Store         = (*Memory)(nil)
	_ health.Store             = (*Memory)(nil)
	_ finance.Store            = (*Memory)(nil)
	_ generic.AuditLog         = (*Memory)(nil)
	_ generic.SalespersonStore = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		commercial:  make(map[generic.RecordID]commercial.Activity),
		health:      make(map[generic.RecordID]health.Activity),
		entries:     make(map[entryKey]finance.MonthlyEntry),
		salespeople: make(map[generic.SalespersonID]generic.Salesperson),
	}
}

// Reset drops every record.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commercial = make(map[generic.RecordID]commercial.Activity)
	m.health = make(map[generic.RecordID]health.Activity)
	m.entries = make(map[entryKey]finance.MonthlyEntry)
	m.salespeople = make(map[generic.SalespersonID]generic.Salesperson)
	m.audit = nil
	return nil
}

// =============================================================================
// COMMERCIAL
// =============================================================================

func (m *Memory) SaveCommercial(_ context.Context, a commercial.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commercial[a.ID] = a
	return nil
}

func (m *Memory) GetCommercial(_ context.Context, id generic.RecordID) (*commercial.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.commercial[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *Memory) DeleteCommercial(_ context.Context, id generic.RecordID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.commercial[id]; !ok {
		return &generic.NotFoundError{Kind: "commercial activity", ID: string(id)}
	}
	delete(m.commercial, id)
	return nil
}

func (m *Memory) ListCommercialByPeriod(_ context.Context, sp generic.SalespersonID, period generic.Period) ([]commercial.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []commercial.Activity
	for _, a := range m.commercial {
		if a.SalespersonID == sp && a.Period == period {
			result = append(result, a)
		}
	}
	commercial.SortByCreation(result)
	return result, nil
}

func (m *Memory) ListCommercialByYear(_ context.Context, sp generic.SalespersonID, year int) ([]commercial.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []commercial.Activity
	for _, a := range m.commercial {
		if a.SalespersonID == sp && a.Period.Year == year {
			result = append(result, a)
		}
	}
	commercial.SortByCreation(result)
	return result, nil
}

// =============================================================================
// HEALTH
// =============================================================================

func (m *Memory) SaveHealth(_ context.Context, a health.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.health[a.ID] = a
	return nil
}

func (m *Memory) GetHealth(_ context.Context, id generic.RecordID) (*health.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.health[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *Memory) DeleteHealth(_ context.Context, id generic.RecordID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.health[id]; !ok {
		return &generic.NotFoundError{Kind: "health activity", ID: string(id)}
	}
	delete(m.health, id)
	return nil
}

func (m *Memory) ListHealthByPeriod(_ context.Context, sp generic.SalespersonID, period generic.Period) ([]health.Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []health.Activity
	for _, a := range m.health {
		if a.SalespersonID == sp && a.Period == period {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// =============================================================================
// FINANCE
// =============================================================================

func (m *Memory) UpsertMonthlyEntry(_ context.Context, e finance.MonthlyEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entryKey{AgencyID: e.AgencyID, Period: e.Period}] = e
	return nil
}

func (m *Memory) GetMonthlyEntry(_ context.Context, agency generic.AgencyID, period generic.Period) (*finance.MonthlyEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[entryKey{AgencyID: agency, Period: period}]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *Memory) DeleteMonthlyEntry(_ context.Context, agency generic.AgencyID, period generic.Period) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := entryKey{AgencyID: agency, Period: period}
	if _, ok := m.entries[k]; !ok {
		return &generic.NotFoundError{Kind: "monthly entry", ID: period.String()}
	}
	delete(m.entries, k)
	return nil
}

func (m *Memory) ListMonthlyEntries(_ context.Context, agency generic.AgencyID, year int) ([]finance.MonthlyEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []finance.MonthlyEntry
	for k, e := range m.entries {
		if k.AgencyID == agency && k.Period.Year == year {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Period.Before(result[j].Period)
	})
	return result, nil
}

// =============================================================================
// SALESPEOPLE
// =============================================================================

func (m *Memory) SaveSalesperson(_ context.Context, s generic.Salesperson) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.salespeople[s.ID] = s
	return nil
}

func (m *Memory) GetSalesperson(_ context.Context, id generic.SalespersonID) (*generic.Salesperson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.salespeople[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *Memory) ListSalespeople(_ context.Context) ([]generic.Salesperson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]generic.Salesperson, 0, len(m.salespeople))
	for _, s := range m.salespeople {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// =============================================================================
// AUDIT LOG
// =============================================================================

func (m *Memory) AppendAudit(_ context.Context, entry generic.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, entry)
	return nil
}

// QueryAudit returns matching entries, newest first.
func (m *Memory) QueryAudit(_ context.Context, filter generic.AuditFilter) ([]generic.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []generic.AuditEntry
	for i := len(m.audit) - 1; i >= 0; i-- {
		if !filter.Matches(m.audit[i]) {
			continue
		}
		result = append(result, m.audit[i])
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}
