/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements every persistence interface the engine needs using SQLite.
  Summaries (KPIs, eligibility, commissions, projections) are never stored:
  handlers recompute them from the rows returned here on every read.

INTERFACES IMPLEMENTED:
  commercial.Store:         Commercial activities
  health.Store:             Health activities
  finance.Store:            Agency monthly entries and partner drawings
  generic.SalespersonStore: Salespeople
  generic.AuditLog:         Append-only mutation history

KEY TABLES:
  commercial_activities: One row per commercial act, keyed by entry period
  health_activities:     One row per health act, keyed by entry period
  monthly_entries:       One row per (agency, year, month)
  partner_drawings:      Drawings of a monthly entry, one row per partner
  salespeople:           Owners of activities
  audit_log:             Who changed what when

MONEY:
  Amounts are stored as TEXT decimal strings. decimal.Decimal implements
  driver.Valuer and sql.Scanner, so values round-trip without float loss.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The pool is capped at one
  connection so ":memory:" databases are shared by every query.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.

USAGE:
  store, err := sqlite.New("./data/commission.db")
  if err != nil {
      return err
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - generic/store/memory.go: In-memory implementation for testing
  - api/handlers.go: The only caller in production
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/warp/commission-engine/commercial"
	"github.com/warp/commission-engine/finance"
	"github.com/warp/commission-engine/generic"
	"github.com/warp/commission-engine/health"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Compile-time checks
var (
	_ commercial.Store         = (*Store)(nil)
	_ health.Store             = (*Store)(nil)
	_ finance.Store            = (*Store)(nil)
	_ generic.AuditLog         = (*Store)(nil)
	_ generic.SalespersonStore = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, eris.Wrap(err, "failed to open database")
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to migrate database")
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS salespeople (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		agency_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	-- Commercial activities. period_year/period_month is the entry month,
	-- never the contract's effective date.
	CREATE TABLE IF NOT EXISTS commercial_activities (
		id TEXT PRIMARY KEY,
		salesperson_id TEXT NOT NULL,
		period_year INTEGER NOT NULL,
		period_month INTEGER NOT NULL,
		act_type TEXT NOT NULL,
		client_name TEXT NOT NULL DEFAULT '',
		contract_ref TEXT NOT NULL DEFAULT '',
		effective_date TEXT,
		product_type TEXT NOT NULL DEFAULT '',
		company TEXT NOT NULL DEFAULT '',
		annual_premium TEXT NOT NULL DEFAULT '0',
		potential_commission TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Hot path: monthly KPI and eligibility
	CREATE INDEX IF NOT EXISTS idx_commercial_salesperson_period
		ON commercial_activities(salesperson_id, period_year, period_month);

	CREATE TABLE IF NOT EXISTS health_activities (
		id TEXT PRIMARY KEY,
		salesperson_id TEXT NOT NULL,
		period_year INTEGER NOT NULL,
		period_month INTEGER NOT NULL,
		act_type TEXT NOT NULL,
		client_name TEXT NOT NULL DEFAULT '',
		contract_ref TEXT NOT NULL DEFAULT '',
		effective_date TEXT,
		annual_premium TEXT NOT NULL DEFAULT '0',
		weighted_premium TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_health_salesperson_period
		ON health_activities(salesperson_id, period_year, period_month);

	-- One entry per agency and month
	CREATE TABLE IF NOT EXISTS monthly_entries (
		agency_id TEXT NOT NULL,
		period_year INTEGER NOT NULL,
		period_month INTEGER NOT NULL,
		pc_commissions TEXT NOT NULL DEFAULT '0',
		life_commissions TEXT NOT NULL DEFAULT '0',
		brokerage_commissions TEXT NOT NULL DEFAULT '0',
		pc_exceptional_profits TEXT NOT NULL DEFAULT '0',
		life_exceptional_profits TEXT NOT NULL DEFAULT '0',
		other_exceptional_profits TEXT NOT NULL DEFAULT '0',
		expenses TEXT NOT NULL DEFAULT '0',
		notes TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (agency_id, period_year, period_month)
	);

	CREATE TABLE IF NOT EXISTS partner_drawings (
		agency_id TEXT NOT NULL,
		period_year INTEGER NOT NULL,
		period_month INTEGER NOT NULL,
		partner TEXT NOT NULL,
		amount TEXT NOT NULL,
		PRIMARY KEY (agency_id, period_year, period_month, partner),
		FOREIGN KEY (agency_id, period_year, period_month)
			REFERENCES monthly_entries(agency_id, period_year, period_month)
			ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		actor_id TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL,
		kind TEXT NOT NULL,
		record_id TEXT NOT NULL DEFAULT '',
		period TEXT NOT NULL DEFAULT '',
		payload_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_audit_kind_record
		ON audit_log(kind, record_id);
	CREATE INDEX IF NOT EXISTS idx_audit_timestamp
		ON audit_log(timestamp DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// COMMERCIAL STORE (commercial.Store interface)
// =============================================================================

const commercialColumns = `id, salesperson_id, period_year, period_month, act_type,
	client_name, contract_ref, effective_date, product_type, company,
	annual_premium, potential_commission, created_at, updated_at`

// SaveCommercial inserts or replaces a commercial activity.
func (s *Store) SaveCommercial(ctx context.Context, a commercial.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO commercial_activities (` + commercialColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			act_type = excluded.act_type,
			client_name = excluded.client_name,
			contract_ref = excluded.contract_ref,
			effective_date = excluded.effective_date,
			product_type = excluded.product_type,
			company = excluded.company,
			annual_premium = excluded.annual_premium,
			potential_commission = excluded.potential_commission,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.SalespersonID, a.Period.Year, int(a.Period.Month), a.ActType,
		a.ClientName, a.ContractRef, formatDate(a.EffectiveDate), a.Product, a.Company,
		a.AnnualPremium.String(), a.PotentialCommission.String(),
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	if err != nil {
		return eris.Wrapf(err, "failed to save commercial activity %s", a.ID)
	}
	return nil
}

// GetCommercial returns nil when the activity does not exist.
func (s *Store) GetCommercial(ctx context.Context, id generic.RecordID) (*commercial.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acts, err := s.queryCommercial(ctx,
		"SELECT "+commercialColumns+" FROM commercial_activities WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(acts) == 0 {
		return nil, nil
	}
	return &acts[0], nil
}

func (s *Store) DeleteCommercial(ctx context.Context, id generic.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteByID(ctx, "commercial_activities", "commercial activity", string(id))
}

func (s *Store) ListCommercialByPeriod(ctx context.Context, sp generic.SalespersonID, period generic.Period) ([]commercial.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + commercialColumns + ` FROM commercial_activities
		WHERE salesperson_id = ? AND period_year = ? AND period_month = ?
		ORDER BY created_at ASC, id ASC`
	return s.queryCommercial(ctx, query, sp, period.Year, int(period.Month))
}

func (s *Store) ListCommercialByYear(ctx context.Context, sp generic.SalespersonID, year int) ([]commercial.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + commercialColumns + ` FROM commercial_activities
		WHERE salesperson_id = ? AND period_year = ?
		ORDER BY created_at ASC, id ASC`
	return s.queryCommercial(ctx, query, sp, year)
}

func (s *Store) queryCommercial(ctx context.Context, query string, args ...any) ([]commercial.Activity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query commercial activities")
	}
	defer rows.Close()

	var acts []commercial.Activity
	for rows.Next() {
		var (
			a                    commercial.Activity
			month                int
			effective            sql.NullString
			createdAt, updatedAt string
		)
		err := rows.Scan(
			&a.ID, &a.SalespersonID, &a.Period.Year, &month, &a.ActType,
			&a.ClientName, &a.ContractRef, &effective, &a.Product, &a.Company,
			&a.AnnualPremium, &a.PotentialCommission, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, eris.Wrap(err, "failed to scan commercial activity")
		}
		a.Period.Month = time.Month(month)
		a.EffectiveDate = parseDate(effective)
		a.CreatedAt = parseTime(createdAt)
		a.UpdatedAt = parseTime(updatedAt)
		acts = append(acts, a)
	}
	return acts, rows.Err()
}

// =============================================================================
// HEALTH STORE (health.Store interface)
// =============================================================================

const healthColumns = `id, salesperson_id, period_year, period_month, act_type,
	client_name, contract_ref, effective_date, annual_premium, weighted_premium,
	created_at, updated_at`

func (s *Store) SaveHealth(ctx context.Context, a health.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO health_activities (` + healthColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			act_type = excluded.act_type,
			client_name = excluded.client_name,
			contract_ref = excluded.contract_ref,
			effective_date = excluded.effective_date,
			annual_premium = excluded.annual_premium,
			weighted_premium = excluded.weighted_premium,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.SalespersonID, a.Period.Year, int(a.Period.Month), a.ActType,
		a.ClientName, a.ContractRef, formatDate(a.EffectiveDate),
		a.AnnualPremium.String(), a.WeightedPremium.String(),
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	if err != nil {
		return eris.Wrapf(err, "failed to save health activity %s", a.ID)
	}
	return nil
}

func (s *Store) GetHealth(ctx context.Context, id generic.RecordID) (*health.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acts, err := s.queryHealth(ctx,
		"SELECT "+healthColumns+" FROM health_activities WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(acts) == 0 {
		return nil, nil
	}
	return &acts[0], nil
}

func (s *Store) DeleteHealth(ctx context.Context, id generic.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteByID(ctx, "health_activities", "health activity", string(id))
}

func (s *Store) ListHealthByPeriod(ctx context.Context, sp generic.SalespersonID, period generic.Period) ([]health.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + healthColumns + ` FROM health_activities
		WHERE salesperson_id = ? AND period_year = ? AND period_month = ?
		ORDER BY created_at ASC, id ASC`
	return s.queryHealth(ctx, query, sp, period.Year, int(period.Month))
}

func (s *Store) queryHealth(ctx context.Context, query string, args ...any) ([]health.Activity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query health activities")
	}
	defer rows.Close()

	var acts []health.Activity
	for rows.Next() {
		var (
			a                    health.Activity
			month                int
			effective            sql.NullString
			createdAt, updatedAt string
		)
		err := rows.Scan(
			&a.ID, &a.SalespersonID, &a.Period.Year, &month, &a.ActType,
			&a.ClientName, &a.ContractRef, &effective,
			&a.AnnualPremium, &a.WeightedPremium, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, eris.Wrap(err, "failed to scan health activity")
		}
		a.Period.Month = time.Month(month)
		a.EffectiveDate = parseDate(effective)
		a.CreatedAt = parseTime(createdAt)
		a.UpdatedAt = parseTime(updatedAt)
		acts = append(acts, a)
	}
	return acts, rows.Err()
}

// =============================================================================
// FINANCE STORE (finance.Store interface)
// =============================================================================

const entryColumns = `agency_id, period_year, period_month,
	pc_commissions, life_commissions, brokerage_commissions,
	pc_exceptional_profits, life_exceptional_profits, other_exceptional_profits,
	expenses, notes, updated_at`

// UpsertMonthlyEntry replaces the entry for (agency, year, month) and its
// drawings atomically.
func (s *Store) UpsertMonthlyEntry(ctx context.Context, e finance.MonthlyEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO monthly_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(agency_id, period_year, period_month) DO UPDATE SET
			pc_commissions = excluded.pc_commissions,
			life_commissions = excluded.life_commissions,
			brokerage_commissions = excluded.brokerage_commissions,
			pc_exceptional_profits = excluded.pc_exceptional_profits,
			life_exceptional_profits = excluded.life_exceptional_profits,
			other_exceptional_profits = excluded.other_exceptional_profits,
			expenses = excluded.expenses,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`
	in := e.Income
	_, err = tx.ExecContext(ctx, query,
		e.AgencyID, e.Period.Year, int(e.Period.Month),
		in.PCCommissions.String(), in.LifeCommissions.String(), in.BrokerageCommissions.String(),
		in.PCExceptionalProfits.String(), in.LifeExceptionalProfits.String(), in.OtherExceptionalProfits.String(),
		e.Expenses.String(), e.Notes, formatTime(e.UpdatedAt),
	)
	if err != nil {
		return eris.Wrapf(err, "failed to upsert monthly entry %s", e.Period)
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM partner_drawings WHERE agency_id = ? AND period_year = ? AND period_month = ?",
		e.AgencyID, e.Period.Year, int(e.Period.Month),
	)
	if err != nil {
		return eris.Wrap(err, "failed to clear drawings")
	}

	for _, partner := range e.Drawings.Partners() {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO partner_drawings (agency_id, period_year, period_month, partner, amount)
			VALUES (?, ?, ?, ?, ?)`,
			e.AgencyID, e.Period.Year, int(e.Period.Month), partner, e.Drawings[partner].String(),
		)
		if err != nil {
			return eris.Wrapf(err, "failed to save drawing for %s", partner)
		}
	}

	return eris.Wrap(tx.Commit(), "failed to commit monthly entry")
}

func (s *Store) GetMonthlyEntry(ctx context.Context, agency generic.AgencyID, period generic.Period) (*finance.MonthlyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + entryColumns + ` FROM monthly_entries
		WHERE agency_id = ? AND period_year = ? AND period_month = ?`
	entries, err := s.queryEntries(ctx, query, agency, period.Year, int(period.Month))
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	if err := s.attachDrawings(ctx, agency, period.Year, entries); err != nil {
		return nil, err
	}
	return &entries[0], nil
}

func (s *Store) DeleteMonthlyEntry(ctx context.Context, agency generic.AgencyID, period generic.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM monthly_entries WHERE agency_id = ? AND period_year = ? AND period_month = ?",
		agency, period.Year, int(period.Month),
	)
	if err != nil {
		return eris.Wrapf(err, "failed to delete monthly entry %s", period)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &generic.NotFoundError{Kind: "monthly entry", ID: period.String()}
	}
	return nil
}

func (s *Store) ListMonthlyEntries(ctx context.Context, agency generic.AgencyID, year int) ([]finance.MonthlyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + entryColumns + ` FROM monthly_entries
		WHERE agency_id = ? AND period_year = ?
		ORDER BY period_month ASC`
	entries, err := s.queryEntries(ctx, query, agency, year)
	if err != nil {
		return nil, err
	}
	if err := s.attachDrawings(ctx, agency, year, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]finance.MonthlyEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query monthly entries")
	}
	defer rows.Close()

	var entries []finance.MonthlyEntry
	for rows.Next() {
		var (
			e         finance.MonthlyEntry
			month     int
			updatedAt string
		)
		in := &e.Income
		err := rows.Scan(
			&e.AgencyID, &e.Period.Year, &month,
			&in.PCCommissions, &in.LifeCommissions, &in.BrokerageCommissions,
			&in.PCExceptionalProfits, &in.LifeExceptionalProfits, &in.OtherExceptionalProfits,
			&e.Expenses, &e.Notes, &updatedAt,
		)
		if err != nil {
			return nil, eris.Wrap(err, "failed to scan monthly entry")
		}
		e.Period.Month = time.Month(month)
		e.UpdatedAt = parseTime(updatedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// attachDrawings loads the year's drawings in one query once the entry rows
// are closed; the pool holds a single connection.
func (s *Store) attachDrawings(ctx context.Context, agency generic.AgencyID, year int, entries []finance.MonthlyEntry) error {
	if len(entries) == 0 {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT period_month, partner, amount FROM partner_drawings
		WHERE agency_id = ? AND period_year = ?`,
		agency, year,
	)
	if err != nil {
		return eris.Wrap(err, "failed to query drawings")
	}
	defer rows.Close()

	byMonth := make(map[time.Month]finance.Drawings)
	for rows.Next() {
		var (
			month   int
			partner string
			amount  decimal.Decimal
		)
		if err := rows.Scan(&month, &partner, &amount); err != nil {
			return eris.Wrap(err, "failed to scan drawing")
		}
		m := time.Month(month)
		if byMonth[m] == nil {
			byMonth[m] = make(finance.Drawings)
		}
		byMonth[m][partner] = amount
	}

	for i := range entries {
		entries[i].Drawings = byMonth[entries[i].Period.Month]
	}
	return rows.Err()
}

// =============================================================================
// SALESPERSON STORE
// =============================================================================

func (s *Store) SaveSalesperson(ctx context.Context, sp generic.Salesperson) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO salespeople (id, name, email, agency_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			agency_id = excluded.agency_id
	`

	createdAt := sp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, query,
		sp.ID, sp.Name, sp.Email, sp.AgencyID, formatTime(createdAt),
	)
	return eris.Wrapf(err, "failed to save salesperson %s", sp.ID)
}

// GetSalesperson retrieves a salesperson by ID.
func (s *Store) GetSalesperson(ctx context.Context, id generic.SalespersonID) (*generic.Salesperson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		sp        generic.Salesperson
		email     sql.NullString
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, agency_id, created_at FROM salespeople WHERE id = ?",
		id,
	).Scan(&sp.ID, &sp.Name, &email, &sp.AgencyID, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "failed to get salesperson %s", id)
	}

	sp.Email = email.String
	sp.CreatedAt = parseTime(createdAt)
	return &sp, nil
}

// ListSalespeople returns all salespeople ordered by ID.
func (s *Store) ListSalespeople(ctx context.Context) ([]generic.Salesperson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, agency_id, created_at FROM salespeople ORDER BY id",
	)
	if err != nil {
		return nil, eris.Wrap(err, "failed to list salespeople")
	}
	defer rows.Close()

	people := []generic.Salesperson{}
	for rows.Next() {
		var (
			sp        generic.Salesperson
			email     sql.NullString
			createdAt string
		)
		if err := rows.Scan(&sp.ID, &sp.Name, &email, &sp.AgencyID, &createdAt); err != nil {
			return nil, eris.Wrap(err, "failed to scan salesperson")
		}
		sp.Email = email.String
		sp.CreatedAt = parseTime(createdAt)
		people = append(people, sp)
	}
	return people, rows.Err()
}

// =============================================================================
// AUDIT LOG (generic.AuditLog interface)
// =============================================================================

func (s *Store) AppendAudit(ctx context.Context, entry generic.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payload sql.NullString
	if len(entry.Payload) > 0 {
		b, err := json.Marshal(entry.Payload)
		if err != nil {
			return eris.Wrap(err, "failed to encode audit payload")
		}
		payload = sql.NullString{String: string(b), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, timestamp, actor_id, action, kind, record_id, period, payload_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, formatTime(entry.Timestamp), entry.ActorID, entry.Action,
		entry.Kind, entry.RecordID, entry.Period, payload,
	)
	return eris.Wrap(err, "failed to append audit entry")
}

// QueryAudit returns matching entries, newest first.
func (s *Store) QueryAudit(ctx context.Context, filter generic.AuditFilter) ([]generic.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.RecordID != "" {
		where = append(where, "record_id = ?")
		args = append(args, filter.RecordID)
	}
	if len(filter.Actions) > 0 {
		marks := make([]string, len(filter.Actions))
		for i, a := range filter.Actions {
			marks[i] = "?"
			args = append(args, a)
		}
		where = append(where, "action IN ("+strings.Join(marks, ", ")+")")
	}

	query := "SELECT id, timestamp, actor_id, action, kind, record_id, period, payload_json FROM audit_log"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "failed to query audit log")
	}
	defer rows.Close()

	var entries []generic.AuditEntry
	for rows.Next() {
		var (
			e         generic.AuditEntry
			timestamp string
			payload   sql.NullString
		)
		if err := rows.Scan(&e.ID, &timestamp, &e.ActorID, &e.Action, &e.Kind, &e.RecordID, &e.Period, &payload); err != nil {
			return nil, eris.Wrap(err, "failed to scan audit entry")
		}
		e.Timestamp = parseTime(timestamp)
		if payload.Valid {
			if err := json.Unmarshal([]byte(payload.String), &e.Payload); err != nil {
				return nil, eris.Wrapf(err, "failed to decode audit payload %s", e.ID)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"partner_drawings", "monthly_entries", "commercial_activities",
		"health_activities", "salespeople", "audit_log",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return eris.Wrapf(err, "failed to reset %s", table)
		}
	}
	return nil
}

func (s *Store) deleteByID(ctx context.Context, table, kind, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return eris.Wrapf(err, "failed to delete %s %s", kind, id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &generic.NotFoundError{Kind: kind, ID: id}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func formatDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.DateOnly), Valid: true}
}

func parseDate(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	t, _ := time.Parse(time.DateOnly, s.String)
	return t
}
