/*
Package sqlite provides the SQLite-backed storage collaborator.

PURPOSE:

	Persists the flat rotation rows and crew profiles the engine consumes. The
	engine never talks to the database itself; handlers load rows from here and
	hand them to the pure calculators in the rotation package.

KEY TABLES:

	rotation_rows: One row per crew-member-and-cycle-number combination.
	               UNIQUE(roster_id, crew_id, crew_name, cycle_number) enforces
	               the natural key so duplicate cycles can only arrive through
	               distinct storage rows, which the pivot then flags.
	crew:          Crew member profiles (trade, default assignment fields).

CONCURRENCY:

	sync.RWMutex around all access. With PostgreSQL the database would handle
	this instead.

WAL MODE:

	Opened with WAL so readers don't block and crash recovery is cheap.

USAGE:

	store, err := sqlite.New("./data/roster.db")
	if err != nil { ... }
	defer store.Close()
	rows, err := store.ListRowsByRoster(ctx, "roster-2024")

SEE ALSO:
  - rotation/types.go: The row shape stored here
  - api/handlers.go:   The consumer of this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/meridian/rotation-engine/rotation"
)

// Store persists rotation rows and crew profiles in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store at the given database path. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rotation_rows (
		id TEXT PRIMARY KEY,
		roster_id TEXT NOT NULL,
		crew_id TEXT NOT NULL,
		crew_name TEXT NOT NULL,
		trade TEXT NOT NULL DEFAULT 'offshore',
		post TEXT,
		client TEXT,
		location TEXT,
		cycle_number INTEGER NOT NULL,
		sign_on TEXT,
		sign_off TEXT,
		relief_rate TEXT,
		standby_rate TEXT,
		relief_days INTEGER,
		standby_days INTEGER,
		is_offshore BOOLEAN,
		medevac_json TEXT,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_rotation_rows_cycle
		ON rotation_rows(roster_id, crew_id, crew_name, cycle_number);
	CREATE INDEX IF NOT EXISTS idx_rotation_rows_roster
		ON rotation_rows(roster_id);
	CREATE INDEX IF NOT EXISTS idx_rotation_rows_crew
		ON rotation_rows(roster_id, crew_id);

	CREATE TABLE IF NOT EXISTS crew (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		trade TEXT NOT NULL DEFAULT 'offshore',
		post TEXT,
		client TEXT,
		location TEXT,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ROTATION ROWS
// =============================================================================

// SaveRow inserts or replaces a rotation row. The row is validated first;
// the unique cycle index is the only constraint the database itself adds.
func (s *Store) SaveRow(ctx context.Context, row rotation.RotationRow) error {
	if err := rotation.ValidateRow(row); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	medevacJSON, _ := json.Marshal(row.MedevacDates)
	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		INSERT INTO rotation_rows
		(id, roster_id, crew_id, crew_name, trade, post, client, location,
		 cycle_number, sign_on, sign_off, relief_rate, standby_rate,
		 relief_days, standby_days, is_offshore, medevac_json, notes,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			roster_id = excluded.roster_id,
			crew_id = excluded.crew_id,
			crew_name = excluded.crew_name,
			trade = excluded.trade,
			post = excluded.post,
			client = excluded.client,
			location = excluded.location,
			cycle_number = excluded.cycle_number,
			sign_on = excluded.sign_on,
			sign_off = excluded.sign_off,
			relief_rate = excluded.relief_rate,
			standby_rate = excluded.standby_rate,
			relief_days = excluded.relief_days,
			standby_days = excluded.standby_days,
			is_offshore = excluded.is_offshore,
			medevac_json = excluded.medevac_json,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		row.ID,
		row.RosterID,
		row.CrewID,
		row.CrewName,
		string(row.Trade),
		row.Post,
		row.Client,
		row.Location,
		row.CycleNumber,
		nullString(row.SignOn),
		nullString(row.SignOff),
		nullDecimal(row.ReliefRate),
		nullDecimal(row.StandbyRate),
		nullInt(row.ReliefDays),
		nullInt(row.StandbyDays),
		nullBool(row.IsOffshore),
		string(medevacJSON),
		row.Notes,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to save rotation row: %w", err)
	}
	return nil
}

// GetRow returns a single rotation row, or ErrRowNotFound.
func (s *Store) GetRow(ctx context.Context, id string) (*rotation.RotationRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.queryRows(ctx, selectRows+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", rotation.ErrRowNotFound, id)
	}
	return &rows[0], nil
}

// DeleteRow removes a rotation row.
func (s *Store) DeleteRow(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM rotation_rows WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete rotation row: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", rotation.ErrRowNotFound, id)
	}
	return nil
}

// ListRowsByRoster returns every rotation row on a roster, the input the
// pivot builder expects.
func (s *Store) ListRowsByRoster(ctx context.Context, rosterID string) ([]rotation.RotationRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRows(ctx,
		selectRows+" WHERE roster_id = ? ORDER BY crew_name, cycle_number, updated_at",
		rosterID)
}

// ListRowsByCrew returns one crew member's rows on a roster.
func (s *Store) ListRowsByCrew(ctx context.Context, rosterID, crewID string) ([]rotation.RotationRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRows(ctx,
		selectRows+" WHERE roster_id = ? AND crew_id = ? ORDER BY cycle_number",
		rosterID, crewID)
}

const selectRows = `
	SELECT id, roster_id, crew_id, crew_name, trade, post, client, location,
	       cycle_number, sign_on, sign_off, relief_rate, standby_rate,
	       relief_days, standby_days, is_offshore, medevac_json, notes
	FROM rotation_rows`

func (s *Store) queryRows(ctx context.Context, query string, args ...any) ([]rotation.RotationRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rotation rows: %w", err)
	}
	defer rows.Close()

	var out []rotation.RotationRow
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func scanRow(rows *sql.Rows) (rotation.RotationRow, error) {
	var (
		row         rotation.RotationRow
		trade       string
		post        sql.NullString
		client      sql.NullString
		location    sql.NullString
		signOn      sql.NullString
		signOff     sql.NullString
		reliefRate  sql.NullString
		standbyRate sql.NullString
		reliefDays  sql.NullInt64
		standbyDays sql.NullInt64
		isOffshore  sql.NullBool
		medevacJSON sql.NullString
		notes       sql.NullString
	)

	err := rows.Scan(
		&row.ID, &row.RosterID, &row.CrewID, &row.CrewName, &trade,
		&post, &client, &location,
		&row.CycleNumber, &signOn, &signOff, &reliefRate, &standbyRate,
		&reliefDays, &standbyDays, &isOffshore, &medevacJSON, &notes,
	)
	if err != nil {
		return rotation.RotationRow{}, fmt.Errorf("failed to scan rotation row: %w", err)
	}

	row.Trade = rotation.ParseTrade(trade)
	row.Post = post.String
	row.Client = client.String
	row.Location = location.String
	row.SignOn = signOn.String
	row.SignOff = signOff.String
	row.Notes = notes.String

	if reliefRate.Valid {
		if d, err := decimal.NewFromString(reliefRate.String); err == nil {
			row.ReliefRate = &d
		}
	}
	if standbyRate.Valid {
		if d, err := decimal.NewFromString(standbyRate.String); err == nil {
			row.StandbyRate = &d
		}
	}
	if reliefDays.Valid {
		n := int(reliefDays.Int64)
		row.ReliefDays = &n
	}
	if standbyDays.Valid {
		n := int(standbyDays.Int64)
		row.StandbyDays = &n
	}
	if isOffshore.Valid {
		b := isOffshore.Bool
		row.IsOffshore = &b
	}
	if medevacJSON.Valid && medevacJSON.String != "" && medevacJSON.String != "null" {
		if err := json.Unmarshal([]byte(medevacJSON.String), &row.MedevacDates); err != nil {
			// Corrupt medevac list degrades to "no medevac dates".
			row.MedevacDates = nil
		}
	}

	return row, nil
}

// =============================================================================
// CREW PROFILES
// =============================================================================

// CrewProfile is a crew member's master record.
type CrewProfile struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Trade    rotation.Trade `json:"trade"`
	Post     string         `json:"post,omitempty"`
	Client   string         `json:"client,omitempty"`
	Location string         `json:"location,omitempty"`
}

// SaveCrew inserts or replaces a crew profile.
func (s *Store) SaveCrew(ctx context.Context, c CrewProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT OR REPLACE INTO crew (id, name, trade, post, client, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.Name, string(c.Trade), c.Post, c.Client, c.Location,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save crew: %w", err)
	}
	return nil
}

// ListCrew returns all crew profiles.
func (s *Store) ListCrew(ctx context.Context) ([]CrewProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, trade, post, client, location FROM crew ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query crew: %w", err)
	}
	defer rows.Close()

	var out []CrewProfile
	for rows.Next() {
		var (
			c                      CrewProfile
			trade                  string
			post, client, location sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &trade, &post, &client, &location); err != nil {
			return nil, fmt.Errorf("failed to scan crew: %w", err)
		}
		c.Trade = rotation.ParseTrade(trade)
		c.Post = post.String
		c.Client = client.String
		c.Location = location.String
		out = append(out, c)
	}
	return out, rows.Err()
}

// Reset clears all data. Dev and test use only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"rotation_rows", "crew"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
