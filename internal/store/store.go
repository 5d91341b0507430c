// Package store provides a SQLite-backed history of simulation runs.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/retire/internal/domain"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("run not found")

// RunKind labels which command produced a history row.
type RunKind string

const (
	RunSimulate   RunKind = "simulate"
	RunMonteCarlo RunKind = "montecarlo"
)

// RunRecord is one persisted run summary. Params holds the scenario input
// as JSON so a past run can be inspected or repeated.
type RunRecord struct {
	ID        int64     `json:"id"`
	Kind      RunKind   `json:"kind"`
	Scenario  string    `json:"scenario"`
	CreatedAt time.Time `json:"created_at"`

	RetirementDate time.Time       `json:"retirement_date"`
	Months         int             `json:"months"`
	LifetimeIncome decimal.Decimal `json:"lifetime_income"`
	FinalBalance   decimal.Decimal `json:"final_balance"`

	// DepletionProbability is set for Monte Carlo runs only.
	DepletionProbability *decimal.Decimal `json:"depletion_probability,omitempty"`

	Params string `json:"params,omitempty"`
}

// NewSimulationRun summarizes a deterministic run for persistence.
func NewSimulationRun(params domain.ScenarioParameters, result *domain.SimulationResult) (*RunRecord, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding scenario parameters: %w", err)
	}

	lifetime := decimal.Zero
	if n := len(result.CumulativeIncome); n > 0 {
		lifetime = result.CumulativeIncome[n-1]
	}
	return &RunRecord{
		Kind:           RunSimulate,
		Scenario:       params.Name,
		CreatedAt:      time.Now().UTC(),
		RetirementDate: params.RetirementDate,
		Months:         result.Months(),
		LifetimeIncome: lifetime,
		FinalBalance:   result.FinalBalance(),
		Params:         string(raw),
	}, nil
}

// NewMonteCarloRun summarizes a batch run for persistence. Lifetime income
// sums the median monthly income; final balance is the median ending
// balance when the batch tracked balances, zero otherwise.
func NewMonteCarloRun(params domain.ScenarioParameters, res *domain.MonteCarloResult) (*RunRecord, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding scenario parameters: %w", err)
	}

	lifetime := decimal.Zero
	for _, row := range res.Income {
		lifetime = lifetime.Add(row.P50)
	}
	finalBalance := decimal.Zero
	if n := len(res.Balance); n > 0 {
		finalBalance = res.Balance[n-1].P50
	}
	depletion := res.Metrics.DepletionProbability

	return &RunRecord{
		Kind:                 RunMonteCarlo,
		Scenario:             params.Name,
		CreatedAt:            time.Now().UTC(),
		RetirementDate:       params.RetirementDate,
		Months:               len(res.Income),
		LifetimeIncome:       lifetime,
		FinalBalance:         finalBalance,
		DepletionProbability: &depletion,
		Params:               string(raw),
	}, nil
}

// Store provides SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the history database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun inserts a run summary and returns its assigned id.
func (s *Store) SaveRun(rec *RunRecord) (int64, error) {
	var depletion any
	if rec.DepletionProbability != nil {
		depletion = rec.DepletionProbability.String()
	}

	res, err := s.db.Exec(`INSERT INTO runs
		(kind, scenario, created_at, retirement_date, months,
		 lifetime_income, final_balance, depletion_probability, params)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(rec.Kind), rec.Scenario,
		rec.CreatedAt.UTC().Format(time.RFC3339),
		rec.RetirementDate.UTC().Format(time.RFC3339),
		rec.Months,
		rec.LifetimeIncome.String(), rec.FinalBalance.String(),
		depletion, rec.Params,
	)
	if err != nil {
		return 0, fmt.Errorf("saving run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	rec.ID = id
	return id, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive
// limit returns everything.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	query := `SELECT id, kind, scenario, created_at, retirement_date, months,
		lifetime_income, final_balance, depletion_probability
		FROM runs ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows.Scan, false)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *rec)
	}
	return runs, rows.Err()
}

// GetRun loads one run including its stored parameters.
func (s *Store) GetRun(id int64) (*RunRecord, error) {
	row := s.db.QueryRow(`SELECT id, kind, scenario, created_at, retirement_date, months,
		lifetime_income, final_balance, depletion_probability, params
		FROM runs WHERE id = ?`, id)

	rec, err := scanRun(row.Scan, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteRun removes a run summary.
func (s *Store) DeleteRun(id int64) error {
	res, err := s.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	return nil
}

// RunCount returns the number of stored runs.
func (s *Store) RunCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

// ScenarioParameters decodes the stored scenario input of a run.
func (r *RunRecord) ScenarioParameters() (domain.ScenarioParameters, error) {
	var params domain.ScenarioParameters
	if r.Params == "" {
		return params, fmt.Errorf("run %d carries no stored parameters", r.ID)
	}
	if err := json.Unmarshal([]byte(r.Params), &params); err != nil {
		return params, fmt.Errorf("decoding stored parameters: %w", err)
	}
	return params, nil
}

func scanRun(scan func(...any) error, withParams bool) (*RunRecord, error) {
	var rec RunRecord
	var kind, createdAt, retireAt, lifetime, finalBalance string
	var depletion sql.NullString
	var params sql.NullString

	dest := []any{&rec.ID, &kind, &rec.Scenario, &createdAt, &retireAt, &rec.Months,
		&lifetime, &finalBalance, &depletion}
	if withParams {
		dest = append(dest, &params)
	}
	if err := scan(dest...); err != nil {
		return nil, err
	}

	rec.Kind = RunKind(kind)

	var err error
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if rec.RetirementDate, err = time.Parse(time.RFC3339, retireAt); err != nil {
		return nil, fmt.Errorf("parsing retirement_date: %w", err)
	}
	if rec.LifetimeIncome, err = decimal.NewFromString(lifetime); err != nil {
		return nil, fmt.Errorf("parsing lifetime_income: %w", err)
	}
	if rec.FinalBalance, err = decimal.NewFromString(finalBalance); err != nil {
		return nil, fmt.Errorf("parsing final_balance: %w", err)
	}
	if depletion.Valid {
		d, err := decimal.NewFromString(depletion.String)
		if err != nil {
			return nil, fmt.Errorf("parsing depletion_probability: %w", err)
		}
		rec.DepletionProbability = &d
	}
	if params.Valid {
		rec.Params = params.String
	}
	return &rec, nil
}
