package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    id                    INTEGER PRIMARY KEY AUTOINCREMENT,
    kind                  TEXT NOT NULL,
    scenario              TEXT NOT NULL,
    created_at            TEXT NOT NULL,
    retirement_date       TEXT NOT NULL,
    months                INTEGER NOT NULL,
    lifetime_income       TEXT NOT NULL,
    final_balance         TEXT NOT NULL,
    depletion_probability TEXT,
    params                TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);
`
