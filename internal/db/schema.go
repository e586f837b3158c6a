package db

import "database/sql"

func Migrate(db *sql.DB) {
	db.Exec(`
	CREATE TABLE IF NOT EXISTS wallets (
		uid INTEGER PRIMARY KEY,
		cents INTEGER NOT NULL DEFAULT 0
	);`)

	db.Exec(`
	CREATE TABLE IF NOT EXISTS rounds (
		id TEXT PRIMARY KEY,
		player_id INTEGER NOT NULL,
		seed TEXT NOT NULL,
		crash_point REAL NOT NULL,
		bet_cents INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'running',
		cashout_multiplier REAL,
		payout_cents INTEGER NOT NULL DEFAULT 0,
		start_ms INTEGER NOT NULL,
		end_ms INTEGER
	);`)

	db.Exec(`CREATE INDEX IF NOT EXISTS idx_rounds_status ON rounds(status, start_ms);`)

	db.Exec(`
	CREATE TABLE IF NOT EXISTS ledger (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ref TEXT,
		uid INTEGER,
		kind TEXT,
		debit INTEGER,
		credit INTEGER,
		round_id TEXT,
		ts INTEGER
	);`)

	db.Exec(`
	CREATE TABLE IF NOT EXISTS audit_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid INTEGER,
		action TEXT,
		metadata TEXT,
		created_at INTEGER
	);`)

	db.Exec(`
	CREATE TABLE IF NOT EXISTS taps (
		uid INTEGER PRIMARY KEY,
		taps INTEGER NOT NULL DEFAULT 0,
		updated_ms INTEGER
	);`)
}
