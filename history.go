package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// HistoryStore is an append-only run-summary log (SPEC_FULL.md §2): one row
// per (translation unit, run), so a CI pipeline can trend reanalyze-set size
// over time. Trimmed down from the teacher's `db.go` full CPG schema to the
// one table this system actually needs.
type HistoryStore struct {
	conn *sqlite.Conn
}

// OpenHistoryStore opens (creating if absent) the sqlite file at path and
// ensures the runs table exists.
func OpenHistoryStore(path string) (*HistoryStore, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenCreate, sqlite.OpenReadWrite)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	h := &HistoryStore{conn: conn}
	if err := h.createTable(); err != nil {
		conn.Close()
		return nil, err
	}
	return h, nil
}

func (h *HistoryStore) createTable() error {
	return sqlitex.ExecuteTransient(h.conn, `
		CREATE TABLE IF NOT EXISTS runs (
			id                         TEXT PRIMARY KEY,
			main_file                  TEXT NOT NULL,
			run_at                     TEXT NOT NULL,
			new_file                   INTEGER NOT NULL,
			no_change                  INTEGER NOT NULL,
			changed_functions          INTEGER NOT NULL,
			reanalyze_functions        INTEGER NOT NULL,
			cg_nodes                   INTEGER NOT NULL,
			affected_virtual_functions INTEGER NOT NULL,
			affected_vf_indirect_calls INTEGER NOT NULL,
			function_pointer_types     INTEGER NOT NULL,
			affected_fp_indirect_calls INTEGER NOT NULL
		)`, nil)
}

// Record appends one run summary row.
func (h *HistoryStore) Record(mainFile string, s *RunSummary) error {
	return sqlitex.Execute(h.conn, `
		INSERT INTO runs (
			id, main_file, run_at, new_file, no_change, changed_functions,
			reanalyze_functions, cg_nodes, affected_virtual_functions,
			affected_vf_indirect_calls, function_pointer_types,
			affected_fp_indirect_calls
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				uuid.NewString(),
				mainFile,
				time.Now().UTC().Format(time.RFC3339Nano),
				boolToInt(s.NewFile),
				boolToInt(s.NoChange),
				s.ChangedFunctions,
				s.ReanalyzeFunctions,
				s.CGNodes,
				s.AffectedVirtualFuncs,
				s.AffectedVFIndirectCalls,
				s.FunctionPointerTypes,
				s.AffectedFPIndirectCalls,
			},
		})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Close releases the underlying sqlite connection.
func (h *HistoryStore) Close() error {
	return h.conn.Close()
}
