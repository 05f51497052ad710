package main

import "database/sql"

// Run is one row of the runs table (written by the reanalyze engine's
// HistoryStore), shaped for JSON responses.
type Run struct {
	ID                      string `json:"id"`
	MainFile                string `json:"main_file"`
	RunAt                   string `json:"run_at"`
	NewFile                 bool   `json:"new_file"`
	NoChange                bool   `json:"no_change"`
	ChangedFunctions        int    `json:"changed_functions"`
	ReanalyzeFunctions      int    `json:"reanalyze_functions"`
	CGNodes                 int    `json:"cg_nodes"`
	AffectedVirtualFuncs    int    `json:"affected_virtual_functions"`
	AffectedVFIndirectCalls int    `json:"affected_vf_indirect_calls"`
	FunctionPointerTypes    int    `json:"function_pointer_types"`
	AffectedFPIndirectCalls int    `json:"affected_fp_indirect_calls"`
}

// DB is a thin read-only wrapper over the history store's runs table.
type DB struct {
	sql *sql.DB
}

func NewDB(sqlDB *sql.DB) *DB { return &DB{sql: sqlDB} }

// RunsForFile returns every recorded run for mainFile, newest first, capped
// at limit (0 means the default of 200).
func (d *DB) RunsForFile(mainFile string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := d.sql.Query(`
		SELECT id, main_file, run_at, new_file, no_change, changed_functions,
		       reanalyze_functions, cg_nodes, affected_virtual_functions,
		       affected_vf_indirect_calls, function_pointer_types,
		       affected_fp_indirect_calls
		FROM runs WHERE main_file = ? ORDER BY run_at DESC LIMIT ?`, mainFile, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRuns(rows)
}

// Files lists every distinct main_file recorded, most recently active first.
func (d *DB) Files() ([]string, error) {
	rows, err := d.sql.Query(`
		SELECT main_file FROM runs GROUP BY main_file ORDER BY MAX(run_at) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// RecentRuns returns the most recent runs across every file, newest first.
func (d *DB) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(`
		SELECT id, main_file, run_at, new_file, no_change, changed_functions,
		       reanalyze_functions, cg_nodes, affected_virtual_functions,
		       affected_vf_indirect_calls, function_pointer_types,
		       affected_fp_indirect_calls
		FROM runs ORDER BY run_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var out []Run
	for rows.Next() {
		var r Run
		var newFile, noChange int
		if err := rows.Scan(&r.ID, &r.MainFile, &r.RunAt, &newFile, &noChange,
			&r.ChangedFunctions, &r.ReanalyzeFunctions, &r.CGNodes,
			&r.AffectedVirtualFuncs, &r.AffectedVFIndirectCalls,
			&r.FunctionPointerTypes, &r.AffectedFPIndirectCalls); err != nil {
			return nil, err
		}
		r.NewFile = newFile != 0
		r.NoChange = noChange != 0
		out = append(out, r)
	}
	return out, rows.Err()
}
