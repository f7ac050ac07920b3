// This file provides JSONL read/write helpers. Reads are strict: parameter
// and reach inputs are correctness data, so a malformed line aborts the
// import with its line number. Writes use the atomic temp-file, fsync,
// rename pattern.
package project

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// jsonlRecord is one non-empty line of a JSONL file, keeping its file line
// number so decode errors can point at the source line.
type jsonlRecord struct {
	line int
	data json.RawMessage
}

// readJSONL reads a JSONL file, returning each non-empty line as a raw
// message with its line number. A line that is not valid JSON fails the
// whole read.
func readJSONL(path string) ([]jsonlRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []jsonlRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			return nil, fmt.Errorf("%s:%d: invalid JSON", path, lineNo)
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, jsonlRecord{line: lineNo, data: cp})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to path.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// ExportReaches writes the vwReaches view to path as JSONL for the
// warehouse upload collaborator.
func (p *Project) ExportReaches(path string) (int, error) {
	return p.exportView("vwReaches", path)
}

// ExportReachAttributes writes the vwReachAttributes view to path as JSONL.
func (p *Project) ExportReachAttributes(path string) (int, error) {
	return p.exportView("vwReachAttributes", path)
}

func (p *Project) exportView(view, path string) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.guard(); err != nil {
		return 0, err
	}

	rows, err := p.db.Query("SELECT * FROM " + view + " ORDER BY ReachID")
	if err != nil {
		return 0, fmt.Errorf("querying %s: %w", view, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, fmt.Errorf("getting %s columns: %w", view, err)
	}

	var records []json.RawMessage
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return 0, fmt.Errorf("scanning %s row: %w", view, err)
		}
		rec := make(map[string]any, len(cols))
		for i, col := range cols {
			rec[col] = values[i]
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("marshaling %s row: %w", view, err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterating %s: %w", view, err)
	}

	if err := writeJSONL(path, records); err != nil {
		return 0, err
	}
	return len(records), nil
}
