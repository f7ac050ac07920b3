// This file implements the Runs audit table: metadata about each run, not
// output history. Outputs live on the reaches and are overwritten in place.
package project

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/riverscapes/brat/pkg/types"
)

// RunRecord is one row of run metadata.
type RunRecord struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   *time.Time
	Processed    int
	Skipped      int
	ParamsDigest string
}

// StartRun records the beginning of a run and returns its identifier.
func (p *Project) StartRun(paramsDigest string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return "", err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating run ID: %w", err)
	}

	_, err = p.db.Exec(
		"INSERT INTO Runs (RunID, StartedAt, ParamsDigest) VALUES (?, ?, ?)",
		id.String(), time.Now().UTC().Format(time.RFC3339), paramsDigest,
	)
	if err != nil {
		return "", fmt.Errorf("recording run start: %w", err)
	}
	return id.String(), nil
}

// FinishRun records the end of a run with its reach counts.
func (p *Project) FinishRun(runID string, processed, skipped int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.guard(); err != nil {
		return err
	}

	_, err := p.db.Exec(
		"UPDATE Runs SET FinishedAt = ?, Processed = ?, Skipped = ? WHERE RunID = ?",
		time.Now().UTC().Format(time.RFC3339), processed, skipped, runID,
	)
	if err != nil {
		return fmt.Errorf("recording run finish: %w", err)
	}
	return nil
}

// LastRun returns the most recent run record, or ErrNotFound when the
// project has never been run.
func (p *Project) LastRun() (RunRecord, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.guard(); err != nil {
		return RunRecord{}, err
	}

	// RunID breaks ties between runs started within the same second:
	// UUIDv7 sorts lexicographically in generation order.
	row := p.db.QueryRow(
		"SELECT RunID, StartedAt, FinishedAt, Processed, Skipped, ParamsDigest FROM Runs ORDER BY StartedAt DESC, RunID DESC LIMIT 1",
	)
	var rec RunRecord
	var started string
	var finished, digest *string
	if err := row.Scan(&rec.RunID, &started, &finished, &rec.Processed, &rec.Skipped, &digest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, types.ErrNotFound
		}
		return RunRecord{}, fmt.Errorf("querying last run: %w", err)
	}

	t, err := time.Parse(time.RFC3339, started)
	if err != nil {
		return RunRecord{}, fmt.Errorf("parsing run start time: %w", err)
	}
	rec.StartedAt = t
	if finished != nil {
		ft, err := time.Parse(time.RFC3339, *finished)
		if err != nil {
			return RunRecord{}, fmt.Errorf("parsing run finish time: %w", err)
		}
		rec.FinishedAt = &ft
	}
	if digest != nil {
		rec.ParamsDigest = *digest
	}
	return rec, nil
}
