package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"gorm.io/gorm"

	"github.com/gfpop-go/gfpop/pkg/gfpop"
)

// ErrRunNotFound is returned by GetRun when no run with the given ID exists.
var ErrRunNotFound = errors.New("storage: run not found")

// SaveRun persists res under a freshly generated run ID and returns it.
func (c *Client) SaveRun(graphDigest string, boundMin, boundMax float64, res gfpop.Result) (string, error) {
	payload, err := msgpack.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("storage: encoding result: %w", err)
	}
	run := Run{
		ID:          uuid.NewString(),
		GraphDigest: graphDigest,
		BoundMin:    boundMin,
		BoundMax:    boundMax,
		GlobalCost:  res.GlobalCost,
		N:           res.N,
		Payload:     payload,
		CreatedAt:   time.Now(),
	}

	if c.gormDB != nil {
		summaries := make([]segmentSummary, len(res.Changepoints))
		for i, end := range res.Changepoints {
			summaries[i] = segmentSummary{End: end, Mean: res.Parameters[i], State: res.States[i], Forced: res.Forced[i]}
		}
		segmentsJSON, err := json.Marshal(summaries)
		if err != nil {
			return "", fmt.Errorf("storage: encoding segment summaries: %w", err)
		}
		if err := run.Segments.Set(segmentsJSON); err != nil {
			return "", fmt.Errorf("storage: encoding segment summaries: %w", err)
		}

		if err := c.gormDB.Create(&run).Error; err != nil {
			return "", fmt.Errorf("storage: saving run: %w", err)
		}
		return run.ID, nil
	}

	_, err = c.db.Exec(
		`INSERT INTO runs (id, graph_digest, bound_min, bound_max, global_cost, n, payload, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.GraphDigest, run.BoundMin, run.BoundMax, run.GlobalCost, run.N, run.Payload, run.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("storage: saving run: %w", err)
	}
	return run.ID, nil
}

// GetRun retrieves the result stored under id.
func (c *Client) GetRun(id string) (gfpop.Result, error) {
	var run Run

	if c.gormDB != nil {
		if err := c.gormDB.First(&run, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return gfpop.Result{}, ErrRunNotFound
			}
			return gfpop.Result{}, fmt.Errorf("storage: fetching run: %w", err)
		}
	} else {
		row := c.db.QueryRow(
			`SELECT id, graph_digest, bound_min, bound_max, global_cost, n, payload, created_at FROM runs WHERE id = ?`, id,
		)
		if err := row.Scan(&run.ID, &run.GraphDigest, &run.BoundMin, &run.BoundMax, &run.GlobalCost, &run.N, &run.Payload, &run.CreatedAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return gfpop.Result{}, ErrRunNotFound
			}
			return gfpop.Result{}, fmt.Errorf("storage: fetching run: %w", err)
		}
	}

	var res gfpop.Result
	if err := msgpack.Unmarshal(run.Payload, &res); err != nil {
		return gfpop.Result{}, fmt.Errorf("storage: decoding run payload: %w", err)
	}
	return res, nil
}

// Close releases the underlying database connection.
func (c *Client) Close() error {
	if c.gormDB != nil {
		sqlDB, err := c.gormDB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return c.db.Close()
}
