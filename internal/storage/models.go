package storage

import (
	"time"

	"github.com/jackc/pgtype"
)

// Run is one persisted gfpop.Result, keyed by a generated run ID.
type Run struct {
	ID          string       `gorm:"primaryKey;column:id"`
	GraphDigest string       `gorm:"column:graph_digest;not null"`
	BoundMin    float64      `gorm:"column:bound_min;not null"`
	BoundMax    float64      `gorm:"column:bound_max;not null"`
	GlobalCost  float64      `gorm:"column:global_cost;not null"`
	N           int          `gorm:"column:n;not null"`
	Payload     []byte       `gorm:"column:payload;not null"` // msgpack-encoded gfpop.Result
	Segments    pgtype.JSONB `gorm:"type:jsonb;default:'[]';column:segments"`
	CreatedAt   time.Time    `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

// segmentSummary is one row of the Segments JSONB column: a queryable
// projection of a Run's changepoints without needing to decode Payload.
type segmentSummary struct {
	End    int     `json:"end"`
	Mean   float64 `json:"mean"`
	State  int     `json:"state"`
	Forced bool    `json:"forced"`
}

// TableName implements gorm's Tabler interface.
func (Run) TableName() string { return "runs" }
