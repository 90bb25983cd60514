package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/search"
	"github.com/matzehuels/floorpack/pkg/solution"
)

// Record is one finished solve run.
type Record struct {
	ID           string             `json:"id" bson:"_id"`
	Instance     string             `json:"instance" bson:"instance"`
	InstanceHash string             `json:"instance_hash" bson:"instance_hash"`
	Width        int                `json:"width" bson:"width"`
	Modules      int                `json:"modules" bson:"modules"`
	Status       search.Status      `json:"status" bson:"status"`
	Height       int                `json:"height,omitempty" bson:"height,omitempty"`
	Lower        int                `json:"lower" bson:"lower"`
	Upper        int                `json:"upper" bson:"upper"`
	Config       string             `json:"config" bson:"config"`
	Order        string             `json:"order" bson:"order"`
	Backend      string             `json:"backend" bson:"backend"`
	Trials       int                `json:"trials" bson:"trials"`
	BuildTime    time.Duration      `json:"build_time" bson:"build_time"`
	SolveTime    time.Duration      `json:"solve_time" bson:"solve_time"`
	Cached       bool               `json:"cached,omitempty" bson:"cached,omitempty"`
	Error        string             `json:"error,omitempty" bson:"error,omitempty"`
	Solution     *solution.Solution `json:"solution,omitempty" bson:"solution,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// NewRecord summarises a search result. hash is the instance content hash.
func NewRecord(res *search.Result, hash string, width, modules int) Record {
	return Record{
		ID:           uuid.New().String(),
		Instance:     res.Instance,
		InstanceHash: hash,
		Width:        width,
		Modules:      modules,
		Status:       res.Status,
		Height:       res.Height(),
		Lower:        res.Bounds.Lower,
		Upper:        res.Bounds.Upper,
		Config:       res.Config.String(),
		Order:        res.Order,
		Backend:      res.Backend,
		Trials:       len(res.Trials),
		BuildTime:    res.BuildTime,
		SolveTime:    res.SolveTime,
		Solution:     res.Solution,
		CreatedAt:    time.Now().UTC(),
	}
}

// Store persists run records.
type Store interface {
	// Save inserts rec, assigning an ID and timestamp when missing.
	Save(ctx context.Context, rec *Record) error
	// Get returns the record with id, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns up to limit records, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Record, error)
	Close(ctx context.Context) error
}

func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "run %q not found", id)
}
