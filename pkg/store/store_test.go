package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/floorpack/pkg/encoding"
	"github.com/matzehuels/floorpack/pkg/errors"
	"github.com/matzehuels/floorpack/pkg/search"
	"github.com/matzehuels/floorpack/pkg/solution"
)

func TestNewRecord(t *testing.T) {
	sol := solution.New(8, []solution.Placement{
		{X: 0, Y: 0, Width: 4, Height: 4},
		{X: 4, Y: 0, Width: 4, Height: 4},
	})
	res := &search.Result{
		Instance: "two-squares",
		Status:   search.StatusOptimal,
		Solution: sol,
		Trials:   []search.Trial{{Height: 4}, {Height: 3}},
		Config:   encoding.DefaultConfig(),
		Order:    "desc",
		Backend:  "gini",
	}
	res.Bounds.Lower, res.Bounds.Upper = 4, 4

	rec := NewRecord(res, "abc", 8, 2)
	if rec.ID == "" {
		t.Error("record should get an ID")
	}
	if rec.Height != 4 || rec.Trials != 2 || rec.Status != search.StatusOptimal {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Config != encoding.DefaultConfig().String() {
		t.Errorf("Config = %q", rec.Config)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []string
	for i, name := range []string{"a", "b", "c"} {
		rec := &Record{Instance: name, Status: search.StatusOptimal, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := s.Save(ctx, rec); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		if rec.ID == "" {
			t.Fatal("Save should assign an ID")
		}
		ids = append(ids, rec.ID)
	}

	got, err := s.Get(ctx, ids[1])
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Instance != "b" {
		t.Errorf("Get returned %q, want b", got.Instance)
	}

	if _, err := s.Get(ctx, "no-such-run"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing run error = %v, want NOT_FOUND", err)
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].Instance != "c" || all[2].Instance != "a" {
		t.Errorf("List order: %+v", names(all))
	}

	two, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List(2): %v", err)
	}
	if len(two) != 2 || two[0].Instance != "c" {
		t.Errorf("List(2) = %v", names(two))
	}
}

func names(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Instance
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close(context.Background())
	testStore(t, s)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rec := &Record{ID: "fixed", Instance: "first"}
	_ = s.Save(ctx, rec)
	rec.Instance = "second"
	_ = s.Save(ctx, rec)

	all, _ := s.List(ctx, 0)
	if len(all) != 1 || all[0].Instance != "second" {
		t.Errorf("overwrite: %v", names(all))
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("FLOORPACK_MONGO_URI")
	if uri == "" {
		t.Skip("FLOORPACK_MONGO_URI not set")
	}
	ctx := context.Background()
	coll := "runs_test_" + time.Now().Format("150405.000000")
	s, err := NewMongoStore(ctx, MongoOptions{URI: uri, Database: "floorpack_test", Collection: coll})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.coll.Drop(ctx)
		_ = s.Close(ctx)
	}()
	testStore(t, s)
}

func TestNewMongoStoreEmptyURI(t *testing.T) {
	_, err := NewMongoStore(context.Background(), MongoOptions{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}
