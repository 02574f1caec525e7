package collector

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go-away-stress/model"
	"go-away-stress/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func setupTestCollector(t *testing.T) (*Collector, *miniredis.Miniredis) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	return New(store.NewRedisStore(client, ""), Options{}), s
}

func record(situation []string, bestTime string) model.Record {
	return model.Record{
		StressSituation: situation,
		StressAction:    []string{},
		ContentService:  []string{},
		BestTime:        bestTime,
	}
}

func TestAppend_AssignsIDAndTimestamp(t *testing.T) {
	c, _ := setupTestCollector(t)
	fixed := time.Date(2025, 5, 4, 9, 30, 0, 0, time.FixedZone("KST", 9*3600))
	c.now = func() time.Time { return fixed }

	row, err := c.Append(context.Background(), record([]string{"A"}, ""))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if row.ID == "" {
		t.Error("Append() should assign an ID")
	}
	if !row.CreatedAt.Equal(fixed) || row.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt = %v, want %v in UTC", row.CreatedAt, fixed)
	}

	other, err := c.Append(context.Background(), record([]string{"A"}, ""))
	if err != nil {
		t.Fatalf("Append() duplicate error = %v", err)
	}
	if other.ID == row.ID {
		t.Error("duplicate submissions should get distinct IDs")
	}
}

func TestAggregate_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		records []model.Record
		wantQ1  map[string]int
		total   int
	}{
		{
			name:    "No records",
			records: nil,
			wantQ1:  map[string]int{},
			total:   0,
		},
		{
			name:    "One submission with two situations",
			records: []model.Record{record([]string{"A", "B"}, "evening")},
			wantQ1:  map[string]int{"A": 1, "B": 1},
			total:   1,
		},
		{
			name: "Two submissions selecting A",
			records: []model.Record{
				record([]string{"A"}, ""),
				record([]string{"A"}, ""),
			},
			wantQ1: map[string]int{"A": 2},
			total:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := setupTestCollector(t)
			ctx := context.Background()
			for _, rec := range tt.records {
				if _, err := c.Append(ctx, rec); err != nil {
					t.Fatalf("Append() error = %v", err)
				}
			}

			stats, err := c.Aggregate(ctx)
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}
			if stats.Total != tt.total {
				t.Errorf("Total = %d, want %d", stats.Total, tt.total)
			}
			if !reflect.DeepEqual(stats.Q1, tt.wantQ1) {
				t.Errorf("Q1 = %v, want %v", stats.Q1, tt.wantQ1)
			}
		})
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	c, _ := setupTestCollector(t)
	ctx := context.Background()
	c.Append(ctx, record([]string{"A", "B"}, "evening"))
	c.Append(ctx, record([]string{"B"}, "night"))

	first, err := c.Aggregate(ctx)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	second, err := c.Aggregate(ctx)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Aggregate() not idempotent: %+v vs %+v", first, second)
	}
}

func TestAggregate_StoreDown(t *testing.T) {
	c, s := setupTestCollector(t)
	s.Close()

	if _, err := c.Aggregate(context.Background()); !errors.Is(err, store.ErrUnavailable) {
		t.Errorf("Aggregate() error = %v, want ErrUnavailable", err)
	}
	if _, err := c.Append(context.Background(), record([]string{"A"}, "")); !errors.Is(err, store.ErrUnavailable) {
		t.Errorf("Append() error = %v, want ErrUnavailable", err)
	}
}

func TestHealth(t *testing.T) {
	c, _ := setupTestCollector(t)
	ctx := context.Background()
	c.Append(ctx, record([]string{"A"}, ""))

	n, err := c.Health(ctx)
	if err != nil || n != 1 {
		t.Errorf("Health() = %d, %v, want 1", n, err)
	}
	if c.StoreName() != "redis" {
		t.Errorf("StoreName() = %q", c.StoreName())
	}
}
