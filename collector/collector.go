package collector

import (
	"context"
	"time"

	"go-away-stress/model"
	"go-away-stress/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	DefaultEtcPrefix = "✏️ 기타: "
	DefaultOtherTag  = "기타"
)

// Options controls how free-text "other" answers are tallied
type Options struct {
	EtcPrefix string // Prefix of the synthesized tag for free text
	OtherTag  string // Checkbox value replaced by the synthesized tag
}

// Collector appends survey rows and tabulates them on demand
type Collector struct {
	store store.RowStore
	opts  Options
	now   func() time.Time
}

// New creates a collector over st. Empty options fall back to the defaults.
func New(st store.RowStore, opts Options) *Collector {
	if opts.EtcPrefix == "" {
		opts.EtcPrefix = DefaultEtcPrefix
	}
	if opts.OtherTag == "" {
		opts.OtherTag = DefaultOtherTag
	}
	return &Collector{
		store: st,
		opts:  opts,
		now:   time.Now,
	}
}

// StoreName names the backing store, for health reporting
func (c *Collector) StoreName() string {
	return c.store.Name()
}

// Append stores rec as a new row stamped with the server time. Duplicates and
// odd content are accepted; only a store failure is an error.
func (c *Collector) Append(ctx context.Context, rec model.Record) (model.Row, error) {
	row := model.Row{
		ID:        uuid.New().String(),
		CreatedAt: c.now().UTC(),
		Record:    rec,
	}

	if err := c.store.Append(ctx, row); err != nil {
		log.Error().Err(err).Str("row_id", row.ID).Msg("Failed to append survey row")
		return model.Row{}, err
	}

	log.Info().
		Str("row_id", row.ID).
		Int("situations", len(rec.StressSituation)).
		Msg("Survey row appended")
	return row, nil
}

// Aggregate scans every stored row and returns fresh frequency tables
func (c *Collector) Aggregate(ctx context.Context) (*model.AggregateStats, error) {
	rows, err := c.store.Rows(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read survey rows")
		return nil, err
	}
	return Tabulate(rows, c.opts), nil
}

// Health pings the store and counts its rows
func (c *Collector) Health(ctx context.Context) (int64, error) {
	if err := c.store.Ping(ctx); err != nil {
		return 0, err
	}
	return c.store.Count(ctx)
}
