package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go-away-stress/model"

	"github.com/rs/zerolog/log"
)

// StatsClient queries the collector's statistics with a direct request
type StatsClient struct {
	url  string
	http *http.Client
}

// NewStatsClient returns a client for the collector endpoint at statsURL
func NewStatsClient(statsURL string, httpClient *http.Client) *StatsClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &StatsClient{url: statsURL, http: httpClient}
}

// GetStats fetches fresh statistics. Failures wrap ErrQuery; an empty
// survey is a successful result with Total 0.
func (c *StatsClient) GetStats(ctx context.Context) (*model.AggregateStats, error) {
	stats, err := c.fetch(ctx)
	if err != nil {
		log.Error().Err(err).Str("url", c.url).Msg("Statistics query failed")
		return nil, err
	}
	return stats, nil
}

func (c *StatsClient) fetch(ctx context.Context) (*model.AggregateStats, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	q := u.Query()
	q.Set("action", "getStats")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP status %d", ErrQuery, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	stats := model.NewAggregateStats()
	if err := json.Unmarshal(body, stats); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	fillNil(stats)
	return stats, nil
}

// fillNil replaces maps the collector sent as null
func fillNil(s *model.AggregateStats) {
	empty := model.NewAggregateStats()
	if s.Q1 == nil {
		s.Q1 = empty.Q1
	}
	if s.Q2 == nil {
		s.Q2 = empty.Q2
	}
	if s.Q3 == nil {
		s.Q3 = empty.Q3
	}
	if s.Q4 == nil {
		s.Q4 = empty.Q4
	}
	if s.Q5 == nil {
		s.Q5 = empty.Q5
	}
	if s.Q6 == nil {
		s.Q6 = empty.Q6
	}
}
