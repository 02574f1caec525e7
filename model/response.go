package model

// UsageResponse is returned for GET requests without a known action
type UsageResponse struct {
	Usage   string   `json:"usage" example:"GET ?action=getStats | POST a record as JSON or as form field payload"`
	Actions []string `json:"actions"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid size parameter"`
	Message string `json:"message,omitempty" example:"Size must be a number"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Storage string `json:"storage" example:"redis"`
	Rows    int64  `json:"rows" example:"42"`
}

// CacheMetricsResponse reports the limiter cache
type CacheMetricsResponse struct {
	Enabled   bool    `json:"enabled" example:"true"`
	Hits      uint64  `json:"hits" example:"1234"`
	Misses    uint64  `json:"misses" example:"56"`
	HitRatio  float64 `json:"hitRatio" example:"0.957"`
	Evictions uint64  `json:"evictions" example:"12"`
	KeysAdded uint64  `json:"keysAdded" example:"1290"`
}
