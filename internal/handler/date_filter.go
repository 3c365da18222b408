package handler

import (
	"net/http"
	"time"
)

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// dateRange converts optional start/end days into a half-open interval;
// the end day is inclusive, so it extends to the following midnight.
func dateRange(start, end *time.Time) (*time.Time, *time.Time) {
	var from, to *time.Time
	if start != nil {
		f := *start
		from = &f
	}
	if end != nil {
		t := end.Add(24 * time.Hour)
		to = &t
	}
	return from, to
}
