package httpapi

import (
	"net/http"
	"strconv"
)

// Query helpers return (value, present, problem). A present but malformed
// parameter yields a non-empty problem.

func parseUint32(r *http.Request, key string) (*uint32, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, false, ""
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, true, "invalid " + key
	}
	u := uint32(v)
	return &u, true, ""
}

func parseUint64(r *http.Request, key string) (*uint64, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, false, ""
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, true, "invalid " + key
	}
	return &v, true, ""
}

func parseInt(r *http.Request, key string) (*int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, true, "invalid " + key
	}
	return &v, true, ""
}

func parseBool(r *http.Request, key string) (bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return false, ""
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, "invalid " + key
	}
	return v, ""
}

// query collects the first problem across several parses.
type query struct {
	r       *http.Request
	problem string
}

func (q *query) uint32(key string) *uint32 {
	v, _, msg := parseUint32(q.r, key)
	q.note(msg)
	return v
}

func (q *query) uint64(key string) *uint64 {
	v, _, msg := parseUint64(q.r, key)
	q.note(msg)
	return v
}

func (q *query) int(key string) *int {
	v, _, msg := parseInt(q.r, key)
	q.note(msg)
	return v
}

func (q *query) bool(key string) bool {
	v, msg := parseBool(q.r, key)
	q.note(msg)
	return v
}

// required is uint32 that must be present.
func (q *query) required(key string) uint32 {
	v, ok, msg := parseUint32(q.r, key)
	q.note(msg)
	if !ok {
		q.note("missing param " + key)
		return 0
	}
	if v == nil {
		return 0
	}
	return *v
}

func (q *query) note(msg string) {
	if q.problem == "" && msg != "" {
		q.problem = msg
	}
}
