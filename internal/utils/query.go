package utils

import (
	"net/url"
	"strconv"
)

// QueryInt parses an integer query parameter. Missing, malformed or
// negative values fall back to def so pagination inputs cannot go below
// zero.
func QueryInt(q url.Values, key string, def int) int {
	v := q.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
