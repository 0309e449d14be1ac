package utils

import "context"

// GetString reads a string value off the context. The second return is
// false when the key is absent or holds a non-string.
func GetString(ctx context.Context, key any) (string, bool) {
	s, ok := ctx.Value(key).(string)
	return s, ok
}
