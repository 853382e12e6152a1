package repository

import (
	"time"

	"github.com/google/uuid"
)

// now is the store's clock. Timestamps are always written in UTC.
var now = func() time.Time {
	return time.Now().UTC()
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func statusStrings[T ~string](statuses []T) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
