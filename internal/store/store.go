package store

import (
	"context"
	"encoding/json"
	"reflect"
)

// Named slots persisted by the application. Each slot round-trips one
// JSON document.
const (
	KeySettings = "app_settings"
	KeyBookings = "app_bookings"
	KeyJobs     = "app_scheduled_jobs"
)

// Store maps named keys to JSON-serializable values and survives process
// restarts. Get leaves dest untouched when the key is missing or its
// stored value no longer parses, so callers always see the entity's
// default instead of a parse error. Only transport failures propagate.
type Store interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
}

// decodeInto unmarshals raw into dest all-or-nothing: a value that fails
// to parse leaves dest exactly as it was, never half-filled.
func decodeInto(raw []byte, dest any) {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}
	tmp := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(raw, tmp.Interface()); err != nil {
		return
	}
	rv.Elem().Set(tmp.Elem())
}
