package storage

import "encoding/json"

// SchemaVersion is the current version stamped on every persisted record.
const SchemaVersion = 1

type envelope[T any] struct {
	V    int `json:"v"`
	Data T   `json:"data"`
}

// Encode wraps data in a versioned envelope and marshals it.
func Encode[T any](data T) ([]byte, error) {
	return json.Marshal(envelope[T]{V: SchemaVersion, Data: data})
}

// Decode unmarshals a versioned envelope. The second return is false when
// the blob is malformed or carries an unknown version; callers treat that
// as "absent" rather than surfacing a parse error.
func Decode[T any](raw []byte) (T, bool) {
	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil || env.V != SchemaVersion {
		var zero T
		return zero, false
	}
	return env.Data, true
}
