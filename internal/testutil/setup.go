// Package testutil holds fixture helpers shared by the bsonkit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Marshal encodes v with the reference encoder and fails the test on error.
//
// Example:
//
//	raw := testutil.Marshal(t, bson.D{{Key: "a", Value: int32(1)}})
func Marshal(t testing.TB, v any) []byte {
	t.Helper()
	raw, err := bson.Marshal(v)
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}
	return raw
}

// WriteFile writes data into a temporary directory and returns its path.
// Every document in docs is appended in order, the way dump files are laid out.
func WriteFile(t testing.TB, name string, docs ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	var all []byte
	for _, d := range docs {
		all = append(all, d...)
	}
	if err := os.WriteFile(path, all, 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}
