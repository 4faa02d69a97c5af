package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/joshuapare/bsonkit/pkg/types"
)

// sampleDocs is the fixture most command tests run against.
func sampleDocs() []bson.D {
	return []bson.D{
		{
			{Key: "name", Value: "ada"},
			{Key: "age", Value: int32(36)},
			{Key: "tags", Value: bson.A{"admin", "dev"}},
			{Key: "address", Value: bson.D{{Key: "city", Value: "London"}}},
		},
		{
			{Key: "name", Value: "bob"},
			{Key: "age", Value: int32(25)},
			{Key: "tags", Value: bson.A{"dev"}},
		},
		{
			{Key: "name", Value: "cy"},
			{Key: "age", Value: int32(41)},
			{Key: "address", Value: bson.D{{Key: "city", Value: "Oslo"}}},
			{Key: "score", Value: 1.5},
		},
	}
}

// writeDump marshals docs end to end into a file under the test's temp dir
// and returns its path. The file is zstd-compressed when compress is set.
func writeDump(t *testing.T, docs []bson.D, compress bool) string {
	t.Helper()
	var data []byte
	for _, d := range docs {
		raw, err := bson.Marshal(d)
		if err != nil {
			t.Fatalf("marshal fixture: %v", err)
		}
		data = append(data, raw...)
	}
	name := "dump.bson"
	if compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			t.Fatalf("zstd writer: %v", err)
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
		name += ".zst"
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// resetFlags puts every global flag back to its default.
func resetFlags() {
	verbose, quiet, jsonOut = false, false, false
	maxDocSize, replaceUTF8, allowDup = types.DefaultMaxDocumentSize, false, false
	keysIndex = -1
	getIndex, getLimit = -1, 0
	dumpIndex, dumpLimit, dumpCanonical = -1, 0, false
	findWhere, findLimit, findCount = "", 0, false
	statsShallow = false
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Drain concurrently so large outputs don't block on the pipe buffer.
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	<-done
	r.Close()

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
