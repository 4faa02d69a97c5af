package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/joshuapare/bsonkit/lazy"
	"github.com/joshuapare/bsonkit/pkg/bsonfile"
)

// eachDocument calls fn for every document in f, or only for the one at
// index when index >= 0, stopping after limit calls when limit > 0. Each
// document is closed once fn returns; skipped documents are never decoded.
func eachDocument(f *bsonfile.File, index, limit int, fn func(i int, d *lazy.Document) error) error {
	calls := 0
	for i := 0; ; i++ {
		d, err := f.Next()
		if errors.Is(err, io.EOF) {
			if index >= 0 && i <= index {
				return fmt.Errorf("document index %d out of range (file has %d)", index, i)
			}
			return nil
		}
		if err != nil {
			return err
		}
		if index >= 0 && i != index {
			if err := d.Close(); err != nil {
				return err
			}
			continue
		}
		err = fn(i, d)
		if cerr := d.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		calls++
		if index >= 0 || (limit > 0 && calls >= limit) {
			return nil
		}
	}
}

// render formats a value for display. Containers that are still encoded are
// printed as relaxed extended JSON straight from their bytes.
func render(v lazy.Value) (string, error) {
	switch v.Kind() {
	case lazy.KindDocument:
		d, err := v.Document()
		if err != nil {
			return "", err
		}
		if raw := d.RawBuffer(); raw != nil {
			return bson.Raw(raw).String(), nil
		}
	case lazy.KindArray:
		a, err := v.Array()
		if err != nil {
			return "", err
		}
		if raw := a.RawBuffer(); raw != nil {
			return bson.RawValue{Type: bson.TypeArray, Value: raw}.String(), nil
		}
	default:
		sv, _ := v.Scalar()
		return sv.String(), nil
	}

	plain, err := v.Interface()
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(plain)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
