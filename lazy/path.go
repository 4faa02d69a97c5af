package lazy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/bsonkit/pkg/types"
)

// Path resolves a dotted path such as "user.tags.0.name". Array segments are
// decimal indexes. Only the containers along the path are materialized.
func (d *Document) Path(p string) (Value, error) {
	return resolve(DocumentValue(d), p)
}

// Path resolves a dotted path whose first segment is an index into a.
func (a *Array) Path(p string) (Value, error) {
	return resolve(ArrayValue(a), p)
}

func resolve(cur Value, p string) (Value, error) {
	if p == "" {
		return Value{}, types.Wrap(types.ErrKindArgument, "empty path", nil)
	}
	segs := strings.Split(p, ".")
	for i, seg := range segs {
		var err error
		switch {
		case cur.isNilContainer():
			err = cur.nilContainer()
		case cur.kind == KindDocument:
			cur, err = cur.doc.Get(seg)
		case cur.kind == KindArray:
			cur, err = index(cur.arr, seg)
		default:
			err = types.Wrap(types.ErrKindType, fmt.Sprintf("%s is not a container", cur.Type()), nil)
		}
		if err != nil {
			return Value{}, fmt.Errorf("path %q at %q: %w", p, strings.Join(segs[:i+1], "."), err)
		}
	}
	return cur, nil
}

func index(a *Array, seg string) (Value, error) {
	n, err := strconv.Atoi(seg)
	if err != nil || n < 0 {
		return Value{}, types.Wrap(types.ErrKindNotFound, fmt.Sprintf("array index %q", seg), nil)
	}
	return a.At(n)
}
