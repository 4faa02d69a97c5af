package lazy

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/joshuapare/bsonkit/buffer"
	"github.com/joshuapare/bsonkit/internal/format"
	"github.com/joshuapare/bsonkit/internal/testutil"
	"github.com/joshuapare/bsonkit/pkg/types"
	"github.com/joshuapare/bsonkit/store"
)

// sample encodes {"a": 1, "b": {"c": "hello"}}.
func sample(t testing.TB) []byte {
	t.Helper()
	return testutil.Marshal(t, bson.D{
		{Key: "a", Value: int32(1)},
		{Key: "b", Value: bson.D{{Key: "c", Value: "hello"}}},
	})
}

func openDoc(t *testing.T, raw []byte, opts ...Option) *Document {
	t.Helper()
	d, err := NewDocumentFromBytes(raw, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func childDoc(t *testing.T, d *Document, name string) *Document {
	t.Helper()
	v, err := d.Get(name)
	require.NoError(t, err)
	c, err := v.Document()
	require.NoError(t, err)
	return c
}

// =============================================================================
// Construction
// =============================================================================

func TestNewDocument_NilInput(t *testing.T) {
	_, err := NewDocument(nil)
	require.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = NewDocumentFromBytes(nil)
	require.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestNewDocument_DoesNotDecode(t *testing.T) {
	var c decodeCounter
	// Garbage is accepted at construction: nothing is read yet.
	d := openDoc(t, []byte{0xde, 0xad}, WithDecoder(c.factory()))
	require.Equal(t, 0, c.starts)
	require.False(t, d.IsMaterialized())
	require.Equal(t, []byte{0xde, 0xad}, d.RawBuffer())
}

// =============================================================================
// Materialization
// =============================================================================

func TestDocument_MaterializesOnce(t *testing.T) {
	var c decodeCounter
	d := openDoc(t, sample(t), WithDecoder(c.factory()))

	n, err := d.Len()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, err = d.Get("a")
	require.NoError(t, err)
	ok, err := d.Contains("b")
	require.NoError(t, err)
	require.True(t, ok)
	_, err = d.Names()
	require.NoError(t, err)
	_, err = d.IndexOf("a")
	require.NoError(t, err)

	require.Equal(t, 1, c.starts)
	require.Equal(t, 1, c.ends)
	require.True(t, d.IsMaterialized())
	require.Nil(t, d.RawBuffer())
}

func TestDocument_LazinessDepth(t *testing.T) {
	var c decodeCounter
	inner := testutil.Marshal(t, bson.D{{Key: "c", Value: "hello"}})
	d := openDoc(t, sample(t), WithDecoder(c.factory()))

	n, err := d.Len()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 1, c.starts)
	require.Equal(t, 1, d.Children())

	b := childDoc(t, d, "b")
	require.False(t, b.IsMaterialized())
	require.Equal(t, inner, b.RawBuffer())
	require.Equal(t, 1, c.starts, "looking up b must not decode it")

	n, err = b.Len()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 2, c.starts)

	v, err := b.Get("c")
	require.NoError(t, err)
	s, err := v.StringValue()
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestDocument_NestedInteriorNotRead(t *testing.T) {
	// b's interior carries an unknown type tag; only b's own access sees it.
	raw := testutil.Doc(
		testutil.Int32("a", 1),
		testutil.SubDoc("b", testutil.Doc(testutil.Elem(0x42, "c", nil))),
	)
	d := openDoc(t, raw)

	n, err := d.Len()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	b := childDoc(t, d, "b")
	_, err = b.Len()
	require.ErrorIs(t, err, types.ErrMalformed)
	require.ErrorIs(t, err, format.ErrUnknownType)
	require.False(t, b.IsMaterialized())
	require.NotNil(t, b.RawBuffer())
}

func TestDocument_OrderPreserved(t *testing.T) {
	raw := testutil.Marshal(t, bson.D{
		{Key: "x", Value: int32(1)},
		{Key: "y", Value: bson.D{}},
		{Key: "z", Value: "last"},
	})
	d := openDoc(t, raw)
	require.Equal(t, []string{"x", "y", "z"}, mustNames(t, d))

	seq, err := d.All()
	require.NoError(t, err)
	var seen []string
	for name := range seq {
		seen = append(seen, name)
	}
	require.Equal(t, []string{"x", "y", "z"}, seen)

	name, _, err := d.At(2)
	require.NoError(t, err)
	require.Equal(t, "z", name)

	// Not sorted by name either.
	raw = testutil.Marshal(t, bson.D{
		{Key: "z", Value: int32(1)},
		{Key: "a", Value: int32(2)},
		{Key: "m", Value: int32(3)},
	})
	require.Equal(t, []string{"z", "a", "m"}, mustNames(t, openDoc(t, raw)))
}

func TestDocument_Malformed(t *testing.T) {
	good := sample(t)
	stats := &Stats{}
	raw := append([]byte(nil), good[:len(good)-3]...)
	d := openDoc(t, raw, WithStats(stats))

	for range 2 {
		_, err := d.Len()
		require.ErrorIs(t, err, types.ErrMalformed)
		require.ErrorIs(t, err, format.ErrTruncated)
		require.False(t, d.IsMaterialized())
		require.Equal(t, raw, d.RawBuffer())
	}
	require.Equal(t, int64(2), stats.Snapshot().Malformed)
	require.Equal(t, int64(0), stats.Snapshot().Materialized)
}

func TestDocument_DuplicateNames(t *testing.T) {
	raw := testutil.Doc(testutil.Int32("a", 1), testutil.Int32("a", 2))

	d := openDoc(t, raw)
	_, err := d.Len()
	require.ErrorIs(t, err, types.ErrCommit)
	require.ErrorIs(t, err, store.ErrDuplicateName)
	require.False(t, d.IsMaterialized())

	opts := types.DefaultOptions()
	opts.AllowDuplicateNames = true
	d = openDoc(t, raw, WithOptions(opts))
	n, err := d.Len()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	v, err := d.Get("a")
	require.NoError(t, err)
	i, err := v.Int32()
	require.NoError(t, err)
	require.Equal(t, int32(1), i)
}

// =============================================================================
// Rollback
// =============================================================================

func TestDocument_RollbackIsRetryable(t *testing.T) {
	raw := testutil.Marshal(t, bson.D{
		{Key: "x", Value: int32(1)},
		{Key: "y", Value: int32(2)},
		{Key: "z", Value: int32(3)},
	})
	var c decodeCounter
	stats := &Stats{}
	ff := &flakyFields{Fields: store.NewOrdered[Value](false), failures: 1}
	d := openDoc(t, raw, WithDecoder(c.factory()), WithStats(stats), firstFields(ff))

	_, err := d.Len()
	require.ErrorIs(t, err, types.ErrCommit)
	require.ErrorIs(t, err, errInjected)
	require.False(t, d.IsMaterialized())
	require.Equal(t, raw, d.RawBuffer())
	require.Equal(t, 1, ff.clears)
	require.Equal(t, 0, ff.Fields.Len(), "partial insert must be cleared")

	n, err := d.Len()
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, 2, c.starts, "retry decodes from scratch")
	require.Equal(t, []string{"x", "y", "z"}, mustNames(t, d))
	require.Nil(t, d.RawBuffer())

	snap := stats.Snapshot()
	require.Equal(t, int64(1), snap.RolledBack)
	require.Equal(t, int64(1), snap.Materialized)
}

func TestDocument_RollbackClearErrorIsLoggedNotReturned(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ff := &flakyFields{
		Fields:   store.NewOrdered[Value](false),
		failures: 1,
		clearErr: errors.New("clear exploded"),
	}
	d := openDoc(t, sample(t), WithLogger(logger), firstFields(ff))

	_, err := d.Len()
	require.ErrorIs(t, err, types.ErrCommit)
	require.ErrorIs(t, err, errInjected)
	require.NotContains(t, err.Error(), "clear exploded")
	require.Contains(t, logs.String(), "rollback clear failed")
	require.Contains(t, logs.String(), "clear exploded")

	n, err := d.Len()
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestDocument_ChildrenOfFailedCommitStayOwned(t *testing.T) {
	raw := testutil.Marshal(t, bson.D{
		{Key: "x", Value: int32(1)},
		{Key: "sub", Value: bson.D{{Key: "k", Value: int32(1)}}},
	})
	freed := 0
	root := buffer.NewWithFinalizer(raw, func([]byte) error {
		freed++
		return nil
	})
	ff := &flakyFields{Fields: store.NewOrdered[Value](false), failures: 1}
	d, err := NewDocument(root, firstFields(ff))
	require.NoError(t, err)

	_, err = d.Len()
	require.ErrorIs(t, err, types.ErrCommit)
	require.Equal(t, 1, d.Children())

	_, err = d.Len()
	require.NoError(t, err)
	require.Equal(t, 2, d.Children())
	require.Equal(t, 0, freed)

	require.NoError(t, d.Close())
	require.Equal(t, 1, freed, "storage freed once every view is released")
	require.Equal(t, 0, root.Refs())
}

// =============================================================================
// Close
// =============================================================================

func TestDocument_CloseBeforeAccess(t *testing.T) {
	buf, releases := newCountingBuffer(sample(t))
	d, err := NewDocument(buf)
	require.NoError(t, err)

	require.NoError(t, d.Close())
	require.Equal(t, 1, *releases)
	require.True(t, d.IsClosed())
	require.Nil(t, d.RawBuffer())

	_, err = d.Len()
	require.ErrorIs(t, err, types.ErrDisposed)
	_, err = d.Get("a")
	require.ErrorIs(t, err, types.ErrDisposed)
	require.ErrorIs(t, d.Add("x", Int32(1)), types.ErrDisposed)
	_, err = d.Path("b.c")
	require.ErrorIs(t, err, types.ErrDisposed)
	_, err = d.Clone()
	require.ErrorIs(t, err, types.ErrDisposed)

	require.NoError(t, d.Close())
	require.Equal(t, 1, *releases, "second Close is a no-op")
}

func TestDocument_CloseCascadesToChildren(t *testing.T) {
	raw := testutil.Marshal(t, bson.D{
		{Key: "s", Value: "x"},
		{Key: "d1", Value: bson.D{{Key: "k", Value: int32(1)}}},
		{Key: "arr", Value: bson.A{int32(1), bson.D{{Key: "z", Value: true}}}},
		{Key: "d2", Value: bson.D{}},
	})
	stats := &Stats{}
	buf, releases := newCountingBuffer(raw)
	d, err := NewDocument(buf, WithStats(stats))
	require.NoError(t, err)

	n, err := d.Len()
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, 1, *releases, "parent buffer released at commit")
	require.Equal(t, 3, d.Children())

	d1 := childDoc(t, d, "d1")
	arrVal, err := d.Get("arr")
	require.NoError(t, err)
	arr, err := arrVal.Array()
	require.NoError(t, err)

	require.NoError(t, d.Close())
	require.Equal(t, 4, *releases, "one release per unmaterialized child")
	require.Equal(t, int64(4), stats.Snapshot().Closed)
	require.Equal(t, 0, d.Children())
	require.True(t, d1.IsClosed())
	require.True(t, arr.IsClosed())

	require.NoError(t, d.Close())
	require.Equal(t, 4, *releases)
	require.Equal(t, int64(4), stats.Snapshot().Closed)
}

func TestDocument_CloseReachesGrandchildren(t *testing.T) {
	raw := testutil.Marshal(t, bson.D{
		{Key: "b", Value: bson.D{{Key: "c", Value: bson.D{{Key: "d", Value: int32(1)}}}}},
	})
	freed := 0
	root := buffer.NewWithFinalizer(raw, func([]byte) error {
		freed++
		return nil
	})
	d, err := NewDocument(root)
	require.NoError(t, err)

	v, err := d.Path("b.c.d")
	require.NoError(t, err)
	i, err := v.Int32()
	require.NoError(t, err)
	require.Equal(t, int32(1), i)

	b := childDoc(t, d, "b")
	c := childDoc(t, b, "c")
	require.NoError(t, d.Close())
	require.True(t, c.IsClosed())
	require.Equal(t, 1, freed)
}

func TestDocument_CloseJoinsReleaseErrors(t *testing.T) {
	root := buffer.New(sample(t))
	d, err := NewDocument(root)
	require.NoError(t, err)
	// Release the caller's handle behind the document's back.
	require.NoError(t, root.Release())

	err = d.Close()
	require.ErrorIs(t, err, buffer.ErrReleased)
	require.NoError(t, d.Close())
}

// =============================================================================
// Clone
// =============================================================================

func TestDocument_CloneAvoidsMaterialization(t *testing.T) {
	var c decodeCounter
	stats := &Stats{}
	d := openDoc(t, sample(t), WithDecoder(c.factory()), WithStats(stats))

	clone, err := d.Clone()
	require.NoError(t, err)
	require.Equal(t, 0, c.starts)
	require.False(t, clone.IsMaterialized())
	require.Equal(t, d.RawBuffer(), clone.RawBuffer())
	require.Equal(t, int64(1), stats.Snapshot().Cloned)

	require.NoError(t, clone.Close())
	require.NotNil(t, d.RawBuffer(), "closing the clone leaves the original usable")

	n, err := d.Len()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 1, c.starts)
}

func TestDocument_CloneOutlivesOriginal(t *testing.T) {
	d, err := NewDocumentFromBytes(sample(t))
	require.NoError(t, err)
	clone, err := d.Clone()
	require.NoError(t, err)
	defer clone.Close()

	require.NoError(t, d.Close())
	v, err := clone.Path("b.c")
	require.NoError(t, err)
	s, err := v.StringValue()
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestDocument_CloneMaterialized(t *testing.T) {
	d, err := NewDocumentFromBytes(sample(t))
	require.NoError(t, err)
	_, err = d.Len()
	require.NoError(t, err)

	shallow, err := d.Clone()
	require.NoError(t, err)
	defer shallow.Close()
	deep, err := d.DeepClone()
	require.NoError(t, err)
	defer deep.Close()

	orig := childDoc(t, d, "b")
	require.Same(t, orig, childDoc(t, shallow, "b"))
	deepB := childDoc(t, deep, "b")
	require.NotSame(t, orig, deepB)
	require.Equal(t, 0, shallow.Children())
	require.Equal(t, 1, deep.Children())
	require.False(t, deepB.IsMaterialized(), "deep clone of a lazy child stays lazy")

	require.NoError(t, shallow.Add("extra", Int32(9)))
	n, err := d.Len()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, d.Close())
	require.True(t, orig.IsClosed())
	n, err = deepB.Len()
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

// =============================================================================
// Delegated operations
// =============================================================================

func TestDocument_Mutations(t *testing.T) {
	d := openDoc(t, sample(t))

	require.NoError(t, d.Add("c", String("new")))
	require.True(t, d.IsMaterialized())
	require.Equal(t, []string{"a", "b", "c"}, mustNames(t, d))

	err := d.Add("a", Int32(2))
	require.ErrorIs(t, err, types.ErrInvalidArgument)
	require.ErrorIs(t, err, store.ErrDuplicateName)

	require.NoError(t, d.Set("a", Int64(5)))
	require.NoError(t, d.InsertAt(0, "first", Null()))
	require.Equal(t, []string{"first", "a", "b", "c"}, mustNames(t, d))

	v, err := d.Get("a")
	require.NoError(t, err)
	i, err := v.Int64()
	require.NoError(t, err)
	require.Equal(t, int64(5), i)

	removed, err := d.Remove("b")
	require.NoError(t, err)
	require.True(t, removed)
	require.Equal(t, 1, d.Children(), "removed child is still owned")

	require.NoError(t, d.RemoveAt(0))
	require.Equal(t, []string{"a", "c"}, mustNames(t, d))
	require.ErrorIs(t, d.SetAt(5, Null()), types.ErrNotFound)

	idx, err := d.IndexOf("c")
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	require.NoError(t, d.Clear())
	n, err := d.Len()
	require.NoError(t, err)
	require.Equal(t, 0, n)

	_, err = d.Get("a")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestDocument_EqualAndHash(t *testing.T) {
	d1 := openDoc(t, sample(t))
	d2 := openDoc(t, sample(t))

	eq, err := d1.Equal(d2)
	require.NoError(t, err)
	require.True(t, eq)
	h1, err := d1.Hash()
	require.NoError(t, err)
	h2, err := d2.Hash()
	require.NoError(t, err)
	require.Equal(t, h1, h2)

	tests := []struct {
		name string
		doc  bson.D
	}{
		{"different scalar", bson.D{{Key: "a", Value: int32(2)}, {Key: "b", Value: bson.D{{Key: "c", Value: "hello"}}}}},
		{"different type", bson.D{{Key: "a", Value: int64(1)}, {Key: "b", Value: bson.D{{Key: "c", Value: "hello"}}}}},
		{"different nested", bson.D{{Key: "a", Value: int32(1)}, {Key: "b", Value: bson.D{{Key: "c", Value: "bye"}}}}},
		{"different order", bson.D{{Key: "b", Value: bson.D{{Key: "c", Value: "hello"}}}, {Key: "a", Value: int32(1)}}},
		{"extra field", bson.D{{Key: "a", Value: int32(1)}, {Key: "b", Value: bson.D{{Key: "c", Value: "hello"}}}, {Key: "z", Value: nil}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := openDoc(t, testutil.Marshal(t, tt.doc))
			eq, err := d1.Equal(other)
			require.NoError(t, err)
			require.False(t, eq)
			h, err := other.Hash()
			require.NoError(t, err)
			require.NotEqual(t, h1, h)
		})
	}

	eq, err = d1.Equal(nil)
	require.NoError(t, err)
	require.False(t, eq)
}

func TestDocument_Merge(t *testing.T) {
	other := func() *Document {
		return openDoc(t, testutil.Marshal(t, bson.D{
			{Key: "a", Value: int32(2)},
			{Key: "n", Value: bson.D{{Key: "k", Value: true}}},
			{Key: "z", Value: "s"},
		}))
	}

	t.Run("keep existing", func(t *testing.T) {
		d := openDoc(t, sample(t))
		src := other()
		require.NoError(t, d.Merge(src, false))
		require.Equal(t, []string{"a", "b", "n", "z"}, mustNames(t, d))

		v, err := d.Get("a")
		require.NoError(t, err)
		i, err := v.Int32()
		require.NoError(t, err)
		require.Equal(t, int32(1), i)

		require.Equal(t, 2, d.Children(), "merged container is cloned and owned")
		n := childDoc(t, d, "n")
		require.NotSame(t, childDoc(t, src, "n"), n)

		require.NoError(t, src.Close())
		cnt, err := n.Len()
		require.NoError(t, err)
		require.Equal(t, 1, cnt)
	})

	t.Run("overwrite", func(t *testing.T) {
		d := openDoc(t, sample(t))
		require.NoError(t, d.Merge(other(), true))
		v, err := d.Get("a")
		require.NoError(t, err)
		i, err := v.Int32()
		require.NoError(t, err)
		require.Equal(t, int32(2), i)
	})

	t.Run("nil", func(t *testing.T) {
		d := openDoc(t, sample(t))
		require.ErrorIs(t, d.Merge(nil, false), types.ErrInvalidArgument)
	})
}

func TestDocument_ToMap(t *testing.T) {
	d := openDoc(t, testutil.Marshal(t, bson.D{
		{Key: "a", Value: int32(1)},
		{Key: "b", Value: bson.D{{Key: "c", Value: "hello"}}},
		{Key: "arr", Value: bson.A{int64(2), "x"}},
	}))
	m, err := d.ToMap()
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"a":   int32(1),
		"b":   map[string]any{"c": "hello"},
		"arr": []any{int64(2), "x"},
	}, m)
}

func TestDocument_Path(t *testing.T) {
	d := openDoc(t, testutil.Marshal(t, bson.D{
		{Key: "user", Value: bson.D{
			{Key: "name", Value: "ada"},
			{Key: "tags", Value: bson.A{"x", bson.D{{Key: "k", Value: "v"}}}},
		}},
		{Key: "other", Value: bson.D{{Key: "q", Value: int32(1)}}},
	}))

	v, err := d.Path("user.tags.1.k")
	require.NoError(t, err)
	s, err := v.StringValue()
	require.NoError(t, err)
	require.Equal(t, "v", s)

	require.False(t, childDoc(t, d, "other").IsMaterialized(), "siblings off the path stay lazy")

	tests := []struct {
		path string
		want error
	}{
		{"user.missing", types.ErrNotFound},
		{"user.tags.9", types.ErrNotFound},
		{"user.tags.-1", types.ErrNotFound},
		{"user.tags.one", types.ErrNotFound},
		{"user.name.x", types.ErrTypeMismatch},
		{"", types.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := d.Path(tt.path)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDocument_StateErrorsAreNotDisposal(t *testing.T) {
	t.Run("access while materializing", func(t *testing.T) {
		rf := &reentrantFields{Fields: store.NewOrdered[Value](false)}
		d := openDoc(t, sample(t), firstFields(rf))
		rf.doc = d

		n, err := d.Len()
		require.NoError(t, err)
		require.Equal(t, 2, n)

		require.ErrorIs(t, rf.lenErr, types.ErrState)
		require.NotErrorIs(t, rf.lenErr, types.ErrDisposed)
		require.ErrorIs(t, rf.cloneErr, types.ErrState)
		require.NotErrorIs(t, rf.cloneErr, types.ErrDisposed)
		require.False(t, d.IsClosed())
	})

	t.Run("duplicate refused", func(t *testing.T) {
		d, err := NewDocument(&noDupBuffer{Buffer: buffer.New(sample(t))})
		require.NoError(t, err)
		defer d.Close()

		_, err = d.Clone()
		require.ErrorIs(t, err, errNoDup)
		require.ErrorIs(t, err, types.ErrState)
		require.NotErrorIs(t, err, types.ErrDisposed)
		require.False(t, d.IsClosed())
	})

	t.Run("closed", func(t *testing.T) {
		d := openDoc(t, sample(t))
		require.NoError(t, d.Close())
		_, err := d.Clone()
		require.ErrorIs(t, err, types.ErrDisposed)
		require.NotErrorIs(t, err, types.ErrState)
	})
}

func TestDocument_MalformedRetryDoesNotGrowArena(t *testing.T) {
	// The nested document is carved before the bad tag after it is read.
	raw := testutil.Doc(
		testutil.SubDoc("a", testutil.Doc(testutil.Int32("k", 1))),
		testutil.Elem(0x42, "z", nil),
	)
	stats := &Stats{}
	root := buffer.New(raw)
	d, err := NewDocument(root, WithStats(stats))
	require.NoError(t, err)

	for range 3 {
		_, err := d.Len()
		require.ErrorIs(t, err, types.ErrMalformed)
		require.ErrorIs(t, err, format.ErrUnknownType)
		require.Equal(t, 0, d.Children())
		require.Equal(t, 1, root.Refs(), "carved views released")
	}
	require.Equal(t, int64(3), stats.Snapshot().Closed)

	require.NoError(t, d.Close())
	require.Equal(t, 0, root.Refs())
}

func TestDocument_HashFramesNestedContainers(t *testing.T) {
	tests := []struct {
		name string
		a, b bson.D
	}{
		{
			name: "sibling moved into nested document",
			a:    bson.D{{Key: "a", Value: bson.D{{Key: "b", Value: int32(1)}}}, {Key: "c", Value: int32(2)}},
			b:    bson.D{{Key: "a", Value: bson.D{{Key: "b", Value: int32(1)}, {Key: "c", Value: int32(2)}}}},
		},
		{
			name: "element moved into nested array",
			a:    bson.D{{Key: "a", Value: bson.A{bson.A{int32(1)}, int32(2)}}},
			b:    bson.D{{Key: "a", Value: bson.A{bson.A{int32(1), int32(2)}}}},
		},
		{
			name: "empty nested document",
			a:    bson.D{{Key: "a", Value: bson.D{}}, {Key: "b", Value: int32(1)}},
			b:    bson.D{{Key: "a", Value: bson.D{{Key: "b", Value: int32(1)}}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			da := openDoc(t, testutil.Marshal(t, tt.a))
			db := openDoc(t, testutil.Marshal(t, tt.b))

			eq, err := da.Equal(db)
			require.NoError(t, err)
			require.False(t, eq)

			ha, err := da.Hash()
			require.NoError(t, err)
			hb, err := db.Hash()
			require.NoError(t, err)
			require.NotEqual(t, ha, hb)
		})
	}
}
