package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestCache(clock *fakeClock, opts Options[string]) *Cache[string] {
	opts.Clock = clock.Now
	if opts.Sizer == nil {
		opts.Sizer = func(s string) int { return len(s) }
	}
	return New(opts)
}

func TestGetAfterTTLRemovesEntry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)}
	c := newTestCache(clock, Options[string]{})

	c.SetWithTTL("k", "value", 1000*time.Millisecond)
	require.Equal(t, 5, c.Stats().SizeBytes)

	clock.Advance(1001 * time.Millisecond)

	v, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, "", v)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Stats().SizeBytes)
	assert.Equal(t, int64(1), c.Stats().Misses)
}

func TestGetCountsHits(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock, Options[string]{})

	c.Set("k", "v")
	c.Get("k")
	c.Get("k")

	entry, ok := c.Entry("k")
	require.True(t, ok)
	assert.Equal(t, 2, entry.Hits)
	assert.Equal(t, clock.now, entry.Timestamp)
	assert.Equal(t, clock.now.Add(DefaultTTL), entry.ExpiresAt)
	assert.Equal(t, int64(2), c.Stats().Hits)
}

func TestEvictsLeastRecentlyUsedByEntries(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock, Options[string]{MaxEntries: 2})

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a") // b passa a ser o menos usado
	c.Set("c", "3")

	assert.True(t, c.Has("a"))
	assert.False(t, c.Has("b"))
	assert.True(t, c.Has("c"))
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestEvictsBySize(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock, Options[string]{MaxSizeBytes: 10})

	c.Set("a", "12345")
	c.Set("b", "12345")
	c.Set("c", "123")

	assert.False(t, c.Has("a"))
	assert.Equal(t, 8, c.Stats().SizeBytes)
}

func TestOversizeEntryIsNotStored(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock, Options[string]{MaxSizeBytes: 4})

	c.Set("big", "123456")
	assert.False(t, c.Has("big"))
	assert.Equal(t, 0, c.Stats().SizeBytes)
}

func TestOverwriteReplacesSize(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock, Options[string]{})

	c.Set("k", "1234")
	c.Set("k", "12")
	assert.Equal(t, 2, c.Stats().SizeBytes)
	assert.Equal(t, 1, c.Len())
}

func TestDeleteClearAndCleanup(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock, Options[string]{})

	c.SetWithTTL("short", "x", time.Second)
	c.SetWithTTL("long", "y", time.Hour)
	c.Set("other", "z")

	assert.True(t, c.Delete("other"))
	assert.False(t, c.Delete("other"))

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, c.Cleanup())
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Stats().SizeBytes)
}

func TestDefaultSizerUsesJSON(t *testing.T) {
	c := New(Options[[]int]{})
	c.Set("k", []int{1, 2, 3})
	assert.Equal(t, len("[1,2,3]"), c.Stats().SizeBytes)
}

func TestUpdateKeepsExpiryAndResizes(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock, Options[string]{})

	c.SetWithTTL("k", "ab", time.Minute)
	before, _ := c.Entry("k")

	clock.Advance(30 * time.Second)
	assert.True(t, c.Update("k", func(s string) string { return s + "cd" }))

	after, ok := c.Entry("k")
	require.True(t, ok)
	assert.Equal(t, "abcd", after.Data)
	assert.Equal(t, before.ExpiresAt, after.ExpiresAt)
	assert.Equal(t, 4, c.Stats().SizeBytes)

	assert.False(t, c.Update("missing", func(s string) string { return s }))
}

func TestKeysSkipsExpired(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	c := newTestCache(clock, Options[string]{})

	c.SetWithTTL("old", "x", time.Second)
	c.SetWithTTL("new", "y", time.Hour)
	clock.Advance(2 * time.Second)

	assert.Equal(t, []string{"new"}, c.Keys())
}
