package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/sitegraph/cas"
	"github.com/vk/sitegraph/nodeid"
)

func TestTracker_GetRecordsOnlyThatKey(t *testing.T) {
	tr := New([]nodeid.Key{"a", "b"}, map[nodeid.Key]int{"a": 1, "b": 2}, nil)
	v, ok := tr.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	snap := tr.AccessLog().snapshot()
	assert.False(t, snap.whole)
	_, touched := snap.keys["a"]
	assert.True(t, touched)
	_, touchedB := snap.keys["b"]
	assert.False(t, touchedB)
}

func TestTracker_KeysMarksWhole(t *testing.T) {
	tr := New([]nodeid.Key{"a", "b"}, map[nodeid.Key]int{"a": 1, "b": 2}, nil)
	keys := tr.Keys()
	assert.Equal(t, []nodeid.Key{"a", "b"}, keys)
	assert.True(t, tr.AccessLog().snapshot().whole)
}

func TestTracker_LenDoesNotRecordAccess(t *testing.T) {
	tr := New([]nodeid.Key{"a"}, map[nodeid.Key]int{"a": 1}, nil)
	assert.Equal(t, 1, tr.Len())
	snap := tr.AccessLog().snapshot()
	assert.False(t, snap.whole)
	assert.Empty(t, snap.keys)
}

func TestTracker_AllMarksWholeAndIteratesInOrder(t *testing.T) {
	tr := New([]nodeid.Key{"b", "a"}, map[nodeid.Key]int{"a": 1, "b": 2}, nil)
	var seen []nodeid.Key
	for k := range tr.All() {
		seen = append(seen, k)
	}
	assert.Equal(t, []nodeid.Key{"b", "a"}, seen)
	assert.True(t, tr.AccessLog().snapshot().whole)
}

func TestEngine_ScanLoader_FirstScanReportsAllAsChanged(t *testing.T) {
	e := NewEngine()
	h := cas.Fingerprint([]byte("x"))
	changed, removed := e.ScanLoader(nodeid.ID(1), map[nodeid.Key]cas.Hash{"a.md": h})
	assert.Equal(t, []nodeid.Key{"a.md"}, changed)
	assert.Empty(t, removed)
}

func TestEngine_ScanLoader_DetectsModifiedAndRemoved(t *testing.T) {
	e := NewEngine()
	h1 := cas.Fingerprint([]byte("x"))
	h2 := cas.Fingerprint([]byte("y"))

	e.ScanLoader(nodeid.ID(1), map[nodeid.Key]cas.Hash{"a.md": h1, "b.md": h1})
	changed, removed := e.ScanLoader(nodeid.ID(1), map[nodeid.Key]cas.Hash{"a.md": h2})

	assert.Equal(t, []nodeid.Key{"a.md"}, changed)
	assert.Equal(t, []nodeid.Key{"b.md"}, removed)
}

func TestEngine_ScanLoader_UnchangedReportsNothing(t *testing.T) {
	e := NewEngine()
	h := cas.Fingerprint([]byte("x"))
	e.ScanLoader(nodeid.ID(1), map[nodeid.Key]cas.Hash{"a.md": h})

	changed, removed := e.ScanLoader(nodeid.ID(1), map[nodeid.Key]cas.Hash{"a.md": h})
	assert.Empty(t, changed)
	assert.Empty(t, removed)
}

func TestEngine_Dirty_NoPriorAccessIsFullyDirty(t *testing.T) {
	e := NewEngine()
	dirty := e.Dirty(nodeid.ID(1), []nodeid.Key{"a"}, nil, []nodeid.ID{2})
	require.Contains(t, dirty, nodeid.ID(2))
	assert.True(t, dirty[nodeid.ID(2)].Full)
}

func TestEngine_Dirty_WholeAccessDirtiesOnAnyChange(t *testing.T) {
	e := NewEngine()
	log := NewAccessLog()
	log.MarkWhole()
	e.RecordAccess(nodeid.ID(2), nodeid.ID(1), log)

	dirty := e.Dirty(nodeid.ID(1), []nodeid.Key{"a"}, nil, []nodeid.ID{2})
	require.Contains(t, dirty, nodeid.ID(2))
	assert.True(t, dirty[nodeid.ID(2)].Full)
}

func TestEngine_Dirty_PartialAccessOnlyDirtiesOnTouchedKeys(t *testing.T) {
	e := NewEngine()
	log := NewAccessLog()
	log.MarkKey("a")
	e.RecordAccess(nodeid.ID(2), nodeid.ID(1), log)

	dirty := e.Dirty(nodeid.ID(1), []nodeid.Key{"b"}, nil, []nodeid.ID{2})
	assert.NotContains(t, dirty, nodeid.ID(2), "consumer that only read key a must be unaffected by a change to key b")

	dirty2 := e.Dirty(nodeid.ID(1), []nodeid.Key{"a"}, nil, []nodeid.ID{2})
	require.Contains(t, dirty2, nodeid.ID(2))
	assert.Equal(t, []nodeid.Key{"a"}, dirty2[nodeid.ID(2)].Keys)
}
