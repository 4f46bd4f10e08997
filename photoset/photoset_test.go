package photoset

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/tolet/staging"
)

func files(n int) []staging.File {
	out := make([]staging.File, n)
	for i := range out {
		out[i] = staging.File{Key: fmt.Sprintf("k%d", i), Name: fmt.Sprintf("f%d.png", i)}
	}
	return out
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("uploads/p%d.jpg", i)
	}
	return out
}

func TestCreateModeKeepsFirstTen(t *testing.T) {
	s := New(Create, nil)
	res := s.Add(files(11))

	assert.Len(t, res.Added, 10)
	require.Len(t, res.Dropped, 1)
	assert.Equal(t, "k10", res.Dropped[0].Key)
	assert.Contains(t, res.Warning, "10")
	assert.Equal(t, "Maximum 10 images allowed. Only first 10 images will be kept.", res.Warning)
	assert.Equal(t, 10, s.Count())
	assert.Equal(t, "k0", s.Staged()[0].Key)
	assert.Equal(t, "k9", s.Staged()[9].Key)
}

func TestEditModeRejectsWholeBatch(t *testing.T) {
	s := New(Edit, ids(7))
	res := s.Add(files(4))

	assert.Empty(t, res.Added)
	assert.Len(t, res.Dropped, 4)
	assert.Equal(t, "Maximum 10 images allowed. You can add 3 more.", res.Warning)
	assert.Equal(t, 7, s.Count())
	assert.Empty(t, s.Staged())

	res = s.Add(files(3))
	assert.Empty(t, res.Warning)
	assert.Equal(t, 10, s.Count())
}

func TestMarkingFreesSlots(t *testing.T) {
	s := New(Edit, ids(10))
	assert.Equal(t, 0, s.Remaining())
	require.True(t, s.ToggleDeleteExisting("uploads/p3.jpg"))
	assert.Equal(t, 1, s.Remaining())

	res := s.Add(files(1))
	assert.Empty(t, res.Warning)
	assert.Equal(t, 10, s.Count())

	// The freed slot is taken, so the mark cannot be undone.
	assert.False(t, s.ToggleDeleteExisting("uploads/p3.jpg"))
	assert.True(t, s.IsMarked("uploads/p3.jpg"))
}

func TestToggleTwiceRestores(t *testing.T) {
	s := New(Edit, ids(3))
	before := s.Marked()
	require.True(t, s.ToggleDeleteExisting("uploads/p1.jpg"))
	assert.Equal(t, []string{"uploads/p1.jpg"}, s.Marked())
	require.True(t, s.ToggleDeleteExisting("uploads/p1.jpg"))
	assert.Equal(t, before, s.Marked())
}

func TestToggleUnknownIgnored(t *testing.T) {
	s := New(Edit, ids(2))
	assert.False(t, s.ToggleDeleteExisting("nope"))
	assert.Empty(t, s.Marked())
}

func TestRemoveStaged(t *testing.T) {
	s := New(Create, nil)
	s.Add(files(3))

	f, ok := s.RemoveStaged(1)
	require.True(t, ok)
	assert.Equal(t, "k1", f.Key)
	assert.Equal(t, []staging.File{files(3)[0], files(3)[2]}, s.Staged())

	_, ok = s.RemoveStaged(5)
	assert.False(t, ok)
	_, ok = s.RemoveStaged(-1)
	assert.False(t, ok)
	assert.Equal(t, 2, s.Count())
}

func TestKeepPreservesOrder(t *testing.T) {
	s := New(Edit, ids(4))
	s.ToggleDeleteExisting("uploads/p2.jpg")
	s.ToggleDeleteExisting("uploads/p0.jpg")
	assert.Equal(t, []string{"uploads/p1.jpg", "uploads/p3.jpg"}, s.Keep())
}

func TestCoverCapacityOne(t *testing.T) {
	s := NewWithLimit(Edit, 1, []string{"uploads/cover.jpg"})
	assert.NotEmpty(t, s.Add(files(1)).Warning)
	s.MarkExisting()
	assert.Empty(t, s.Add(files(1)).Warning)
	assert.Empty(t, s.Keep())
	assert.Len(t, s.ClearStaged(), 1)
	assert.Equal(t, 0, s.Count())
}

func TestInvariantHoldsUnderRandomOps(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for _, mode := range []Mode{Create, Edit} {
		for round := 0; round < 200; round++ {
			existing := ids(r.Intn(MaxPhotos + 1))
			s := New(mode, existing)
			for step := 0; step < 50; step++ {
				switch r.Intn(3) {
				case 0:
					s.Add(files(r.Intn(6)))
				case 1:
					s.RemoveStaged(r.Intn(12) - 1)
				case 2:
					if len(existing) > 0 {
						s.ToggleDeleteExisting(existing[r.Intn(len(existing))])
					}
				}
				require.LessOrEqual(t, s.Count(), MaxPhotos, "mode %d round %d step %d", mode, round, step)
			}
		}
	}
}
