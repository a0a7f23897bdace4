package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	assert.Equal(t, 3, q.Put(track("a"), track("b"), track("c")))
	assert.Equal(t, 3, q.Len())

	head, ok := q.Peek()
	assert.True(t, ok)
	assert.Equal(t, "a", head.Title)
	assert.Equal(t, 3, q.Len(), "peek leaves the queue alone")

	first, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, "a", first.Title)

	q.Clear()
	_, ok = q.Pop()
	assert.False(t, ok)
	assert.Zero(t, q.Len())
}

func TestQueueTracksIsACopy(t *testing.T) {
	q := NewQueue()
	q.Put(track("a"))
	snap := q.Tracks()
	snap[0].Title = "changed"
	assert.Equal(t, "a", q.Tracks()[0].Title)
}

func TestQueueShuffleKeepsTracks(t *testing.T) {
	q := NewQueue()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		q.Put(track(name))
	}
	q.Shuffle()
	assert.ElementsMatch(t, []Track{track("a"), track("b"), track("c"), track("d"), track("e")}, q.Tracks())
}

func TestQueueRemoveFunc(t *testing.T) {
	q := NewQueue()
	q.Put(track("a"), track("b"), track("a"))
	n := q.RemoveFunc(func(t Track) bool { return t.Title == "a" })
	assert.Equal(t, 2, n)
	assert.Equal(t, []Track{track("b")}, q.Tracks())
}

func TestParseAutoPlayMode(t *testing.T) {
	tests := []struct {
		in     string
		want   AutoPlayMode
		wantOK bool
	}{
		{"enabled", AutoPlayEnabled, true},
		{" Partial ", AutoPlayPartial, true},
		{"off", AutoPlayDisabled, true},
		{"sometimes", AutoPlayDisabled, false},
	}
	for _, tt := range tests {
		got, ok := ParseAutoPlayMode(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "partial", AutoPlayPartial.String())
	assert.Equal(t, "loop", QueueLoopOne.String())
}
