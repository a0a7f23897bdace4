package player

import "github.com/sonroyaalmerol/wavebot/internal/utils"

// Queue is an ordered list of tracks plus the looping mode applied to it.
type Queue struct {
	items []Track
	mode  QueueMode
}

func NewQueue() *Queue { return &Queue{} }

// Put appends tracks and returns how many were added.
func (q *Queue) Put(tracks ...Track) int {
	q.items = append(q.items, tracks...)
	return len(tracks)
}

func (q *Queue) Peek() (Track, bool) {
	if len(q.items) == 0 {
		return Track{}, false
	}
	return q.items[0], true
}

func (q *Queue) Pop() (Track, bool) {
	if len(q.items) == 0 {
		return Track{}, false
	}
	t := q.items[0]
	q.items[0] = Track{}
	q.items = q.items[1:]
	return t, true
}

func (q *Queue) Len() int { return len(q.items) }

func (q *Queue) Tracks() []Track {
	out := make([]Track, len(q.items))
	copy(out, q.items)
	return out
}

func (q *Queue) Shuffle() { utils.ShuffleSlice(q.items) }

// RemoveFunc drops every track for which match returns true.
func (q *Queue) RemoveFunc(match func(Track) bool) int {
	kept := q.items[:0]
	removed := 0
	for _, t := range q.items {
		if match(t) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	clear(q.items[len(kept):])
	q.items = kept
	return removed
}

func (q *Queue) Clear() { q.items = nil }

func (q *Queue) Mode() QueueMode { return q.mode }

func (q *Queue) SetMode(m QueueMode) { q.mode = m }
