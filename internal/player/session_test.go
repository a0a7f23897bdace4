package player

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	played    []Track
	volumes   []int
	stopped   int
	paused    []bool
	volume    int
	seeks     []time.Duration
	timescale *Timescale
	resets    int
	closed    bool
	playErr   error
}

func (f *fakeRemote) Play(_ context.Context, t Track, volume int) error {
	if f.playErr != nil {
		return f.playErr
	}
	f.played = append(f.played, t)
	f.volumes = append(f.volumes, volume)
	return nil
}
func (f *fakeRemote) Stop(context.Context) error { f.stopped++; return nil }
func (f *fakeRemote) SetPaused(_ context.Context, p bool) error {
	f.paused = append(f.paused, p)
	return nil
}
func (f *fakeRemote) SetVolume(_ context.Context, v int) error { f.volume = v; return nil }
func (f *fakeRemote) Seek(_ context.Context, d time.Duration) error {
	f.seeks = append(f.seeks, d)
	return nil
}
func (f *fakeRemote) SetTimescale(_ context.Context, ts Timescale) error {
	f.timescale = &ts
	return nil
}
func (f *fakeRemote) ResetFilters(context.Context) error { f.resets++; f.timescale = nil; return nil }
func (f *fakeRemote) Disconnect(context.Context) error { f.closed = true; return nil }

type fakeLoader struct {
	identifiers []string
	result      SearchResult
	err         error
}

func (f *fakeLoader) LoadTracks(_ context.Context, identifier string) (SearchResult, error) {
	f.identifiers = append(f.identifiers, identifier)
	return f.result, f.err
}

func track(title string) Track {
	return Track{Encoded: "enc-" + title, Identifier: "id-" + title, Title: title, Author: "artist", SourceName: "youtube"}
}

func newTestSession(autoplay AutoPlayMode) (*Session, *fakeRemote, *fakeLoader) {
	remote := &fakeRemote{}
	loader := &fakeLoader{}
	s := NewSession("g1", remote, loader, SessionOptions{DefaultVolume: 30, Autoplay: autoplay, RecommendationLimit: 2})
	return s, remote, loader
}

func TestBindHomeIsSetOnce(t *testing.T) {
	s, _, _ := newTestSession(AutoPlayEnabled)

	_, ok := s.HomeChannel()
	assert.False(t, ok)

	require.NoError(t, s.BindHome("c1"))
	require.NoError(t, s.BindHome("c1"))
	assert.ErrorIs(t, s.BindHome("c2"), ErrWrongChannel)
	assert.ErrorIs(t, s.CheckHome("c2"), ErrWrongChannel)

	home, ok := s.HomeChannel()
	assert.True(t, ok)
	assert.Equal(t, "c1", home)
}

func TestStartNextPlaysAtGivenVolume(t *testing.T) {
	s, remote, _ := newTestSession(AutoPlayEnabled)
	s.Enqueue(track("a"), track("b"))

	started, err := s.StartNext(context.Background(), 30)
	require.NoError(t, err)
	assert.True(t, started)
	assert.Equal(t, []int{30}, remote.volumes)
	assert.Equal(t, "a", s.Current().Title)
	assert.Equal(t, 1, s.Queue().Len())

	started, err = s.StartNext(context.Background(), 30)
	require.NoError(t, err)
	assert.False(t, started, "already playing")
}

func TestStartNextPropagatesRemoteError(t *testing.T) {
	s, remote, _ := newTestSession(AutoPlayEnabled)
	remote.playErr = errors.New("node down")
	s.Enqueue(track("a"))

	started, err := s.StartNext(context.Background(), 30)
	require.ErrorIs(t, err, ErrPlaybackFailed)
	assert.False(t, started)
	assert.False(t, s.Playing())
	require.Equal(t, 1, s.Queue().Len(), "track stays queued")

	remote.playErr = nil
	started, err = s.StartNext(context.Background(), 30)
	require.NoError(t, err)
	assert.True(t, started)
	assert.Equal(t, "a", s.Current().Title)
	assert.Zero(t, s.Queue().Len())
}

func TestSkipAdvancesOrStops(t *testing.T) {
	ctx := context.Background()
	s, remote, _ := newTestSession(AutoPlayPartial)

	_, err := s.Skip(ctx)
	assert.ErrorIs(t, err, ErrNothingPlaying)

	s.Enqueue(track("a"), track("b"))
	_, err = s.StartNext(ctx, 30)
	require.NoError(t, err)

	skipped, err := s.Skip(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", skipped.Title)
	assert.Equal(t, "b", s.Current().Title)

	skipped, err = s.Skip(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", skipped.Title)
	assert.Nil(t, s.Current())
	assert.False(t, s.Playing())
	assert.Equal(t, 1, remote.stopped)
}

func TestTrackEndedFollowsQueueMode(t *testing.T) {
	ctx := context.Background()

	t.Run("normal", func(t *testing.T) {
		s, _, _ := newTestSession(AutoPlayPartial)
		s.Enqueue(track("a"), track("b"))
		_, _ = s.StartNext(ctx, 30)

		require.NoError(t, s.TrackEnded(ctx, track("a"), true))
		assert.Equal(t, "b", s.Current().Title)

		require.NoError(t, s.TrackEnded(ctx, track("b"), true))
		assert.Nil(t, s.Current())
	})

	t.Run("loop one", func(t *testing.T) {
		s, remote, _ := newTestSession(AutoPlayPartial)
		s.Enqueue(track("a"), track("b"))
		_, _ = s.StartNext(ctx, 30)
		s.ToggleLoop()

		require.NoError(t, s.TrackEnded(ctx, track("a"), true))
		assert.Equal(t, "a", s.Current().Title)
		assert.Len(t, remote.played, 2)
		assert.Equal(t, 1, s.Queue().Len())
	})

	t.Run("loop all", func(t *testing.T) {
		s, _, _ := newTestSession(AutoPlayPartial)
		s.Enqueue(track("a"), track("b"))
		_, _ = s.StartNext(ctx, 30)
		s.ToggleLoopQueue()

		require.NoError(t, s.TrackEnded(ctx, track("a"), true))
		assert.Equal(t, "b", s.Current().Title)
		require.NoError(t, s.TrackEnded(ctx, track("b"), true))
		assert.Equal(t, "a", s.Current().Title)
	})

	t.Run("autoplay disabled", func(t *testing.T) {
		s, _, _ := newTestSession(AutoPlayDisabled)
		s.Enqueue(track("a"), track("b"))
		_, _ = s.StartNext(ctx, 30)

		require.NoError(t, s.TrackEnded(ctx, track("a"), true))
		assert.Nil(t, s.Current())
		assert.Equal(t, 1, s.Queue().Len())
	})

	t.Run("ignores replaced and stale ends", func(t *testing.T) {
		s, _, _ := newTestSession(AutoPlayPartial)
		s.Enqueue(track("a"), track("b"))
		_, _ = s.StartNext(ctx, 30)

		require.NoError(t, s.TrackEnded(ctx, track("a"), false))
		require.NoError(t, s.TrackEnded(ctx, track("zzz"), true))
		assert.Equal(t, "a", s.Current().Title)
	})
}

func TestAutoplayFetchesRecommendations(t *testing.T) {
	ctx := context.Background()
	s, _, loader := newTestSession(AutoPlayEnabled)
	loader.result = SearchResult{Tracks: []Track{track("a"), track("r1"), track("r2"), track("r3")}}

	s.Enqueue(track("a"))
	_, _ = s.StartNext(ctx, 30)
	require.NoError(t, s.TrackEnded(ctx, track("a"), true))

	require.Len(t, loader.identifiers, 1)
	assert.Equal(t, "https://music.youtube.com/watch?v=id-a&list=RDid-a", loader.identifiers[0])

	cur := s.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "r1", cur.Title, "already played seed is filtered out")
	assert.True(t, cur.Recommended)
	assert.Zero(t, s.Queue().Len(), "recommendations stay off the user queue")

	require.NoError(t, s.TrackEnded(ctx, track("r1"), true))
	assert.Equal(t, "r2", s.Current().Title)
}

func TestAutoplayLookupFailureGoesIdle(t *testing.T) {
	ctx := context.Background()
	s, _, loader := newTestSession(AutoPlayEnabled)
	loader.err = fmt.Errorf("boom")

	s.Enqueue(track("a"))
	_, _ = s.StartNext(ctx, 30)
	require.NoError(t, s.TrackEnded(ctx, track("a"), true))
	assert.Nil(t, s.Current())
}

func TestTrackStartedReturnsSessionCopy(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestSession(AutoPlayEnabled)
	rec := track("r")
	rec.Recommended = true
	s.Enqueue(rec)
	_, _ = s.StartNext(ctx, 30)

	orig := s.TrackStarted(track("r"))
	require.NotNil(t, orig)
	assert.True(t, orig.Recommended)

	other := s.TrackStarted(track("x"))
	assert.Equal(t, "x", other.Title)
	assert.False(t, other.Recommended)
}

func TestRemoveByTitleIsCaseInsensitiveAndExact(t *testing.T) {
	s, _, _ := newTestSession(AutoPlayEnabled)
	s.Enqueue(track("Song"), track("Other"), track("sOnG"))
	s.Enqueue(track("Song (live)"))

	assert.Equal(t, 2, s.RemoveByTitle("song"))
	titles := []string{}
	for _, tr := range s.Queue().Tracks() {
		titles = append(titles, tr.Title)
	}
	assert.Equal(t, []string{"Other", "Song (live)"}, titles)
	assert.Equal(t, 0, s.RemoveByTitle("missing"))
}

func TestToggleLoopTwiceRestoresMode(t *testing.T) {
	s, _, _ := newTestSession(AutoPlayEnabled)
	assert.Equal(t, QueueLoopOne, s.ToggleLoop())
	assert.Equal(t, QueueNormal, s.ToggleLoop())

	s.ToggleLoopQueue()
	assert.Equal(t, QueueNormal, s.ToggleLoop(), "loop from loop-all returns to normal")
}

func TestPauseVolumeSeekFilters(t *testing.T) {
	ctx := context.Background()
	s, remote, _ := newTestSession(AutoPlayEnabled)

	assert.ErrorIs(t, s.Seek(ctx, time.Second), ErrNothingPlaying)

	s.Enqueue(track("a"))
	_, _ = s.StartNext(ctx, 30)

	paused, err := s.TogglePause(ctx)
	require.NoError(t, err)
	assert.True(t, paused)
	paused, err = s.TogglePause(ctx)
	require.NoError(t, err)
	assert.False(t, paused)
	assert.Equal(t, []bool{true, false}, remote.paused)

	require.NoError(t, s.SetVolume(ctx, 80))
	assert.Equal(t, 80, s.Volume())
	assert.Equal(t, 80, remote.volume)

	require.NoError(t, s.Seek(ctx, 42*time.Second))
	assert.Equal(t, []time.Duration{42 * time.Second}, remote.seeks)

	require.NoError(t, s.ApplyTimescale(ctx, Nightcore))
	assert.Equal(t, &Nightcore, s.Timescale())
	require.NoError(t, s.ResetFilters(ctx))
	assert.Nil(t, s.Timescale())
	assert.Equal(t, 1, remote.resets)
}

func TestDisconnectClearsState(t *testing.T) {
	ctx := context.Background()
	s, remote, _ := newTestSession(AutoPlayEnabled)
	s.Enqueue(track("a"), track("b"))
	_, _ = s.StartNext(ctx, 30)

	require.NoError(t, s.Disconnect(ctx))
	assert.True(t, remote.closed)
	assert.Zero(t, s.Queue().Len())
	assert.False(t, s.Playing())
}

func TestRecommendationQuery(t *testing.T) {
	q, ok := recommendationQuery(Track{Identifier: "abc", SourceName: "spotify"})
	assert.True(t, ok)
	assert.Equal(t, "sprec:seed_tracks=abc", q)

	_, ok = recommendationQuery(Track{Identifier: "abc", SourceName: "soundcloud"})
	assert.False(t, ok)
}
