package player

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const historySize = 100

type SessionOptions struct {
	DefaultVolume       int
	Autoplay            AutoPlayMode
	RecommendationLimit int
}

// Session is the playback state of one guild. It is not safe for concurrent
// use: callers must serialize access per guild.
type Session struct {
	GuildID string

	remote RemotePlayer
	loader TrackLoader
	opts   SessionOptions

	homeChannelID string
	autoplay      AutoPlayMode
	timescale     *Timescale
	volume        int
	playing       bool
	paused        bool
	current       *Track

	queue     *Queue
	autoQueue *Queue
	history   []Track

	nowPlayingMsgID string
}

func NewSession(guildID string, remote RemotePlayer, loader TrackLoader, opts SessionOptions) *Session {
	return &Session{
		GuildID:   guildID,
		remote:    remote,
		loader:    loader,
		opts:      opts,
		autoplay:  opts.Autoplay,
		volume:    opts.DefaultVolume,
		queue:     NewQueue(),
		autoQueue: NewQueue(),
	}
}

func (s *Session) HomeChannel() (string, bool) {
	return s.homeChannelID, s.homeChannelID != ""
}

// BindHome sets the home channel the first time it is called. Later calls
// succeed only for that same channel.
func (s *Session) BindHome(channelID string) error {
	if s.homeChannelID == "" {
		s.homeChannelID = channelID
		return nil
	}
	return s.CheckHome(channelID)
}

func (s *Session) CheckHome(channelID string) error {
	if s.homeChannelID != "" && s.homeChannelID != channelID {
		return ErrWrongChannel
	}
	return nil
}

func (s *Session) Queue() *Queue { return s.queue }
func (s *Session) Mode() QueueMode { return s.queue.Mode() }
func (s *Session) Autoplay() AutoPlayMode { return s.autoplay }
func (s *Session) SetAutoplay(m AutoPlayMode) { s.autoplay = m }
func (s *Session) Playing() bool { return s.playing }
func (s *Session) Volume() int { return s.volume }
func (s *Session) Timescale() *Timescale { return s.timescale }

func (s *Session) Current() *Track {
	if s.current == nil {
		return nil
	}
	t := *s.current
	return &t
}

func (s *Session) NowPlayingMessage() string { return s.nowPlayingMsgID }
func (s *Session) SetNowPlayingMessage(id string) { s.nowPlayingMsgID = id }

// Enqueue appends tracks to the back of the queue.
func (s *Session) Enqueue(tracks ...Track) int {
	return s.queue.Put(tracks...)
}

// StartNext plays the next queued track at the given volume when the player is
// idle. It reports whether playback was started. The track stays queued when
// the node refuses it.
func (s *Session) StartNext(ctx context.Context, volume int) (bool, error) {
	if s.playing {
		return false, nil
	}
	t, ok := s.queue.Peek()
	if !ok {
		return false, nil
	}
	s.volume = volume
	if err := s.play(ctx, t); err != nil {
		return false, err
	}
	s.queue.Pop()
	return true, nil
}

// Skip force-advances to the next track, or stops when nothing follows.
func (s *Session) Skip(ctx context.Context) (Track, error) {
	if s.current == nil {
		return Track{}, ErrNothingPlaying
	}
	skipped := *s.current
	next, err := s.next(ctx, &skipped, false)
	if err != nil {
		slog.Warn("autoplay lookup failed", "guildID", s.GuildID, "err", err)
	}
	if next == nil {
		return skipped, s.stop(ctx)
	}
	return skipped, s.play(ctx, *next)
}

// TrackStarted records that the node began playing t and returns the
// session's own copy of it, which carries the recommendation flag.
func (s *Session) TrackStarted(t Track) *Track {
	s.playing = true
	s.paused = false
	if s.current != nil && s.current.Encoded == t.Encoded {
		return s.Current()
	}
	s.current = &t
	return s.Current()
}

// TrackEnded advances the queue after the node finished ended. mayStartNext
// is false for ends caused by our own stop or replace calls.
func (s *Session) TrackEnded(ctx context.Context, ended Track, mayStartNext bool) error {
	if s.current == nil || s.current.Encoded != ended.Encoded {
		return nil
	}
	if !mayStartNext {
		return nil
	}
	if s.autoplay == AutoPlayDisabled {
		s.idle()
		return nil
	}
	prev := *s.current
	next, err := s.next(ctx, &prev, true)
	if err != nil {
		slog.Warn("autoplay lookup failed", "guildID", s.GuildID, "err", err)
	}
	if next == nil {
		s.idle()
		return nil
	}
	return s.play(ctx, *next)
}

func (s *Session) TogglePause(ctx context.Context) (bool, error) {
	paused := !s.paused
	if err := s.remote.SetPaused(ctx, paused); err != nil {
		return s.paused, err
	}
	s.paused = paused
	return paused, nil
}

func (s *Session) SetVolume(ctx context.Context, volume int) error {
	if err := s.remote.SetVolume(ctx, volume); err != nil {
		return err
	}
	s.volume = volume
	return nil
}

func (s *Session) Seek(ctx context.Context, position time.Duration) error {
	if s.current == nil {
		return ErrNothingPlaying
	}
	return s.remote.Seek(ctx, position)
}

func (s *Session) ApplyTimescale(ctx context.Context, ts Timescale) error {
	if err := s.remote.SetTimescale(ctx, ts); err != nil {
		return err
	}
	s.timescale = &ts
	return nil
}

func (s *Session) ResetFilters(ctx context.Context) error {
	if err := s.remote.ResetFilters(ctx); err != nil {
		return err
	}
	s.timescale = nil
	return nil
}

func (s *Session) Shuffle() { s.queue.Shuffle() }

func (s *Session) ClearQueue() { s.queue.Clear() }

// RemoveByTitle removes every queued track whose title equals name, ignoring
// case.
func (s *Session) RemoveByTitle(name string) int {
	return s.queue.RemoveFunc(func(t Track) bool {
		return strings.EqualFold(t.Title, name)
	})
}

// ToggleLoop switches between normal and loop-one. Any other mode goes back
// to normal.
func (s *Session) ToggleLoop() QueueMode {
	if s.queue.Mode() == QueueNormal {
		s.queue.SetMode(QueueLoopOne)
	} else {
		s.queue.SetMode(QueueNormal)
	}
	return s.queue.Mode()
}

func (s *Session) ToggleLoopQueue() QueueMode {
	if s.queue.Mode() == QueueLoopAll {
		s.queue.SetMode(QueueNormal)
	} else {
		s.queue.SetMode(QueueLoopAll)
	}
	return s.queue.Mode()
}

func (s *Session) Disconnect(ctx context.Context) error {
	s.idle()
	s.queue.Clear()
	s.autoQueue.Clear()
	return s.remote.Disconnect(ctx)
}

func (s *Session) next(ctx context.Context, prev *Track, natural bool) (*Track, error) {
	mode := s.queue.Mode()
	if natural && mode == QueueLoopOne && prev != nil {
		return prev, nil
	}
	if mode == QueueLoopAll && prev != nil && !prev.Recommended {
		s.queue.Put(*prev)
	}
	if t, ok := s.queue.Pop(); ok {
		return &t, nil
	}
	if t, ok := s.autoQueue.Pop(); ok {
		return &t, nil
	}
	if s.autoplay != AutoPlayEnabled || prev == nil {
		return nil, nil
	}
	if err := s.fillRecommendations(ctx, *prev); err != nil {
		return nil, err
	}
	if t, ok := s.autoQueue.Pop(); ok {
		return &t, nil
	}
	return nil, nil
}

func (s *Session) play(ctx context.Context, t Track) error {
	if err := s.remote.Play(ctx, t, s.volume); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrPlaybackFailed, t.Title, err)
	}
	s.current = &t
	s.playing = true
	s.paused = false
	s.history = append(s.history, t)
	if len(s.history) > historySize {
		s.history = s.history[len(s.history)-historySize:]
	}
	return nil
}

func (s *Session) stop(ctx context.Context) error {
	if err := s.remote.Stop(ctx); err != nil {
		return err
	}
	s.idle()
	return nil
}

func (s *Session) idle() {
	s.current = nil
	s.playing = false
	s.paused = false
}
