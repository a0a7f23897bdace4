package player

import (
	"context"
	"strings"
	"time"
)

// Track is an immutable reference to something the audio node can play.
type Track struct {
	Encoded     string
	Identifier  string
	Title       string
	Author      string
	URI         string
	ArtworkURL  string
	AlbumName   string
	SourceName  string
	Length      time.Duration
	IsStream    bool
	Recommended bool
}

func (t Track) String() string { return t.Title }

type SearchResult struct {
	PlaylistName string
	IsPlaylist   bool
	Tracks       []Track
}

type QueueMode int

const (
	QueueNormal QueueMode = iota
	QueueLoopOne
	QueueLoopAll
)

func (m QueueMode) String() string {
	switch m {
	case QueueLoopOne:
		return "loop"
	case QueueLoopAll:
		return "loop_all"
	default:
		return "normal"
	}
}

type AutoPlayMode int

const (
	AutoPlayDisabled AutoPlayMode = iota
	AutoPlayPartial
	AutoPlayEnabled
)

func (m AutoPlayMode) String() string {
	switch m {
	case AutoPlayEnabled:
		return "enabled"
	case AutoPlayPartial:
		return "partial"
	default:
		return "disabled"
	}
}

func ParseAutoPlayMode(s string) (AutoPlayMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "enabled", "on":
		return AutoPlayEnabled, true
	case "partial":
		return AutoPlayPartial, true
	case "disabled", "off":
		return AutoPlayDisabled, true
	}
	return AutoPlayDisabled, false
}

type Timescale struct {
	Pitch float64
	Speed float64
	Rate  float64
}

var (
	Nightcore = Timescale{Pitch: 1.2, Speed: 1.2, Rate: 1}
	Slowed    = Timescale{Pitch: 0.9, Speed: 0.8, Rate: 1}
)

// RemotePlayer is the guild's player on the audio node. Every call is a
// remote request; nothing is applied locally.
type RemotePlayer interface {
	Play(ctx context.Context, t Track, volume int) error
	Stop(ctx context.Context) error
	SetPaused(ctx context.Context, paused bool) error
	SetVolume(ctx context.Context, volume int) error
	Seek(ctx context.Context, position time.Duration) error
	SetTimescale(ctx context.Context, ts Timescale) error
	ResetFilters(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

// Connector joins a voice channel and hands back the remote player for it.
type Connector interface {
	Connect(ctx context.Context, guildID, channelID string) (RemotePlayer, error)
}

// TrackLoader loads a raw identifier (URL, search prefix, recommendation seed).
type TrackLoader interface {
	LoadTracks(ctx context.Context, identifier string) (SearchResult, error)
}

// Searcher resolves a user query into tracks.
type Searcher interface {
	Search(ctx context.Context, query string) (SearchResult, error)
}
