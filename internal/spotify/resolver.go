package spotify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sonroyaalmerol/wavebot/internal/player"
	"github.com/zmb3/spotify/v2"
)

// Catalog is the subset of the Spotify Web API the resolver needs.
type Catalog interface {
	GetTrack(ctx context.Context, id spotify.ID) (Track, error)
	GetAlbum(ctx context.Context, id spotify.ID, limit int) ([]Track, PlaylistMeta, error)
	GetPlaylist(ctx context.Context, id spotify.ID, limit int) ([]Track, PlaylistMeta, error)
	GetArtistTop(ctx context.Context, id spotify.ID, limit int) ([]Track, PlaylistMeta, error)
}

// Resolver turns Spotify links into playable node tracks by searching for each
// Spotify track by name and artist. Every other query goes straight to the
// node.
type Resolver struct {
	node    player.Searcher
	catalog Catalog
	limit   int
}

// NewResolver wraps node. A nil catalog leaves Spotify links to the node's
// own source plugins.
func NewResolver(node player.Searcher, catalog Catalog, limit int) *Resolver {
	return &Resolver{node: node, catalog: catalog, limit: limit}
}

func (r *Resolver) Search(ctx context.Context, query string) (player.SearchResult, error) {
	if r.catalog == nil {
		return r.node.Search(ctx, query)
	}
	typ, id, err := ParseID(query)
	if err != nil {
		return r.node.Search(ctx, query)
	}

	var (
		tracks []Track
		meta   PlaylistMeta
	)
	switch typ {
	case "track":
		t, err := r.catalog.GetTrack(ctx, id)
		if err != nil {
			return player.SearchResult{}, fmt.Errorf("spotify track %s: %w", id, err)
		}
		found, err := r.first(ctx, t)
		if err != nil {
			return player.SearchResult{}, err
		}
		return player.SearchResult{Tracks: []player.Track{found}}, nil
	case "album":
		tracks, meta, err = r.catalog.GetAlbum(ctx, id, r.limit)
	case "playlist":
		tracks, meta, err = r.catalog.GetPlaylist(ctx, id, r.limit)
	case "artist":
		tracks, meta, err = r.catalog.GetArtistTop(ctx, id, r.limit)
	}
	if err != nil {
		return player.SearchResult{}, fmt.Errorf("spotify %s %s: %w", typ, id, err)
	}

	res := player.SearchResult{IsPlaylist: true, PlaylistName: meta.Title}
	for _, t := range tracks {
		if err := ctx.Err(); err != nil {
			return player.SearchResult{}, err
		}
		found, err := r.first(ctx, t)
		if err != nil {
			slog.Debug("spotify track not found on node", "query", t.Query(), "err", err)
			continue
		}
		res.Tracks = append(res.Tracks, found)
	}
	if len(res.Tracks) == 0 {
		return player.SearchResult{}, player.ErrNoResultsFound
	}
	return res, nil
}

func (r *Resolver) first(ctx context.Context, t Track) (player.Track, error) {
	res, err := r.node.Search(ctx, t.Query())
	if err != nil {
		return player.Track{}, err
	}
	if len(res.Tracks) == 0 {
		return player.Track{}, errors.Join(player.ErrNoResultsFound, fmt.Errorf("no match for %q", t.Query()))
	}
	return res.Tracks[0], nil
}
