package audionode

import (
	"time"

	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/sonroyaalmerol/wavebot/internal/player"
)

func toTrack(t lavalink.Track) player.Track {
	out := player.Track{
		Encoded:    t.Encoded,
		Identifier: t.Info.Identifier,
		Title:      t.Info.Title,
		Author:     t.Info.Author,
		SourceName: t.Info.SourceName,
		Length:     fromDuration(t.Info.Length),
		IsStream:   t.Info.IsStream,
		AlbumName:  albumName(t),
	}
	if t.Info.URI != nil {
		out.URI = *t.Info.URI
	}
	if t.Info.ArtworkURL != nil {
		out.ArtworkURL = *t.Info.ArtworkURL
	}
	return out
}

func toTracks(ts []lavalink.Track) []player.Track {
	out := make([]player.Track, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTrack(t))
	}
	return out
}

// albumName reads the album reported by source plugins such as LavaSrc.
func albumName(t lavalink.Track) string {
	if len(t.PluginInfo) == 0 {
		return ""
	}
	var info struct {
		AlbumName string `json:"albumName"`
	}
	if err := t.PluginInfo.Unmarshal(&info); err != nil {
		return ""
	}
	return info.AlbumName
}

func toDuration(d time.Duration) lavalink.Duration {
	return lavalink.Duration(d.Milliseconds())
}

func fromDuration(d lavalink.Duration) time.Duration {
	return time.Duration(d) * time.Millisecond
}
