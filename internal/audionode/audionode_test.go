package audionode

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spotifyTrackJSON = `{
	"encoded": "QAAAjQIAJFJpY2sgQXN0bGV5",
	"info": {
		"identifier": "4cOdK2wGLETKBW3PvgPWqT",
		"isSeekable": true,
		"author": "Rick Astley",
		"length": 213573,
		"isStream": false,
		"position": 0,
		"title": "Never Gonna Give You Up",
		"uri": "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT",
		"artworkUrl": "https://i.scdn.co/image/cover.jpg",
		"isrc": "GBARL9300135",
		"sourceName": "spotify"
	},
	"pluginInfo": {"albumName": "Whenever You Need Somebody"},
	"userData": {}
}`

func TestToTrack(t *testing.T) {
	var lt lavalink.Track
	require.NoError(t, json.Unmarshal([]byte(spotifyTrackJSON), &lt))

	tr := toTrack(lt)
	assert.Equal(t, "QAAAjQIAJFJpY2sgQXN0bGV5", tr.Encoded)
	assert.Equal(t, "4cOdK2wGLETKBW3PvgPWqT", tr.Identifier)
	assert.Equal(t, "Never Gonna Give You Up", tr.Title)
	assert.Equal(t, "Rick Astley", tr.Author)
	assert.Equal(t, "spotify", tr.SourceName)
	assert.Equal(t, "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT", tr.URI)
	assert.Equal(t, "https://i.scdn.co/image/cover.jpg", tr.ArtworkURL)
	assert.Equal(t, "Whenever You Need Somebody", tr.AlbumName)
	assert.Equal(t, 213573*time.Millisecond, tr.Length)
	assert.False(t, tr.Recommended)
}

func TestToTrackWithoutOptionalFields(t *testing.T) {
	lt := lavalink.Track{
		Encoded: "enc",
		Info: lavalink.TrackInfo{
			Identifier: "abc",
			Title:      "Live",
			IsStream:   true,
			SourceName: "youtube",
		},
	}

	tr := toTrack(lt)
	assert.Empty(t, tr.URI)
	assert.Empty(t, tr.ArtworkURL)
	assert.Empty(t, tr.AlbumName)
	assert.True(t, tr.IsStream)
}

func TestSearchIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"never gonna give you up", "ytsearch:never gonna give you up"},
		{"  lofi  ", "ytsearch:lofi"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"http://example.com/stream.mp3", "http://example.com/stream.mp3"},
		{"scsearch:ambient", "scsearch:ambient"},
		{"sprec:seed_tracks=abc", "sprec:seed_tracks=abc"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, searchIdentifier(tt.in))
		})
	}
}

func TestDurationConversion(t *testing.T) {
	assert.Equal(t, lavalink.Duration(90000), toDuration(90*time.Second))
	assert.Equal(t, 90*time.Second, fromDuration(lavalink.Duration(90000)))
}

func TestAlbumNameFromPluginInfo(t *testing.T) {
	assert.Equal(t, "Abbey Road", albumName(lavalink.Track{PluginInfo: lavalink.RawData(`{"albumName":"Abbey Road"}`)}))
	assert.Empty(t, albumName(lavalink.Track{PluginInfo: lavalink.RawData(`"not an object"`)}))
	assert.Empty(t, albumName(lavalink.Track{}))
}
