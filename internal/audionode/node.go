// Package audionode connects the bot to a Lavalink node through disgolink and
// adapts it to the player package's interfaces.
package audionode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sonroyaalmerol/wavebot/internal/player"
)

var urlPattern = regexp.MustCompile(`^https?://[-a-zA-Z0-9+&@#/%?=~_|!:,.;]*[-a-zA-Z0-9+&@#/%=~_|]?`)

// searchPrefixes are identifiers the node resolves itself and must not be
// wrapped in a YouTube search.
var searchPrefixes = []string{"ytsearch:", "ytmsearch:", "scsearch:", "spsearch:", "sprec:", "dzsearch:", "amsearch:"}

type NodeConfig struct {
	Name     string
	Address  string
	Password string
	Secure   bool
}

// EventHandler receives node and player events in bot terms.
type EventHandler interface {
	NodeReady(name, version string)
	TrackStarted(guildID string, t player.Track)
	TrackEnded(guildID string, t player.Track, reason string, mayStartNext bool)
}

// VoiceGateway sends voice state updates over the Discord gateway.
// *discordgo.Session satisfies it.
type VoiceGateway interface {
	ChannelVoiceJoinManual(gID, cID string, mute, deaf bool) error
}

type Node struct {
	client  disgolink.Client
	gateway VoiceGateway
	events  EventHandler
}

func New(botUserID string, gateway VoiceGateway, events EventHandler) (*Node, error) {
	uid, err := snowflake.Parse(botUserID)
	if err != nil {
		return nil, fmt.Errorf("bot user id: %w", err)
	}
	n := &Node{gateway: gateway, events: events}
	n.client = disgolink.New(uid,
		disgolink.WithListenerFunc(n.onTrackStart),
		disgolink.WithListenerFunc(n.onTrackEnd),
		disgolink.WithListenerFunc(n.onTrackException),
		disgolink.WithListenerFunc(n.onTrackStuck),
		disgolink.WithListenerFunc(n.onWebSocketClosed),
	)
	return n, nil
}

// AddNode opens the connection to the configured node and reports it ready
// once it answers a version request.
func (n *Node) AddNode(ctx context.Context, cfg NodeConfig) error {
	node, err := n.client.AddNode(ctx, disgolink.NodeConfig{
		Name:     cfg.Name,
		Address:  cfg.Address,
		Password: cfg.Password,
		Secure:   cfg.Secure,
	})
	if err != nil {
		return fmt.Errorf("add lavalink node: %w", err)
	}
	version, err := node.Version(ctx)
	if err != nil {
		return fmt.Errorf("lavalink node version: %w", err)
	}
	if n.events != nil {
		n.events.NodeReady(cfg.Name, version)
	}
	return nil
}

func (n *Node) Close() { n.client.Close() }

// OnVoiceStateUpdate forwards the bot's own voice state to the node. An empty
// channelID means the bot left voice.
func (n *Node) OnVoiceStateUpdate(ctx context.Context, guildID, channelID, sessionID string) {
	gid, err := snowflake.Parse(guildID)
	if err != nil {
		return
	}
	var cid *snowflake.ID
	if channelID != "" {
		id, err := snowflake.Parse(channelID)
		if err != nil {
			return
		}
		cid = &id
	}
	n.client.OnVoiceStateUpdate(ctx, gid, cid, sessionID)
}

func (n *Node) OnVoiceServerUpdate(ctx context.Context, guildID, token, endpoint string) {
	gid, err := snowflake.Parse(guildID)
	if err != nil {
		return
	}
	n.client.OnVoiceServerUpdate(ctx, gid, token, endpoint)
}

// Connect joins the voice channel and returns the guild's remote player.
func (n *Node) Connect(ctx context.Context, guildID, channelID string) (player.RemotePlayer, error) {
	gid, err := snowflake.Parse(guildID)
	if err != nil {
		return nil, fmt.Errorf("guild id: %w", err)
	}
	if n.client.BestNode() == nil {
		return nil, errors.New("no lavalink node available")
	}
	// The player must exist before voice updates arrive or disgolink drops them.
	n.client.Player(gid)
	if err := n.gateway.ChannelVoiceJoinManual(guildID, channelID, false, true); err != nil {
		return nil, err
	}
	return &remotePlayer{client: n.client, gateway: n.gateway, guildID: gid, rawGuildID: guildID}, nil
}

// Search resolves a user query. Anything that is neither a URL nor an
// explicit search prefix becomes a YouTube search.
func (n *Node) Search(ctx context.Context, query string) (player.SearchResult, error) {
	return n.LoadTracks(ctx, searchIdentifier(query))
}

func (n *Node) LoadTracks(ctx context.Context, identifier string) (player.SearchResult, error) {
	node := n.client.BestNode()
	if node == nil {
		return player.SearchResult{}, errors.New("no lavalink node available")
	}

	var (
		res     player.SearchResult
		loadErr error
	)
	node.LoadTracksHandler(ctx, identifier, disgolink.NewResultHandler(
		func(track lavalink.Track) {
			res.Tracks = []player.Track{toTrack(track)}
		},
		func(playlist lavalink.Playlist) {
			res.IsPlaylist = true
			res.PlaylistName = playlist.Info.Name
			res.Tracks = toTracks(playlist.Tracks)
		},
		func(tracks []lavalink.Track) {
			res.Tracks = toTracks(tracks)
		},
		func() {
			loadErr = player.ErrNoResultsFound
		},
		func(err error) {
			loadErr = err
		},
	))
	if loadErr != nil {
		return player.SearchResult{}, loadErr
	}
	if len(res.Tracks) == 0 {
		return player.SearchResult{}, player.ErrNoResultsFound
	}
	return res, nil
}

func searchIdentifier(query string) string {
	q := strings.TrimSpace(query)
	if urlPattern.MatchString(q) {
		return q
	}
	for _, p := range searchPrefixes {
		if strings.HasPrefix(q, p) {
			return q
		}
	}
	return lavalink.SearchTypeYouTube.Apply(q)
}

func (n *Node) onTrackStart(p disgolink.Player, event lavalink.TrackStartEvent) {
	if n.events == nil {
		return
	}
	n.events.TrackStarted(p.GuildID().String(), toTrack(event.Track))
}

func (n *Node) onTrackEnd(p disgolink.Player, event lavalink.TrackEndEvent) {
	if n.events == nil {
		return
	}
	n.events.TrackEnded(p.GuildID().String(), toTrack(event.Track), string(event.Reason), event.Reason.MayStartNext())
}

func (n *Node) onTrackException(p disgolink.Player, event lavalink.TrackExceptionEvent) {
	slog.Warn("track exception", "guildID", p.GuildID().String(), "title", event.Track.Info.Title, "err", event.Exception.Message)
}

func (n *Node) onTrackStuck(p disgolink.Player, event lavalink.TrackStuckEvent) {
	slog.Warn("track stuck", "guildID", p.GuildID().String(), "title", event.Track.Info.Title)
}

func (n *Node) onWebSocketClosed(p disgolink.Player, event lavalink.WebSocketClosedEvent) {
	slog.Warn("voice websocket closed", "guildID", p.GuildID().String(), "code", event.Code, "reason", event.Reason)
}
