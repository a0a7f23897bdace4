package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/sonroyaalmerol/wavebot/internal/audionode"
	"github.com/sonroyaalmerol/wavebot/internal/config"
	"github.com/sonroyaalmerol/wavebot/internal/player"
	"github.com/sonroyaalmerol/wavebot/internal/repository"
	"github.com/sonroyaalmerol/wavebot/internal/spotify"
)

type Bot struct {
	cfg  *config.Config
	repo *repository.Repo
	favs *repository.FavoritesService
}

func NewBot(cfg *config.Config, repo *repository.Repo) *Bot {
	return &Bot{cfg: cfg, repo: repo, favs: repository.NewFavoritesService(repo)}
}

// nodeEvents feeds node callbacks into the router. It never blocks the node's
// read loop.
type nodeEvents struct {
	ctx    context.Context
	router *Router
}

func (n *nodeEvents) NodeReady(name, version string) {
	n.router.Post(n.ctx, NodeReady{Name: name, Version: version})
}

func (n *nodeEvents) TrackStarted(guildID string, t player.Track) {
	n.router.Post(n.ctx, TrackStarted{GuildID: guildID, Track: t})
}

func (n *nodeEvents) TrackEnded(guildID string, t player.Track, reason string, mayStartNext bool) {
	n.router.Post(n.ctx, TrackEnded{GuildID: guildID, Track: t, Reason: reason, MayStartNext: mayStartNext})
}

func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	me, err := dg.User("@me")
	if err != nil {
		return fmt.Errorf("fetch bot user: %w", err)
	}

	events := &nodeEvents{ctx: ctx}
	node, err := audionode.New(me.ID, dg, events)
	if err != nil {
		return err
	}

	var catalog spotify.Catalog
	if b.cfg.SpotifyEnabled() {
		client, err := spotify.NewClientCredentials(b.cfg.SpotifyClientID, b.cfg.SpotifyClientSecret)
		if err != nil {
			slog.Warn("spotify client init failed, leaving spotify links to the node", "err", err)
		} else {
			catalog = client
		}
	}
	search := spotify.NewResolver(node, catalog, b.cfg.PlaylistLimit)

	autoplay, _ := player.ParseAutoPlayMode(b.cfg.AutoplayMode)
	pm := player.NewPlayerManager(node, node, player.SessionOptions{
		DefaultVolume:       b.cfg.DefaultVolume,
		Autoplay:            autoplay,
		RecommendationLimit: b.cfg.RecommendationLimit,
	})

	msg := discordMessenger{s: dg}
	notifier := NewNotifier(pm, msg)
	cmds := NewCommandHandler(b.cfg, pm, search, b.favs, msg, stateVoiceLocator{s: dg}, notifier,
		NewThrottle(b.cfg.CommandRate, b.cfg.CommandBurst))
	router := NewRouter(pm, cmds, NewInteractionHandler(pm, b.favs, msg), notifier)
	events.router = router

	var nodeOnce sync.Once
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("connected", "user", s.State.User.Username, "guilds", len(r.Guilds))
		b.setPresence(s)
		nodeOnce.Do(func() {
			go func() {
				err := node.AddNode(ctx, audionode.NodeConfig{
					Name:     b.cfg.LavalinkName,
					Address:  b.cfg.LavalinkAddress,
					Password: b.cfg.LavalinkPassword,
					Secure:   b.cfg.LavalinkSecure,
				})
				if err != nil {
					slog.Error("lavalink node connect failed", "address", b.cfg.LavalinkAddress, "err", err)
				}
			}()
		})
	})

	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot || m.GuildID == "" {
			return
		}
		name, args, ok := ParseCommand(b.cfg.CommandPrefix, m.Content)
		if !ok {
			return
		}
		router.Post(ctx, CommandInvoked{Command{
			GuildID:   m.GuildID,
			ChannelID: m.ChannelID,
			UserID:    m.Author.ID,
			MessageID: m.ID,
			Name:      name,
			Args:      args,
		}})
	})

	dg.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionMessageComponent || i.GuildID == "" {
			slog.Debug("interaction: ignored type", "type", i.Type, "guildID", i.GuildID)
			return
		}
		ev := ButtonClicked{
			GuildID:     i.GuildID,
			ChannelID:   i.ChannelID,
			UserID:      userIDOf(i),
			CustomID:    i.MessageComponentData().CustomID,
			Interaction: i.Interaction,
		}
		if i.Message != nil {
			ev.MessageID = i.Message.ID
		}
		router.Post(ctx, ev)
	})

	dg.AddHandler(func(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
		if vs.UserID != me.ID {
			return
		}
		node.OnVoiceStateUpdate(ctx, vs.GuildID, vs.ChannelID, vs.SessionID)
		if vs.ChannelID == "" {
			router.Post(ctx, VoiceLeft{GuildID: vs.GuildID})
		}
	})

	dg.AddHandler(func(s *discordgo.Session, vs *discordgo.VoiceServerUpdate) {
		node.OnVoiceServerUpdate(ctx, vs.GuildID, vs.Token, vs.Endpoint)
	})

	if err := dg.Open(); err != nil {
		node.Close()
		return err
	}

	<-ctx.Done()
	slog.Info("shutting down", "sessions", pm.Len())
	if err := dg.Close(); err != nil {
		slog.Warn("discord close failed", "err", err)
	}
	node.Close()
	router.Wait()
	return nil
}

func (b *Bot) setPresence(s *discordgo.Session) {
	err := s.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: b.cfg.BotStatus,
		Activities: []*discordgo.Activity{{
			Name: b.cfg.BotActivity,
			Type: discordgo.ActivityTypeListening,
		}},
	})
	if err != nil {
		slog.Warn("failed to set presence", "err", err)
	}
}

func userIDOf(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
