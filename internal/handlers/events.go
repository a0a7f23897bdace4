package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/sonroyaalmerol/wavebot/internal/player"
)

// Event is anything the router can dispatch. The concrete types below are the
// complete set.
type Event interface {
	guild() string
}

type NodeReady struct {
	Name    string
	Version string
}

type TrackStarted struct {
	GuildID string
	Track   player.Track
}

type TrackEnded struct {
	GuildID      string
	Track        player.Track
	Reason       string
	MayStartNext bool
}

type ButtonClicked struct {
	GuildID     string
	ChannelID   string
	UserID      string
	MessageID   string
	CustomID    string
	Interaction *discordgo.Interaction
}

type CommandInvoked struct {
	Command
}

// VoiceLeft means the bot is no longer in a voice channel in the guild.
type VoiceLeft struct {
	GuildID string
}

func (NodeReady) guild() string { return "" }
func (e TrackStarted) guild() string { return e.GuildID }
func (e TrackEnded) guild() string { return e.GuildID }
func (e ButtonClicked) guild() string { return e.GuildID }
func (e CommandInvoked) guild() string { return e.GuildID }
func (e VoiceLeft) guild() string { return e.GuildID }

// Router hands events to their handlers. Events posted for one guild run one
// at a time in posting order; different guilds run in parallel.
type Router struct {
	pm       *player.PlayerManager
	commands *CommandHandler
	buttons  *InteractionHandler
	notifier *Notifier

	mu    sync.Mutex
	boxes map[string]*mailbox
	wg    sync.WaitGroup
}

// mailbox holds the events of one guild that are waiting for its worker.
type mailbox struct {
	pending []posted
}

type posted struct {
	ctx context.Context
	ev  Event
}

func NewRouter(pm *player.PlayerManager, commands *CommandHandler, buttons *InteractionHandler, notifier *Notifier) *Router {
	return &Router{
		pm:       pm,
		commands: commands,
		buttons:  buttons,
		notifier: notifier,
		boxes:    make(map[string]*mailbox),
	}
}

// Post queues ev behind earlier events of the same guild and returns without
// waiting for it to run. The guild's worker exits once its mailbox is empty.
func (r *Router) Post(ctx context.Context, ev Event) {
	key := ev.guild()
	r.mu.Lock()
	defer r.mu.Unlock()
	box, running := r.boxes[key]
	if !running {
		box = &mailbox{}
		r.boxes[key] = box
	}
	box.pending = append(box.pending, posted{ctx: ctx, ev: ev})
	if !running {
		r.wg.Add(1)
		go r.drain(key, box)
	}
}

// Wait blocks until every posted event has been handled.
func (r *Router) Wait() {
	r.wg.Wait()
}

func (r *Router) drain(key string, box *mailbox) {
	defer r.wg.Done()
	for {
		r.mu.Lock()
		if len(box.pending) == 0 {
			delete(r.boxes, key)
			r.mu.Unlock()
			return
		}
		next := box.pending[0]
		box.pending[0] = posted{}
		box.pending = box.pending[1:]
		r.mu.Unlock()

		r.Dispatch(next.ctx, next.ev)
	}
}

// Dispatch runs the handler for ev on the calling goroutine. Callers that
// deliver events concurrently go through Post instead.
func (r *Router) Dispatch(ctx context.Context, ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("event handler panicked",
				"event", fmt.Sprintf("%T", ev),
				"guildID", ev.guild(),
				"panic", rec,
				"stack", string(debug.Stack()),
			)
		}
	}()

	switch e := ev.(type) {
	case NodeReady:
		slog.Info("lavalink node ready", "name", e.Name, "version", e.Version)
	case TrackStarted:
		r.notifier.TrackStarted(ctx, e.GuildID, e.Track)
	case TrackEnded:
		r.trackEnded(ctx, e)
	case ButtonClicked:
		r.buttons.Handle(ctx, e)
	case CommandInvoked:
		r.commands.Handle(ctx, e.Command)
	case VoiceLeft:
		r.voiceLeft(ctx, e)
	default:
		slog.Warn("unknown event", "event", fmt.Sprintf("%T", ev))
	}
}

func (r *Router) trackEnded(ctx context.Context, e TrackEnded) {
	s := r.pm.Peek(e.GuildID)
	if s == nil {
		return
	}
	slog.Debug("track ended", "guildID", e.GuildID, "title", e.Track.Title, "reason", e.Reason)
	if err := s.TrackEnded(ctx, e.Track, e.MayStartNext); err != nil {
		slog.Error("failed to advance queue", "guildID", e.GuildID, "err", err)
	}
}

func (r *Router) voiceLeft(ctx context.Context, e VoiceLeft) {
	s := r.pm.Remove(e.GuildID)
	if s == nil {
		return
	}
	slog.Info("left voice, dropping session", "guildID", e.GuildID)
	if err := s.Disconnect(ctx); err != nil {
		slog.Warn("cleanup after leaving voice failed", "guildID", e.GuildID, "err", err)
	}
}
