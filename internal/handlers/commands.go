package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sonroyaalmerol/wavebot/internal/config"
	"github.com/sonroyaalmerol/wavebot/internal/player"
	"github.com/sonroyaalmerol/wavebot/internal/repository"
	"github.com/sonroyaalmerol/wavebot/internal/ui"
	"github.com/sonroyaalmerol/wavebot/internal/utils"
)

const (
	reactionOK = "✅"
	maxVolume  = 1000
)

// Command is one parsed chat command.
type Command struct {
	GuildID   string
	ChannelID string
	UserID    string
	MessageID string
	Name      string
	Args      string
}

// ParseCommand splits "<prefix><name> <args>" into its parts. Names are
// matched case-insensitively.
func ParseCommand(prefix, content string) (name, args string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", false
	}
	rest := strings.TrimSpace(content[len(prefix):])
	if rest == "" {
		return "", "", false
	}
	name, args, _ = strings.Cut(rest, " ")
	return strings.ToLower(name), strings.TrimSpace(args), true
}

// usageError asks the user to retry with the given syntax.
type usageError string

func (e usageError) Error() string { return "usage: " + string(e) }

type commandFunc func(ctx context.Context, cmd Command) error

type CommandHandler struct {
	cfg      *config.Config
	pm       *player.PlayerManager
	search   player.Searcher
	favs     *repository.FavoritesService
	msg      Messenger
	voice    VoiceLocator
	notifier *Notifier
	throttle *Throttle

	commands map[string]commandFunc
}

func NewCommandHandler(
	cfg *config.Config,
	pm *player.PlayerManager,
	search player.Searcher,
	favs *repository.FavoritesService,
	msg Messenger,
	voice VoiceLocator,
	notifier *Notifier,
	throttle *Throttle,
) *CommandHandler {
	h := &CommandHandler{
		cfg:      cfg,
		pm:       pm,
		search:   search,
		favs:     favs,
		msg:      msg,
		voice:    voice,
		notifier: notifier,
		throttle: throttle,
	}
	h.commands = map[string]commandFunc{
		"play":       h.cmdPlay,
		"play_lofi":  h.cmdPlayLofi,
		"skip":       h.cmdSkip,
		"toggle":     h.cmdToggle,
		"pause":      h.cmdToggle,
		"resume":     h.cmdToggle,
		"volume":     h.cmdVolume,
		"queue":      h.cmdQueue,
		"shuffle":    h.cmdShuffle,
		"remove":     h.cmdRemove,
		"clear":      h.cmdClear,
		"loop":       h.cmdLoop,
		"loopqueue":  h.cmdLoopQueue,
		"autoplay":   h.cmdAutoplay,
		"disconnect": h.cmdDisconnect,
		"dc":         h.cmdDisconnect,
		"nightcore":  h.filter(player.Nightcore),
		"slowed":     h.filter(player.Slowed),
		"rmfilter":   h.cmdRmFilter,
		"seek":       h.cmdSeek,
		"nowplaying": h.cmdNowPlaying,
		"np":         h.cmdNowPlaying,
		"favorite":   h.cmdFavorite,
		"fav":        h.cmdFavorite,
		"favorites":  h.cmdFavorites,
		"help":       h.cmdHelp,
	}
	return h
}

// Handle runs cmd and turns any failure into a chat reply.
func (h *CommandHandler) Handle(ctx context.Context, cmd Command) {
	fn, ok := h.commands[cmd.Name]
	if !ok {
		slog.Debug("unknown command", "name", cmd.Name, "guildID", cmd.GuildID, "userID", cmd.UserID)
		return
	}
	if h.throttle != nil {
		if ok, warn := h.throttle.Check(cmd.UserID); !ok {
			slog.Debug("command throttled", "name", cmd.Name, "guildID", cmd.GuildID, "userID", cmd.UserID)
			if warn {
				h.send(cmd.ChannelID, fmt.Sprintf("<@%s> slow down, you're sending commands too fast.", cmd.UserID))
			}
			return
		}
	}
	slog.Info("cmd "+cmd.Name, "guildID", cmd.GuildID, "userID", cmd.UserID, "args", cmd.Args)
	if err := fn(ctx, cmd); err != nil {
		h.replyError(cmd, err)
	}
}

func (h *CommandHandler) replyError(cmd Command, err error) {
	var (
		usage usageError
		text  string
	)
	switch {
	case errors.As(err, &usage):
		text = fmt.Sprintf("Usage: `%s%s`", h.cfg.CommandPrefix, string(usage))
	case errors.Is(err, player.ErrNotInVoiceChannel):
		text = "Please join a voice channel first before using this command."
	case errors.Is(err, player.ErrConnectFailed):
		slog.Warn("voice connect failed", "guildID", cmd.GuildID, "err", err)
		text = "I was unable to join this voice channel. Please try again."
	case errors.Is(err, player.ErrWrongChannel):
		home := ""
		if s := h.pm.Peek(cmd.GuildID); s != nil {
			home, _ = s.HomeChannel()
		}
		text = fmt.Sprintf("You can only play songs in <#%s>, as the player has already started there.", home)
	case errors.Is(err, player.ErrNoActiveSession):
		text = "I'm not connected to a voice channel."
	case errors.Is(err, player.ErrNoResultsFound):
		text = fmt.Sprintf("<@%s> - Could not find any tracks with that query. Please try again.", cmd.UserID)
	case errors.Is(err, player.ErrNothingPlaying):
		text = "Nothing is playing right now."
	case errors.Is(err, player.ErrPlaybackFailed):
		slog.Warn("playback failed", "name", cmd.Name, "guildID", cmd.GuildID, "err", err)
		text = "I couldn't start playing that track. It is still in the queue, try again shortly."
	default:
		slog.Error("command failed", "name", cmd.Name, "guildID", cmd.GuildID, "userID", cmd.UserID, "err", err)
		text = "Something went wrong while running that command."
	}
	h.send(cmd.ChannelID, text)
}

func (h *CommandHandler) send(channelID, content string) {
	if err := h.msg.Send(channelID, content); err != nil {
		slog.Warn("send failed", "channelID", channelID, "err", err)
	}
}

func (h *CommandHandler) react(cmd Command) {
	if err := h.msg.React(cmd.ChannelID, cmd.MessageID, reactionOK); err != nil {
		slog.Warn("reaction failed", "channelID", cmd.ChannelID, "messageID", cmd.MessageID, "err", err)
	}
}

// session returns the guild's session if cmd was sent from its home channel.
func (h *CommandHandler) session(cmd Command) (*player.Session, error) {
	s := h.pm.Peek(cmd.GuildID)
	if s == nil {
		return nil, player.ErrNoActiveSession
	}
	if err := s.CheckHome(cmd.ChannelID); err != nil {
		return nil, err
	}
	return s, nil
}

// connect returns the guild's session, joining the invoker's voice channel
// when there is none, and binds the home channel.
func (h *CommandHandler) connect(ctx context.Context, cmd Command) (*player.Session, error) {
	s := h.pm.Peek(cmd.GuildID)
	if s == nil {
		channelID, ok := h.voice.UserVoiceChannel(cmd.GuildID, cmd.UserID)
		if !ok {
			return nil, player.ErrNotInVoiceChannel
		}
		var err error
		if s, err = h.pm.Connect(ctx, cmd.GuildID, channelID); err != nil {
			return nil, err
		}
	}
	if err := s.BindHome(cmd.ChannelID); err != nil {
		return nil, err
	}
	return s, nil
}

func (h *CommandHandler) cmdPlay(ctx context.Context, cmd Command) error {
	query := strings.TrimSpace(cmd.Args)
	if query == "" {
		return usageError("play <query|url>")
	}
	s, err := h.connect(ctx, cmd)
	if err != nil {
		return err
	}

	res, err := h.search.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(res.Tracks) == 0 {
		return player.ErrNoResultsFound
	}

	if res.IsPlaylist {
		added := s.Enqueue(res.Tracks...)
		h.send(cmd.ChannelID, fmt.Sprintf("Added the playlist **`%s`** (%d songs) to the queue.", res.PlaylistName, added))
	} else {
		t := res.Tracks[0]
		s.Enqueue(t)
		if s.Playing() {
			h.send(cmd.ChannelID, fmt.Sprintf("Added **`%s`** to the queue.", t.Title))
		}
	}

	_, err = s.StartNext(ctx, h.cfg.DefaultVolume)
	return err
}

func (h *CommandHandler) cmdPlayLofi(ctx context.Context, cmd Command) error {
	s, err := h.connect(ctx, cmd)
	if err != nil {
		return err
	}
	res, err := h.search.Search(ctx, h.cfg.LofiURL)
	if err != nil {
		return err
	}
	if len(res.Tracks) == 0 {
		return player.ErrNoResultsFound
	}
	s.Enqueue(res.Tracks[0])
	_, err = s.StartNext(ctx, h.cfg.DefaultVolume)
	return err
}

func (h *CommandHandler) cmdSkip(ctx context.Context, cmd Command) error {
	s, err := h.session(cmd)
	if err != nil {
		return err
	}
	cur := s.Current()
	if cur == nil {
		return player.ErrNothingPlaying
	}
	h.send(cmd.ChannelID, fmt.Sprintf("Skipped %s.", cur.Title))
	if _, err := s.Skip(ctx); err != nil {
		return err
	}
	h.react(cmd)
	return nil
}

func (h *CommandHandler) cmdToggle(ctx context.Context, cmd Command) error {
	s, err := h.session(cmd)
	if err != nil {
		return err
	}
	if _, err := s.TogglePause(ctx); err != nil {
		return err
	}
	h.react(cmd)
	return nil
}

func (h *CommandHandler) cmdVolume(ctx context.Context, cmd Command) error {
	s, err := h.session(cmd)
	if err != nil {
		return err
	}
	v, err := strconv.Atoi(strings.TrimSpace(cmd.Args))
	if err != nil || v < 0 || v > maxVolume {
		return usageError(fmt.Sprintf("volume <0-%d>", maxVolume))
	}
	if err := s.SetVolume(ctx, v); err != nil {
		return err
	}
	h.send(cmd.ChannelID, fmt.Sprintf("Set the volume to %d%%.", v))
	h.react(cmd)
	return nil
}

func (h *CommandHandler) cmdQueue(_ context.Context, cmd Command) error {
	s, err := h.session(cmd)
	if err != nil {
		return err
	}
	tracks := s.Queue().Tracks()
	h.send(cmd.ChannelID, fmt.Sprintf("Songs in Queue: %d", len(tracks)))
	for _, chunk := range ui.ChunkLines(ui.FormatQueue(tracks), ui.MaxChunk) {
		h.send(cmd.ChannelID, "Current Queue:\n"+chunk)
	}
	return nil
}

func (h *CommandHandler) cmdShuffle(_ context.Context, cmd Command) error {
	s, err := h.session(cmd)
	if err != nil {
		return err
	}
	s.Shuffle()
	h.send(cmd.ChannelID, "Shuffled the queue.")
	return nil
}

func (h *CommandHandler) cmdRemove(_ context.Context, cmd Command) error {
	s, err := h.session(cmd)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(cmd.Args)
	if name == "" {
		return usageError("remove <title>")
	}
	if n := s.RemoveByTitle(name); n > 0 {
		h.send(cmd.ChannelID, fmt.Sprintf("Removed %d instance(s) of **%s** from the queue.", n, name))
	} else {
		h.send(cmd.ChannelID, fmt.Sprintf("Song **%s** not found in the queue.", name))
	}
	return nil
}

func (h *CommandHandler) cmdClear(_ context.Context, cmd Command) error {
	s, err := h.session(cmd)
	if err != nil {
		return err
	}
	s.ClearQueue()
	h.send(cmd.ChannelID, "Cleared the queue.")
	return nil
}

func (h *CommandHandler) cmdLoop(_ context.Context, cmd Command) error {
	s, err := h.session(cmd)
	if err != nil {
		return err
	}
	cur := s.Current()
	if cur == nil {
		return player.ErrNothingPlaying
	}
	if s.ToggleLoop() == player.QueueLoopOne {
		h.send(cmd.ChannelID, fmt.Sprintf("Looped **%s**.", cur.Title))
	} else {
		h.send(cmd.ChannelID, fmt.Sprintf("Unlooped **%s**.", cur.Title))
	}
	return nil
}

func (h *CommandHandler) cmdLoopQueue(_ context.Context, cmd Command) error {
	s, err := h.session(cmd)
	if err != nil {
		return err
	}
	if s.ToggleLoopQueue() == player.QueueLoopAll {
		h.send(cmd.ChannelID, "Looped the queue.")
	} else {
		h.send(cmd.ChannelID, "Unlooped the queue.")
	}
	return nil
}

func (h *CommandHandler) cmdAutoplay(_ context.Context, cmd Command) error {
	s, err := h.session(cmd)
	if err != nil {
		return err
	}
	arg := strings.TrimSpace(cmd.Args)
	if arg == "" {
		h.send(cmd.ChannelID, fmt.Sprintf("Autoplay is set to **%s**.", s.Autoplay()))
		return nil
	}
	mode, ok := player.ParseAutoPlayMode(arg)
	if !ok {
		return usageError("autoplay [enabled|partial|disabled]")
	}
	s.SetAutoplay(mode)
	h.send(cmd.ChannelID, fmt.Sprintf("Set autoplay to **%s**.", mode))
	return nil
}

func (h *CommandHandler) cmdDisconnect(ctx context.Context, cmd Command) error {
	if _, err := h.session(cmd); err != nil {
		return err
	}
	s := h.pm.Remove(cmd.GuildID)
	if err := s.Disconnect(ctx); err != nil {
		return err
	}
	h.react(cmd)
	return nil
}

func (h *CommandHandler) filter(ts player.Timescale) commandFunc {
	return func(ctx context.Context, cmd Command) error {
		s, err := h.session(cmd)
		if err != nil {
			return err
		}
		if err := s.ApplyTimescale(ctx, ts); err != nil {
			return err
		}
		h.react(cmd)
		return nil
	}
}

func (h *CommandHandler) cmdRmFilter(ctx context.Context, cmd Command) error {
	s, err := h.session(cmd)
	if err != nil {
		return err
	}
	if err := s.ResetFilters(ctx); err != nil {
		return err
	}
	h.react(cmd)
	return nil
}

func (h *CommandHandler) cmdSeek(ctx context.Context, cmd Command) error {
	s, err := h.session(cmd)
	if err != nil {
		return err
	}
	secs := 0
	if arg := strings.TrimSpace(cmd.Args); arg != "" {
		var ok bool
		if secs, ok = utils.ParseDurationString(arg); !ok || secs < 0 {
			return usageError("seek [seconds|1m30s]")
		}
	}
	if err := s.Seek(ctx, time.Duration(secs)*time.Second); err != nil {
		return err
	}
	h.react(cmd)
	return nil
}

func (h *CommandHandler) cmdNowPlaying(_ context.Context, cmd Command) error {
	s, err := h.session(cmd)
	if err != nil {
		return err
	}
	cur := s.Current()
	if cur == nil {
		return player.ErrNothingPlaying
	}
	h.notifier.Announce(s, cmd.ChannelID, *cur, cur)
	return nil
}

func (h *CommandHandler) cmdFavorite(ctx context.Context, cmd Command) error {
	s, err := h.session(cmd)
	if err != nil {
		return err
	}
	cur := s.Current()
	if cur == nil {
		return player.ErrNothingPlaying
	}
	if err := h.favs.Insert(ctx, cmd.UserID, cur.Title, cur.Author, cur.URI); err != nil {
		return err
	}
	h.send(cmd.ChannelID, fmt.Sprintf("Added **%s** to your favorites.", cur.Title))
	return nil
}

func (h *CommandHandler) cmdFavorites(ctx context.Context, cmd Command) error {
	favs, err := h.favs.ListByUser(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	for _, chunk := range ui.ChunkLines(ui.FormatFavorites(favs), 2000) {
		h.send(cmd.ChannelID, chunk)
	}
	return nil
}

func (h *CommandHandler) cmdHelp(_ context.Context, cmd Command) error {
	h.send(cmd.ChannelID, ui.HelpText(h.cfg.CommandPrefix))
	return nil
}
