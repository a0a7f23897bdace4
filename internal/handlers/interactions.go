package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sonroyaalmerol/wavebot/internal/player"
	"github.com/sonroyaalmerol/wavebot/internal/repository"
	"github.com/sonroyaalmerol/wavebot/internal/ui"
)

// InteractionHandler serves the buttons on now-playing messages.
type InteractionHandler struct {
	pm   *player.PlayerManager
	favs *repository.FavoritesService
	msg  Messenger
}

func NewInteractionHandler(pm *player.PlayerManager, favs *repository.FavoritesService, msg Messenger) *InteractionHandler {
	return &InteractionHandler{pm: pm, favs: favs, msg: msg}
}

func (h *InteractionHandler) Handle(ctx context.Context, e ButtonClicked) {
	slog.Debug("interaction: button", "guildID", e.GuildID, "userID", e.UserID, "customID", e.CustomID)

	s := h.pm.Peek(e.GuildID)
	var cur *player.Track
	if s != nil {
		cur = s.Current()
	}
	if cur == nil {
		h.ack(e)
		return
	}

	switch e.CustomID {
	case ui.SkipButtonID:
		h.skip(ctx, e, s)
	case ui.FavoriteButtonID:
		h.favorite(ctx, e, *cur)
	default:
		h.ack(e)
	}
}

func (h *InteractionHandler) skip(ctx context.Context, e ButtonClicked, s *player.Session) {
	skipped, err := s.Skip(ctx)
	if err != nil {
		slog.Error("skip button failed", "guildID", e.GuildID, "err", err)
		h.respond(e, "Could not skip the track.")
		return
	}
	h.respond(e, fmt.Sprintf("Skipped %s.", skipped.Title))
	if s.NowPlayingMessage() == e.MessageID {
		s.SetNowPlayingMessage("")
	}
	if err := h.msg.Delete(e.ChannelID, e.MessageID); err != nil {
		slog.Warn("failed to delete now-playing message", "guildID", e.GuildID, "messageID", e.MessageID, "err", err)
	}
}

func (h *InteractionHandler) favorite(ctx context.Context, e ButtonClicked, cur player.Track) {
	if err := h.favs.Insert(ctx, e.UserID, cur.Title, cur.Author, cur.URI); err != nil {
		slog.Error("favorite button failed", "guildID", e.GuildID, "userID", e.UserID, "err", err)
		h.respond(e, "Could not save this track to your favorites.")
		return
	}
	h.respond(e, fmt.Sprintf("Added **%s** to your favorites.", cur.Title))
}

func (h *InteractionHandler) respond(e ButtonClicked, content string) {
	if err := h.msg.RespondEphemeral(e.Interaction, content); err != nil {
		slog.Warn("interaction reply failed", "guildID", e.GuildID, "userID", e.UserID, "err", err)
	}
}

func (h *InteractionHandler) ack(e ButtonClicked) {
	if err := h.msg.Acknowledge(e.Interaction); err != nil {
		slog.Warn("interaction ack failed", "guildID", e.GuildID, "userID", e.UserID, "err", err)
	}
}
