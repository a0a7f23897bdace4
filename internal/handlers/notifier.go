package handlers

import (
	"context"
	"log/slog"

	"github.com/sonroyaalmerol/wavebot/internal/player"
	"github.com/sonroyaalmerol/wavebot/internal/ui"
)

// Notifier posts a now-playing message to the session's home channel when a
// track starts.
type Notifier struct {
	pm  *player.PlayerManager
	msg Messenger
}

func NewNotifier(pm *player.PlayerManager, msg Messenger) *Notifier {
	return &Notifier{pm: pm, msg: msg}
}

func (n *Notifier) TrackStarted(_ context.Context, guildID string, t player.Track) {
	s := n.pm.Peek(guildID)
	if s == nil {
		return
	}
	original := s.TrackStarted(t)
	if s.Mode() == player.QueueLoopOne {
		return
	}
	home, ok := s.HomeChannel()
	if !ok {
		return
	}
	n.Announce(s, home, t, original)
}

// Announce sends the now-playing embed for t to channelID and remembers the
// message on the session. The previous now-playing message is deleted first.
func (n *Notifier) Announce(s *player.Session, channelID string, t player.Track, original *player.Track) {
	if prev := s.NowPlayingMessage(); prev != "" {
		s.SetNowPlayingMessage("")
		if err := n.msg.Delete(channelID, prev); err != nil {
			slog.Debug("failed to delete previous now-playing message", "guildID", s.GuildID, "messageID", prev, "err", err)
		}
	}
	id, err := n.msg.SendEmbed(channelID, ui.BuildNowPlayingEmbed(t, original), ui.NowPlayingButtons())
	if err != nil {
		slog.Warn("failed to send now-playing message", "guildID", s.GuildID, "channelID", channelID, "err", err)
		return
	}
	s.SetNowPlayingMessage(id)
}
