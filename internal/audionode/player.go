package audionode

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sonroyaalmerol/wavebot/internal/player"
)

// remotePlayer drives one guild's Lavalink player.
type remotePlayer struct {
	client     disgolink.Client
	gateway    VoiceGateway
	guildID    snowflake.ID
	rawGuildID string
}

func (p *remotePlayer) player() disgolink.Player {
	return p.client.Player(p.guildID)
}

func (p *remotePlayer) Play(ctx context.Context, t player.Track, volume int) error {
	return p.player().Update(ctx,
		lavalink.WithTrack(lavalink.Track{Encoded: t.Encoded}),
		lavalink.WithVolume(volume),
		lavalink.WithPaused(false),
	)
}

func (p *remotePlayer) Stop(ctx context.Context) error {
	return p.player().Update(ctx, lavalink.WithNullTrack())
}

func (p *remotePlayer) SetPaused(ctx context.Context, paused bool) error {
	return p.player().Update(ctx, lavalink.WithPaused(paused))
}

func (p *remotePlayer) SetVolume(ctx context.Context, volume int) error {
	return p.player().Update(ctx, lavalink.WithVolume(volume))
}

func (p *remotePlayer) Seek(ctx context.Context, position time.Duration) error {
	return p.player().Update(ctx, lavalink.WithPosition(toDuration(position)))
}

func (p *remotePlayer) SetTimescale(ctx context.Context, ts player.Timescale) error {
	return p.player().Update(ctx, lavalink.WithFilters(lavalink.Filters{
		Timescale: &lavalink.Timescale{
			Speed: ts.Speed,
			Pitch: ts.Pitch,
			Rate:  ts.Rate,
		},
	}))
}

func (p *remotePlayer) ResetFilters(ctx context.Context) error {
	return p.player().Update(ctx, lavalink.WithFilters(lavalink.Filters{}))
}

// Disconnect leaves the voice channel and destroys the node-side player.
func (p *remotePlayer) Disconnect(ctx context.Context) error {
	leaveErr := p.gateway.ChannelVoiceJoinManual(p.rawGuildID, "", false, true)
	if leaveErr != nil {
		slog.Warn("failed to leave voice channel", "guildID", p.rawGuildID, "err", leaveErr)
	}
	var destroyErr error
	if existing := p.client.ExistingPlayer(p.guildID); existing != nil {
		destroyErr = existing.Destroy(ctx)
	}
	return errors.Join(leaveErr, destroyErr)
}
