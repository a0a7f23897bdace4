package player

import (
	"context"
	"fmt"
	"sync"
)

type PlayerManager struct {
	mu        sync.Mutex
	Players   map[string]*Session
	connector Connector
	loader    TrackLoader
	opts      SessionOptions
}

func NewPlayerManager(connector Connector, loader TrackLoader, opts SessionOptions) *PlayerManager {
	return &PlayerManager{
		Players:   make(map[string]*Session),
		connector: connector,
		loader:    loader,
		opts:      opts,
	}
}

// Connect returns the guild's session, joining channelID and creating one if
// none exists yet.
func (pm *PlayerManager) Connect(ctx context.Context, guildID, channelID string) (*Session, error) {
	if s := pm.Peek(guildID); s != nil {
		return s, nil
	}
	if channelID == "" {
		return nil, ErrNotInVoiceChannel
	}
	remote, err := pm.connector.Connect(ctx, guildID, channelID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()
	if s, ok := pm.Players[guildID]; ok {
		return s, nil
	}
	s := NewSession(guildID, remote, pm.loader, pm.opts)
	pm.Players[guildID] = s
	return s, nil
}

func (pm *PlayerManager) Peek(guildID string) *Session {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.Players[guildID]
}

func (pm *PlayerManager) Remove(guildID string) *Session {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	s := pm.Players[guildID]
	delete(pm.Players, guildID)
	return s
}

func (pm *PlayerManager) Len() int {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return len(pm.Players)
}
