package player

import (
	"context"
	"fmt"
)

const defaultRecommendationLimit = 5

// recommendationQuery builds the node identifier that yields tracks related
// to seed, if its source supports it.
func recommendationQuery(seed Track) (string, bool) {
	if seed.Identifier == "" {
		return "", false
	}
	switch seed.SourceName {
	case "youtube":
		return fmt.Sprintf("https://music.youtube.com/watch?v=%s&list=RD%s", seed.Identifier, seed.Identifier), true
	case "spotify":
		return "sprec:seed_tracks=" + seed.Identifier, true
	}
	return "", false
}

func (s *Session) fillRecommendations(ctx context.Context, seed Track) error {
	if s.loader == nil {
		return nil
	}
	q, ok := recommendationQuery(seed)
	if !ok {
		return nil
	}
	res, err := s.loader.LoadTracks(ctx, q)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(s.history)+s.queue.Len())
	for _, t := range s.history {
		seen[t.Identifier] = struct{}{}
	}
	for _, t := range s.queue.Tracks() {
		seen[t.Identifier] = struct{}{}
	}

	limit := s.opts.RecommendationLimit
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	added := 0
	for _, t := range res.Tracks {
		if added >= limit {
			break
		}
		if _, dup := seen[t.Identifier]; dup {
			continue
		}
		seen[t.Identifier] = struct{}{}
		t.Recommended = true
		s.autoQueue.Put(t)
		added++
	}
	return nil
}
