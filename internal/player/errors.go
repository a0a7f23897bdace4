package player

import "errors"

var (
	ErrNotInVoiceChannel = errors.New("not in a voice channel")
	ErrConnectFailed     = errors.New("unable to join voice channel")
	ErrWrongChannel      = errors.New("session bound to another channel")
	ErrNoActiveSession   = errors.New("no active session")
	ErrNoResultsFound    = errors.New("no results found")
	ErrNothingPlaying    = errors.New("nothing is playing")
	ErrPlaybackFailed    = errors.New("node refused to play track")
)
