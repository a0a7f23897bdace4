package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sonroyaalmerol/wavebot/internal/player"
	"github.com/sonroyaalmerol/wavebot/internal/repository"
)

// MaxChunk is the largest queue listing sent in one message, in characters.
const MaxChunk = 1000

// TrackLine is the one-line description used in listings.
func TrackLine(title, author string) string {
	return fmt.Sprintf("**%s** by `%s`", title, author)
}

// FormatQueue lists tracks one per line. An empty queue yields "".
func FormatQueue(tracks []player.Track) string {
	lines := make([]string, 0, len(tracks))
	for _, t := range tracks {
		lines = append(lines, TrackLine(t.Title, t.Author))
	}
	return strings.Join(lines, "\n")
}

// ChunkLines splits text into pieces of at most limit runes, breaking after a
// newline where possible. Joining the pieces gives back text exactly.
func ChunkLines(text string, limit int) []string {
	if text == "" || limit <= 0 {
		return nil
	}
	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if n == 0 {
			continue
		}
		if curLen+n > limit {
			flush()
		}
		for n > limit {
			head, rest := splitRunes(line, limit)
			chunks = append(chunks, head)
			line = rest
			n -= limit
		}
		cur.WriteString(line)
		curLen += n
	}
	flush()
	return chunks
}

func splitRunes(s string, n int) (string, string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}

// FormatFavorites lists a user's favorites, or says there are none.
func FormatFavorites(favs []repository.Favorite) string {
	if len(favs) == 0 {
		return "You don't have any favorites yet."
	}
	var b strings.Builder
	b.WriteString("Your favorites:\n")
	for i, f := range favs {
		fmt.Fprintf(&b, "`%d.` [%s](%s) by `%s`", i+1, f.Title, f.URL, f.Author)
		if i < len(favs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func HelpText(prefix string) string {
	cmds := []struct{ usage, desc string }{
		{"play <query|url>", "search or load a link and queue it"},
		{"play_lofi", "queue the lo-fi stream"},
		{"skip", "skip the current track"},
		{"toggle, pause, resume", "pause or resume playback"},
		{"volume <0-1000>", "set the player volume"},
		{"seek [seconds|1m30s]", "jump to a position in the track"},
		{"queue", "list queued tracks"},
		{"shuffle", "shuffle the queue"},
		{"remove <title>", "remove tracks with this exact title"},
		{"clear", "empty the queue"},
		{"loop", "loop the current track"},
		{"loopqueue", "loop the whole queue"},
		{"autoplay [enabled|partial|disabled]", "show or change autoplay"},
		{"nightcore, slowed, rmfilter", "apply or remove filters"},
		{"nowplaying, np", "show the current track"},
		{"favorite, fav", "save the current track"},
		{"favorites", "list your saved tracks"},
		{"disconnect, dc", "leave the voice channel"},
	}
	var b strings.Builder
	b.WriteString("**Commands**\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "`%s%s` %s\n", prefix, c.usage, c.desc)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
