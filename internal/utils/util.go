package utils

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
)

func EscapeMd(s string) string {
	repl := []string{"*", "\\*", "_", "\\_", "`", "\\`", "~", "\\~"}
	r := strings.NewReplacer(repl...)
	return r.Replace(s)
}

func PrettyTime(sec int) string {
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

var reDur = regexp.MustCompile(`(?i)^(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)

// MaxDurationSeconds is the longest duration, in seconds, that still fits in a
// time.Duration.
const MaxDurationSeconds = int(math.MaxInt64 / int64(time.Second))

// ParseDurationString accepts plain seconds ("90") or h/m/s forms ("1m30s").
// ok is false when s matches neither or exceeds MaxDurationSeconds.
func ParseDurationString(s string) (sec int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, n <= MaxDurationSeconds
	}
	m := reDur.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	total := 0
	for i, unit := range []int{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil || n > (MaxDurationSeconds-total)/unit {
			return 0, false
		}
		total += n * unit
	}
	return total, true
}

func ShuffleSlice[T any](a []T) {
	rand.Shuffle(len(a), func(i, j int) { a[i], a[j] = a[j], a[i] })
}
