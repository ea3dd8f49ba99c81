package tickets

import (
	"strings"
	"unicode"
)

const (
	// maxChannelName is the longest channel name the platform accepts.
	maxChannelName = 100

	closedPrefix  = "closed-"
	claimedPrefix = "claimed-"

	fallbackName = "user"
)

// sanitize turns a user handle into something usable in a channel name.
func sanitize(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) || r == '_':
			b.WriteRune(r)
			dash = false
		case r == '-' || r == '.' || unicode.IsSpace(r):
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	out := strings.Trim(b.String(), "-")
	if len(out) > 80 {
		out = strings.TrimRight(out[:80], "-")
	}
	if out == "" {
		return fallbackName
	}
	return out
}

func clampName(name string) string {
	if len(name) > maxChannelName {
		return name[:maxChannelName]
	}
	return name
}

// closedName marks a channel name as closed: ticket-x becomes closed-ticket-x and claimed-x
// becomes closed-claimed-x.
func closedName(name string) string {
	if strings.HasPrefix(name, closedPrefix) {
		return name
	}
	return clampName(closedPrefix + name)
}

// reopenedName removes the closed marker.
func reopenedName(name string) string {
	return strings.TrimPrefix(name, closedPrefix)
}

func claimedName(claimer string) string {
	return claimedPrefix + sanitize(claimer)
}
