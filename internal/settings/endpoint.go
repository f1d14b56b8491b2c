package settings

import "strings"

// allowedEndpointPrefixes are the only webhook hosts envelopes may be
// delivered to. Anything else is refused at save and at dispatch time.
var allowedEndpointPrefixes = []string{
	"https://discord.com/api/webhooks/",
	"https://discordapp.com/api/webhooks/",
}

// IsValidEndpoint reports whether url points at an allowed webhook host.
// The check is a literal prefix match, not URL parsing, so lookalike
// hosts and non-TLS schemes never pass.
func IsValidEndpoint(url string) bool {
	trimmed := strings.TrimSpace(url)
	for _, prefix := range allowedEndpointPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}
