package types

// Settings holds the outbound endpoint configuration for one operation
// mode. LastActor is the operator name stamped on outgoing summaries.
type Settings struct {
	WebhookURL string `json:"webhook_url"`
	LastActor  string `json:"last_actor"`
}

// DefaultSettings returns the document written when a settings slot is
// absent or unparsable.
func DefaultSettings() Settings {
	return Settings{}
}
