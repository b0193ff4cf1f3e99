package domain

import "strings"

// ChannelSubscription is one channel's watch list: a delivery destination and
// the account handles whose posts the channel wants republished.
// Subscriptions are owned by the backing store; the bot only ever reads
// point-in-time snapshots of them.
type ChannelSubscription struct {
	// ChannelID identifies the channel within the backing store.
	ChannelID string `json:"channel_id"`

	// Destination is the opaque delivery address for notices
	// (a webhook URL in the Discord adapter).
	Destination string `json:"webhook"`

	// Accounts are the watched handles.
	Accounts []string `json:"accounts"`
}

// Watches reports whether the subscription covers the given handle.
// Handles are matched case-insensitively since the provider treats
// account names as case-insensitive.
func (c ChannelSubscription) Watches(handle string) bool {
	for _, a := range c.Accounts {
		if strings.EqualFold(a, handle) {
			return true
		}
	}
	return false
}
