package youtube

import "time"

// CallbackRequest carries the OAuth redirect parameters.
type CallbackRequest struct {
	State string `json:"state" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// StatusResponse describes the user's YouTube connection.
type StatusResponse struct {
	Connected    bool       `json:"connected"`
	ChannelID    string     `json:"channel_id,omitempty"`
	ChannelTitle string     `json:"channel_title,omitempty"`
	ConnectedAt  *time.Time `json:"connected_at,omitempty"`
}
