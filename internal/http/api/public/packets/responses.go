package packets

type ChannelResponse struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Icon        *string `json:"icon,omitempty"`
	URL         *string `json:"url,omitempty"`
}

type SelectionResponse struct {
	Channels []string `json:"channels"`
}
