package model

// Channel identifies the delivery channel a campaign runs on.
type Channel string

const (
	ChannelWhatsApp Channel = "WhatsApp"
	ChannelEmail    Channel = "Email"
)

func (c Channel) Valid() bool {
	return c == ChannelWhatsApp || c == ChannelEmail
}
