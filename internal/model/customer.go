package model

// OptedOut reports whether a per-channel consent flag is an explicit refusal.
// Values come straight from the CSV import; anything case-insensitively equal
// to "n" or "no" counts. An unset flag is treated as consent.
func OptedOut(flag string) bool {
	switch flag {
	case "n", "N", "no", "No", "NO":
		return true
	}
	return false
}

type Customer struct {
	ID            string `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	MobileNumber  string `db:"mobile_number" json:"mobile_number"`
	Email         string `db:"email" json:"email"`
	Age           int    `db:"age" json:"age"`
	Sex           string `db:"sex" json:"sex"` // Male, Female, Other
	City          string `db:"city" json:"city"`
	State         string `db:"state" json:"state"`
	WhatsAppOptIn string `db:"whatsapp_opt_in" json:"whatsapp_opt_in,omitempty"`
	GmailOptIn    string `db:"gmail_opt_in" json:"gmail_opt_in,omitempty"`
	Selected      bool   `db:"selected" json:"selected"`
}

// Address returns the contact field required by the given channel, empty when
// the customer cannot be reached on it.
func (c Customer) Address(ch Channel) string {
	if ch == ChannelEmail {
		return c.Email
	}
	return c.MobileNumber
}

// OptInFor returns the per-channel consent flag.
func (c Customer) OptInFor(ch Channel) string {
	if ch == ChannelEmail {
		return c.GmailOptIn
	}
	return c.WhatsAppOptIn
}
