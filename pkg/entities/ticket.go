package entities

import (
	"fmt"
	"strings"
	"time"
)

// Ticket is a single user's in-progress verification attempt.
type Ticket struct {
	// ID identifies this attempt. A user can open many tickets over time, but only one at once.
	ID string `json:"id" bson:"id"`

	// OwnerID is the ID of the user that opened the ticket.
	OwnerID string `json:"owner_id" bson:"owner_id"`

	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// ChannelID is the ID of the private review channel created for the ticket.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// Method is the verification method chosen when the ticket was opened.
	Method Method `json:"method" bson:"method"`

	// Evidence is the attachments collected in the review channel, in upload order.
	Evidence []Evidence `json:"evidence" bson:"evidence"`

	// CreatedAt is the time that the ticket was created.
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// ChannelName is the name of the review channel for the given username.
func ChannelName(username string) string {
	return fmt.Sprintf("verify-%s", strings.ToLower(username))
}

// Clone returns a copy of the ticket that shares no evidence with it.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	c := *t
	c.Evidence = append([]Evidence(nil), t.Evidence...)
	return &c
}

// AddEvidence appends the evidence to the ticket.
func (t *Ticket) AddEvidence(e ...Evidence) {
	t.Evidence = append(t.Evidence, e...)
}

// HasEvidence reports whether anything has been collected.
func (t *Ticket) HasEvidence() bool {
	return len(t.Evidence) > 0
}
