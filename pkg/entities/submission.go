package entities

import "time"

// PendingSubmission is a staff review message that is waiting for an approve or deny decision.
type PendingSubmission struct {
	// OwnerID is the ID of the user that submitted.
	OwnerID string `json:"owner_id" bson:"owner_id"`

	// ChannelID is the ID of the channel holding the review message.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// MessageID is the ID of the review message carrying the approve and deny buttons.
	MessageID string `json:"message_id" bson:"message_id"`

	// Method is the method the submission was made with.
	Method Method `json:"method" bson:"method"`

	// SubmittedAt is the time the submission reached staff.
	SubmittedAt time.Time `json:"submitted_at" bson:"submitted_at"`
}
