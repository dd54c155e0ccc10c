package entities

import "time"

// Outcome is the result of a staff decision.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeDenied   Outcome = "denied"
)

// Decision is the record of a staff member approving or denying a submission.
type Decision struct {
	// Outcome is whether the submission was approved or denied.
	Outcome Outcome `json:"outcome" bson:"outcome"`

	// GuildID is the ID of the guild the decision was made in.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// TargetID is the ID of the user that was verified or denied.
	TargetID string `json:"target_id" bson:"target_id"`

	// StaffID is the ID of the staff member that made the decision.
	StaffID string `json:"staff_id" bson:"staff_id"`

	// Text is the log text or deny reason entered by the staff member.
	Text string `json:"text" bson:"text"`

	// DecidedAt is the time the decision was submitted.
	DecidedAt time.Time `json:"decided_at" bson:"decided_at"`
}
