// Package messages holds the user facing text sent by the bot.
package messages

const (
	// ErrUserErrorProcessing is sent when a handler fails before answering the interaction.
	ErrUserErrorProcessing = "⚠️ An error occurred. Please try again later."

	ErrAlreadyActive       = "❌ You already have an active verification ticket. Please finish or wait."
	ErrAlreadyActiveSelect = "❌ You already have an active verification ticket."
	ErrNoEvidence          = "❌ Please upload files before pressing Upload."
	ErrNoActiveTicket      = "❌ No active ticket to close."
	ErrAdminChannelMissing = "⚠️ Admin review channel not found."
	ErrTargetNotFound      = "⚠️ Target user not found in guild."
	ErrInvalidMethod       = "❌ Unknown verification method."
)

const (
	SelectMethod     = "Select your verification method:"
	ChannelCreated   = "✅ Verification channel created: <#%s>"
	TicketClosed     = "✅ Your verification ticket has been closed."
	UploadSubmitted  = "✅ Submission sent to staff. This temp channel will self-destruct in 1 minute."
	VouchSubmitted   = "✅ Your vouch was submitted to staff. The temp channel will self-destruct in 1 minute."
	DecisionComplete = "✅ Submission %s and cleaned up."

	InactivityNotice  = "❌ No submission received — closing verification channel."
	AbandonedNotice   = "❌ <@%s> opened a verification ticket but submitted nothing."
	SubmissionHeader  = "<@%s> submitted verification files:"
	VerifiedLogLine   = "✅ Verified <@%s> | Info: %s"
	ApprovedStaffLine = "✅ Approved by <@%s> for <@%s> | %s"
	DeniedStaffLine   = "❌ Denied by <@%s> for <@%s> | %s"
	DeniedDirect      = "❌ Your verification was denied.\nReason: %s"
)

const (
	IDInstructions = "🪪 **ID Verification**\nUpload your ID photos and short gesture video.\n" +
		"Gesture to show in your video: %s\nPress **Upload** once all files have been fully sent."
	CrossInstructions = "🔄 **Cross Verification**\nUpload your screenshot showing a verified role from a trusted server.\n" +
		"Press **Upload** once files are fully sent."
	VouchInstructions = "🗣️ **Vouch Verification**\nClick below to submit a vouch via modal."
)
