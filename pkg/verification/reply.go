package verification

import (
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
)

type replyState int

const (
	replyNone replyState = iota
	replyDeferred
	replySent
)

// reply answers a single interaction, tracking whether it has been answered so that the top level error handler
// knows how to report a failure.
type reply struct {
	s     Session
	i     *discordgo.Interaction
	state replyState
}

func newReply(s Session, i *discordgo.Interaction) *reply {
	return &reply{s: s, i: i}
}

// Answered reports whether the user has seen a response or a "thinking" state.
func (r *reply) Answered() bool {
	return r.state != replyNone
}

// Defer acknowledges the interaction with a private "thinking" state.
func (r *reply) Defer() error {
	if r.state != replyNone {
		return nil
	}

	err := r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		return fmt.Errorf("error deferring interaction: %w", err)
	}

	r.state = replyDeferred
	return nil
}

// Ephemeral sends a message only the invoking user can see.
func (r *reply) Ephemeral(content string) error {
	return r.send(&discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

func (r *reply) send(data *discordgo.InteractionResponseData) error {
	if r.state == replyDeferred {
		if _, err := r.s.FollowupMessageCreate(r.i, &discordgo.WebhookParams{
			Content:    data.Content,
			Components: data.Components,
			Embeds:     data.Embeds,
			Flags:      data.Flags,
		}); err != nil {
			return fmt.Errorf("error sending followup: %w", err)
		}
		r.state = replySent
		return nil
	}

	if err := r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}); err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	r.state = replySent
	return nil
}

// Modal opens a modal. This must be the first response to the interaction.
func (r *reply) Modal(data *discordgo.InteractionResponseData) error {
	if err := r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: data,
	}); err != nil {
		return fmt.Errorf("error showing modal: %w", err)
	}
	r.state = replySent
	return nil
}
