package verification

import (
	"fmt"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/verifier/pkg/customid"
	"github.com/Jacobbrewer1/verifier/pkg/entities"
	"github.com/Jacobbrewer1/verifier/pkg/messages"
)

const (
	// ReceivedEmoji is the reaction added to messages whose attachments were collected. (Check mark)
	ReceivedEmoji = "✅"

	// setupColour is the colour of the persistent verification embed.
	setupColour = 0x00BFFF
)

// setupMessage is the persistent message carrying the start verification button.
func setupMessage() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "🔰 Verification System",
				Description: "Click below to start verification.",
				Color:       setupColour,
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "✅ Start Verification",
						Style:    discordgo.PrimaryButton,
						CustomID: customid.StartVerify,
					},
				},
			},
		},
	}
}

var methodDescriptions = map[entities.Method]struct {
	label       string
	description string
}{
	entities.MethodID:    {"ID Verification", "Submit ID and gesture video"},
	entities.MethodCross: {"Cross Verification", "Screenshot from trusted server"},
	entities.MethodVouch: {"Vouch Verification", "Trusted member vouch"},
}

// methodSelect is the select menu offering the verification methods.
func methodSelect() []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(entities.Methods))
	for _, m := range entities.Methods {
		d := methodDescriptions[m]
		options = append(options, discordgo.SelectMenuOption{
			Label:       d.label,
			Value:       m.String(),
			Description: d.description,
		})
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    customid.ChooseMethod,
					Placeholder: "Choose verification method...",
					Options:     options,
				},
			},
		},
	}
}

// ticketMessage is the instruction message posted in a new review channel.
func (svc *Service) ticketMessage(m entities.Method) *discordgo.MessageSend {
	var (
		content string
		buttons []discordgo.MessageComponent
	)

	switch m {
	case entities.MethodID:
		content = fmt.Sprintf(messages.IDInstructions, svc.gesture())
		buttons = append(buttons, discordgo.Button{
			Label:    "Upload",
			Style:    discordgo.PrimaryButton,
			CustomID: customid.UploadEvidence,
		})
	case entities.MethodCross:
		content = messages.CrossInstructions
		buttons = append(buttons, discordgo.Button{
			Label:    "Upload",
			Style:    discordgo.PrimaryButton,
			CustomID: customid.UploadEvidence,
		})
	case entities.MethodVouch:
		content = messages.VouchInstructions
		buttons = append(buttons, discordgo.Button{
			Label:    "Submit Vouch",
			Style:    discordgo.PrimaryButton,
			CustomID: customid.OpenVouch,
		})
	}

	buttons = append(buttons, discordgo.Button{
		Label:    "Close Ticket",
		Style:    discordgo.SecondaryButton,
		CustomID: customid.CloseTicket,
	})

	return &discordgo.MessageSend{
		Content: content,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: buttons},
		},
	}
}

// reviewButtons are the approve and deny buttons attached to a staff review message.
func reviewButtons(userID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "✅ Approve",
					Style:    discordgo.SuccessButton,
					CustomID: customid.Approve(userID),
				},
				discordgo.Button{
					Label:    "❌ Deny",
					Style:    discordgo.DangerButton,
					CustomID: customid.Deny(userID),
				},
			},
		},
	}
}

// vouchEmbed is the staff review embed for a vouch.
func vouchEmbed(userID, name, text string, at time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🗣️ New Vouch Submission",
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "User",
				Value: fmt.Sprintf("<@%s> (%s)", userID, name),
			},
			{
				Name:  "Vouch",
				Value: text,
			},
		},
		Timestamp: at.UTC().Format(time.RFC3339),
	}
}

// vouchModal is the form a user fills to submit a vouch.
func vouchModal() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: customid.SubmitVouch,
		Title:    "Submit Vouch",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: customid.FieldVouchName,
						Label:    "Trusted Member Name",
						Style:    discordgo.TextInputShort,
						Required: true,
					},
				},
			},
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: customid.FieldVouchText,
						Label:    "Why they vouch (details)",
						Style:    discordgo.TextInputParagraph,
						Required: true,
					},
				},
			},
		},
	}
}

// staffModal is the form staff fill before a decision is applied.
func staffModal(approve bool, targetID string) *discordgo.InteractionResponseData {
	id, title, label := customid.DenyModal(targetID), "Deny Submission", "Enter deny reason"
	if approve {
		id, title, label = customid.ApproveModal(targetID), "Approve Submission", "Enter text to log"
	}

	return &discordgo.InteractionResponseData{
		CustomID: id,
		Title:    title,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID: customid.FieldStaffText,
						Label:    label,
						Style:    discordgo.TextInputParagraph,
						Required: true,
					},
				},
			},
		},
	}
}

// modalValues collects the text input values of a submitted modal by field ID.
func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if input, ok := rc.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}

// reviewChannelPermissions restricts a review channel to the user and the bot.
func reviewChannelPermissions(guildID, userID, botID string) []*discordgo.PermissionOverwrite {
	overwrites := []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the channel.
		{
			ID:   guildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: discordgo.PermissionViewChannel,
		},
		// The user being verified can see and upload.
		{
			ID:   userID,
			Type: discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel |
				discordgo.PermissionSendMessages |
				discordgo.PermissionAttachFiles |
				discordgo.PermissionReadMessageHistory,
		},
	}

	if botID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:   botID,
			Type: discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel |
				discordgo.PermissionSendMessages |
				discordgo.PermissionManageChannels |
				discordgo.PermissionReadMessageHistory,
		})
	}
	return overwrites
}
