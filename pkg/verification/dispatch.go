package verification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/verifier/pkg/customid"
	"github.com/Jacobbrewer1/verifier/pkg/logging"
	"github.com/Jacobbrewer1/verifier/pkg/messages"
)

// SetupCommand is the text command that posts the start verification message.
const SetupCommand = "!setupverify"

// Result describes how an interaction was handled.
type Result struct {
	// Action is the routed action. ActionUnknown for interactions that are not the bot's.
	Action customid.Action

	// Answered is whether the interaction was responded to before any error.
	Answered bool
}

// HandleInteraction routes a component or modal interaction.
func (svc *Service) HandleInteraction(ctx context.Context, i *discordgo.Interaction) (Result, error) {
	var raw string
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		raw = i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		raw = i.ModalSubmitData().CustomID
	default:
		return Result{}, nil
	}

	id, err := customid.Parse(raw)
	if err != nil {
		// Components posted by other bots or older versions.
		svc.l.Debug("Ignoring interaction", slog.String("custom_id", raw))
		return Result{}, nil
	}

	user := interactionUser(i)
	if user == nil {
		return Result{Action: id.Action}, fmt.Errorf("interaction %s has no user", i.ID)
	}

	svc.l.Debug("Handling interaction",
		slog.String(logging.KeyAction, id.Action.String()),
		slog.String(logging.KeyUserID, user.ID))

	r := newReply(svc.s, i)
	err = svc.route(ctx, r, i, user, id)
	return Result{Action: id.Action, Answered: r.Answered()}, err
}

func (svc *Service) route(ctx context.Context, r *reply, i *discordgo.Interaction, user *discordgo.User, id customid.ID) error {
	switch id.Action {
	case customid.ActionStartVerify:
		return svc.offerMethods(ctx, r, user)
	case customid.ActionChooseMethod:
		return svc.openTicket(ctx, r, i, user)
	case customid.ActionUploadEvidence:
		return svc.uploadEvidence(ctx, r, user)
	case customid.ActionCloseTicket:
		return svc.closeTicket(ctx, r, user)
	case customid.ActionOpenVouch:
		return svc.openVouch(r)
	case customid.ActionSubmitVouch:
		return svc.submitVouch(ctx, r, i, user)
	case customid.ActionApprove:
		return svc.openDecision(r, true, id.TargetID)
	case customid.ActionDeny:
		return svc.openDecision(r, false, id.TargetID)
	case customid.ActionApproveModal:
		return svc.decide(ctx, r, i, user, true, id.TargetID)
	case customid.ActionDenyModal:
		return svc.decide(ctx, r, i, user, false, id.TargetID)
	case customid.ActionUnknown:
		return nil
	default:
		return fmt.Errorf("unhandled action %s", id.Action)
	}
}

// ReportError sends the generic error message for an interaction that failed, as a follow up when it had already
// been answered.
func (svc *Service) ReportError(i *discordgo.Interaction, answered bool) error {
	r := newReply(svc.s, i)
	if answered {
		r.state = replyDeferred
	}
	return r.Ephemeral(messages.ErrUserErrorProcessing)
}

// HandleMessage handles a message posted in a guild the bot is in.
func (svc *Service) HandleMessage(ctx context.Context, m *discordgo.Message) error {
	if m.Author == nil || m.Author.Bot {
		return nil
	}

	if m.Content == SetupCommand {
		return svc.setup(m)
	}

	return svc.collectEvidence(ctx, m)
}

// setup posts the persistent start verification message. Only administrators may use it.
func (svc *Service) setup(m *discordgo.Message) error {
	perms, err := svc.s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		return fmt.Errorf("error getting permissions: %w", err)
	}

	if perms&discordgo.PermissionAdministrator != discordgo.PermissionAdministrator {
		svc.l.Debug("Ignoring setup command from non administrator", slog.String(logging.KeyUserID, m.Author.ID))
		return nil
	}

	if _, err := svc.s.ChannelMessageSendComplex(m.ChannelID, setupMessage()); err != nil {
		return fmt.Errorf("error sending setup message: %w", err)
	}

	if err := svc.s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		svc.suppressed("Error deleting setup command", err)
	}

	svc.l.Info("Verification message posted",
		slog.String(logging.KeyChannelID, m.ChannelID),
		slog.String(logging.KeyGuildID, m.GuildID))
	return nil
}

func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
