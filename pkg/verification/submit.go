package verification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/verifier/pkg/customid"
	"github.com/Jacobbrewer1/verifier/pkg/entities"
	"github.com/Jacobbrewer1/verifier/pkg/logging"
	"github.com/Jacobbrewer1/verifier/pkg/messages"
	"github.com/Jacobbrewer1/verifier/pkg/scheduler"
)

// uploadEvidence forwards the collected evidence to the admin review channel.
func (svc *Service) uploadEvidence(ctx context.Context, r *reply, user *discordgo.User) error {
	ticket, ok, err := svc.tickets.Get(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("error getting ticket: %w", err)
	}

	if !ok || !ticket.HasEvidence() {
		return r.Ephemeral(messages.ErrNoEvidence)
	}

	if !svc.adminChannelExists() {
		return r.Ephemeral(messages.ErrAdminChannelMissing)
	}

	// Downloading the evidence can outlast the interaction deadline.
	if err := r.Defer(); err != nil {
		return err
	}

	fwd := svc.downloadEvidence(ctx, ticket.Evidence)

	content := fmt.Sprintf(messages.SubmissionHeader, user.ID)
	if len(fwd.links) > 0 {
		content += "\n" + strings.Join(fwd.links, "\n")
	}

	msg, err := svc.s.ChannelMessageSendComplex(svc.cfg.AdminChannelID, &discordgo.MessageSend{
		Content:    content,
		Files:      fwd.files,
		Components: reviewButtons(user.ID),
	})
	if err != nil {
		return fmt.Errorf("error sending submission to admin channel: %w", err)
	}

	if err := svc.recordSubmission(ctx, user.ID, ticket.Method, msg); err != nil {
		return err
	}

	svc.l.Info("Evidence submitted",
		slog.String(logging.KeyUserID, user.ID),
		slog.String(logging.KeyTicketID, ticket.ID),
		slog.Int("files", len(fwd.files)),
		slog.Int("links", len(fwd.links)))

	svc.scheduleSelfDestruct(ticket)
	return r.Ephemeral(messages.UploadSubmitted)
}

// openVouch shows the vouch form.
func (svc *Service) openVouch(r *reply) error {
	return r.Modal(vouchModal())
}

// submitVouch forwards a submitted vouch form to the admin review channel.
func (svc *Service) submitVouch(ctx context.Context, r *reply, i *discordgo.Interaction, user *discordgo.User) error {
	values := modalValues(i.ModalSubmitData())
	name := values[customid.FieldVouchName]
	text := values[customid.FieldVouchText]

	if !svc.adminChannelExists() {
		return r.Ephemeral(messages.ErrAdminChannelMissing)
	}

	msg, err := svc.s.ChannelMessageSendComplex(svc.cfg.AdminChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{vouchEmbed(user.ID, name, text, svc.clk.Now())},
		Components: reviewButtons(user.ID),
	})
	if err != nil {
		return fmt.Errorf("error sending vouch to admin channel: %w", err)
	}

	if err := svc.recordSubmission(ctx, user.ID, entities.MethodVouch, msg); err != nil {
		return err
	}

	svc.l.Info("Vouch submitted", slog.String(logging.KeyUserID, user.ID))

	if ticket, ok := svc.liveTicket(ctx, user.ID); ok {
		svc.scheduleSelfDestruct(ticket)
	}
	return r.Ephemeral(messages.VouchSubmitted)
}

func (svc *Service) recordSubmission(ctx context.Context, userID string, method entities.Method, msg *discordgo.Message) error {
	err := svc.submissions.Set(ctx, userID, &entities.PendingSubmission{
		OwnerID:     userID,
		ChannelID:   msg.ChannelID,
		MessageID:   msg.ID,
		Method:      method,
		SubmittedAt: svc.clk.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("error recording submission: %w", err)
	}

	Submissions.WithLabelValues(method.String()).Inc()
	return nil
}

// scheduleSelfDestruct replaces the inactivity timeout with the post submission deletion.
func (svc *Service) scheduleSelfDestruct(ticket *entities.Ticket) {
	svc.tasks.Cancel(scheduler.Key(ticket.OwnerID, scheduler.TaskInactivity))
	svc.tasks.Schedule(scheduler.Key(ticket.OwnerID, scheduler.TaskSelfDestruct), svc.cfg.selfDestructDelay(), func() {
		svc.selfDestruct(ticket)
	})
}

func (svc *Service) adminChannelExists() bool {
	if _, err := svc.s.Channel(svc.cfg.AdminChannelID); err != nil {
		svc.suppressed("Error getting admin channel", err, slog.String(logging.KeyChannelID, svc.cfg.AdminChannelID))
		return false
	}
	return true
}
