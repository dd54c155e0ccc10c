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
)

// openDecision shows the staff member the form for an approve or deny decision.
func (svc *Service) openDecision(r *reply, approve bool, targetID string) error {
	return r.Modal(staffModal(approve, targetID))
}

// decide applies a submitted approve or deny form.
func (svc *Service) decide(ctx context.Context, r *reply, i *discordgo.Interaction, staff *discordgo.User, approve bool, targetID string) error {
	text := modalValues(i.ModalSubmitData())[customid.FieldStaffText]

	if err := r.Defer(); err != nil {
		return err
	}

	l := svc.l.With(
		slog.String(logging.KeyUserID, targetID),
		slog.String("staff_id", staff.ID),
		slog.String(logging.KeyGuildID, i.GuildID),
	)

	member, err := svc.s.GuildMember(i.GuildID, targetID)
	if err != nil || member == nil {
		if err != nil {
			svc.suppressed("Error getting target member", err, slog.String(logging.KeyUserID, targetID))
		}
		return r.Ephemeral(messages.ErrTargetNotFound)
	}

	outcome := entities.OutcomeDenied
	staffLine := fmt.Sprintf(messages.DeniedStaffLine, staff.ID, targetID, text)
	if approve {
		outcome = entities.OutcomeApproved
		staffLine = fmt.Sprintf(messages.ApprovedStaffLine, staff.ID, targetID, text)
		svc.approve(targetID, i.GuildID, text)
	} else {
		svc.deny(targetID, text)
	}

	if _, err := svc.s.ChannelMessageSend(svc.cfg.StaffLogChannelID, staffLine); err != nil {
		svc.suppressed("Error writing staff log", err)
	}

	Decisions.WithLabelValues(string(outcome)).Inc()
	l.Info("Staff decision applied", slog.String("outcome", string(outcome)))

	svc.recordDecision(ctx, &entities.Decision{
		Outcome:   outcome,
		GuildID:   i.GuildID,
		TargetID:  targetID,
		StaffID:   staff.ID,
		Text:      text,
		DecidedAt: svc.clk.Now().UTC(),
	})

	svc.cleanupSubmission(ctx, targetID)

	if ticket, ok := svc.liveTicket(ctx, targetID); ok {
		svc.destroyTicket(ctx, ticket)
	}

	return r.Ephemeral(fmt.Sprintf(messages.DecisionComplete, outcome))
}

// approve grants the verified roles and logs the verification. Failing role grants are ignored.
func (svc *Service) approve(targetID, guildID, text string) {
	for _, roleID := range svc.cfg.VerifiedRoleIDs {
		if err := svc.s.GuildMemberRoleAdd(guildID, targetID, roleID); err != nil {
			svc.suppressed("Error adding verified role", err,
				slog.String(logging.KeyUserID, targetID),
				slog.String("role_id", roleID))
		}
	}

	if _, err := svc.s.ChannelMessageSend(svc.cfg.VerificationLogChannelID, fmt.Sprintf(messages.VerifiedLogLine, targetID, text)); err != nil {
		svc.suppressed("Error writing verification log", err)
	}
}

// deny tells the user why they were denied. Users with closed DMs are not told.
func (svc *Service) deny(targetID, reason string) {
	dm, err := svc.s.UserChannelCreate(targetID)
	if err != nil {
		svc.suppressed("Error opening direct message", err, slog.String(logging.KeyUserID, targetID))
		return
	}

	if _, err := svc.s.ChannelMessageSend(dm.ID, fmt.Sprintf(messages.DeniedDirect, reason)); err != nil {
		svc.suppressed("Error sending denial", err, slog.String(logging.KeyUserID, targetID))
	}
}

// cleanupSubmission removes the staff review message for the user.
//
// Without a recorded submission, the most recent admin channel messages are searched and the first one mentioning
// the user is removed. This may pick the wrong message when a user has several submissions in flight.
func (svc *Service) cleanupSubmission(ctx context.Context, targetID string) {
	pending, ok, err := svc.submissions.Get(ctx, targetID)
	if err != nil {
		svc.l.Error("Error getting pending submission",
			slog.String(logging.KeyUserID, targetID),
			slog.String(logging.KeyError, err.Error()))
	}

	if ok {
		if err := svc.s.ChannelMessageDelete(pending.ChannelID, pending.MessageID); err != nil {
			svc.suppressed("Error deleting review message", err)
		}
		if err := svc.submissions.Delete(ctx, targetID); err != nil {
			svc.l.Error("Error removing pending submission",
				slog.String(logging.KeyUserID, targetID),
				slog.String(logging.KeyError, err.Error()))
		}
		return
	}

	recent, err := svc.s.ChannelMessages(svc.cfg.AdminChannelID, recentMessageScan)
	if err != nil {
		svc.suppressed("Error fetching recent admin messages", err)
		return
	}

	mention := fmt.Sprintf("<@%s>", targetID)
	for _, m := range recent {
		if m.Content == "" || !strings.Contains(m.Content, mention) {
			continue
		}
		if err := svc.s.ChannelMessageDelete(svc.cfg.AdminChannelID, m.ID); err != nil {
			svc.suppressed("Error deleting review message", err)
		}
		return
	}
}

func (svc *Service) recordDecision(ctx context.Context, d *entities.Decision) {
	if svc.decisions == nil {
		return
	}

	if err := svc.decisions.SaveDecision(ctx, d); err != nil {
		svc.l.Error("Error recording decision",
			slog.String(logging.KeyUserID, d.TargetID),
			slog.String(logging.KeyError, err.Error()))
	}
}
