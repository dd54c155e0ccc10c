package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/verifier/pkg/entities"
	"github.com/Jacobbrewer1/verifier/pkg/gateway"
	"github.com/Jacobbrewer1/verifier/pkg/logging"
	"github.com/Jacobbrewer1/verifier/pkg/messages"
	"github.com/Jacobbrewer1/verifier/pkg/scheduler"
	"github.com/google/uuid"
)

// offerMethods answers the start verification button with the method select menu.
func (svc *Service) offerMethods(ctx context.Context, r *reply, user *discordgo.User) error {
	active, err := svc.tickets.Has(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("error checking for active ticket: %w", err)
	}

	if active {
		return r.Ephemeral(messages.ErrAlreadyActive)
	}

	return r.send(&discordgo.InteractionResponseData{
		Content:    messages.SelectMethod,
		Components: methodSelect(),
		Flags:      discordgo.MessageFlagsEphemeral,
	})
}

// openTicket creates the review channel for the chosen method.
func (svc *Service) openTicket(ctx context.Context, r *reply, i *discordgo.Interaction, user *discordgo.User) error {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return r.Ephemeral(messages.ErrInvalidMethod)
	}

	method, err := entities.ParseMethod(values[0])
	if err != nil {
		svc.l.Warn("Invalid verification method selected",
			slog.String(logging.KeyUserID, user.ID),
			slog.String(logging.KeyError, err.Error()))
		return r.Ephemeral(messages.ErrInvalidMethod)
	}

	active, err := svc.tickets.Has(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("error checking for active ticket: %w", err)
	}

	if active {
		return r.Ephemeral(messages.ErrAlreadyActiveSelect)
	}

	channel, err := svc.s.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 entities.ChannelName(user.Username),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("Verification for %s", user.Username),
		PermissionOverwrites: reviewChannelPermissions(i.GuildID, user.ID, svc.s.BotUserID()),
	})
	if err != nil {
		return fmt.Errorf("error creating review channel: %w", err)
	}

	ticket := &entities.Ticket{
		ID:        uuid.NewString(),
		OwnerID:   user.ID,
		GuildID:   i.GuildID,
		ChannelID: channel.ID,
		Method:    method,
		Evidence:  make([]entities.Evidence, 0),
		CreatedAt: svc.clk.Now().UTC(),
	}

	l := svc.l.With(
		slog.String(logging.KeyUserID, user.ID),
		slog.String(logging.KeyTicketID, ticket.ID),
		slog.String(logging.KeyChannelID, channel.ID),
	)

	// Another selection may have registered a ticket while the channel was being created. The first one wins.
	added, err := svc.tickets.Add(ctx, user.ID, ticket)
	if err != nil || !added {
		svc.deleteChannel(channel.ID)
		if err != nil {
			return fmt.Errorf("error registering ticket: %w", err)
		}
		l.Info("Lost ticket registration race, removed duplicate channel")
		return r.Ephemeral(messages.ErrAlreadyActiveSelect)
	}

	TicketsOpened.WithLabelValues(method.String()).Inc()
	l.Info("Verification ticket opened", slog.String("method", method.String()))

	if err := r.Ephemeral(fmt.Sprintf(messages.ChannelCreated, channel.ID)); err != nil {
		l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
	}

	if _, err := svc.s.ChannelMessageSendComplex(channel.ID, svc.ticketMessage(method)); err != nil {
		l.Error("Error sending ticket instructions", slog.String(logging.KeyError, err.Error()))
	}

	svc.tasks.Schedule(scheduler.Key(user.ID, scheduler.TaskInactivity), svc.cfg.inactivityTimeout(), func() {
		svc.expireTicket(ticket)
	})
	return nil
}

// expireTicket closes a ticket that saw no submission before the inactivity timeout.
func (svc *Service) expireTicket(ticket *entities.Ticket) {
	ctx := context.Background()

	current, ok := svc.liveTicket(ctx, ticket.OwnerID)
	if !ok || current.ID != ticket.ID {
		return
	}

	if _, err := svc.s.ChannelMessageSend(ticket.ChannelID, messages.InactivityNotice); err != nil {
		svc.suppressed("Error sending inactivity notice", err)
	}

	svc.destroyTicket(ctx, ticket)
	TicketsExpired.Inc()

	svc.l.Info("Verification ticket expired",
		slog.String(logging.KeyUserID, ticket.OwnerID),
		slog.String(logging.KeyTicketID, ticket.ID))

	if _, err := svc.s.ChannelMessageSend(svc.cfg.AdminChannelID, fmt.Sprintf(messages.AbandonedNotice, ticket.OwnerID)); err != nil {
		svc.suppressed("Error sending abandoned notice", err)
	}
}

// selfDestruct removes a ticket some time after it was submitted, unless staff got there first.
func (svc *Service) selfDestruct(ticket *entities.Ticket) {
	ctx := context.Background()

	current, ok := svc.liveTicket(ctx, ticket.OwnerID)
	if !ok || current.ID != ticket.ID {
		return
	}

	svc.destroyTicket(ctx, ticket)
	svc.l.Debug("Review channel self destructed",
		slog.String(logging.KeyUserID, ticket.OwnerID),
		slog.String(logging.KeyTicketID, ticket.ID))
}

// closeTicket is the close ticket button.
func (svc *Service) closeTicket(ctx context.Context, r *reply, user *discordgo.User) error {
	ticket, ok, err := svc.tickets.Get(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("error getting ticket: %w", err)
	}

	if !ok {
		return r.Ephemeral(messages.ErrNoActiveTicket)
	}

	svc.destroyTicket(ctx, ticket)
	svc.l.Info("Verification ticket closed by user",
		slog.String(logging.KeyUserID, user.ID),
		slog.String(logging.KeyTicketID, ticket.ID))

	return r.Ephemeral(messages.TicketClosed)
}

// collectEvidence records the attachments of a message posted in the author's own review channel.
func (svc *Service) collectEvidence(ctx context.Context, m *discordgo.Message) error {
	if m.Author == nil || m.Author.Bot || len(m.Attachments) == 0 {
		return nil
	}

	// The append happens inside the update so a ticket closed meanwhile is never written back.
	collected := false
	ticket, ok, err := svc.tickets.Update(ctx, m.Author.ID, func(t *entities.Ticket) *entities.Ticket {
		collected = t.ChannelID == m.ChannelID
		if !collected {
			return t
		}
		for _, a := range m.Attachments {
			t.AddEvidence(entities.NewEvidence(a.URL, a.Filename))
		}
		return t
	})
	if err != nil {
		return fmt.Errorf("error saving evidence: %w", err)
	}

	if !ok || !collected {
		return nil
	}

	svc.l.Debug("Collected evidence",
		slog.String(logging.KeyUserID, m.Author.ID),
		slog.String(logging.KeyTicketID, ticket.ID),
		slog.Int("attachments", len(m.Attachments)),
		slog.Int("total", len(ticket.Evidence)))

	if err := svc.s.MessageReactionAdd(m.ChannelID, m.ID, ReceivedEmoji); err != nil {
		svc.suppressed("Error reacting to evidence", err)
	}
	return nil
}

// liveTicket returns the user's registered ticket. Registry errors are logged and treated as no ticket.
func (svc *Service) liveTicket(ctx context.Context, userID string) (*entities.Ticket, bool) {
	ticket, ok, err := svc.tickets.Get(ctx, userID)
	if err != nil {
		svc.l.Error("Error getting ticket",
			slog.String(logging.KeyUserID, userID),
			slog.String(logging.KeyError, err.Error()))
		return nil, false
	}
	return ticket, ok
}

// destroyTicket deletes the review channel, clears the registry entry and cancels the ticket's timers.
func (svc *Service) destroyTicket(ctx context.Context, ticket *entities.Ticket) {
	svc.deleteChannel(ticket.ChannelID)

	if err := svc.tickets.Delete(ctx, ticket.OwnerID); err != nil {
		svc.l.Error("Error removing ticket",
			slog.String(logging.KeyUserID, ticket.OwnerID),
			slog.String(logging.KeyError, err.Error()))
	}

	svc.tasks.Cancel(scheduler.Key(ticket.OwnerID, scheduler.TaskInactivity))
	svc.tasks.Cancel(scheduler.Key(ticket.OwnerID, scheduler.TaskSelfDestruct))
}

func (svc *Service) deleteChannel(channelID string) {
	if _, err := svc.s.ChannelDelete(channelID); err != nil {
		svc.suppressed("Error deleting channel", err, slog.String(logging.KeyChannelID, channelID))
	}
}

// suppressed logs a best-effort platform failure. Missing resources are expected and logged at debug.
func (svc *Service) suppressed(msg string, err error, attrs ...any) {
	attrs = append(attrs, slog.String(logging.KeyError, gateway.Describe(err)))
	if gateway.IsNotFound(err) || errors.Is(err, context.Canceled) {
		svc.l.Debug(msg, attrs...)
		return
	}
	svc.l.Warn(msg, attrs...)
}
