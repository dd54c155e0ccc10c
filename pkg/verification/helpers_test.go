package verification

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/verifier/pkg/clock"
	"github.com/Jacobbrewer1/verifier/pkg/customid"
	"github.com/Jacobbrewer1/verifier/pkg/entities"
	"github.com/Jacobbrewer1/verifier/pkg/logging"
	"github.com/Jacobbrewer1/verifier/pkg/registry"
	"github.com/Jacobbrewer1/verifier/pkg/scheduler"
	"github.com/stretchr/testify/require"
)

const (
	testGuildID      = "100"
	testAdminChannel = "200"
	testVerifyLog    = "201"
	testStaffLog     = "202"
	testUserID       = "300"
	testStaffID      = "400"
	testRoleA        = "500"
	testRoleB        = "501"
	testGesture      = "thumbs up 👍"
)

type fakeRecorder struct {
	mu        sync.Mutex
	decisions []*entities.Decision
}

func (r *fakeRecorder) SaveDecision(_ context.Context, d *entities.Decision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions = append(r.decisions, d)
	return nil
}

type harness struct {
	svc         *Service
	s           *fakeSession
	clk         *clock.FakeClock
	tickets     *registry.Memory[*entities.Ticket]
	submissions *registry.Memory[*entities.PendingSubmission]
	tasks       *scheduler.Scheduler
	recorder    *fakeRecorder
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	h := &harness{
		s:           newFakeSession(),
		clk:         clock.Fake(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
		tickets:     registry.NewMemory[*entities.Ticket](),
		submissions: registry.NewMemory[*entities.PendingSubmission](),
		recorder:    new(fakeRecorder),
	}
	h.tasks = scheduler.New(l, h.clk)

	opts = append([]Option{
		WithDecisionRecorder(h.recorder),
		WithGesture(func() string { return testGesture }),
	}, opts...)

	h.svc = NewService(l, h.s, Config{
		AdminChannelID:           testAdminChannel,
		VerificationLogChannelID: testVerifyLog,
		StaffLogChannelID:        testStaffLog,
		VerifiedRoleIDs:          []string{testRoleA, testRoleB},
	}, h.tickets, h.submissions, h.tasks, h.clk, opts...)

	h.s.members[testUserID] = true
	return h
}

func member(userID string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: userID, Username: "Alice"}}
}

func component(userID, customID string, values ...string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:      "interaction",
		Type:    discordgo.InteractionMessageComponent,
		GuildID: testGuildID,
		Member:  member(userID),
		Data: discordgo.MessageComponentInteractionData{
			CustomID: customID,
			Values:   values,
		},
	}
}

func modal(userID, customID string, fields map[string]string) *discordgo.Interaction {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]discordgo.MessageComponent, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, &discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: k, Value: fields[k]},
			},
		})
	}

	return &discordgo.Interaction{
		ID:      "interaction",
		Type:    discordgo.InteractionModalSubmit,
		GuildID: testGuildID,
		Member:  member(userID),
		Data: discordgo.ModalSubmitInteractionData{
			CustomID:   customID,
			Components: rows,
		},
	}
}

// interact runs an interaction and requires it to succeed.
func (h *harness) interact(t *testing.T, i *discordgo.Interaction) Result {
	t.Helper()
	res, err := h.svc.HandleInteraction(context.Background(), i)
	require.NoError(t, err)
	return res
}

// open opens a ticket for the user with the given method and returns it.
func (h *harness) open(t *testing.T, userID string, m entities.Method) *entities.Ticket {
	t.Helper()
	h.interact(t, component(userID, customid.ChooseMethod, m.String()))

	ticket, ok, err := h.tickets.Get(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, ok, "ticket should be registered")
	return ticket
}

// upload posts attachments into the ticket channel.
func (h *harness) upload(t *testing.T, ticket *entities.Ticket, attachments ...*discordgo.MessageAttachment) {
	t.Helper()
	err := h.svc.HandleMessage(context.Background(), &discordgo.Message{
		ID:          "msg-" + ticket.ChannelID,
		ChannelID:   ticket.ChannelID,
		GuildID:     testGuildID,
		Author:      &discordgo.User{ID: ticket.OwnerID},
		Attachments: attachments,
	})
	require.NoError(t, err)
}

func (h *harness) hasTicket(t *testing.T, userID string) bool {
	t.Helper()
	ok, err := h.tickets.Has(context.Background(), userID)
	require.NoError(t, err)
	return ok
}

func (h *harness) pending(t *testing.T, userID string) (*entities.PendingSubmission, bool) {
	t.Helper()
	p, ok, err := h.submissions.Get(context.Background(), userID)
	require.NoError(t, err)
	return p, ok
}

// buttons returns the custom IDs of the buttons in the first row of the components.
func buttons(t *testing.T, components []discordgo.MessageComponent) []string {
	t.Helper()
	require.NotEmpty(t, components)

	row, ok := components[0].(discordgo.ActionsRow)
	require.True(t, ok)

	ids := make([]string, 0, len(row.Components))
	for _, c := range row.Components {
		b, ok := c.(discordgo.Button)
		require.True(t, ok)
		ids = append(ids, b.CustomID)
	}
	return ids
}
