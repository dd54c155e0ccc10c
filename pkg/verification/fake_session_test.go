package verification

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/Jacobbrewer1/discordgo"
)

var errFake = errors.New("fake platform failure")

var _ Session = (*fakeSession)(nil)

type sentMessage struct {
	ChannelID string
	ID        string
	Content   string
	Send      *discordgo.MessageSend

	// FileNames are the names of attached files; FileBodies their content.
	FileNames  []string
	FileBodies []string
}

type response struct {
	Type     discordgo.InteractionResponseType
	Data     *discordgo.InteractionResponseData
	Followup bool
}

// fakeSession records every call the workflow makes against discord.
type fakeSession struct {
	mu sync.Mutex

	botID string
	seq   int

	// perms are the permissions returned for UserChannelPermissions.
	perms int64

	// missingChannels are channel IDs that Channel reports as not existing.
	missingChannels map[string]bool

	// members are the guild members that GuildMember can resolve.
	members map[string]bool

	// history is returned by ChannelMessages.
	history []*discordgo.Message

	roleErr    error
	dmErr      error
	sendErrFor map[string]error

	responses       []response
	createdChannels []discordgo.GuildChannelCreateData
	deletedChannels []string
	messages        []sentMessage
	deletedMessages []string
	reactions       []string
	rolesAdded      []string
	dmChannels      map[string]string
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		botID:           "999",
		missingChannels: make(map[string]bool),
		members:         make(map[string]bool),
		sendErrFor:      make(map[string]error),
		dmChannels:      make(map[string]string),
	}
}

func (f *fakeSession) nextID() string {
	f.seq++
	return fmt.Sprintf("%d", 5000+f.seq)
}

func (f *fakeSession) BotUserID() string { return f.botID }

func (f *fakeSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, response{Type: resp.Type, Data: resp.Data})
	return nil
}

func (f *fakeSession) FollowupMessageCreate(_ *discordgo.Interaction, params *discordgo.WebhookParams) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, response{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    params.Content,
			Components: params.Components,
			Embeds:     params.Embeds,
			Flags:      params.Flags,
		},
		Followup: true,
	})
	return &discordgo.Message{ID: f.nextID()}, nil
}

func (f *fakeSession) Channel(channelID string) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missingChannels[channelID] {
		return nil, &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownChannel}}
	}
	return &discordgo.Channel{ID: channelID}, nil
}

func (f *fakeSession) GuildChannelCreateComplex(_ string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdChannels = append(f.createdChannels, data)
	return &discordgo.Channel{ID: f.nextID(), Name: data.Name}, nil
}

func (f *fakeSession) ChannelDelete(channelID string) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedChannels = append(f.deletedChannels, channelID)
	return &discordgo.Channel{ID: channelID}, nil
}

func (f *fakeSession) ChannelMessageSend(channelID, content string) (*discordgo.Message, error) {
	return f.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{Content: content})
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.sendErrFor[channelID]; err != nil {
		return nil, err
	}

	sent := sentMessage{
		ChannelID: channelID,
		ID:        f.nextID(),
		Content:   data.Content,
		Send:      data,
	}
	for _, file := range data.Files {
		body, _ := io.ReadAll(file.Reader)
		sent.FileNames = append(sent.FileNames, file.Name)
		sent.FileBodies = append(sent.FileBodies, string(body))
	}
	f.messages = append(f.messages, sent)

	return &discordgo.Message{ID: sent.ID, ChannelID: channelID, Content: data.Content}, nil
}

func (f *fakeSession) ChannelMessageDelete(channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedMessages = append(f.deletedMessages, channelID+"/"+messageID)
	return nil
}

func (f *fakeSession) ChannelMessages(_ string, limit int) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.history) > limit {
		return f.history[:limit], nil
	}
	return f.history, nil
}

func (f *fakeSession) MessageReactionAdd(channelID, messageID, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, channelID+"/"+messageID+"/"+emoji)
	return nil
}

func (f *fakeSession) GuildMember(_ string, userID string) (*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.members[userID] {
		return nil, &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember}}
	}
	return &discordgo.Member{User: &discordgo.User{ID: userID}}, nil
}

func (f *fakeSession) GuildMemberRoleAdd(_ string, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roleErr != nil {
		return f.roleErr
	}
	f.rolesAdded = append(f.rolesAdded, userID+"/"+roleID)
	return nil
}

func (f *fakeSession) UserChannelCreate(userID string) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dmErr != nil {
		return nil, f.dmErr
	}
	id := "dm-" + userID
	f.dmChannels[userID] = id
	return &discordgo.Channel{ID: id}, nil
}

func (f *fakeSession) UserChannelPermissions(_, _ string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.perms, nil
}

// messagesIn returns the messages sent to a channel.
func (f *fakeSession) messagesIn(channelID string) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []sentMessage
	for _, m := range f.messages {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out
}

// lastResponse returns the most recent interaction response.
func (f *fakeSession) lastResponse() response {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.responses) == 0 {
		return response{}
	}
	return f.responses[len(f.responses)-1]
}
