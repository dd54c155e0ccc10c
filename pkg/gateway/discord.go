// Package gateway adapts a discordgo session to the operations the bot consumes.
package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Jacobbrewer1/discordgo"
)

// Discord forwards to a live discordgo session.
type Discord struct {
	s *discordgo.Session
}

// NewDiscord wraps the session.
func NewDiscord(s *discordgo.Session) *Discord {
	return &Discord{s: s}
}

func (d *Discord) BotUserID() string {
	if d.s.State == nil || d.s.State.User == nil {
		return ""
	}
	return d.s.State.User.ID
}

func (d *Discord) InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return d.s.InteractionRespond(i, resp)
}

func (d *Discord) FollowupMessageCreate(i *discordgo.Interaction, params *discordgo.WebhookParams) (*discordgo.Message, error) {
	return d.s.FollowupMessageCreate(i, true, params)
}

func (d *Discord) Channel(channelID string) (*discordgo.Channel, error) {
	return d.s.Channel(channelID)
}

func (d *Discord) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	return d.s.GuildChannelCreateComplex(guildID, data)
}

func (d *Discord) ChannelDelete(channelID string) (*discordgo.Channel, error) {
	return d.s.ChannelDelete(channelID)
}

func (d *Discord) ChannelMessageSend(channelID, content string) (*discordgo.Message, error) {
	return d.s.ChannelMessageSend(channelID, content)
}

func (d *Discord) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error) {
	return d.s.ChannelMessageSendComplex(channelID, data)
}

func (d *Discord) ChannelMessageDelete(channelID, messageID string) error {
	return d.s.ChannelMessageDelete(channelID, messageID)
}

func (d *Discord) ChannelMessages(channelID string, limit int) ([]*discordgo.Message, error) {
	return d.s.ChannelMessages(channelID, limit, "", "", "")
}

func (d *Discord) MessageReactionAdd(channelID, messageID, emoji string) error {
	return d.s.MessageReactionAdd(channelID, messageID, emoji)
}

func (d *Discord) GuildMember(guildID, userID string) (*discordgo.Member, error) {
	return d.s.GuildMember(guildID, userID)
}

func (d *Discord) GuildMemberRoleAdd(guildID, userID, roleID string) error {
	return d.s.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (d *Discord) UserChannelCreate(userID string) (*discordgo.Channel, error) {
	return d.s.UserChannelCreate(userID)
}

func (d *Discord) UserChannelPermissions(userID, channelID string) (int64, error) {
	return d.s.UserChannelPermissions(userID, channelID)
}

// IsNotFound reports whether the error is discord saying the channel, message or member does not exist.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	restErr := new(discordgo.RESTError)
	if !errors.As(err, &restErr) {
		return false
	}

	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return true
	}

	if restErr.Message == nil {
		return false
	}

	switch restErr.Message.Code {
	case discordgo.ErrCodeUnknownChannel,
		discordgo.ErrCodeUnknownMessage,
		discordgo.ErrCodeUnknownMember,
		discordgo.ErrCodeUnknownUser,
		discordgo.ErrCodeGeneralError: // General is thrown when a 404 is returned.
		return true
	default:
		return false
	}
}

// Describe returns a short description of a discord error for logging.
func Describe(err error) string {
	restErr := new(discordgo.RESTError)
	if errors.As(err, &restErr) && restErr.Message != nil {
		return fmt.Sprintf("%d: %s", restErr.Message.Code, restErr.Message.Message)
	}
	return err.Error()
}
