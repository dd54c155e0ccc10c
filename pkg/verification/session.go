package verification

import (
	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/verifier/pkg/gateway"
)

var _ Session = (*gateway.Discord)(nil)

// Session is the part of the discord API the verification workflow uses.
type Session interface {
	// BotUserID returns the ID of the bot's own user.
	BotUserID() string

	InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	FollowupMessageCreate(i *discordgo.Interaction, params *discordgo.WebhookParams) (*discordgo.Message, error)

	Channel(channelID string) (*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)
	ChannelDelete(channelID string) (*discordgo.Channel, error)

	ChannelMessageSend(channelID, content string) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string) error
	ChannelMessages(channelID string, limit int) ([]*discordgo.Message, error)
	MessageReactionAdd(channelID, messageID, emoji string) error

	GuildMember(guildID, userID string) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string) error
	UserChannelCreate(userID string) (*discordgo.Channel, error)
	UserChannelPermissions(userID, channelID string) (int64, error)
}
