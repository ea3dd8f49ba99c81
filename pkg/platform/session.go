// Package platform is the boundary to the chat platform. Everything above it talks to the Session
// interface and never to a discordgo.Session directly.
package platform

import (
	"context"

	"github.com/Jacobbrewer1/discordgo"
)

// Session is the subset of the chat platform the bot consumes.
type Session interface {
	// BotUserID is the user id of the bot itself.
	BotUserID() string

	Channel(ctx context.Context, channelID string) (*discordgo.Channel, error)
	GuildChannels(ctx context.Context, guildID string) ([]*discordgo.Channel, error)
	GuildRoles(ctx context.Context, guildID string) ([]*discordgo.Role, error)
	GuildEmojis(ctx context.Context, guildID string) ([]*discordgo.Emoji, error)
	CreateChannel(ctx context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)
	DeleteChannel(ctx context.Context, channelID string) error

	// RenameChannel and MoveChannel are heavily rate limited by the platform.
	RenameChannel(ctx context.Context, channelID, name string) error
	MoveChannel(ctx context.Context, channelID, parentID string) error

	SetPermission(ctx context.Context, channelID string, overwrite *discordgo.PermissionOverwrite) error
	DeletePermission(ctx context.Context, channelID, targetID string) error

	SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
	EditMessage(ctx context.Context, edit *discordgo.MessageEdit) (*discordgo.Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	Message(ctx context.Context, channelID, messageID string) (*discordgo.Message, error)

	// Messages returns up to limit messages sent before beforeID (or the newest when empty), newest first.
	Messages(ctx context.Context, channelID string, limit int, beforeID string) ([]*discordgo.Message, error)

	CreateEmoji(ctx context.Context, guildID, name, image string) (*discordgo.Emoji, error)

	// EmojiImage downloads an emoji and returns it as a data URI.
	EmojiImage(ctx context.Context, emojiID string, animated bool) (string, error)

	Member(ctx context.Context, guildID, userID string) (*discordgo.Member, error)
	DirectChannel(ctx context.Context, userID string) (*discordgo.Channel, error)

	// Respond sends the initial response to an interaction.
	Respond(ctx context.Context, i *discordgo.Interaction, resp *discordgo.InteractionResponse) error

	// EditResponse edits the original response (or the deferred message) of an interaction.
	EditResponse(ctx context.Context, i *discordgo.Interaction, data *discordgo.InteractionResponseData) error

	// Followup sends an additional message for an acknowledged interaction.
	Followup(ctx context.Context, i *discordgo.Interaction, data *discordgo.InteractionResponseData) (*discordgo.Message, error)
}
