package platform

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/Jacobbrewer1/discordgo"
)

// Discord is the Session backed by a discordgo session.
type Discord struct {
	s *discordgo.Session
}

// NewDiscord wraps a discordgo session.
func NewDiscord(s *discordgo.Session) *Discord {
	return &Discord{s: s}
}

// Raw returns the wrapped discordgo session.
func (d *Discord) Raw() *discordgo.Session {
	return d.s
}

func (d *Discord) BotUserID() string {
	if d.s.State == nil || d.s.State.User == nil {
		return ""
	}
	return d.s.State.User.ID
}

func (d *Discord) Channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.s.Channel(channelID)
}

func (d *Discord) GuildChannels(ctx context.Context, guildID string) ([]*discordgo.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.s.GuildChannels(guildID)
}

func (d *Discord) GuildRoles(ctx context.Context, guildID string) ([]*discordgo.Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.s.GuildRoles(guildID)
}

func (d *Discord) GuildEmojis(ctx context.Context, guildID string) ([]*discordgo.Emoji, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.s.GuildEmojis(guildID)
}

func (d *Discord) CreateChannel(ctx context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.s.GuildChannelCreateComplex(guildID, data)
}

func (d *Discord) DeleteChannel(ctx context.Context, channelID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.s.ChannelDelete(channelID)
	return err
}

func (d *Discord) RenameChannel(ctx context.Context, channelID, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.s.ChannelEditComplex(channelID, &discordgo.ChannelEdit{Name: name})
	return err
}

func (d *Discord) MoveChannel(ctx context.Context, channelID, parentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.s.ChannelEditComplex(channelID, &discordgo.ChannelEdit{ParentID: parentID})
	return err
}

func (d *Discord) SetPermission(ctx context.Context, channelID string, ow *discordgo.PermissionOverwrite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.s.ChannelPermissionSet(channelID, ow.ID, ow.Type, ow.Allow, ow.Deny)
}

func (d *Discord) DeletePermission(ctx context.Context, channelID, targetID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.s.ChannelPermissionDelete(channelID, targetID)
}

func (d *Discord) SendMessage(ctx context.Context, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.s.ChannelMessageSendComplex(channelID, msg)
}

func (d *Discord) EditMessage(ctx context.Context, edit *discordgo.MessageEdit) (*discordgo.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.s.ChannelMessageEditComplex(edit)
}

func (d *Discord) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.s.ChannelMessageDelete(channelID, messageID)
}

func (d *Discord) Message(ctx context.Context, channelID, messageID string) (*discordgo.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.s.ChannelMessage(channelID, messageID)
}

func (d *Discord) Messages(ctx context.Context, channelID string, limit int, beforeID string) ([]*discordgo.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.s.ChannelMessages(channelID, limit, beforeID, "", "")
}

func (d *Discord) CreateEmoji(ctx context.Context, guildID, name, image string) (*discordgo.Emoji, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.s.GuildEmojiCreate(guildID, &discordgo.EmojiParams{
		Name:  name,
		Image: image,
	})
}

func (d *Discord) EmojiImage(ctx context.Context, emojiID string, animated bool) (string, error) {
	url := discordgo.EndpointEmoji(emojiID)
	contentType := "image/png"
	if animated {
		url = discordgo.EndpointEmojiAnimated(emojiID)
		contentType = "image/gif"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	resp, err := d.s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error downloading emoji: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("error downloading emoji: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading emoji: %w", err)
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
}

func (d *Discord) Member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.s.GuildMember(guildID, userID)
}

func (d *Discord) DirectChannel(ctx context.Context, userID string) (*discordgo.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.s.UserChannelCreate(userID)
}

func (d *Discord) Respond(ctx context.Context, i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.s.InteractionRespond(i, resp)
}

func (d *Discord) EditResponse(ctx context.Context, i *discordgo.Interaction, data *discordgo.InteractionResponseData) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content := data.Content
	embeds := data.Embeds
	components := data.Components
	if embeds == nil {
		embeds = []*discordgo.MessageEmbed{}
	}
	if components == nil {
		components = []discordgo.MessageComponent{}
	}

	_, err := d.s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
		Files:      data.Files,
	})
	return err
}

func (d *Discord) Followup(ctx context.Context, i *discordgo.Interaction, data *discordgo.InteractionResponseData) (*discordgo.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.s.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content:    data.Content,
		Embeds:     data.Embeds,
		Components: data.Components,
		Files:      data.Files,
		Flags:      data.Flags,
	})
}
