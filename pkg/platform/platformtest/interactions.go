package platformtest

import (
	"strconv"
	"sync/atomic"

	"github.com/Jacobbrewer1/discordgo"
)

var interactionSeq atomic.Int64

// Invoker describes who triggers a test interaction.
type Invoker struct {
	GuildID     string
	ChannelID   string
	UserID      string
	Username    string
	Roles       []string
	Permissions int64
}

func (iv Invoker) base(typ discordgo.InteractionType) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:        "ix" + strconv.FormatInt(interactionSeq.Add(1), 10),
		Type:      typ,
		GuildID:   iv.GuildID,
		ChannelID: iv.ChannelID,
		Member: &discordgo.Member{
			GuildID:     iv.GuildID,
			User:        &discordgo.User{ID: iv.UserID, Username: iv.Username},
			Roles:       iv.Roles,
			Permissions: iv.Permissions,
		},
	}
}

// Button builds a button press interaction.
func (iv Invoker) Button(customID string) *discordgo.Interaction {
	i := iv.base(discordgo.InteractionMessageComponent)
	i.Data = discordgo.MessageComponentInteractionData{
		CustomID:      customID,
		ComponentType: discordgo.ButtonComponent,
	}
	i.Message = &discordgo.Message{ID: "source", ChannelID: iv.ChannelID}
	return i
}

// Select builds a select menu interaction.
func (iv Invoker) Select(customID string, values ...string) *discordgo.Interaction {
	i := iv.base(discordgo.InteractionMessageComponent)
	i.Data = discordgo.MessageComponentInteractionData{
		CustomID:      customID,
		ComponentType: discordgo.SelectMenuComponent,
		Values:        values,
	}
	i.Message = &discordgo.Message{ID: "source", ChannelID: iv.ChannelID}
	return i
}

// Modal builds a modal submit interaction with one text input per field.
func (iv Invoker) Modal(customID string, fields map[string]string) *discordgo.Interaction {
	i := iv.base(discordgo.InteractionModalSubmit)
	rows := make([]discordgo.MessageComponent, 0, len(fields))
	for id, value := range fields {
		rows = append(rows, &discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: id, Value: value},
			},
		})
	}
	i.Data = discordgo.ModalSubmitInteractionData{
		CustomID:   customID,
		Components: rows,
	}
	return i
}

// Command builds a slash command interaction.
func (iv Invoker) Command(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	i := iv.base(discordgo.InteractionApplicationCommand)
	i.Data = discordgo.ApplicationCommandInteractionData{
		Name:    name,
		Options: options,
	}
	return i
}
