package panels

import (
	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/router"
)

const (
	// TicketSystem is the router system that handles the panel button.
	TicketSystem = "ticket"

	// OpenAction is the action of the panel button.
	OpenAction = "open"
)

var embedColors = map[entities.Color]int{
	entities.ColorPrimary:   0x5865F2,
	entities.ColorSecondary: 0x4F545C,
	entities.ColorSuccess:   0x57F287,
	entities.ColorDanger:    0xED4245,
}

// ButtonStyle maps a panel color to the button style.
func ButtonStyle(c entities.Color) discordgo.ButtonStyle {
	switch c {
	case entities.ColorSecondary:
		return discordgo.SecondaryButton
	case entities.ColorSuccess:
		return discordgo.SuccessButton
	case entities.ColorDanger:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}

// ComponentEmoji converts a panel emoji for use on a component.
func ComponentEmoji(e entities.Emoji) discordgo.ComponentEmoji {
	return discordgo.ComponentEmoji{
		Name:     e.Name,
		ID:       e.ID,
		Animated: e.Animated,
	}
}

// OpenButtonID is the custom id of the button of a panel.
func OpenButtonID(panelID string) string {
	return router.ID(TicketSystem, OpenAction, panelID)
}

// Embed renders the panel body.
func Embed(p *entities.Panel) *discordgo.MessageEmbed {
	color, ok := embedColors[p.ButtonColor]
	if !ok {
		color = embedColors[entities.ColorPrimary]
	}
	return &discordgo.MessageEmbed{
		Title:       p.Name,
		Description: p.Description,
		Color:       color,
	}
}

// Components renders the panel button.
func Components(p *entities.Panel) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    p.ButtonLabel,
					Style:    ButtonStyle(p.ButtonColor),
					Disabled: !p.Enabled,
					Emoji:    ComponentEmoji(p.ButtonEmoji),
					CustomID: OpenButtonID(p.ID),
				},
			},
		},
	}
}

// Render builds the message that represents a panel.
func Render(p *entities.Panel) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{Embed(p)},
		Components: Components(p),
	}
}

// RenderEdit builds the in-place edit of a rendered panel.
func RenderEdit(p *entities.Panel) *discordgo.MessageEdit {
	return &discordgo.MessageEdit{
		Channel:    p.ChannelID,
		ID:         p.MessageID,
		Embeds:     []*discordgo.MessageEmbed{Embed(p)},
		Components: Components(p),
	}
}
