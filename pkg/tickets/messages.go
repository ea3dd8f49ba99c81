package tickets

import (
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/router"
)

const (
	// ClaimEmoji is the emoji of the claim button. (Ticket)
	ClaimEmoji = "\U0001F3AB"

	// UnclaimEmoji is the emoji of the unclaim button. (Waving hand)
	UnclaimEmoji = "\U0001F44B"

	// CloseEmoji is the emoji of the close button. (Padlock)
	CloseEmoji = "\U0001F510"

	// ReopenEmoji is the emoji of the reopen button. (Open padlock)
	ReopenEmoji = "\U0001F513"

	// DeleteEmoji is the emoji of the delete button. (Cross)
	DeleteEmoji = "❌"

	// TranscriptEmoji is the emoji of the transcript button. (Scroll)
	TranscriptEmoji = "\U0001F4DC"

	// WarningEmoji prefixes soft failures in replies.
	WarningEmoji = "⚠️"
)

const (
	colorOpen    = 0x57F287
	colorClosed  = 0xED4245
	colorClaimed = 0x5865F2
	colorNeutral = 0x4F545C
)

// closedFooterPrefix starts the footer added to the welcome message on close.
const closedFooterPrefix = "Closed by "

func actionID(name string, t *entities.Ticket) string {
	return router.ID(System, name, t.ID)
}

func ticketButton(label, emoji string, style discordgo.ButtonStyle, customID string) discordgo.Button {
	return discordgo.Button{
		Label:    label,
		Style:    style,
		Emoji:    discordgo.ComponentEmoji{Name: emoji},
		CustomID: customID,
	}
}

// openButtons is the button set of an open ticket.
func openButtons(t *entities.Ticket, p *entities.Panel) []discordgo.MessageComponent {
	buttons := []discordgo.MessageComponent{
		ticketButton("Close", CloseEmoji, discordgo.DangerButton, actionID("close", t)),
	}
	if p.Claimable {
		if t.ClaimedBy == "" {
			buttons = append(buttons, ticketButton("Claim", ClaimEmoji, discordgo.SuccessButton, actionID("claim", t)))
		} else {
			buttons = append(buttons, ticketButton("Unclaim", UnclaimEmoji, discordgo.SecondaryButton, actionID("unclaim", t)))
		}
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

// closedButtons is the button set of a closed ticket.
func closedButtons(t *entities.Ticket) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				ticketButton("Reopen", ReopenEmoji, discordgo.SuccessButton, actionID("reopen", t)),
				ticketButton("Transcript", TranscriptEmoji, discordgo.SecondaryButton, actionID("transcript", t)),
			},
		},
	}
}

// buttonsFor returns the button set matching the ticket state.
func buttonsFor(t *entities.Ticket, p *entities.Panel) []discordgo.MessageComponent {
	if t.IsOpen() {
		return openButtons(t, p)
	}
	return closedButtons(t)
}

// welcomeMessage is the first message of a ticket channel.
func welcomeMessage(t *entities.Ticket, p *entities.Panel) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Ticket #%d", t.Number),
		Description: p.OpenMessage,
		Color:       colorOpen,
		Footer:      &discordgo.MessageEmbedFooter{Text: p.Name},
	}
	for _, a := range t.Answers {
		value := a.Answer
		if value == "" {
			value = "No answer"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  a.Question,
			Value: value,
		})
	}

	content := fmt.Sprintf("<@%s>", t.OwnerID)
	mentions := &discordgo.MessageAllowedMentions{Users: []string{t.OwnerID}}
	if p.StaffRoleID != "" {
		content += fmt.Sprintf(" <@&%s>", p.StaffRoleID)
		mentions.Roles = []string{p.StaffRoleID}
	}

	return &discordgo.MessageSend{
		Content:         content,
		Embeds:          []*discordgo.MessageEmbed{embed},
		Components:      openButtons(t, p),
		AllowedMentions: mentions,
	}
}

// statusMessage is a public note about a state change.
func statusMessage(title, description string, color int, components ...discordgo.MessageComponent) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       title,
			Description: description,
			Color:       color,
		}},
		Components: components,
	}
}

// closeStatusMessage announces the close and carries the delete button.
func closeStatusMessage(t *entities.Ticket, actorID string) *discordgo.MessageSend {
	return statusMessage("Ticket closed", fmt.Sprintf("This ticket was closed by <@%s>.", actorID), colorClosed,
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				ticketButton("Delete", DeleteEmoji, discordgo.DangerButton, actionID("delete", t)),
			},
		},
	)
}

// logEmbed describes a ticket event for the logs channel.
func logEmbed(title string, t *entities.Ticket, actorID string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Ticket", Value: fmt.Sprintf("#%d", t.Number), Inline: true},
			{Name: "Owner", Value: fmt.Sprintf("<@%s>", t.OwnerID), Inline: true},
			{Name: "By", Value: fmt.Sprintf("<@%s>", actorID), Inline: true},
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", t.ChannelID), Inline: true},
		},
	}
}

// createdEmbed is the ephemeral confirmation of a new ticket.
func createdEmbed(t *entities.Ticket) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Ticket Created",
		Description: fmt.Sprintf("<@%s>, your ticket has been created.", t.OwnerID),
		Color:       colorOpen,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Ticket Name",
				Value:  t.Name(),
				Inline: true,
			},
			{
				Name:   "Ticket Channel",
				Value:  fmt.Sprintf("<#%s>", t.ChannelID),
				Inline: true,
			},
		},
	}
}
