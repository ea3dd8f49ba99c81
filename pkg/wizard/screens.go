package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
	"github.com/Jacobbrewer1/ticketwolf/pkg/panels"
	"github.com/Jacobbrewer1/ticketwolf/pkg/router"
)

const (
	screenMain        = "main"
	screenChannel     = "channel"
	screenButton      = "button"
	screenExtra       = "extra"
	screenPermissions = "permissions"
	screenSuggestions = "suggestions"
)

const (
	// maxSelectOptions is the most options a select menu can carry.
	maxSelectOptions = 25

	// shownChanges is how many change log lines the main screen shows.
	shownChanges = 5

	wizardColor = 0x5865F2
)

func id(name string, args ...string) string {
	return router.ID(System, name, args...)
}

func intPtr(i int) *int {
	return &i
}

func button(label string, style discordgo.ButtonStyle, customID string) discordgo.Button {
	return discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: customID,
	}
}

func backButton(screen string) discordgo.Button {
	return button("Back", discordgo.SecondaryButton, id("screen", screen))
}

func row(components ...discordgo.MessageComponent) discordgo.ActionsRow {
	return discordgo.ActionsRow{Components: components}
}

func screenData(notice string, embed *discordgo.MessageEmbed, rows ...discordgo.MessageComponent) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content:    notice,
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: rows,
	}
}

func fieldEmbed(title string, d *entities.PanelDraft, names ...string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: wizardColor,
	}
	for _, n := range names {
		f := fields[n]
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.label,
			Value:  f.display(d),
			Inline: f.kind != kindParagraph && f.kind != kindCapabilities,
		})
	}
	return embed
}

// render returns the named screen for the autosave.
func render(screen string, a *entities.Autosave, notice string) *discordgo.InteractionResponseData {
	switch screen {
	case screenChannel:
		return channelScreen(a, notice)
	case screenButton:
		return buttonScreen(a, notice)
	case screenExtra:
		return extraScreen(a, notice)
	case screenPermissions:
		return permissionsScreen(a, notice)
	case screenSuggestions:
		return suggestionsScreen(notice)
	default:
		return mainScreen(a, notice)
	}
}

func mainScreen(a *entities.Autosave, notice string) *discordgo.InteractionResponseData {
	d := &a.Draft
	title := "Panel setup"
	if d.PanelID != "" {
		title = fmt.Sprintf("Editing panel %s", d.PanelID)
	}

	embed := fieldEmbed(title, d, "name", "channel", "opencategory", "staffrole", "label", "color")
	embed.Description = "Configure the panel with the buttons below. Your progress is saved automatically."

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Button emoji",
		Value: emojiDisplay(d.ButtonEmoji),
	}, &discordgo.MessageEmbedField{
		Name:  "Questions",
		Value: strconv.Itoa(len(d.Questions)),
	})

	if recent := recentChanges(a.Changes); len(recent) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Recent changes",
			Value: strings.Join(recent, "\n"),
		})
	}

	return screenData(notice, embed,
		row(
			button("Channel setup", discordgo.PrimaryButton, id("screen", screenChannel)),
			button("Button setup", discordgo.PrimaryButton, id("screen", screenButton)),
			button("Extra", discordgo.PrimaryButton, id("screen", screenExtra)),
			button("Permissions", discordgo.PrimaryButton, id("screen", screenPermissions)),
		),
		row(
			button("Finish", discordgo.SuccessButton, id("finish")),
			button("Cancel", discordgo.DangerButton, id("cancel")),
		),
	)
}

// recentChanges returns the newest change log lines first.
func recentChanges(changes []string) []string {
	out := make([]string, 0, shownChanges)
	for i := len(changes) - 1; i >= 0 && len(out) < shownChanges; i-- {
		out = append(out, changes[i])
	}
	return out
}

func channelScreen(a *entities.Autosave, notice string) *discordgo.InteractionResponseData {
	embed := fieldEmbed("Channel setup", &a.Draft,
		"name", "channel", "opencategory", "closecategory", "staffrole", "logs", "transcript")

	return screenData(notice, embed,
		row(
			button("Name", discordgo.SecondaryButton, id("modal", "name")),
			button("Channel", discordgo.SecondaryButton, id("pick", "channel")),
			button("Open category", discordgo.SecondaryButton, id("pick", "opencategory")),
			button("Close category", discordgo.SecondaryButton, id("pick", "closecategory")),
			button("Staff role", discordgo.SecondaryButton, id("pick", "staffrole")),
		),
		row(
			button("Logs", discordgo.SecondaryButton, id("pick", "logs")),
			button("Transcripts", discordgo.SecondaryButton, id("pick", "transcript")),
			backButton(screenMain),
		),
	)
}

func emojiDisplay(e *entities.Emoji) string {
	if e == nil || e.IsZero() {
		return entities.DefaultButtonEmoji + " (default)"
	}
	return e.String()
}

func buttonScreen(a *entities.Autosave, notice string) *discordgo.InteractionResponseData {
	d := &a.Draft
	embed := fieldEmbed("Button setup", d, "label", "color")
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Emoji",
		Value:  emojiDisplay(d.ButtonEmoji),
		Inline: true,
	})

	options := make([]discordgo.SelectMenuOption, 0, len(entities.Colors))
	for _, c := range entities.Colors {
		options = append(options, discordgo.SelectMenuOption{
			Label:   string(c),
			Value:   string(c),
			Default: d.ButtonColor == c,
		})
	}

	return screenData(notice, embed,
		row(
			button("Label", discordgo.SecondaryButton, id("modal", "label")),
			button("Emoji", discordgo.SecondaryButton, id("emoji")),
			backButton(screenMain),
		),
		row(discordgo.SelectMenu{
			CustomID:    id("select", "color"),
			Placeholder: "Button color",
			Options:     options,
		}),
	)
}

func toggleMenu(f *field, d *entities.PanelDraft) discordgo.SelectMenu {
	current := f.get(d)
	return discordgo.SelectMenu{
		CustomID:    id("select", f.name),
		Placeholder: f.label,
		Options: []discordgo.SelectMenuOption{
			{Label: f.label + ": Yes", Value: "yes", Default: current == "yes"},
			{Label: f.label + ": No", Value: "no", Default: current == "no"},
		},
	}
}

func extraScreen(a *entities.Autosave, notice string) *discordgo.InteractionResponseData {
	d := &a.Draft
	embed := fieldEmbed("Extra setup", d, "claimable", "ownerclose", "description", "openmessage")

	questions := make([]string, 0, len(d.Questions))
	for i, q := range d.Questions {
		questions = append(questions, fmt.Sprintf("%d. %s (%s)", i+1, q.Text, q.Kind))
	}
	if len(questions) == 0 {
		questions = append(questions, "None")
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Questions",
		Value: strings.Join(questions, "\n"),
	})
	if len(d.Questions) > entities.MaxSurfacedQuestions {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Only %d questions are asked when a ticket is opened.", entities.MaxSurfacedQuestions),
		}
	}

	rows := []discordgo.MessageComponent{
		row(
			button("Description", discordgo.SecondaryButton, id("modal", "description")),
			button("Opening message", discordgo.SecondaryButton, id("modal", "openmessage")),
			button("Add question", discordgo.SecondaryButton, id("modal", "question")),
			backButton(screenMain),
		),
		row(toggleMenu(fields["claimable"], d)),
		row(toggleMenu(fields["ownerclose"], d)),
	}

	if len(d.Questions) > 0 {
		options := make([]discordgo.SelectMenuOption, 0, len(d.Questions))
		for i, q := range d.Questions {
			if i == maxSelectOptions {
				break
			}
			options = append(options, discordgo.SelectMenuOption{
				Label: truncate(q.Text, 100),
				Value: strconv.Itoa(i),
			})
		}
		rows = append(rows, row(discordgo.SelectMenu{
			CustomID:    id("delquestion"),
			Placeholder: "Delete a question",
			Options:     options,
		}))
	}

	return screenData(notice, embed, rows...)
}

func capabilityMenu(f *field, selected []entities.Capability) discordgo.SelectMenu {
	chosen := make(map[entities.Capability]bool, len(selected))
	for _, c := range selected {
		chosen[c] = true
	}

	options := make([]discordgo.SelectMenuOption, 0, len(entities.AllCapabilities))
	for _, c := range entities.AllCapabilities {
		options = append(options, discordgo.SelectMenuOption{
			Label:   c.Label(),
			Value:   string(c),
			Default: chosen[c],
		})
	}

	return discordgo.SelectMenu{
		CustomID:    id("select", f.name),
		Placeholder: f.label + " (none selected uses defaults)",
		MinValues:   intPtr(0),
		MaxValues:   len(options),
		Options:     options,
	}
}

func permissionsScreen(a *entities.Autosave, notice string) *discordgo.InteractionResponseData {
	d := &a.Draft
	embed := fieldEmbed("Permission setup", d, "ownerperms", "staffperms")
	embed.Description = "Choose what the ticket owner and the staff role can do in a ticket channel."

	return screenData(notice, embed,
		row(capabilityMenu(fields["ownerperms"], d.OwnerPermissions)),
		row(capabilityMenu(fields["staffperms"], d.StaffPermissions)),
		row(
			button("Suggestions", discordgo.PrimaryButton, id("screen", screenSuggestions)),
			backButton(screenMain),
		),
	)
}

func capabilityLabels(caps []entities.Capability) string {
	labels := make([]string, len(caps))
	for i, c := range caps {
		labels[i] = c.Label()
	}
	return strings.Join(labels, ", ")
}

func suggestionsScreen(notice string) *discordgo.InteractionResponseData {
	embed := &discordgo.MessageEmbed{
		Title:       "Suggested permissions",
		Color:       wizardColor,
		Description: "Apply a recommended set to both the owner and the staff permissions.",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Basic (owner)", Value: capabilityLabels(suggestions[suggestBasic].owner)},
			{Name: "Basic (staff)", Value: capabilityLabels(suggestions[suggestBasic].staff)},
			{Name: "Extended (owner)", Value: capabilityLabels(suggestions[suggestExtended].owner)},
			{Name: "Extended (staff)", Value: capabilityLabels(suggestions[suggestExtended].staff)},
		},
	}

	return screenData(notice, embed,
		row(
			button("Basic", discordgo.PrimaryButton, id("suggest", suggestBasic)),
			button("Extended", discordgo.PrimaryButton, id("suggest", suggestExtended)),
			button("Both", discordgo.PrimaryButton, id("suggest", suggestAll)),
			backButton(screenPermissions),
		),
	)
}

// pickerScreen lists the live guild objects a field can be set to.
func pickerScreen(f *field, options []discordgo.SelectMenuOption, notice string) *discordgo.InteractionResponseData {
	embed := &discordgo.MessageEmbed{
		Title:       "Select " + strings.ToLower(f.label),
		Color:       wizardColor,
		Description: "Choose from the list below.",
	}

	if f.optional {
		options = append([]discordgo.SelectMenuOption{{Label: "None", Value: noneValue}}, options...)
	}
	if len(options) > maxSelectOptions {
		options = options[:maxSelectOptions]
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Only the first %d entries can be shown.", maxSelectOptions),
		}
	}

	rows := []discordgo.MessageComponent{}
	if len(options) == 0 {
		embed.Description = "There is nothing to choose from."
	} else {
		rows = append(rows, row(discordgo.SelectMenu{
			CustomID:    id("select", f.name),
			Placeholder: f.label,
			Options:     options,
		}))
	}
	rows = append(rows, row(backButton(f.screen)))

	return screenData(notice, embed, rows...)
}

// modalData builds the text input modal of a field.
func modalData(f *field, d *entities.PanelDraft) *discordgo.InteractionResponseData {
	style := discordgo.TextInputShort
	if f.kind == kindParagraph {
		style = discordgo.TextInputParagraph
	}

	value := ""
	if f.get != nil {
		value = f.get(d)
	}

	inputs := []discordgo.MessageComponent{
		row(discordgo.TextInput{
			CustomID:  inputValue,
			Label:     f.label,
			Style:     style,
			Value:     value,
			Required:  true,
			MaxLength: f.maxLen,
		}),
	}
	if f == questionField {
		inputs = append(inputs, row(discordgo.TextInput{
			CustomID:    inputKind,
			Label:       "Required? (yes or no)",
			Style:       discordgo.TextInputShort,
			Placeholder: "yes",
			Required:    false,
			MaxLength:   3,
		}))
	}

	return &discordgo.InteractionResponseData{
		CustomID:   id("submit", f.name),
		Title:      truncate(f.label, 45),
		Components: inputs,
	}
}

func finishedScreen(p *entities.Panel, verb string) *discordgo.InteractionResponseData {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Panel %s", verb),
		Color:       0x57F287,
		Description: fmt.Sprintf("Panel **%s** (`%s`) is live in <#%s>.", p.Name, p.ID, p.ChannelID),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Button", Value: fmt.Sprintf("%s %s", p.ButtonEmoji.String(), p.ButtonLabel), Inline: true},
			{Name: "Color", Value: string(p.ButtonColor), Inline: true},
		},
	}
	return &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{},
	}
}

func closedScreen(text string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content:    text,
		Embeds:     []*discordgo.MessageEmbed{},
		Components: []discordgo.MessageComponent{},
	}
}

func resendScreen(p *entities.Panel) *discordgo.InteractionResponseData {
	embed := panels.Embed(p)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Preview"}

	return &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("The message of panel `%s` no longer exists. Send a new one to <#%s>?", p.ID, p.ChannelID),
		Embeds:  []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			row(
				button("Send", discordgo.SuccessButton, id("resend")),
				button("Cancel", discordgo.DangerButton, id("resendcancel")),
			),
		},
	}
}

func emojiPromptScreen() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content:    "Send the emoji you want on the button in this channel. You have 60 seconds.",
		Embeds:     []*discordgo.MessageEmbed{},
		Components: []discordgo.MessageComponent{},
	}
}

func emojiConfirmScreen(e entities.Emoji) *discordgo.InteractionResponseData {
	animated := "s"
	if e.Animated {
		animated = "a"
	}
	return &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("%s is from another server. Upload it to this server and use it?", e.String()),
		Embeds:  []*discordgo.MessageEmbed{},
		Components: []discordgo.MessageComponent{
			row(
				button("Upload", discordgo.SuccessButton, id("emojiconfirm", e.ID, e.Name, animated)),
				button("Discard", discordgo.DangerButton, id("emojideny")),
			),
		},
	}
}
