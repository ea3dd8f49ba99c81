package wizard

import (
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindParagraph
	kindTextChannel
	kindCategory
	kindRole
	kindColor
	kindToggle
	kindCapabilities
)

// field is one editable property of a draft.
type field struct {
	name     string
	label    string
	kind     fieldKind
	screen   string
	required bool
	optional bool
	maxLen   int
	get      func(d *entities.PanelDraft) string
	set      func(d *entities.PanelDraft, v string)
}

var fields = map[string]*field{
	"name": {
		name: "name", label: "Panel name", kind: kindText, screen: screenChannel, required: true, maxLen: 100,
		get: func(d *entities.PanelDraft) string { return d.Name },
		set: func(d *entities.PanelDraft, v string) { d.Name = v },
	},
	"channel": {
		name: "channel", label: "Panel channel", kind: kindTextChannel, screen: screenChannel, required: true,
		get: func(d *entities.PanelDraft) string { return d.ChannelID },
		set: func(d *entities.PanelDraft, v string) { d.ChannelID = v },
	},
	"opencategory": {
		name: "opencategory", label: "Open category", kind: kindCategory, screen: screenChannel, required: true,
		get: func(d *entities.PanelDraft) string { return d.OpenCategoryID },
		set: func(d *entities.PanelDraft, v string) { d.OpenCategoryID = v },
	},
	"closecategory": {
		name: "closecategory", label: "Close category", kind: kindCategory, screen: screenChannel, optional: true,
		get: func(d *entities.PanelDraft) string { return d.CloseCategoryID },
		set: func(d *entities.PanelDraft, v string) { d.CloseCategoryID = v },
	},
	"staffrole": {
		name: "staffrole", label: "Staff role", kind: kindRole, screen: screenChannel, required: true,
		get: func(d *entities.PanelDraft) string { return d.StaffRoleID },
		set: func(d *entities.PanelDraft, v string) { d.StaffRoleID = v },
	},
	"logs": {
		name: "logs", label: "Logs channel", kind: kindTextChannel, screen: screenChannel, optional: true,
		get: func(d *entities.PanelDraft) string { return d.LogsChannelID },
		set: func(d *entities.PanelDraft, v string) { d.LogsChannelID = v },
	},
	"transcript": {
		name: "transcript", label: "Transcript channel", kind: kindTextChannel, screen: screenChannel, optional: true,
		get: func(d *entities.PanelDraft) string { return d.TranscriptChannelID },
		set: func(d *entities.PanelDraft, v string) { d.TranscriptChannelID = v },
	},
	"label": {
		name: "label", label: "Button label", kind: kindText, screen: screenButton, maxLen: 80,
		get: func(d *entities.PanelDraft) string { return d.ButtonLabel },
		set: func(d *entities.PanelDraft, v string) { d.ButtonLabel = v },
	},
	"color": {
		name: "color", label: "Button color", kind: kindColor, screen: screenButton,
		get: func(d *entities.PanelDraft) string { return string(d.ButtonColor) },
		set: func(d *entities.PanelDraft, v string) { d.ButtonColor = entities.Color(v) },
	},
	"description": {
		name: "description", label: "Description", kind: kindParagraph, screen: screenExtra, maxLen: 4000,
		get: func(d *entities.PanelDraft) string { return d.Description },
		set: func(d *entities.PanelDraft, v string) { d.Description = v },
	},
	"openmessage": {
		name: "openmessage", label: "Opening message", kind: kindParagraph, screen: screenExtra, maxLen: 2000,
		get: func(d *entities.PanelDraft) string { return d.OpenMessage },
		set: func(d *entities.PanelDraft, v string) { d.OpenMessage = v },
	},
	"claimable": {
		name: "claimable", label: "Claimable", kind: kindToggle, screen: screenExtra,
		get: func(d *entities.PanelDraft) string { return toggleValue(d.Claimable) },
		set: func(d *entities.PanelDraft, v string) { d.Claimable = parseToggle(v) },
	},
	"ownerclose": {
		name: "ownerclose", label: "Owner can close", kind: kindToggle, screen: screenExtra,
		get: func(d *entities.PanelDraft) string { return toggleValue(d.OwnerCanClose) },
		set: func(d *entities.PanelDraft, v string) { d.OwnerCanClose = parseToggle(v) },
	},
	"ownerperms": {
		name: "ownerperms", label: "Owner permissions", kind: kindCapabilities, screen: screenPermissions,
		get: func(d *entities.PanelDraft) string { return joinCapabilities(d.OwnerPermissions) },
		set: func(d *entities.PanelDraft, v string) { d.OwnerPermissions = splitCapabilities(v) },
	},
	"staffperms": {
		name: "staffperms", label: "Staff permissions", kind: kindCapabilities, screen: screenPermissions,
		get: func(d *entities.PanelDraft) string { return joinCapabilities(d.StaffPermissions) },
		set: func(d *entities.PanelDraft, v string) { d.StaffPermissions = splitCapabilities(v) },
	},
}

// questionField is the modal that appends an intake question.
var questionField = &field{
	name: "question", label: "Question", kind: kindText, screen: screenExtra, maxLen: 45,
}

func toggleValue(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return "yes"
	}
	return "no"
}

func parseToggle(v string) *bool {
	b := v == "yes"
	return &b
}

func joinCapabilities(caps []entities.Capability) string {
	parts := make([]string, len(caps))
	for i, c := range caps {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

func splitCapabilities(v string) []entities.Capability {
	if v == "" {
		return nil
	}
	return entities.ParseCapabilities(strings.Split(v, ","))
}

// display renders a field value for the screens.
func (f *field) display(d *entities.PanelDraft) string {
	v := f.get(d)
	if v == "" {
		switch {
		case f.kind == kindToggle:
			return "Yes (default)"
		case f.kind == kindCapabilities:
			return "Defaults"
		case f.kind == kindColor:
			return string(entities.ColorPrimary) + " (default)"
		case f.required:
			return "**Not set**"
		default:
			return "Not set"
		}
	}

	switch f.kind {
	case kindTextChannel, kindCategory:
		return fmt.Sprintf("<#%s>", v)
	case kindRole:
		return fmt.Sprintf("<@&%s>", v)
	case kindToggle:
		if v == "yes" {
			return "Yes"
		}
		return "No"
	case kindCapabilities:
		labels := make([]string, 0)
		for _, c := range splitCapabilities(v) {
			labels = append(labels, c.Label())
		}
		return strings.Join(labels, ", ")
	case kindParagraph:
		return truncate(v, 200)
	}
	return v
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
