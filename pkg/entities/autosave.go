package entities

import "github.com/Jacobbrewer1/ticketwolf/pkg/custom"

// PanelDraft is a partially configured panel. Empty values are unset.
type PanelDraft struct {
	// PanelID is set when the draft edits an existing panel.
	PanelID string `json:"panel_id,omitempty"`

	Name                string `json:"name,omitempty"`
	ChannelID           string `json:"channel_id,omitempty"`
	OpenCategoryID      string `json:"open_category_id,omitempty"`
	CloseCategoryID     string `json:"close_category_id,omitempty"`
	StaffRoleID         string `json:"staff_role_id,omitempty"`
	LogsChannelID       string `json:"logs_channel_id,omitempty"`
	TranscriptChannelID string `json:"transcript_channel_id,omitempty"`

	ButtonLabel string `json:"button_label,omitempty"`
	ButtonEmoji *Emoji `json:"button_emoji,omitempty"`
	ButtonColor Color  `json:"button_color,omitempty"`

	Description string     `json:"description,omitempty"`
	OpenMessage string     `json:"open_message,omitempty"`
	Questions   []Question `json:"questions,omitempty"`

	Claimable     *bool `json:"claimable,omitempty"`
	OwnerCanClose *bool `json:"owner_can_close,omitempty"`

	OwnerPermissions []Capability `json:"owner_permissions,omitempty"`
	StaffPermissions []Capability `json:"staff_permissions,omitempty"`
}

// DraftFromPanel creates a draft that edits the given panel.
func DraftFromPanel(p *Panel) PanelDraft {
	claimable := p.Claimable
	ownerClose := p.OwnerCanClose
	emoji := p.ButtonEmoji

	d := PanelDraft{
		PanelID:             p.ID,
		Name:                p.Name,
		ChannelID:           p.ChannelID,
		OpenCategoryID:      p.OpenCategoryID,
		CloseCategoryID:     p.CloseCategoryID,
		StaffRoleID:         p.StaffRoleID,
		LogsChannelID:       p.LogsChannelID,
		TranscriptChannelID: p.TranscriptChannelID,
		ButtonLabel:         p.ButtonLabel,
		ButtonColor:         p.ButtonColor,
		Description:         p.Description,
		OpenMessage:         p.OpenMessage,
		Questions:           append([]Question(nil), p.Questions...),
		Claimable:           &claimable,
		OwnerCanClose:       &ownerClose,
		OwnerPermissions:    append([]Capability(nil), p.OwnerPermissions...),
		StaffPermissions:    append([]Capability(nil), p.StaffPermissions...),
	}
	if !emoji.IsZero() {
		d.ButtonEmoji = &emoji
	}
	return d
}

// Autosave is a user's in-progress panel draft.
type Autosave struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	GuildID string `json:"guild_id"`

	Draft PanelDraft `json:"draft"`

	// TempPanel holds a fully built panel while a re-send confirmation is pending.
	TempPanel *Panel `json:"temp_panel,omitempty"`

	// Changes is the edit log, oldest first.
	Changes []string `json:"changes,omitempty"`

	StartedAt custom.Datetime `json:"started_at"`
}

// AutosaveID returns the id of the autosave slot of the user.
func AutosaveID(userID string) string {
	return NamespacedID(TypeAutosave, userID)
}

func (a *Autosave) RecordID() string       { return a.ID }
func (a *Autosave) RecordType() RecordType { return TypeAutosave }

func (a *Autosave) IndexKeys() map[string]string {
	return map[string]string{"guild": a.GuildID, "user": a.UserID}
}
