package entities

import "github.com/Jacobbrewer1/ticketwolf/pkg/custom"

// PanelSnapshot is the server-agnostic part of a panel. It holds no channel or role references.
type PanelSnapshot struct {
	Name             string       `json:"name"`
	ButtonLabel      string       `json:"button_label"`
	ButtonEmoji      Emoji        `json:"button_emoji"`
	ButtonColor      Color        `json:"button_color"`
	Description      string       `json:"description"`
	OpenMessage      string       `json:"open_message"`
	Questions        []Question   `json:"questions"`
	Claimable        bool         `json:"claimable"`
	OwnerCanClose    bool         `json:"owner_can_close"`
	OwnerPermissions []Capability `json:"owner_permissions"`
	StaffPermissions []Capability `json:"staff_permissions"`
}

// SnapshotOf strips a panel of everything bound to its guild. Custom emoji do not travel between guilds.
func SnapshotOf(p *Panel) PanelSnapshot {
	emoji := p.ButtonEmoji
	if emoji.IsCustom() {
		emoji = Emoji{}
	}

	return PanelSnapshot{
		Name:             p.Name,
		ButtonLabel:      p.ButtonLabel,
		ButtonEmoji:      emoji,
		ButtonColor:      p.ButtonColor,
		Description:      p.Description,
		OpenMessage:      p.OpenMessage,
		Questions:        append([]Question(nil), p.Questions...),
		Claimable:        p.Claimable,
		OwnerCanClose:    p.OwnerCanClose,
		OwnerPermissions: append([]Capability(nil), p.OwnerPermissions...),
		StaffPermissions: append([]Capability(nil), p.StaffPermissions...),
	}
}

// Template is an exported panel keyed by a short code.
type Template struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	CreatedBy string          `json:"created_by"`
	Snapshot  PanelSnapshot   `json:"snapshot"`
	CreatedAt custom.Datetime `json:"created_at"`
}

// TemplateID returns the id of the template with the given code.
func TemplateID(code string) string {
	return NamespacedID(TypeTemplate, code)
}

func (t *Template) RecordID() string       { return t.ID }
func (t *Template) RecordType() RecordType { return TypeTemplate }

func (t *Template) IndexKeys() map[string]string {
	return map[string]string{"creator": t.CreatedBy}
}
