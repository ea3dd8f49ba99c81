package entities

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Jacobbrewer1/ticketwolf/pkg/custom"
)

const (
	// MaxSurfacedQuestions is the number of questions shown to a user opening a ticket.
	MaxSurfacedQuestions = 5

	DefaultButtonLabel   = "Open Ticket"
	DefaultButtonEmoji   = "\U0001F4E9"
	DefaultDescription   = "Click the button below to open a ticket and contact the staff."
	DefaultOpenMessage   = "Thank you for opening a ticket. A member of staff will be with you shortly."
	DefaultCommandPrefix = "!"
)

// Color is the style of the panel button.
type Color string

const (
	ColorPrimary   Color = "Primary"
	ColorSecondary Color = "Secondary"
	ColorSuccess   Color = "Success"
	ColorDanger    Color = "Danger"
)

// Colors lists every valid color.
var Colors = []Color{ColorPrimary, ColorSecondary, ColorSuccess, ColorDanger}

// Valid reports whether the color is part of the enum.
func (c Color) Valid() bool {
	for _, v := range Colors {
		if c == v {
			return true
		}
	}
	return false
}

// Emoji is a button emoji. A unicode emoji has no ID.
type Emoji struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Animated bool   `json:"animated,omitempty"`
}

// IsCustom reports whether the emoji is a guild emoji rather than unicode.
func (e Emoji) IsCustom() bool {
	return e.ID != ""
}

// IsZero reports whether the emoji is unset.
func (e Emoji) IsZero() bool {
	return e.ID == "" && e.Name == ""
}

// String renders the emoji the way it is written in a message.
func (e Emoji) String() string {
	if !e.IsCustom() {
		return e.Name
	}
	if e.Animated {
		return fmt.Sprintf("<a:%s:%s>", e.Name, e.ID)
	}
	return fmt.Sprintf("<:%s:%s>", e.Name, e.ID)
}

// QuestionKind is whether a question must be answered.
type QuestionKind string

const (
	QuestionPrimary  QuestionKind = "primary"
	QuestionOptional QuestionKind = "optional"
)

// Question is an intake question asked when a ticket is opened.
type Question struct {
	Text string       `json:"text"`
	Kind QuestionKind `json:"kind"`
}

// UnmarshalJSON accepts both the object form and the legacy plain string form.
func (q *Question) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*q = Question{Text: text, Kind: QuestionPrimary}
		return nil
	}

	type alias Question
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("error decoding question: %w", err)
	}
	if a.Kind != QuestionOptional {
		a.Kind = QuestionPrimary
	}
	*q = Question(a)
	return nil
}

// SurfacedQuestions returns the questions shown to a user, primary first, capped at MaxSurfacedQuestions.
func SurfacedQuestions(qs []Question) []Question {
	out := make([]Question, len(qs))
	copy(out, qs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Kind != QuestionOptional && out[j].Kind == QuestionOptional
	})
	if len(out) > MaxSurfacedQuestions {
		out = out[:MaxSurfacedQuestions]
	}
	return out
}

// Panel is a ticket intake point.
type Panel struct {
	ID      string `json:"id"`
	GuildID string `json:"guild_id"`
	Name    string `json:"name"`

	// ChannelID is the channel the panel message is sent to.
	ChannelID string `json:"channel_id"`

	// OpenCategoryID is the category open tickets are created in.
	OpenCategoryID string `json:"open_category_id"`

	// CloseCategoryID is the category closed tickets are moved to.
	CloseCategoryID string `json:"close_category_id,omitempty"`

	StaffRoleID         string `json:"staff_role_id"`
	LogsChannelID       string `json:"logs_channel_id,omitempty"`
	TranscriptChannelID string `json:"transcript_channel_id,omitempty"`

	ButtonLabel string `json:"button_label"`
	ButtonEmoji Emoji  `json:"button_emoji"`
	ButtonColor Color  `json:"button_color"`

	Description string     `json:"description"`
	OpenMessage string     `json:"open_message"`
	Questions   []Question `json:"questions"`

	Claimable     bool `json:"claimable"`
	OwnerCanClose bool `json:"owner_can_close"`
	Enabled       bool `json:"enabled"`

	// MessageID is the rendered panel message.
	MessageID string `json:"message_id,omitempty"`

	TicketsCreated int `json:"tickets_created"`

	OwnerPermissions []Capability `json:"owner_permissions"`
	StaffPermissions []Capability `json:"staff_permissions"`

	CreatedAt custom.Datetime `json:"created_at"`
}

// PanelID returns the namespaced id of the panel with the given sequence.
func PanelID(seq int) string {
	return NamespacedID(TypePanel, fmt.Sprint(seq))
}

func (p *Panel) RecordID() string       { return p.ID }
func (p *Panel) RecordType() RecordType { return TypePanel }

func (p *Panel) IndexKeys() map[string]string {
	return map[string]string{"guild": p.GuildID}
}
