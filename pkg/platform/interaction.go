package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/Jacobbrewer1/discordgo"
)

type ackState int

const (
	ackNone ackState = iota
	ackDeferredUpdate
	ackDeferredReply
	ackUpdated
	ackReplied
	ackModal
)

// Interaction wraps a platform interaction and tracks how it has been acknowledged, so handlers can
// respond without knowing whether the router already deferred it.
type Interaction struct {
	*discordgo.Interaction

	s Session

	mu    sync.Mutex
	state ackState
}

// NewInteraction wraps i for responses through s.
func NewInteraction(s Session, i *discordgo.Interaction) *Interaction {
	return &Interaction{
		Interaction: i,
		s:           s,
	}
}

// Session returns the session the interaction responds through.
func (ix *Interaction) Session() Session {
	return ix.s
}

// Acknowledged reports whether any response has been sent.
func (ix *Interaction) Acknowledged() bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.state != ackNone
}

// IsComponent reports whether the interaction is a button press or a select menu choice.
func (ix *Interaction) IsComponent() bool {
	return ix.Type == discordgo.InteractionMessageComponent
}

// IsModalSubmit reports whether the interaction is a submitted form.
func (ix *Interaction) IsModalSubmit() bool {
	return ix.Type == discordgo.InteractionModalSubmit
}

// CustomID returns the action identifier of a component or modal interaction.
func (ix *Interaction) CustomID() string {
	switch ix.Type {
	case discordgo.InteractionMessageComponent:
		return ix.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return ix.ModalSubmitData().CustomID
	}
	return ""
}

// Values returns the chosen values of a select menu interaction.
func (ix *Interaction) Values() []string {
	if ix.Type != discordgo.InteractionMessageComponent {
		return nil
	}
	return ix.MessageComponentData().Values
}

// FormValues returns the submitted text inputs of a modal, keyed by input custom id.
func (ix *Interaction) FormValues() map[string]string {
	values := make(map[string]string)
	if ix.Type != discordgo.InteractionModalSubmit {
		return values
	}
	for _, row := range ix.ModalSubmitData().Components {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range ar.Components {
			if in, ok := c.(*discordgo.TextInput); ok {
				values[in.CustomID] = in.Value
			}
		}
	}
	return values
}

// User returns the user that triggered the interaction.
func (ix *Interaction) User() *discordgo.User {
	if ix.Member != nil && ix.Member.User != nil {
		return ix.Member.User
	}
	if ix.Interaction.User != nil {
		return ix.Interaction.User
	}
	return new(discordgo.User)
}

// RoleIDs returns the guild roles of the invoking member.
func (ix *Interaction) RoleIDs() []string {
	if ix.Member == nil {
		return nil
	}
	return ix.Member.Roles
}

// Permissions returns the computed channel permissions of the invoking member.
func (ix *Interaction) Permissions() int64 {
	if ix.Member == nil {
		return 0
	}
	return ix.Member.Permissions
}

// DeferUpdate acknowledges a component interaction without changing its message.
func (ix *Interaction) DeferUpdate(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.state != ackNone {
		return ErrAlreadyAcknowledged
	}

	err := ix.s.Respond(ctx, ix.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		return fmt.Errorf("error deferring update: %w", err)
	}
	ix.state = ackDeferredUpdate
	return nil
}

// DeferReply acknowledges the interaction with a pending reply.
func (ix *Interaction) DeferReply(ctx context.Context, ephemeral bool) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.state != ackNone {
		return ErrAlreadyAcknowledged
	}

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	if err := ix.s.Respond(ctx, ix.Interaction, resp); err != nil {
		return fmt.Errorf("error deferring reply: %w", err)
	}
	ix.state = ackDeferredReply
	return nil
}

// Reply sends a message in response to the interaction. A deferred reply is filled in, anything else
// acknowledged already gets a follow-up message.
func (ix *Interaction) Reply(ctx context.Context, data *discordgo.InteractionResponseData) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	switch ix.state {
	case ackNone:
		err := ix.s.Respond(ctx, ix.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: data,
		})
		if err != nil {
			return fmt.Errorf("error replying: %w", err)
		}
		ix.state = ackReplied
	case ackDeferredReply:
		if err := ix.s.EditResponse(ctx, ix.Interaction, data); err != nil {
			return fmt.Errorf("error editing deferred reply: %w", err)
		}
		ix.state = ackReplied
	default:
		if _, err := ix.s.Followup(ctx, ix.Interaction, data); err != nil {
			return fmt.Errorf("error sending followup: %w", err)
		}
	}
	return nil
}

// Update replaces the message the interaction came from, or the existing reply when one was sent.
func (ix *Interaction) Update(ctx context.Context, data *discordgo.InteractionResponseData) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	switch ix.state {
	case ackNone:
		if ix.Type != discordgo.InteractionMessageComponent && ix.Type != discordgo.InteractionModalSubmit {
			return fmt.Errorf("cannot update the message of a %s interaction", ix.Type)
		}
		err := ix.s.Respond(ctx, ix.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: data,
		})
		if err != nil {
			return fmt.Errorf("error updating message: %w", err)
		}
		ix.state = ackUpdated
	case ackModal:
		return ErrAlreadyAcknowledged
	default:
		if err := ix.s.EditResponse(ctx, ix.Interaction, data); err != nil {
			return fmt.Errorf("error editing response: %w", err)
		}
	}
	return nil
}

// EditReply edits the current response. An interaction with no response yet gets a reply instead.
func (ix *Interaction) EditReply(ctx context.Context, data *discordgo.InteractionResponseData) error {
	if !ix.Acknowledged() {
		return ix.Reply(ctx, data)
	}

	if err := ix.s.EditResponse(ctx, ix.Interaction, data); err != nil {
		return fmt.Errorf("error editing response: %w", err)
	}
	return nil
}

// ShowModal opens a form. Forms can only be the first response to an interaction.
func (ix *Interaction) ShowModal(ctx context.Context, data *discordgo.InteractionResponseData) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.state != ackNone {
		return ErrAlreadyAcknowledged
	}

	err := ix.s.Respond(ctx, ix.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("error showing modal: %w", err)
	}
	ix.state = ackModal
	return nil
}

// Followup sends an additional message for the interaction.
func (ix *Interaction) Followup(ctx context.Context, data *discordgo.InteractionResponseData) (*discordgo.Message, error) {
	msg, err := ix.s.Followup(ctx, ix.Interaction, data)
	if err != nil {
		return nil, fmt.Errorf("error sending followup: %w", err)
	}
	return msg, nil
}

// Ephemeral builds response data only the invoking user can see.
func Ephemeral(content string, embeds ...*discordgo.MessageEmbed) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content: content,
		Embeds:  embeds,
		Flags:   discordgo.MessageFlagsEphemeral,
	}
}
