package entities

import (
	"fmt"

	"github.com/Jacobbrewer1/ticketwolf/pkg/custom"
)

// TicketState is the lifecycle state of a ticket.
type TicketState string

const (
	TicketOpen   TicketState = "open"
	TicketClosed TicketState = "closed"
)

// Answer is a response to an intake question.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Ticket is one support case backed by a channel.
type Ticket struct {
	// ID is the namespaced id of the ticket (e.g. "ticket:1002").
	ID string `json:"id"`

	// Number is the sequence of the ticket id.
	Number int `json:"number"`

	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id"`

	// OwnerID is the ID of the user that created the ticket.
	OwnerID string `json:"owner_id"`

	// OwnerName is the sanitized handle of the owner, used for channel names.
	OwnerName string `json:"owner_name"`

	// PanelID is the panel the ticket was opened from.
	PanelID string `json:"panel_id"`

	// ChannelID is the ID of the channel that the ticket is in.
	ChannelID string `json:"channel_id"`

	State TicketState `json:"state"`

	// ClaimedBy is the ID of the staff member that claimed the ticket.
	ClaimedBy string `json:"claimed_by,omitempty"`

	// ClosedBy is the ID of the user that closed the ticket.
	ClosedBy string `json:"closed_by,omitempty"`

	Answers []Answer `json:"answers,omitempty"`

	// WelcomeMessageID is the message carrying the ticket buttons. It survives close and reopen.
	WelcomeMessageID string `json:"welcome_message_id,omitempty"`

	// CloseMessageID is the status message posted when the ticket was closed.
	CloseMessageID string `json:"close_message_id,omitempty"`

	CreatedAt custom.Datetime `json:"created_at"`
	ClosedAt  custom.Datetime `json:"closed_at"`
}

// TicketID returns the namespaced id of the ticket with the given sequence.
func TicketID(seq int) string {
	return NamespacedID(TypeTicket, fmt.Sprint(seq))
}

func (t *Ticket) RecordID() string       { return t.ID }
func (t *Ticket) RecordType() RecordType { return TypeTicket }

func (t *Ticket) IndexKeys() map[string]string {
	return map[string]string{
		"guild":   t.GuildID,
		"owner":   t.OwnerID,
		"panel":   t.PanelID,
		"state":   string(t.State),
		"channel": t.ChannelID,
	}
}

// IsOpen reports whether the ticket is open.
func (t *Ticket) IsOpen() bool {
	return t.State == TicketOpen
}

// Name is the channel name of an open, unclaimed ticket.
func (t *Ticket) Name() string {
	return "ticket-" + t.OwnerName
}
