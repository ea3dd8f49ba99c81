package dataaccess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
)

const ticketDalName = "ticket_dal"

type TicketDal interface {
	// SaveTicket saves a ticket.
	SaveTicket(ctx context.Context, ticket *entities.Ticket) error

	// GetTicket gets a ticket by ID.
	GetTicket(ctx context.Context, id string) (*entities.Ticket, error)

	// GetTicketByChannel gets the ticket backed by a channel.
	GetTicketByChannel(ctx context.Context, channelID string) (*entities.Ticket, error)

	// FindOpenTicket gets the open ticket of a user against a panel through the owner+panel+state index.
	FindOpenTicket(ctx context.Context, ownerID, panelID string) (*entities.Ticket, error)

	// ListUserTickets lists every ticket of a user in a guild.
	ListUserTickets(ctx context.Context, guildID, ownerID string) ([]*entities.Ticket, error)

	// DeleteTicket deletes a ticket.
	DeleteTicket(ctx context.Context, id string) error

	// NextTicketID returns the next sequential ticket id and its number.
	NextTicketID(ctx context.Context) (string, int, error)
}

type ticketDal struct {
	*dal[entities.Ticket, *entities.Ticket]
	seq *sequencer
}

// NewTicketDal creates a new ticket data access layer.
func NewTicketDal(store Store, l *slog.Logger) TicketDal {
	return &ticketDal{
		dal: newDal[entities.Ticket, *entities.Ticket](ticketDalName, entities.TypeTicket, store, l),
		seq: new(sequencer),
	}
}

func (d *ticketDal) SaveTicket(ctx context.Context, ticket *entities.Ticket) error {
	return d.save(ctx, "save_ticket", ticket)
}

func (d *ticketDal) GetTicket(ctx context.Context, id string) (*entities.Ticket, error) {
	return d.get(ctx, "get_ticket", id)
}

func (d *ticketDal) GetTicketByChannel(ctx context.Context, channelID string) (*entities.Ticket, error) {
	tickets, err := d.find(ctx, "get_ticket_by_channel", map[string]string{"channel": channelID})
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, ErrNotFound
	}
	return tickets[0], nil
}

func (d *ticketDal) FindOpenTicket(ctx context.Context, ownerID, panelID string) (*entities.Ticket, error) {
	tickets, err := d.find(ctx, "find_open_ticket", map[string]string{
		"owner": ownerID,
		"panel": panelID,
		"state": string(entities.TicketOpen),
	})
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, ErrNotFound
	}
	if len(tickets) > 1 {
		d.l.Warn(fmt.Sprintf("Found %d open tickets for one owner and panel", len(tickets)),
			slog.String("owner", ownerID), slog.String("panel", panelID))
	}
	return tickets[0], nil
}

func (d *ticketDal) ListUserTickets(ctx context.Context, guildID, ownerID string) ([]*entities.Ticket, error) {
	return d.find(ctx, "list_user_tickets", map[string]string{"guild": guildID, "owner": ownerID})
}

func (d *ticketDal) DeleteTicket(ctx context.Context, id string) error {
	return d.delete(ctx, "delete_ticket", id)
}

func (d *ticketDal) NextTicketID(ctx context.Context) (string, int, error) {
	n, err := d.seq.next(ctx, d.store, entities.TypeTicket)
	if err != nil {
		return "", 0, err
	}
	return entities.TicketID(n), n, nil
}
