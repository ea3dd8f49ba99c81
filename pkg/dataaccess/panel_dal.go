package dataaccess

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
)

const panelDalName = "panel_dal"

type PanelDal interface {
	// SavePanel creates or overwrites a panel.
	SavePanel(ctx context.Context, panel *entities.Panel) error

	// UpdatePanel reads the stored panel, applies fn and saves the result. Updates through
	// UpdatePanel never interleave, so read-modify-write fields such as the ticket counter are not
	// lost. The panel is not saved when fn returns an error.
	UpdatePanel(ctx context.Context, id string, fn func(p *entities.Panel) error) (*entities.Panel, error)

	// GetPanel gets a panel by ID.
	GetPanel(ctx context.Context, id string) (*entities.Panel, error)

	// ListPanels lists the panels of a guild.
	ListPanels(ctx context.Context, guildID string) ([]*entities.Panel, error)

	// DeletePanel deletes a panel.
	DeletePanel(ctx context.Context, id string) error

	// NextPanelID returns the next sequential panel id.
	NextPanelID(ctx context.Context) (string, error)
}

type panelDal struct {
	*dal[entities.Panel, *entities.Panel]
	seq *sequencer

	// mu guards UpdatePanel.
	mu sync.Mutex
}

// NewPanelDal creates a new panel data access layer.
func NewPanelDal(store Store, l *slog.Logger) PanelDal {
	return &panelDal{
		dal: newDal[entities.Panel, *entities.Panel](panelDalName, entities.TypePanel, store, l),
		seq: new(sequencer),
	}
}

func (d *panelDal) SavePanel(ctx context.Context, panel *entities.Panel) error {
	return d.save(ctx, "save_panel", panel)
}

func (d *panelDal) UpdatePanel(ctx context.Context, id string, fn func(p *entities.Panel) error) (*entities.Panel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.get(ctx, "update_panel", id)
	if err != nil {
		return nil, fmt.Errorf("error getting panel: %w", err)
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := d.save(ctx, "update_panel", p); err != nil {
		return nil, err
	}
	return p, nil
}

func (d *panelDal) GetPanel(ctx context.Context, id string) (*entities.Panel, error) {
	return d.get(ctx, "get_panel", id)
}

func (d *panelDal) ListPanels(ctx context.Context, guildID string) ([]*entities.Panel, error) {
	return d.find(ctx, "list_panels", map[string]string{"guild": guildID})
}

func (d *panelDal) DeletePanel(ctx context.Context, id string) error {
	return d.delete(ctx, "delete_panel", id)
}

func (d *panelDal) NextPanelID(ctx context.Context) (string, error) {
	n, err := d.seq.next(ctx, d.store, entities.TypePanel)
	if err != nil {
		return "", err
	}
	return entities.PanelID(n), nil
}
