package dataaccess

import (
	"context"
	"log/slog"

	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
)

const autosaveDalName = "autosave_dal"

type AutosaveDal interface {
	// SaveAutosave overwrites the user's autosave.
	SaveAutosave(ctx context.Context, a *entities.Autosave) error

	// GetAutosave gets the autosave of a user.
	GetAutosave(ctx context.Context, userID string) (*entities.Autosave, error)

	// DeleteAutosave discards the autosave of a user.
	DeleteAutosave(ctx context.Context, userID string) error
}

type autosaveDal struct {
	*dal[entities.Autosave, *entities.Autosave]
}

// NewAutosaveDal creates a new autosave data access layer.
func NewAutosaveDal(store Store, l *slog.Logger) AutosaveDal {
	return &autosaveDal{
		dal: newDal[entities.Autosave, *entities.Autosave](autosaveDalName, entities.TypeAutosave, store, l),
	}
}

func (d *autosaveDal) SaveAutosave(ctx context.Context, a *entities.Autosave) error {
	return d.save(ctx, "save_autosave", a)
}

func (d *autosaveDal) GetAutosave(ctx context.Context, userID string) (*entities.Autosave, error) {
	return d.get(ctx, "get_autosave", entities.AutosaveID(userID))
}

func (d *autosaveDal) DeleteAutosave(ctx context.Context, userID string) error {
	return d.delete(ctx, "delete_autosave", entities.AutosaveID(userID))
}
