package dataaccess

import (
	"context"
	"log/slog"

	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
)

const templateDalName = "template_dal"

type TemplateDal interface {
	SaveTemplate(ctx context.Context, t *entities.Template) error
	GetTemplate(ctx context.Context, code string) (*entities.Template, error)
	ListTemplates(ctx context.Context, creatorID string) ([]*entities.Template, error)
	DeleteTemplate(ctx context.Context, code string) error
}

type templateDal struct {
	*dal[entities.Template, *entities.Template]
}

// NewTemplateDal creates a new template data access layer.
func NewTemplateDal(store Store, l *slog.Logger) TemplateDal {
	return &templateDal{
		dal: newDal[entities.Template, *entities.Template](templateDalName, entities.TypeTemplate, store, l),
	}
}

func (d *templateDal) SaveTemplate(ctx context.Context, t *entities.Template) error {
	return d.save(ctx, "save_template", t)
}

func (d *templateDal) GetTemplate(ctx context.Context, code string) (*entities.Template, error) {
	return d.get(ctx, "get_template", entities.TemplateID(code))
}

func (d *templateDal) ListTemplates(ctx context.Context, creatorID string) ([]*entities.Template, error) {
	return d.find(ctx, "list_templates", map[string]string{"creator": creatorID})
}

func (d *templateDal) DeleteTemplate(ctx context.Context, code string) error {
	return d.delete(ctx, "delete_template", entities.TemplateID(code))
}
