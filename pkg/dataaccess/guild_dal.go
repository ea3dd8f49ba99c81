package dataaccess

import (
	"context"
	"log/slog"

	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
)

const guildDalName = "guild_dal"

type GuildDal interface {
	// SaveGuild saves a guild configuration.
	SaveGuild(ctx context.Context, guild *entities.GuildConfig) error

	// GetGuildByID gets a guild configuration by the guild ID.
	GetGuildByID(ctx context.Context, guildID string) (*entities.GuildConfig, error)
}

type guildDal struct {
	*dal[entities.GuildConfig, *entities.GuildConfig]
}

// NewGuildDal creates a new guild data access layer.
func NewGuildDal(store Store, l *slog.Logger) GuildDal {
	return &guildDal{
		dal: newDal[entities.GuildConfig, *entities.GuildConfig](guildDalName, entities.TypeGuildConfig, store, l),
	}
}

func (d *guildDal) SaveGuild(ctx context.Context, guild *entities.GuildConfig) error {
	return d.save(ctx, "save_guild_config", guild)
}

func (d *guildDal) GetGuildByID(ctx context.Context, guildID string) (*entities.GuildConfig, error) {
	return d.get(ctx, "get_guild_by_id", entities.GuildConfigID(guildID))
}
