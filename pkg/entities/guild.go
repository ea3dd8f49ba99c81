package entities

// GuildConfig is the per-guild configuration.
type GuildConfig struct {
	// ID is the namespaced id of the config (e.g. "guild:1234").
	ID string `json:"id"`

	// GuildID is the ID of the guild.
	GuildID string `json:"guild_id"`

	// Prefix is the command prefix for message commands.
	Prefix string `json:"prefix"`
}

// GuildConfigID returns the id of the guild's config record.
func GuildConfigID(guildID string) string {
	return "guild:" + guildID
}

func (g *GuildConfig) RecordID() string       { return g.ID }
func (g *GuildConfig) RecordType() RecordType { return TypeGuildConfig }

func (g *GuildConfig) IndexKeys() map[string]string {
	return map[string]string{"guild": g.GuildID}
}
