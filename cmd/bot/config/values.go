package config

import "time"

const (
	// AppName is the name of the application.
	AppName = "ticketwolf"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvStoreBackend is the environment variable selecting the store (mongo, sqlite, redis or memory).
	EnvStoreBackend = `STORE_BACKEND`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvSQLitePath is the environment variable for the SQLite database file.
	EnvSQLitePath = `SQLITE_PATH`

	EnvRedisAddr     = `REDIS_ADDR`
	EnvRedisPassword = `REDIS_PASSWORD`
	EnvRedisDB       = `REDIS_DB`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`

	// EnvChannelOpInterval is the minimum delay between two rename or move operations on a channel.
	EnvChannelOpInterval = `CHANNEL_OP_INTERVAL`

	// EnvChannelOpTimeout bounds a single rename or move operation.
	EnvChannelOpTimeout = `CHANNEL_OP_TIMEOUT`

	// EnvDefaultPrefix is the message command prefix of guilds that have not set one.
	EnvDefaultPrefix = `DEFAULT_PREFIX`
)

const (
	defaultMonitoringPort    = "8080"
	defaultChannelOpInterval = 5 * time.Second
	defaultChannelOpTimeout  = 10 * time.Second
	defaultPrefix            = "!"
	defaultSQLitePath        = "ticketwolf.db"
	defaultRedisAddr         = "localhost:6379"
)

// Config is the runtime configuration of the bot.
type Config struct {
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	StoreBackend string

	// MongoUri is the URI for the MongoDB database.
	MongoUri string

	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string

	ChannelOpInterval time.Duration
	ChannelOpTimeout  time.Duration

	DefaultPrefix string
}
