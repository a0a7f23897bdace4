package config

type Config struct {
	DiscordToken  string `env:"DISCORD_TOKEN"`
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"!"`

	LavalinkName     string `env:"LAVALINK_NAME" envDefault:"main"`
	LavalinkAddress  string `env:"LAVALINK_ADDRESS" envDefault:"localhost:2333"`
	LavalinkPassword string `env:"LAVALINK_PASSWORD" envDefault:"youshallnotpass"`
	LavalinkSecure   bool   `env:"LAVALINK_SECURE" envDefault:"false"`

	DataDir             string `env:"DATA_DIR" envDefault:"./data"`
	DefaultVolume       int    `env:"DEFAULT_VOLUME" envDefault:"30"`
	AutoplayMode        string `env:"AUTOPLAY_MODE" envDefault:"enabled"` // enabled/partial/disabled
	LofiURL             string `env:"LOFI_URL" envDefault:"https://www.youtube.com/watch?v=jfKfPfyJRdk"`
	RecommendationLimit int    `env:"RECOMMENDATION_LIMIT" envDefault:"5"`

	SpotifyClientID     string `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`
	PlaylistLimit       int    `env:"PLAYLIST_LIMIT" envDefault:"50"`

	CommandRate  float64 `env:"COMMAND_RATE" envDefault:"2"`
	CommandBurst int     `env:"COMMAND_BURST" envDefault:"5"`

	BotStatus   string `env:"BOT_STATUS" envDefault:"online"` // online/dnd/idle
	BotActivity string `env:"BOT_ACTIVITY" envDefault:"music"`

	Log LogConfig
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"text"`
	FilePath   string `env:"LOG_FILE_PATH"`
	MaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	MaxAge     int    `env:"LOG_MAX_AGE" envDefault:"28"`
}

func (c *Config) SpotifyEnabled() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}
