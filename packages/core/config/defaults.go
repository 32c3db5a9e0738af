package config

const (
	DefaultDatabase    = ".hitref/hitref.db"
	DefaultBodyDir     = ".hitref/bodies"
	DefaultPreviewRate = 2.0
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Database:        DefaultDatabase,
		BodyDir:         DefaultBodyDir,
		Workspace:       "default",
		DefaultBehavior: "smart",
		Timeout:         30000, // 30 seconds
		FollowRedirects: BoolPtr(true),
		MaxRedirects:    10,
		ValidateSSL:     BoolPtr(true),
		PreviewRate:     DefaultPreviewRate,
		LogLevel:        "warn",
		LogFormat:       "text",
		NoColor:         BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	d := DefaultConfig()
	return c.Database == d.Database &&
		c.BodyDir == d.BodyDir &&
		c.Workspace == d.Workspace &&
		c.DefaultBehavior == d.DefaultBehavior &&
		c.Timeout == d.Timeout &&
		c.GetFollowRedirects() == d.GetFollowRedirects() &&
		c.MaxRedirects == d.MaxRedirects &&
		c.GetValidateSSL() == d.GetValidateSSL() &&
		c.Proxy == d.Proxy &&
		len(c.Headers) == 0 &&
		len(c.Variables) == 0 &&
		c.EnvFile == d.EnvFile &&
		c.PreviewRate == d.PreviewRate &&
		c.LogLevel == d.LogLevel &&
		c.LogFormat == d.LogFormat &&
		c.GetNoColor() == d.GetNoColor()
}
