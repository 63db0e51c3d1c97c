package config

const (
	// AppName names the per-user data directory.
	AppName = "skin-studio"

	// HomeEnv overrides the data directory.
	HomeEnv = "SKIN_STUDIO_HOME"

	ConfigFilename  = "config.json"
	SeedMarkerFile  = "seed.json"
	HistoryFilename = "history.db"
	LogFilename     = "skin-studio.log"

	// SkinsDir is the folder under the install folder holding one folder per skin.
	SkinsDir = "Skins"
)

// Defaults returns a config with every field at its default value.
func Defaults(version string) Config {
	return Config{
		AppVersion: version,
		Preferences: Preferences{
			Use2x: true,
		},
	}
}
