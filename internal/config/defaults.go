package config

const (
	defaultLibraryRoot    = "~/tv"
	defaultOutputFile     = "~/.local/share/showstub/overlays/returning.yml"
	defaultLogDir         = "~/.local/share/showstub/logs"
	defaultStateDir       = "~/.local/share/showstub"
	defaultStubSuffix     = " - kometa-overlay-lock.mp4"
	defaultSeasonFolder   = "Specials"
	defaultRequestTimeout = 10
	defaultPlexLibrary    = "TV Shows"
	defaultPlexLabel      = "Returning"
	defaultOverlayKey     = "returning_soon"
	defaultOverlayText    = "RETURNING SOON"
	defaultLogFormat      = "auto"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryRoot: defaultLibraryRoot,
			OutputFile:  defaultOutputFile,
			LogDir:      defaultLogDir,
			StateDir:    defaultStateDir,
		},
		Stub: Stub{
			Suffix:         defaultStubSuffix,
			SeasonFolder:   defaultSeasonFolder,
			WritePlexMatch: true,
		},
		Plex: Plex{
			Library:        defaultPlexLibrary,
			Label:          defaultPlexLabel,
			RequestTimeout: defaultRequestTimeout,
		},
		Overlay: Overlay{
			Key:  defaultOverlayKey,
			Text: defaultOverlayText,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
