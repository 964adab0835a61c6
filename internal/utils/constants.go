package utils

const (
	// EmptyString represents a reusable empty string constant.
	EmptyString = ""

	// ApplicationName is the executable and configuration namespace.
	ApplicationName = "projdump"

	// ConfigFileName is the local configuration file looked up in the working directory.
	ConfigFileName = ".projdump.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".projdump"
	// GlobalConfigFileName is the file inside GlobalConfigDirectoryName holding the global configuration.
	GlobalConfigFileName = "config.yaml"

	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// GoModuleFileName is the name of a Go module manifest.
	GoModuleFileName = "go.mod"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command errors.
	ApplicationExecutionFailedMessage = "projdump failed"
)
