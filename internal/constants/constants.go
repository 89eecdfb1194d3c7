package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Configuration locations.
const (
	// ConfigDirName is the directory under $HOME holding the CLI config.
	ConfigDirName = ".nearby"

	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"

	// ConfigFileType is the config file format.
	ConfigFileType = "yml"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "NEARBY"
)

// API defaults.
const (
	// DefaultAPIEndpoint is the base URL of the nearby API.
	DefaultAPIEndpoint = "http://localhost:5000"

	// DefaultEntryPoint is the areas collection loaded on startup.
	DefaultEntryPoint = "/api/areas/"

	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "nearby-client/1.0"
)

// Media types.
const (
	// MediaTypeMason is the Mason hypermedia content type.
	MediaTypeMason = "application/vnd.mason+json"

	// MediaTypeJSON is used for outgoing writes.
	MediaTypeJSON = "application/json"

	// AcceptHeader is sent with every request.
	AcceptHeader = MediaTypeMason + ", " + MediaTypeJSON
)

// HTTP and network timeouts.
const (
	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second

	// DefaultRetryWaitMin is the minimum wait between opt-in retries.
	DefaultRetryWaitMin = 1 * time.Second

	// ExtendedRetryWaitMax is the maximum wait between opt-in retries.
	ExtendedRetryWaitMax = 30 * time.Second

	// ShutdownTimeout bounds the demo server graceful shutdown.
	ShutdownTimeout = 5 * time.Second

	// ReadHeaderTimeout protects the demo server from slow clients.
	ReadHeaderTimeout = 5 * time.Second
)

// HTTP status codes commonly used.
const (
	// HTTPStatusOK represents a successful HTTP response.
	HTTPStatusOK = 200

	// HTTPStatusMultipleChoices is the first non-success status.
	HTTPStatusMultipleChoices = 300
)

// Pagination for the demo API.
const (
	// MeasurementsPageSize is the number of measurements per page.
	MeasurementsPageSize = 50
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MessageSuccessful is the notification after a successful write.
	MessageSuccessful = "Successful"

	// TimeLayout formats measurement timestamps.
	TimeLayout = "2006-01-02 15:04:05"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// Event publishing.
const (
	// DefaultSubjectPrefix is the NATS subject prefix for session events.
	DefaultSubjectPrefix = "nearby.session"

	// NATSClientName identifies the CLI connection on the NATS server.
	NATSClientName = "nearby-client"
)

// Validation and limits.
const (
	// MinimumArgumentCount is the minimum number of command line arguments.
	MinimumArgumentCount = 2
)
