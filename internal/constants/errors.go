package constants

import "errors"

// Configuration and CLI errors.
var (
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
	ErrInvalidConfigValue = errors.New("invalid configuration value")
	ErrInvalidOutput      = errors.New("invalid output format, use table, json or yaml")
	ErrInvalidViewKind    = errors.New("invalid view kind, use areas, area or measurements")
	ErrNotInteractive     = errors.New("browse requires an interactive terminal")
	ErrNoActionsAvailable = errors.New("no actions available on this page")
)

// Command errors.
var (
	ErrOperationFailed = errors.New("operation failed")
)
