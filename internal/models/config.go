// Package models contains the data structures used throughout shutdown-timer.
package models

// AppConfig holds the complete configuration for an interactive session.
type AppConfig struct {
	Power   PowerConfig
	Display DisplaySettings
}

// PowerConfig holds settings for the OS power tool.
type PowerConfig struct {
	Platform        string // "windows" or "linux", resolved from "auto" by the parser
	Command         string // shutdown.exe on windows, shutdown on linux
	FirmwareCommand string // linux only, e.g. systemctl
	ForceRestart    bool   // windows: pass /f on restart
	Patterns        MessagePatterns
}

// MessagePatterns identifies the known non-success outcomes of the power tool.
// Exit codes are checked first, substrings are a fallback for tools that
// only report a localized message.
type MessagePatterns struct {
	BenignExitCodes    []int
	BenignMessages     []string
	PrivilegeExitCodes []int
	PrivilegeMessages  []string
}

// DisplaySettings controls console rendering.
type DisplaySettings struct {
	Color       string // "auto" (default), "always", "never"
	ClearScreen bool
	PauseOnExit bool
}
