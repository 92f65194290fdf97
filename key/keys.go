// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Streaming Overrides - these keys adjust how playback targets are derived from the seekable range.
const (
	StreamingClampOffset = "streaming.overrides.clamp_offset_from_end_of_range"
)

// Sentinel Monitor - these keys tune the watchdog that corrects device misbehaviour.
const (
	SentinelInterval = "sentinel.interval_ms"
)

// Media Playback - these keys configure the native player backend.
const (
	PlayerBinary            = "player.binary"
	PlayerSocketWaitRetries = "player.socket_wait_retries"
	PlayerResume            = "player.resume"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-interactive application behavior.
const (
	CliColored = "cli.colored"
)
