package constant

// GOOS values that get a tailored mpv install hint.
const (
	Darwin  = "darwin"
	Linux   = "linux"
	Windows = "windows"
)
