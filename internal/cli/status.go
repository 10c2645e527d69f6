package cli

// Color is the semantic color of a status in tables.
type Color string

const (
	ColorDefault Color = "default"
	ColorInfo    Color = "info"
	ColorSuccess Color = "success"
	ColorWarning Color = "warning"
	ColorError   Color = "error"
)

var statusColors = map[string]Color{
	// jobs
	"pending":    ColorWarning,
	"processing": ColorInfo,
	"completed":  ColorSuccess,
	"failed":     ColorError,
	// pipelines
	"active":   ColorInfo,
	"archived": ColorDefault,
}

var ansiCodes = map[Color]string{
	ColorInfo:    "\033[36m",
	ColorSuccess: "\033[32m",
	ColorWarning: "\033[33m",
	ColorError:   "\033[31m",
}

const ansiReset = "\033[0m"

// StatusColor returns ColorDefault for unknown statuses.
func StatusColor(status string) Color {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return ColorDefault
}

func colorize(status string, enabled bool) string {
	code, ok := ansiCodes[StatusColor(status)]
	if !enabled || !ok {
		return status
	}
	return code + status + ansiReset
}
