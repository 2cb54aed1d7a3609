package vulkan

import (
	"github.com/tylercaldwell27/prism/engine/core"
)

type DebugSeverity int

const (
	DebugSeverityInfo DebugSeverity = iota
	DebugSeverityWarning
	DebugSeverityError
)

// DebugReporter receives validation layer messages. Supplied at
// construction so diagnostics are not tied to the instance extension
// machinery; the default forwards to the engine log.
type DebugReporter interface {
	Report(severity DebugSeverity, message string)
}

type logReporter struct{}

func (logReporter) Report(severity DebugSeverity, message string) {
	switch severity {
	case DebugSeverityError:
		core.LogError(message)
	case DebugSeverityWarning:
		core.LogWarn(message)
	default:
		core.LogInfo(message)
	}
}
