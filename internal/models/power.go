package models

// PowerMode is the kind of power action requested from the OS.
type PowerMode int

// Power modes.
const (
	ModeShutdown PowerMode = iota
	ModeRestart
	ModeRestartToFirmware
)

func (m PowerMode) String() string {
	switch m {
	case ModeShutdown:
		return "shutdown"
	case ModeRestart:
		return "restart"
	case ModeRestartToFirmware:
		return "restart_to_firmware"
	default:
		return "unknown"
	}
}

// PowerAction is a power request with its delay.
type PowerAction struct {
	Mode         PowerMode
	DelaySeconds int64
}

// NewPowerAction builds an action from a timer in minutes.
// Firmware restarts are always immediate.
func NewPowerAction(mode PowerMode, minutes int64) PowerAction {
	if mode == ModeRestartToFirmware {
		return PowerAction{Mode: mode}
	}
	return PowerAction{Mode: mode, DelaySeconds: minutes * 60}
}

// OperationResult holds the result of a single power tool invocation.
type OperationResult struct {
	Succeeded bool
	ExitCode  int
	Message   string // error text reported by the tool, if any
}

// Outcome classifies an OperationResult.
type Outcome int

// Outcomes.
const (
	OutcomeSuccess Outcome = iota
	OutcomeNothingScheduled
	OutcomePrivilegeRequired
	OutcomeUnexpected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNothingScheduled:
		return "nothing_scheduled"
	case OutcomePrivilegeRequired:
		return "privilege_required"
	default:
		return "unexpected"
	}
}
