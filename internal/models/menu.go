package models

// Key is a single key press read from the console.
type Key rune

// Special keys.
const (
	KeyNone   Key = 0
	KeyEscape Key = 0x1b
)

// String returns a printable name for the key.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "none"
	case KeyEscape:
		return "esc"
	default:
		return string(rune(k))
	}
}

// MenuOption is the action chosen from the main menu.
type MenuOption int

// Menu options in display order.
const (
	OptionScheduleShutdown MenuOption = iota + 1
	OptionCancelShutdown
	OptionScheduleRestart
	OptionRestartToFirmware
	OptionExit
)

func (o MenuOption) String() string {
	switch o {
	case OptionScheduleShutdown:
		return "schedule_shutdown"
	case OptionCancelShutdown:
		return "cancel_shutdown"
	case OptionScheduleRestart:
		return "schedule_restart"
	case OptionRestartToFirmware:
		return "restart_to_firmware"
	case OptionExit:
		return "exit"
	default:
		return "unknown"
	}
}

// OptionForKey maps a menu key to its option. Unknown keys map to Exit.
func OptionForKey(k Key) MenuOption {
	switch k {
	case '1':
		return OptionScheduleShutdown
	case '2':
		return OptionCancelShutdown
	case '3':
		return OptionScheduleRestart
	case '4':
		return OptionRestartToFirmware
	default:
		return OptionExit
	}
}

// SessionState is the state of the interactive session.
type SessionState int

// Session states.
const (
	StateMenuDisplayed SessionState = iota
	StateActionExecuting
	StateDone
)

func (s SessionState) String() string {
	switch s {
	case StateMenuDisplayed:
		return "menu_displayed"
	case StateActionExecuting:
		return "action_executing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
