package logic

// Action is what a single opcode asks the board to do.
type Action int

const (
	ActionNone Action = iota // line terminator, skipped silently
	ActionUnknown
	ActionToggle
	ActionAllOn
	ActionAllOff
	ActionStatus
	ActionPing
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionToggle:
		return "toggle"
	case ActionAllOn:
		return "all_on"
	case ActionAllOff:
		return "all_off"
	case ActionStatus:
		return "status"
	case ActionPing:
		return "ping"
	}
	return "unknown"
}

// Command is a decoded opcode.
type Command struct {
	Opcode  byte
	Action  Action
	Channel int // only meaningful for ActionToggle
}

// Decode maps one inbound byte to a command. Opcodes are case-sensitive.
//
// Both cases of A and B toggle; the lowercase letters do not clear.
func Decode(b byte) Command {
	c := Command{Opcode: b, Channel: -1}
	switch b {
	case '\r', '\n':
		c.Action = ActionNone
	case 'A', 'a':
		c.Action = ActionToggle
		c.Channel = 0
	case 'B', 'b':
		c.Action = ActionToggle
		c.Channel = 1
	case 'Y':
		c.Action = ActionAllOn
	case 'y':
		c.Action = ActionAllOff
	case 'Z':
		c.Action = ActionStatus
	case 'z':
		c.Action = ActionPing
	default:
		c.Action = ActionUnknown
	}
	return c
}
