package comm

import "fmt"

// Command is the leading byte of a frame.
type Command byte

// Commands. 0x80-0x8F framing, 0x90-0x9F sync, 0xA0-0xAF device
// control, 0xB0-0xBF state mutation, 0xF0-0xFF replies and ping.
const (
	CmdEndOfStream           Command = 0x80
	CmdToBeContinued         Command = 0x81
	CmdSyncRequest           Command = 0x90
	CmdDeviceReset           Command = 0xa0
	CmdDisableKeyboardInput  Command = 0xa1
	CmdEnableKeyboardInput   Command = 0xa2
	CmdAddState              Command = 0xb0
	CmdRemoveState           Command = 0xb1
	CmdClearStates           Command = 0xb2
	CmdLockButtonState       Command = 0xb3
	CmdLockAllButtonStates   Command = 0xb4
	CmdUnlockButtonState     Command = 0xb5
	CmdUnlockAllButtonStates Command = 0xb6
	CmdNackGeneral           Command = 0xf0
	CmdNackInvalidCommand    Command = 0xf1
	CmdNackParseError        Command = 0xf2
	CmdNackDeviceError       Command = 0xf3
	CmdNackDeviceBusy        Command = 0xf4
	CmdReserved              Command = 0xf9
	CmdPing                  Command = 0xfe
	CmdAck                   Command = 0xff
)

var commandNames = map[Command]string{
	CmdEndOfStream:           "EndOfStream",
	CmdToBeContinued:         "ToBeContinued",
	CmdSyncRequest:           "SyncRequest",
	CmdDeviceReset:           "DeviceReset",
	CmdDisableKeyboardInput:  "DisableKeyboardInput",
	CmdEnableKeyboardInput:   "EnableKeyboardInput",
	CmdAddState:              "AddState",
	CmdRemoveState:           "RemoveState",
	CmdClearStates:           "ClearStates",
	CmdLockButtonState:       "LockButtonState",
	CmdLockAllButtonStates:   "LockAllButtonStates",
	CmdUnlockButtonState:     "UnlockButtonState",
	CmdUnlockAllButtonStates: "UnlockAllButtonStates",
	CmdNackGeneral:           "NackGeneral",
	CmdNackInvalidCommand:    "NackInvalidCommand",
	CmdNackParseError:        "NackParseError",
	CmdNackDeviceError:       "NackDeviceError",
	CmdNackDeviceBusy:        "NackDeviceBusy",
	CmdReserved:              "Reserved",
	CmdPing:                  "Ping",
	CmdAck:                   "Ack",
}

// String implements fmt.Stringer.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(0x%02x)", byte(c))
}

// IsNack tells if the command is one of the NACK kinds.
func (c Command) IsNack() bool {
	return c >= CmdNackGeneral && c <= CmdNackDeviceBusy
}

// IsRequest tells if the command can lead a request frame.
func (c Command) IsRequest() bool {
	switch c {
	case CmdSyncRequest, CmdDeviceReset,
		CmdDisableKeyboardInput, CmdEnableKeyboardInput,
		CmdAddState, CmdRemoveState, CmdClearStates,
		CmdLockButtonState, CmdLockAllButtonStates,
		CmdUnlockButtonState, CmdUnlockAllButtonStates,
		CmdPing:
		return true
	}
	return false
}
