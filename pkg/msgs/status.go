// Package msgs defines the events a keypad publishes.
package msgs

import (
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/keypad.go/pkg/board"
	"github.com/robotalks/keypad.go/pkg/led"
)

// KeypadStatus is an event reflecting buttons and LED states.
type KeypadStatus struct {
	ID              string   `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Pressed         uint32   `protobuf:"varint,2,opt,name=pressed,proto3" json:"pressed,omitempty"`
	Locked          uint32   `protobuf:"varint,3,opt,name=locked,proto3" json:"locked,omitempty"`
	KeyboardEnabled bool     `protobuf:"varint,4,opt,name=keyboard_enabled,proto3" json:"keyboard_enabled,omitempty"`
	States          []uint32 `protobuf:"varint,5,rep,packed,name=states,proto3" json:"states,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *KeypadStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *KeypadStatus) Reset() { *m = KeypadStatus{} }

// String implements proto.Message.
func (m *KeypadStatus) String() string { return proto.CompactTextString(m) }

// StatusFrom converts a board snapshot.
func StatusFrom(id string, st board.Status) *KeypadStatus {
	m := &KeypadStatus{
		ID:              id,
		Pressed:         uint32(st.Pressed),
		Locked:          uint32(st.Locked),
		KeyboardEnabled: st.KeyboardEnabled,
		States:          make([]uint32, len(st.States)),
	}
	for i, s := range st.States {
		m.States[i] = uint32(s)
	}
	return m
}

// IsPressed tells if the button at index is pressed.
func (m *KeypadStatus) IsPressed(button int) bool {
	return m.Pressed&(1<<uint(button)) != 0
}

// IsLocked tells if the LED at index is locked.
func (m *KeypadStatus) IsLocked(index int) bool {
	return m.Locked&(1<<uint(index)) != 0
}

// State returns the governing state of the LED at index.
func (m *KeypadStatus) State(index int) led.ButtonState {
	if index < 0 || index >= len(m.States) {
		return led.Idle
	}
	return led.ButtonState(m.States[index])
}

// UnmarshalStatus decodes a status.
func UnmarshalStatus(payload []byte) (*KeypadStatus, error) {
	m := &KeypadStatus{}
	if err := proto.Unmarshal(payload, m); err != nil {
		return nil, err
	}
	return m, nil
}
