// Package comm implements the keypad command protocol.
package comm

// The protocol runs between a host and the keypad over any channel
// that delivers whole packets (tty with gap framing, websocket, MQTT).
// Every request is one 10-byte frame:
//
//	[command:1][payload:8][0x80]
//
// and is answered by exactly one frame, an Ack echoing the request or a
// NACK naming the failure. Frames are independent; there is no session.
// DeviceReset is acknowledged before the keypad restarts.
//
// Producer: host (padctl)
// Consumer: keypad (keypadd)
