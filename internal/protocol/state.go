// Package protocol defines the session states, client types, and the
// player-property encoding table. The login handshake itself is in
// internal/net (Session.Handshake).
package protocol

import "fmt"

// State is the session's current protocol phase.
type State int

const (
	Disconnected State = iota
	Connecting
	Handshaking
	LoggedIn
	RcMode
	Closing
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case Handshaking:
		return "Handshaking"
	case LoggedIn:
		return "LoggedIn"
	case RcMode:
		return "RcMode"
	case Closing:
		return "Closing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ClientType is advertised in the version packet at handshake.
// RC clients use a distinct value to request the RC packet family.
type ClientType byte

const (
	ClientTypePlayer ClientType = 1
	ClientTypeRC     ClientType = 6
)
