package protocol

import "github.com/rebornclient/reborn-go/internal/net/packet"

// ReadAllProps decodes every (prop_id, value) pair in a PLAYER_PROPS or
// OTHER_PLAYER_PROPS sub-packet body. A malformed trailing prop stops
// decoding and returns what was parsed so far plus the error; callers drop
// the sub-packet and continue at the frame level rather than treating this
// as fatal.
func ReadAllProps(r *packet.Reader) ([]Prop, error) {
	var props []Prop
	for r.Remaining() > 0 {
		p, err := ReadProp(r)
		if err != nil {
			return props, err
		}
		props = append(props, p)
	}
	return props, nil
}

// WriteAllProps encodes a full batch of props into one sub-packet body,
// letting an action builder batch several property changes into a single
// outbound packet instead of sending one per change.
func WriteAllProps(id packet.OutboundID, props []Prop) []byte {
	w := packet.NewWriterWithID(id)
	for _, p := range props {
		WriteProp(w, p)
	}
	return w.Bytes()
}
