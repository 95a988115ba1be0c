package packet

// Splitter turns one decoded frame payload into a sequence of sub-packet
// bodies, honoring the RAW_DATA priming rule: a RAW_DATA sub-packet's body
// is a GUInt byte count N, and the next N bytes of the stream are consumed
// verbatim as a single sub-packet regardless of embedded newlines. State (a
// pending raw byte count) can span frames, so one Splitter must be reused
// across the life of a session.
type Splitter struct {
	pendingRaw int
}

// NewSplitter returns a Splitter with no raw read primed.
func NewSplitter() *Splitter {
	return &Splitter{}
}

// SubPacket is one decoded unit from a frame: either a normal
// newline-delimited sub-packet, or a raw chunk consumed under a RAW_DATA
// priming. A Raw chunk still carries an opcode byte unless it falls inside
// an active large-file transfer, in which case the caller routes it
// straight to file reassembly instead of the opcode dispatcher.
type SubPacket struct {
	Body []byte
	Raw  bool
}

// Split appends every sub-packet found in frame to out and returns the
// extended slice.
func (s *Splitter) Split(frame []byte, out []SubPacket) []SubPacket {
	i := 0
	for i < len(frame) {
		if s.pendingRaw > 0 {
			n := s.pendingRaw
			if i+n > len(frame) {
				n = len(frame) - i
			}
			out = append(out, SubPacket{Body: frame[i : i+n], Raw: true})
			i += n
			s.pendingRaw -= n
			continue
		}

		j := i
		for j < len(frame) && frame[j] != '\n' {
			j++
		}
		sub := frame[i:j]
		out = append(out, SubPacket{Body: sub})
		i = j + 1

		if len(sub) >= 1 && InboundID(DecodeGChar(sub[0])) == INRawData {
			if n, ok := decodeRawDataLen(sub[1:]); ok {
				s.pendingRaw = n
			}
		}
	}
	return out
}

func decodeRawDataLen(body []byte) (int, bool) {
	if len(body) == 0 {
		return 0, false
	}
	return int(DecodeGUInt(body)), true
}
