package protocol

import (
	"fmt"

	"github.com/rebornclient/reborn-go/internal/net/packet"
)

// propKind says how a given PLAYER_PROPS property id is encoded on the
// wire. Unrecognized ids are read as opaque length-prefixed byte strings so
// new server props degrade gracefully.
type propKind int

const (
	kindGChar propKind = iota
	kindGShort
	kindGInt3
	kindString
	kindNullTermString
	kindSignedMulti // X2/Y2: signed via a fixed offset bias, GInt4 (big-endian base-224), half-tile units
)

var propKindTable = map[packet.PropID]propKind{
	packet.PropNickname:    kindString,
	packet.PropMaxHearts:   kindGChar,
	packet.PropCurHearts:   kindGChar,
	packet.PropRupees:      kindGInt3,
	packet.PropArrows:      kindGChar,
	packet.PropBombs:       kindGChar,
	packet.PropGani:        kindString,
	packet.PropHeadImage:   kindString,
	packet.PropCurChat:     kindString,
	packet.PropColors:      kindGInt3,
	packet.PropId:          kindGShort,
	packet.PropSprite:      kindGChar,
	packet.PropStatus:      kindGChar,
	packet.PropCarrySprite: kindString,
	packet.PropX:           kindGChar,
	packet.PropY:           kindGChar,
	packet.PropBodyImage:   kindString,
	packet.PropShieldImage: kindString,
	packet.PropSwordImage:  kindString,
	packet.PropKeys:        kindGChar,
	packet.PropGmapLevelX:  kindGChar,
	packet.PropGmapLevelY:  kindGChar,
	packet.PropX2:          kindSignedMulti,
	packet.PropY2:          kindSignedMulti,
	packet.PropAdminFlag:   kindGChar,
}

// Prop is one decoded (or to-be-encoded) PLAYER_PROPS field.
type Prop struct {
	ID  packet.PropID
	Str string // valid when the kind is string-shaped
	Num int    // valid otherwise
	Raw []byte // valid only for unrecognized prop ids
}

// ReadProp reads one (prop_id, value) pair from r, dispatching on the
// encoding table. Unknown prop ids are read as a length-prefixed opaque
// byte string so a future server prop never breaks decoding.
func ReadProp(r *packet.Reader) (Prop, error) {
	id, err := r.GChar()
	if err != nil {
		return Prop{}, err
	}
	pid := packet.PropID(id)

	kind, known := propKindTable[pid]
	if !known {
		n, err := r.GChar()
		if err != nil {
			return Prop{}, err
		}
		raw, err := r.Bytes(n)
		if err != nil {
			return Prop{}, err
		}
		return Prop{ID: pid, Raw: raw}, nil
	}

	switch kind {
	case kindGChar:
		v, err := r.GChar()
		return Prop{ID: pid, Num: v}, err
	case kindGShort:
		v, err := r.GShort()
		return Prop{ID: pid, Num: v}, err
	case kindGInt3:
		n, err := r.GChar()
		if err != nil {
			return Prop{}, err
		}
		raw, err := r.Bytes(n)
		if err != nil {
			return Prop{}, err
		}
		return Prop{ID: pid, Num: int(packet.DecodeFixed(raw))}, nil
	case kindString:
		s, err := r.GString()
		return Prop{ID: pid, Str: s}, err
	case kindNullTermString:
		s, err := r.NullTermString()
		return Prop{ID: pid, Str: s}, err
	case kindSignedMulti:
		v, err := r.GInt4()
		if err != nil {
			return Prop{}, err
		}
		return Prop{ID: pid, Num: decodeSigned(v)}, nil
	default:
		return Prop{}, fmt.Errorf("protocol: unhandled prop kind %d", kind)
	}
}

// WriteProp appends one prop to w, following the same encoding table.
func WriteProp(w *packet.Writer, p Prop) {
	w.GChar(int(p.ID))

	kind, known := propKindTable[p.ID]
	if !known {
		w.GChar(len(p.Raw))
		w.RawBytes(p.Raw)
		return
	}

	switch kind {
	case kindGChar:
		w.GChar(p.Num)
	case kindGShort:
		w.GShort(p.Num)
	case kindGInt3:
		b, err := packet.EncodeFixed(int64(p.Num), 3)
		if err == nil {
			w.GChar(len(b))
			w.RawBytes(b)
		}
	case kindString:
		w.GString(p.Str)
	case kindNullTermString:
		w.NullTermString(p.Str)
	case kindSignedMulti:
		w.GInt4(encodeSigned(p.Num))
	}
}

// encodeSigned/decodeSigned map a signed half-tile value onto the
// fixed-width unsigned GInt4 field using a zig-zag-free offset bias, since
// the field has no native sign bit.
const signedBias = 1 << 20

func encodeSigned(v int) int { return v + signedBias }
func decodeSigned(v int) int { return v - signedBias }
