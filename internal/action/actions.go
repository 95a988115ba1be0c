// Package action builds outbound sub-packet bytes for the player-facing
// client API. Every builder here is a pure function of its arguments to a
// byte slice ready for Session.Send — no network or world-state access.
package action

import (
	"github.com/rebornclient/reborn-go/internal/net/packet"
	"github.com/rebornclient/reborn-go/internal/protocol"
	"github.com/rebornclient/reborn-go/internal/world"
)

// maxChatBytes bounds a single CURCHAT/TOALL string once Latin-1 encoded.
const maxChatBytes = 223

// PropBatch accumulates PLAYER_PROPS field writes so several property
// changes issued in the same reducer tick coalesce into one sub-packet
// instead of one PLAYER_PROPS per field.
type PropBatch struct {
	props []protocol.Prop
}

// NewPropBatch returns an empty batch.
func NewPropBatch() *PropBatch {
	return &PropBatch{}
}

// Empty reports whether any field has been queued.
func (b *PropBatch) Empty() bool {
	return len(b.props) == 0
}

// Bytes encodes the queued fields into a single PLAYER_PROPS sub-packet, or
// nil if nothing was queued.
func (b *PropBatch) Bytes() []byte {
	if b.Empty() {
		return nil
	}
	return protocol.WriteAllProps(packet.OUTPlayerProps, b.props)
}

// Reset clears the batch for reuse.
func (b *PropBatch) Reset() {
	b.props = b.props[:0]
}

func (b *PropBatch) add(id packet.PropID, num int, str string) *PropBatch {
	b.props = append(b.props, protocol.Prop{ID: id, Num: num, Str: str})
	return b
}

// SetPos queues the X/Y position fields, in wire half-tile units.
func (b *PropBatch) SetPos(x, y float64) *PropBatch {
	b.add(packet.PropX, int(x*2), "")
	b.add(packet.PropY, int(y*2), "")
	return b
}

// SetDir queues a sprite value whose low 2 bits carry the facing direction.
func (b *PropBatch) SetDir(dir world.Direction) *PropBatch {
	return b.add(packet.PropSprite, int(dir)&0x3, "")
}

// SetNickname queues the player's display nickname.
func (b *PropBatch) SetNickname(name string) *PropBatch {
	return b.add(packet.PropNickname, 0, name)
}

// SetChat queues the player's chat bubble text, truncated to fit a gchar
// length prefix.
func (b *PropBatch) SetChat(msg string) *PropBatch {
	return b.add(packet.PropCurChat, 0, truncateLatin1(msg, maxChatBytes))
}

// SetGani queues the player's current animation name.
func (b *PropBatch) SetGani(name string) *PropBatch {
	return b.add(packet.PropGani, 0, name)
}

// SetHeadImage queues the player's head image file.
func (b *PropBatch) SetHeadImage(img string) *PropBatch {
	return b.add(packet.PropHeadImage, 0, img)
}

// SetBodyImage queues the player's body image file.
func (b *PropBatch) SetBodyImage(img string) *PropBatch {
	return b.add(packet.PropBodyImage, 0, img)
}

// SetShieldImage queues the player's shield image file.
func (b *PropBatch) SetShieldImage(img string) *PropBatch {
	return b.add(packet.PropShieldImage, 0, img)
}

// SetSwordImage queues the player's sword image file.
func (b *PropBatch) SetSwordImage(img string) *PropBatch {
	return b.add(packet.PropSwordImage, 0, img)
}

// SetCarrySprite queues the carried-object sprite name (e.g. a bush or pot).
func (b *PropBatch) SetCarrySprite(name string) *PropBatch {
	return b.add(packet.PropCarrySprite, 0, name)
}

func truncateLatin1(s string, max int) string {
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// MoveTo builds a one-shot PLAYER_PROPS sub-packet setting position and
// direction. Callers issuing several property changes in the same tick
// should use PropBatch instead to coalesce them.
func MoveTo(x, y float64, dir world.Direction) []byte {
	return NewPropBatch().SetPos(x, y).SetDir(dir).Bytes()
}

// Say sets the chat bubble via a single-field PLAYER_PROPS sub-packet.
func Say(msg string) []byte {
	return NewPropBatch().SetChat(msg).Bytes()
}

// DropBomb builds a BOMB_ADD sub-packet at the given tile position.
// power is 1..3, timer is in server ticks before detonation.
func DropBomb(x, y float64, power, timer int) []byte {
	w := packet.NewWriterWithID(packet.OUTBombAdd)
	w.GChar(int(x * 2))
	w.GChar(int(y * 2))
	w.GChar(power)
	w.GChar(timer)
	return w.Bytes()
}

// ShootArrow builds an ARROW_ADD sub-packet fired from the given tile
// position in the given direction.
func ShootArrow(x, y float64, dir world.Direction) []byte {
	w := packet.NewWriterWithID(packet.OUTArrowAdd)
	w.GChar(int(x * 2))
	w.GChar(int(y * 2))
	w.GChar(int(dir) & 0x3)
	return w.Bytes()
}

// Attack builds a basic weapon-swing (SHOOT) sub-packet carrying no payload
// beyond the opcode; the server derives position and facing from the
// player's last known PLAYER_PROPS state.
func Attack() []byte {
	return packet.NewWriterWithID(packet.OUTShoot).Bytes()
}

// TakeItem builds an ITEM_TAKE sub-packet for the ground item at (x, y).
func TakeItem(x, y float64) []byte {
	w := packet.NewWriterWithID(packet.OUTItemTake)
	w.GChar(int(x))
	w.GChar(int(y))
	return w.Bytes()
}

// OpenChest builds an OPEN_CHEST sub-packet for the chest at (x, y).
func OpenChest(x, y int) []byte {
	w := packet.NewWriterWithID(packet.OUTOpenChest)
	w.GChar(x)
	w.GChar(y)
	return w.Bytes()
}

// RequestFile builds a WANT_FILE sub-packet asking the server to send name.
func RequestFile(name string) []byte {
	w := packet.NewWriterWithID(packet.OUTWantFile)
	w.GString(name)
	return w.Bytes()
}

// WarpToLevel builds a LEVEL_WARP sub-packet requesting a warp to the named
// level at local tile coordinates (x, y).
func WarpToLevel(name string, x, y float64) []byte {
	w := packet.NewWriterWithID(packet.OUTLevelWarp)
	w.GChar(int(x * 2))
	w.GChar(int(y * 2))
	w.GString(name)
	return w.Bytes()
}

// SayToAll builds a TO_ALL sub-packet broadcasting msg to every player in
// the current level.
func SayToAll(msg string) []byte {
	w := packet.NewWriterWithID(packet.OUTToAll)
	w.GString(truncateLatin1(msg, maxChatBytes))
	return w.Bytes()
}

// PrivateMessage builds a PRIVATE_MESSAGE sub-packet addressed to playerID.
func PrivateMessage(playerID int, msg string) []byte {
	w := packet.NewWriterWithID(packet.OUTPrivateMessage)
	w.GShort(playerID)
	w.GString(truncateLatin1(msg, maxChatBytes))
	return w.Bytes()
}
