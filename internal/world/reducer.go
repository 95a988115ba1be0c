package world

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rebornclient/reborn-go/internal/event"
	"github.com/rebornclient/reborn-go/internal/net/packet"
	"github.com/rebornclient/reborn-go/internal/protocol"
)

// Reducer is the single mutation point for all world state. Handlers run on
// the session's reader goroutine; mu guards every field below so Snapshot
// (and the few Client actions that read live position) can be called from
// any other goroutine without racing the reader.
type Reducer struct {
	log *zap.Logger
	bus *event.Bus

	mu sync.RWMutex

	Local  *Player
	Others map[int32]*Player

	cache   *SegmentCache
	Current *Level

	GMap    *GMap
	Effects *Effects

	fileBuf    map[string][]byte
	fileTotal  map[string]int
	activeFile string
}

// NewReducer returns a reducer for a session logging in as localID/account.
func NewReducer(log *zap.Logger, bus *event.Bus, localID int32, account string) *Reducer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reducer{
		log:       log,
		bus:       bus,
		Local:     NewPlayer(localID, account),
		Others:    make(map[int32]*Player),
		cache:     NewSegmentCache(32),
		GMap:      nil,
		Effects:   NewEffects(),
		fileBuf:   make(map[string][]byte),
		fileTotal: make(map[string]int),
	}
}

// SetAccount sets the local player's account name. Used once, right after
// Login sends credentials, before any packet handler has touched Local.
func (rd *Reducer) SetAccount(account string) {
	rd.mu.Lock()
	rd.Local.Account = account
	rd.mu.Unlock()
}

// RegisterHandlers wires every inbound packet id this reducer understands
// into reg, gated to the states they are legal in.
func (rd *Reducer) RegisterHandlers(reg *packet.Registry) {
	live := []int{int(protocol.LoggedIn), int(protocol.RcMode)}

	reg.Register(packet.INPlayerProps, live, func(_ any, r *packet.Reader) { rd.handlePlayerProps(r) })
	reg.Register(packet.INOtherPlayerProps, live, func(_ any, r *packet.Reader) { rd.handleOtherPlayerProps(r) })
	reg.Register(packet.INLevelName, live, func(_ any, r *packet.Reader) { rd.handleLevelName(r) })
	reg.Register(packet.INLevelBoard, live, func(_ any, r *packet.Reader) { rd.handleLevelBoard(r) })
	reg.Register(packet.INBoardModify, live, func(_ any, r *packet.Reader) { rd.handleBoardModify(r) })
	reg.Register(packet.INLevelLink, live, func(_ any, r *packet.Reader) { rd.handleLevelLink(r) })
	reg.Register(packet.INLevelSign, live, func(_ any, r *packet.Reader) { rd.handleLevelSign(r) })
	reg.Register(packet.INLevelChest, live, func(_ any, r *packet.Reader) { rd.handleLevelChest(r) })
	reg.Register(packet.INNpcProps, live, func(_ any, r *packet.Reader) { rd.handleNpcProps(r) })
	reg.Register(packet.INNpcMoved, live, func(_ any, r *packet.Reader) { rd.handleNpcMoved(r) })
	reg.Register(packet.INNpcDel, live, func(_ any, r *packet.Reader) { rd.handleNpcDel(r) })
	reg.Register(packet.INBombAdd, live, func(_ any, r *packet.Reader) { rd.handleBombAdd(r) })
	reg.Register(packet.INBombDel, live, func(_ any, r *packet.Reader) { rd.handleBombDel(r) })
	reg.Register(packet.INExplosion, live, func(_ any, r *packet.Reader) { rd.handleExplosion(r) })
	reg.Register(packet.INArrowAdd, live, func(_ any, r *packet.Reader) { rd.handleArrowAdd(r) })
	reg.Register(packet.INShowImg, live, func(_ any, r *packet.Reader) { rd.handleShowImg(r) })
	reg.Register(packet.INToAll, live, func(_ any, r *packet.Reader) { rd.handleToAll(r) })
	reg.Register(packet.INLargeFileStart, live, func(_ any, r *packet.Reader) { rd.handleLargeFileStart(r) })
	reg.Register(packet.INLargeFileEnd, live, func(_ any, r *packet.Reader) { rd.handleLargeFileEnd(r) })

	signature := []int{int(protocol.Handshaking)}
	reg.Register(packet.INSignature, signature, func(_ any, r *packet.Reader) { rd.handleSignature(r) })
}

// wireToLocalTile converts a PLAYER_PROPS position field (half-tile units:
// the wire value is tile position times two) into tiles.
func wireToLocalTile(v int) float64 { return float64(v) / 2 }

func localTileToWire(v float64) int { return int(v * 2) }

// handlePlayerProps applies a batch of (prop_id, value) pairs to the local
// player. Server-origin direction is discarded so local prediction never
// snaps back.
func (rd *Reducer) handlePlayerProps(r *packet.Reader) {
	props, _ := protocol.ReadAllProps(r)

	rd.mu.Lock()
	chats := rd.applyProps(rd.Local, props, true)
	rd.mu.Unlock()

	for _, c := range chats {
		event.Emit(rd.bus, c)
	}
	event.Emit(rd.bus, event.PlayerPropsUpdate{})
}

// handleOtherPlayerProps applies a props batch to a remote player, creating
// it on first sight.
func (rd *Reducer) handleOtherPlayerProps(r *packet.Reader) {
	id, err := r.GShort()
	if err != nil {
		return
	}
	props, _ := protocol.ReadAllProps(r)

	rd.mu.Lock()
	p, existed := rd.Others[int32(id)]
	if !existed {
		p = NewPlayer(int32(id), "")
		rd.Others[int32(id)] = p
	}
	chats := rd.applyProps(p, props, false)
	rd.mu.Unlock()

	for _, c := range chats {
		event.Emit(rd.bus, c)
	}
	if !existed {
		event.Emit(rd.bus, event.PlayerAdded{ID: int32(id)})
	} else {
		event.Emit(rd.bus, event.OtherPlayerUpdate{ID: int32(id)})
	}
}

// applyProps is the shared prop-application path for the local and remote
// player cases; discardDirection is true only for the local player. Caller
// must hold rd.mu. Chat events are returned rather than emitted here so the
// caller can emit them after releasing the lock.
func (rd *Reducer) applyProps(p *Player, props []protocol.Prop, discardDirection bool) []event.ChatMessage {
	var chats []event.ChatMessage
	for _, prop := range props {
		switch prop.ID {
		case packet.PropNickname:
			p.Nickname = prop.Str
		case packet.PropCurChat:
			p.Chat = prop.Str
			chats = append(chats, event.ChatMessage{PlayerID: p.ID, Message: prop.Str})
		case packet.PropMaxHearts:
			p.MaxHearts = prop.Num
		case packet.PropCurHearts:
			p.Hearts = prop.Num
		case packet.PropRupees:
			p.Rupees = prop.Num
		case packet.PropArrows:
			p.Arrows = prop.Num
		case packet.PropBombs:
			p.Bombs = prop.Num
		case packet.PropKeys:
			p.Keys = prop.Num
		case packet.PropGani:
			p.Gani = prop.Str
		case packet.PropHeadImage:
			p.Head = prop.Str
		case packet.PropBodyImage:
			p.Body = prop.Str
		case packet.PropSwordImage:
			p.Sword = prop.Str
		case packet.PropShieldImage:
			p.Shield = prop.Str
		case packet.PropCarrySprite:
			p.Carried = prop.Str
		case packet.PropAdminFlag:
			p.Admin = prop.Num != 0
		case packet.PropGmapLevelX:
			p.GmapLevelX = prop.Num
		case packet.PropGmapLevelY:
			p.GmapLevelY = prop.Num
		case packet.PropSprite:
			// direction is packed into the low 2 bits of the sprite value;
			// for the local player it is discarded so local prediction never
			// snaps back.
			if !discardDirection {
				p.Dir = Direction(prop.Num % 4)
			}
		case packet.PropX:
			p.SetLocalPos(wireToLocalTile(prop.Num), p.Y)
		case packet.PropY:
			p.SetLocalPos(p.X, wireToLocalTile(prop.Num))
		case packet.PropX2:
			p.X2 = float64(prop.Num) / 2
		case packet.PropY2:
			p.Y2 = float64(prop.Num) / 2
		default:
			if p.Extra == nil {
				p.Extra = make(map[byte][]byte)
			}
			p.Extra[byte(prop.ID)] = prop.Raw
		}
	}
	return chats
}

// handleSignature marks the login handshake as accepted by the server. It
// carries no fields the reducer needs to store; its only job is to tell the
// caller the session may now move from Handshaking to LoggedIn.
func (rd *Reducer) handleSignature(r *packet.Reader) {
	rd.mu.RLock()
	id, account := rd.Local.ID, rd.Local.Account
	rd.mu.RUnlock()
	event.Emit(rd.bus, event.LoggedIn{PlayerID: id, Account: account})
}

// handleLevelName swaps the current-level pointer atomically and, if the
// new name is a GMAP segment different from the active one, runs the
// segment-transition logic.
func (rd *Reducer) handleLevelName(r *packet.Reader) {
	name, err := r.GString()
	if err != nil {
		return
	}
	rd.mu.Lock()
	rd.enterLevel(name)
	rd.mu.Unlock()
	event.Emit(rd.bus, event.LevelEntered{Name: name})
}

// enterLevel installs name as the current level, consulting the segment
// cache before allocating a new one so revisited GMAP segments don't grow
// the live set without bound. Caller must hold rd.mu.
func (rd *Reducer) enterLevel(name string) {
	lvl, ok := rd.cache.Get(name)
	if !ok {
		lvl = NewLevel(name)
	}
	rd.cache.Put(name, lvl)
	rd.Current = lvl
	rd.Local.Level = name

	if rd.GMap != nil {
		if base, col, row, isSeg := ParseSegmentName(name); isSeg {
			_ = base
			rd.GMap.RecordSegment(name, col, row)
			rd.GMap.Active = name
			rd.GMap.MarkLoaded(name)
			rd.Local.EnterGmap(col, row)
			rd.requestPrefetch()
		} else {
			rd.Local.LeaveGmap()
		}
	}
}

// requestPrefetch returns the not-yet-loaded segments in the active
// segment's 3×3 window. It marks nothing as requested and sends no file
// request; both callers in this package discard the list, so no prefetch
// request is issued. Caller must hold rd.mu.
func (rd *Reducer) requestPrefetch() []string {
	if rd.GMap == nil {
		return nil
	}
	return rd.GMap.PrefetchWindow(rd.GMap.Active)
}

// handleLevelBoard installs a full 8192-byte board (4096 tiles × 2 bytes
// little-endian) into the current level.
func (rd *Reducer) handleLevelBoard(r *packet.Reader) {
	raw := r.Rest()
	if len(raw) < BoardTiles*2 {
		return
	}
	tiles := make([]uint16, BoardTiles)
	for i := 0; i < BoardTiles; i++ {
		tiles[i] = uint16(raw[i*2]) | uint16(raw[i*2+1])<<8
	}

	rd.mu.Lock()
	if rd.Current == nil {
		rd.mu.Unlock()
		return
	}
	if err := rd.Current.SetBoard(tiles); err != nil {
		rd.mu.Unlock()
		rd.log.Debug("level board rejected", zap.Error(err))
		return
	}
	if rd.GMap != nil {
		rd.GMap.MarkLoaded(rd.Current.Name)
	}
	name := rd.Current.Name
	rd.mu.Unlock()

	event.Emit(rd.bus, event.LevelBoardLoaded{Name: name})
}

// handleBoardModify patches a tile rectangle.
func (rd *Reducer) handleBoardModify(r *packet.Reader) {
	x, err1 := r.GChar()
	y, err2 := r.GChar()
	w, err3 := r.GChar()
	h, err4 := r.GChar()
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return
	}
	raw := r.Rest()
	tiles := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		tiles = append(tiles, uint16(raw[i])|uint16(raw[i+1])<<8)
	}

	rd.mu.Lock()
	defer rd.mu.Unlock()
	if rd.Current == nil {
		return
	}
	rd.Current.ModifyBoard(x, y, w, h, tiles)
}

func (rd *Reducer) handleLevelLink(r *packet.Reader) {
	x, _ := r.GChar()
	y, _ := r.GChar()
	w, _ := r.GChar()
	h, _ := r.GChar()
	dest, err := r.GString()
	if err != nil {
		return
	}
	dx, _ := r.GChar()
	dy, _ := r.GChar()

	rd.mu.Lock()
	defer rd.mu.Unlock()
	if rd.Current == nil {
		return
	}
	rd.Current.UpsertLink(Link{X: x, Y: y, Width: w, Height: h, DestLevel: dest, DestX: float64(dx), DestY: float64(dy)})
}

func (rd *Reducer) handleLevelSign(r *packet.Reader) {
	x, _ := r.GChar()
	y, _ := r.GChar()
	text, err := r.GString()
	if err != nil {
		return
	}

	rd.mu.Lock()
	defer rd.mu.Unlock()
	if rd.Current == nil {
		return
	}
	rd.Current.UpsertSign(x, y, text)
}

func (rd *Reducer) handleLevelChest(r *packet.Reader) {
	x, _ := r.GChar()
	y, _ := r.GChar()
	item, _ := r.GChar()
	sign, err := r.GString()
	if err != nil {
		return
	}

	rd.mu.Lock()
	defer rd.mu.Unlock()
	if rd.Current == nil {
		return
	}
	rd.Current.UpsertChest(x, y, item, sign)
}

func (rd *Reducer) handleNpcProps(r *packet.Reader) {
	id, err := r.GUInt()
	if err != nil {
		return
	}

	rd.mu.Lock()
	if rd.Current == nil {
		rd.mu.Unlock()
		return
	}
	npc, ok := rd.Current.NPCs[int32(id)]
	if !ok {
		npc = &NPC{ID: int32(id), Extra: make(map[byte][]byte)}
		rd.Current.NPCs[int32(id)] = npc
	}
	for r.Remaining() > 0 {
		pid, err := r.GChar()
		if err != nil {
			break
		}
		n, err := r.GChar()
		if err != nil {
			break
		}
		raw, err := r.Bytes(n)
		if err != nil {
			break
		}
		switch packet.PropID(pid) {
		case packet.PropX:
			npc.X = wireToLocalTile(decodeByteInt(raw))
		case packet.PropY:
			npc.Y = wireToLocalTile(decodeByteInt(raw))
		case packet.PropGani:
			npc.Gani = string(raw)
		default:
			npc.Extra[byte(pid)] = raw
		}
	}
	rd.mu.Unlock()

	event.Emit(rd.bus, event.NpcAdded{ID: int32(id)})
}

func decodeByteInt(raw []byte) float64 {
	if len(raw) == 0 {
		return 0
	}
	return float64(raw[0])
}

func (rd *Reducer) handleNpcMoved(r *packet.Reader) {
	id, err := r.GUInt()
	if err != nil {
		return
	}
	x, err1 := r.GChar()
	y, err2 := r.GChar()
	if err1 != nil || err2 != nil {
		return
	}

	rd.mu.Lock()
	if rd.Current == nil {
		rd.mu.Unlock()
		return
	}
	npc, ok := rd.Current.NPCs[int32(id)]
	if !ok {
		rd.mu.Unlock()
		return
	}
	npc.X, npc.Y = wireToLocalTile(x), wireToLocalTile(y)
	rd.mu.Unlock()

	event.Emit(rd.bus, event.NpcMoved{ID: int32(id)})
}

func (rd *Reducer) handleNpcDel(r *packet.Reader) {
	id, err := r.GUInt()
	if err != nil {
		return
	}

	rd.mu.Lock()
	if rd.Current == nil {
		rd.mu.Unlock()
		return
	}
	delete(rd.Current.NPCs, int32(id))
	rd.mu.Unlock()

	event.Emit(rd.bus, event.NpcRemoved{ID: int32(id)})
}

func (rd *Reducer) handleBombAdd(r *packet.Reader) {
	x, err1 := r.GChar()
	y, err2 := r.GChar()
	power, err3 := r.GChar()
	timer, err4 := r.GChar()
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return
	}
	id := rd.Effects.Add(Effect{
		Kind:   EffectBomb,
		X:      wireToLocalTile(x),
		Y:      wireToLocalTile(y),
		Power:  power,
		Expiry: time.Now().Add(time.Duration(timer) * 100 * time.Millisecond),
	})
	event.Emit(rd.bus, event.BombAdded{ID: id})
}

func (rd *Reducer) handleBombDel(r *packet.Reader) {
	x, err1 := r.GChar()
	y, err2 := r.GChar()
	if err1 != nil || err2 != nil {
		return
	}
	_ = x
	_ = y
	// bomb removal by position: drop the first bomb at exactly that position.
	for _, eff := range rd.Effects.Snapshot() {
		if eff.Kind == EffectBomb && int(eff.X*2) == x && int(eff.Y*2) == y {
			rd.Effects.Remove(eff.ID)
			event.Emit(rd.bus, event.BombExploded{ID: eff.ID})
			return
		}
	}
}

func (rd *Reducer) handleExplosion(r *packet.Reader) {
	x, _ := r.GChar()
	y, _ := r.GChar()
	id := rd.Effects.Add(Effect{
		Kind:   EffectExplosion,
		X:      wireToLocalTile(x),
		Y:      wireToLocalTile(y),
		Expiry: time.Now().Add(DefaultEffectTTL),
	})
	event.Emit(rd.bus, event.BombExploded{ID: id})
}

func (rd *Reducer) handleArrowAdd(r *packet.Reader) {
	x, _ := r.GChar()
	y, _ := r.GChar()
	rd.Effects.Add(Effect{
		Kind:   EffectArrow,
		X:      wireToLocalTile(x),
		Y:      wireToLocalTile(y),
		Expiry: time.Now().Add(DefaultEffectTTL),
	})
}

func (rd *Reducer) handleShowImg(r *packet.Reader) {
	image, err := r.GString()
	if err != nil {
		return
	}
	x, _ := r.GChar()
	y, _ := r.GChar()
	rd.Effects.Add(Effect{
		Kind:   EffectShowImg,
		Image:  image,
		X:      wireToLocalTile(x),
		Y:      wireToLocalTile(y),
		Expiry: time.Now().Add(DefaultEffectTTL),
	})
}

func (rd *Reducer) handleToAll(r *packet.Reader) {
	msg, err := r.GString()
	if err != nil {
		return
	}
	rd.mu.RLock()
	id := rd.Local.ID
	rd.mu.RUnlock()
	event.Emit(rd.bus, event.ChatMessage{PlayerID: id, Message: msg})
}

func (rd *Reducer) handleLargeFileStart(r *packet.Reader) {
	name, err := r.GString()
	if err != nil {
		return
	}
	rd.mu.Lock()
	rd.fileBuf[name] = rd.fileBuf[name][:0]
	rd.activeFile = name
	rd.mu.Unlock()
}

func (rd *Reducer) handleLargeFileEnd(r *packet.Reader) {
	name, err := r.GString()
	if err != nil {
		return
	}
	rd.mu.Lock()
	buf := rd.fileBuf[name]
	delete(rd.fileBuf, name)
	delete(rd.fileTotal, name)
	if rd.activeFile == name {
		rd.activeFile = ""
	}
	rd.mu.Unlock()
	event.Emit(rd.bus, event.FileReceived{Name: name, Bytes: buf})
}

// ActiveFileTransfer reports the file currently being reassembled, if any
// (implements net.RawFileSink).
func (rd *Reducer) ActiveFileTransfer() (string, bool) {
	rd.mu.RLock()
	defer rd.mu.RUnlock()
	return rd.activeFile, rd.activeFile != ""
}

// AppendFileChunk feeds one chunk of a large-file transfer already in
// progress (bracketed by LARGE_FILE_START/END) into the reassembly buffer.
// The session's reader loop calls this directly for RAW_DATA-primed chunks
// while a transfer is active, bypassing the opcode dispatcher since file
// bytes are not a sub-packet (implements net.RawFileSink).
func (rd *Reducer) AppendFileChunk(name string, chunk []byte) {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	rd.fileBuf[name] = append(rd.fileBuf[name], chunk...)
}

// AttachGMap installs the GMAP engine once a ".gmap" file has been parsed
// and the client knows it is about to enter a GMAP-backed level.
func (rd *Reducer) AttachGMap(g *GMap) {
	rd.mu.Lock()
	defer rd.mu.Unlock()
	rd.GMap = g
}

// Move applies an optimistic local position update and returns whether it
// crossed a GMAP segment boundary. Callers still send the
// corresponding PLAYER_PROPS/LEVEL_WARP action. Safe to call from any
// goroutine: the whole read-modify-write runs under rd.mu.
func (rd *Reducer) Move(x, y float64, dir Direction) (Crossing, bool) {
	rd.mu.Lock()
	crossing, crossed, entered := rd.moveLocked(x, y, dir)
	rd.mu.Unlock()

	if entered != "" {
		event.Emit(rd.bus, event.LevelEntered{Name: entered})
	}
	return crossing, crossed
}

// MoveBy applies a position delta relative to the current local position,
// reading and writing it atomically under rd.mu so callers never need to
// read Local.X/Y themselves. Returns the resulting absolute position
// alongside Move's usual crossing result.
func (rd *Reducer) MoveBy(dx, dy float64, dir Direction) (crossing Crossing, crossed bool, x, y float64) {
	rd.mu.Lock()
	x = rd.Local.X + dx
	y = rd.Local.Y + dy
	var entered string
	crossing, crossed, entered = rd.moveLocked(x, y, dir)
	x, y = rd.Local.X, rd.Local.Y
	rd.mu.Unlock()

	if entered != "" {
		event.Emit(rd.bus, event.LevelEntered{Name: entered})
	}
	return crossing, crossed, x, y
}

// moveLocked is Move's body; caller must hold rd.mu. Returns the name of a
// newly entered level, if a segment crossing occurred, so the caller can
// emit LevelEntered after releasing the lock.
func (rd *Reducer) moveLocked(x, y float64, dir Direction) (Crossing, bool, string) {
	rd.Local.Dir = dir

	if rd.GMap != nil && rd.Current != nil {
		if crossing, did := rd.GMap.CheckBoundary(rd.Current.Name, x, y); did {
			if crossing.Blocked {
				return crossing, true, ""
			}
			var entered string
			if crossing.Loaded {
				rd.enterLevel(crossing.TargetLevel)
				rd.Local.SetLocalPos(crossing.LocalX, crossing.LocalY)
				entered = crossing.TargetLevel
			} else {
				rd.GMap.Active = crossing.TargetLevel
				if _, col, row, isSeg := ParseSegmentName(crossing.TargetLevel); isSeg {
					rd.Local.EnterGmap(col, row)
				}
				rd.Local.SetLocalPos(crossing.LocalX, crossing.LocalY)
			}
			rd.requestPrefetch()
			return crossing, true, entered
		}
	}

	rd.Local.SetLocalPos(x, y)
	return Crossing{}, false, ""
}

// LocalPosition returns the local player's current position and facing
// under rd.mu, for callers (action builders) that need it without going
// through the heavier Snapshot/Clone path.
func (rd *Reducer) LocalPosition() (x, y float64, dir Direction) {
	rd.mu.RLock()
	defer rd.mu.RUnlock()
	return rd.Local.X, rd.Local.Y, rd.Local.Dir
}

// Snapshot returns a deep-enough read-only copy of the local player, every
// other player, and the current level for concurrent renderer/bot readers.
type Snapshot struct {
	Local   *Player
	Others  map[int32]*Player
	Current *Level
}

func (rd *Reducer) Snapshot() Snapshot {
	rd.mu.RLock()
	defer rd.mu.RUnlock()
	others := make(map[int32]*Player, len(rd.Others))
	for id, p := range rd.Others {
		others[id] = p.Clone()
	}
	var cur *Level
	if rd.Current != nil {
		cur = rd.Current.Clone()
	}
	return Snapshot{Local: rd.Local.Clone(), Others: others, Current: cur}
}
