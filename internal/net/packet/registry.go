package packet

import (
	"fmt"

	"go.uber.org/zap"
)

// HandlerFunc processes one decoded sub-packet body for id. ctx is an
// opaque session/reducer handle (typed by the caller, kept as `any` here to
// avoid an import cycle between packet and protocol/world).
type HandlerFunc func(ctx any, r *Reader)

type handlerEntry struct {
	fn            HandlerFunc
	allowedStates map[int]bool // empty => allowed in every state
}

// Registry maps inbound opcodes to handlers, optionally gated by session
// state.
type Registry struct {
	handlers map[InboundID]*handlerEntry
	log      *zap.Logger
}

// NewRegistry creates an empty registry. log may be nil (a no-op logger is
// substituted).
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{handlers: make(map[InboundID]*handlerEntry), log: log}
}

// Register maps id to fn. If states is non-empty, Dispatch refuses to call
// fn unless the caller's current state (passed to Dispatch) is one of them.
func (reg *Registry) Register(id InboundID, states []int, fn HandlerFunc) {
	allowed := make(map[int]bool, len(states))
	for _, s := range states {
		allowed[s] = true
	}
	reg.handlers[id] = &handlerEntry{fn: fn, allowedStates: allowed}
}

// Dispatch decodes the opcode from body[0], looks up a handler, and invokes
// it with the remaining bytes. Unknown opcodes are logged at debug and
// otherwise ignored. A handler panic is recovered so
// one malformed sub-packet cannot end the session.
func (reg *Registry) Dispatch(ctx any, state int, body []byte) error {
	if len(body) == 0 {
		return fmt.Errorf("packet: empty sub-packet")
	}
	id := InboundID(DecodeGChar(body[0]))

	entry, ok := reg.handlers[id]
	if !ok {
		reg.log.Debug("unknown packet id", zap.Int("id", int(id)), zap.Int("size", len(body)))
		return nil
	}
	if len(entry.allowedStates) > 0 && !entry.allowedStates[state] {
		reg.log.Debug("packet id not allowed in current state",
			zap.Int("id", int(id)), zap.Int("state", state))
		return nil
	}

	r := NewReader(body[1:])
	return reg.safeCall(entry.fn, ctx, r, id)
}

func (reg *Registry) safeCall(fn HandlerFunc, ctx any, r *Reader, id InboundID) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered", zap.Int("id", int(id)), zap.Any("panic", rec))
			err = fmt.Errorf("packet: handler panic for id %d: %v", id, rec)
		}
	}()
	fn(ctx, r)
	return nil
}
