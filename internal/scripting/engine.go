// Package scripting wraps a single gopher-lua VM exposing a fixed set of
// action-builder bindings, so a host application can drive movement/chat/
// combat macros from user-editable Lua instead of recompiled Go.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/rebornclient/reborn-go/internal/world"
)

// ActionAPI is the subset of Client a macro script can drive. No world-state
// read access is exposed: scripts fire actions, they don't query state.
type ActionAPI interface {
	Move(dx, dy float64, dir world.Direction) error
	Say(text string) error
	DropBomb(power, timer int) error
	TakeItem(x, y float64) error
	WarpToLevel(name string, x, y float64) error
}

// Engine wraps a single gopher-lua VM. Single-goroutine access only: a host
// application should call into Engine from its own update loop, same
// goroutine each time.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua VM, binds the move/say/drop_bomb/take_item/warp
// functions against api, and loads every .lua file directly under
// scriptsDir (flat, no sub-feature directories — a macro script has nothing
// to load but its own body).
func NewEngine(scriptsDir string, api ActionAPI, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	e.bind(api)

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load macro scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) bind(api ActionAPI) {
	e.vm.SetGlobal("move", e.vm.NewFunction(func(L *lua.LState) int {
		dx := L.CheckNumber(1)
		dy := L.CheckNumber(2)
		dir := world.Direction(L.OptInt(3, int(world.DirDown)))
		if err := api.Move(float64(dx), float64(dy), dir); err != nil {
			e.log.Warn("lua move failed", zap.Error(err))
		}
		return 0
	}))
	e.vm.SetGlobal("say", e.vm.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		if err := api.Say(text); err != nil {
			e.log.Warn("lua say failed", zap.Error(err))
		}
		return 0
	}))
	e.vm.SetGlobal("drop_bomb", e.vm.NewFunction(func(L *lua.LState) int {
		power := L.OptInt(1, 1)
		timer := L.OptInt(2, 55)
		if err := api.DropBomb(power, timer); err != nil {
			e.log.Warn("lua drop_bomb failed", zap.Error(err))
		}
		return 0
	}))
	e.vm.SetGlobal("take_item", e.vm.NewFunction(func(L *lua.LState) int {
		x := L.CheckNumber(1)
		y := L.CheckNumber(2)
		if err := api.TakeItem(float64(x), float64(y)); err != nil {
			e.log.Warn("lua take_item failed", zap.Error(err))
		}
		return 0
	}))
	e.vm.SetGlobal("warp", e.vm.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		x := L.CheckNumber(2)
		y := L.CheckNumber(3)
		if err := api.WarpToLevel(name, float64(x), float64(y)); err != nil {
			e.log.Warn("lua warp failed", zap.Error(err))
		}
		return 0
	}))
}

// loadDir loads all .lua files directly under dir, skipping nested
// directories. A missing dir is not an error: a fresh install has no
// macros yet.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded macro script", zap.String("file", path))
	}
	return nil
}

// RunString executes src as a one-off macro body, e.g. a snippet typed into
// an in-game console.
func (e *Engine) RunString(src string) error {
	return e.vm.DoString(src)
}

// CallMacro invokes a named zero-argument Lua function previously defined by
// a loaded script (e.g. a script defines function patrol() ... end, and the
// host calls CallMacro("patrol") on a keybind or timer).
func (e *Engine) CallMacro(name string) error {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return fmt.Errorf("scripting: macro %q not defined", name)
	}
	return e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
