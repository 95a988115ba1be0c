package scripting

import (
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/rebornclient/reborn-go/internal/world"
)

type moveCall struct {
	dx, dy float64
	dir    world.Direction
}

type bombCall struct{ power, timer int }
type takeCall struct{ x, y float64 }
type warpCall struct {
	name string
	x, y float64
}

type fakeAPI struct {
	moves   []moveCall
	said    []string
	bombs   []bombCall
	takes   []takeCall
	warps   []warpCall
	failSay bool
}

func (f *fakeAPI) Move(dx, dy float64, dir world.Direction) error {
	f.moves = append(f.moves, moveCall{dx, dy, dir})
	return nil
}

func (f *fakeAPI) Say(text string) error {
	if f.failSay {
		return errors.New("not connected")
	}
	f.said = append(f.said, text)
	return nil
}

func (f *fakeAPI) DropBomb(power, timer int) error {
	f.bombs = append(f.bombs, bombCall{power, timer})
	return nil
}

func (f *fakeAPI) TakeItem(x, y float64) error {
	f.takes = append(f.takes, takeCall{x, y})
	return nil
}

func (f *fakeAPI) WarpToLevel(name string, x, y float64) error {
	f.warps = append(f.warps, warpCall{name, x, y})
	return nil
}

func TestRunStringInvokesBoundActions(t *testing.T) {
	api := &fakeAPI{}
	e, err := NewEngine(filepath.Join(t.TempDir(), "missing"), api, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	script := `
		say("hello")
		move(1, 0, 3)
		drop_bomb(2, 55)
		take_item(10, 20)
		warp("onlinezone1.nw", 30, 31)
	`
	if err := e.RunString(script); err != nil {
		t.Fatalf("RunString: %v", err)
	}

	if len(api.said) != 1 || api.said[0] != "hello" {
		t.Fatalf("got said %v, want [hello]", api.said)
	}
	if len(api.moves) != 1 || api.moves[0].dx != 1 || api.moves[0].dir != world.DirRight {
		t.Fatalf("got moves %+v", api.moves)
	}
	if len(api.bombs) != 1 || api.bombs[0].power != 2 || api.bombs[0].timer != 55 {
		t.Fatalf("got bombs %+v", api.bombs)
	}
	if len(api.takes) != 1 || api.takes[0].x != 10 || api.takes[0].y != 20 {
		t.Fatalf("got takes %+v", api.takes)
	}
	if len(api.warps) != 1 || api.warps[0].name != "onlinezone1.nw" {
		t.Fatalf("got warps %+v", api.warps)
	}
}

func TestCallMacroRunsNamedFunction(t *testing.T) {
	api := &fakeAPI{}
	e, err := NewEngine(filepath.Join(t.TempDir(), "missing"), api, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	if err := e.RunString(`function patrol() say("patrolling") end`); err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if err := e.CallMacro("patrol"); err != nil {
		t.Fatalf("CallMacro: %v", err)
	}
	if len(api.said) != 1 || api.said[0] != "patrolling" {
		t.Fatalf("got said %v", api.said)
	}
}

func TestCallMacroUndefinedReturnsError(t *testing.T) {
	api := &fakeAPI{}
	e, err := NewEngine(filepath.Join(t.TempDir(), "missing"), api, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	if err := e.CallMacro("nope"); err == nil {
		t.Fatalf("expected error for undefined macro")
	}
}

func TestSayErrorIsLoggedNotPropagated(t *testing.T) {
	api := &fakeAPI{failSay: true}
	e, err := NewEngine(filepath.Join(t.TempDir(), "missing"), api, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer e.Close()

	if err := e.RunString(`say("hi")`); err != nil {
		t.Fatalf("RunString should not fail when the bound action errors: %v", err)
	}
}
