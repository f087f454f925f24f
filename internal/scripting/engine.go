package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// APIVersion is exposed to scripts as the API_VERSION global.
const APIVersion = 1

// Engine wraps a single gopher-lua VM hosting unit AI scripts.
// Single-goroutine access only (simulation loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file in scriptsDir,
// then any in its ai/ subdirectory. A missing directory is not an error.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	for _, dir := range []string{scriptsDir, filepath.Join(scriptsDir, "ai")} {
		if err := e.loadDir(dir); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// NewEngineFromSource creates an engine from a single chunk of Lua source.
func NewEngineFromSource(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load source: %w", err)
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))
	return &Engine{vm: vm, log: log}
}

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
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasFunction reports whether a global Lua function with the given name
// is defined.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// --- Unit AI Bridge ---

// EnemyInfo describes one candidate target, as seen by the acting unit.
type EnemyInfo struct {
	ID       int
	X, Y     int
	HP       int
	Dist     int // Chebyshev distance
	TypeName string
}

// UnitAIContext holds pre-packed data for one AI decision.
type UnitAIContext struct {
	UnitID    int
	TypeName  string
	Turn      int
	X, Y      int
	HP        int
	CanMove   bool
	HasMelee  bool
	HasRanged bool
	MapWidth  int
	MapHeight int

	// Enemies in shuffled order.
	Enemies []EnemyInfo
}

// AICommand is a single action returned by Lua AI.
type AICommand struct {
	Type   string // "melee", "ranged", "attack", "move_toward", "idle"
	Target int    // unit id; 0 when X/Y are used
	X, Y   int
	HasPos bool
}

// RunUnitAI calls the Lua function fn(ctx) and returns its commands in
// order. Script errors are logged and yield no commands.
func (e *Engine) RunUnitAI(fn string, ctx UnitAIContext) []AICommand {
	f := e.vm.GetGlobal(fn)
	if f == lua.LNil {
		e.log.Error("lua ai function not found", zap.String("func", fn))
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("unit_id", lua.LNumber(ctx.UnitID))
	t.RawSetString("type", lua.LString(ctx.TypeName))
	t.RawSetString("turn", lua.LNumber(ctx.Turn))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("hp", lua.LNumber(ctx.HP))
	t.RawSetString("can_move", lua.LBool(ctx.CanMove))
	t.RawSetString("has_melee", lua.LBool(ctx.HasMelee))
	t.RawSetString("has_ranged", lua.LBool(ctx.HasRanged))
	t.RawSetString("map_width", lua.LNumber(ctx.MapWidth))
	t.RawSetString("map_height", lua.LNumber(ctx.MapHeight))

	enemies := e.vm.NewTable()
	for i, en := range ctx.Enemies {
		row := e.vm.NewTable()
		row.RawSetString("id", lua.LNumber(en.ID))
		row.RawSetString("x", lua.LNumber(en.X))
		row.RawSetString("y", lua.LNumber(en.Y))
		row.RawSetString("hp", lua.LNumber(en.HP))
		row.RawSetString("dist", lua.LNumber(en.Dist))
		row.RawSetString("type", lua.LString(en.TypeName))
		enemies.RawSetInt(i+1, row)
	}
	t.RawSetString("enemies", enemies)

	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua ai error", zap.String("func", fn), zap.Error(err), zap.Int("unit", ctx.UnitID))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}

	// Array part only, so command order is preserved.
	var cmds []AICommand
	for i := 1; i <= rt.Len(); i++ {
		row, ok := rt.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		cmd := AICommand{
			Type:   lStr(row, "type"),
			Target: lInt(row, "target"),
		}
		if row.RawGetString("x") != lua.LNil && row.RawGetString("y") != lua.LNil {
			cmd.X = lInt(row, "x")
			cmd.Y = lInt(row, "y")
			cmd.HasPos = true
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

// --- Lua helpers ---

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
