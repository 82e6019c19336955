package scenario

import (
	"fmt"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/pthm-cable/lightlag/components"
	"github.com/pthm-cable/lightlag/registry"
)

// Env is exposed to scenario scripts as globals.
type Env struct {
	Lightspeed uint32
	MapWidth   int
	MapHeight  int
}

// Lua runs a scenario script. The script calls spawn{...} at load time to
// place entities and may define on_turn(turn) to spawn more later:
//
//	spawn{ x = 10, y = 4, vx = 0, vy = 1, detectable = true, glyph = "@", fg = "red" }
//	spawn{ x = 75, y = 40, sensor = 100, log = true, player = true }
//
// spawn returns the new entity id at load time and nil inside on_turn, where
// entities are queued until the next sync.
// Single-goroutine access only.
type Lua struct {
	vm   *lua.LState
	path string
	src  string
	env  Env

	// Exactly one of reg and cmds is set while the script runs.
	reg   *registry.Registry
	cmds  *registry.Commands
	count int
}

// NewLuaFile creates a spawner for the script at path.
func NewLuaFile(path string, env Env) *Lua {
	return &Lua{path: path, env: env}
}

// NewLuaString creates a spawner for an inline script.
func NewLuaString(src string, env Env) *Lua {
	return &Lua{src: src, env: env}
}

// Spawn implements Spawner by loading and running the script.
func (l *Lua) Spawn(r *registry.Registry) (int, error) {
	if l.vm != nil {
		return 0, fmt.Errorf("lua scenario: already loaded")
	}
	l.vm = lua.NewState()
	l.vm.SetGlobal("LIGHTSPEED", lua.LNumber(l.env.Lightspeed))
	l.vm.SetGlobal("MAP_WIDTH", lua.LNumber(l.env.MapWidth))
	l.vm.SetGlobal("MAP_HEIGHT", lua.LNumber(l.env.MapHeight))
	l.vm.SetGlobal("spawn", l.vm.NewFunction(l.luaSpawn))

	l.reg, l.count = r, 0
	defer func() { l.reg = nil }()

	var err error
	if l.path != "" {
		err = l.vm.DoFile(l.path)
	} else {
		err = l.vm.DoString(l.src)
	}
	if err != nil {
		return l.count, fmt.Errorf("lua scenario %s: %w", l.name(), err)
	}
	slog.Debug("lua scenario loaded", "script", l.name(), "spawned", l.count)
	return l.count, nil
}

// Repeat implements Repeater by calling the script's on_turn, if defined.
func (l *Lua) Repeat(now uint64, cmds *registry.Commands) (int, error) {
	if l.vm == nil {
		return 0, nil
	}
	fn := l.vm.GetGlobal("on_turn")
	if fn == lua.LNil {
		return 0, nil
	}

	l.cmds, l.count = cmds, 0
	defer func() { l.cmds = nil }()

	if err := l.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(now)); err != nil {
		return l.count, fmt.Errorf("lua on_turn(%d): %w", now, err)
	}
	return l.count, nil
}

// Close releases the Lua VM.
func (l *Lua) Close() {
	if l.vm != nil {
		l.vm.Close()
		l.vm = nil
	}
}

func (l *Lua) name() string {
	if l.path != "" {
		return l.path
	}
	return "<inline>"
}

// luaSpawn implements spawn{...}.
func (l *Lua) luaSpawn(L *lua.LState) int {
	tbl := L.CheckTable(1)

	rd, err := look(
		luaString(tbl, "glyph"),
		luaString(tbl, "fg"),
		luaString(tbl, "bg"),
		lua.LVAsBool(tbl.RawGetString("hidden")),
	)
	if err != nil {
		L.RaiseError("spawn: %v", err)
		return 0
	}

	t := Template{
		Pos:        components.Position{X: luaInt(tbl, "x"), Y: luaInt(tbl, "y")},
		Vel:        components.Velocity{X: luaInt(tbl, "vx"), Y: luaInt(tbl, "vy")},
		Detectable: lua.LVAsBool(tbl.RawGetString("detectable")),
		Log:        lua.LVAsBool(tbl.RawGetString("log")),
		Player:     lua.LVAsBool(tbl.RawGetString("player")),
		Look:       rd,
	}
	if v := tbl.RawGetString("sensor"); v != lua.LNil {
		n, ok := v.(lua.LNumber)
		if !ok || n < 0 {
			L.RaiseError("spawn: sensor must be a non-negative range, got %s", v.String())
			return 0
		}
		t.Sensor = &components.Sensor{MaxRange: uint32(n)}
	}
	if t.Log && t.Sensor == nil {
		L.RaiseError("spawn: log requires a sensor")
		return 0
	}

	l.count++
	if l.cmds != nil {
		t.Queue(l.cmds)
		L.Push(lua.LNil)
		return 1
	}
	e := t.Build(l.reg)
	L.Push(lua.LNumber(e.ID()))
	return 1
}

func luaInt(tbl *lua.LTable, key string) int {
	return int(lua.LVAsNumber(tbl.RawGetString(key)))
}

func luaString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if v == lua.LNil {
		return ""
	}
	return lua.LVAsString(v)
}
