package command

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/swbattle/server/internal/data"
	"github.com/swbattle/server/internal/world"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ParseError points at the offending scenario line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// arity is the number of numeric arguments each text command takes.
var arity = map[string]int{
	"CREATE_MAP":      2,
	"SPAWN_SWORDSMAN": 5,
	"SPAWN_HUNTER":    7,
	"MARCH":           3,
}

// Load reads a scenario file. .yaml and .yml files are YAML scenarios;
// anything else is the line-oriented text format.
func Load(path string) ([]Command, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		sc, err := data.LoadScenario(path)
		if err != nil {
			return nil, err
		}
		return FromScenario(sc)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	defer f.Close()
	cmds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cmds, nil
}

// Parse reads text commands, one per line. A leading byte order mark
// selects UTF-16 decoding; otherwise input is UTF-8. Blank lines and
// lines starting with # are skipped.
func Parse(r io.Reader) ([]Command, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	sc := bufio.NewScanner(transform.NewReader(r, dec))

	var cmds []Command
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		c, err := parseLine(text)
		if err != nil {
			return nil, &ParseError{Line: line, Msg: err.Error()}
		}
		cmds = append(cmds, c)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cmds, nil
}

func parseLine(text string) (Command, error) {
	fields := strings.Fields(text)
	name := strings.ToUpper(fields[0])
	want, ok := arity[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", fields[0])
	}
	if len(fields)-1 != want {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", name, want, len(fields)-1)
	}

	args := make([]uint32, want)
	for i, f := range fields[1:] {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%s argument %d: %q is not an unsigned integer", name, i+1, f)
		}
		args[i] = uint32(v)
	}

	switch name {
	case "CREATE_MAP":
		return CreateMap{Width: args[0], Height: args[1]}, nil
	case "SPAWN_SWORDSMAN":
		return SpawnSwordsman{UnitID: world.UnitID(args[0]), X: args[1], Y: args[2], HP: args[3], Strength: args[4]}, nil
	case "SPAWN_HUNTER":
		return SpawnHunter{
			UnitID:   world.UnitID(args[0]),
			X:        args[1],
			Y:        args[2],
			HP:       args[3],
			Agility:  args[4],
			Strength: args[5],
			Range:    args[6],
		}, nil
	default:
		return March{UnitID: world.UnitID(args[0]), TargetX: args[1], TargetY: args[2]}, nil
	}
}

// FromScenario turns a YAML scenario into commands: map first, then units,
// then marches, each in document order.
func FromScenario(s *data.Scenario) ([]Command, error) {
	cmds := make([]Command, 0, 1+len(s.Units)+len(s.Marches))
	if s.Map != nil {
		cmds = append(cmds, CreateMap{Width: s.Map.Width, Height: s.Map.Height})
	}
	for _, u := range s.Units {
		id := world.UnitID(u.ID)
		switch strings.ToLower(u.Type) {
		case "swordsman":
			cmds = append(cmds, SpawnSwordsman{UnitID: id, X: u.X, Y: u.Y, HP: u.HP, Strength: u.Strength})
		case "hunter":
			cmds = append(cmds, SpawnHunter{
				UnitID:   id,
				X:        u.X,
				Y:        u.Y,
				HP:       u.HP,
				Agility:  u.Agility,
				Strength: u.Strength,
				Range:    u.Range,
			})
		default:
			cmds = append(cmds, SpawnTemplate{UnitID: id, X: u.X, Y: u.Y, Template: u.Type})
		}
	}
	for _, m := range s.Marches {
		cmds = append(cmds, March{UnitID: world.UnitID(m.ID), TargetX: m.X, TargetY: m.Y})
	}
	return cmds, nil
}
