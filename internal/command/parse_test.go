package command

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/swbattle/server/internal/data"
)

const duelText = `# duel
CREATE_MAP 2 1

SPAWN_SWORDSMAN 1 0 0 10 5
SPAWN_HUNTER 2 1 0 10 6 2 3
MARCH 1 1 0
`

func TestParse(t *testing.T) {
	cmds, err := Parse(strings.NewReader(duelText))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(cmds) != 4 {
		t.Fatalf("got %d commands, want 4", len(cmds))
	}
	if c, ok := cmds[0].(CreateMap); !ok || c.Width != 2 || c.Height != 1 {
		t.Fatalf("cmd[0] = %#v", cmds[0])
	}
	if c, ok := cmds[1].(SpawnSwordsman); !ok || c.UnitID != 1 || c.HP != 10 || c.Strength != 5 {
		t.Fatalf("cmd[1] = %#v", cmds[1])
	}
	h, ok := cmds[2].(SpawnHunter)
	if !ok || h.UnitID != 2 || h.X != 1 || h.Agility != 6 || h.Strength != 2 || h.Range != 3 {
		t.Fatalf("cmd[2] = %#v", cmds[2])
	}
	if c, ok := cmds[3].(March); !ok || c.UnitID != 1 || c.TargetX != 1 || c.TargetY != 0 {
		t.Fatalf("cmd[3] = %#v", cmds[3])
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src  string
		line int
	}{
		{"CREATE_MAP 2", 1},
		{"CREATE_MAP 2 1\nTELEPORT 1 2 3", 2},
		{"CREATE_MAP 2 1\n\nSPAWN_SWORDSMAN 1 0 0 -4 5", 3},
		{"CREATE_MAP 99999999999 1", 1},
	}
	for _, c := range cases {
		_, err := Parse(strings.NewReader(c.src))
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("%q: err = %v, want ParseError", c.src, err)
		}
		if pe.Line != c.line {
			t.Fatalf("%q: line = %d, want %d", c.src, pe.Line, c.line)
		}
	}
}

func TestParseLowercaseAndBOM(t *testing.T) {
	src := "\ufeffcreate_map 3 3\r\nspawn_swordsman 1 0 0 5 1\r\n"
	cmds, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(cmds) != 2 {
		t.Fatalf("got %d commands", len(cmds))
	}
	if _, ok := cmds[0].(CreateMap); !ok {
		t.Fatalf("cmd[0] = %#v", cmds[0])
	}
}

func TestParseUTF16(t *testing.T) {
	// "MARCH 1 2 3\n" in UTF-16LE with a byte order mark.
	text := "MARCH 1 2 3\n"
	raw := []byte{0xFF, 0xFE}
	for _, r := range text {
		raw = append(raw, byte(r), 0)
	}
	cmds, err := Parse(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m, ok := cmds[0].(March); len(cmds) != 1 || !ok || m.TargetY != 3 {
		t.Fatalf("cmds = %#v", cmds)
	}
}

func TestFromScenarioRoundTrip(t *testing.T) {
	cmds, err := Parse(strings.NewReader(duelText))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sc, err := ToScenario(cmds)
	if err != nil {
		t.Fatalf("to scenario: %v", err)
	}
	back, err := FromScenario(sc)
	if err != nil {
		t.Fatalf("from scenario: %v", err)
	}
	if len(back) != len(cmds) {
		t.Fatalf("round trip: %d commands, want %d", len(back), len(cmds))
	}
	for i := range cmds {
		if back[i] != cmds[i] {
			t.Fatalf("cmd %d: %#v, want %#v", i, back[i], cmds[i])
		}
	}
}

func TestToScenarioRejectsSecondMap(t *testing.T) {
	_, err := ToScenario([]Command{CreateMap{Width: 1, Height: 1}, CreateMap{Width: 2, Height: 2}})
	if err == nil {
		t.Fatal("second map accepted")
	}
}

func TestFromScenarioTemplates(t *testing.T) {
	sc := &data.Scenario{
		Units: []data.UnitSpawn{
			{ID: 1, Type: "Swordsman", HP: 4, Strength: 1},
			{ID: 2, Type: "knight", X: 3},
		},
	}
	cmds, err := FromScenario(sc)
	if err != nil {
		t.Fatalf("from scenario: %v", err)
	}
	if _, ok := cmds[0].(SpawnSwordsman); !ok {
		t.Fatalf("cmd[0] = %#v", cmds[0])
	}
	if c, ok := cmds[1].(SpawnTemplate); !ok || c.Template != "knight" || c.X != 3 {
		t.Fatalf("cmd[1] = %#v", cmds[1])
	}
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "duel.txt")
	yml := filepath.Join(dir, "duel.yaml")
	if err := os.WriteFile(txt, []byte(duelText), 0o644); err != nil {
		t.Fatal(err)
	}
	yamlDoc := `
map: { width: 2, height: 1 }
units:
  - { id: 1, type: swordsman, x: 0, y: 0, hp: 10, strength: 5 }
  - { id: 2, type: hunter, x: 1, y: 0, hp: 10, agility: 6, strength: 2, range: 3 }
marches:
  - { id: 1, x: 1, y: 0 }
`
	if err := os.WriteFile(yml, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := Load(txt)
	if err != nil {
		t.Fatalf("load text: %v", err)
	}
	b, err := Load(yml)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("text gave %d commands, yaml %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("cmd %d: text %#v, yaml %#v", i, a[i], b[i])
		}
	}

	if _, err := Load(filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatal("missing file accepted")
	}
}
