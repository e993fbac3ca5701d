package catalog

import (
	"errors"
	"testing"
	"time"
)

func TestLevelForProduct(t *testing.T) {
	tests := []struct {
		name        string
		profile     *Profile
		product     string
		expected    Level
		expectError bool
	}{
		{
			name:     "scia level 0",
			profile:  SCIAMACHY(),
			product:  "SCI_NL__0PNPDE20040110_101955_000060062023_00051_09763_1353.N1",
			expected: Level0,
		},
		{
			name:     "scia level 1",
			profile:  SCIAMACHY(),
			product:  "SCI_NL__1PYDPA20040110_101955_000060062023_00051_09763_7815.N1",
			expected: Level1,
		},
		{
			name:     "scia offline level 2",
			profile:  SCIAMACHY(),
			product:  "SCI_OL__2PYDPA20040110_101955_000060062023_00051_09763_7815.N1",
			expected: Level2,
		},
		{
			name:        "scia unknown prefix",
			profile:     SCIAMACHY(),
			product:     "MIP_NL__1PYDPA20040110_101955.N1",
			expectError: true,
		},
		{
			name:     "gome level 1 long name",
			profile:  GOME(),
			product:  "ER02_GOM_GOM_1P_19950705T103419_19950705T121742_0526.N1",
			expected: Level1,
		},
		{
			name:     "gome level 2 long name",
			profile:  GOME(),
			product:  "GOME_O3-NO2_L2_19950705103419_052.N1",
			expected: Level2,
		},
		{
			name:     "gome short name level 1 suffix",
			profile:  GOME(),
			product:  "70705103.lv1",
			expected: Level1,
		},
		{
			name:     "gome short name level 2 suffix",
			profile:  GOME(),
			product:  "70705103.lv2",
			expected: Level2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := tt.profile.LevelForProduct(tt.product)
			if tt.expectError {
				if !errors.Is(err, ErrUnknownProductLevel) {
					t.Fatalf("expected ErrUnknownProductLevel, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if level != tt.expected {
				t.Errorf("expected level %d, got %d", tt.expected, level)
			}
		})
	}
}

func TestMetaTable(t *testing.T) {
	scia := SCIAMACHY()
	tbl, err := scia.MetaTable(Level0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl != "meta__0P" {
		t.Errorf("expected meta__0P, got %s", tbl)
	}

	gome := GOME()
	if _, err := gome.MetaTable(Level0); !errors.Is(err, ErrUnknownProductLevel) {
		t.Errorf("expected ErrUnknownProductLevel for GOME level 0, got %v", err)
	}
}

func TestLevels(t *testing.T) {
	got := GOME().Levels()
	want := []Level{Level1, Level2}
	if len(got) != len(want) {
		t.Fatalf("expected %d levels, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("level %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestBridgeTable(t *testing.T) {
	scia := SCIAMACHY()
	if got := scia.BridgeTable("meta__1P"); got != "stateinfo_meta__1P" {
		t.Errorf("expected stateinfo_meta__1P, got %s", got)
	}
	gome := GOME()
	if got := gome.BridgeTable("meta__2P"); got != "tileinfo_meta__2P" {
		t.Errorf("expected tileinfo_meta__2P, got %s", got)
	}
}

func TestStateIDs(t *testing.T) {
	scia := SCIAMACHY()
	ids, ok := scia.StateIDs(ModeLimb)
	if !ok {
		t.Fatal("expected limb mode to resolve")
	}
	want := []int{28, 29, 30, 31, 32, 33}
	if len(ids) != len(want) {
		t.Fatalf("expected %d state IDs, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("state ID %d: expected %d, got %d", i, want[i], ids[i])
		}
	}

	if _, ok := scia.StateIDs("sideways"); ok {
		t.Error("expected unknown mode to fail")
	}
}

func TestTileRegistry(t *testing.T) {
	scia := SCIAMACHY()
	tile, err := scia.Tile("fresco")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tile.Table != "tile_fresco" || tile.MatchTable != "fresco_tileinfo" {
		t.Errorf("unexpected fresco registry entry: %+v", tile)
	}

	if _, err := scia.Tile("gdp"); !errors.Is(err, ErrUnknownTileKind) {
		t.Errorf("expected ErrUnknownTileKind, got %v", err)
	}

	gome := GOME()
	tile, err = gome.Tile("fresco")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tile.JulianKeyed || tile.MetaTable != "meta_fresco" {
		t.Errorf("expected julian-keyed fresco with meta_fresco, got %+v", tile)
	}
}

func TestProcStagePos(t *testing.T) {
	if got := ProcStagePos(Level0); got != 1 {
		t.Errorf("level 0: expected 1, got %d", got)
	}
	if got := ProcStagePos(Level2); got != 3 {
		t.Errorf("level 2: expected 3, got %d", got)
	}
}

func TestJulianDay(t *testing.T) {
	scia := SCIAMACHY()
	d := time.Date(2000, time.January, 2, 12, 0, 0, 0, time.UTC)
	if got := scia.JulianDay(d); got != 1.5 {
		t.Errorf("expected 1.5, got %g", got)
	}

	gome := GOME()
	d = time.Date(1950, time.January, 11, 0, 0, 0, 0, time.UTC)
	if got := gome.JulianDay(d); got != 10 {
		t.Errorf("expected 10, got %g", got)
	}
}
