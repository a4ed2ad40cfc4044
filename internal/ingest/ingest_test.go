package ingest

import (
	"testing"

	"borg-perception/internal/catalog"
	"borg-perception/internal/core/types"
	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
	"borg-perception/internal/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	grid *domain.GridMap
	lm   *domain.Landmarks
	in   *Ingestor
	out  *tracking.Sightings
}

func newEnv() *env {
	g := domain.NewGridMap()
	lm := &domain.Landmarks{}
	return &env{
		grid: g,
		lm:   lm,
		in:   NewIngestor(g, lm, NewClassifier(catalog.Default())),
		out:  tracking.NewSightings(64),
	}
}

func glyph(a types.Attr, ch byte) types.Glyph { return types.MakeGlyph(a, ch) }

// frame строит кадр 20x10 с панелью в (10,5), заполненный темным полом,
// и игроком в (15,8).
func frame(depth int) *Frame {
	f := NewFrame(domain.Position{X: 10, Y: 5}, 20, 10)
	for i := range f.Cells {
		f.Cells[i].Glyph = glyph(types.AttrSlate, '.')
	}
	f.Player = domain.PlayerState{Pos: domain.Position{X: 15, Y: 8}, Depth: depth, Level: 3, Speed: 110}
	f.Set(f.Player.Pos, glyph(types.AttrWhite, '@'))
	return f
}

func TestClassify(t *testing.T) {
	cls := NewClassifier(catalog.Default())

	tests := []struct {
		name  string
		g     types.Glyph
		class Class
		feat  enums.Feat
	}{
		{"dark floor", glyph(types.AttrSlate, '.'), ClassTerrain, enums.FeatFloor},
		{"granite", glyph(types.AttrWhite, '#'), ClassTerrain, enums.FeatGranite},
		{"lava", glyph(types.AttrRed, '#'), ClassTerrain, enums.FeatLava},
		{"magma", glyph(types.AttrSlate, '%'), ClassTerrain, enums.FeatMagma},
		{"quartz", glyph(types.AttrLightSlate, '%'), ClassTerrain, enums.FeatQuartz},
		{"quartz with treasure", glyph(types.AttrWhite, '*'), ClassTerrain, enums.FeatQuartzK},
		{"magma with treasure", glyph(types.AttrOrange, '*'), ClassTerrain, enums.FeatMagmaK},
		{"open door", glyph(types.AttrUmber, '\''), ClassTerrain, enums.FeatOpen},
		{"broken door", glyph(types.AttrLightUmber, '\''), ClassTerrain, enums.FeatBroken},
		{"passable rubble", glyph(types.AttrLightUmber, ':'), ClassTerrain, enums.FeatPassRubble},
		{"shop", glyph(types.AttrWhite, '5'), ClassTerrain, enums.FeatShop},
		{"blank", types.Glyph(0), ClassTerrain, enums.FeatNone},
		{"player", glyph(types.AttrWhite, '@'), ClassPlayer, enums.FeatFloor},
		{"kobold", glyph(types.AttrGreen, 'k'), ClassMonster, enums.FeatNone},
		{"potion", glyph(types.AttrLightBlue, '!'), ClassObject, enums.FeatNone},
		{"junk", glyph(types.AttrWhite, '`'), ClassUnknown, enums.FeatNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cls.Classify(tt.g, nil)
			assert.Equal(t, tt.class, got.Class)
			assert.Equal(t, tt.feat, got.Feat)
		})
	}

	t.Run("floor lighting", func(t *testing.T) {
		assert.Equal(t, LightLit, cls.Classify(glyph(types.AttrWhite, '.'), nil).Lighting)
		assert.Equal(t, LightTorch, cls.Classify(glyph(types.AttrYellow, '.'), nil).Lighting)
		assert.Equal(t, LightDark, cls.Classify(glyph(types.AttrSlate, '.'), nil).Lighting)
	})

	t.Run("warding is a trap", func(t *testing.T) {
		got := cls.Classify(glyph(types.AttrYellow, ';'), nil)
		assert.True(t, got.Trap)
		assert.True(t, got.Warding)
	})

	t.Run("truth wins", func(t *testing.T) {
		got := cls.Classify(glyph(types.AttrWhite, '#'), &Truth{Feat: enums.FeatPerm})
		assert.Equal(t, enums.FeatPerm, got.Feat)
	})
}

func TestApply_SameFrameTwiceIsStable(t *testing.T) {
	e := newEnv()
	f := frame(3)
	f.Set(domain.Position{X: 20, Y: 6}, glyph(types.AttrWhite, '#'))

	first := e.in.Apply(f, e.out)
	snap := *e.grid
	e.out.Reset()
	second := e.in.Apply(f, e.out)

	assert.Positive(t, first.Written)
	assert.Zero(t, second.Written)
	assert.Zero(t, second.Flips)
	assert.False(t, second.PanelChanged)
	assert.Equal(t, snap, *e.grid)
}

func TestApply_PermanentWallIsNotDowngraded(t *testing.T) {
	e := newEnv()
	p := domain.Position{X: 20, Y: 6}

	f := frame(3)
	f.At(p.X-f.Panel.X, p.Y-f.Panel.Y).Truth = &Truth{Feat: enums.FeatPerm}
	e.in.Apply(f, e.out)
	require.Equal(t, enums.FeatPerm, e.grid.At(p).Feat)
	assert.True(t, e.in.VaultOnLevel)

	f = frame(3)
	f.Set(p, glyph(types.AttrWhite, '#'))
	e.out.Reset()
	e.in.Apply(f, e.out)
	assert.Equal(t, enums.FeatPerm, e.grid.At(p).Feat)
}

func TestApply_FlipResetsPathCost(t *testing.T) {
	e := newEnv()
	f := frame(3)
	e.in.Apply(f, e.out)

	// Карта помнила стену, а на экране теперь пол.
	p := domain.Position{X: 20, Y: 6}
	c := e.grid.At(p)
	c.Feat = enums.FeatGranite
	c.PathCost = 7
	c.Flags |= domain.FlagInView | domain.FlagTorchLit

	e.out.Reset()
	res := e.in.Apply(f, e.out)

	assert.Equal(t, enums.FeatFloor, c.Feat)
	assert.Equal(t, uint8(domain.PathCostUnknown), c.PathCost)
	assert.True(t, res.ViewDirty)
	assert.True(t, res.LightDirty)
	assert.Equal(t, 1, res.Flips)
}

func TestApply_Landmarks(t *testing.T) {
	e := newEnv()
	f := frame(3)
	up := domain.Position{X: 11, Y: 6}
	down := domain.Position{X: 12, Y: 6}
	door := domain.Position{X: 13, Y: 6}
	vein := domain.Position{X: 14, Y: 6}
	ward := domain.Position{X: 16, Y: 6}
	f.Set(up, glyph(types.AttrWhite, '<'))
	f.Set(down, glyph(types.AttrWhite, '>'))
	f.Set(door, glyph(types.AttrUmber, '+'))
	f.Set(vein, glyph(types.AttrOrange, '*'))
	f.Set(ward, glyph(types.AttrYellow, ';'))

	e.in.Apply(f, e.out)

	assert.True(t, e.lm.Has(domain.LandmarkUpStairs, up))
	assert.True(t, e.lm.Has(domain.LandmarkDownStairs, down))
	assert.True(t, e.lm.Has(domain.LandmarkDoor, door))
	assert.True(t, e.lm.Has(domain.LandmarkVein, vein))
	assert.True(t, e.lm.Has(domain.LandmarkWarding, ward))
	assert.True(t, e.grid.At(ward).Trap)

	t.Run("mined vein is forgotten", func(t *testing.T) {
		f.Set(vein, glyph(types.AttrSlate, '.'))
		e.out.Reset()
		e.in.Apply(f, e.out)
		assert.False(t, e.lm.Has(domain.LandmarkVein, vein))
	})

	t.Run("door opened by someone else", func(t *testing.T) {
		f.Set(door, glyph(types.AttrUmber, '\''))
		e.out.Reset()
		e.in.Apply(f, e.out)
		assert.True(t, e.in.ScaryGuyOnLevel)
		assert.False(t, e.lm.Has(domain.LandmarkDoor, door))
	})
}

func TestApply_ShopInTown(t *testing.T) {
	e := newEnv()
	f := frame(0)
	p := domain.Position{X: 20, Y: 6}
	f.Set(p, glyph(types.AttrWhite, '3'))

	e.in.Apply(f, e.out)

	assert.Equal(t, enums.FeatShop, e.grid.At(p).Feat)
	assert.Equal(t, uint8(3), e.grid.At(p).Store)
	assert.True(t, e.lm.Has(domain.LandmarkShop, p))
}

func TestApply_Lighting(t *testing.T) {
	e := newEnv()
	f := frame(3)
	lit := domain.Position{X: 20, Y: 6}
	f.Set(lit, glyph(types.AttrWhite, '.'))

	e.in.Apply(f, e.out)
	assert.True(t, e.grid.At(lit).Flags.Has(domain.FlagGlow))
	assert.True(t, e.grid.At(domain.Position{X: 21, Y: 6}).Flags.Has(domain.FlagDark))

	// Клетка погасла на экране: помним рельеф, но она темная.
	f.Set(lit, types.Glyph(0))
	e.out.Reset()
	e.in.Apply(f, e.out)
	c := e.grid.At(lit)
	assert.Equal(t, enums.FeatFloor, c.Feat)
	assert.False(t, c.Flags.Has(domain.FlagGlow))
	assert.True(t, c.Flags.Has(domain.FlagDark))
}

func TestApply_Sightings(t *testing.T) {
	e := newEnv()
	f := frame(3)
	kobold := domain.Position{X: 20, Y: 6}
	potion := domain.Position{X: 22, Y: 7}
	f.Set(kobold, glyph(types.AttrGreen, 'k'))
	f.Set(potion, glyph(types.AttrLightBlue, '!'))

	res := e.in.Apply(f, e.out)

	assert.Equal(t, 2, res.Sightings)
	list := e.out.List()
	require.Len(t, list, 2)
	for _, sg := range list {
		switch sg.Pos {
		case kobold:
			assert.True(t, sg.IsKill)
		case potion:
			assert.True(t, sg.IsTake)
		default:
			t.Fatalf("unexpected sighting at %v", sg.Pos)
		}
	}
	assert.True(t, e.grid.At(kobold).Feat.IsFloor(), "occupied unknown cell is floor")
	assert.True(t, res.PlayerSeen)
	assert.Equal(t, domain.Position{X: 15, Y: 8}, res.PlayerPos)

	t.Run("hallucination hides everything", func(t *testing.T) {
		f.Player.Hallucinating = true
		e.out.Reset()
		res := e.in.Apply(f, e.out)
		assert.Zero(t, res.Sightings)
		assert.Zero(t, e.out.Len())
	})
}

func TestApply_TruthCarriesMonster(t *testing.T) {
	e := newEnv()
	f := frame(3)
	p := domain.Position{X: 20, Y: 6}
	f.Set(p, glyph(types.AttrGreen, 'k'))
	f.At(p.X-f.Panel.X, p.Y-f.Panel.Y).Truth = &Truth{
		Feat:    enums.FeatFloor,
		InView:  true,
		Monster: &tracking.MonsterTruth{Race: 6, HostIndex: 3, HPPercent: 100},
	}

	res := e.in.Apply(f, e.out)

	list := e.out.List()
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Monster)
	assert.Equal(t, 3, list[0].Monster.HostIndex)
	assert.True(t, res.Truth)
	assert.Equal(t, []domain.Position{p}, res.HostView)
	assert.False(t, e.grid.At(p).Flags.Has(domain.FlagInView), "view flags belong to Visibility")
}

func TestApply_PanelChangeClearsOnScreen(t *testing.T) {
	e := newEnv()
	f := frame(3)
	e.in.Apply(f, e.out)
	old := domain.Position{X: 10, Y: 5}
	require.True(t, e.grid.At(old).Flags.Has(domain.FlagOnScreen))

	g := NewFrame(domain.Position{X: 40, Y: 5}, 20, 10)
	g.Player = f.Player
	e.out.Reset()
	res := e.in.Apply(g, e.out)

	assert.True(t, res.PanelChanged)
	assert.False(t, e.grid.At(old).Flags.Has(domain.FlagOnScreen))
	assert.True(t, e.grid.At(domain.Position{X: 45, Y: 6}).Flags.Has(domain.FlagOnScreen))
	assert.Equal(t, enums.FeatFloor, e.grid.At(old).Feat, "off-screen memory survives")
}
