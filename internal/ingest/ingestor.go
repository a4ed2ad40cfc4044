package ingest

import (
	"borg-perception/internal/core/types/enums"
	"borg-perception/internal/domain"
	"borg-perception/internal/tracking"
	"borg-perception/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Result - что изменил кадр.
type Result struct {
	PlayerPos    domain.Position
	PlayerSeen   bool
	PanelChanged bool
	ViewDirty    bool
	LightDirty   bool

	Written   int // клеток с новым рельефом
	Flips     int // смен "проходимо/непроходимо"
	Sightings int

	// Truth - в кадре были сведения хоста. HostView - клетки, которые
	// хост назвал видимыми.
	Truth    bool
	HostView []domain.Position `json:"-"`
}

type rect struct {
	x1, y1, x2, y2 int
	valid          bool
}

// Ingestor применяет кадры к карте уровня.
type Ingestor struct {
	grid      *domain.GridMap
	landmarks *domain.Landmarks
	classify  *Classifier
	log       *logrus.Entry

	panel rect

	// VaultOnLevel - на уровне замечена вечная стена вне края карты.
	VaultOnLevel bool
	// ScaryGuyOnLevel - кто-то кроме игрока открыл запомненную дверь.
	ScaryGuyOnLevel bool
}

// NewIngestor создает разборщик кадров.
func NewIngestor(g *domain.GridMap, lm *domain.Landmarks, c *Classifier) *Ingestor {
	return &Ingestor{
		grid:      g,
		landmarks: lm,
		classify:  c,
		log:       logger.Component("ingest"),
	}
}

// NewLevel забывает флаги уровня и прежнюю панель.
func (in *Ingestor) NewLevel() {
	in.panel = rect{}
	in.VaultOnLevel = false
	in.ScaryGuyOnLevel = false
}

// Apply разбирает кадр: пишет рельеф, отмечает ориентиры, складывает
// клетки с существами и предметами в out.
func (in *Ingestor) Apply(f *Frame, out *tracking.Sightings) Result {
	res := Result{PlayerPos: f.Player.Pos}
	player := f.Player

	cur := rect{
		x1: f.Panel.X, y1: f.Panel.Y,
		x2: f.Panel.X + f.Width - 1, y2: f.Panel.Y + f.Height - 1,
		valid: true,
	}
	if in.panel.valid && in.panel != cur {
		in.grid.ClearFlags(in.panel.x1, in.panel.y1, in.panel.x2, in.panel.y2, domain.FlagOnScreen)
		res.PanelChanged = true
	}
	in.panel = cur

	for dy := 0; dy < f.Height; dy++ {
		for dx := 0; dx < f.Width; dx++ {
			p := domain.Position{X: f.Panel.X + dx, Y: f.Panel.Y + dy}
			c := in.grid.At(p)
			if c == nil {
				continue
			}
			fc := f.At(dx, dy)
			in.applyCell(p, c, fc, player, out, &res)
		}
	}

	if player.Level <= 5 && player.Depth > 0 {
		in.checkDoors()
	}

	if dropped := out.Dropped(); dropped > 0 {
		in.log.WithField("dropped", dropped).Warn("too many sightings in one frame")
	}
	return res
}

func (in *Ingestor) applyCell(p domain.Position, c *domain.Cell, fc *FrameCell, player domain.PlayerState, out *tracking.Sightings, res *Result) {
	c.Flags |= domain.FlagOnScreen
	c.Glyph = fc.Glyph

	cl := in.classify.Classify(fc.Glyph, fc.Truth)
	wasWall := !c.Feat.IsFloor()

	switch cl.Class {
	case ClassPlayer:
		res.PlayerPos = p
		res.PlayerSeen = true
		if fc.Truth != nil {
			in.writeFeat(p, c, cl, player, res)
		} else if !c.Feat.IsFloor() {
			c.Feat = enums.FeatFloor
			c.Flags |= domain.FlagMarked
		}
	case ClassMonster, ClassObject:
		if fc.Truth != nil {
			in.writeFeat(p, c, cl, player, res)
		} else if c.Feat == enums.FeatNone {
			// Существо заслоняет рельеф: пока считаем полом.
			c.Feat = enums.FeatFloor
		}
		if !player.Hallucinating {
			sg := tracking.Sighting{Pos: p, Glyph: fc.Glyph, IsKill: cl.IsKill, IsTake: cl.IsTake}
			if fc.Truth != nil {
				sg.Monster = fc.Truth.Monster
				sg.Object = fc.Truth.Object
			}
			if out.Add(sg) {
				res.Sightings++
			}
		}
	case ClassTerrain:
		in.writeFeat(p, c, cl, player, res)
	}

	if fc.Truth != nil {
		res.Truth = true
		if fc.Truth.InView {
			res.HostView = append(res.HostView, p)
		}
	}

	if isWall := !c.Feat.IsFloor(); isWall != wasWall {
		res.Flips++
		c.PathCost = domain.PathCostUnknown
		if c.Flags.Has(domain.FlagInView) {
			res.ViewDirty = true
		}
		if c.Flags.Has(domain.FlagTorchLit) {
			res.LightDirty = true
		}
	}
}

// writeFeat записывает рельеф с правилом "уточнять, но не откатывать"
// и обновляет освещенность и ориентиры.
func (in *Ingestor) writeFeat(p domain.Position, c *domain.Cell, cl Classification, player domain.PlayerState, res *Result) {
	if cl.Feat == enums.FeatNone {
		c.Flags &^= domain.FlagGlow
		if c.Feat != enums.FeatNone {
			c.Flags |= domain.FlagDark
		}
		return
	}

	if cl.Feat != c.Feat && cl.Feat.Refines(c.Feat) {
		c.Feat = cl.Feat
		res.Written++
	}
	c.Flags |= domain.FlagMarked

	if c.Feat.IsFloor() {
		switch cl.Lighting {
		case LightDark:
			c.Flags |= domain.FlagDark
			c.Flags &^= domain.FlagGlow
		case LightLit:
			c.Flags |= domain.FlagGlow
			c.Flags &^= domain.FlagDark
		case LightTorch:
			c.Flags &^= domain.FlagDark
		}
	}

	c.Trap = cl.Trap
	c.Warding = cl.Warding
	if cl.Warding {
		in.landmarks.Add(domain.LandmarkWarding, p)
	} else {
		in.landmarks.Remove(domain.LandmarkWarding, p)
	}

	switch c.Feat {
	case enums.FeatShop:
		c.Store = uint8(cl.Store)
		in.landmarks.Add(domain.LandmarkShop, p)
	case enums.FeatPerm:
		if player.Depth > 0 && p.X > 0 && p.Y > 0 && p.X < domain.DungeonWidth-1 && p.Y < domain.DungeonHeight-1 {
			if !in.VaultOnLevel {
				in.log.WithField("pos", p).Info("permanent wall inside the dungeon, vault on level")
			}
			in.VaultOnLevel = true
		}
	case enums.FeatMagmaK, enums.FeatQuartzK:
		in.landmarks.Add(domain.LandmarkVein, p)
	case enums.FeatClosed:
		if player.Level <= 5 {
			in.landmarks.Add(domain.LandmarkDoor, p)
		}
	case enums.FeatLess:
		in.landmarks.Add(domain.LandmarkUpStairs, p)
	case enums.FeatMore:
		in.landmarks.Add(domain.LandmarkDownStairs, p)
	}
	if c.Feat != enums.FeatMagmaK && c.Feat != enums.FeatQuartzK {
		in.landmarks.Remove(domain.LandmarkVein, p)
	}
}

// checkDoors: запомненная закрытая дверь открылась не игроком.
func (in *Ingestor) checkDoors() {
	for _, p := range in.landmarks.List(domain.LandmarkDoor) {
		c := in.grid.At(p)
		if c.Feat != enums.FeatOpen && c.Feat != enums.FeatBroken {
			continue
		}
		in.landmarks.Remove(domain.LandmarkDoor, p)
		if !in.ScaryGuyOnLevel {
			in.log.WithField("pos", p).Info("monster opened a door")
		}
		in.ScaryGuyOnLevel = true
	}
}
