package enums

import "strings"

// Feat - код рельефа клетки. FeatNone означает "неизвестно".
type Feat uint8

const (
	FeatNone Feat = iota
	FeatFloor
	FeatOpen
	FeatBroken
	FeatLess
	FeatMore
	FeatShop
	FeatClosed
	FeatSecret
	FeatRubble
	FeatPassRubble
	FeatMagma
	FeatQuartz
	FeatMagmaK
	FeatQuartzK
	FeatGranite
	FeatPerm
	FeatLava

	FeatCount
)

var featToString = map[Feat]string{
	FeatNone:       "NONE",
	FeatFloor:      "FLOOR",
	FeatOpen:       "OPEN",
	FeatBroken:     "BROKEN",
	FeatLess:       "LESS",
	FeatMore:       "MORE",
	FeatShop:       "SHOP",
	FeatClosed:     "CLOSED",
	FeatSecret:     "SECRET",
	FeatRubble:     "RUBBLE",
	FeatPassRubble: "PASS_RUBBLE",
	FeatMagma:      "MAGMA",
	FeatQuartz:     "QUARTZ",
	FeatMagmaK:     "MAGMA_K",
	FeatQuartzK:    "QUARTZ_K",
	FeatGranite:    "GRANITE",
	FeatPerm:       "PERM",
	FeatLava:       "LAVA",
}

var featStringToType = func() map[string]Feat {
	m := make(map[string]Feat, len(featToString))
	for k, v := range featToString {
		m[v] = k
	}
	return m
}()

// String возвращает строковое представление (для логов и дебага)
func (f Feat) String() string {
	if val, ok := featToString[f]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseFeat конвертирует строку в Feat (для фикстур и записи сессий).
func ParseFeat(s string) Feat {
	if val, ok := featStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return FeatNone
}

// IsFloor - клетка проходима и прозрачна.
func (f Feat) IsFloor() bool {
	switch f {
	case FeatFloor, FeatOpen, FeatBroken, FeatLess, FeatMore, FeatShop:
		return true
	}
	return false
}

// IsKnown - рельеф классифицирован.
func (f Feat) IsKnown() bool {
	return f != FeatNone
}

// IsWall - гранит, вечная стена или жила.
func (f Feat) IsWall() bool {
	return f >= FeatMagma && f <= FeatPerm
}

// IsStairs - лестница вверх или вниз.
func (f Feat) IsStairs() bool {
	return f == FeatLess || f == FeatMore
}

// Family группирует подтипы одного рельефа: уточнение разрешено только
// внутри семейства.
type Family uint8

const (
	FamilyNone Family = iota
	FamilyGranite
	FamilyMagma
	FamilyQuartz
)

// Family возвращает семейство и ранг подтипа внутри него.
// Больший ранг точнее: Perm > Granite, MagmaK > Magma, QuartzK > Quartz.
func (f Feat) Family() (Family, int) {
	switch f {
	case FeatGranite:
		return FamilyGranite, 1
	case FeatPerm:
		return FamilyGranite, 2
	case FeatMagma:
		return FamilyMagma, 1
	case FeatMagmaK:
		return FamilyMagma, 2
	case FeatQuartz:
		return FamilyQuartz, 1
	case FeatQuartzK:
		return FamilyQuartz, 2
	}
	return FamilyNone, 0
}

// Refines сообщает, что f не хуже prev: наблюдение того же семейства
// с меньшим рангом не должно затирать уже известный подтип.
func (f Feat) Refines(prev Feat) bool {
	fam, rank := f.Family()
	pfam, prank := prev.Family()
	if fam == FamilyNone || fam != pfam {
		return true
	}
	return rank >= prank
}
