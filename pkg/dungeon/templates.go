package dungeon

import (
	"math/rand"

	"borg-perception/internal/catalog"
)

// outOfDepth - насколько раса может быть глубже уровня.
const outOfDepth = 3

// PickRace выбирает расу для уровня: не уникальную, не глубже
// depth+outOfDepth. Более подходящие по глубине выпадают чаще.
// 0 - подходящих рас нет.
func PickRace(cat *catalog.Catalog, depth int, rng *rand.Rand) int {
	var pool []int
	for id := 1; id < len(cat.Races); id++ {
		r := &cat.Races[id]
		if r.IsUnique() || id == cat.Ghost() || r.Level > depth+outOfDepth {
			continue
		}
		pool = append(pool, id)
		if r.Level >= depth/2 {
			pool = append(pool, id)
		}
	}
	if len(pool) == 0 {
		return 0
	}
	return pool[rng.Intn(len(pool))]
}

// PickKind выбирает вид предмета. Золото встречается чаще прочего.
func PickKind(cat *catalog.Catalog, depth int, rng *rand.Rand) int {
	var pool []int
	for id := 1; id < len(cat.Kinds); id++ {
		k := &cat.Kinds[id]
		if k.Cost > 50*(depth+1) {
			continue
		}
		pool = append(pool, id)
		if k.Gold {
			pool = append(pool, id, id)
		}
	}
	if len(pool) == 0 {
		return 0
	}
	return pool[rng.Intn(len(pool))]
}
