package messages

import "strings"

// DefaultSpellFear - вклад в региональный страх от заклинания монстра,
// которого не удалось найти. Урон, полученный за тик, добавляется
// отдельно для атакующих заклинаний.
func DefaultSpellFear() map[string]int {
	return map[string]int{
		"SHRIEK":       10,
		"WHIP":         100,
		"SPIT":         0,
		"BR_ACID":      40,
		"BR_ELEC":      20,
		"BR_FIRE":      40,
		"BR_COLD":      20,
		"BR_POIS":      20,
		"BR_NETH":      150,
		"BR_LIGHT":     20,
		"BR_DARK":      20,
		"BR_SOUN":      50,
		"BR_CHAO":      200,
		"BR_DISE":      500,
		"BR_NEXU":      100,
		"BR_TIME":      200,
		"BR_INER":      50,
		"BR_GRAV":      50,
		"BR_SHAR":      50,
		"BR_PLAS":      50,
		"BR_WALL":      50,
		"BR_MANA":      100,
		"BE_ELEC":      20,
		"BE_NETH":      50,
		"SCARE":        10,
		"BLIND":        10,
		"CONF":         10,
		"SLOW":         5,
		"HOLD":         20,
		"HASTE":        10,
		"HEAL":         10,
		"BLINK":        5,
		"TPORT":        10,
		"TELE_TO":      20,
		"TELE_SELF_TO": 20,
		"TELE_AWAY":    10,
		"TELE_LEVEL":   25,
		"DARKNESS":     5,
		"TRAPS":        50,
		"FORGET":       30,
		"S_KIN":        55,
		"S_MONSTER":    55,
		"S_MONSTERS":   30,
		"S_ANIMAL":     15,
		"S_SPIDER":     25,
		"S_HOUND":      45,
		"S_HYDRA":      70,
		"S_AINU":       80,
		"S_DEMON":      80,
		"S_UNDEAD":     80,
		"S_DRAGON":     80,
		"S_HI_DEMON":   95,
		"S_HI_UNDEAD":  95,
		"S_HI_DRAGON":  95,
		"S_WRAITH":     95,
		"S_UNIQUE":     50,
	}
}

// damaging - заклинание наносит урон, и потерянные очки жизни
// добавляются к страху.
func damaging(spell string) bool {
	for _, p := range []string{"BR_", "BA_", "BO_", "BE_"} {
		if strings.HasPrefix(spell, p) {
			return true
		}
	}
	switch spell {
	case "SHOT", "ARROW", "BOLT", "MISSILE", "BOULDER", "WOUND":
		return true
	}
	return false
}

// Заклинания, после которых монстры вокруг могли оказаться где угодно.
func relocates(spell string) bool {
	return spell == "TELE_AWAY" || spell == "TELE_TO"
}
