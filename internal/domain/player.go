package domain

// PlayerState - то, что движок знает о персонаже в текущем тике.
// Заполняется из строки состояния хоста вместе с кадром.
type PlayerState struct {
	Pos         Position `json:"pos"`
	Depth       int      `json:"depth"`
	Level       int      `json:"level"`
	LightRadius int      `json:"lightRadius"`
	Infravision int      `json:"infravision"`

	Blind         bool `json:"blind"`
	Hallucinating bool `json:"hallucinating"`
	SeeInvisible  bool `json:"seeInvisible"`
	Telepathy     bool `json:"telepathy"`
	Speed         int  `json:"speed"` // 110 - нормальная скорость

	HP    int `json:"hp"`
	MaxHP int `json:"maxHp"`
}

// Impaired - персонаж не может доверять тому, что видит.
func (p PlayerState) Impaired() bool {
	return p.Blind || p.Hallucinating
}

// InTown - уровень 0.
func (p PlayerState) InTown() bool {
	return p.Depth == 0
}
