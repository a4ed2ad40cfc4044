package engine

import "strings"

// Клавиши, которыми отвечают на запросы хоста.
const (
	KeyNone   rune = 0
	KeyEscape rune = 0x1b
)

// Intent - просьба к внешнему исполнителю нажать клавишу. Движок сам
// ничего не нажимает.
type Intent struct {
	Key    rune   `json:"key"`
	Prompt string `json:"prompt"`
	Note   string `json:"note,omitempty"`
}

// prompt описывает один узнаваемый запрос в строке состояния.
type prompt struct {
	prefix string
	row    int // -1 - любая строка
	key    rune
	note   string
}

var prompts = []prompt{
	{"-more-", 0, ' ', "flushing messages"},
	{"Die?", 0, 'n', "cheating death"},
	{"Atte", 0, 'y', "confirming a spell at low mana"},
	{"You have no room", 0, KeyNone, "full pack is a no-op"},
	{"Which effect?", 1, 'a', "random effect of an unknown object"},
	{"Choose a monster race", -1, KeyEscape, "refusing banishment"},
	{"The lava will", 0, 'y', "stepping into lava"},
	{"Lava blocks y", 0, 'y', "stepping into lava"},
	{"Set recall depth", 0, 'n', "keeping recall depth"},
	{"Target out of range", -1, 'y', "firing anyway"},
	{"Word of Recall is already", -1, 'n', "keeping recall active"},
}

// detectPrompt ищет запрос в строке row. Запрос направления
// обрабатывается отдельно: ответом служит ожидаемое направление, а если
// его нет, запрос неожиданный и закрывается Escape.
func detectPrompt(row int, text string, expected rune) (Intent, bool) {
	text = strings.TrimLeft(text, " ")
	if row == 0 && strings.HasPrefix(text, "Direction") {
		if expected != KeyNone {
			return Intent{Key: expected, Prompt: text, Note: "expected direction"}, true
		}
		return Intent{Key: KeyEscape, Prompt: text, Note: "unexpected request for direction"}, true
	}
	for _, p := range prompts {
		if p.row >= 0 && p.row != row {
			continue
		}
		if p.prefix == "-more-" {
			if strings.Contains(text, p.prefix) {
				return Intent{Key: p.key, Prompt: text, Note: p.note}, true
			}
			continue
		}
		if strings.HasPrefix(text, p.prefix) {
			return Intent{Key: p.key, Prompt: text, Note: p.note}, true
		}
	}
	return Intent{}, false
}
