package tracking

import (
	"math/rand"

	"borg-perception/internal/core/types"
	"borg-perception/internal/core/types/enums"
)

type slot[T any] struct {
	val  T
	live bool
	gen  uint32
}

// Table - таблица отслеживаемых сущностей с фиксированным числом слотов.
// Слот 0 не используется: нулевая ссылка в клетке означает "пусто".
//
// next - верхняя граница когда-либо занятых слотов; новые строки сначала
// занимают самый младший свободный слот ниже нее.
type Table[T any] struct {
	kind  enums.TableKind
	slots []slot[T]
	next  int
	count int
}

// NewTable создает таблицу на size слотов (включая неиспользуемый нулевой).
func NewTable[T any](kind enums.TableKind, size int) *Table[T] {
	if size < 2 {
		size = 2
	}
	return &Table[T]{kind: kind, slots: make([]slot[T], size), next: 1}
}

// Cap - число слотов таблицы.
func (t *Table[T]) Cap() int { return len(t.slots) }

// Len - число живых строк.
func (t *Table[T]) Len() int { return t.count }

// Next - верхняя граница занятых слотов.
func (t *Table[T]) Next() int { return t.next }

// Get возвращает живую строку или nil.
func (t *Table[T]) Get(i int) *T {
	if i <= 0 || i >= t.next || !t.slots[i].live {
		return nil
	}
	return &t.slots[i].val
}

// Free ищет слот для новой строки: самый младший свободный, затем
// следующий за границей. false - таблица заполнена.
func (t *Table[T]) Free() (int, bool) {
	for i := 1; i < t.next; i++ {
		if !t.slots[i].live {
			return i, true
		}
	}
	if t.next < len(t.slots) {
		return t.next, true
	}
	return 0, false
}

// Victim выбирает случайную живую строку для вытеснения.
func (t *Table[T]) Victim(rng *rand.Rand) int {
	return 1 + rng.Intn(t.next-1)
}

// Put кладет значение в слот i и делает его живым.
func (t *Table[T]) Put(i int, v T) {
	s := &t.slots[i]
	if !s.live {
		t.count++
	}
	s.val = v
	s.live = true
	if i >= t.next {
		t.next = i + 1
	}
}

// Delete освобождает слот; старые ссылки на него перестают разрешаться.
func (t *Table[T]) Delete(i int) bool {
	if t.Get(i) == nil {
		return false
	}
	s := &t.slots[i]
	var zero T
	s.val = zero
	s.live = false
	s.gen++
	t.count--
	return true
}

// Each обходит живые строки по возрастанию номера.
// Удалять текущую строку внутри fn можно.
func (t *Table[T]) Each(fn func(i int, v *T)) {
	for i := 1; i < t.next; i++ {
		if t.slots[i].live {
			fn(i, &t.slots[i].val)
		}
	}
}

// Reset удаляет все строки (смена уровня). Поколения продолжают расти.
func (t *Table[T]) Reset() {
	for i := 1; i < t.next; i++ {
		if t.slots[i].live {
			t.Delete(i)
		}
	}
	t.next = 1
}

// Handle возвращает ссылку на живую строку i.
func (t *Table[T]) Handle(i int) types.Handle {
	if t.Get(i) == nil {
		return types.NilHandle
	}
	return types.PackHandle(uint8(t.kind), t.slots[i].gen, uint32(i))
}

// Resolve разрешает ссылку; false, если строка удалена или слот
// переиспользован.
func (t *Table[T]) Resolve(h types.Handle) (int, *T, bool) {
	if h.IsNil() || h.Table() != uint8(t.kind) {
		return 0, nil, false
	}
	i := int(h.Index())
	v := t.Get(i)
	if v == nil || t.slots[i].gen&0xFFFFFF != h.Generation() {
		return 0, nil, false
	}
	return i, v, true
}
