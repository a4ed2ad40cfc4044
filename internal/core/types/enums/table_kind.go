package enums

// TableKind - таблица отслеживаемых сущностей, на которую указывает Handle.
type TableKind uint8

const (
	TableNone TableKind = iota
	TableTake
	TableKill
)

var tableKindToString = map[TableKind]string{
	TableTake: "TAKE",
	TableKill: "KILL",
}

// String возвращает строковое представление (для логов и дебага)
func (k TableKind) String() string {
	if val, ok := tableKindToString[k]; ok {
		return val
	}
	return "NONE"
}
