package domain

// LandmarkKind - вид запоминаемого ориентира уровня.
type LandmarkKind uint8

const (
	LandmarkUpStairs LandmarkKind = iota
	LandmarkDownStairs
	LandmarkDoor
	LandmarkVein
	LandmarkWarding
	LandmarkShop

	landmarkKinds
)

var landmarkNames = [landmarkKinds]string{"up", "down", "door", "vein", "warding", "shop"}

func (k LandmarkKind) String() string {
	if k < landmarkKinds {
		return landmarkNames[k]
	}
	return "unknown"
}

// Landmarks - ориентиры текущего уровня (лестницы, двери, жилы с сокровищем,
// руны защиты, входы в лавки). Сбрасываются при смене уровня.
type Landmarks struct {
	lists [landmarkKinds][]Position
}

// Add запоминает ориентир; повторное добавление игнорируется.
func (l *Landmarks) Add(kind LandmarkKind, p Position) bool {
	for _, q := range l.lists[kind] {
		if q == p {
			return false
		}
	}
	l.lists[kind] = append(l.lists[kind], p)
	return true
}

// Remove забывает ориентир.
func (l *Landmarks) Remove(kind LandmarkKind, p Position) bool {
	list := l.lists[kind]
	for i, q := range list {
		if q == p {
			list[i] = list[len(list)-1]
			l.lists[kind] = list[:len(list)-1]
			return true
		}
	}
	return false
}

// Has проверяет наличие ориентира.
func (l *Landmarks) Has(kind LandmarkKind, p Position) bool {
	for _, q := range l.lists[kind] {
		if q == p {
			return true
		}
	}
	return false
}

// List возвращает копию списка ориентиров вида kind.
func (l *Landmarks) List(kind LandmarkKind) []Position {
	return append([]Position(nil), l.lists[kind]...)
}

// Reset забывает все ориентиры.
func (l *Landmarks) Reset() {
	for i := range l.lists {
		l.lists[i] = l.lists[i][:0]
	}
}

// DetectKind - что было обнаружено магией в блоке подземелья.
type DetectKind uint8

const (
	DetectWalls DetectKind = iota
	DetectTraps
	DetectDoors
	DetectEvil
	DetectObjects

	detectKinds
)

// DetectMap - отметки "в этом блоке уже применено обнаружение".
type DetectMap struct {
	marks [detectKinds][RegionRows][RegionCols]bool
}

// MarkAround отмечает блок (row, col) и соседние справа и снизу (2x2),
// то есть экранную панель, на которой действовало заклинание.
func (d *DetectMap) MarkAround(kind DetectKind, row, col int) {
	for r := row; r < row+2 && r < RegionRows; r++ {
		for c := col; c < col+2 && c < RegionCols; c++ {
			if r >= 0 && c >= 0 {
				d.marks[kind][r][c] = true
			}
		}
	}
}

// Clear снимает отметку одного блока.
func (d *DetectMap) Clear(kind DetectKind, row, col int) {
	if row >= 0 && col >= 0 && row < RegionRows && col < RegionCols {
		d.marks[kind][row][col] = false
	}
}

// Detected проверяет отметку блока.
func (d *DetectMap) Detected(kind DetectKind, row, col int) bool {
	if row < 0 || col < 0 || row >= RegionRows || col >= RegionCols {
		return false
	}
	return d.marks[kind][row][col]
}

// Reset снимает все отметки.
func (d *DetectMap) Reset() {
	*d = DetectMap{}
}
