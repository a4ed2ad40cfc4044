package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// Snapshot - полный снимок модели мира, который движок публикует после
// каждого тика. Только для чтения: изменить модель через него нельзя.
type Snapshot struct {
	// Type тип сообщения. "SNAPSHOT" для снимка, "CELL" для ответа на запрос клетки.
	Type string `json:"type"`

	// Session идентификатор сессии движка (uuid).
	Session string `json:"session"`

	// Tick тик движка. На новом уровне начинается с 1000.
	Tick int `json:"tick"`

	Player PlayerView `json:"player"`

	// Grid метаданные о размере всей карты.
	Grid *GridMeta `json:"grid,omitempty"`

	// Map срез всех известных клеток (рельеф распознан).
	Map []TileView `json:"map,omitempty"`

	// Entities отслеживаемые монстры и предметы.
	Entities []EntityView `json:"entities,omitempty"`

	Landmarks []LandmarkView `json:"landmarks,omitempty"`

	// Fear ненулевые блоки грубой карты страха.
	Fear []FearView `json:"fear,omitempty"`

	Feelings FeelingsView `json:"feelings"`

	// Logs разобранные сообщения последних тиков.
	Logs []LogEntry `json:"logs,omitempty"`
}

// GridMeta содержит общие размеры карты.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// PlayerView - состояние персонажа в текущем тике.
type PlayerView struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Depth int `json:"depth"`
	Level int `json:"level"`
	HP    int `json:"hp"`
	MaxHP int `json:"maxHp"`

	Blind         bool `json:"blind,omitempty"`
	Hallucinating bool `json:"hallucinating,omitempty"`
}

// TileView это DTO для одной клетки карты.
type TileView struct {
	X int `json:"x"`
	Y int `json:"y"`

	// Symbol и Color - последний увиденный символ клетки.
	Symbol string `json:"symbol"`
	Color  string `json:"color"`

	// Feat распознанный рельеф (FLOOR, GRANITE, ...).
	Feat string `json:"feat"`

	Trap  bool `json:"trap,omitempty"`
	Store int  `json:"store,omitempty"`

	// IsWall true, если клетка непроходима.
	IsWall bool `json:"isWall"`

	// IsVisible true, если клетка в поле зрения игрока.
	IsVisible bool `json:"isVisible"`

	// IsLit true, если клетка освещена (постоянно или светом игрока).
	IsLit bool `json:"isLit"`
}

// EntityView это DTO для отслеживаемой сущности.
type EntityView struct {
	// Handle строковое представление ссылки на строку таблицы.
	Handle string `json:"handle"`
	Type   string `json:"type"` // MONSTER, OBJECT
	Name   string `json:"name"`

	Pos struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"pos"`

	Render struct {
		Symbol string `json:"symbol"`
		Color  string `json:"color"`
	} `json:"render"`

	// Seen сущность видна в этом тике.
	Seen bool `json:"seen"`
	// When тик последнего наблюдения.
	When int `json:"when"`

	// Monster есть только у монстров.
	Monster *MonsterView `json:"monster,omitempty"`
}

// MonsterView - оценки состояния монстра.
type MonsterView struct {
	Speed    int  `json:"speed"`
	Injury   int  `json:"injury"`
	Awake    bool `json:"awake"`
	Afraid   bool `json:"afraid,omitempty"`
	Confused bool `json:"confused,omitempty"`
	Known    bool `json:"known,omitempty"`
}

// LandmarkView - ориентир уровня.
type LandmarkView struct {
	Kind string `json:"kind"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// FearView - один блок грубой карты страха.
type FearView struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

// FeelingsView - флаги и ощущения уровня.
type FeelingsView struct {
	Danger           int  `json:"danger"`
	Stuff            int  `json:"stuff"`
	VaultOnLevel     bool `json:"vaultOnLevel,omitempty"`
	ScaryGuyOnLevel  bool `json:"scaryGuyOnLevel,omitempty"`
	NeedSeeInvisible int  `json:"needSeeInvisible,omitempty"`
}

// CellView - ответ на запрос одной клетки.
type CellView struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Feat  string `json:"feat"`
	Flags uint8  `json:"flags"`
	Trap  bool   `json:"trap,omitempty"`
	Store int    `json:"store,omitempty"`
	Glyph string `json:"glyph"`

	DangerRegion int `json:"dangerRegion"`
	DangerCell   int `json:"dangerCell"`

	Monster string `json:"monster,omitempty"`
	Object  string `json:"object,omitempty"`
}

// LogEntry представляет одну запись журнала разобранных сообщений.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // BOUND, FEAR, SELF, DROPPED
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
// Поток только для чтения: команды лишь запрашивают данные.
type ClientCommand struct {
	// Action название запроса: SNAPSHOT или CELL.
	Action string `json:"action"`

	// Payload JSON-объект с данными запроса. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// PositionPayload используется для запросов к клетке карты (CELL).
type PositionPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}
