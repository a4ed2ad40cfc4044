package domain

// Размеры подземелья. Должны совпадать с константами игры-хоста,
// расхождение проверяется один раз при старте.
const (
	DungeonWidth  = 198
	DungeonHeight = 66
)

// Параметры восприятия
const (
	MaxSight       = 20 // дальность зрения
	MaxRange       = 20 // дальность полета снаряда
	MaxLightRadius = 5  // предел радиуса факела/фонаря
)

// Регионы: подземелье разбито на блоки 11x11 для грубой карты страха
// и для отметок обнаружения.
const (
	RegionSize = 11
	RegionRows = DungeonHeight / RegionSize // 6
	RegionCols = DungeonWidth / RegionSize  // 18
)

// PathCostUnknown - стоимость пути в клетке сброшена и должна быть пересчитана.
const PathCostUnknown = 255
