package types

import "fmt"

// Palette - RGB цветов игры по умолчанию, в порядке Attr.
var Palette = [AttrCount][3]uint8{
	{0, 0, 0},       // dark
	{255, 255, 255}, // white
	{128, 128, 128}, // slate
	{255, 128, 0},   // orange
	{192, 0, 0},     // red
	{0, 128, 64},    // green
	{0, 64, 255},    // blue
	{128, 64, 0},    // umber
	{96, 96, 96},    // light dark
	{192, 192, 192}, // light slate
	{255, 0, 255},   // violet
	{255, 255, 0},   // yellow
	{255, 64, 64},   // light red
	{0, 255, 0},     // light green
	{0, 255, 255},   // light blue
	{192, 128, 64},  // light umber
}

// Hex возвращает цвет в виде "#RRGGBB".
func (a Attr) Hex() string {
	if int(a) >= AttrCount {
		return "#000000"
	}
	c := Palette[a]
	return fmt.Sprintf("#%02X%02X%02X", c[0], c[1], c[2])
}

// NearestAttr подбирает цвет палитры, ближайший к RGB (по квадрату
// евклидова расстояния).
func NearestAttr(r, g, b int32) Attr {
	best, bestD := AttrDark, int32(-1)
	for i, c := range Palette {
		dr, dg, db := r-int32(c[0]), g-int32(c[1]), b-int32(c[2])
		d := dr*dr + dg*dg + db*db
		if bestD < 0 || d < bestD {
			best, bestD = Attr(i), d
		}
	}
	return best
}
