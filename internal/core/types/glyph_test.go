package types

import "testing"

func TestMakeGlyph(t *testing.T) {
	tests := []struct {
		name string
		attr Attr
		char byte
		want Glyph
	}{
		{"green kobold", AttrGreen, 'k', Glyph(0x056B)},
		{"dark space", AttrDark, ' ', Glyph(0x0020)},
		{"light umber max char", AttrLightUmber, 0xFF, Glyph(0x0FFF)},
		{"white wall", AttrWhite, '#', Glyph(0x0123)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MakeGlyph(tt.attr, tt.char)
			if got != tt.want {
				t.Errorf("MakeGlyph() = 0x%04X, want 0x%04X", uint16(got), uint16(tt.want))
			}
			if got.Attr() != tt.attr {
				t.Errorf("Attr() = %v, want %v", got.Attr(), tt.attr)
			}
			if got.Char() != tt.char {
				t.Errorf("Char() = %q, want %q", got.Char(), tt.char)
			}
		})
	}
}

func TestGlyph_String(t *testing.T) {
	tests := []struct {
		glyph Glyph
		want  string
	}{
		{MakeGlyph(AttrGreen, 'k'), "Glyph{char='k', attr=green}"},
		{MakeGlyph(AttrRed, '\n'), "Glyph{char='\\x0A', attr=red}"},
	}
	for _, tt := range tests {
		if got := tt.glyph.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseAttr(t *testing.T) {
	tests := []struct {
		in   string
		want Attr
		ok   bool
	}{
		{"green", AttrGreen, true},
		{"Light Blue", AttrLightBlue, true},
		{"light-umber", AttrLightUmber, true},
		{"mauve", AttrDark, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAttr(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseAttr(%q) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
