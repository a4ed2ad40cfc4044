package enums

import "testing"

func TestFeat_Refines(t *testing.T) {
	tests := []struct {
		name string
		next Feat
		prev Feat
		want bool
	}{
		{"unknown to granite", FeatGranite, FeatNone, true},
		{"granite to perm", FeatPerm, FeatGranite, true},
		{"perm to granite", FeatGranite, FeatPerm, false},
		{"magma with treasure stays", FeatMagma, FeatMagmaK, false},
		{"quartz to quartz with treasure", FeatQuartzK, FeatQuartz, true},
		{"wall to floor is a flip, not a refinement", FeatFloor, FeatPerm, true},
		{"different families", FeatMagma, FeatQuartzK, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.next.Refines(tt.prev); got != tt.want {
				t.Errorf("%v.Refines(%v) = %v, want %v", tt.next, tt.prev, got, tt.want)
			}
		})
	}
}

func TestFeat_ParseRoundTrip(t *testing.T) {
	for f := FeatNone; f < FeatCount; f++ {
		if got := ParseFeat(f.String()); got != f {
			t.Errorf("ParseFeat(%q) = %v", f.String(), got)
		}
	}
}

func TestParseMessageCategory(t *testing.T) {
	tests := []struct {
		in   string
		want MessageCategory
	}{
		{"KILL", MsgKill},
		{"state__fear", MsgStateFear},
		{"HIT_BY", MsgHitBy},
		{"BOGUS", MsgUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseMessageCategory(tt.in); got != tt.want {
				t.Errorf("ParseMessageCategory(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
