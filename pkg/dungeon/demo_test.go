package dungeon

import (
	"strings"
	"testing"

	"borg-perception/internal/catalog"
)

func TestDemo_FirstTurnIsNewLevel(t *testing.T) {
	d := NewDemo(catalog.Default(), 2, 11, true)

	first := d.Next()
	if !first.NewLevel || first.Depth != 2 {
		t.Fatalf("First turn must announce level 2, got %+v", first)
	}
	if first.Frame == nil || !first.Frame.Contains(d.Level.Player.Pos) {
		t.Fatal("Frame must contain the player")
	}

	second := d.Next()
	if second.NewLevel {
		t.Error("Second turn must stay on the same level")
	}
}

func TestDemo_MessagesAreTagged(t *testing.T) {
	d := NewDemo(catalog.Default(), 5, 3, false)
	for i := 0; i < 300; i++ {
		turn := d.Next()
		for _, m := range turn.Messages {
			tag, subject, ok := strings.Cut(m, ":")
			if !ok || tag == "" || subject == "" {
				t.Fatalf("Malformed message %q", m)
			}
		}
		if turn.Frame == nil {
			t.Fatalf("Turn %d has no frame", i)
		}
	}
}
