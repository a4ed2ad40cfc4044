package engine

import (
	"testing"

	"borg-perception/internal/catalog"
	"borg-perception/internal/domain"
	"borg-perception/internal/infrastructure/storage"
	"borg-perception/pkg/dungeon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// turnInputs раскладывает ход синтетического хоста во входы движка в
// том порядке, в каком их подает демо-режим.
func turnInputs(turn dungeon.Turn) []Input {
	var inputs []Input
	if turn.NewLevel {
		inputs = append(inputs, Input{Kind: domain.InputNewLevel, Depth: turn.Depth})
	}
	inputs = append(inputs, Input{Kind: domain.InputGoal, Goal: turn.Goal})
	if turn.Frame != nil {
		inputs = append(inputs, Input{Kind: domain.InputFrame, Frame: turn.Frame})
	}
	for _, m := range turn.Messages {
		inputs = append(inputs, Input{Kind: domain.InputMessage, Raw: m})
	}
	return append(inputs, Input{Kind: domain.InputTick})
}

func TestReplay_ReproducesRecordedSession(t *testing.T) {
	cat := catalog.Default()
	cfg := NewConfig()
	cfg.Seed = 99
	e, err := New(cfg, cat, WithRecording())
	require.NoError(t, err)

	demo := dungeon.NewDemo(cat, 1, 99, true)
	var live []TickReport
	for i := 0; i < 40; i++ {
		for _, in := range turnInputs(demo.Next()) {
			rep, err := e.Dispatch(in)
			require.NoError(t, err)
			if rep != nil {
				live = append(live, *rep)
			}
		}
	}
	require.Len(t, live, 40)

	rec := e.Recording()
	require.NotNil(t, rec)
	assert.Equal(t, int64(99), rec.Seed)
	assert.NotEmpty(t, rec.Config)

	svc := storage.NewReplayService(t.TempDir())
	path, err := svc.Save(rec)
	require.NoError(t, err)
	loaded, err := svc.Load(path)
	require.NoError(t, err)

	replayed, reports, err := Replay(loaded, cat)
	require.NoError(t, err)

	assert.Equal(t, live, reports)
	assert.Equal(t, e.ID, replayed.ID)
	assert.Equal(t, e.Kills(), replayed.Kills())
	assert.Equal(t, e.Takes(), replayed.Takes())

	want, got := e.Snapshot(), replayed.Snapshot()
	assert.Equal(t, want.Tick, got.Tick)
	assert.Equal(t, want.Player, got.Player)
	assert.Equal(t, want.Map, got.Map)
	assert.Equal(t, want.Entities, got.Entities)
	assert.Equal(t, want.Fear, got.Fear)
	assert.Equal(t, want.Landmarks, got.Landmarks)
}

func TestDecodeInput_Errors(t *testing.T) {
	_, err := DecodeInput(domain.ReplayInput{Tick: 1000, Kind: domain.InputFrame, Payload: []byte("{")})
	assert.Error(t, err)

	_, err = DecodeInput(domain.ReplayInput{Tick: 1000, Kind: domain.InputUnknown})
	assert.Error(t, err)

	in, err := DecodeInput(domain.ReplayInput{Tick: 1000, Kind: domain.InputMessage, Payload: []byte(`"KILL:the kobold"`)})
	require.NoError(t, err)
	assert.Equal(t, "KILL:the kobold", in.Raw)
}

func TestDispatch_RejectsBadInputs(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Dispatch(Input{Kind: domain.InputFrame})
	assert.Error(t, err)

	_, err = e.Dispatch(Input{Kind: domain.InputMessage, Raw: "untagged"})
	assert.Error(t, err)

	rep, err := e.Dispatch(Input{Kind: domain.InputTick})
	require.NoError(t, err)
	require.NotNil(t, rep)
	assert.Equal(t, LevelStartTick, rep.Tick)
}
