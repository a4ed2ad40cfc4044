package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"borg-perception/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession() *domain.ReplaySession {
	s := domain.NewReplaySession(uuid.New(), 42, 1700000000)
	s.Config = json.RawMessage(`{"expiryTicks":2000}`)
	s.Append(1000, domain.InputFrame, json.RawMessage(`{"panel":{"x":0,"y":0}}`))
	s.Append(1000, domain.InputMessage, json.RawMessage(`"HIT:the kobold"`))
	s.Append(1000, domain.InputTick, nil)
	return s
}

func TestBinaryRoundTrip(t *testing.T) {
	s := sampleSession()

	var buf bytes.Buffer
	require.NoError(t, writeBinary(&buf, s))

	got, err := readBinary(&buf)
	require.NoError(t, err)

	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.Seed, got.Seed)
	assert.Equal(t, s.Timestamp, got.Timestamp)
	assert.JSONEq(t, string(s.Config), string(got.Config))
	require.Len(t, got.Inputs, 3)
	assert.Equal(t, domain.InputMessage, got.Inputs[1].Kind)
	assert.Equal(t, `"HIT:the kobold"`, string(got.Inputs[1].Payload))
	assert.Empty(t, got.Inputs[2].Payload)
}

func TestReadRejectsForeignFiles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBinary(&buf, sampleSession()))
	data := buf.Bytes()

	bad := append([]byte(nil), data...)
	copy(bad, "CDRP")
	_, err := readBinary(bytes.NewReader(bad))
	assert.True(t, errors.Is(err, ErrBadMagic))

	bad = append([]byte(nil), data...)
	bad[4] = 9
	_, err = readBinary(bytes.NewReader(bad))
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))

	_, err = readBinary(bytes.NewReader(data[:len(data)-3]))
	assert.Error(t, err, "truncated payload")
}

func TestWriteRejectsUnknownKind(t *testing.T) {
	s := sampleSession()
	s.Append(1001, domain.InputUnknown, nil)
	assert.Error(t, writeBinary(&bytes.Buffer{}, s))
}

func TestReplayService_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	svc := NewReplayService(dir)
	s := sampleSession()

	path, err := svc.Save(s)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	got, err := svc.Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Len(t, got.Inputs, len(s.Inputs))
}
