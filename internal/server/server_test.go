package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"borg-perception/internal/catalog"
	"borg-perception/internal/domain"
	"borg-perception/internal/engine"
	"borg-perception/internal/network"
	"borg-perception/pkg/api"
	"borg-perception/pkg/dungeon"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer поднимает сервис с одним разобранным кадром.
func newTestServer(t *testing.T) (*httptest.Server, *engine.Service) {
	t.Helper()
	cat := catalog.Default()
	cfg := engine.NewConfig()
	cfg.Seed = 3
	e, err := engine.New(cfg, cat)
	require.NoError(t, err)

	level, err := dungeon.ParseLayout(cat, 1, []string{
		"#######",
		"#.@.k.#",
		"#######",
	})
	require.NoError(t, err)

	svc := engine.NewService(e, network.NewBroadcaster())
	ctx, cancel := context.WithCancel(context.Background())
	go svc.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-svc.Done()
	})

	require.NoError(t, svc.Submit(ctx, engine.Input{Kind: domain.InputFrame, Frame: level.Render(domain.Position{}, 10, 5, false)}))
	require.NoError(t, svc.Submit(ctx, engine.Input{Kind: domain.InputTick}))
	require.Eventually(t, func() bool { return svc.Latest().Tick == engine.LevelStartTick+1 }, 2*time.Second, 10*time.Millisecond)

	ts := httptest.NewServer(New(svc, "0").Handler())
	t.Cleanup(ts.Close)
	return ts, svc
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestDebugCell(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing coords", "", http.StatusBadRequest},
		{"not a number", "?x=a&y=1", http.StatusBadRequest},
		{"outside the dungeon", "?x=-1&y=2", http.StatusBadRequest},
		{"monster cell", "?x=5&y=2", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/debug/cell" + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	resp, err := http.Get(ts.URL + "/debug/cell?x=5&y=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	var cell api.CellView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cell))
	assert.Equal(t, "kobold", cell.Monster)
	assert.Equal(t, "FLOOR", cell.Feat)
}

func TestDebugEntities(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/debug/entities")
	require.NoError(t, err)
	defer resp.Body.Close()
	var ents []api.EntityView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ents))
	require.Len(t, ents, 1)
	assert.Equal(t, "MONSTER", ents[0].Type)
}

func TestWebSocket_FirstSnapshotAndCellQuery(t *testing.T) {
	ts, _ := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var snap api.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, "SNAPSHOT", snap.Type)
	assert.Equal(t, engine.LevelStartTick+1, snap.Tick)

	payload, err := json.Marshal(api.PositionPayload{X: 5, Y: 2})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(api.ClientCommand{Action: "cell", Payload: payload}))

	var cell api.CellView
	require.NoError(t, conn.ReadJSON(&cell))
	assert.Equal(t, 5, cell.X)
	assert.Equal(t, "kobold", cell.Monster)
}

func TestClientForward_DeliversUntilHubCloses(t *testing.T) {
	c := &Client{Send: make(chan any, 4), done: make(chan struct{})}
	updates := make(chan api.Snapshot, 2)
	updates <- api.Snapshot{Tick: 1}
	updates <- api.Snapshot{Tick: 2}
	close(updates)

	c.forward(updates)

	var ticks []int
	for msg := range c.Send {
		ticks = append(ticks, msg.(api.Snapshot).Tick)
	}
	assert.Equal(t, []int{1, 2}, ticks)
}

func TestClientForward_DoesNotBlockAfterWriterExit(t *testing.T) {
	// Send без буфера и без читателя: писатель уже вышел.
	c := &Client{Send: make(chan any), done: make(chan struct{})}
	close(c.done)
	updates := make(chan api.Snapshot, 3)
	for i := 0; i < 3; i++ {
		updates <- api.Snapshot{Tick: i}
	}
	close(updates)

	finished := make(chan struct{})
	go func() {
		c.forward(updates)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("forwarder blocked on a dead writer")
	}
	_, ok := <-c.Send
	assert.False(t, ok)
}
