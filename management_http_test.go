package dodkit

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/longbridgeapp/assert"
	"github.com/shamaton/msgpack/v2"

	"github.com/hyp3rd/dodkit/internal/constants"
	"github.com/hyp3rd/dodkit/pkg/limiter"
)

// startKit spins up a kit with the management server on an ephemeral port.
func startKit(t *testing.T) (*Kit, string) {
	t.Helper()

	cfg := NewConfig(constants.InMemoryBackend)
	cfg.LimiterOptions = append(cfg.LimiterOptions, limiter.WithLogger(discardLogger{}))
	cfg.KitOptions = append(cfg.KitOptions, WithManagementHTTP("127.0.0.1:0"))

	ctx := context.Background()

	kit, err := New(ctx, cfg)
	assert.Nil(t, err)

	t.Cleanup(func() { _ = kit.Stop(ctx) })

	// wait briefly for listener
	time.Sleep(30 * time.Millisecond)

	addr := kit.ManagementHTTPAddress()
	assert.True(t, addr != "")

	return kit, "http://" + addr
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()

	defer resp.Body.Close()

	err := json.NewDecoder(resp.Body).Decode(v)
	assert.Nil(t, err)
}

func TestManagementHTTP_HealthAndStats(t *testing.T) {
	_, base := startKit(t)
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(base + "/health")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	body := []byte(`{"values":[1,2,"x",3,4,5,6,7,8],"stats":["mean","quartile","bogus"]}`)

	resp, err = client.Post(base+"/stats", "application/json", bytes.NewReader(body))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any

	decode(t, resp, &got)
	assert.Equal(t, 4.5, got["mean"])
	assert.Equal(t, []any{3.0, 7.0}, got["quartile"])
	assert.Equal(t, 2, len(got))

	resp, err = client.Post(base+"/stats", "application/json", bytes.NewReader([]byte(`{"values":["a"],"stats":["mean"]}`)))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var failure map[string]string

	decode(t, resp, &failure)
	assert.Equal(t, "ERROR", failure["error"])

	resp, err = client.Post(base+"/stats", "application/json", bytes.NewReader([]byte(`{`)))
	assert.Nil(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestManagementHTTP_SeriesAndFormats(t *testing.T) {
	kit, base := startKit(t)
	client := &http.Client{Timeout: 2 * time.Second}

	assert.Nil(t, kit.Collector().Observe(context.Background(), "latency", 1, 2, 3, 4))

	resp, err := client.Get(base + "/series")
	assert.Nil(t, err)

	var list map[string][]string

	decode(t, resp, &list)
	assert.Equal(t, []string{"latency"}, list["series"])

	resp, err = client.Get(base + "/series/latency?stats=median,std")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var picked map[string]float64

	decode(t, resp, &picked)
	assert.Equal(t, 2.5, picked["median"])
	assert.Equal(t, 2, len(picked))

	resp, err = client.Get(base + "/series/latency?format=msgpack")
	assert.Nil(t, err)
	assert.Equal(t, "application/msgpack", resp.Header.Get("Content-Type"))

	var raw bytes.Buffer

	_, err = raw.ReadFrom(resp.Body)
	assert.Nil(t, err)
	_ = resp.Body.Close()

	var summary struct {
		Count int
		Mean  float64
	}

	assert.Nil(t, msgpack.Unmarshal(raw.Bytes(), &summary))
	assert.Equal(t, 4, summary.Count)
	assert.Equal(t, 2.5, summary.Mean)

	resp, err = client.Get(base + "/series/missing")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = client.Get(base + "/series/latency?format=yaml")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestManagementHTTP_Limiters(t *testing.T) {
	kit, base := startKit(t)
	client := &http.Client{Timeout: 2 * time.Second}

	l, err := kit.Limit("echo", echo, 1)
	assert.Nil(t, err)

	_, _ = l.Call(context.Background())
	_, _ = l.Call(context.Background())

	resp, err := client.Get(base + "/limiters")
	assert.Nil(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var snapshots []limiter.Snapshot

	decode(t, resp, &snapshots)
	assert.Equal(t, 1, len(snapshots))
	assert.Equal(t, "echo", snapshots[0].Name)
	assert.Equal(t, int64(1), snapshots[0].Rejected)
	assert.Equal(t, "exhausted", snapshots[0].State.String())
}
