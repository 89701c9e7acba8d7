package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mithrel/mdtree/internal/wire"
	"github.com/mithrel/mdtree/pkg/api"
)

func newTestServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	v := viper.New()
	v.Set("data_dir", t.TempDir())
	v.Set("parser.extensions", []string{"table", "strikethrough", "tasklist"})
	v.Set("cache.backend", "mem")
	v.Set("cache.max_entries", 10)
	v.Set("auth.token", token)
	app, err := wire.BuildApp(context.Background(), v)
	require.NoError(t, err)
	ts := httptest.NewServer(New(v, app).Router())
	t.Cleanup(func() {
		ts.Close()
		_ = app.Close()
	})
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string, header map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRenderEndpoint(t *testing.T) {
	ts := newTestServer(t, "")

	resp := post(t, ts, "/v1/render", "*hi*", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "<div><p><em>hi</em></p></div>", string(body))
	assert.Equal(t, "miss", resp.Header.Get(CacheHeader))

	resp = post(t, ts, "/v1/render", "*hi*", nil)
	assert.Equal(t, "hit", resp.Header.Get(CacheHeader))

	resp, err := http.Get(ts.URL + "/v1/render")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestTreeEndpoint(t *testing.T) {
	ts := newTestServer(t, "")

	resp := post(t, ts, "/v1/tree", "# a", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var root api.Node
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&root))
	assert.Equal(t, "Document", root.Type)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "ATXHeading1", root.Children[0].Type)

	resp = post(t, ts, "/v1/tree", "# a", map[string]string{"Accept": "application/x-protobuf"})
	require.Equal(t, "application/x-protobuf", resp.Header.Get("Content-Type"))
	b, _ := io.ReadAll(resp.Body)
	var msg structpb.Struct
	require.NoError(t, proto.Unmarshal(b, &msg))
	assert.Equal(t, "Document", msg.Fields["type"].GetStringValue())
	assert.Equal(t, float64(3), msg.Fields["to"].GetNumberValue())
}

func TestTreeEndpointLeafShape(t *testing.T) {
	ts := newTestServer(t, "")

	resp := post(t, ts, "/v1/tree", "a", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	para := doc["children"].([]any)[0].(map[string]any)
	text := para["children"].([]any)[0].(map[string]any)
	assert.Equal(t, "Text", text["type"])
	assert.NotContains(t, text, "children")

	resp = post(t, ts, "/v1/tree", "a", map[string]string{"Accept": "application/x-protobuf"})
	b, _ := io.ReadAll(resp.Body)
	var msg structpb.Struct
	require.NoError(t, proto.Unmarshal(b, &msg))
	pb := msg.Fields["children"].GetListValue().Values[0].GetStructValue()
	leaf := pb.Fields["children"].GetListValue().Values[0].GetStructValue()
	assert.Equal(t, "Text", leaf.Fields["type"].GetStringValue())
	assert.NotContains(t, leaf.Fields, "children")
}

func TestAuth(t *testing.T) {
	ts := newTestServer(t, "s3cret")

	resp := post(t, ts, "/v1/render", "x", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = post(t, ts, "/v1/render", "x", map[string]string{"Authorization": "Bearer s3cret"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	health, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestStatsEndpoint(t *testing.T) {
	ts := newTestServer(t, "")
	post(t, ts, "/v1/render", "x", nil)
	post(t, ts, "/v1/render", "x", nil)

	resp, err := http.Get(ts.URL + "/v1/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "mem", got["cache"])
	assert.Equal(t, float64(1), got["entries"])
	assert.Equal(t, float64(1), got["hits"])
}
