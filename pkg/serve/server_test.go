package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/praetorian-inc/beaconscan"
	"github.com/praetorian-inc/beaconscan/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleAnalyzer(t *testing.T) *beaconscan.Analyzer {
	t.Helper()
	reports, err := beaconscan.LoadReportsFromFile(filepath.Join("..", "sensor", "testdata", "example.txt"))
	require.NoError(t, err)
	return beaconscan.New(reports)
}

// runServer feeds input to a fresh server and returns the decoded responses.
func runServer(t *testing.T, input string) []Response {
	t.Helper()
	out := &bytes.Buffer{}
	srv := NewServer(exampleAnalyzer(t), strings.NewReader(input), out)
	require.NoError(t, srv.Run(context.Background()))

	var responses []Response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var resp Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		responses = append(responses, resp)
	}
	return responses
}

func TestServer_SendsReadyOnStart(t *testing.T) {
	in := strings.NewReader("")
	out := &bytes.Buffer{}

	srv := NewServer(exampleAnalyzer(t), in, out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately to exit after ready

	_ = srv.Run(ctx)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.NotEmpty(t, lines)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ready", resp.Type)

	var ready ReadyData
	require.NoError(t, json.Unmarshal(resp.Data, &ready))
	assert.Equal(t, Version, ready.Version)
	assert.Equal(t, 14, ready.Sensors)
}

func TestServer_Coverage(t *testing.T) {
	responses := runServer(t, `{"type":"coverage","payload":{"row":10}}`+"\n"+
		`{"type":"coverage","payload":{"row":10,"include_known":true}}`+"\n")
	require.Len(t, responses, 3) // ready + two coverage responses

	var data CoverageData
	require.True(t, responses[1].Success)
	require.NoError(t, json.Unmarshal(responses[1].Data, &data))
	assert.Equal(t, int64(10), data.Row)
	assert.Equal(t, []types.Interval{{Lo: -2, Hi: 1}, {Lo: 3, Hi: 24}}, data.Intervals)
	assert.Equal(t, int64(26), data.Length)

	require.NoError(t, json.Unmarshal(responses[2].Data, &data))
	assert.Equal(t, []types.Interval{{Lo: -2, Hi: 24}}, data.Intervals)
}

func TestServer_Count(t *testing.T) {
	responses := runServer(t, `{"type":"count","payload":{"row":10}}`+"\n")
	require.Len(t, responses, 2)

	var data CountData
	require.NoError(t, json.Unmarshal(responses[1].Data, &data))
	assert.Equal(t, CountData{Row: 10, Excluded: 26}, data)
}

func TestServer_FindGap(t *testing.T) {
	responses := runServer(t, `{"type":"find_gap","payload":{"bound":20,"timeout_ms":5000}}`+"\n")
	require.Len(t, responses, 2)

	assert.True(t, responses[1].Success)
	assert.Equal(t, "find_gap", responses[1].Type)

	var data GapData
	require.NoError(t, json.Unmarshal(responses[1].Data, &data))
	assert.Equal(t, GapData{X: 14, Y: 11}, data)
}

func TestServer_FindGapAmbiguous(t *testing.T) {
	responses := runServer(t, `{"type":"find_gap","payload":{"bound":40}}`+"\n")
	require.Len(t, responses, 2)

	assert.False(t, responses[1].Success)
	assert.Equal(t, "find_gap", responses[1].Type)
	assert.Contains(t, responses[1].Error, "ambiguous search result")
}

func TestServer_BadPayload(t *testing.T) {
	responses := runServer(t, `{"type":"count","payload":{"row":"ten"}}`+"\n")
	require.Len(t, responses, 2)

	assert.False(t, responses[1].Success)
	assert.Equal(t, "count", responses[1].Type)
}

func TestServer_CloseCommand(t *testing.T) {
	responses := runServer(t, `{"type":"close","payload":{}}`+"\n"+`{"type":"count","payload":{"row":10}}`+"\n")
	require.Len(t, responses, 1) // Only ready signal
}

func TestServer_UnknownCommand(t *testing.T) {
	responses := runServer(t, `{"type":"invalid","payload":{}}`+"\n")
	require.Len(t, responses, 2)

	assert.False(t, responses[1].Success)
	assert.Contains(t, responses[1].Error, "unknown request type")
}

func TestServer_MalformedJSON(t *testing.T) {
	responses := runServer(t, `{invalid json}`+"\n")
	require.GreaterOrEqual(t, len(responses), 2)

	assert.False(t, responses[1].Success)
	assert.Equal(t, "decode", responses[1].Type)
}

func TestServer_GracefulShutdownOnContext(t *testing.T) {
	// Slow reader that blocks
	pr, pw := io.Pipe()
	out := &bytes.Buffer{}

	srv := NewServer(exampleAnalyzer(t), pr, out)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- srv.Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	cancel()
	pw.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}
