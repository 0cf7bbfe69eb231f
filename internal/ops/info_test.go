package ops

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInfo(t *testing.T) {
	path := writeAtext(t, t.TempDir(), `{"version":3}`, sampleDocument)

	out, err := Info(context.Background(), nil, path)
	require.NoError(t, err)

	require.Equal(t, "list", out.RootKind)
	require.Equal(t, 5, out.Snippets)
	require.Equal(t, 4, out.Groups)
	require.Equal(t, map[string]int{"text": 4, "script": 1}, out.Types)
	require.NotNil(t, out.Header)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	require.Contains(t, string(data), `"header_json":{"version":3}`)
	require.Contains(t, string(data), `"frame_offset":14`)
}

func TestInfo_PlainHeader(t *testing.T) {
	path := writeAtext(t, t.TempDir(), "aText data", sampleDocument)

	out, err := Info(context.Background(), nil, path)
	require.NoError(t, err)
	require.Nil(t, out.Header)
	require.Equal(t, "aText data", out.Source.Header)
}
