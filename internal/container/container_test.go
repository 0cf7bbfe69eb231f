package container

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/atext2csv/internal/errors"
	"github.com/hpungsan/atext2csv/internal/tree"
)

const sampleHeader = `{"version":3,"app":"aText"}`

const samplePayload = `[{"2":"G1","99":1,"13":[{"0":"u1","1":"hi","4":"hello world","3":"t","12":1700000000}]}]`

func encode(t *testing.T, header, payload string) []byte {
	t.Helper()
	raw, err := EncodeBytes([]byte(header), []byte(payload))
	require.NoError(t, err)
	return raw
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var aErr *errors.AtextError
	require.ErrorAs(t, err, &aErr)
	require.Equal(t, code, aErr.Code, "message: %s", aErr.Message)
}

func TestDecode_RoundTrip(t *testing.T) {
	raw := encode(t, sampleHeader, samplePayload)

	got, err := Decode(raw)
	require.NoError(t, err)

	want, err := tree.Parse([]byte(samplePayload))
	require.NoError(t, err)
	require.True(t, tree.Equal(want, got))
}

func TestDecode_LoneSurrogateInPayload(t *testing.T) {
	raw := encode(t, sampleHeader, `[{"0":"u1","1":"sig","4":"ok\ud800 tail"}]`)

	got, err := Decode(raw)
	require.NoError(t, err)

	want, err := tree.Parse([]byte(`[{"0":"u1","1":"sig","4":"ok\ufffd tail"}]`))
	require.NoError(t, err)
	require.True(t, tree.Equal(want, got))
}

func TestDecode_IgnoresWhitespace(t *testing.T) {
	pretty := "[\n  {\n    \"2\" : \"G1\",\n    \"99\" : 1\n  }\n]\n"
	raw := encode(t, sampleHeader, pretty)

	got, err := Decode(raw)
	require.NoError(t, err)

	want, _ := tree.Parse([]byte(`[{"2":"G1","99":1}]`))
	require.True(t, tree.Equal(want, got))
}

func TestDecode_MagicAtArbitraryOffset(t *testing.T) {
	for _, headerLen := range []int{0, 1, 7, 300, 4096} {
		header := strings.Repeat("h", headerLen)
		raw := encode(t, header, samplePayload)

		frame, err := Open(raw)
		require.NoError(t, err)
		// header + NUL separator
		require.Equal(t, headerLen+1, frame.Offset)
		require.Equal(t, header, string(frame.Header))
		require.Equal(t, samplePayload, string(frame.Payload))
	}
}

func TestDecode_TrailingGarbageIgnored(t *testing.T) {
	raw := encode(t, sampleHeader, samplePayload)
	raw = append(raw, []byte("trailing junk \x00\x01\x02 that is not lz4")...)

	got, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
}

func TestDecode_FirstMagicWins(t *testing.T) {
	// A decoy signature before the real frame is taken as the frame start.
	valid := encode(t, "", samplePayload)
	raw := append([]byte("xx"+Magic+"not a frame"), valid...)

	require.Equal(t, 2, FindFrame(raw))

	_, err := Decode(raw)
	requireCode(t, err, errors.ErrDecompressionFailed)
}

func TestDecode_MagicNotFound(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("plain text file"),
		[]byte("\x04\x22\x4d"),
		[]byte(sampleHeader + "\x00" + samplePayload),
	}

	for _, raw := range inputs {
		_, err := Decode(raw)
		requireCode(t, err, errors.ErrMagicNotFound)
	}
}

func TestDecode_MagicNotFoundNamesSource(t *testing.T) {
	d := &Decoder{Source: "Data.atext"}
	_, err := d.Decode([]byte("nope"))
	requireCode(t, err, errors.ErrMagicNotFound)
	require.Contains(t, err.Error(), "Data.atext")
}

func TestDecode_Truncated(t *testing.T) {
	raw := encode(t, sampleHeader, samplePayload)
	offset := FindFrame(raw)

	for _, cut := range []int{1, 4, 10} {
		_, err := Decode(raw[:len(raw)-cut])
		requireCode(t, err, errors.ErrDecompressionFailed)
	}

	// Only the magic, nothing after it.
	_, err := Decode(raw[:offset+len(Magic)])
	requireCode(t, err, errors.ErrDecompressionFailed)
}

func TestDecode_CorruptFrame(t *testing.T) {
	raw := encode(t, "", strings.Repeat(samplePayload, 20))

	corrupt := bytes.Clone(raw)
	offset := FindFrame(corrupt)
	// Frame descriptor flags byte: setting reserved bits makes it invalid.
	corrupt[offset+4] |= 0x03

	_, err := Decode(corrupt)
	requireCode(t, err, errors.ErrDecompressionFailed)
}

func TestDecode_PayloadLimit(t *testing.T) {
	raw := encode(t, "", samplePayload)

	d := &Decoder{MaxPayload: 16}
	_, err := d.Decode(raw)
	requireCode(t, err, errors.ErrDecompressionFailed)

	d = &Decoder{MaxPayload: int64(len(samplePayload))}
	_, err = d.Decode(raw)
	require.NoError(t, err)
}

func TestDecode_InvalidStructure(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"invalid utf8", "[\"\xff\xfe\"]"},
		{"not json", "this is not json"},
		{"truncated json", `[{"2":"G1"`},
		{"empty payload", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := encode(t, sampleHeader, tt.payload)
			_, err := Decode(raw)
			requireCode(t, err, errors.ErrInvalidStructure)
		})
	}
}

func TestFrame_HeaderValue(t *testing.T) {
	frame, err := Open(encode(t, sampleHeader, samplePayload))
	require.NoError(t, err)

	header, ok := frame.HeaderValue()
	require.True(t, ok)
	app, _ := header.Get("app").AsString()
	require.Equal(t, "aText", app)

	frame, err = Open(encode(t, "", samplePayload))
	require.NoError(t, err)
	_, ok = frame.HeaderValue()
	require.False(t, ok)
}

func TestEncode_RejectsMagicInHeader(t *testing.T) {
	_, err := EncodeBytes([]byte("abc"+Magic), []byte("[]"))
	require.Error(t, err)
}
