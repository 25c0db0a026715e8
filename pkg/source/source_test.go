package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/wpstat/internal/waterpoint"
)

const sampleArray = `[
  {"communities_villages": "Tantala", "water_functioning": "yes", "water_point_id": 12},
  {"communities_villages": "Zundem", "water_functioning": "no"},
  {"communities_villages": "Tantala", "water_functioning": "no", "_geolocation": [10.1, -1.2]}
]`

func TestDecode_JSONArray(t *testing.T) {
	records, err := Decode([]byte(sampleArray))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Tantala", records[0]["communities_villages"])
	assert.Equal(t, "yes", records[0]["water_functioning"])
	assert.Equal(t, "12", records[0]["water_point_id"])
	_, hasGeo := records[2]["_geolocation"]
	assert.False(t, hasGeo, "array attributes are dropped")
}

func TestDecode_ScalarConversion(t *testing.T) {
	records, err := Decode([]byte(`[{"s":"x","n":1.50,"b":true,"f":false,"z":null,"o":{"k":1}}]`))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, waterpoint.Record{"s": "x", "n": "1.50", "b": "true", "f": "false"}, records[0])
}

func TestDecode_NonObjectElementsBecomeNilRecords(t *testing.T) {
	records, err := Decode([]byte(`[{"a":"1"}, 5, "text", null]`))
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.NotNil(t, records[0])
	assert.Nil(t, records[1])
	assert.Nil(t, records[2])
	assert.Nil(t, records[3])
}

func TestDecode_NDJSON(t *testing.T) {
	input := `{"communities_villages":"Tantala","water_functioning":"yes"}` + "\n" +
		"\n" +
		`{"communities_villages":"Zundem","water_functioning":"no"}` + "\n"
	records, err := Decode([]byte(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Zundem", records[1]["communities_villages"])
}

func TestDecode_NDJSONSingleRecord(t *testing.T) {
	records, err := Decode([]byte(`{"communities_villages":"Tantala","water_functioning":"yes"}` + "\n"))
	require.NoError(t, err)
	assert.Equal(t, []waterpoint.Record{{"communities_villages": "Tantala", "water_functioning": "yes"}}, records)
}

func TestDecode_NDJSONBadLine(t *testing.T) {
	input := `{"a":"1"}` + "\n" + `{"a":"2"}` + "\n" + "not json\n"
	_, err := Decode([]byte(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownloadFailed)
	assert.Contains(t, err.Error(), "line 3")
}

func TestDecode_RejectsNonArrayPayloads(t *testing.T) {
	for _, input := range []string{
		``,
		`{"communities_villages":"Tantala"}`,
		`"just a string"`,
		`[{"unterminated": `,
		`<html>404</html>`,
	} {
		_, err := Decode([]byte(input))
		require.Error(t, err, "input %q", input)
		assert.ErrorIs(t, err, ErrDownloadFailed)
	}
}

func TestDecode_EmptyArray(t *testing.T) {
	records, err := Decode([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoad_HTTP(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleArray))
	}))
	defer srv.Close()

	l := NewLoader(5*time.Second, "wpstat/test")
	records, err := l.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, "wpstat/test", gotUA)
	assert.Equal(t, "application/json", gotAccept)
}

func TestLoad_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewLoader(5*time.Second, "").Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownloadFailed)
	assert.Contains(t, err.Error(), "404")
}

func TestLoad_HTTPCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewLoader(5*time.Second, "").Load(ctx, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownloadFailed)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "water_points.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleArray), 0o644))

	l := NewLoader(time.Second, "")
	for _, src := range []string{path, "file://" + path} {
		records, err := l.Load(context.Background(), src)
		require.NoError(t, err, src)
		assert.Len(t, records, 3)
	}
}

func TestLoad_Stdin(t *testing.T) {
	l := &DefaultLoader{Stdin: strings.NewReader(sampleArray)}
	records, err := l.Load(context.Background(), Stdin)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "empty", src: ""},
		{name: "blank", src: "   "},
		{name: "malformed url", src: "ABsdfaxc"},
		{name: "missing file", src: filepath.Join(t.TempDir(), "nope.json")},
	}
	l := NewLoader(time.Second, "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Load(context.Background(), tt.src)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDownloadFailed)
		})
	}
}

func TestLoad_MaxBytes(t *testing.T) {
	l := &DefaultLoader{Stdin: strings.NewReader(sampleArray), MaxBytes: 10}
	_, err := l.Load(context.Background(), Stdin)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownloadFailed)
	assert.Contains(t, err.Error(), "exceeds 10 bytes")
}
