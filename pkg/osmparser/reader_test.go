package osmparser

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/stepnav/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6">
  <node id="1" lat="-7.7600" lon="110.3700"/>
  <node id="2" lat="-7.7610" lon="110.3710"/>
  <node id="3" lat="-7.7620" lon="110.3720"/>
  <way id="10">
    <nd ref="1"/>
    <nd ref="2"/>
    <nd ref="3"/>
    <tag k="highway" v="residential"/>
  </way>
  <way id="11">
    <nd ref="1"/>
    <nd ref="3"/>
    <tag k="building" v="yes"/>
  </way>
  <way id="12">
    <nd ref="2"/>
    <tag k="highway" v="service"/>
  </way>
</osm>`

const sampleOverpassJSON = `{
  "version": 0.6,
  "elements": [
    {"type": "node", "id": 1, "lat": -7.76, "lon": 110.37},
    {"type": "node", "id": 2, "lat": -7.761, "lon": 110.371},
    {"type": "way", "id": 10, "nodes": [1, 2], "tags": {"highway": "primary"}},
    {"type": "way", "id": 11, "nodes": [2, 1], "tags": {"waterway": "river"}}
  ]
}`

func TestFormatFromPath(t *testing.T) {
	testCases := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "./data/map.osm", want: FORMAT_XML},
		{path: "./data/map.XML", want: FORMAT_XML},
		{path: "./data/map.osm.bz2", want: FORMAT_XML_BZ2},
		{path: "./data/map.osm.pbf", want: FORMAT_PBF},
		{path: "overpass.json", want: FORMAT_OVERPASS_JSON},
		{path: "map.csv", wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func assertSampleRecords(t *testing.T, elements []datastructure.RawElement, wantNodes int, wantWay []int64) {
	t.Helper()
	require.Len(t, elements, wantNodes+1)
	for i := 0; i < wantNodes; i++ {
		assert.True(t, elements[i].IsNode())
		assert.Equal(t, int64(i+1), elements[i].GetID())
	}
	way := elements[wantNodes]
	assert.True(t, way.IsWay())
	assert.Equal(t, int64(10), way.GetID())
	assert.Equal(t, wantWay, way.GetNodes())
}

func TestReadXML(t *testing.T) {
	elements, err := Read(context.Background(), strings.NewReader(sampleXML), FORMAT_XML, zap.NewNop())
	require.NoError(t, err)
	assertSampleRecords(t, elements, 3, []int64{1, 2, 3})

	assert.InDelta(t, -7.761, elements[1].GetCoordinate().GetLat(), 1e-9)
	assert.InDelta(t, 110.371, elements[1].GetCoordinate().GetLon(), 1e-9)
}

func TestReadBzip2(t *testing.T) {
	var buf bytes.Buffer
	bw, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{})
	require.NoError(t, err)
	_, err = bw.Write([]byte(sampleXML))
	require.NoError(t, err)
	require.NoError(t, bw.Close())

	elements, err := Read(context.Background(), &buf, FORMAT_XML_BZ2, zap.NewNop())
	require.NoError(t, err)
	assertSampleRecords(t, elements, 3, []int64{1, 2, 3})
}

func TestReadOverpassJSON(t *testing.T) {
	elements, err := Read(context.Background(), strings.NewReader(sampleOverpassJSON), FORMAT_OVERPASS_JSON,
		zap.NewNop())
	require.NoError(t, err)
	assertSampleRecords(t, elements, 2, []int64{1, 2})
}

func TestReadFileFeedsGraphBuilder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.osm")
	require.NoError(t, os.WriteFile(path, []byte(sampleXML), 0o644))

	elements, err := ReadFile(context.Background(), path, zap.NewNop())
	require.NoError(t, err)

	first := elements[0].GetCoordinate()
	last := elements[2].GetCoordinate()
	g, s, d, err := datastructure.BuildGraph(elements, first, last)
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumberOfVertices())
	assert.Equal(t, 2, g.NumberOfEdges())
	assert.Equal(t, int64(1), g.GetOsmID(s))
	assert.Equal(t, int64(3), g.GetOsmID(d))

	_, err = ReadFile(context.Background(), filepath.Join(t.TempDir(), "sample.csv"), zap.NewNop())
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
