package osmparser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/stepnav/pkg/datastructure"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"go.uber.org/zap"
)

var (
	ErrUnknownFormat = errors.New("unknown map file format")
)

type Format int

const (
	FORMAT_XML Format = iota
	FORMAT_XML_BZ2
	FORMAT_PBF
	FORMAT_OVERPASS_JSON
)

func (f Format) String() string {
	switch f {
	case FORMAT_XML:
		return "osm-xml"
	case FORMAT_XML_BZ2:
		return "osm-xml-bz2"
	case FORMAT_PBF:
		return "osm-pbf"
	case FORMAT_OVERPASS_JSON:
		return "overpass-json"
	}
	return "unknown"
}

// FormatFromPath. detect the map file format from its extension.
func FormatFromPath(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".osm.bz2"), strings.HasSuffix(name, ".xml.bz2"):
		return FORMAT_XML_BZ2, nil
	case strings.HasSuffix(name, ".pbf"):
		return FORMAT_PBF, nil
	case strings.HasSuffix(name, ".osm"), strings.HasSuffix(name, ".xml"):
		return FORMAT_XML, nil
	case strings.HasSuffix(name, ".json"):
		return FORMAT_OVERPASS_JSON, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// ReadFile. read a map file into raw node/way records.
func ReadFile(ctx context.Context, path string, log *zap.Logger) ([]datastructure.RawElement, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	log.Info("reading map file", zap.String("path", path), zap.String("format", format.String()))
	return Read(ctx, f, format, log)
}

// Read. read raw records from r. every node is kept, only ways tagged highway with at least 2 nodes are kept.
// nodes come first followed by ways, each in input order.
func Read(ctx context.Context, r io.Reader, format Format, log *zap.Logger) ([]datastructure.RawElement, error) {
	var (
		collector = newRecordCollector()
		err       error
	)

	switch format {
	case FORMAT_XML:
		err = collector.scan(osmxml.New(ctx, r))
	case FORMAT_XML_BZ2:
		bz, bzErr := bzip2.NewReader(r, nil)
		if bzErr != nil {
			return nil, bzErr
		}
		defer bz.Close()
		err = collector.scan(osmxml.New(ctx, bz))
	case FORMAT_PBF:
		scanner := osmpbf.New(ctx, r, 1)
		scanner.SkipRelations = true
		err = collector.scan(scanner)
	case FORMAT_OVERPASS_JSON:
		err = collector.decodeOverpass(r)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, err
	}

	elements := collector.elements()
	log.Info("map records read", zap.Int("nodes", len(collector.nodes)), zap.Int("ways", len(collector.ways)),
		zap.Int("skippedWays", collector.skippedWays))
	return elements, nil
}

type recordCollector struct {
	nodes       []datastructure.RawElement
	ways        []datastructure.RawElement
	skippedWays int
}

func newRecordCollector() *recordCollector {
	return &recordCollector{
		nodes: make([]datastructure.RawElement, 0),
		ways:  make([]datastructure.RawElement, 0),
	}
}

// scan. must not be parallel, record order is file order.
func (c *recordCollector) scan(scanner osm.Scanner) error {
	defer scanner.Close()
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			c.addNode(o)
		case *osm.Way:
			c.addWay(o)
		}
	}
	return scanner.Err()
}

func (c *recordCollector) decodeOverpass(r io.Reader) error {
	var data osm.OSM
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return fmt.Errorf("decode overpass json: %w", err)
	}
	for _, n := range data.Nodes {
		c.addNode(n)
	}
	for _, w := range data.Ways {
		c.addWay(w)
	}
	return nil
}

func (c *recordCollector) addNode(n *osm.Node) {
	c.nodes = append(c.nodes, datastructure.NewRawNode(int64(n.ID), n.Lat, n.Lon))
}

func (c *recordCollector) addWay(w *osm.Way) {
	if !acceptOsmWay(w) {
		c.skippedWays++
		return
	}
	nodeIDs := make([]int64, 0, len(w.Nodes))
	for _, wn := range w.Nodes {
		nodeIDs = append(nodeIDs, int64(wn.ID))
	}
	c.ways = append(c.ways, datastructure.NewRawWay(int64(w.ID), nodeIDs))
}

func (c *recordCollector) elements() []datastructure.RawElement {
	elements := make([]datastructure.RawElement, 0, len(c.nodes)+len(c.ways))
	elements = append(elements, c.nodes...)
	elements = append(elements, c.ways...)
	return elements
}

func acceptOsmWay(way *osm.Way) bool {
	if len(way.Nodes) < 2 {
		return false
	}
	return way.Tags.Find("highway") != ""
}
