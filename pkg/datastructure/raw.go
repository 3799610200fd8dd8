package datastructure

import "github.com/lintang-b-s/stepnav/pkg/geo"

type RawElementType uint8

const (
	RAW_NODE RawElementType = iota
	RAW_WAY
)

// RawElement. one record of an already parsed road dataset: either a node (id + coordinate)
// or a way (ordered chain of node ids).
type RawElement struct {
	elementType RawElementType
	id          int64
	coord       geo.Coordinate
	nodes       []int64
}

func NewRawNode(id int64, lat, lon float64) RawElement {
	return RawElement{
		elementType: RAW_NODE,
		id:          id,
		coord:       geo.NewCoordinate(lat, lon),
	}
}

func NewRawWay(id int64, nodes []int64) RawElement {
	return RawElement{
		elementType: RAW_WAY,
		id:          id,
		nodes:       nodes,
	}
}

func (e RawElement) IsNode() bool {
	return e.elementType == RAW_NODE
}

func (e RawElement) IsWay() bool {
	return e.elementType == RAW_WAY
}

func (e RawElement) GetID() int64 {
	return e.id
}

func (e RawElement) GetCoordinate() geo.Coordinate {
	return e.coord
}

// GetNodes. node ids of a way record, nil for node records
func (e RawElement) GetNodes() []int64 {
	return e.nodes
}
