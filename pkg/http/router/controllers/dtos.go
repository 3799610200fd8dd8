package controllers

import (
	"github.com/lintang-b-s/stepnav/pkg/engine/routing"
	"github.com/lintang-b-s/stepnav/pkg/geo"
	"github.com/lintang-b-s/stepnav/pkg/http/usecases"
)

type shortestPathRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"min=-180,max=180"`
	Algorithm      string  `json:"algorithm" validate:"omitempty,oneof=dijkstra astar"`
}

func (req shortestPathRequest) toRouteRequest() usecases.RouteRequest {
	algorithm := routing.ASTAR
	if req.Algorithm != "" {
		// validated by oneof
		algorithm, _ = routing.ParseAlgorithm(req.Algorithm)
	}
	return usecases.RouteRequest{
		Source:      geo.NewCoordinate(req.OriginLat, req.OriginLon),
		Destination: geo.NewCoordinate(req.DestinationLat, req.DestinationLon),
		Algorithm:   algorithm,
	}
}

type shortestPathResponse struct {
	Algorithm       string  `json:"algorithm"`
	Path            string  `json:"path"`
	Dist            float64 `json:"distance"`
	Steps           int     `json:"steps"`
	NumSettledNodes int     `json:"settled_nodes"`
}

func NewShortestPathResponse(resp usecases.RouteResponse) shortestPathResponse {
	return shortestPathResponse{
		Algorithm:       resp.Algorithm,
		Path:            resp.Polyline,
		Dist:            resp.Distance,
		Steps:           resp.Steps,
		NumSettledNodes: resp.NumSettledNodes,
	}
}

type compareAlgorithmsResponse struct {
	Dijkstra shortestPathResponse `json:"dijkstra"`
	AStar    shortestPathResponse `json:"astar"`
	// settled nodes of a* relative to dijkstra
	SettledRatio float64 `json:"settled_ratio"`
}

func NewCompareAlgorithmsResponse(cmp usecases.Comparison) compareAlgorithmsResponse {
	ratio := 1.0
	if cmp.Dijkstra.NumSettledNodes > 0 {
		ratio = float64(cmp.AStar.NumSettledNodes) / float64(cmp.Dijkstra.NumSettledNodes)
	}
	return compareAlgorithmsResponse{
		Dijkstra:     NewShortestPathResponse(cmp.Dijkstra),
		AStar:        NewShortestPathResponse(cmp.AStar),
		SettledRatio: ratio,
	}
}

const (
	STEP_FRAME   = "step"
	FINISH_FRAME = "finish"
	ERROR_FRAME  = "error"
)

type frameNode struct {
	OsmID int64   `json:"osm_id"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

type stepFrameMessage struct {
	Type            string  `json:"type"`
	Step            int     `json:"step"`
	OsmID           int64   `json:"osm_id"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	FrontierSize    int     `json:"frontier_size"`
	NumSettledNodes int     `json:"settled_nodes"`
	// omitted for the source
	Predecessor *frameNode `json:"predecessor,omitempty"`
}

func newStepFrameMessage(frame usecases.StepFrame) stepFrameMessage {
	msg := stepFrameMessage{
		Type:            STEP_FRAME,
		Step:            frame.Step,
		OsmID:           frame.OsmID,
		Lat:             frame.Current.GetLat(),
		Lon:             frame.Current.GetLon(),
		FrontierSize:    frame.FrontierSize,
		NumSettledNodes: frame.NumSettledNodes,
	}
	if frame.HasPredecessor {
		msg.Predecessor = &frameNode{
			OsmID: frame.PredecessorOsmID,
			Lat:   frame.Predecessor.GetLat(),
			Lon:   frame.Predecessor.GetLon(),
		}
	}
	return msg
}

type finishFrameMessage struct {
	Type  string `json:"type"`
	Found bool   `json:"found"`
	shortestPathResponse
}

func newFinishFrameMessage(resp usecases.RouteResponse) finishFrameMessage {
	return finishFrameMessage{
		Type:                 FINISH_FRAME,
		Found:                resp.Found,
		shortestPathResponse: NewShortestPathResponse(resp),
	}
}

type errorFrameMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
