package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/stepnav/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	log            *zap.Logger
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/computeRoutes", api.shortestPath)
	group.GET("/compareAlgorithms", api.compareAlgorithms)
	group.GET("/searchStream", api.searchStream)
}

func parseRouteQuery(query url.Values) (shortestPathRequest, error) {
	var (
		request shortestPathRequest
		err     error
	)

	request.OriginLat, err = strconv.ParseFloat(query.Get("origin_lat"), 64)
	if err != nil {
		return request, errors.New("origin_lat is required and must be a valid float")
	}
	request.OriginLon, err = strconv.ParseFloat(query.Get("origin_lon"), 64)
	if err != nil {
		return request, errors.New("origin_lon is required and must be a valid float")
	}
	request.DestinationLat, err = strconv.ParseFloat(query.Get("destination_lat"), 64)
	if err != nil {
		return request, errors.New("destination_lat is required and must be a valid float")
	}
	request.DestinationLon, err = strconv.ParseFloat(query.Get("destination_lon"), 64)
	if err != nil {
		return request, errors.New("destination_lon is required and must be a valid float")
	}
	request.Algorithm = query.Get("algorithm")

	if err := validateRequest(request); err != nil {
		return request, err
	}
	return request, nil
}

// shortestPath
//
//	@Summary		shortest path between origin and destination
//	@Description	dijkstra or a* (default) over the road graph around both points, path encoded as google polyline
//	@Tags			routing
//	@Produce		json
//	@Param			origin_lat		query		number	true	"origin latitude"
//	@Param			origin_lon		query		number	true	"origin longitude"
//	@Param			destination_lat	query		number	true	"destination latitude"
//	@Param			destination_lon	query		number	true	"destination longitude"
//	@Param			algorithm		query		string	false	"dijkstra | astar"
//	@Success		200				{object}	shortestPathResponse
//	@Failure		400,404,500		{object}	errorResponse
//	@Router			/computeRoutes [get]
func (api *routingAPI) shortestPath(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request, err := parseRouteQuery(r.URL.Query())
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	resp, err := api.routingService.ShortestPath(r.Context(), request.toRouteRequest())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewShortestPathResponse(resp)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// compareAlgorithms
//
//	@Summary		run dijkstra and a* for the same query
//	@Tags			routing
//	@Produce		json
//	@Param			origin_lat		query		number	true	"origin latitude"
//	@Param			origin_lon		query		number	true	"origin longitude"
//	@Param			destination_lat	query		number	true	"destination latitude"
//	@Param			destination_lon	query		number	true	"destination longitude"
//	@Success		200				{object}	compareAlgorithmsResponse
//	@Failure		400,404,500		{object}	errorResponse
//	@Router			/compareAlgorithms [get]
func (api *routingAPI) compareAlgorithms(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request, err := parseRouteQuery(r.URL.Query())
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	req := request.toRouteRequest()

	cmp, err := api.routingService.CompareAlgorithms(r.Context(), req.Source, req.Destination)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewCompareAlgorithmsResponse(cmp)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
