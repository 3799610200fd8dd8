package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/stepnav/pkg/http/usecases"
	"go.uber.org/zap"
)

// searchStream. websocket endpoint. the client sends one route request (same fields as /computeRoutes),
// the server answers with one step frame per search step, then a finish frame (or an error frame) and closes.
//
//	@Summary	stream the steps of a route search over a websocket
//	@Tags		routing
//	@Router		/searchStream [get]
func (api *routingAPI) searchStream(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	conn, brw, hs, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		api.log.Info("upgrade error", zap.Error(err))
		return
	}
	defer conn.Close()
	// server read/write timeouts were armed for a plain request
	_ = conn.SetDeadline(time.Time{})

	var rd io.Reader = conn
	if brw != nil && brw.Reader.Buffered() > 0 {
		rd = brw.Reader
	}
	rw := struct {
		io.Reader
		io.Writer
	}{rd, conn}

	api.log.Info("established websocket connection", zap.String("connection name", nameConn(conn)),
		zap.String("protocol", hs.Protocol))

	request, err := readStreamRequest(rw)
	if err != nil {
		api.writeErrorFrame(conn, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateRequest(request); err != nil {
		api.writeErrorFrame(conn, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go watchClose(rw, cancel)

	resp, err := api.routingService.StreamSearch(ctx, request.toRouteRequest(), func(frame usecases.StepFrame) error {
		return writeFrame(conn, newStepFrameMessage(frame))
	})
	if err != nil {
		if ctx.Err() != nil {
			api.log.Info("websocket client left during search", zap.String("connection name", nameConn(conn)))
			return
		}
		status, message := statusOf(err)
		if status == http.StatusInternalServerError {
			api.log.Error("error streaming search", zap.Error(err))
		}
		api.writeErrorFrame(conn, status, message)
		return
	}

	if err := writeFrame(conn, newFinishFrameMessage(resp)); err != nil {
		api.log.Info("error writing finish frame", zap.Error(err))
		return
	}
	_ = ws.WriteFrame(conn, ws.NewCloseFrame(ws.NewCloseFrameBody(ws.StatusNormalClosure, "")))
}

func readStreamRequest(conn io.ReadWriter) (shortestPathRequest, error) {
	var req shortestPathRequest
	for {
		h, r, err := wsutil.NextReader(conn, ws.StateServerSide)
		if err != nil {
			return req, err
		}
		if h.OpCode.IsControl() {
			if err := wsutil.ControlFrameHandler(conn, ws.StateServerSide)(h, r); err != nil {
				return req, err
			}
			continue
		}

		if err := json.NewDecoder(r).Decode(&req); err != nil {
			return req, errors.New("route request must be a json object")
		}
		return req, nil
	}
}

// watchClose. cancel once the client closes the connection or the connection breaks.
func watchClose(conn io.Reader, cancel context.CancelFunc) {
	defer cancel()
	for {
		h, r, err := wsutil.NextReader(conn, ws.StateServerSide)
		if err != nil || h.OpCode == ws.OpClose {
			return
		}
		if _, err := io.Copy(io.Discard, r); err != nil {
			return
		}
	}
}

func writeFrame(conn io.Writer, msg any) error {
	wr := wsutil.NewWriter(conn, ws.StateServerSide, ws.OpText)
	if err := json.NewEncoder(wr).Encode(msg); err != nil {
		return err
	}
	return wr.Flush()
}

func (api *routingAPI) writeErrorFrame(conn io.Writer, status int, message string) {
	err := writeFrame(conn, errorFrameMessage{
		Type:    ERROR_FRAME,
		Code:    http.StatusText(status),
		Message: message,
	})
	if err != nil {
		api.log.Info("error writing error frame", zap.Error(err))
	}
}

func nameConn(conn net.Conn) string {
	return conn.LocalAddr().String() + " > " + conn.RemoteAddr().String()
}
