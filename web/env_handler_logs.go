package web

import (
	"context"
	"net/http"
	"pcluster/pcui/pcluster"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

func (env *Environ) LogStreamList(rw http.ResponseWriter, req *http.Request) {
	views, err := env.services.Logs.Views(env.context(req), env.vars(req)["name"], env.region(req))
	if err != nil {
		env.fail(rw, req, err, "failed to list log streams")
		return
	}
	env.render.JSON(rw, http.StatusOK, map[string]interface{}{"logStreams": views})
}

func (env *Environ) LogEventList(rw http.ResponseWriter, req *http.Request) {
	vars := env.vars(req)
	query := req.URL.Query()
	eventsQuery := pcluster.LogEventsQuery{
		StartTime: query.Get("startTime"),
		EndTime:   query.Get("endTime"),
		NextToken: query.Get("nextToken"),
	}
	if raw := query.Get("startFromHead"); raw != "" {
		fromHead, err := strconv.ParseBool(raw)
		if err != nil {
			env.error(rw, req, err, "invalid startFromHead", http.StatusBadRequest)
			return
		}
		eventsQuery.StartFromHead = &fromHead
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			env.error(rw, req, err, "invalid limit", http.StatusBadRequest)
			return
		}
		eventsQuery.Limit = limit
	}
	page, err := env.services.Logs.Events(env.context(req), vars["name"], env.region(req), vars["stream"], eventsQuery)
	if err != nil {
		env.fail(rw, req, err, "failed to fetch log events")
		return
	}
	env.render.JSON(rw, http.StatusOK, page)
}

// LogTail streams new events of a log stream over a websocket until the
// client goes away.
func (env *Environ) LogTail(rw http.ResponseWriter, req *http.Request) {
	vars := env.vars(req)
	conn, err := env.ws.Upgrade(rw, req, nil)
	if err != nil {
		env.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(env.context(req))
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	err = env.services.Logs.Follow(ctx, vars["name"], env.region(req), vars["stream"], env.tailInterval, func(events []pcluster.LogEvent) error {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(map[string]interface{}{"events": events})
	})
	if err != nil {
		env.logger.Warn().Err(err).Str("stream", vars["stream"]).Msg("log tail stopped")
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "log tail failed"))
		return
	}
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
