package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/repository"
	"github.com/stemsi/records-admin/internal/response"
	"github.com/stemsi/records-admin/internal/view"
	ws "github.com/stemsi/records-admin/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// LiveFilterHandler answers filter changes on a mounted list page without a
// reload, over JSON or a WebSocket.
type LiveFilterHandler struct {
	filter   *view.LiveFilter
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewLiveFilterHandler creates a new LiveFilterHandler.
func NewLiveFilterHandler(filter *view.LiveFilter, log zerolog.Logger, allowedOrigins []string) *LiveFilterHandler {
	return &LiveFilterHandler{
		filter:   filter,
		log:      log.With().Str("component", "live_filter").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// Keys godoc
// GET /api/views/:view_id/keys?q=&field=&semester=
// Returns the keys of the held rows that pass the filter.
func (h *LiveFilterHandler) Keys(c *gin.Context) {
	keys, err := h.filter.Keys(c.Request.Context(), c.Param("view_id"), bindQuery(c))
	if err != nil {
		if errors.Is(err, repository.ErrStateNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrViewExpired)
			return
		}
		h.log.Error().Err(err).Str("view_id", c.Param("view_id")).Msg("Live filter failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	response.Success(c, http.StatusOK, gin.H{"keys": keys})
}

// Stream godoc
// WS /ws/views/:view_id
// Each filter message is answered with the visible keys.
func (h *LiveFilterHandler) Stream(c *gin.Context) {
	viewID := c.Param("view_id")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("view_id", viewID).Logger()
	wsLog.Debug().Msg("Live filter connected")

	for {
		var msg ws.FilterRequest
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionFilter:
			if !h.handleFilter(c, conn, wsLog, viewID, &msg) {
				return
			}
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			ws.WriteError(conn, string(response.ErrInvalidPayload), "unknown action: "+string(msg.Action))
		}
	}
}

// handleFilter answers one filter message. It returns false once the view
// has expired; the client reloads the page then.
func (h *LiveFilterHandler) handleFilter(c *gin.Context, conn *websocket.Conn, wsLog zerolog.Logger, viewID string, msg *ws.FilterRequest) bool {
	q := view.Query{Text: msg.Query, Field: msg.Field, Semester: msg.Semester}
	if q.Field == "" {
		q.Field = view.FieldAll
	}

	keys, err := h.filter.Keys(c.Request.Context(), viewID, q)
	if errors.Is(err, repository.ErrStateNotFound) {
		ws.WriteError(conn, string(response.ErrViewExpired), response.GetMessage(response.ErrViewExpired))
		return false
	}
	if err != nil {
		wsLog.Error().Err(err).Msg("Live filter failed")
		ws.WriteError(conn, string(response.ErrInternal), response.GetMessage(response.ErrInternal))
		return true
	}
	if err := ws.WriteKeys(conn, keys); err != nil {
		wsLog.Debug().Err(err).Msg("Write keys failed")
		return false
	}
	return true
}
