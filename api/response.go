package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/katalvlaran/relief/bfs"
	"github.com/katalvlaran/relief/coordinator"
	"github.com/katalvlaran/relief/core"
	"github.com/katalvlaran/relief/dijkstra"
	"github.com/katalvlaran/relief/distribution"
	"github.com/katalvlaran/relief/evacuation"
	"github.com/katalvlaran/relief/pqueue"
	"github.com/katalvlaran/relief/scenario"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *Error      `json:"error,omitempty"`
	RequestID string      `json:"request_id"`
}

// Error describes a failed request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	CodeNotFound        = "not_found"
	CodeInvalidArgument = "invalid_argument"
	CodeEmpty           = "empty"
	CodeConflict        = "conflict"
	CodeInternal        = "internal"
)

var (
	notFound = []error{
		core.ErrNodeNotFound,
		dijkstra.ErrVertexNotFound,
		bfs.ErrStartNotFound,
		evacuation.ErrEvacuationNotFound,
		distribution.ErrNodeNotFound,
		coordinator.ErrZoneNotFound,
		coordinator.ErrResourceNotFound,
		coordinator.ErrTeamNotFound,
	}
	invalid = []error{
		core.ErrEmptyNodeID,
		dijkstra.ErrEmptySource,
		evacuation.ErrEmptyZone,
		evacuation.ErrInvalidHeadcount,
		distribution.ErrNegativeQuantity,
		distribution.ErrInvalidWeight,
		distribution.ErrDuplicateKey,
		scenario.ErrInvalidScenario,
		scenario.ErrInvalidAmount,
	}
	empty = []error{
		pqueue.ErrEmptyQueue,
		evacuation.ErrNothingPending,
	}
)

// classify maps an error to an HTTP status and code.
func classify(err error) (int, string) {
	switch {
	case isAny(err, notFound):
		return http.StatusNotFound, CodeNotFound
	case isAny(err, invalid):
		return http.StatusBadRequest, CodeInvalidArgument
	case isAny(err, empty):
		return http.StatusConflict, CodeEmpty
	case errors.Is(err, evacuation.ErrCompleted), errors.Is(err, scenario.ErrInsufficientStock):
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Success: true, Data: data, RequestID: requestID(r)})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{
		Error:     &Error{Code: code, Message: msg},
		RequestID: requestID(r),
	})
}
