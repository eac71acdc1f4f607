// Package result contains helpers used to write out grammarkit registry
// server API responses as JSON.
package result

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// ErrorResponse is the JSON body written for any non-2xx response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Result is a deferred HTTP response: a status code, a body to encode as
// JSON, optional extra headers, and an internal log line recorded
// regardless of whether the body is shown to the caller.
type Result struct {
	status     int
	body       interface{}
	headers    map[string]string
	logMsgFmt  string
	logMsgArgs []interface{}
}

// WithHeader attaches an extra header to be set before the body is written.
func (r Result) WithHeader(key, value string) Result {
	if r.headers == nil {
		r.headers = map[string]string{}
	}
	r.headers[key] = value
	return r
}

// Response builds a Result carrying respObj as a JSON body with the given
// status code.
func Response(status int, respObj interface{}, internalMsgFmt string, args ...interface{}) Result {
	return Result{status: status, body: respObj, logMsgFmt: internalMsgFmt, logMsgArgs: args}
}

// Err builds a Result carrying userMsg as a JSON ErrorResponse body with the
// given status code.
func Err(status int, userMsg string, internalMsgFmt string, args ...interface{}) Result {
	return Result{
		status:     status,
		body:       ErrorResponse{Error: userMsg, Status: status},
		logMsgFmt:  internalMsgFmt,
		logMsgArgs: args,
	}
}

// OK returns a Result containing an HTTP-200.
func OK(respObj interface{}) Result {
	return Response(http.StatusOK, respObj, "OK")
}

// Created returns a Result containing an HTTP-201.
func Created(respObj interface{}) Result {
	return Response(http.StatusCreated, respObj, "created")
}

// BadRequest returns a Result containing an HTTP-400.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	return errWithDefaultMsg(http.StatusBadRequest, userMsg, "bad request", internalMsg)
}

// Unauthorized returns a Result containing an HTTP-401 along with the proper
// WWW-Authenticate header.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}
	return errWithDefaultMsg(http.StatusUnauthorized, userMsg, "unauthorized", internalMsg).
		WithHeader("WWW-Authenticate", `Bearer realm="grammarkit registry"`)
}

// NotFound returns a Result containing an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	return errWithDefaultMsg(http.StatusNotFound, "The requested resource was not found", "not found", internalMsg)
}

// Conflict returns a Result containing an HTTP-409.
func Conflict(userMsg string, internalMsg ...interface{}) Result {
	return errWithDefaultMsg(http.StatusConflict, userMsg, "conflict", internalMsg)
}

// InternalServerError returns a Result containing an HTTP-500. The user
// never sees internalMsg; only a generic message is shown.
func InternalServerError(internalMsg ...interface{}) Result {
	return errWithDefaultMsg(http.StatusInternalServerError, "An internal server error occurred", "internal error", internalMsg)
}

func errWithDefaultMsg(status int, userMsg, defaultLogMsg string, internalMsg []interface{}) Result {
	logMsgFmt := defaultLogMsg
	var args []interface{}
	if len(internalMsg) >= 1 {
		if fmtStr, ok := internalMsg[0].(string); ok {
			logMsgFmt = fmtStr
			args = internalMsg[1:]
		}
	}
	return Err(status, userMsg, logMsgFmt, args...)
}

// WriteResponse logs the Result's internal message and writes its status,
// headers, and JSON body to w.
func (r Result) WriteResponse(w http.ResponseWriter, req *http.Request) {
	log.Printf("%s %s -> %d %s", req.Method, req.URL.Path, r.status, fmt.Sprintf(r.logMsgFmt, r.logMsgArgs...))

	for k, v := range r.headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.status)

	if r.body != nil {
		if err := json.NewEncoder(w).Encode(r.body); err != nil {
			log.Printf("ERROR: encode response body: %s", err)
		}
	}
}
