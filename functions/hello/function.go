// Package hello is the Cloud Functions deployment of the greeting endpoint.
package hello

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"go.uber.org/zap"
)

// RFC3339Millis matches the service's timestamp format.
const RFC3339Millis = "2006-01-02T15:04:05.000Z"

// DefaultName is greeted when no name is supplied.
const DefaultName = "DevOps"

func init() {
	functions.HTTP("Hello", helloHandler)
}

// Request represents the optional request body.
type Request struct {
	Name string `json:"name"`
}

// Response mirrors GET /api/hello.
type Response struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// now and logger are replaced in tests.
var (
	now    = time.Now
	logger = newLogger()
)

func newLogger() *zap.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func helloHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if r.Method == http.MethodPost && r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
	}

	name := req.Name
	if name == "" {
		name = r.URL.Query().Get("name")
	}
	if name == "" {
		name = DefaultName
	}

	resp := Response{
		Message:   "Hello, " + name + "!",
		Timestamp: now().UTC().Format(RFC3339Millis),
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeJSON encodes v before touching the response so an encoding failure
// still yields a clean 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("failed to encode response", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Warn("failed to write response", zap.Error(err))
	}
}
