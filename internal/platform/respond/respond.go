// Package respond renders router-level failures (unknown route, wrong method,
// panics) as RFC 9457 problem details, negotiated between JSON and CBOR.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	applog "github.com/janisto/cicd-demo-api/internal/platform/logging"
)

const (
	contentTypeProblemJSON = "application/problem+json"
	contentTypeProblemCBOR = "application/problem+cbor"

	msgNotFound            = "resource not found"
	msgInternalServerError = "internal server error"
)

// NotFoundHandler answers unmatched routes with a 404 problem.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteProblem(w, r, http.StatusNotFound, msgNotFound, nil)
	}
}

// MethodNotAllowedHandler answers a known path requested with an unsupported
// method. The Allow header lists the methods chi would route.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		detail := fmt.Sprintf("method %s not allowed", r.Method)
		WriteProblem(w, r, http.StatusMethodNotAllowed, detail, nil)
	}
}

// Recoverer turns handler panics into 500 problems. http.ErrAbortHandler is
// re-panicked so net/http can abort the connection.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				var err error
				switch v := rec.(type) {
				case error:
					err = v
				default:
					err = fmt.Errorf("%v", v)
				}
				err = fmt.Errorf("panic: %w\n%s", err, debug.Stack())
				if ww.Status() != 0 {
					applog.LogError(r.Context(), "panic after response started", err)
					return
				}
				WriteProblem(ww, r, http.StatusInternalServerError, msgInternalServerError, err)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// WriteProblem writes a huma.ErrorModel with the given status and detail and
// logs it (5xx at error level, 4xx at warn). cause is logged, never rendered.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string, cause error) {
	problem := &huma.ErrorModel{
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}

	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if status >= http.StatusInternalServerError {
		applog.LogError(r.Context(), detail, cause, fields...)
	} else {
		if cause != nil {
			fields = append(fields, zap.Error(cause))
		}
		applog.LogWarn(r.Context(), detail, fields...)
	}

	var (
		body        []byte
		err         error
		contentType = contentTypeProblemJSON
	)
	if prefersCBOR(r.Header.Get("Accept")) {
		contentType = contentTypeProblemCBOR
		body, err = cbor.Marshal(problem)
	} else {
		body, err = json.Marshal(problem)
	}
	if err != nil {
		applog.LogError(r.Context(), "failed to encode problem", err)
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		applog.LogWarn(r.Context(), "failed to write problem", zap.Error(err))
	}
}

// prefersCBOR reports whether the Accept header ranks CBOR strictly above JSON.
// Wildcards and a missing header resolve to JSON.
func prefersCBOR(accept string) bool {
	if accept == "" {
		return false
	}
	cborQ, jsonQ := -1.0, -1.0
	for part := range strings.SplitSeq(accept, ",") {
		mediaType, q, ok := parseMediaRange(part)
		if !ok {
			continue
		}
		switch mediaType {
		case "application/cbor", contentTypeProblemCBOR:
			cborQ = max(cborQ, q)
		case "application/json", contentTypeProblemJSON:
			jsonQ = max(jsonQ, q)
		}
	}
	return cborQ > 0 && cborQ > jsonQ
}

func parseMediaRange(part string) (string, float64, bool) {
	segments := strings.Split(part, ";")
	mediaType := strings.ToLower(strings.TrimSpace(segments[0]))
	if mediaType == "" || !strings.Contains(mediaType, "/") {
		return "", 0, false
	}
	q := 1.0
	for _, param := range segments[1:] {
		key, value, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || parsed < 0 || parsed > 1 {
			return "", 0, false
		}
		q = parsed
	}
	return mediaType, q, true
}

// allowedMethods asks chi's route tree which methods match the request path.
func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}
	routePath := rctx.RoutePath
	if routePath == "" {
		routePath = r.URL.RawPath
		if routePath == "" {
			routePath = r.URL.Path
		}
		if routePath == "" {
			routePath = "/"
		}
	}

	candidates := []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	}
	allowed := make([]string, 0, len(candidates))
	getAllowed := false
	for _, method := range candidates {
		if rctx.Routes.Match(chi.NewRouteContext(), method, routePath) {
			allowed = append(allowed, method)
			getAllowed = getAllowed || method == http.MethodGet
			continue
		}
		// GetHead serves HEAD through the GET handler.
		if method == http.MethodHead && getAllowed {
			allowed = append(allowed, method)
		}
	}
	return allowed
}
