package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/deliverypro/deliverypro-backend/api/responses"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
	pkgredis "github.com/deliverypro/deliverypro-backend/pkg/redis"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// Routes that honor the Idempotency-Key header. Checkout submission is the
// one money-shaped operation in the demo.
var idempotentRoutes = map[string]string{
	http.MethodPost + " /api/v1/checkout/submit": "checkout",
}

type idempotencyRecord struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// Idempotency replays the stored response when a request repeats the same
// Idempotency-Key. Requests without the header pass through untouched.
func Idempotency(store *pkgredis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, tracked := idempotentRoutes[r.Method+" "+r.URL.Path]
			key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if !tracked || key == "" || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			storeKey := store.IdempotencyKey(scope, key)

			if raw, err := store.Get(ctx, storeKey); err == nil {
				var record idempotencyRecord
				if err := json.Unmarshal([]byte(raw), &record); err == nil {
					if record.Status == 0 {
						// First request still in flight.
						responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConflict, "request with this idempotency key is in progress"))
						return
					}
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(record.Status)
					_, _ = w.Write([]byte(record.Body))
					return
				}
			} else if !errors.Is(err, pkgredis.ErrNotFound) {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "idempotency lookup"))
				return
			}

			pending, _ := json.Marshal(idempotencyRecord{})
			acquired, err := store.SetNX(ctx, storeKey, string(pending), idempotencyTTL)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "idempotency reserve"))
				return
			}
			if !acquired {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConflict, "request with this idempotency key is in progress"))
				return
			}

			rec := &bufferingRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			record, _ := json.Marshal(idempotencyRecord{Status: status, Body: rec.body.String()})
			if err := store.Set(ctx, storeKey, string(record), idempotencyTTL); err != nil && logg != nil {
				logg.Warn(ctx, "failed to store idempotency record")
			}
		})
	}
}

type bufferingRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *bufferingRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *bufferingRecorder) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}
