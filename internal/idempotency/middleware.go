package idempotency

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/GlebRadaev/fortvest/pkg/auth"
	"github.com/GlebRadaev/fortvest/pkg/utils"
	"go.uber.org/zap"
)

const (
	HeaderKey      = "Idempotency-Key"
	HeaderReplayed = "Idempotent-Replayed"
	maxKeyLength   = 255
)

type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// Middleware makes requests carrying an Idempotency-Key safe to retry.
// Keys are scoped to the caller, method and path. Store failures let the request through.
func Middleware(store Store, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(HeaderKey)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > maxKeyLength {
				utils.RespondWithKind(w, http.StatusBadRequest, "VALIDATION_ERROR", "idempotency key is too long")
				return
			}

			userID, _ := auth.UserIDFromContext(r.Context())
			scoped := fmt.Sprintf("idem:%d:%s:%s:%s", userID, r.Method, r.URL.Path, key)

			reserved, err := store.Reserve(r.Context(), scoped, ttl)
			if err != nil {
				zap.L().Error("idempotency store unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !reserved {
				replay(w, r, store, scoped)
				return
			}

			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			ctx := context.WithoutCancel(r.Context())
			if rec.status == 0 || rec.status >= http.StatusInternalServerError {
				if err := store.Release(ctx, scoped); err != nil {
					zap.L().Error("failed to release idempotency key", zap.Error(err))
				}
				return
			}
			saved := Record{
				Status:      rec.status,
				ContentType: w.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}
			if err := store.Save(ctx, scoped, saved, ttl); err != nil {
				zap.L().Error("failed to save idempotent response", zap.Error(err))
			}
		})
	}
}

func replay(w http.ResponseWriter, r *http.Request, store Store, key string) {
	saved, err := store.Load(r.Context(), key)
	if err != nil {
		zap.L().Error("failed to load idempotent response", zap.Error(err))
		utils.RespondWithKind(w, http.StatusServiceUnavailable, "STORAGE_FAILURE", "storage failure, please retry")
		return
	}
	if saved == nil {
		utils.RespondWithKind(w, http.StatusConflict, "CONFLICT", "a request with this idempotency key is in progress")
		return
	}
	if saved.ContentType != "" {
		w.Header().Set("Content-Type", saved.ContentType)
	}
	w.Header().Set(HeaderReplayed, "true")
	w.WriteHeader(saved.Status)
	_, _ = w.Write(saved.Body)
}
