package idempotency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GlebRadaev/fortvest/pkg/auth"
	"github.com/stretchr/testify/assert"
)

type failingStore struct{ MemoryStore }

func (failingStore) Reserve(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}

func request(userID int, key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/wallet/fund", strings.NewReader(`{"amount":500}`))
	if key != "" {
		req.Header.Set(HeaderKey, key)
	}
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		store         Store
		status        int
		requests      []*http.Request
		expectedCalls int32
		expectedCodes []int
		replayed      []bool
	}{
		{
			name:          "Without key every request runs",
			status:        http.StatusCreated,
			requests:      []*http.Request{request(1, ""), request(1, "")},
			expectedCalls: 2,
			expectedCodes: []int{http.StatusCreated, http.StatusCreated},
			replayed:      []bool{false, false},
		},
		{
			name:          "Retry is replayed",
			status:        http.StatusCreated,
			requests:      []*http.Request{request(1, "abc"), request(1, "abc")},
			expectedCalls: 1,
			expectedCodes: []int{http.StatusCreated, http.StatusCreated},
			replayed:      []bool{false, true},
		},
		{
			name:          "Client errors are replayed too",
			status:        http.StatusPaymentRequired,
			requests:      []*http.Request{request(1, "abc"), request(1, "abc")},
			expectedCalls: 1,
			expectedCodes: []int{http.StatusPaymentRequired, http.StatusPaymentRequired},
			replayed:      []bool{false, true},
		},
		{
			name:          "Server errors release the key",
			status:        http.StatusServiceUnavailable,
			requests:      []*http.Request{request(1, "abc"), request(1, "abc")},
			expectedCalls: 2,
			expectedCodes: []int{http.StatusServiceUnavailable, http.StatusServiceUnavailable},
			replayed:      []bool{false, false},
		},
		{
			name:          "Keys are scoped per user",
			status:        http.StatusCreated,
			requests:      []*http.Request{request(1, "abc"), request(2, "abc")},
			expectedCalls: 2,
			expectedCodes: []int{http.StatusCreated, http.StatusCreated},
			replayed:      []bool{false, false},
		},
		{
			name:          "Store failure fails open",
			store:         &failingStore{MemoryStore: *NewMemoryStore(time.Minute)},
			status:        http.StatusCreated,
			requests:      []*http.Request{request(1, "abc"), request(1, "abc")},
			expectedCalls: 2,
			expectedCodes: []int{http.StatusCreated, http.StatusCreated},
			replayed:      []bool{false, false},
		},
		{
			name:          "Oversized key",
			status:        http.StatusCreated,
			requests:      []*http.Request{request(1, strings.Repeat("k", 300))},
			expectedCalls: 0,
			expectedCodes: []int{http.StatusBadRequest},
			replayed:      []bool{false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tt.store
			if store == nil {
				store = NewMemoryStore(time.Minute)
			}
			var calls atomic.Int32
			handler := Middleware(store, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"reference":"FUND-1"}`))
			}))

			for i, req := range tt.requests {
				rr := httptest.NewRecorder()
				handler.ServeHTTP(rr, req)

				assert.Equal(t, tt.expectedCodes[i], rr.Code)
				if tt.replayed[i] {
					assert.Equal(t, "true", rr.Header().Get(HeaderReplayed))
					assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
					assert.JSONEq(t, `{"reference":"FUND-1"}`, rr.Body.String())
				} else {
					assert.Empty(t, rr.Header().Get(HeaderReplayed))
				}
			}
			assert.Equal(t, tt.expectedCalls, calls.Load())
		})
	}
}

func TestMiddleware_InFlight(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	entered := make(chan struct{})
	release := make(chan struct{})
	handler := Middleware(store, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusCreated)
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(httptest.NewRecorder(), request(1, "abc"))
	}()
	<-entered

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, request(1, "abc"))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"error":"a request with this idempotency key is in progress","kind":"CONFLICT"}`, rr.Body.String())

	close(release)
	<-done
}
