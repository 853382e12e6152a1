package middleware

import (
	"context"
	"net/http"
	"time"

	"health-concierge/pkg/response"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	DeviceIDHeader   = "X-Device-ID"
	maxDeviceIDBytes = 128
)

// DeviceMiddleware requires the device header on session routes and rate
// limits each device on its own token bucket. Buckets of idle devices expire.
type DeviceMiddleware struct {
	limit    rate.Limit
	burst    int
	limiters *cache.Cache
}

func NewDeviceMiddleware(requestsPerSecond float64, burst int) *DeviceMiddleware {
	if burst < 1 {
		burst = 1
	}
	return &DeviceMiddleware{
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
		limiters: cache.New(10*time.Minute, 20*time.Minute),
	}
}

func (m *DeviceMiddleware) limiter(deviceID string) *rate.Limiter {
	if v, found := m.limiters.Get(deviceID); found {
		return v.(*rate.Limiter)
	}
	l := rate.NewLimiter(m.limit, m.burst)
	// Add fails when a concurrent request stored one first; use that one.
	if err := m.limiters.Add(deviceID, l, cache.DefaultExpiration); err != nil {
		if v, found := m.limiters.Get(deviceID); found {
			return v.(*rate.Limiter)
		}
	}
	return l
}

func (m *DeviceMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := r.Header.Get(DeviceIDHeader)
		if deviceID == "" || len(deviceID) > maxDeviceIDBytes {
			response.Error(w, http.StatusBadRequest, DeviceIDHeader+" header is required", nil)
			return
		}

		if m.limit > 0 {
			l := m.limiter(deviceID)
			if !l.Allow() {
				response.TooManyRequests(w)
				return
			}
			// Touch the entry so active devices keep their bucket.
			m.limiters.SetDefault(deviceID, l)
		}

		ctx := context.WithValue(r.Context(), DeviceIDKey, deviceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
