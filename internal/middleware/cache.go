package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/edubridge/edubridge-web/internal/config"
)

// captureWriter tees the response body into a buffer (up to limit bytes)
// while forwarding it to the client, so a successful proxy response can be
// stored after the handler returns.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// ResponseCache caches successful responses of the routes it wraps in Redis,
// keyed by route and query string.  It is mounted only on the student
// scholarship browse/search proxies: those responses come from the remote
// backend and are the same for every student, so one upstream fetch serves
// them all.  Do not mount it on any route whose response depends on the
// session.  Disabled config or a nil Redis client turns it into a
// pass-through, and Redis errors fail open.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			if !cfg.Methods[r.Method] {
				return next(c)
			}

			key := cfg.Prefix + ":" + r.Method + ":" + c.Path() + "?" + r.URL.RawQuery
			ctx := r.Context()

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
			}

			cw := &captureWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			// Only complete, successful bodies are cached; oversized ones are
			// skipped rather than truncated.
			if cw.status == http.StatusOK && cw.size <= cw.limit {
				if err := rdb.Set(ctx, key, cw.buf.Bytes(), keepTTL(cfg.TTL)).Err(); err != nil {
					c.Logger().Warnf("response cache: store failed for %s: %v", key, err)
				}
			}
			return nil
		}
	}
}

func keepTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}
