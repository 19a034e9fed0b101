package middleware

import (
	"net/http"
	"time"
)

// HTTPObserver получает метрики завершенных запросов
type HTTPObserver interface {
	ObserveHTTP(method, route string, code int, d time.Duration)
}

// unmatchedRoute метка маршрута для запросов, не попавших ни в один шаблон
const unmatchedRoute = "unmatched"

// MetricsMiddleware записывает метрики запроса по шаблону маршрута
// ServeMux (r.Pattern), чтобы id в пути не раздували кардинальность.
func MetricsMiddleware(observer HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			route := r.Pattern
			if route == "" {
				route = unmatchedRoute
			}
			observer.ObserveHTTP(r.Method, route, wrapped.statusCode, time.Since(start))
		})
	}
}
