package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/iudanet/tokenkeeper/internal/server/handlers"
	"github.com/iudanet/tokenkeeper/internal/status"
)

// RateLimitConfig задает лимит запросов на один IP адрес
type RateLimitConfig struct {
	Rate            rate.Limit    // запросов в секунду
	Burst           int           // размер всплеска
	CleanupInterval time.Duration // период очистки неактивных лимитеров
	// TrustProxyHeaders разрешает брать IP из X-Forwarded-For и X-Real-IP.
	// Включать только за доверенным прокси.
	TrustProxyHeaders bool
}

// RejectCounter считает отклоненные запросы
type RejectCounter interface {
	IncRateLimited()
}

// clientLimiter хранит лимитер клиента и время последнего обращения
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter ограничивает частоту запросов по IP адресу клиента
type RateLimiter struct {
	clients map[string]*clientLimiter
	logger  *slog.Logger
	counter RejectCounter
	stopC   chan struct{}
	config  RateLimitConfig
	mu      sync.Mutex
	once    sync.Once
}

// NewRateLimiter создает rate limiter и запускает фоновую очистку.
// counter может быть nil.
func NewRateLimiter(config RateLimitConfig, logger *slog.Logger, counter RejectCounter) *RateLimiter {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}

	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		logger:  logger,
		counter: counter,
		stopC:   make(chan struct{}),
		config:  config,
	}

	go rl.cleanupLoop()

	return rl
}

// Stop останавливает cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stopC) })
}

// Allow проверяет, разрешен ли запрос для данного ключа (обычно IP адрес)
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiter(key, time.Now()).Allow()
}

// Len возвращает количество отслеживаемых клиентов
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return len(rl.clients)
}

func (rl *RateLimiter) limiter(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.config.Rate, rl.config.Burst)}
		rl.clients[key] = c
	}
	c.lastAccess = now

	return c.limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			rl.cleanup(now)
		case <-rl.stopC:
			return
		}
	}
}

// cleanup удаляет лимитеры, не использовавшиеся дольше двух интервалов очистки
func (rl *RateLimiter) cleanup(now time.Time) {
	ttl := rl.config.CleanupInterval * 2

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, c := range rl.clients {
		if now.Sub(c.lastAccess) > ttl {
			delete(rl.clients, key)
		}
	}
}

// Middleware возвращает middleware, отвечающий 429 при превышении лимита
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getClientIP(r, rl.config.TrustProxyHeaders)

			if !rl.Allow(key) {
				rl.logger.WarnContext(r.Context(), "rate limit exceeded",
					slog.String("ip", key),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				if rl.counter != nil {
					rl.counter.IncRateLimited()
				}

				w.Header().Set("Retry-After", strconv.Itoa(retryAfter(rl.config.Rate)))
				handlers.WriteStatus(w, rl.logger, status.TooManyRequests, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// retryAfter возвращает число секунд до пополнения одного токена
func retryAfter(limit rate.Limit) int {
	if limit <= 0 || limit == rate.Inf {
		return 1
	}
	return max(1, int(math.Ceil(1/float64(limit))))
}

// getClientIP извлекает IP адрес клиента из запроса.
// Заголовки X-Forwarded-For и X-Real-IP учитываются только при trustProxy.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// Берем первый IP из списка (реальный клиент)
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	// RemoteAddr без порта, иначе каждый новый порт дает отдельный лимит
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
