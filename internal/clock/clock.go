package clock

import (
	"sync"
	"time"
)

// Clock представляет источник текущего времени.
// Сервисы получают время только через Clock, чтобы тесты могли подставлять
// детерминированные моменты вместо реального времени.
type Clock interface {
	Now() time.Time
}

// System возвращает реальное время в UTC.
type System struct{}

// Now возвращает текущее время системы в UTC
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed всегда возвращает один и тот же момент времени.
type Fixed struct {
	t  time.Time
	mu sync.RWMutex
}

// NewFixed создает часы, остановленные в момент t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

// Now возвращает зафиксированный момент
func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.t
}

// Set переводит часы на момент t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.t = t
}

// Advance сдвигает часы вперед на d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.t = f.t.Add(d)
}

// Step возвращает монотонно возрастающие моменты времени:
// каждый вызов Now сдвигает часы на step.
type Step struct {
	next time.Time
	step time.Duration
	mu   sync.Mutex
}

// NewStep создает часы, первый вызов Now которых вернет start.
func NewStep(start time.Time, step time.Duration) *Step {
	return &Step{
		next: start,
		step: step,
	}
}

// Now возвращает текущее значение и сдвигает часы на step
func (s *Step) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.next
	s.next = s.next.Add(s.step)
	return now
}
