package tokens

import "github.com/iudanet/tokenkeeper/internal/status"

// Result is the uniform outcome of every Service operation. Data is set only
// when Status is status.Success. Err keeps the underlying cause of a storage
// failure for logging and is never meant for clients.
type Result[T any] struct {
	Data   T
	Err    error
	Status status.Status
}

// OK reports whether the operation succeeded.
func (r Result[T]) OK() bool {
	return r.Status.OK()
}

func success[T any](data T) Result[T] {
	return Result[T]{Status: status.Success, Data: data}
}

func failure[T any](st status.Status, err error) Result[T] {
	return Result[T]{Status: st, Err: err}
}

func observe[T any](s *Service, op string, r Result[T]) Result[T] {
	s.recorder.ObserveTokenOp(op, r.Status)
	return r
}
