package ports

// Notifier emits user-facing notifications about the outcome of writes.
//
//go:generate go run go.uber.org/mock/mockgen -source=notifier.go -destination=mocks/mock_notifier.go -package=mocks
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}
