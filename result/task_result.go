package result

// TaskResult ties a Result to the work item and the worker that produced it.
type TaskResult[T any] struct {
	Index    int
	WorkerID int
	Output   Result[T]
}

// NewTaskResult creates a new TaskResult.
func NewTaskResult[T any](index, workerID int, output Result[T]) TaskResult[T] {
	return TaskResult[T]{
		Index:    index,
		WorkerID: workerID,
		Output:   output,
	}
}
