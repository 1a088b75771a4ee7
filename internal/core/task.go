package core

// TaskID is a unique task identifier.
type TaskID int

// NoTask marks an agent without a delivery assignment.
const NoTask TaskID = -1

// TaskState tracks the delivery lifecycle.
type TaskState int

const (
	TaskPending TaskState = iota
	TaskAssigned
	TaskCompleted
	TaskCancelled
)

func (s TaskState) String() string {
	return [...]string{"pending", "assigned", "completed", "cancelled"}[s]
}

// Task is a pending request to move a specific shelf to a delivery cell.
// It is assigned to exactly one agent at a time and removed on completion.
type Task struct {
	ID    TaskID
	Shelf ShelfID
	Dest  Cell

	State      TaskState
	AssignedTo AgentID
}

// NewTask creates a pending task.
func NewTask(id TaskID, shelf ShelfID, dest Cell) *Task {
	return &Task{ID: id, Shelf: shelf, Dest: dest, State: TaskPending, AssignedTo: NoAgent}
}
