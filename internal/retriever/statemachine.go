package retriever

import "sync"

// State is one phase of the retriever's lifecycle, per spec.md §4.4:
// Uninitialized → Loaded → Indexing(workspace_root) → Ready. Indexing can
// be re-entered from Ready when the workspace changes.
type State int

const (
	Uninitialized State = iota
	Loaded
	Indexing
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Loaded:
		return "Loaded"
	case Indexing:
		return "Indexing"
	case Ready:
		return "Ready"
	default:
		return "Unknown"
	}
}

// Lifecycle tracks the retriever's current state and the workspace root
// being indexed, if any. Only Ready serves queries; Query calls made in
// any other state should be rejected by the caller before reaching here.
type Lifecycle struct {
	mu            sync.RWMutex
	state         State
	workspaceRoot string
}

// NewLifecycle starts in Uninitialized.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: Uninitialized}
}

func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// MarkLoaded transitions Uninitialized -> Loaded once the store file has
// been opened.
func (l *Lifecycle) MarkLoaded() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = Loaded
}

// StartIndexing transitions into Indexing for workspaceRoot. Callable from
// Loaded (first index) or Ready (re-index after a workspace change).
func (l *Lifecycle) StartIndexing(workspaceRoot string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = Indexing
	l.workspaceRoot = workspaceRoot
}

// FinishIndexing transitions Indexing -> Ready.
func (l *Lifecycle) FinishIndexing() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = Ready
}

// WorkspaceRoot returns the root passed to the most recent StartIndexing
// call, or "" if indexing has never started.
func (l *Lifecycle) WorkspaceRoot() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.workspaceRoot
}

// IsReady reports whether the retriever currently serves queries.
func (l *Lifecycle) IsReady() bool {
	return l.State() == Ready
}
