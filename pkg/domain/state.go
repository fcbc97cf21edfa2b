package domain

// ErrorInfo describes one error produced by (or about) a node execution.
type ErrorInfo struct {
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Stack   string `json:"stack,omitempty" yaml:"stack,omitempty"`
}

// WarningInfo describes one non-fatal diagnostic from a node execution.
type WarningInfo struct {
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// NodeEvalState is the per-node computed state. It is owned exclusively by
// the eval store and mutated only through committed evaluation batches.
type NodeEvalState struct {
	Code         string              `json:"code"`
	IsEvaluating bool                `json:"is_evaluating"`
	Controls     []ControlDescriptor `json:"controls"`
	Outputs      map[string]any      `json:"outputs"`
	Logs         []string            `json:"logs"`
	Errors       []ErrorInfo         `json:"errors"`
	Warnings     []WarningInfo       `json:"warnings"`
}

// NewNodeEvalState creates the blank state a node carries before its first
// committed execution. All collections start empty, never nil, so the
// state marshals with the shapes hosts index into without null checks.
func NewNodeEvalState(code string) *NodeEvalState {
	return &NodeEvalState{
		Code:     code,
		Controls: []ControlDescriptor{},
		Outputs:  map[string]any{},
		Logs:     []string{},
		Errors:   []ErrorInfo{},
		Warnings: []WarningInfo{},
	}
}

// Clone returns a deep-enough copy: maps and slices are duplicated so the
// caller can mutate its copy without leaking into a committed snapshot.
// Output values themselves are treated as immutable.
func (s *NodeEvalState) Clone() *NodeEvalState {
	if s == nil {
		return nil
	}
	c := *s
	c.Controls = CloneControls(s.Controls)
	c.Outputs = make(map[string]any, len(s.Outputs))
	for k, v := range s.Outputs {
		c.Outputs[k] = v
	}
	// make+copy keeps empty slices non-nil across clones.
	c.Logs = make([]string, len(s.Logs))
	copy(c.Logs, s.Logs)
	c.Errors = make([]ErrorInfo, len(s.Errors))
	copy(c.Errors, s.Errors)
	c.Warnings = make([]WarningInfo, len(s.Warnings))
	copy(c.Warnings, s.Warnings)
	return &c
}

// EvalSnapshot is the committed view of the whole canvas: every node's
// state plus the adjacency derived from the committed edge list. It is
// replaced wholesale on each successful batch, never edited field by field.
type EvalSnapshot struct {
	Data             map[string]*NodeEvalState `json:"data"`
	IncomingByTarget map[string][]string       `json:"incoming_by_target"`
	OutgoingBySource map[string][]string       `json:"outgoing_by_source"`
}

// NewEvalSnapshot returns an empty committed view.
func NewEvalSnapshot() *EvalSnapshot {
	return &EvalSnapshot{
		Data:             map[string]*NodeEvalState{},
		IncomingByTarget: map[string][]string{},
		OutgoingBySource: map[string][]string{},
	}
}

// Clone deep-copies the snapshot so readers can never observe a half
// updated commit through a shared pointer.
func (e *EvalSnapshot) Clone() *EvalSnapshot {
	if e == nil {
		return nil
	}
	c := NewEvalSnapshot()
	for id, st := range e.Data {
		c.Data[id] = st.Clone()
	}
	for id, sources := range e.IncomingByTarget {
		c.IncomingByTarget[id] = append([]string(nil), sources...)
	}
	for id, targets := range e.OutgoingBySource {
		c.OutgoingBySource[id] = append([]string(nil), targets...)
	}
	return c
}
