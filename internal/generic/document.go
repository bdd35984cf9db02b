// Package generic executes targeting algorithms described entirely as data:
// a state machine of conditions, actions, queues, and counters loaded from a
// JSON document. A document that validates at load time can never fail at
// shot time.
package generic

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidDocument is wrapped by every load-time validation failure.
var ErrInvalidDocument = errors.New("invalid algorithm document")

// ActionKind enumerates the closed action vocabulary. Unknown kinds are a
// parse error, never a silent no-op.
type ActionKind uint8

const (
	actionInvalid ActionKind = iota
	ActionPopQueue
	ActionRandomShot
	ActionDiagonalHunt
	ActionCheckerboardHunt
	ActionIncrementVariable
	ActionAdjacentToQueue
	ActionP2M2ToQueue
)

var actionKinds = map[string]ActionKind{
	"pop_from_queue":             ActionPopQueue,
	"generate_random_shot":       ActionRandomShot,
	"generate_diagonal_hunt":     ActionDiagonalHunt,
	"generate_checkerboard_hunt": ActionCheckerboardHunt,
	"increment_variable":         ActionIncrementVariable,
	"add_adjacent_to_queue":      ActionAdjacentToQueue,
	"add_p2m2_to_queue":          ActionP2M2ToQueue,
}

// usesQueue reports whether the action kind requires a queue reference.
func (k ActionKind) usesQueue() bool {
	switch k {
	case ActionPopQueue, ActionDiagonalHunt, ActionCheckerboardHunt,
		ActionAdjacentToQueue, ActionP2M2ToQueue:
		return true
	}
	return false
}

// CondKind enumerates the condition vocabulary.
type CondKind uint8

const (
	condNone CondKind = iota
	CondOnHit
	CondOnMiss
	CondQueueEmpty
	CondVarLessEqual
)

// Condition guards a transition or a next_shot action.
type Condition struct {
	Kind     CondKind
	Queue    string // CondQueueEmpty
	Variable string // CondVarLessEqual
	Value    int    // CondVarLessEqual
}

// UnmarshalJSON accepts either a bare string ("on_hit", "on_miss") or an
// object form ({"queue_empty": name} / {"variable_less_equal": {name, value}}).
func (c *Condition) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "on_hit":
			c.Kind = CondOnHit
		case "on_miss":
			c.Kind = CondOnMiss
		default:
			return fmt.Errorf("unknown condition %q", s)
		}
		return nil
	}

	var obj struct {
		QueueEmpty *string `json:"queue_empty"`
		VarLE      *struct {
			Name  string `json:"name"`
			Value int    `json:"value"`
		} `json:"variable_less_equal"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("condition must be a string or object: %w", err)
	}
	switch {
	case obj.QueueEmpty != nil:
		c.Kind = CondQueueEmpty
		c.Queue = *obj.QueueEmpty
	case obj.VarLE != nil:
		c.Kind = CondVarLessEqual
		c.Variable = obj.VarLE.Name
		c.Value = obj.VarLE.Value
	default:
		return fmt.Errorf("condition object has no recognized key")
	}
	return nil
}

// Action is one step of a state's on_entry or next_shot program.
type Action struct {
	Kind     ActionKind
	Queue    string
	Variable string
	Cond     *Condition // optional guard, next_shot only
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var obj struct {
		Action    string     `json:"action"`
		Queue     string     `json:"queue"`
		Variable  string     `json:"variable"`
		Condition *Condition `json:"condition"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	kind, ok := actionKinds[obj.Action]
	if !ok {
		return fmt.Errorf("unknown action %q", obj.Action)
	}
	a.Kind = kind
	a.Queue = obj.Queue
	a.Variable = obj.Variable
	a.Cond = obj.Condition
	return nil
}

// Transition moves the machine to Next when Cond holds.
type Transition struct {
	Cond Condition `json:"condition"`
	Next string    `json:"next_state"`
}

// State holds the three ordered programs of one machine state.
type State struct {
	OnEntry     []Action     `json:"on_entry"`
	NextShot    []Action     `json:"next_shot"`
	Transitions []Transition `json:"transitions"`
}

// Document is a parsed, validated algorithm description. It is immutable
// after Parse and shared read-only by every interpreter instance built from
// it.
type Document struct {
	Name         string           `json:"name"`
	InitialState string           `json:"initial_state"`
	Queues       []string         `json:"queues"`
	Variables    map[string]int   `json:"variables"`
	States       map[string]State `json:"states"`
}

// Parse decodes and validates a JSON algorithm document. Every structural
// problem (missing initial state, references to undeclared states, queues
// or variables, unknown action or condition kinds) is reported here so the
// interpreter never has to cope with a malformed machine mid-game.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

func (d *Document) validate() error {
	if d.Name == "" {
		return fmt.Errorf("document has no name")
	}
	if d.InitialState == "" {
		return fmt.Errorf("document has no initial_state")
	}
	if _, ok := d.States[d.InitialState]; !ok {
		return fmt.Errorf("initial_state %q is not a declared state", d.InitialState)
	}

	declared := make(map[string]bool, len(d.Queues))
	for _, q := range d.Queues {
		declared[q] = true
	}

	for name, state := range d.States {
		for i, t := range state.Transitions {
			if _, ok := d.States[t.Next]; !ok {
				return fmt.Errorf("state %q transition %d references undeclared state %q", name, i, t.Next)
			}
			if err := d.checkCondition(&t.Cond, declared); err != nil {
				return fmt.Errorf("state %q transition %d: %v", name, i, err)
			}
		}
		for _, phase := range []struct {
			label   string
			actions []Action
		}{{"on_entry", state.OnEntry}, {"next_shot", state.NextShot}} {
			for i, a := range phase.actions {
				if err := d.checkAction(&a, declared); err != nil {
					return fmt.Errorf("state %q %s action %d: %v", name, phase.label, i, err)
				}
			}
		}
	}
	return nil
}

func (d *Document) checkAction(a *Action, queues map[string]bool) error {
	if a.Kind.usesQueue() && !queues[a.Queue] {
		return fmt.Errorf("references undeclared queue %q", a.Queue)
	}
	if a.Kind == ActionIncrementVariable {
		if _, ok := d.Variables[a.Variable]; !ok {
			return fmt.Errorf("references undeclared variable %q", a.Variable)
		}
	}
	if a.Cond != nil {
		return d.checkCondition(a.Cond, queues)
	}
	return nil
}

func (d *Document) checkCondition(c *Condition, queues map[string]bool) error {
	switch c.Kind {
	case CondQueueEmpty:
		if !queues[c.Queue] {
			return fmt.Errorf("condition references undeclared queue %q", c.Queue)
		}
	case CondVarLessEqual:
		if _, ok := d.Variables[c.Variable]; !ok {
			return fmt.Errorf("condition references undeclared variable %q", c.Variable)
		}
	case condNone:
		return fmt.Errorf("transition has no condition")
	}
	return nil
}
