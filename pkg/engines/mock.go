package engines

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/dukex/flowbit/pkg/models"
)

// MockSet is the fixed data an engine serves when it is unconfigured or unreachable.
// The list rows and the detail table are separate samples, as the engines' own UIs show them.
type MockSet struct {
	executions []models.ExecutionSummary
	details    map[string]json.RawMessage
	trigger    json.RawMessage
}

// MustLoadMockSet decodes embedded mock documents. It panics on malformed data.
func MustLoadMockSet(executions, details, trigger []byte) MockSet {
	var set MockSet

	if err := json.Unmarshal(executions, &set.executions); err != nil {
		panic(fmt.Sprintf("invalid mock executions: %v", err))
	}

	if err := json.Unmarshal(details, &set.details); err != nil {
		panic(fmt.Sprintf("invalid mock execution details: %v", err))
	}

	if !json.Valid(trigger) {
		panic("invalid mock trigger response")
	}

	set.trigger = json.RawMessage(trigger)

	return set
}

// Executions returns a fresh copy of the mock list.
func (m MockSet) Executions() []models.ExecutionSummary {
	return slices.Clone(m.executions)
}

// Detail looks an execution up in the mock detail table.
func (m MockSet) Detail(id string) (json.RawMessage, bool) {
	raw, ok := m.details[id]

	return raw, ok
}

// Trigger returns the mock acknowledgement of a trigger call.
func (m MockSet) Trigger() json.RawMessage {
	return slices.Clone(m.trigger)
}
