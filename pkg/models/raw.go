package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// RawExecution is an execution payload exactly as an engine reported it.
// The concrete type tells which engine produced it: *N8nExecution, *LangflowRun
// or *UnknownExecution.
type RawExecution interface {
	Engine() Engine
	ExecutionID() string
	Raw() json.RawMessage
}

// DecodeRawExecution decodes an engine payload into its variant.
func DecodeRawExecution(engine Engine, data []byte) (RawExecution, error) {
	switch engine {
	case EngineN8n:
		return DecodeN8nExecution(data)
	case EngineLangflow:
		return DecodeLangflowRun(data)
	default:
		unknown := &UnknownExecution{EngineName: engine, raw: cloneRaw(data)}

		var head struct {
			ID FlexibleString `json:"id"`
		}
		if err := json.Unmarshal(data, &head); err == nil {
			unknown.ID = string(head.ID)
		}

		return unknown, nil
	}
}

// N8nExecution is an execution record of the n8n REST API.
type N8nExecution struct {
	ID           FlexibleString    `json:"id"`
	WorkflowID   FlexibleString    `json:"workflowId"`
	Finished     bool              `json:"finished"`
	Mode         string            `json:"mode"`
	StartedAt    string            `json:"startedAt"`
	StoppedAt    string            `json:"stoppedAt"`
	WorkflowData *N8nWorkflowData  `json:"workflowData"`
	Data         *N8nExecutionData `json:"data"`

	raw json.RawMessage
}

type N8nWorkflowData struct {
	Name string `json:"name"`
	Tags []Tag  `json:"tags"`
}

type N8nExecutionData struct {
	ResultData N8nResultData `json:"resultData"`

	raw json.RawMessage
}

// UnmarshalJSON keeps the raw section for drill-down.
func (d *N8nExecutionData) UnmarshalJSON(data []byte) error {
	type alias N8nExecutionData

	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*d = N8nExecutionData(decoded)
	d.raw = cloneRaw(data)

	return nil
}

// Raw returns the section as received.
func (d *N8nExecutionData) Raw() json.RawMessage {
	return d.raw
}

type N8nResultData struct {
	RunData OrderedMap[[]N8nNodeRun] `json:"runData"`
	Error   *N8nError                `json:"error"`
}

// N8nNodeRun is one attempt of a node inside runData.
type N8nNodeRun struct {
	Data          json.RawMessage `json:"data"`
	Error         json.RawMessage `json:"error"`
	ExecutionTime *float64        `json:"executionTime"`
}

type N8nError struct {
	Message string `json:"message"`
}

// DecodeN8nExecution decodes a single n8n execution.
func DecodeN8nExecution(data []byte) (*N8nExecution, error) {
	var execution N8nExecution
	if err := json.Unmarshal(data, &execution); err != nil {
		return nil, err
	}

	return &execution, nil
}

func (e *N8nExecution) Engine() Engine       { return EngineN8n }
func (e *N8nExecution) ExecutionID() string  { return string(e.ID) }
func (e *N8nExecution) Raw() json.RawMessage { return e.raw }

// UnmarshalJSON keeps the raw payload so list rows can carry it verbatim.
func (e *N8nExecution) UnmarshalJSON(data []byte) error {
	type alias N8nExecution

	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*e = N8nExecution(decoded)
	e.raw = cloneRaw(data)

	return nil
}

// LangflowRun is a run record of the Langflow API.
type LangflowRun struct {
	ID          FlexibleString             `json:"id"`
	FlowID      FlexibleString             `json:"flow_id"`
	FlowName    string                     `json:"flow_name"`
	Status      string                     `json:"status"`
	Timestamp   string                     `json:"timestamp"`
	Duration    *float64                   `json:"duration"`
	TriggerType string                     `json:"trigger_type"`
	Tags        []Tag                      `json:"tags"`
	Logs        []LogEntry                 `json:"logs"`
	Outputs     OrderedMap[LangflowOutput] `json:"outputs"`
	Error       json.RawMessage            `json:"error"`

	raw json.RawMessage
}

// LangflowOutput is the result of one component of a flow run.
type LangflowOutput struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  json.RawMessage `json:"error"`
}

// DecodeLangflowRun decodes a single Langflow run.
func DecodeLangflowRun(data []byte) (*LangflowRun, error) {
	var run LangflowRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, err
	}

	return &run, nil
}

func (r *LangflowRun) Engine() Engine       { return EngineLangflow }
func (r *LangflowRun) ExecutionID() string  { return string(r.ID) }
func (r *LangflowRun) Raw() json.RawMessage { return r.raw }

// UnmarshalJSON keeps the raw payload so list rows can carry it verbatim.
func (r *LangflowRun) UnmarshalJSON(data []byte) error {
	type alias LangflowRun

	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*r = LangflowRun(decoded)
	r.raw = cloneRaw(data)

	return nil
}

// UnknownExecution carries a payload tagged with an engine this service does not understand.
type UnknownExecution struct {
	EngineName Engine
	ID         string

	raw json.RawMessage
}

func (u *UnknownExecution) Engine() Engine       { return u.EngineName }
func (u *UnknownExecution) ExecutionID() string  { return u.ID }
func (u *UnknownExecution) Raw() json.RawMessage { return u.raw }

// FlexibleString accepts JSON strings and numbers. Engines are not consistent about ids.
type FlexibleString string

func (s *FlexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}

		*s = FlexibleString(value)
	default:
		var number json.Number
		if err := json.Unmarshal(data, &number); err != nil {
			return err
		}

		*s = FlexibleString(number.String())
	}

	return nil
}

// Tag is a workflow tag. n8n reports tags as objects, Langflow as plain strings.
type Tag string

func (t *Tag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var object struct {
			ID   FlexibleString `json:"id"`
			Name string         `json:"name"`
		}
		if err := json.Unmarshal(data, &object); err != nil {
			return err
		}

		if object.ID != "" {
			*t = Tag(object.ID)
		} else {
			*t = Tag(object.Name)
		}

		return nil
	}

	var value FlexibleString
	if err := value.UnmarshalJSON(data); err != nil {
		return err
	}

	*t = Tag(value)

	return nil
}

// FirstTag returns the first non-empty tag.
func FirstTag(tags []Tag) (string, bool) {
	if len(tags) == 0 || tags[0] == "" {
		return "", false
	}

	return string(tags[0]), true
}

// Truthy reports whether a raw JSON value would count as set:
// absent, null, false, 0 and "" do not.
func Truthy(raw json.RawMessage) bool {
	value := bytes.TrimSpace(raw)

	switch string(value) {
	case "", "null", "false", `""`:
		return false
	}

	if number, err := strconv.ParseFloat(string(value), 64); err == nil {
		return number != 0
	}

	return true
}

// ErrorMessage extracts a message from an error value that may be a string or an object.
func ErrorMessage(raw json.RawMessage) string {
	if !Truthy(raw) {
		return ""
	}

	var message string
	if err := json.Unmarshal(raw, &message); err == nil {
		return message
	}

	var object struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &object); err == nil && object.Message != "" {
		return object.Message
	}

	return string(raw)
}

func cloneRaw(data []byte) json.RawMessage {
	if data == nil {
		return nil
	}

	return append(json.RawMessage(nil), data...)
}
