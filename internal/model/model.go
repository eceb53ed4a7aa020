package model

import (
	"encoding/json"
	"fmt"
)

// Status is the terminal outcome of one (scenario, execution config) task.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusTimeout Status = "TIMEOUT"
	StatusError   Status = "ERROR"
)

// Params is a mapping from parameter name to a scalar value. Allowed dynamic
// types are string, bool, int64 and float64; JSON decoding yields float64
// for all numbers, which the filter stage handles uniformly.
type Params map[string]any

// ExecutionConfig is one fully-resolved point of an algorithm's parameter
// grid. It is unique per (AlgorithmID, ConfigIndex) and immutable once
// produced by grid expansion.
type ExecutionConfig struct {
	AlgorithmID string `json:"algorithm_id"`
	ConfigIndex int    `json:"config_index"`
	Parameters  Params `json:"parameters"`
}

// ScenarioInstance is one generated problem instance. GenerationParameters
// is the basis for all grouping and filtering downstream.
type ScenarioInstance struct {
	ScenarioID           string `json:"scenario_id"`
	GenerationParameters Params `json:"generation_parameters"`
}

// TaskKey identifies one cross-product task and keys the result archive.
type TaskKey struct {
	ScenarioID  string `json:"scenario_id"`
	AlgorithmID string `json:"algorithm_id"`
	ConfigIndex int    `json:"config_index"`
}

func (k TaskKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.ScenarioID, k.AlgorithmID, k.ConfigIndex)
}

// ResultRecord is the archived outcome of one task. Payload holds the
// solver's raw result document and is opaque to everything except the
// reducer, which dispatches on AlgorithmID. Records are written exactly
// once and never mutated.
type ResultRecord struct {
	TaskKey
	Status         Status          `json:"status"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	Diagnostic     string          `json:"diagnostic,omitempty"`
	RuntimeSeconds float64         `json:"runtime_seconds"`
}

// PlotRecord is the reduced form of a ResultRecord: only the metrics needed
// for plotting, plus the generation parameters copied from the scenario so
// the filter stage needs no scenario store. Records with a non-success
// status carry a nil Metrics map; they are retained for accounting and
// excluded from statistics.
type PlotRecord struct {
	TaskKey
	GenerationParameters Params             `json:"generation_parameters"`
	Metrics              map[string]float64 `json:"metrics,omitempty"`
	Status               Status             `json:"status"`
}
