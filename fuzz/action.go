package fuzz

import (
	"encoding/json"
	"io"

	"github.com/sharedcode/ordtree"
)

// ActionType names the operation recorded by an Action.
type ActionType string

const (
	// ActionStart creates fresh containers, it is always the first action of a log.
	ActionStart        ActionType = "start"
	ActionBulkLoad     ActionType = "bulkLoad"
	ActionSet          ActionType = "set"
	ActionDelete       ActionType = "delete"
	ActionGetByIndex   ActionType = "getByIndex"
	ActionGetByKey     ActionType = "getByKey"
	ActionQueryByIndex ActionType = "queryByIndex"
	ActionQueryByBound ActionType = "queryByBounds"
)

// Action is one step of a fuzz round. Only the fields relevant to Type are set.
type Action struct {
	Type ActionType `json:"type"`

	Kind   string `json:"kind,omitempty"`
	N      int    `json:"n,omitempty"`
	Degree int    `json:"degree,omitempty"`

	Data  []ordtree.KeyValuePair[int, string] `json:"data,omitempty"`
	Key   int                                 `json:"key,omitempty"`
	Value string                              `json:"value,omitempty"`

	Index      int                  `json:"index,omitempty"`
	Start      int                  `json:"start,omitempty"`
	Count      int                  `json:"count,omitempty"`
	ValuesOnly bool                 `json:"valuesOnly,omitempty"`
	Bounds     *ordtree.Bounds[int] `json:"bounds,omitempty"`
}

// ActionLog is the ordered record of a fuzz round, enough to replay it.
type ActionLog []Action

// WriteJSON writes the log as an indented JSON array.
func (l ActionLog) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}

// ReadActionLog decodes a log written by WriteJSON.
func ReadActionLog(r io.Reader) (ActionLog, error) {
	var l ActionLog
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, err
	}
	return l, nil
}
