package rancher

import (
	"bytes"
	"encoding/json"

	"github.com/charmbracelet/log"

	"github.com/conn-castle/rancher-client/internal/messages"
)

// collection is the envelope of every Rancher v1 list response.
type collection struct {
	Data json.RawMessage `json:"data"`
}

// Decode parses a {"data": [...]} collection body into entities.
// A body whose data field is missing or not an array is *MalformedResponseError.
func Decode[T Entity](kind string, body []byte) ([]T, error) {
	var envelope collection
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &MalformedResponseError{Kind: kind, Err: err}
	}
	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || data[0] != '[' {
		return nil, &MalformedResponseError{Kind: kind, Reason: messages.RancherMissingDataArray}
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &MalformedResponseError{Kind: kind, Err: err}
	}
	return items, nil
}

// ResolveOne returns the first entity in body whose name equals name exactly.
// Duplicate names are not an error; the first match wins and the ambiguity
// is logged at debug level.
func ResolveOne[T Entity](logger *log.Logger, kind string, body []byte, name string) (T, error) {
	var zero T
	items, err := Decode[T](kind, body)
	if err != nil {
		return zero, err
	}
	var matches []T
	for _, item := range items {
		if item.GetName() == name {
			matches = append(matches, item)
		}
	}
	if len(matches) == 0 {
		return zero, &NotFoundError{Kind: kind, Name: name}
	}
	if len(matches) > 1 && logger != nil {
		logger.Debugf(messages.RancherDuplicateNameFmt, len(matches), kind, name, matches[0].GetID())
	}
	return matches[0], nil
}

// ResolveAll returns every entity in body. An empty collection is *NotFoundError.
func ResolveAll[T Entity](kind string, body []byte) ([]T, error) {
	items, err := Decode[T](kind, body)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &NotFoundError{Kind: kind}
	}
	return items, nil
}
