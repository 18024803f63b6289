package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Slot names used by the persistence layer.
const (
	SlotTodos     = "todos"
	SlotIDCounter = "todoIdCounter"
	SlotVisited   = "hasVisited"
)

// EncodeTasks serializes tasks for the todos slot.
// A nil slice encodes as an empty array, never as null.
func EncodeTasks(tasks []Task) (string, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("failed to encode tasks: %w", err)
	}
	return string(data), nil
}

// taskRecord is the slot form of a Task with createdAt left undecoded.
type taskRecord struct {
	ID        int             `json:"id"`
	Text      string          `json:"text"`
	Completed bool            `json:"completed"`
	CreatedAt json.RawMessage `json:"createdAt"`
}

// createdAtLayouts are tried in order for string timestamps.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DecodeTasks parses the todos slot.
// A literal null decodes as an empty sequence. A createdAt that is not a
// recognizable timestamp decodes as the zero time instead of failing the
// whole slot.
func DecodeTasks(s string) ([]Task, error) {
	var records []taskRecord
	if err := json.Unmarshal([]byte(s), &records); err != nil {
		return nil, fmt.Errorf("failed to parse tasks: %w", err)
	}
	tasks := make([]Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, Task{
			ID:        r.ID,
			Text:      r.Text,
			Completed: r.Completed,
			CreatedAt: parseCreatedAt(r.CreatedAt),
		})
	}
	return tasks, nil
}

// parseCreatedAt accepts RFC 3339 and a few looser string layouts, or a
// number of milliseconds since the epoch. Anything else is the zero time.
func parseCreatedAt(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		for _, layout := range createdAtLayouts {
			if t, err := time.Parse(layout, str); err == nil {
				return t
			}
		}
		return time.Time{}
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(int64(ms)).UTC()
	}
	return time.Time{}
}

// EncodeCounter serializes the id counter slot.
func EncodeCounter(n int) string {
	return strconv.Itoa(n)
}

// DecodeCounter parses the id counter slot.
func DecodeCounter(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse id counter: %w", err)
	}
	if n < 0 {
		return 0, fmt.Errorf("failed to parse id counter: negative value %d", n)
	}
	return n, nil
}

// MarshalStateYAML renders a state as a YAML document.
// Tasks keep insertion order. Multi-line text uses block scalar style.
func MarshalStateYAML(s *State) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	addIntField(doc, "next_id", s.NextID)

	tasksNode := &yaml.Node{Kind: yaml.SequenceNode}
	for i := range s.Tasks {
		tasksNode.Content = append(tasksNode.Content, buildTaskNode(&s.Tasks[i]))
	}
	doc.Content = append(doc.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "tasks"},
		tasksNode,
	)

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// UnmarshalStateYAML parses a document produced by MarshalStateYAML.
func UnmarshalStateYAML(data []byte) (*State, error) {
	var doc struct {
		NextID int    `yaml:"next_id"`
		Tasks  []Task `yaml:"tasks"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}
	return &State{Tasks: doc.Tasks, NextID: doc.NextID}, nil
}

// buildTaskNode creates a yaml.Node for a Task.
func buildTaskNode(t *Task) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	addIntField(node, "id", t.ID)
	addTextField(node, "text", t.Text)
	addBoolField(node, "completed", t.Completed)
	addTimeField(node, "created_at", t.CreatedAt)
	return node
}

// Helper functions for building yaml.Node

func addIntField(node *yaml.Node, key string, value int) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: strconv.Itoa(value), Tag: "!!int"},
	)
}

func addBoolField(node *yaml.Node, key string, value bool) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatBool(value), Tag: "!!bool"},
	)
}

func addTimeField(node *yaml.Node, key string, t time.Time) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: t.Format(time.RFC3339Nano)},
	)
}

// yaml11Bools are plain scalars a YAML 1.1 reader would take as booleans.
var yaml11Bools = map[string]bool{
	"y": true, "yes": true, "n": true, "no": true, "on": true, "off": true,
}

// addTextField tags the value as a string. Words that YAML 1.1 reads as
// booleans are double quoted, since the encoder only quotes values its own
// YAML 1.2 resolver would misread.
func addTextField(node *yaml.Node, key, value string) {
	var style yaml.Style
	switch {
	case strings.Contains(value, "\n"):
		style = yaml.LiteralStyle
	case yaml11Bools[strings.ToLower(value)]:
		style = yaml.DoubleQuotedStyle
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: "!!str", Style: style},
	)
}
