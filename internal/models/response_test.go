package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestAnswerValueMarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		answer   AnswerValue
		expected string
	}{
		{"Single value as string", NewAnswer("hello"), `"hello"`},
		{"Empty single value", NewAnswer(""), `""`},
		{"List value as array", NewMultiAnswer([]string{"a", "b"}), `["a","b"]`},
		{"Empty list", NewMultiAnswer(nil), `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.answer)
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(data) != tt.expected {
				t.Errorf("MarshalJSON() = %v, want %v", string(data), tt.expected)
			}
		})
	}
}

func TestAnswerValueUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		isList   bool
		expected []string
	}{
		{"String form", `"4"`, false, []string{"4"}},
		{"Array form", `["B","C"]`, true, []string{"B", "C"}},
		{"Empty array", `[]`, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a AnswerValue
			if err := json.Unmarshal([]byte(tt.input), &a); err != nil {
				t.Fatalf("UnmarshalJSON() error = %v", err)
			}
			if a.IsList() != tt.isList {
				t.Errorf("IsList() = %v, want %v", a.IsList(), tt.isList)
			}
			if !reflect.DeepEqual(a.Values(), tt.expected) {
				t.Errorf("Values() = %v, want %v", a.Values(), tt.expected)
			}
		})
	}
}

func TestAnswerValueUnmarshalJSONRejectsOtherShapes(t *testing.T) {
	for _, input := range []string{`42`, `true`, `{"a":1}`, `[1,2]`} {
		var a AnswerValue
		err := json.Unmarshal([]byte(input), &a)
		if !errors.Is(err, ErrInvalidAnswerFormat) {
			t.Errorf("UnmarshalJSON(%s) error = %v, want ErrInvalidAnswerFormat", input, err)
		}
	}
}

func TestAnswerValueIsAnswered(t *testing.T) {
	tests := []struct {
		name     string
		answer   AnswerValue
		expected bool
	}{
		{"Non-empty single value", NewAnswer("4"), true},
		{"Empty single value", NewAnswer(""), false},
		{"Zero value", AnswerValue{}, false},
		{"Empty list", NewMultiAnswer(nil), false},
		{"List of empty strings", NewMultiAnswer([]string{"", ""}), false},
		{"List with one real value", NewMultiAnswer([]string{"", "B"}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.answer.IsAnswered(); got != tt.expected {
				t.Errorf("IsAnswered() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAnswerValueFirst(t *testing.T) {
	if got := NewAnswer("x").First(); got != "x" {
		t.Errorf("First() = %v, want x", got)
	}
	if got := NewMultiAnswer([]string{"B", "C"}).First(); got != "B" {
		t.Errorf("First() = %v, want B", got)
	}
	if got := (AnswerValue{}).First(); got != "" {
		t.Errorf("First() = %v, want empty", got)
	}
}

func TestResponseDurationSeconds(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	completed := started.Add(90 * time.Second)
	ms := int64(45500)

	tests := []struct {
		name     string
		response Response
		expected float64
		ok       bool
	}{
		{
			"Stored duration wins over timestamps",
			Response{TotalDurationMs: &ms, StartedAt: &started, CompletedAt: &completed},
			45.5,
			true,
		},
		{
			"Timestamp difference as fallback",
			Response{StartedAt: &started, CompletedAt: &completed},
			90,
			true,
		},
		{
			"Negative timestamp difference unusable",
			Response{StartedAt: &completed, CompletedAt: &started},
			0,
			false,
		},
		{
			"No usable source",
			Response{StartedAt: &started},
			0,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.response.DurationSeconds()
			if got != tt.expected || ok != tt.ok {
				t.Errorf("DurationSeconds() = (%v, %v), want (%v, %v)", got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestResponseTimestamp(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	completed := started.Add(time.Minute)

	r := Response{StartedAt: &started, CompletedAt: &completed}
	if got, ok := r.Timestamp(); !ok || !got.Equal(completed) {
		t.Errorf("Timestamp() = (%v, %v), want completion time", got, ok)
	}

	r = Response{StartedAt: &started}
	if got, ok := r.Timestamp(); !ok || !got.Equal(started) {
		t.Errorf("Timestamp() = (%v, %v), want start time", got, ok)
	}

	r = Response{}
	if _, ok := r.Timestamp(); ok {
		t.Error("Timestamp() ok = true, want false with no timestamps")
	}
}

func TestResponseIsComplete(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		expected   bool
	}{
		{"Below threshold", 79.9, false},
		{"At threshold", 80, true},
		{"Fully complete", 100, true},
		{"Untouched", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Response{CompletionPercentage: tt.percentage}
			if got := r.IsComplete(); got != tt.expected {
				t.Errorf("IsComplete() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestResponseManagerMetadata(t *testing.T) {
	r := Response{Metadata: map[string]string{
		MetadataKeyManagerID:   "mgr-7",
		MetadataKeyManagerName: "Alex Chen",
	}}
	if id, ok := r.ManagerID(); !ok || id != "mgr-7" {
		t.Errorf("ManagerID() = (%v, %v), want mgr-7", id, ok)
	}
	if got := r.ManagerName(); got != "Alex Chen" {
		t.Errorf("ManagerName() = %v, want Alex Chen", got)
	}

	// Name falls back to the ID when absent
	r = Response{Metadata: map[string]string{MetadataKeyManagerID: "mgr-7"}}
	if got := r.ManagerName(); got != "mgr-7" {
		t.Errorf("ManagerName() = %v, want mgr-7 fallback", got)
	}

	r = Response{}
	if _, ok := r.ManagerID(); ok {
		t.Error("ManagerID() ok = true, want false without metadata")
	}
}
