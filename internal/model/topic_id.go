package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type topicIDKind int

const (
	topicUnset topicIDKind = iota
	topicNumber
	topicString
)

// TopicID identifies a topic. Imported files use either numbers or strings.
type TopicID struct {
	kind topicIDKind
	num  float64
	str  string
}

// NoTopic is the sentinel sentence topic meaning "no topic".
var NoTopic = NumTopic(-1)

func NumTopic(n float64) TopicID { return TopicID{kind: topicNumber, num: n} }
func StrTopic(s string) TopicID  { return TopicID{kind: topicString, str: s} }

// ParseTopicID reads a topic id typed by a user. Numeric input becomes a numeric id.
func ParseTopicID(s string) TopicID {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return NumTopic(n)
	}
	return StrTopic(s)
}

func (t TopicID) IsUnset() bool   { return t.kind == topicUnset }
func (t TopicID) IsNumeric() bool { return t.kind == topicNumber }
func (t TopicID) Num() float64    { return t.num }

// IsNone reports whether a sentence with this topic has no topic.
func (t TopicID) IsNone() bool {
	return t.kind == topicUnset || t.Key() == NoTopic.Key()
}

// Key is the canonical string form of the id; numbers and their string spelling share a key.
func (t TopicID) Key() string {
	switch t.kind {
	case topicNumber:
		return formatNumber(t.num)
	case topicString:
		return t.str
	default:
		return ""
	}
}

func (t TopicID) String() string { return t.Key() }

// Equal is strict: 1 and "1" differ.
func (t TopicID) Equal(o TopicID) bool {
	if t.kind != o.kind {
		return false
	}
	return t.num == o.num && t.str == o.str
}

// Compare orders ids numerically when both are numbers, otherwise by key.
func (t TopicID) Compare(o TopicID) int {
	if t.kind == topicNumber && o.kind == topicNumber {
		switch {
		case t.num < o.num:
			return -1
		case t.num > o.num:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(t.Key(), o.Key())
}

func (t TopicID) MarshalJSON() ([]byte, error) {
	switch t.kind {
	case topicNumber:
		return []byte(formatNumber(t.num)), nil
	case topicString:
		return json.Marshal(t.str)
	default:
		return []byte("null"), nil
	}
}

func (t *TopicID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*t = TopicID{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = StrTopic(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("topic id must be a number or a string: %s", string(b))
	}
	*t = NumTopic(n)
	return nil
}
