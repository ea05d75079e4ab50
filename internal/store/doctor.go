package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"annotate-cli/internal/model"
	"annotate-cli/internal/validate"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level      DoctorIssueLevel `json:"level"`
	Code       string           `json:"code"`
	Message    string           `json:"message"`
	Collection string           `json:"collection,omitempty"`
	TaskID     string           `json:"taskId,omitempty"`
}

type DoctorReport struct {
	Collections int           `json:"collections"`
	Issues      []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

var ErrDoctorIssuesFound = errors.New("doctor: issues found")

// Doctor inspects the persisted annotation state for data the workflow cannot use:
// collections that no longer pass import validation, duplicate names, sentences that
// reference missing topics and stored answers outside a question's answer set.
func Doctor(ctx context.Context, kv KV) (DoctorReport, error) {
	var issues []DoctorIssue
	add := func(level DoctorIssueLevel, code, collection, taskID, msg string) {
		issues = append(issues, DoctorIssue{Level: level, Code: code, Message: msg, Collection: collection, TaskID: taskID})
	}

	raw, ok, err := kv.Get(ctx, KeyCollections)
	if err != nil {
		return DoctorReport{}, err
	}
	if !ok {
		return DoctorReport{Issues: []DoctorIssue{}}, nil
	}

	var generic []any
	if err := json.Unmarshal(raw, &generic); err != nil {
		add(DoctorIssueLevelError, "collections_unreadable", "", "", err.Error())
		return DoctorReport{Issues: issues}, nil
	}
	var cols []model.Collection
	if err := json.Unmarshal(raw, &cols); err != nil {
		add(DoctorIssueLevelError, "collections_undecodable", "", "", err.Error())
		return DoctorReport{Collections: len(generic), Issues: issues}, nil
	}

	seen := map[string]int{}
	for i, c := range cols {
		if err := validate.Combined(generic[i]); err != nil {
			add(DoctorIssueLevelError, "collection_invalid", c.Name, "", err.Error())
		}
		if strings.TrimSpace(c.Name) == "" {
			add(DoctorIssueLevelWarn, "collection_unnamed", "", "", fmt.Sprintf("collection %d has no name", i))
		}
		seen[c.Name]++
		if seen[c.Name] == 2 {
			add(DoctorIssueLevelWarn, "collection_duplicate_name", c.Name, "", "more than one collection uses this name")
		}
		issues = append(issues, doctorCollection(c)...)
	}

	if b, ok, err := kv.Get(ctx, KeySelectedCollection); err != nil {
		return DoctorReport{}, err
	} else if ok {
		n, convErr := strconv.Atoi(strings.TrimSpace(string(b)))
		switch {
		case convErr != nil:
			add(DoctorIssueLevelWarn, "selection_unreadable", "", "", fmt.Sprintf("selected collection id %q is not a number", string(b)))
		case n < 0 || n >= len(cols):
			add(DoctorIssueLevelWarn, "selection_out_of_range", "", "", fmt.Sprintf("selected collection id %d is out of range; index 0 will be used", n))
		}
	}

	return DoctorReport{Collections: len(cols), Issues: issuesOrEmpty(issues)}, nil
}

func doctorCollection(c model.Collection) []DoctorIssue {
	var issues []DoctorIssue
	topics := map[string]bool{}
	for _, tp := range c.Topics {
		if topics[tp.ID.Key()] {
			issues = append(issues, DoctorIssue{Level: DoctorIssueLevelWarn, Code: "topic_duplicate_id", Collection: c.Name,
				Message: fmt.Sprintf("topic id %s is used more than once", tp.ID.Key())})
		}
		topics[tp.ID.Key()] = true
	}
	questions := map[string]model.Question{}
	for _, q := range c.Questions {
		questions[q.Prop] = q
	}

	for _, t := range c.Tasks {
		if len(c.Topics) > 0 {
			for _, s := range t.Sentences {
				if s.Topic.IsNone() || topics[s.Topic.Key()] {
					continue
				}
				issues = append(issues, DoctorIssue{Level: DoctorIssueLevelWarn, Code: "sentence_unknown_topic", Collection: c.Name, TaskID: t.ID,
					Message: fmt.Sprintf("sentence references unknown topic %s", s.Topic.Key())})
				break
			}
		}
		for prop, v := range t.Annotations {
			q, ok := questions[prop]
			if !ok || q.HasAnswerValue(v) {
				continue
			}
			issues = append(issues, DoctorIssue{Level: DoctorIssueLevelWarn, Code: "annotation_undeclared_value", Collection: c.Name, TaskID: t.ID,
				Message: fmt.Sprintf("answer %s for %q is not one of the question's answers", v.String(), prop)})
		}
	}
	return issues
}

func issuesOrEmpty(xs []DoctorIssue) []DoctorIssue {
	if xs == nil {
		return []DoctorIssue{}
	}
	return xs
}
