package mutate

import (
	"fmt"
	"slices"
	"strings"

	"annotate-cli/internal/model"
)

type SortBy string

const (
	SortByTasks SortBy = "tasks"
	SortByCount SortBy = "count"
	SortByName  SortBy = "name"
	SortByID    SortBy = "id"
)

func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case SortByTasks:
		return SortByTasks, nil
	case SortByCount:
		return SortByCount, nil
	case SortByName:
		return SortByName, nil
	case SortByID:
		return SortByID, nil
	default:
		return "", fmt.Errorf("invalid sort key %q (expected tasks|count|name|id)", s)
	}
}

// SortTopics returns the topics stably sorted by key. SortByTasks orders by the number of
// tasks with a sentence on the topic.
func SortTopics(topics []model.Topic, tasks []model.Task, by SortBy, ascending bool) []model.Topic {
	out := model.CloneTopics(topics)

	var cmp func(a, b model.Topic) int
	switch by {
	case SortByTasks:
		n := make(map[string]int, len(out))
		for _, tp := range out {
			n[tp.ID.Key()] = len(RelatedTasks(tasks, tp.ID))
		}
		cmp = func(a, b model.Topic) int { return n[a.ID.Key()] - n[b.ID.Key()] }
	case SortByCount:
		cmp = func(a, b model.Topic) int {
			ca, cb := countOf(a), countOf(b)
			switch {
			case ca < cb:
				return -1
			case ca > cb:
				return 1
			default:
				return 0
			}
		}
	case SortByName:
		cmp = func(a, b model.Topic) int { return strings.Compare(a.Name, b.Name) }
	case SortByID:
		cmp = func(a, b model.Topic) int { return a.ID.Compare(b.ID) }
	default:
		return out
	}
	if !ascending {
		asc := cmp
		cmp = func(a, b model.Topic) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func countOf(t model.Topic) float64 {
	if t.Count == nil {
		return 0
	}
	return *t.Count
}
