package mutate

import (
	"testing"

	"annotate-cli/internal/model"
)

func TestSortTopics(t *testing.T) {
	a := topic(3, "b")
	a.Count = floatPtr(5)
	b := topic(1, "c")
	c := topic(2, "a")
	c.Count = floatPtr(2)
	topics := []model.Topic{a, b, c}
	tasks := []model.Task{
		task("1", model.NumTopic(1)),
		task("2", model.NumTopic(1)),
		task("3", model.NumTopic(2)),
	}

	cases := []struct {
		by   SortBy
		asc  bool
		want string
	}{
		{SortByName, true, "abc"},
		{SortByName, false, "cba"},
		{SortByID, true, "cab"},
		{SortByID, false, "bac"},
		{SortByCount, true, "cab"},
		{SortByCount, false, "bac"},
		{SortByTasks, true, "bac"},
		{SortByTasks, false, "cab"},
	}
	for _, tc := range cases {
		got := SortTopics(topics, tasks, tc.by, tc.asc)
		names := ""
		for _, tp := range got {
			names += tp.Name
		}
		if names != tc.want {
			t.Fatalf("SortTopics(%s, asc=%v) = %s, want %s", tc.by, tc.asc, names, tc.want)
		}
	}
	if topics[0].Name != "b" {
		t.Fatalf("input topics were mutated")
	}
}

func TestSortTopicsIsStable(t *testing.T) {
	topics := []model.Topic{topic(1, "x"), topic(2, "y"), topic(3, "z")}
	got := SortTopics(topics, nil, SortByCount, false)
	if got[0].Name != "x" || got[1].Name != "y" || got[2].Name != "z" {
		t.Fatalf("expected equal keys to keep their order; got %#v", got)
	}
}

func TestParseSortBy(t *testing.T) {
	if by, err := ParseSortBy(" Tasks "); err != nil || by != SortByTasks {
		t.Fatalf("unexpected: %v %v", by, err)
	}
	if _, err := ParseSortBy("color"); err == nil {
		t.Fatalf("expected error")
	}
}
