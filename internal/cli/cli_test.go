package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"annotate-cli/internal/store"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

const (
	fixtureTasks = `[
  {"id": 1, "title": "A", "sentences": [{"text": "a", "topic": 1}]},
  {"id": 2, "title": "B", "sentences": [{"text": "b", "topic": 2}]},
  {"id": 3, "title": "C", "sentences": [{"text": "c", "topic": 1}, {"text": "c2", "topic": -1}]}
]`
	fixtureTopics = `[
  {"id": 1, "name": "politics_2020", "color": "#ff0000"},
  {"id": 2, "name": "sports", "color": "#00ff00"}
]`
	fixtureQuestions = `[
  {"text": "Relevant?", "prop": "0", "answers": [{"label": "Yes", "value": "yes"}, {"label": "No", "value": "no"}]}
]`
)

func writeFixture(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

type cliFixture struct {
	t   *testing.T
	dir string
}

// newFixture returns an isolated store dir with the "news" collection imported.
func newFixture(t *testing.T) cliFixture {
	t.Helper()
	t.Setenv("ANNOTATE_CONFIG_DIR", t.TempDir())

	f := cliFixture{t: t, dir: t.TempDir()}
	files := t.TempDir()
	f.mustRun("init")
	f.mustRun("collections", "import", "--name", "news",
		"--tasks", writeFixture(t, files, "tasks.json", fixtureTasks),
		"--topics", writeFixture(t, files, "topics.json", fixtureTopics),
		"--questions", writeFixture(t, files, "questions.json", fixtureQuestions))
	return f
}

func (f cliFixture) mustRun(args ...string) map[string]any {
	f.t.Helper()
	full := append([]string{"--dir", f.dir}, args...)
	stdout, stderr, err := runCLI(f.t, full)
	if err != nil {
		f.t.Fatalf("command failed: annotate %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", full, err, string(stderr), string(stdout))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		f.t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, string(stdout), full)
	}
	return env
}

func (f cliFixture) mustFail(args ...string) string {
	f.t.Helper()
	full := append([]string{"--dir", f.dir}, args...)
	stdout, stderr, err := runCLI(f.t, full)
	if err == nil {
		f.t.Fatalf("expected failure: annotate %v\nstdout:\n%s", full, string(stdout))
	}
	return string(stderr)
}

func dataMap(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	m, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object; got %#v", env["data"])
	}
	return m
}

func TestCollectionsImportSelectsNewCollection(t *testing.T) {
	f := newFixture(t)

	env := f.mustRun("collections", "list")
	cols, _ := env["data"].([]any)
	if len(cols) != 1 {
		t.Fatalf("expected 1 collection; got %#v", env["data"])
	}
	c := cols[0].(map[string]any)
	if c["name"] != "news" || c["tasks"] != float64(3) || c["selected"] != true {
		t.Fatalf("unexpected collection summary: %#v", c)
	}
}

func TestCollectionsImportRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	files := t.TempDir()
	tasks := writeFixture(t, files, "tasks.json", fixtureTasks)

	if stderr := f.mustFail("collections", "import", "--name", "x"); !strings.Contains(stderr, "No file provided") {
		t.Fatalf("expected missing file error; got %q", stderr)
	}
	if stderr := f.mustFail("collections", "import", "--name", "news", "--tasks", tasks); !strings.Contains(stderr, "A collection with this name already exists. Please change the name") {
		t.Fatalf("expected duplicate name error; got %q", stderr)
	}
	if stderr := f.mustFail("collections", "import", "--tasks", tasks); !strings.Contains(stderr, "You have to define a collection name") {
		t.Fatalf("expected empty name error; got %q", stderr)
	}
	bad := writeFixture(t, files, "bad.json", `[{"id": 1, "title": "no sentences"}]`)
	if stderr := f.mustFail("collections", "import", "--name", "y", "--tasks", bad); !strings.Contains(stderr, "Invalid format for: documents") {
		t.Fatalf("expected documents validation error; got %q", stderr)
	}

	env := f.mustRun("collections", "list")
	if cols, _ := env["data"].([]any); len(cols) != 1 {
		t.Fatalf("expected rejected imports to leave one collection; got %d", len(cols))
	}
}

func TestTasksAnswerAdvancesAndPersistsCursor(t *testing.T) {
	f := newFixture(t)

	cur := dataMap(t, f.mustRun("tasks", "current"))
	if cur["position"] != float64(1) {
		t.Fatalf("expected to start at position 1; got %#v", cur["position"])
	}

	env := f.mustRun("tasks", "answer", "yes")
	answered := env["meta"].(map[string]any)["answered"].(map[string]any)
	if answered["task"] != "1" || answered["value"] != "yes" {
		t.Fatalf("unexpected answered meta: %#v", answered)
	}

	cur = dataMap(t, f.mustRun("tasks", "current"))
	task := cur["task"].(map[string]any)
	if cur["position"] != float64(2) || task["id"] != "2" {
		t.Fatalf("expected cursor on task 2 in a new invocation; got %#v", cur)
	}

	// Position 2 is "No"; the last task is next.
	env = f.mustRun("tasks", "answer", "2")
	if got := env["meta"].(map[string]any)["outcome"].(map[string]any)["state"]; got != "finished" {
		t.Fatalf("expected finished after the last pair; got %v", got)
	}

	progress := f.mustRun("questions", "progress")
	qs := progress["data"].([]any)
	q := qs[0].(map[string]any)
	if q["answered"] != float64(2) || q["relevant"] != float64(3) {
		t.Fatalf("unexpected progress: %#v", q)
	}
	answers := q["answers"].([]any)
	if answers[0].(map[string]any)["percent"] != float64(33) || answers[1].(map[string]any)["count"] != float64(1) {
		t.Fatalf("unexpected answer progress: %#v", answers)
	}
}

func TestTasksAnswerRejectsUnknownValue(t *testing.T) {
	f := newFixture(t)

	stderr := f.mustFail("tasks", "answer", "maybe")
	if !strings.Contains(stderr, `"maybe" is not an answer of question "0"`) {
		t.Fatalf("expected invalid answer error; got %q", stderr)
	}
}

func TestTasksNavigationClamps(t *testing.T) {
	f := newFixture(t)

	if pos := dataMap(t, f.mustRun("tasks", "back"))["position"]; pos != float64(1) {
		t.Fatalf("expected back to clamp at 1; got %v", pos)
	}
	if pos := dataMap(t, f.mustRun("tasks", "last"))["position"]; pos != float64(3) {
		t.Fatalf("expected last at 3; got %v", pos)
	}
	if pos := dataMap(t, f.mustRun("tasks", "next"))["position"]; pos != float64(3) {
		t.Fatalf("expected next to clamp at 3; got %v", pos)
	}
	if pos := dataMap(t, f.mustRun("tasks", "goto", "2"))["position"]; pos != float64(2) {
		t.Fatalf("expected goto 2; got %v", pos)
	}
	f.mustFail("tasks", "goto", "99")
}

func TestBulkApplyToFilteredTopic(t *testing.T) {
	f := newFixture(t)

	filter := dataMap(t, f.mustRun("tasks", "filter", "1"))
	if filter["tasks"] != float64(2) {
		t.Fatalf("expected 2 tasks on topic 1; got %#v", filter)
	}

	staged := dataMap(t, f.mustRun("bulk", "stage", "no", "--question", "0"))
	if staged["draft"].(map[string]any)["0"] != "no" {
		t.Fatalf("expected staged draft; got %#v", staged)
	}

	applied := dataMap(t, f.mustRun("bulk", "apply"))
	if applied["applied"] != float64(2) {
		t.Fatalf("expected 2 documents updated; got %#v", applied)
	}

	for id, want := range map[string]any{"1": "no", "3": "no", "2": nil} {
		task := dataMap(t, f.mustRun("tasks", "show", id))
		ann, _ := task["annotations"].(map[string]any)
		var got any
		if ann != nil {
			got = ann["0"]
		}
		if got != want {
			t.Fatalf("task %s: expected annotation %v; got %v", id, want, got)
		}
	}
}

func TestTopicsDeleteRemovesTopiclessTasks(t *testing.T) {
	f := newFixture(t)

	preview := dataMap(t, f.mustRun("topics", "delete", "2", "--dry-run"))
	if left := preview["tasksLeftEmpty"].([]any); len(left) != 1 || left[0] != "2" {
		t.Fatalf("unexpected preview: %#v", preview)
	}

	res := dataMap(t, f.mustRun("topics", "delete", "2", "--remove-topicless"))
	if removed := res["removedTasks"].([]any); len(removed) != 1 || removed[0] != "2" {
		t.Fatalf("unexpected removed tasks: %#v", res)
	}

	topics := f.mustRun("topics", "list")["data"].([]any)
	if len(topics) != 1 || topics[0].(map[string]any)["name"] != "politics_2020" {
		t.Fatalf("unexpected topics after delete: %#v", topics)
	}
	f.mustFail("topics", "delete", "2")
}

func TestTopicsAutoFormatAndUpdate(t *testing.T) {
	f := newFixture(t)

	topics := f.mustRun("topics", "auto-format")["data"].([]any)
	if topics[0].(map[string]any)["name"] != "Politics" {
		t.Fatalf("expected auto-formatted name; got %#v", topics[0])
	}

	tp := dataMap(t, f.mustRun("topics", "update", "2", "--color", "ABC"))
	if tp["color"] != "#aabbcc" {
		t.Fatalf("expected normalized color; got %#v", tp)
	}
	f.mustFail("topics", "update", "2", "--color", "nope")
}

func TestQuestionsAddWithRelevancy(t *testing.T) {
	f := newFixture(t)

	env := f.mustRun("questions", "add", "--text", "Why not?", "--answer", "Spam", "--answer", "Other=other", "--relevancy", "0=no")
	qs := env["data"].([]any)
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions; got %#v", qs)
	}
	q := qs[1].(map[string]any)
	if q["prop"] != "1" {
		t.Fatalf("expected next free prop 1; got %#v", q["prop"])
	}
	rel := q["relevancy"].([]any)[0].([]any)[0].(map[string]any)
	if rel["prop"] != "0" || rel["value"] != "no" {
		t.Fatalf("unexpected relevancy: %#v", rel)
	}

	f.mustRun("questions", "move", "1", "0")
	qs = f.mustRun("questions", "list")["data"].([]any)
	if qs[0].(map[string]any)["prop"] != "1" {
		t.Fatalf("expected moved question first; got %#v", qs)
	}

	f.mustRun("questions", "delete", "1")
	qs = f.mustRun("questions", "list")["data"].([]any)
	if len(qs) != 1 {
		t.Fatalf("expected 1 question after delete; got %d", len(qs))
	}
}

func TestCollectionsExportRoundTrip(t *testing.T) {
	f := newFixture(t)
	out := t.TempDir()

	f.mustRun("tasks", "answer", "yes")
	res := dataMap(t, f.mustRun("collections", "export", "--artifact", "data", "--to", out))
	path, _ := res["path"].(string)
	if path != filepath.Join(out, "news_data.json") {
		t.Fatalf("unexpected export path %q", path)
	}

	f.mustRun("collections", "import-combined", path, "--name", "news copy")
	cols := f.mustRun("collections", "list")["data"].([]any)
	if len(cols) != 2 {
		t.Fatalf("expected re-imported collection; got %#v", cols)
	}
	c := cols[1].(map[string]any)
	if c["annotated"] != float64(1) || c["topics"] != float64(2) || c["selected"] != true {
		t.Fatalf("unexpected re-imported summary: %#v", c)
	}
}

func TestCollectionsDuplicateKeepsName(t *testing.T) {
	f := newFixture(t)

	f.mustRun("collections", "duplicate")
	cols := f.mustRun("collections", "list")["data"].([]any)
	if len(cols) != 2 || cols[1].(map[string]any)["name"] != "news" {
		t.Fatalf("expected a same-named copy; got %#v", cols)
	}

	f.mustRun("collections", "select", "1")
	f.mustRun("collections", "delete")
	cols = f.mustRun("collections", "list")["data"].([]any)
	if len(cols) != 1 || cols[0].(map[string]any)["selected"] != true {
		t.Fatalf("expected first collection selected after delete; got %#v", cols)
	}

	f.mustRun("collections", "delete")
	f.mustFail("tasks", "current")
}

func TestCollectionsReportMarkdown(t *testing.T) {
	f := newFixture(t)

	md, _ := dataMap(t, f.mustRun("collections", "report"))["markdown"].(string)
	if !strings.Contains(md, "# news") || !strings.Contains(md, "## Relevant? (0)") {
		t.Fatalf("unexpected report markdown:\n%s", md)
	}
}

func TestDoctorCleanWorkspace(t *testing.T) {
	f := newFixture(t)

	env := f.mustRun("doctor", "--fail")
	if env["meta"].(map[string]any)["hasErrors"] != false {
		t.Fatalf("expected no doctor errors; got %#v", env)
	}
}

func TestEDNFormat(t *testing.T) {
	f := newFixture(t)

	stdout, stderr, err := runCLI(t, []string{"--dir", f.dir, "--format", "edn", "collections", "list"})
	if err != nil {
		t.Fatalf("edn list: %v\n%s", err, stderr)
	}
	if !strings.HasPrefix(string(stdout), "{:data [{") {
		t.Fatalf("expected edn envelope; got %s", stdout)
	}
}

func TestWorkspaceUseDrivesResolution(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("ANNOTATE_CONFIG_DIR", cfgDir)
	t.Setenv("ANNOTATE_DIR", "")

	stdout, stderr, err := runCLI(t, []string{"workspace", "use", "research"})
	if err != nil {
		t.Fatalf("workspace use: %v\n%s", err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	stdout, stderr, err = runCLI(t, []string{"init"})
	if err != nil {
		t.Fatalf("init: %v\n%s", err, stderr)
	}
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := filepath.Join(cfgDir, "workspaces", "research")
	if got := dataMap(t, env)["dir"]; got != want {
		t.Fatalf("expected init in the current workspace %q; got %v", want, got)
	}

	stdout, _, err = runCLI(t, []string{"workspace", "list"})
	if err != nil {
		t.Fatalf("workspace list: %v", err)
	}
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if dataMap(t, env)["currentWorkspace"] != "research" {
		t.Fatalf("unexpected workspace list: %#v", env)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	_, stderr, err := runCLI(t, []string{"--dir", t.TempDir(), "--log-level", "loud", "collections", "list"})
	if err == nil || !strings.Contains(string(stderr), "invalid --log-level") {
		t.Fatalf("expected log level error; got err=%v stderr=%q", err, stderr)
	}
}

func TestDocsListAndShow(t *testing.T) {
	f := newFixture(t)

	env := f.mustRun("docs")
	topics, _ := dataMap(t, env)["topics"].([]any)
	if len(topics) == 0 {
		t.Fatalf("expected docs topics; got %#v", env)
	}

	env = f.mustRun("docs", "relevancy")
	if md, _ := dataMap(t, env)["markdown"].(string); !strings.HasPrefix(md, "# Relevancy") {
		t.Fatalf("expected relevancy markdown; got %q", md)
	}

	stderr := f.mustFail("docs", "nope")
	if !strings.Contains(stderr, `unknown docs topic: "nope"`) {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
}

func TestCommitKeepsTUIView(t *testing.T) {
	f := newFixture(t)
	s := store.Store{Dir: f.dir}
	st, err := s.LoadNavState()
	if err != nil {
		t.Fatalf("LoadNavState: %v", err)
	}
	st.View = "collections"
	if err := s.SaveNavState(st); err != nil {
		t.Fatalf("SaveNavState: %v", err)
	}

	f.mustRun("tasks", "next")

	st, err = s.LoadNavState()
	if err != nil {
		t.Fatalf("LoadNavState: %v", err)
	}
	if st.View != "collections" || st.TaskIndex != 1 {
		t.Fatalf("expected view kept and cursor moved; got %+v", st)
	}
}
