// Package validate checks the shape of imported JSON before it is decoded into model types.
//
// The checks run on the generic tree produced by encoding/json (map[string]any, []any),
// so they only look at key presence and basic types.
package validate

type Artifact string

const (
	ArtifactNoFile    Artifact = "file"
	ArtifactDocuments Artifact = "documents"
	ArtifactTopics    Artifact = "topics"
	ArtifactQuestions Artifact = "questions"
	ArtifactData      Artifact = "data"
)

// Error reports which imported artifact failed validation.
type Error struct {
	Artifact Artifact
}

func (e *Error) Error() string {
	switch e.Artifact {
	case ArtifactNoFile:
		return "No file provided"
	case ArtifactData:
		return "Invalid data format"
	default:
		return "Invalid format for: " + string(e.Artifact)
	}
}

func fail(a Artifact) error { return &Error{Artifact: a} }

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && len(m) > 0
}

func has(m map[string]any, k string) bool {
	_, ok := m[k]
	return ok
}

func isString(m map[string]any, k string) bool {
	_, ok := m[k].(string)
	return ok
}

func IsValidSentence(v any) bool {
	m, ok := asObject(v)
	return ok && has(m, "text") && has(m, "topic")
}

// IsValidTask requires id, title and a sentences array of valid sentences (possibly empty).
func IsValidTask(v any) bool {
	m, ok := asObject(v)
	if !ok || !has(m, "id") || !has(m, "title") {
		return false
	}
	sentences, ok := m["sentences"].([]any)
	if !ok {
		return false
	}
	for _, s := range sentences {
		if !IsValidSentence(s) {
			return false
		}
	}
	return true
}

func IsValidTopic(v any) bool {
	m, ok := asObject(v)
	if !ok {
		return false
	}
	name, ok := m["name"].(string)
	return ok && name != ""
}

func IsValidAnswer(v any) bool {
	m, ok := asObject(v)
	return ok && isString(m, "label")
}

func isRelevancyOrTest(v any) bool {
	m, ok := asObject(v)
	return ok && isString(m, "prop")
}

func isRelevancyAndBlock(v any) bool {
	xs, ok := v.([]any)
	if !ok {
		return false
	}
	for _, x := range xs {
		if !isRelevancyOrTest(x) {
			return false
		}
	}
	return true
}

func IsValidQuestion(v any) bool {
	m, ok := asObject(v)
	if !ok || !isString(m, "text") || !isString(m, "prop") {
		return false
	}
	answers, ok := m["answers"].([]any)
	if !ok {
		return false
	}
	for _, a := range answers {
		if !IsValidAnswer(a) {
			return false
		}
	}
	rel, present := m["relevancy"]
	if !present || rel == nil {
		return true
	}
	blocks, ok := rel.([]any)
	if !ok {
		return false
	}
	for _, b := range blocks {
		if !isRelevancyAndBlock(b) {
			return false
		}
	}
	return true
}

func every(v any, pred func(any) bool, allowEmpty bool) bool {
	xs, ok := v.([]any)
	if !ok {
		return false
	}
	if len(xs) == 0 {
		return allowEmpty
	}
	for _, x := range xs {
		if !pred(x) {
			return false
		}
	}
	return true
}

func nonEmptyArray(v any) bool {
	xs, ok := v.([]any)
	return ok && len(xs) > 0
}

// Tasks validates a documents file.
func Tasks(v any) error {
	if !nonEmptyArray(v) {
		return fail(ArtifactNoFile)
	}
	if !every(v, IsValidTask, false) {
		return fail(ArtifactDocuments)
	}
	return nil
}

// Topics validates a topics file.
func Topics(v any) error {
	if !nonEmptyArray(v) {
		return fail(ArtifactNoFile)
	}
	if !every(v, IsValidTopic, false) {
		return fail(ArtifactTopics)
	}
	return nil
}

// Questions validates a questions file.
func Questions(v any) error {
	if !nonEmptyArray(v) {
		return fail(ArtifactNoFile)
	}
	if !every(v, IsValidQuestion, false) {
		return fail(ArtifactQuestions)
	}
	return nil
}

// Combined validates a {tasks, topics?, questions?} file. Optional parts are checked
// only when present and non-null; any failure rejects the whole payload.
func Combined(v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return fail(ArtifactData)
	}
	if !every(m["tasks"], IsValidTask, false) {
		return fail(ArtifactData)
	}
	if t, ok := m["topics"]; ok && t != nil && !every(t, IsValidTopic, true) {
		return fail(ArtifactData)
	}
	if q, ok := m["questions"]; ok && q != nil && !every(q, IsValidQuestion, true) {
		return fail(ArtifactData)
	}
	return nil
}
