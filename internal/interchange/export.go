package interchange

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"annotate-cli/internal/model"
)

type Artifact string

const (
	ArtifactTasks       Artifact = "tasks"
	ArtifactTasksSubset Artifact = "tasks_subset"
	ArtifactTopics      Artifact = "topics"
	ArtifactQuestions   Artifact = "questions"
	ArtifactData        Artifact = "data"
)

// Filename returns the export file name for a collection artifact.
// Subsets carry their size: {name}_tasks_subset_{n}.json.
func Filename(collection string, a Artifact, subsetSize int) string {
	if a == ArtifactTasksSubset {
		return fmt.Sprintf("%s_%s_%d.json", collection, a, subsetSize)
	}
	return fmt.Sprintf("%s_%s.json", collection, a)
}

// Marshal encodes an export payload. subset is only used by ArtifactTasksSubset.
func Marshal(c model.Collection, a Artifact, subset []model.Task) ([]byte, error) {
	switch a {
	case ArtifactTasks:
		return json.Marshal(nonNilTasks(c.Tasks))
	case ArtifactTasksSubset:
		return json.Marshal(nonNilTasks(subset))
	case ArtifactTopics:
		if c.Topics == nil {
			return json.Marshal([]model.Topic{})
		}
		return json.Marshal(c.Topics)
	case ArtifactQuestions:
		if c.Questions == nil {
			return json.Marshal([]model.Question{})
		}
		return json.Marshal(c.Questions)
	case ArtifactData:
		return json.Marshal(Payload{Tasks: nonNilTasks(c.Tasks), Topics: c.Topics, Questions: c.Questions})
	default:
		return nil, fmt.Errorf("unknown export artifact: %s", a)
	}
}

// WriteExport writes the artifact into dir and returns the written path.
func WriteExport(dir string, c model.Collection, a Artifact, subset []model.Task) (string, error) {
	b, err := Marshal(c, a, subset)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, Filename(c.Name, a, len(subset)))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func nonNilTasks(xs []model.Task) []model.Task {
	if xs == nil {
		return []model.Task{}
	}
	return xs
}
