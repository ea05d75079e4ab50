package mutate

import "annotate-cli/internal/model"

func sentence(topic model.TopicID) model.Sentence {
	return model.Sentence{Text: "s", Topic: topic}
}

func task(id string, topics ...model.TopicID) model.Task {
	t := model.Task{ID: id, Title: "Task " + id, Sentences: []model.Sentence{}}
	for _, tp := range topics {
		t.Sentences = append(t.Sentences, sentence(tp))
	}
	return t
}

func topic(id float64, name string) model.Topic {
	return model.Topic{ID: model.NumTopic(id), Name: name, Color: "#ffffff"}
}

func floatPtr(f float64) *float64 { return &f }
