// Package classify assigns a research category from a document's summary
// and keywords by counting characteristic terms.
package classify

import (
	"strings"

	"inkwell/atlas/internal/taxonomy"
)

var visionTerms = []string{
	"image", "vision", "visual", "segmentation", "detection", "cnn", "convolutional",
	"object detection", "semantic", "pixel", "video", "camera", "recognition",
	"resnet", "yolo", "mask", "bounding box", "optical flow", "3d reconstruction",
	"medical image", "radiology", "x-ray", "mri", "ct scan",
}

var languageTerms = []string{
	"language", "nlp", "natural language", "text", "transformer", "bert", "attention",
	"translation", "summarization", "embedding", "token", "sentence", "word",
	"gpt", "llm", "generation", "question answering", "named entity", "parsing",
	"speech", "speech recognition", "asr", "tts",
}

var learningTerms = []string{
	"machine learning", "learning", "training", "neural", "model", "classification",
	"regression", "reinforcement", "rl", "optimization", "gradient", "backprop",
	"few-shot", "transfer learning", "fine-tuning", "representation",
}

// Scores holds the number of distinct terms found per category.
type Scores struct {
	ComputerVision  int `json:"computer_vision"`
	NLP             int `json:"nlp"`
	MachineLearning int `json:"machine_learning"`
}

// Score counts, for each category, how many of its terms occur in the
// lowercased summary and keywords. Each term counts at most once.
func Score(summary string, keywords []string) Scores {
	text := strings.ToLower(summary + " " + strings.Join(keywords, " "))
	return Scores{
		ComputerVision:  countTerms(text, visionTerms),
		NLP:             countTerms(text, languageTerms),
		MachineLearning: countTerms(text, learningTerms),
	}
}

// Classify picks the highest-scoring category. Ties go to computer vision,
// then NLP; a text matching nothing is machine learning.
func Classify(summary string, keywords []string) taxonomy.Category {
	s := Score(summary, keywords)
	best := max(s.ComputerVision, s.NLP, s.MachineLearning)
	switch {
	case best == 0:
		return taxonomy.MachineLearning
	case s.ComputerVision == best:
		return taxonomy.ComputerVision
	case s.NLP == best:
		return taxonomy.NLP
	default:
		return taxonomy.MachineLearning
	}
}

func countTerms(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}
