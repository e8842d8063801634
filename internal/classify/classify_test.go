package classify

import (
	"testing"

	"inkwell/atlas/internal/taxonomy"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		summary  string
		keywords []string
		want     taxonomy.Category
	}{
		{"empty", "", nil, taxonomy.MachineLearning},
		{"no terms", "A history of medieval trade routes", []string{"economics"}, taxonomy.MachineLearning},
		{"vision", "YOLO-based object detection on video frames", nil, taxonomy.ComputerVision},
		{"language", "Neural machine translation", []string{"BERT", "tokens"}, taxonomy.NLP},
		{"learning", "Gradient methods for reinforcement learning", []string{"optimization"}, taxonomy.MachineLearning},
		{"keywords only", "", []string{"segmentation", "pixel"}, taxonomy.ComputerVision},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.summary, tt.keywords)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify_TiesPreferVisionThenLanguage(t *testing.T) {
	// "image" (CV) vs "text" (NLP): one term each.
	if got := Classify("image text", nil); got != taxonomy.ComputerVision {
		t.Errorf("CV/NLP tie: got %q, want computer-vision", got)
	}
	// "text" (NLP) vs "regression" (ML): one term each.
	if got := Classify("text regression", nil); got != taxonomy.NLP {
		t.Errorf("NLP/ML tie: got %q, want nlp", got)
	}
}

func TestScore_CountsTermsOnce(t *testing.T) {
	s := Score("image image image", nil)
	if s.ComputerVision != 1 {
		t.Errorf("got %d, want 1", s.ComputerVision)
	}
}
