package taxonomy

import "strings"

// Category is one of the fixed research areas a document or topic belongs to.
type Category string

const (
	ComputerVision  Category = "computer-vision"
	NLP             Category = "nlp"
	MachineLearning Category = "machine-learning"
)

// Fallback is used for records whose category is unset or unrecognized.
const Fallback = MachineLearning

// Categories lists the known categories in display order.
var Categories = []Category{ComputerVision, NLP, MachineLearning}

var categoryAliases = map[string]Category{
	"computer-vision":  ComputerVision,
	"computer vision":  ComputerVision,
	"cv":               ComputerVision,
	"vision":           ComputerVision,
	"nlp":              NLP,
	"natural-language": NLP,
	"language":         NLP,
	"machine-learning": MachineLearning,
	"machine learning": MachineLearning,
	"ml":               MachineLearning,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// DisplayName returns the human label for the category.
func (c Category) DisplayName() string {
	switch c {
	case ComputerVision:
		return "Computer Vision"
	case NLP:
		return "NLP"
	case MachineLearning:
		return "Machine Learning"
	default:
		return string(c)
	}
}

// ParseCategory maps a loose category string onto a known category,
// returning Fallback when nothing matches.
func ParseCategory(s string) Category {
	c, ok := LookupCategory(s)
	if !ok {
		return Fallback
	}
	return c
}

// LookupCategory is ParseCategory without the fallback.
func LookupCategory(s string) (Category, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return "", false
	}
	c, ok := categoryAliases[key]
	return c, ok
}
