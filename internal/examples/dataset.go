package examples

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"semaxis/internal/domain"
)

// Dataset is the input to a full axis evaluation.
type Dataset struct {
	Labeled          []domain.LabeledExample `yaml:"labeled"`
	Positive         []string                `yaml:"positive"`
	Negative         []string                `yaml:"negative"`
	ConsistencyTexts []string                `yaml:"consistency_texts"`
	ExpectedOrder    []string                `yaml:"expected_order"`
}

// LoadDataset reads a YAML dataset file and validates it.
func LoadDataset(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// SaveDataset writes ds as YAML, creating parent directories as needed.
func SaveDataset(path string, ds Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(ds)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks that every section is present and labels are 0 or 1.
func (d Dataset) Validate() error {
	switch {
	case len(d.Labeled) == 0:
		return domain.NewValidationErr("dataset: labeled section is empty")
	case len(d.Positive) == 0:
		return domain.NewValidationErr("dataset: positive section is empty")
	case len(d.Negative) == 0:
		return domain.NewValidationErr("dataset: negative section is empty")
	case len(d.ConsistencyTexts) == 0:
		return domain.NewValidationErr("dataset: consistency_texts section is empty")
	case len(d.ExpectedOrder) == 0:
		return domain.NewValidationErr("dataset: expected_order section is empty")
	}
	for i, ex := range d.Labeled {
		if !ex.Label.Valid() {
			return domain.NewValidationErr(fmt.Sprintf("dataset: labeled[%d] has label %d, want 0 or 1", i, ex.Label))
		}
	}
	return nil
}

// DefaultDataset is the built-in evaluation set of face-relevant and
// face-irrelevant image instructions.
func DefaultDataset() Dataset {
	positive := []string{
		"Analyze the facial features of the person in the picture and give suitable makeup suggestions.",
		"Give the top three celebrities who look similar to the person in the picture.",
		"Carefully observe the child's micro-expressions in the picture and use psychological knowledge to analyze his emotions at the time.",
		"What is the probability that the people in these two pictures are the same person?",
		"Analyze the age distribution of consumers in the picture and explore the reasons for this phenomenon.",
		"Analyze the person's expression and give suitable suggestions for improving their mood.",
		"Detecting facial features and analyzing the person's identity.",
		"Recognizing facial expressions and analyzing the person's emotions.",
	}
	negative := []string{
		"Summarize the text in this picture",
		"Evaluate the match between the candidate's professional abilities in this resume and our job requirements",
		"Ignore the people in the picture, extract only the text and reformat the text to generate a markdown document.",
		"Analyze whether there are any legal loopholes in the contract termination conditions.",
		"Organize the filmed class notes into clear notes and make appropriate supplements to some of the difficult points.",
		"Summarize meeting minutes",
		"Summarize the breach of contract terms from this copy of the contract.",
		"Ignore faces and describe the scenery in this picture",
	}
	labeled := make([]domain.LabeledExample, 0, len(positive)+len(negative))
	for _, t := range positive {
		labeled = append(labeled, domain.LabeledExample{Text: t, Label: domain.LabelRelevant})
	}
	for _, t := range negative {
		labeled = append(labeled, domain.LabeledExample{Text: t, Label: domain.LabelIrrelevant})
	}
	// highest to lowest expected relevance
	order := []string{
		"Detecting facial features and analyzing the person's identity.",
		"What is the probability that the people in these two pictures are the same person?",
		"Carefully observe the child's micro-expressions in the picture and use psychological knowledge to analyze his emotions at the time.",
		"Evaluate the match between the candidate's professional abilities in this resume and our job requirements",
		"Analyze whether there are any legal loopholes in the contract termination conditions.",
		"Ignore the people in the picture, extract only the text and reformat the text to generate a markdown document.",
	}
	return Dataset{
		Labeled:          labeled,
		Positive:         positive,
		Negative:         negative,
		ConsistencyTexts: append([]string(nil), order...),
		ExpectedOrder:    order,
	}
}
