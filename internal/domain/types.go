package domain

// Label is the ground-truth class of an example. 1 marks the positive
// (face-relevant) class.
type Label int

const (
	LabelIrrelevant Label = 0
	LabelRelevant   Label = 1
)

// Valid reports whether l is one of the two known classes.
func (l Label) Valid() bool { return l == LabelIrrelevant || l == LabelRelevant }

// LabeledExample is a text paired with its expected class.
type LabeledExample struct {
	Text  string `yaml:"text"`
	Label Label  `yaml:"label"`
}

// Relevance is the banded interpretation of a projection score.
type Relevance int

const (
	Irrelevant Relevance = iota
	LowRelevance
	ModeratelyRelevant
	HighlyRelevant
)

// String returns a short label for the band.
func (r Relevance) String() string {
	switch r {
	case HighlyRelevant:
		return "highly relevant"
	case ModeratelyRelevant:
		return "moderately relevant"
	case LowRelevance:
		return "low relevance"
	default:
		return "irrelevant"
	}
}

// Description explains how much facial information a task in this band needs.
func (r Relevance) Description() string {
	switch r {
	case HighlyRelevant:
		return "Highly relevant: the task is highly related to facial information, most facial information should be retained."
	case ModeratelyRelevant:
		return "Moderately relevant: the task is somewhat related to facial information, moderate protection is needed."
	case LowRelevance:
		return "Low relevance: the task is less related to facial information, strict masking can be applied."
	default:
		return "Irrelevant: the task is not related to facial information, full masking can be applied."
	}
}

// MaskType is the face-masking policy a client applies for a relevance band,
// from keeping the face almost intact to hiding it entirely.
type MaskType string

const (
	MaskMostLenient       MaskType = "the_most_lenient"
	MaskSecondMostLenient MaskType = "the_second_most_lenient"
	MaskSecondMostStrict  MaskType = "the_second_most_strict"
	MaskMostStrict        MaskType = "the_most_strict"
)

// MaskType returns the masking policy for the band.
func (r Relevance) MaskType() MaskType {
	switch r {
	case HighlyRelevant:
		return MaskMostLenient
	case ModeratelyRelevant:
		return MaskSecondMostLenient
	case LowRelevance:
		return MaskSecondMostStrict
	default:
		return MaskMostStrict
	}
}
