package model

// StepID identifies one stage of the four-stage wizard.
type StepID int

const (
	StepMetadata StepID = iota + 1
	StepSummary
	StepContent
	StepReview
)

const (
	FirstStep = StepMetadata
	LastStep  = StepReview
)

var stepTitles = map[StepID]string{
	StepMetadata: "Blog Metadata",
	StepSummary:  "Blog Summary & Category",
	StepContent:  "Blog Content",
	StepReview:   "Review & Submit",
}

func (s StepID) IsValid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s StepID) Title() string {
	return stepTitles[s]
}

// Step is the presentation-facing view of a wizard stage. IsCompleted
// mirrors IsValid and gates forward navigation.
type Step struct {
	ID          StepID `json:"id"`
	Title       string `json:"title"`
	IsValid     bool   `json:"isValid"`
	IsCompleted bool   `json:"isCompleted"`
}
