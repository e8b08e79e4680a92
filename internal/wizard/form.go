// Package wizard drives a single post authoring session through its four
// steps, gating forward navigation on validation and handing the finished
// draft to a Saver.
package wizard

import (
	"fmt"
	"maps"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/blog-wizard/internal/model"
	"github.com/debemdeboas/blog-wizard/internal/validation"
)

var wizardLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	wizardLogger = l
}

// Saver is the part of the post store a form needs.
type Saver interface {
	Create(d model.Draft) (model.PostID, error)
	Update(id model.PostID, patch model.DraftPatch) bool
}

// Form is not safe for concurrent use. Callers sharing a form across
// goroutines must serialize access themselves.
type Form struct {
	saver Saver

	draft   model.Draft
	step    model.StepID
	errors  map[model.Field]string
	touched map[model.Field]bool

	// Empty in create mode.
	postID model.PostID
}

// New starts an empty form in create mode.
func New(saver Saver) *Form {
	f := &Form{saver: saver}
	f.reset()
	return f
}

// NewEdit starts a form seeded from post. Submitting it updates that post.
func NewEdit(saver Saver, post model.Post) *Form {
	f := New(saver)
	f.draft = post.Draft()
	f.postID = post.ID
	return f
}

func (f *Form) reset() {
	f.draft = model.Draft{}
	f.step = model.FirstStep
	f.errors = make(map[model.Field]string)
	f.touched = make(map[model.Field]bool)
	f.postID = ""
}

// Reset discards everything, including an edit binding, and returns the
// form to its initial create-mode state.
func (f *Form) Reset() {
	f.reset()
}

func (f *Form) Draft() model.Draft {
	return f.draft
}

func (f *Form) Current() model.StepID {
	return f.step
}

// PostID returns the post being edited, or "" in create mode.
func (f *Form) PostID() model.PostID {
	return f.postID
}

func (f *Form) IsEditing() bool {
	return f.postID != ""
}

// Errors returns a copy of the recorded field errors.
func (f *Form) Errors() map[model.Field]string {
	return maps.Clone(f.errors)
}

func (f *Form) Error(field model.Field) string {
	return f.errors[field]
}

// StepErrors returns the recorded errors for the fields owned by step.
func (f *Form) StepErrors(step model.StepID) map[model.Field]string {
	out := make(map[model.Field]string)
	for _, field := range validation.StepFields(step) {
		if msg, ok := f.errors[field]; ok {
			out[field] = msg
		}
	}
	return out
}

func (f *Form) StepHasErrors(step model.StepID) bool {
	return len(f.StepErrors(step)) > 0
}

func (f *Form) Touched(field model.Field) bool {
	return f.touched[field]
}

// IsStepTouched reports whether every field owned by step has been touched.
func (f *Form) IsStepTouched(step model.StepID) bool {
	fields := validation.StepFields(step)
	if len(fields) == 0 {
		return false
	}
	for _, field := range fields {
		if !f.touched[field] {
			return false
		}
	}
	return true
}

// Steps derives the metadata of all four steps from the current draft.
func (f *Form) Steps() []model.Step {
	steps := make([]model.Step, 0, model.LastStep)
	for id := model.FirstStep; id <= model.LastStep; id++ {
		valid := validation.ValidateStep(id, f.draft)
		steps = append(steps, model.Step{
			ID:          id,
			Title:       id.Title(),
			IsValid:     valid,
			IsCompleted: valid,
		})
	}
	return steps
}

type StepSummary struct {
	Step      model.StepID `json:"step"`
	IsValid   bool         `json:"isValid"`
	HasErrors bool         `json:"hasErrors"`
	IsTouched bool         `json:"isTouched"`
}

func (f *Form) Summary() []StepSummary {
	out := make([]StepSummary, 0, model.LastStep)
	for id := model.FirstStep; id <= model.LastStep; id++ {
		out = append(out, StepSummary{
			Step:      id,
			IsValid:   validation.ValidateStep(id, f.draft),
			HasErrors: f.StepHasErrors(id),
			IsTouched: f.IsStepTouched(id),
		})
	}
	return out
}

func (f *Form) revalidate(field model.Field) string {
	msg := validation.ValidateField(field, f.draft.Value(field))
	if msg == "" {
		delete(f.errors, field)
	} else {
		f.errors[field] = msg
	}
	return msg
}

// UpdateField stores value and re-validates that field alone.
func (f *Form) UpdateField(field model.Field, value string) {
	f.draft.Set(field, value)
	f.revalidate(field)
}

// TouchField behaves like UpdateField, marks the field as touched and
// returns the resulting error message ("" when the field is valid).
func (f *Form) TouchField(field model.Field, value string) string {
	f.draft.Set(field, value)
	f.touched[field] = true
	return f.revalidate(field)
}

func (f *Form) CanGoNext() bool {
	return validation.ValidateStep(f.step, f.draft)
}

func (f *Form) CanGoBack() bool {
	return f.step > model.FirstStep
}

func (f *Form) IsLastStep() bool {
	return f.step == model.LastStep
}

// CanNavigateTo allows any step up to the current one. A later step is
// reachable only when every step before it validates.
func (f *Form) CanNavigateTo(target model.StepID) bool {
	if !target.IsValid() {
		return false
	}
	if target <= f.step {
		return true
	}
	for s := model.FirstStep; s < target; s++ {
		if !validation.ValidateStep(s, f.draft) {
			return false
		}
	}
	return true
}

// Next advances one step when the current step validates. It reports
// whether the step changed.
func (f *Form) Next() bool {
	if f.IsLastStep() || !f.CanGoNext() {
		return false
	}
	f.step++
	return true
}

func (f *Form) Previous() bool {
	if !f.CanGoBack() {
		return false
	}
	f.step--
	return true
}

func (f *Form) GoTo(target model.StepID) bool {
	if !f.CanNavigateTo(target) {
		return false
	}
	f.step = target
	return true
}

// Submit validates steps 1 to 3 and hands the draft to the saver. A failed
// check returns a *ValidationError, records every field error and leaves the
// saver untouched. A saver failure wraps ErrSaveFailed and keeps the form
// intact so the caller can retry.
//
// A successful create resets the form. A successful edit leaves it as is.
func (f *Form) Submit() (model.PostID, error) {
	if fieldErrs := f.checkAll(); len(fieldErrs) > 0 {
		f.errors = fieldErrs
		wizardLogger.Debug().Int("errors", len(fieldErrs)).Msg("Submit blocked by validation")
		return "", &ValidationError{Fields: maps.Clone(fieldErrs)}
	}

	if f.IsEditing() {
		id := f.postID
		if !f.saver.Update(id, model.PatchFrom(f.draft)) {
			wizardLogger.Error().Str("post_id", string(id)).Msg("Post to update no longer exists")
			return "", fmt.Errorf("%w: post %s not found", ErrSaveFailed, id)
		}
		return id, nil
	}

	id, err := f.saver.Create(f.draft)
	if err != nil {
		wizardLogger.Error().Err(err).Msg("Error creating post")
		return "", fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	f.reset()
	return id, nil
}

func (f *Form) checkAll() map[model.Field]string {
	errs := make(map[model.Field]string)
	for s := model.FirstStep; s < model.LastStep; s++ {
		for _, field := range validation.StepFields(s) {
			if msg := validation.ValidateField(field, f.draft.Value(field)); msg != "" {
				errs[field] = msg
			}
		}
	}
	return errs
}
