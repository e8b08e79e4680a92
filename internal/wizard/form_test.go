package wizard

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debemdeboas/blog-wizard/internal/model"
	"github.com/debemdeboas/blog-wizard/internal/repository"
	"github.com/debemdeboas/blog-wizard/internal/storage"
	"github.com/debemdeboas/blog-wizard/internal/validation"
)

type fakeSaver struct {
	createErr error
	updateOK  bool

	creates []model.Draft
	updates map[model.PostID]model.DraftPatch
}

func (s *fakeSaver) Create(d model.Draft) (model.PostID, error) {
	s.creates = append(s.creates, d)
	if s.createErr != nil {
		return "", s.createErr
	}
	return "blog_fake", nil
}

func (s *fakeSaver) Update(id model.PostID, patch model.DraftPatch) bool {
	if s.updates == nil {
		s.updates = make(map[model.PostID]model.DraftPatch)
	}
	s.updates[id] = patch
	return s.updateOK
}

func fill(f *Form, d model.Draft) {
	for _, field := range model.Fields {
		f.UpdateField(field, d.Value(field))
	}
}

func scenarioDraft() model.Draft {
	return model.Draft{
		Title:    "Hello World!!",
		Author:   "Jane Doe",
		Summary:  "A short test summary of ten.",
		Category: "Tech",
		Content:  strings.Repeat("x", 60),
	}
}

func TestNew(t *testing.T) {
	f := New(&fakeSaver{})

	assert.Equal(t, model.StepMetadata, f.Current())
	assert.Equal(t, model.Draft{}, f.Draft())
	assert.Empty(t, f.Errors())
	assert.Empty(t, f.PostID())
	assert.False(t, f.IsEditing())
	assert.False(t, f.CanGoBack())
	assert.False(t, f.IsLastStep())
}

func TestStepGateScenario(t *testing.T) {
	f := New(&fakeSaver{})

	assert.False(t, f.Next(), "empty draft must not advance")
	assert.Equal(t, model.StepMetadata, f.Current())

	f.UpdateField(model.FieldTitle, "My First Post")
	f.UpdateField(model.FieldAuthor, "Jane Doe")

	assert.True(t, f.Next())
	assert.Equal(t, model.StepSummary, f.Current())

	assert.False(t, f.GoTo(model.StepReview), "step 2 is still incomplete")
	assert.Equal(t, model.StepSummary, f.Current())

	assert.True(t, f.GoTo(model.StepMetadata))
	assert.Equal(t, model.StepMetadata, f.Current())
}

func TestFullScenario(t *testing.T) {
	store := repository.NewPostStore(storage.NewMemoryBackend())
	existing, err := store.Create(scenarioDraft())
	require.NoError(t, err)

	d := scenarioDraft()
	for step := model.StepMetadata; step <= model.StepContent; step++ {
		require.True(t, validation.ValidateStep(step, d), "step %d", step)
	}

	f := New(store)
	fill(f, d)
	require.True(t, f.Next())
	require.True(t, f.Next())
	require.True(t, f.Next())
	require.True(t, f.IsLastStep())

	id, err := f.Submit()
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NotEqual(t, existing, id)

	post, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, d.Title, post.Title)
	assert.Equal(t, model.CategoryTech, post.Category)

	// create mode resets on success
	assert.Equal(t, model.StepMetadata, f.Current())
	assert.Equal(t, model.Draft{}, f.Draft())
	assert.Empty(t, f.Errors())
}

func TestUpdateField(t *testing.T) {
	f := New(&fakeSaver{})

	f.UpdateField(model.FieldTitle, "ab")
	assert.Equal(t, validation.MsgTitleTooShort, f.Error(model.FieldTitle))
	assert.Equal(t, "ab", f.Draft().Title)

	f.UpdateField(model.FieldTitle, "abc")
	assert.Empty(t, f.Error(model.FieldTitle))
	_, present := f.Errors()[model.FieldTitle]
	assert.False(t, present, "cleared errors are removed from the map")

	assert.False(t, f.Touched(model.FieldTitle))
}

func TestTouchField(t *testing.T) {
	f := New(&fakeSaver{})

	msg := f.TouchField(model.FieldCategory, "Sports")
	assert.Equal(t, validation.MsgInvalidCategory, msg)
	assert.Equal(t, msg, f.Error(model.FieldCategory))
	assert.True(t, f.Touched(model.FieldCategory))
	assert.False(t, f.IsStepTouched(model.StepSummary))

	f.TouchField(model.FieldSummary, "   ")
	assert.True(t, f.IsStepTouched(model.StepSummary))
	assert.True(t, f.StepHasErrors(model.StepSummary))
	assert.Equal(t, map[model.Field]string{
		model.FieldSummary:  validation.MsgRequired,
		model.FieldCategory: validation.MsgInvalidCategory,
	}, f.StepErrors(model.StepSummary))

	assert.Empty(t, f.TouchField(model.FieldCategory, "Lifestyle"))
	assert.Empty(t, f.Error(model.FieldCategory))
}

func TestErrorsIsACopy(t *testing.T) {
	f := New(&fakeSaver{})
	f.UpdateField(model.FieldAuthor, "")

	errs := f.Errors()
	delete(errs, model.FieldAuthor)

	assert.Equal(t, validation.MsgRequired, f.Error(model.FieldAuthor))
}

func TestNavigation(t *testing.T) {
	t.Run("previous is unconditional", func(t *testing.T) {
		f := New(&fakeSaver{})
		fill(f, scenarioDraft())
		require.True(t, f.GoTo(model.StepReview))

		f.UpdateField(model.FieldTitle, "")
		assert.True(t, f.Previous())
		assert.Equal(t, model.StepContent, f.Current())
	})

	t.Run("previous stops at step 1", func(t *testing.T) {
		f := New(&fakeSaver{})
		assert.False(t, f.Previous())
		assert.Equal(t, model.StepMetadata, f.Current())
	})

	t.Run("next stops at the last step", func(t *testing.T) {
		f := New(&fakeSaver{})
		fill(f, scenarioDraft())
		require.True(t, f.GoTo(model.StepReview))

		assert.True(t, f.CanGoNext())
		assert.False(t, f.Next())
		assert.Equal(t, model.StepReview, f.Current())
	})

	t.Run("going back is allowed with invalid fields", func(t *testing.T) {
		f := New(&fakeSaver{})
		fill(f, scenarioDraft())
		require.True(t, f.GoTo(model.StepContent))

		f.UpdateField(model.FieldTitle, "")
		f.UpdateField(model.FieldSummary, "")
		assert.True(t, f.GoTo(model.StepSummary))
		assert.True(t, f.GoTo(model.StepSummary), "revisiting the current step is allowed")
		assert.Equal(t, model.StepSummary, f.Current())
	})

	t.Run("forward jump needs every earlier step", func(t *testing.T) {
		f := New(&fakeSaver{})
		d := scenarioDraft()
		d.Summary = ""
		fill(f, d)

		assert.True(t, f.CanNavigateTo(model.StepSummary))
		assert.False(t, f.CanNavigateTo(model.StepContent))
		assert.False(t, f.CanNavigateTo(model.StepReview))

		f.UpdateField(model.FieldSummary, d.Value(model.FieldTitle)+" is fine now")
		assert.True(t, f.GoTo(model.StepReview))
	})

	t.Run("out of range targets are rejected", func(t *testing.T) {
		f := New(&fakeSaver{})
		fill(f, scenarioDraft())
		for _, target := range []model.StepID{0, -1, 5} {
			assert.False(t, f.CanNavigateTo(target))
			assert.False(t, f.GoTo(target))
		}
		assert.Equal(t, model.StepMetadata, f.Current())
	})
}

func TestSteps(t *testing.T) {
	f := New(&fakeSaver{})
	f.UpdateField(model.FieldTitle, "My First Post")
	f.UpdateField(model.FieldAuthor, "Jane Doe")

	steps := f.Steps()
	require.Len(t, steps, 4)

	wantTitles := []string{"Blog Metadata", "Blog Summary & Category", "Blog Content", "Review & Submit"}
	for i, s := range steps {
		assert.Equal(t, model.StepID(i+1), s.ID)
		assert.Equal(t, wantTitles[i], s.Title)
		assert.Equal(t, s.IsValid, s.IsCompleted)
	}
	assert.True(t, steps[0].IsValid)
	assert.False(t, steps[1].IsValid)
	assert.False(t, steps[3].IsValid)
}

func TestSummary(t *testing.T) {
	f := New(&fakeSaver{})
	f.TouchField(model.FieldTitle, "My First Post")
	f.TouchField(model.FieldAuthor, "J")

	summary := f.Summary()
	require.Len(t, summary, 4)
	assert.Equal(t, StepSummary{Step: model.StepMetadata, IsValid: false, HasErrors: true, IsTouched: true}, summary[0])
	assert.Equal(t, StepSummary{Step: model.StepSummary}, summary[1])
}

func TestSubmit(t *testing.T) {
	t.Run("invalid draft never reaches the saver", func(t *testing.T) {
		saver := &fakeSaver{}
		f := New(saver)
		d := scenarioDraft()
		d.Content = "too short"
		fill(f, d)
		require.True(t, f.GoTo(model.StepContent))

		id, err := f.Submit()

		assert.Empty(t, id)
		assert.ErrorIs(t, err, ErrValidationFailed)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, map[model.Field]string{model.FieldContent: validation.MsgContentTooShort}, verr.Fields)
		assert.Contains(t, err.Error(), "content: "+validation.MsgContentTooShort)

		assert.Empty(t, saver.creates)
		assert.Equal(t, model.StepContent, f.Current(), "a failed submit keeps the session")
		assert.Equal(t, d, f.Draft())
	})

	t.Run("empty draft records every field error", func(t *testing.T) {
		f := New(&fakeSaver{})
		_, err := f.Submit()
		require.ErrorIs(t, err, ErrValidationFailed)
		assert.Len(t, f.Errors(), len(model.Fields))
	})

	t.Run("save failure is reported and recoverable", func(t *testing.T) {
		saver := &fakeSaver{createErr: model.ErrInvalidCategory}
		f := New(saver)
		fill(f, scenarioDraft())

		_, err := f.Submit()
		assert.ErrorIs(t, err, ErrSaveFailed)
		assert.ErrorIs(t, err, model.ErrInvalidCategory)
		assert.Equal(t, scenarioDraft(), f.Draft())

		saver.createErr = nil
		id, err := f.Submit()
		require.NoError(t, err)
		assert.Equal(t, model.PostID("blog_fake"), id)
		assert.Len(t, saver.creates, 2)
	})
}

func TestEditMode(t *testing.T) {
	post := model.Post{
		ID:        "blog_1_existing",
		Title:     "Existing post",
		Author:    "Jane Doe",
		Summary:   "Already published summary.",
		Category:  model.CategoryLifestyle,
		Content:   strings.Repeat("y", 80),
		CreatedAt: time.Now(),
	}

	t.Run("seeds draft and binds id", func(t *testing.T) {
		f := NewEdit(&fakeSaver{}, post)
		assert.Equal(t, post.Draft(), f.Draft())
		assert.Equal(t, post.ID, f.PostID())
		assert.True(t, f.IsEditing())
		assert.Equal(t, model.StepMetadata, f.Current())
		assert.True(t, f.CanNavigateTo(model.StepReview))
	})

	t.Run("submit updates and keeps state", func(t *testing.T) {
		saver := &fakeSaver{updateOK: true}
		f := NewEdit(saver, post)
		f.UpdateField(model.FieldTitle, "Edited title")
		require.True(t, f.GoTo(model.StepReview))

		id, err := f.Submit()
		require.NoError(t, err)
		assert.Equal(t, post.ID, id)
		assert.Empty(t, saver.creates)

		patch := saver.updates[post.ID]
		require.NotNil(t, patch.Title)
		assert.Equal(t, "Edited title", *patch.Title)

		assert.Equal(t, model.StepReview, f.Current())
		assert.Equal(t, "Edited title", f.Draft().Title)
		assert.Equal(t, post.ID, f.PostID())
	})

	t.Run("vanished post is a save failure", func(t *testing.T) {
		f := NewEdit(&fakeSaver{updateOK: false}, post)
		_, err := f.Submit()
		assert.ErrorIs(t, err, ErrSaveFailed)
		assert.Equal(t, post.ID, f.PostID())
	})

	t.Run("against a real store", func(t *testing.T) {
		store := repository.NewPostStore(nil)
		id, err := store.Create(scenarioDraft())
		require.NoError(t, err)
		stored, _ := store.Get(id)

		f := NewEdit(store, stored)
		f.UpdateField(model.FieldCategory, "Business")
		_, err = f.Submit()
		require.NoError(t, err)

		updated, _ := store.Get(id)
		assert.Equal(t, model.CategoryBusiness, updated.Category)
		assert.True(t, stored.CreatedAt.Equal(updated.CreatedAt))
		assert.Equal(t, 1, store.Len())
	})

	t.Run("reset returns to create mode", func(t *testing.T) {
		f := NewEdit(&fakeSaver{}, post)
		require.True(t, f.GoTo(model.StepSummary))
		f.UpdateField(model.FieldTitle, "")

		f.Reset()

		assert.Empty(t, f.PostID())
		assert.False(t, f.IsEditing())
		assert.Equal(t, model.Draft{}, f.Draft())
		assert.Equal(t, model.StepMetadata, f.Current())
		assert.Empty(t, f.Errors())
	})
}
