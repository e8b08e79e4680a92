package model

// Field names one user-editable post attribute.
type Field string

const (
	FieldTitle    Field = "title"
	FieldAuthor   Field = "author"
	FieldSummary  Field = "summary"
	FieldCategory Field = "category"
	FieldContent  Field = "content"
)

// Fields lists every editable field in form order.
var Fields = []Field{FieldTitle, FieldAuthor, FieldSummary, FieldCategory, FieldContent}

func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// Draft is the in-progress, unvalidated set of post values held by a wizard.
// Category stays a raw string here; it only becomes a Category once the
// store accepts it.
type Draft struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

func (d *Draft) Value(f Field) string {
	switch f {
	case FieldTitle:
		return d.Title
	case FieldAuthor:
		return d.Author
	case FieldSummary:
		return d.Summary
	case FieldCategory:
		return d.Category
	case FieldContent:
		return d.Content
	}
	return ""
}

// Set overwrites a single field. Unknown fields are ignored.
func (d *Draft) Set(f Field, value string) {
	switch f {
	case FieldTitle:
		d.Title = value
	case FieldAuthor:
		d.Author = value
	case FieldSummary:
		d.Summary = value
	case FieldCategory:
		d.Category = value
	case FieldContent:
		d.Content = value
	}
}

// DraftPatch is a partial draft: nil fields are left untouched by an update.
type DraftPatch struct {
	Title    *string `json:"title,omitempty"`
	Author   *string `json:"author,omitempty"`
	Summary  *string `json:"summary,omitempty"`
	Category *string `json:"category,omitempty"`
	Content  *string `json:"content,omitempty"`
}

// PatchFrom builds a patch that sets every field of d.
func PatchFrom(d Draft) DraftPatch {
	return DraftPatch{
		Title:    &d.Title,
		Author:   &d.Author,
		Summary:  &d.Summary,
		Category: &d.Category,
		Content:  &d.Content,
	}
}
