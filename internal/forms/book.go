// Package forms validates user input before it reaches the collection.
// Title and author must be non-blank; the collection itself never checks.
package forms

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/bookshelf/internal/entities"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("notblank", validateNotBlank)
	_ = validate.RegisterValidation("readingstatus", validateReadingStatus)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateReadingStatus(fl validator.FieldLevel) bool {
	_, err := entities.ParseReadingStatus(fl.Field().String())
	return err == nil
}

// BookForm is the input for manual entry and edits.
// Status accepts a display value or slug; empty means "leave as is" on edit
// and NotStarted on create.
type BookForm struct {
	Title      string `json:"title" validate:"notblank,max=300"`
	Author     string `json:"author" validate:"notblank,max=200"`
	Note       string `json:"note" validate:"max=5000"`
	Status     string `json:"status" validate:"omitempty,readingstatus"`
	IsFavorite bool   `json:"isFavorite"`
}

// ValidationError lists the offending fields with a human readable message each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, e.Fields[name]))
	}
	return "invalid book: " + strings.Join(parts, "; ")
}

// Normalize trims surrounding whitespace from the text fields.
func (f *BookForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Author = strings.TrimSpace(f.Author)
	f.Note = strings.TrimSpace(f.Note)
	f.Status = strings.TrimSpace(f.Status)
}

// Validate normalizes the form and checks it. The returned error is a
// *ValidationError when the input itself is at fault.
func (f *BookForm) Validate() error {
	f.Normalize()

	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[strings.ToLower(fe.Field())] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "readingstatus":
		return fmt.Sprintf("must be one of %s", statusChoices())
	default:
		return "is invalid"
	}
}

func statusChoices() string {
	var slugs []string
	for _, s := range entities.AllReadingStatuses() {
		slugs = append(slugs, s.Slug())
	}
	return strings.Join(slugs, ", ")
}

// ReadingStatus returns the parsed status or "" when none was given.
// Call after Validate.
func (f *BookForm) ReadingStatus() entities.ReadingStatus {
	if f.Status == "" {
		return ""
	}
	status, _ := entities.ParseReadingStatus(f.Status)
	return status
}

// NewBook builds a fresh record from a validated form.
func (f *BookForm) NewBook() entities.Book {
	book := entities.NewBook(f.Title, f.Author)
	book.Note = f.Note
	book.IsFavorite = f.IsFavorite
	if status := f.ReadingStatus(); status != "" {
		book.Status = status
	}
	return book
}

// Edit builds the replacement record for the book with the given id.
func (f *BookForm) Edit(existing entities.Book) entities.Book {
	edited := existing.Clone()
	edited.Title = f.Title
	edited.Author = f.Author
	edited.Note = f.Note
	edited.IsFavorite = f.IsFavorite
	if status := f.ReadingStatus(); status != "" {
		edited.Status = status
	}
	return edited
}
