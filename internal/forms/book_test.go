package forms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

func TestBookForm_Validate(t *testing.T) {
	tests := []struct {
		name       string
		form       BookForm
		wantFields []string
	}{
		{
			name: "valid minimal",
			form: BookForm{Title: "1984", Author: "George Orwell"},
		},
		{
			name: "valid with slug status",
			form: BookForm{Title: "1984", Author: "George Orwell", Status: "not_started"},
		},
		{
			name: "valid with display status",
			form: BookForm{Title: "1984", Author: "George Orwell", Status: "Completed"},
		},
		{
			name:       "blank title",
			form:       BookForm{Title: "   ", Author: "George Orwell"},
			wantFields: []string{"title"},
		},
		{
			name:       "missing both",
			form:       BookForm{},
			wantFields: []string{"title", "author"},
		},
		{
			name:       "unknown status",
			form:       BookForm{Title: "1984", Author: "George Orwell", Status: "abandoned"},
			wantFields: []string{"status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := tt.form
			err := form.Validate()

			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Len(t, verr.Fields, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, verr.Fields, field)
			}
		})
	}
}

func TestBookForm_ValidateTrims(t *testing.T) {
	form := BookForm{Title: "  Emma ", Author: "\tJane Austen\n", Status: " reading "}
	require.NoError(t, form.Validate())

	assert.Equal(t, "Emma", form.Title)
	assert.Equal(t, "Jane Austen", form.Author)
	assert.Equal(t, entities.StatusReading, form.ReadingStatus())
}

func TestBookForm_ValidationErrorMessage(t *testing.T) {
	form := BookForm{Author: "Homer"}
	err := form.Validate()

	require.Error(t, err)
	assert.Equal(t, "invalid book: title is required", err.Error())
}

func TestBookForm_NewBook(t *testing.T) {
	form := BookForm{Title: "Emma", Author: "Jane Austen", Note: "gift", IsFavorite: true}
	require.NoError(t, form.Validate())

	book := form.NewBook()
	assert.Equal(t, "Emma", book.Title)
	assert.Equal(t, "gift", book.Note)
	assert.True(t, book.IsFavorite)
	assert.Equal(t, entities.StatusNotStarted, book.Status)
}

func TestBookForm_EditKeepsCatalogFields(t *testing.T) {
	existing := entities.NewBook("The Odyssey", "Homer")
	existing.Status = entities.StatusCompleted
	existing.Synopsis = entities.StringPtr("Odysseus goes home.")

	form := BookForm{Title: "The Odyssey", Author: "Homer", Note: "Fagles translation"}
	require.NoError(t, form.Validate())

	edited := form.Edit(existing)
	assert.Equal(t, existing.ID, edited.ID)
	assert.Equal(t, "Fagles translation", edited.Note)
	assert.Equal(t, entities.StatusCompleted, edited.Status)
	require.NotNil(t, edited.Synopsis)
	assert.Equal(t, "Odysseus goes home.", *edited.Synopsis)
}
