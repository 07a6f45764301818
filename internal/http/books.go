package http

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/collection"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/forms"
)

// BookResponse is returned by every single-book mutation.
// Warning is set when the change is live but could not be saved.
type BookResponse struct {
	Book    entities.Book `json:"book"`
	Outcome string        `json:"outcome"`
	Warning string        `json:"warning,omitempty"`
}

type BooksListResponse struct {
	Books []entities.Book `json:"books"`
	Count int             `json:"count"`
}

// BulkDeleteRequest removes books by id or by position in the unfiltered list.
// Exactly one of the two may be given.
type BulkDeleteRequest struct {
	IDs       []uuid.UUID `json:"ids"`
	Positions []int       `json:"positions"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

const persistWarning = "change applied but not saved; it will be lost on restart"

type BooksController struct {
	books *collection.Locked
}

func NewBooksController(books *collection.Locked) *BooksController {
	return &BooksController{books: books}
}

// ListBooks handles GET /api/books?status=&favorites=&q=
func (bc *BooksController) ListBooks(c *gin.Context) {
	var query collection.Query

	if raw := c.Query("status"); raw != "" {
		status, err := entities.ParseReadingStatus(raw)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		query = query.WithStatus(status)
	}
	if raw := c.Query("favorites"); raw != "" {
		favorites, err := strconv.ParseBool(raw)
		if err != nil {
			respondBadRequest(c, "invalid favorites")
			return
		}
		query.FavoritesOnly = favorites
	}
	query.Search = c.Query("q")

	books := bc.books.Filter(query)
	c.JSON(http.StatusOK, BooksListResponse{Books: books, Count: len(books)})
}

// GetBookStats handles GET /api/books/stats
func (bc *BooksController) GetBookStats(c *gin.Context) {
	c.JSON(http.StatusOK, bc.books.Stats())
}

// GetBook handles GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	book, found := bc.books.Get(id)
	if !found {
		respondNotFound(c, "book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// CreateBook handles POST /api/books
// A book already in the collection is answered with 200 and outcome "duplicate".
func (bc *BooksController) CreateBook(c *gin.Context) {
	var form forms.BookForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondInvalidInput(c, err)
		return
	}
	if err := form.Validate(); err != nil {
		respondInvalidInput(c, err)
		return
	}

	book, outcome, err := bc.books.Add(form.NewBook())
	status := http.StatusCreated
	if outcome == collection.Duplicate {
		status = http.StatusOK
	}
	respondMutation(c, status, book, outcome, err, "add book")
}

// UpdateBook handles PUT /api/books/:id
// Synopsis and image stay as they are; an empty status keeps the current one.
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var form forms.BookForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondInvalidInput(c, err)
		return
	}
	if err := form.Validate(); err != nil {
		respondInvalidInput(c, err)
		return
	}

	existing, found := bc.books.Get(id)
	if !found {
		respondNotFound(c, "book")
		return
	}

	book, outcome, err := bc.books.Update(form.Edit(existing))
	if outcome == collection.NotFound {
		// removed between Get and Update
		respondNotFound(c, "book")
		return
	}
	respondMutation(c, http.StatusOK, book, outcome, err, "update book")
}

// DeleteBook handles DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	removed, err := bc.books.Delete(id)
	if removed == 0 {
		respondNotFound(c, "book")
		return
	}
	bc.respondRemoved(c, removed, err)
}

// DeleteBooks handles POST /api/books/delete
// Unknown ids and out-of-range positions are ignored.
func (bc *BooksController) DeleteBooks(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidInput(c, err)
		return
	}

	var (
		removed int
		err     error
	)
	switch {
	case len(req.IDs) > 0 && len(req.Positions) > 0:
		respondBadRequest(c, "provide either ids or positions, not both")
		return
	case len(req.IDs) > 0:
		removed, err = bc.books.Delete(req.IDs...)
	case len(req.Positions) > 0:
		removed, err = bc.books.DeleteAt(req.Positions...)
	default:
		respondBadRequest(c, "ids or positions are required")
		return
	}
	bc.respondRemoved(c, removed, err)
}

// ToggleFavorite handles POST /api/books/:id/favourite
func (bc *BooksController) ToggleFavorite(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	book, outcome, err := bc.books.ToggleFavorite(id)
	if outcome == collection.NotFound {
		respondNotFound(c, "book")
		return
	}
	respondMutation(c, http.StatusOK, book, outcome, err, "toggle favourite")
}

// ChangeStatus handles POST /api/books/:id/status
// With a {"status": ...} body the status is set; without one it advances
// NotStarted -> Reading -> Completed -> NotStarted.
func (bc *BooksController) ChangeStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	// An empty body advances the status
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondInvalidInput(c, err)
		return
	}

	var (
		book    entities.Book
		outcome collection.Outcome
		err     error
	)
	if req.Status != "" {
		status, parseErr := entities.ParseReadingStatus(req.Status)
		if parseErr != nil {
			respondBadRequest(c, parseErr.Error())
			return
		}
		book, outcome, err = bc.books.SetStatus(id, status)
	} else {
		book, outcome, err = bc.books.CycleStatus(id)
	}

	if outcome == collection.NotFound {
		respondNotFound(c, "book")
		return
	}
	respondMutation(c, http.StatusOK, book, outcome, err, "change status")
}

func respondMutation(c *gin.Context, status int, book entities.Book, outcome collection.Outcome, err error, context string) {
	if outcome == collection.Invalid {
		respondBadRequest(c, err.Error())
		return
	}
	resp := BookResponse{Book: book, Outcome: outcome.String()}
	if err != nil {
		log.Printf("Persist error (%s): %v", context, err)
		resp.Warning = persistWarning
	}
	c.JSON(status, resp)
}

func (bc *BooksController) respondRemoved(c *gin.Context, removed int, err error) {
	resp := gin.H{"removed": removed}
	if err != nil {
		log.Printf("Persist error (delete books): %v", err)
		resp["warning"] = persistWarning
	}
	c.JSON(http.StatusOK, resp)
}
