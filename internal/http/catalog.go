package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/collection"
)

type CatalogEntryResponse struct {
	catalog.Entry
	Index        int  `json:"index"`
	InCollection bool `json:"in_collection"`
}

type CatalogController struct {
	catalog *catalog.Catalog
	books   *collection.Locked
}

func NewCatalogController(cat *catalog.Catalog, books *collection.Locked) *CatalogController {
	return &CatalogController{catalog: cat, books: books}
}

// ListCatalog handles GET /api/catalog
func (cc *CatalogController) ListCatalog(c *gin.Context) {
	entries := cc.catalog.Entries()
	out := make([]CatalogEntryResponse, 0, len(entries))
	for i, entry := range entries {
		out = append(out, CatalogEntryResponse{
			Index:        i,
			Entry:        entry,
			InCollection: cc.books.Contains(entry.Title, entry.Author),
		})
	}
	c.JSON(http.StatusOK, gin.H{"entries": out, "count": len(out)})
}

// AddFromCatalog handles POST /api/catalog/:index/add
// Adding an entry that is already collected is a no-op answered with "duplicate".
func (cc *CatalogController) AddFromCatalog(c *gin.Context) {
	index, ok := parseIndexParam(c, "index")
	if !ok {
		return
	}

	entry, err := cc.catalog.Get(index)
	if errors.Is(err, catalog.ErrIndexOutOfRange) {
		respondNotFound(c, "catalog entry")
		return
	}
	if err != nil {
		respondInternalError(c, err, "catalog lookup")
		return
	}

	book, outcome, err := cc.books.Add(entry.Book())
	status := http.StatusCreated
	if outcome == collection.Duplicate {
		status = http.StatusOK
	}

	respondMutation(c, status, book, outcome, err, "catalog add")
}
