package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/books
func (s *Server) listBooks(c *gin.Context) {
	books, err := s.lending.ListBooks(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	respond(c, http.StatusOK, mapAll(books, toBookResponse))
}

// GET /api/books/:id
func (s *Server) bookDetails(c *gin.Context) {
	book, err := s.lending.Book(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err, "book_id", c.Param("id"))
		return
	}

	respond(c, http.StatusOK, toBookResponse(book))
}

// POST /api/books
func (s *Server) addBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, msgMalformedBody)
		return
	}

	book, err := s.lending.AddBook(c.Request.Context(), req.details())
	if err != nil {
		s.respondError(c, err, "isbn", req.ISBN)
		return
	}

	c.Header("Location", "/api/books/"+book.BookID)
	respondMessage(c, http.StatusCreated, toBookResponse(book), "book added")
}

// PUT /api/books/:id
func (s *Server) updateBook(c *gin.Context) {
	var req bookPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, msgMalformedBody)
		return
	}

	book, err := s.lending.UpdateBook(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		s.respondError(c, err, "book_id", c.Param("id"))
		return
	}

	respondMessage(c, http.StatusOK, toBookResponse(book), "book updated")
}

// DELETE /api/books/:id
func (s *Server) removeBook(c *gin.Context) {
	if err := s.lending.RemoveBook(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err, "book_id", c.Param("id"))
		return
	}

	respondMessage[any](c, http.StatusOK, nil, "book removed")
}
