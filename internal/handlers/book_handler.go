package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "costbook/internal/errors"
	"costbook/internal/pagination"
	"costbook/internal/services"
)

// BookHandler handles book-related requests
type BookHandler struct {
	bookService  services.BookServicer
	auditService services.AuditServicer
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(bookService services.BookServicer, auditService services.AuditServicer) *BookHandler {
	return &BookHandler{bookService: bookService, auditService: auditService}
}

// CreateBookRequest represents the request payload for creating a book.
// MemberIDs optionally lists users to enroll at creation time.
type CreateBookRequest struct {
	Name      string `json:"name" binding:"required"`
	MemberIDs []uint `json:"member_ids"`
}

// UpdateBookRequest represents the partial-update payload for a book.
type UpdateBookRequest struct {
	Name *string `json:"name"`
}

// AddMemberRequest represents the payload for adding a member to a book.
type AddMemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// CreateBook handles the creation of a new book
func (h *BookHandler) CreateBook(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	book, err := h.bookService.CreateBook(req.Name, req.MemberIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "book", book.ID, c.ClientIP(), nil)
	c.JSON(http.StatusCreated, gin.H{"book": book})
}

// ListBooks returns books honoring offset/limit.
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req pagination.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.bookService.ListBooks(req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBookByID returns a single book with its members, or 404.
func (h *BookHandler) GetBookByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	book, err := h.bookService.GetBookByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": book})
}

// UpdateBook applies a partial update; a missing id is 404.
func (h *BookHandler) UpdateBook(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	book, err := h.bookService.UpdateBook(id, services.BookPatch{Name: req.Name})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "book", id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"book": book})
}

// DeleteBook deletes a book with its records and memberships; repeated
// deletes are no-ops.
func (h *BookHandler) DeleteBook(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.bookService.DeleteBook(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "book", id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

// AddMember enrolls a user in a book; a duplicate pair is a conflict.
func (h *BookHandler) AddMember(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	bookID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.bookService.AddMember(bookID, req.UserID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "add_member", "book", bookID, c.ClientIP(),
		map[string]interface{}{"user_id": req.UserID})
	c.JSON(http.StatusCreated, gin.H{"message": "Member added successfully"})
}

// RemoveMember removes a user from a book; removing an absent pair is a no-op.
func (h *BookHandler) RemoveMember(c *gin.Context) {
	callerID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	bookID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	memberID, err := parsePathID(c, "userID")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.bookService.RemoveMember(bookID, memberID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(callerID, "remove_member", "book", bookID, c.ClientIP(),
		map[string]interface{}{"user_id": memberID})
	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
