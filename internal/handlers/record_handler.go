package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "costbook/internal/errors"
	"costbook/internal/models"
	"costbook/internal/pagination"
	"costbook/internal/services"
)

// RecordHandler handles record-related requests
type RecordHandler struct {
	recordService services.RecordServicer
	auditService  services.AuditServicer
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(recordService services.RecordServicer, auditService services.AuditServicer) *RecordHandler {
	return &RecordHandler{recordService: recordService, auditService: auditService}
}

// CreateRecordRequest represents the request payload for creating a record.
// add_by and add_at are server-assigned and not accepted from clients.
type CreateRecordRequest struct {
	Amount     float64           `json:"amount" binding:"required"`
	Note       string            `json:"note"`
	Type       models.RecordType `json:"type" binding:"omitempty,record_type"`
	CategoryID uint              `json:"category_id" binding:"required"`
	BookID     uint              `json:"book_id" binding:"required"`
}

// UpdateRecordRequest represents the partial-update payload for a record.
type UpdateRecordRequest struct {
	Amount     *float64           `json:"amount"`
	Note       *string            `json:"note"`
	Type       *models.RecordType `json:"type" binding:"omitempty,record_type"`
	CategoryID *uint              `json:"category_id"`
	BookID     *uint              `json:"book_id"`
}

// ListRecordsRequest holds the query parameters of the record listing.
type ListRecordsRequest struct {
	BookID uint `form:"book_id" binding:"required"`
	pagination.ListRequest
}

// CreateRecord creates a record attributed to the authenticated caller.
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	record, err := h.recordService.CreateRecord(userID, req.Amount, req.Note, req.Type, req.CategoryID, req.BookID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "record", record.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "book_id": req.BookID})
	c.JSON(http.StatusCreated, gin.H{"record": record})
}

// ListRecords returns a book's records honoring offset/limit.
func (h *RecordHandler) ListRecords(c *gin.Context) {
	var req ListRecordsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.recordService.ListBookRecords(req.BookID, req.ListRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecordByID returns a single record or 404.
func (h *RecordHandler) GetRecordByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.recordService.GetRecordByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

// UpdateRecord applies a partial update; a missing id is 404.
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
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

	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	record, err := h.recordService.UpdateRecord(id, services.RecordPatch{
		Amount:     req.Amount,
		Note:       req.Note,
		Type:       req.Type,
		CategoryID: req.CategoryID,
		BookID:     req.BookID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "record", id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"record": record})
}

// DeleteRecord deletes a record; repeated deletes are no-ops.
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
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

	if err := h.recordService.DeleteRecord(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "record", id, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}
