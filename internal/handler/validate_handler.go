package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/records-admin/internal/endpoint"
	"github.com/stemsi/records-admin/internal/model"
	"github.com/stemsi/records-admin/internal/response"
	"github.com/stemsi/records-admin/internal/validator"
)

// ValidateHandler checks a form draft as the user types. Nothing is sent to
// the records backend.
type ValidateHandler struct{}

// NewValidateHandler creates a new ValidateHandler.
func NewValidateHandler() *ValidateHandler {
	return &ValidateHandler{}
}

// Validate godoc
// POST /api/validate/:entity
// Binds the JSON draft of a student, course or grade and returns the
// per-field messages.
func (h *ValidateHandler) Validate(c *gin.Context) {
	entity, ok := endpoint.ParseEntity(c.Param("entity"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrUnknownEntity)
		return
	}

	var dst interface{}
	switch entity {
	case endpoint.Students:
		dst = &model.StudentPayload{}
	case endpoint.Courses:
		dst = &model.CoursePayload{}
	case endpoint.Grades:
		dst = &model.GradePayload{}
	}

	if fields := validator.Bind(c, dst); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"valid": true})
}
