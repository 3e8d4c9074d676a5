package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gartstein/crm/internal/company/contracts"
	e "github.com/gartstein/crm/internal/company/errors"
	"github.com/gartstein/crm/internal/company/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgNotFound       = "Company not found"
	msgNoUpdateFields = "No valid fields provided for update."
	msgInternal       = "Internal server error"
)

// createRequestToModel converts a validated create body into a domain Company.
// A logoUrl sent as "" is stored as null.
func createRequestToModel(req *contracts.CreateCompanyRequest) *models.Company {
	return &models.Company{
		Name:      strings.TrimSpace(req.Name),
		Industry:  models.Ptr(strings.TrimSpace(req.Industry)),
		Location:  models.Ptr(strings.TrimSpace(req.Location)),
		LogoURL:   nonEmpty(req.LogoURL),
		Revenue:   req.Revenue,
		Employees: req.Employees,
	}
}

// updateRequestToModel keeps only the fields present in the body.
func updateRequestToModel(req *contracts.UpdateCompanyRequest, id uuid.UUID) *models.CompanyUpdate {
	return &models.CompanyUpdate{
		ID:        id,
		Name:      trimmed(req.Name),
		Industry:  trimmed(req.Industry),
		Location:  trimmed(req.Location),
		LogoURL:   req.LogoURL,
		Revenue:   req.Revenue,
		Employees: req.Employees,
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	return models.Ptr(strings.TrimSpace(*s))
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// parseCompanyID reports a malformed id the same way body validation does.
func parseCompanyID(raw string) (uuid.UUID, []contracts.ValidationError) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, []contracts.ValidationError{{
			Loc:  []string{"path", "company_id"},
			Msg:  fmt.Sprintf("Input should be a valid UUID, %v", err),
			Type: "uuid_parsing",
		}}
	}
	return id, nil
}

// decodeBody reads one JSON object into dst. Syntax and type errors come back
// as validation details located under "body".
func decodeBody(r *http.Request, dst interface{}) []contracts.ValidationError {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr):
		loc := []string{"body"}
		if typeErr.Field != "" {
			loc = append(loc, strings.Split(typeErr.Field, ".")...)
		}
		return []contracts.ValidationError{{
			Loc:  loc,
			Msg:  fmt.Sprintf("Input should be a valid %s", jsonKind(typeErr.Type.Kind().String())),
			Type: jsonKind(typeErr.Type.Kind().String()) + "_type",
		}}
	case errors.As(err, &maxErr):
		return []contracts.ValidationError{{
			Loc:  []string{"body"},
			Msg:  fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit),
			Type: "value_error",
		}}
	case errors.Is(err, io.EOF):
		return []contracts.ValidationError{{
			Loc:  []string{"body"},
			Msg:  "Field required",
			Type: "missing",
		}}
	default:
		return []contracts.ValidationError{{
			Loc:  []string{"body"},
			Msg:  "JSON decode error",
			Type: "json_invalid",
		}}
	}
}

func jsonKind(goKind string) string {
	switch {
	case strings.HasPrefix(goKind, "int"), strings.HasPrefix(goKind, "uint"):
		return "int"
	case strings.HasPrefix(goKind, "float"):
		return "float"
	case goKind == "ptr":
		return "value"
	}
	return goKind
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, contracts.ErrorResponse{Detail: detail})
}

func writeValidation(w http.ResponseWriter, details []contracts.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, contracts.HTTPValidationError{Detail: details})
}

// mapServiceError maps domain or repository errors to HTTP responses.
func (h *CompanyHandler) mapServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, e.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, e.ErrNoUpdateFields):
		writeError(w, http.StatusBadRequest, msgNoUpdateFields)
	case errors.Is(err, e.ErrInvalidInput):
		writeValidation(w, []contracts.ValidationError{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "value_error",
		}})
	default:
		h.logger.Error("Internal server error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
