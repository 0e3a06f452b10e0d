package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/cassiomorais/connectors/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings is checked in order; the first match wins.
var errorMappings = []errorMapping{
	{domainErrors.ErrConnectorNotFound, http.StatusNotFound, "connector_not_found"},
	{domainErrors.ErrCredentialsNotFound, http.StatusUnprocessableEntity, "credentials_not_found"},
	{domainErrors.ErrFailedToObtainAuthType, http.StatusUnprocessableEntity, "invalid_auth_type"},
	{domainErrors.ErrMissingRequiredField, http.StatusBadRequest, "missing_required_field"},
	{domainErrors.ErrNotImplemented, http.StatusUnprocessableEntity, "not_implemented"},
	{domainErrors.ErrNotSupported, http.StatusUnprocessableEntity, "not_supported"},
	{domainErrors.ErrWebhooksNotImplemented, http.StatusUnprocessableEntity, "not_implemented"},
	{domainErrors.ErrConnectorUnavailable, http.StatusServiceUnavailable, "connector_unavailable"},
	{domainErrors.ErrResponseDeserializationFailed, http.StatusBadGateway, "invalid_connector_response"},
	{domainErrors.ErrInvalidDataFormat, http.StatusBadGateway, "invalid_connector_response"},
	{domainErrors.ErrTransportFailed, http.StatusBadGateway, "connector_unreachable"},
	{domainErrors.ErrRequestEncodingFailed, http.StatusInternalServerError, "request_encoding_failed"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		resp.Code = "validation_error"
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			resp.Code = m.code
			writeJSON(w, m.status, resp)
			return
		}
	}

	var domainErr *domainErrors.DomainError
	if errors.As(err, &domainErr) {
		resp.Code = domainErr.Code
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	log.Error().Err(err).Msg("unhandled error in handler")
	resp.Code = "internal_error"
	resp.Error = "internal server error"
	writeJSON(w, http.StatusInternalServerError, resp)
}

func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domainErrors.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			return domainErrors.NewValidationError(ve[0].Field(), ve[0].Tag()+" validation failed")
		}
		return domainErrors.NewValidationError("body", err.Error())
	}
	return nil
}

// decodeOptional is decodeAndValidate for bodies that may be empty.
func decodeOptional(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return domainErrors.NewValidationError("body", err.Error())
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return decodeAndValidate(r, dst)
}

// merchantID is set by middleware.RequireMerchant on every API route.
func merchantID(r *http.Request) string {
	id, _ := middleware.GetMerchantID(r.Context())
	return id
}
