package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/detta3d-orders/internal/domain/errors"
	"github.com/polkiloo/detta3d-orders/internal/server/http/dto"
)

var errMalformedBody = errors.New("request body must be a JSON object")

// decodeObject reads the request body as a JSON object. Numbers are kept as
// json.Number so prices are not rounded before validation. An empty body
// decodes to an empty object.
func decodeObject(c *gin.Context) (map[string]any, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if payload == nil {
		return nil, errMalformedBody
	}
	if dec.More() {
		return nil, errMalformedBody
	}
	return payload, nil
}

func writeMalformed(c *gin.Context) {
	c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
		Error:  domainErrors.ErrValidation.Error(),
		Fields: []domainErrors.FieldError{{Field: "body", Message: errMalformedBody.Error()}},
	})
}

// writeError maps domain errors onto status codes. Store details stay in the log.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	var validationErr *domainErrors.ValidationError

	switch {
	case errors.Is(err, domainErrors.ErrEmptyUpdate):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domainErrors.ErrEmptyUpdate.Error()})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:  domainErrors.ErrValidation.Error(),
			Fields: validationErr.Fields,
		})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: domainErrors.ErrNotFound.Error()})
	case errors.Is(err, domainErrors.ErrStoreWrite):
		logger.ErrorContext(c.Request.Context(), "store write failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: domainErrors.ErrStoreWrite.Error()})
	case errors.Is(err, domainErrors.ErrStoreRead):
		logger.ErrorContext(c.Request.Context(), "store read failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: domainErrors.ErrStoreRead.Error()})
	default:
		logger.ErrorContext(c.Request.Context(), "unexpected error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}
