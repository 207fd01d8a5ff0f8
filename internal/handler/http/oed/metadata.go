package oed

import (
	"log/slog"
	"net/http"

	"oed-api/internal/domain/entity"
	"oed-api/internal/handler/http/respond"
	"oed-api/internal/observability/logging"
	oedUC "oed-api/internal/usecase/oed"
)

type MetadataHandler struct {
	Svc    *oedUC.Service
	Logger *slog.Logger
}

// ServeHTTP returns the distinct values of one column.
// @Summary      Distinct column values
// @Tags         metadata
// @Produce      json
// @Param        column  query    string  true  "Column name"
// @Success      200 {object} MetadataDTO
// @Failure      422 {string} string "Invalid column"
// @Failure      500 {string} string "Error retrieving metadata"
// @Router       /api/v1/metadata [get]
func (h MetadataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.ForRequest(ctx, h.logger())

	column := r.URL.Query().Get("column")
	if column == "" {
		err := &entity.ValidationError{Field: "column", Message: "is required", Err: entity.ErrInvalidParameter}
		logger.Warn("Missing metadata column")
		respond.Fail(w, err, metadataErrorPrefix)
		return
	}

	values, err := h.Svc.Values(ctx, column)
	if err != nil {
		if entity.IsValidation(err) {
			logger.Warn("Invalid metadata column",
				"column", column,
				"error", err.Error())
		} else {
			logger.Error("Failed to list column values",
				"column", column,
				"error", respond.SanitizeError(err))
		}
		respond.Fail(w, err, metadataErrorPrefix)
		return
	}

	if values == nil {
		values = []string{}
	}
	respond.JSON(w, http.StatusOK, MetadataDTO{Column: column, Values: values})
}

func (h MetadataHandler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
