package oed

import (
	"log/slog"
	"net/http"
	"time"

	"oed-api/internal/common/pagination"
	"oed-api/internal/domain/entity"
	"oed-api/internal/handler/http/respond"
	"oed-api/internal/observability/logging"
	oedUC "oed-api/internal/usecase/oed"
)

type DataHandler struct {
	Svc    *oedUC.Service
	Logger *slog.Logger
}

// ServeHTTP returns the rows matching the query filters.
// @Summary      Filtered enzyme kinetics data
// @Description  Rows of oed.oed_data as JSON (with total/offset/limit) or as a CSV attachment.
// @Description  Unbounded queries above the auto-pagination threshold are capped and get next/previous links.
// @Tags         data
// @Produce      json
// @Produce      text/csv
// @Param        ec       query    []string  false  "EC number; % acts as a wildcard"
// @Param        columns  query    []string  false  "Columns to return"
// @Param        format   query    string    false  "json or csv" default(json)
// @Param        limit    query    int       false  "Maximum rows"
// @Param        offset   query    int       false  "Rows to skip" default(0)
// @Success      200 {object} pagination.Response[repository.Record]
// @Failure      422 {string} string "Invalid query parameters"
// @Failure      500 {string} string "Error retrieving data"
// @Router       /api/v1/data [get]
func (h DataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	logger := logging.ForRequest(ctx, h.logger())

	q, err := parseQuery(r)
	if err != nil {
		logger.Warn("Invalid data query parameters", "error", err.Error())
		pagination.RecordError("validation")
		respond.Fail(w, err, dataErrorPrefix)
		return
	}

	params := pagination.Params{Limit: q.Limit, Offset: q.OffsetValue()}
	pagination.LogRequest(logger, params)

	result, err := h.Svc.Query(ctx, q)
	if err != nil {
		errType := "database"
		if entity.IsValidation(err) {
			errType = "validation"
		}
		pagination.LogError(logger, params, respond.SanitizeError(err), errType)
		pagination.RecordError(errType)
		respond.Fail(w, err, dataErrorPrefix)
		return
	}

	if q.Format == entity.FormatCSV {
		if err := writeCSV(w, q.Columns, result.Records); err != nil {
			// headers are already sent
			logger.Error("Failed to write CSV response", "error", err.Error())
		}
	} else {
		links := pagination.BuildLinks(requestURL(r), result.Page)
		respond.JSON(w, http.StatusOK, pagination.NewResponse(result.Records, result.Page, links))
	}

	duration := time.Since(startTime)
	pagination.RecordRequest(http.StatusOK, result.Page)
	pagination.RecordDuration("handler", duration.Seconds())
	pagination.LogResponse(logger, result.Page, len(result.Records), duration, http.StatusOK)
}

func (h DataHandler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
