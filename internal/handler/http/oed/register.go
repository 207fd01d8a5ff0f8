package oed

import (
	"log/slog"
	"net/http"

	oedUC "oed-api/internal/usecase/oed"
)

// Register registers the read-only OED endpoints with the given mux.
func Register(mux *http.ServeMux, svc *oedUC.Service, logger *slog.Logger) {
	mux.Handle("GET /api/v1/data", DataHandler{Svc: svc, Logger: logger})
	mux.Handle("GET /api/v1/metadata", MetadataHandler{Svc: svc, Logger: logger})
}
