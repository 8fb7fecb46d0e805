package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dtroode/catalog-server/internal/logger"
)

// AssetService resolves stored product images.
type AssetService interface {
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
}

type Asset struct {
	assetService AssetService
	logger       *logger.Logger
}

func NewAsset(assetService AssetService, logger *logger.Logger) *Asset {
	return &Asset{
		assetService: assetService,
		logger:       logger,
	}
}

// Serve streams the asset named by the {name} route variable.
func (h *Asset) Serve(w http.ResponseWriter, r *http.Request) {
	body, contentType, err := h.assetService.Open(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("HTTP handler: failed to stream asset", "error", err.Error())
	}
}
