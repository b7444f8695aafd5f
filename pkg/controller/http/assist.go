package http

import (
	"encoding/json"
	"net/http"

	"github.com/doc-forge-buddy/docforge/pkg/domain/types"
	"github.com/doc-forge-buddy/docforge/pkg/usecase"
	"github.com/doc-forge-buddy/docforge/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const maxAssistBodyBytes = 64 << 10

func assistHandler(uc AssistUseCase) http.HandlerFunc {
	type request struct {
		Input string `json:"input"`
		Mode  string `json:"mode"`
	}
	type response struct {
		Output  string `json:"output"`
		Cached  bool   `json:"cached"`
		EntryID string `json:"entryId"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAssistBodyBytes)).Decode(&req); err != nil {
			respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "malformed request body", goerr.V("cause", err.Error())))
			return
		}

		mode := types.CacheModeNormal
		if req.Mode != "" {
			parsed, err := types.ParseCacheMode(req.Mode)
			if err != nil {
				respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "unknown mode", goerr.V("mode", req.Mode)))
				return
			}
			mode = parsed
		}

		result, err := uc.Complete(r.Context(), req.Input, mode)
		if err != nil {
			respondError(w, r, err)
			return
		}

		safe.WriteJSON(r.Context(), w, http.StatusOK, response{
			Output:  result.Output,
			Cached:  result.Cached,
			EntryID: string(result.EntryID),
		})
	}
}

func cacheStatsHandler(uc AssistUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		safe.WriteJSON(r.Context(), w, http.StatusOK, uc.CacheStats())
	}
}

func clearCacheHandler(uc AssistUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uc.ClearCache(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}
