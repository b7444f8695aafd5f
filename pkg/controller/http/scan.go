package http

import (
	"net/http"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/utils/errutil"
	"github.com/doc-forge-buddy/docforge/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// timestampLayout matches JavaScript's Date.toISOString
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type scanSuccessResponse struct {
	Success              bool   `json:"success"`
	NotificationsCreated int    `json:"notificationsCreated"`
	Errors               int    `json:"errors"`
	CleanedCount         int    `json:"cleanedCount"`
	Timestamp            string `json:"timestamp"`
}

type scanFailureResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

func checkNotificationsHandler(uc ScanUseCase, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		fail := func(err error) {
			_ = errutil.Handle(ctx, err, "notification scan failed")
			safe.WriteJSON(ctx, w, http.StatusInternalServerError, scanFailureResponse{
				Success:   false,
				Error:     err.Error(),
				Timestamp: now().UTC().Format(timestampLayout),
			})
		}

		if uc == nil {
			fail(goerr.New("notification scan is not configured"))
			return
		}

		result, err := uc.Scan(ctx)
		if err != nil {
			fail(err)
			return
		}

		safe.WriteJSON(ctx, w, http.StatusOK, scanSuccessResponse{
			Success:              true,
			NotificationsCreated: result.NotificationsCreated,
			Errors:               result.Errors,
			CleanedCount:         result.CleanedCount,
			Timestamp:            now().UTC().Format(timestampLayout),
		})
	}
}
