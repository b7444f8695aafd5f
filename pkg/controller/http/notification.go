package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/doc-forge-buddy/docforge/pkg/usecase"
	"github.com/doc-forge-buddy/docforge/pkg/utils/safe"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
)

type notificationResponse struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	Priority      string     `json:"priority"`
	Read          bool       `json:"read"`
	ReadAt        *time.Time `json:"readAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	ContractID    string     `json:"contractId,omitempty"`
	VistoriaID    string     `json:"vistoriaId,omitempty"`
	DaysRemaining *int       `json:"daysRemaining,omitempty"`
	Date          string     `json:"date,omitempty"`
}

func toNotificationResponse(n *model.Notification) notificationResponse {
	resp := notificationResponse{
		ID:            string(n.ID),
		Type:          n.Type.String(),
		Title:         n.Title,
		Message:       n.Message,
		Priority:      string(n.Priority),
		Read:          n.Read,
		CreatedAt:     n.CreatedAt,
		ContractID:    string(n.Metadata.ContractID),
		VistoriaID:    string(n.Metadata.VistoriaID),
		DaysRemaining: n.Metadata.DaysRemaining,
		Date:          n.Metadata.Date,
	}
	if !n.ReadAt.IsZero() {
		t := n.ReadAt
		resp.ReadAt = &t
	}
	if !n.ExpiresAt.IsZero() {
		t := n.ExpiresAt
		resp.ExpiresAt = &t
	}
	return resp
}

func listNotificationsHandler(uc NotificationUseCase) http.HandlerFunc {
	type response struct {
		Notifications []notificationResponse `json:"notifications"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID := model.UserID(chi.URLParam(r, "userID"))

		unreadOnly := false
		if v := r.URL.Query().Get("unread"); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid unread parameter", goerr.V("unread", v)))
				return
			}
			unreadOnly = parsed
		}

		notifications, err := uc.List(r.Context(), userID, unreadOnly)
		if err != nil {
			respondError(w, r, err)
			return
		}

		resp := response{Notifications: make([]notificationResponse, len(notifications))}
		for i, n := range notifications {
			resp.Notifications[i] = toNotificationResponse(n)
		}
		safe.WriteJSON(r.Context(), w, http.StatusOK, resp)
	}
}

func markReadHandler(uc NotificationUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := model.UserID(chi.URLParam(r, "userID"))
		id := model.NotificationID(chi.URLParam(r, "notificationID"))

		if err := uc.MarkRead(r.Context(), userID, id); err != nil {
			respondError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
