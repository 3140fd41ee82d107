package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/skyexpress/courier/internal/utils"
	"github.com/skyexpress/courier/pkg/pickup"
	"github.com/skyexpress/courier/pkg/tracking"
	"github.com/skyexpress/courier/pkg/webhook"
)

type PickupRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address"`
	Service string `json:"service"`
	Notes   string `json:"notes,omitempty"`
}

type PickupResponse struct {
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
	Notice  string `json:"notice,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handlePickup(w http.ResponseWriter, r *http.Request) {
	var req PickupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, PickupResponse{Error: err.Error()})
		return
	}

	res, err := s.Pipeline.Submit(r.Context(), pickup.Request{
		Name:     req.Name,
		PhoneRaw: req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Service:  req.Service,
		Notes:    req.Notes,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, PickupResponse{URL: res.URL, Message: res.Message})
	case errors.Is(err, pickup.ErrDuplicate):
		// A suppression, not a failure. The visitor already sent this.
		writeJSON(w, http.StatusConflict, PickupResponse{
			Notice: "You already sent this request recently. Our team will contact you shortly.",
		})
	case errors.Is(err, pickup.ErrCooldown), errors.Is(err, pickup.ErrBusy):
		writeJSON(w, http.StatusTooManyRequests, PickupResponse{
			Notice: "Please wait a moment before sending another request.",
		})
	case errors.Is(err, pickup.ErrMissingFields), errors.Is(err, pickup.ErrInvalidPhone):
		writeJSON(w, http.StatusBadRequest, PickupResponse{Error: err.Error()})
	case errors.Is(err, pickup.ErrHandoff):
		msg := "Unable to open the messaging app."
		if fallback := s.Pipeline.FallbackPhone(); fallback != "" {
			msg += " Please try again or call " + fallback + "."
		}
		resp := PickupResponse{Error: msg}
		if res != nil {
			resp.URL = res.URL
		}
		writeJSON(w, http.StatusBadGateway, resp)
	default:
		writeJSON(w, http.StatusInternalServerError, PickupResponse{Error: err.Error()})
	}
}

type TrackResponse struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
	Found  bool   `json:"found"`
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id parameter", http.StatusBadRequest)
		return
	}
	status, found := s.Tracking.Lookup(r.Context(), id)
	code := http.StatusOK
	if !found {
		code = http.StatusNotFound
	}
	writeJSON(w, code, TrackResponse{ID: tracking.NormalizeID(id), Status: status, Found: found})
}

func (s *Server) handleListTracking(w http.ResponseWriter, r *http.Request) {
	data, err := s.Tracking.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

type SaveTrackingRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (s *Server) handleSaveTracking(w http.ResponseWriter, r *http.Request) {
	var req SaveTrackingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, err := s.Tracking.Save(r.Context(), req.ID, req.Status)
	if errors.Is(err, tracking.ErrEmptyField) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.notify(r, webhook.Event{Action: "saved", TrackingID: id, Status: req.Status})
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleDeleteTracking(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing id parameter", http.StatusBadRequest)
		return
	}
	if err := s.Tracking.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.notify(r, webhook.Event{Action: "deleted", TrackingID: tracking.NormalizeID(id)})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) notify(r *http.Request, ev webhook.Event) {
	if !s.Notifier.Enabled() {
		return
	}
	ev.OccurredAt = time.Now().UTC()
	if err := s.Notifier.Notify(r.Context(), ev); err != nil {
		utils.Log.Warnf("webhook notification failed: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
