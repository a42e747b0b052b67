package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/alexmed/clinic-booking/internal/schedule"
)

func parseWindowRequest(in CreateWindowRequest) (schedule.WindowInput, string) {
	if in.ClinicID == "" || in.DayOfWeek == "" || in.StartTime == "" || in.EndTime == "" {
		return schedule.WindowInput{}, "clinic_id, day_of_week, start_time and end_time are required"
	}

	clinicID, err := uuid.Parse(in.ClinicID)
	if err != nil {
		return schedule.WindowInput{}, "clinic_id must be a valid UUID"
	}

	day, err := schedule.ParseWeekday(in.DayOfWeek)
	if err != nil {
		return schedule.WindowInput{}, err.Error()
	}

	start, err := schedule.ParseTimeOfDay(in.StartTime)
	if err != nil {
		return schedule.WindowInput{}, err.Error()
	}

	end, err := schedule.ParseTimeOfDay(in.EndTime)
	if err != nil {
		return schedule.WindowInput{}, err.Error()
	}

	return schedule.WindowInput{
		ClinicID: clinicID,
		Day:      day,
		Start:    start,
		End:      end,
	}, ""
}

func createWindowHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		var req CreateWindowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		input, problem := parseWindowRequest(req)
		if problem != "" {
			writeError(w, http.StatusBadRequest, "invalid_request", problem)
			return
		}

		created, err := svc.CreateWindow(r.Context(), actor.ProfileID, input)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toWindowResponse(created, "", &input.ClinicID))
	}
}

func createWeekHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		var req CreateWeekRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		inputs := make([]schedule.WindowInput, 0, len(req.Windows))
		for _, entry := range req.Windows {
			input, problem := parseWindowRequest(entry)
			if problem != "" {
				writeError(w, http.StatusBadRequest, "invalid_request", problem)
				return
			}
			inputs = append(inputs, input)
		}

		created, err := svc.CreateWeek(r.Context(), actor.ProfileID, inputs)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		out := make([]WindowResponse, 0, len(created))
		for i := range created {
			out = append(out, toWindowResponse(&created[i], "", &inputs[i].ClinicID))
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"count":   len(out),
			"windows": out,
		})
	}
}

func listWindowsHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())
		q := r.URL.Query()

		filter := schedule.WindowFilter{}
		if c := q.Get("clinic_id"); c != "" {
			id, err := uuid.Parse(c)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinic_id must be a valid UUID")
				return
			}
			filter.ClinicID = &id
		}
		if q.Get("active") == "true" {
			filter.ActiveOnly = true
		}

		windows, err := svc.ListWindows(r.Context(), actor.ProfileID, filter)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		out := make([]WindowResponse, 0, len(windows))
		for i := range windows {
			out = append(out, toWindowResponse(&windows[i].Window, windows[i].ClinicName, &windows[i].ClinicID))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"count":   len(out),
			"windows": out,
		})
	}
}

func updateWindowHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_window_id", "id must be a valid UUID")
			return
		}

		var req UpdateWindowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		patch := schedule.WindowPatch{Active: req.IsActive}

		if req.DayOfWeek != nil {
			day, err := schedule.ParseWeekday(*req.DayOfWeek)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
				return
			}
			patch.Day = &day
		}
		if req.StartTime != nil {
			start, err := schedule.ParseTimeOfDay(*req.StartTime)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
				return
			}
			patch.Start = &start
		}
		if req.EndTime != nil {
			end, err := schedule.ParseTimeOfDay(*req.EndTime)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
				return
			}
			patch.End = &end
		}

		updated, err := svc.UpdateWindow(r.Context(), actor.ProfileID, id, patch)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toWindowResponse(updated, "", nil))
	}
}

func deleteWindowHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_window_id", "id must be a valid UUID")
			return
		}

		if err := svc.DeleteWindow(r.Context(), actor.ProfileID, id); err != nil {
			handleDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
