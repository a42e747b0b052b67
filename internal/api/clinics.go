package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/alexmed/clinic-booking/internal/directory"
)

func listClinicsHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		clinics, err := svc.ListClinics(r.Context(), q.Get("city"), limit, offset)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		out := make([]ClinicResponse, 0, len(clinics))
		for _, c := range clinics {
			out = append(out, toClinicResponse(c))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"count":   len(out),
			"clinics": out,
		})
	}
}

func listMyClinicsHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		clinics, err := svc.ListDoctorClinics(r.Context(), actor.ProfileID)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		out := make([]DoctorClinicResponse, 0, len(clinics))
		for _, dc := range clinics {
			out = append(out, toDoctorClinicResponse(dc))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"count":   len(out),
			"clinics": out,
		})
	}
}

func addMyClinicHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		var req AddClinicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		clinicID, err := uuid.Parse(req.ClinicID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinic_id must be a valid UUID")
			return
		}

		if req.ConsultationFee != nil && *req.ConsultationFee < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "consultation_fee cannot be negative")
			return
		}

		created, err := svc.AddClinic(r.Context(), actor.ProfileID, clinicID, req.ConsultationFee)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDoctorClinicResponse(*created))
	}
}

func updateMyClinicHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFromContext(r.Context())

		clinicID, err := uuid.Parse(chi.URLParam(r, "clinicId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_clinic_id", "clinicId must be a valid UUID")
			return
		}

		var req UpdateClinicFeeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if req.ConsultationFee != nil && *req.ConsultationFee < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "consultation_fee cannot be negative")
			return
		}

		updated, err := svc.UpdateClinicFee(r.Context(), actor.ProfileID, clinicID, req.ConsultationFee)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDoctorClinicResponse(*updated))
	}
}
