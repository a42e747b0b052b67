package api

import (
	"net/http"
	"strconv"

	"github.com/alexmed/clinic-booking/internal/directory"
)

func listDoctorsHandler(svc *directory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		doctors, err := svc.ListDoctors(r.Context(), q.Get("specialty"), limit, offset)
		if err != nil {
			handleDomainError(w, err)
			return
		}

		out := make([]DoctorResponse, 0, len(doctors))
		for _, d := range doctors {
			out = append(out, toDoctorResponse(d))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"count":   len(out),
			"doctors": out,
		})
	}
}
