package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexmed/clinic-booking/internal/directory"
)

type stubDirectoryRepo struct {
	directory.Repository
	clinics     map[uuid.UUID]directory.Clinic
	assignments map[[2]uuid.UUID]directory.ClinicAssignment
}

func newStubDirectoryRepo() *stubDirectoryRepo {
	return &stubDirectoryRepo{
		clinics:     make(map[uuid.UUID]directory.Clinic),
		assignments: make(map[[2]uuid.UUID]directory.ClinicAssignment),
	}
}

func (s *stubDirectoryRepo) GetDoctorByID(_ context.Context, id uuid.UUID) (*directory.Doctor, error) {
	return &directory.Doctor{ID: id, FirstName: "Maya", LastName: "Lindgren"}, nil
}

func (s *stubDirectoryRepo) GetClinicByID(_ context.Context, id uuid.UUID) (*directory.Clinic, error) {
	c, ok := s.clinics[id]
	if !ok {
		return nil, directory.ErrClinicNotFound
	}
	return &c, nil
}

func (s *stubDirectoryRepo) ListClinics(_ context.Context, filter directory.ClinicFilter) ([]directory.Clinic, error) {
	var out []directory.Clinic
	for _, c := range s.clinics {
		if filter.City != "" && c.City != filter.City {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *stubDirectoryRepo) ListClinicsByDoctor(_ context.Context, doctorID uuid.UUID) ([]directory.DoctorClinic, error) {
	var out []directory.DoctorClinic
	for key, a := range s.assignments {
		if key[0] != doctorID {
			continue
		}
		out = append(out, directory.DoctorClinic{Assignment: a, Clinic: s.clinics[a.ClinicID]})
	}
	return out, nil
}

func (s *stubDirectoryRepo) CreateAssignment(_ context.Context, a directory.ClinicAssignment) (*directory.ClinicAssignment, error) {
	key := [2]uuid.UUID{a.DoctorID, a.ClinicID}
	if _, exists := s.assignments[key]; exists {
		return nil, directory.ErrClinicAlreadyAssigned
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	s.assignments[key] = a
	return &a, nil
}

func (s *stubDirectoryRepo) UpdateAssignmentFee(_ context.Context, doctorID, clinicID uuid.UUID, fee *int64) (*directory.ClinicAssignment, error) {
	key := [2]uuid.UUID{doctorID, clinicID}
	a, ok := s.assignments[key]
	if !ok {
		return nil, directory.ErrAssignmentNotFound
	}
	a.ConsultationFee = fee
	s.assignments[key] = a
	return &a, nil
}

func clinicsRouter(svc *directory.Service, actor Actor) http.Handler {
	r := chi.NewRouter()
	r.Get("/clinics", listClinicsHandler(svc))
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := context.WithValue(req.Context(), actorKey, actor)
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		r.Get("/my/clinics", listMyClinicsHandler(svc))
		r.Post("/my/clinics", addMyClinicHandler(svc))
		r.Patch("/my/clinics/{clinicId}", updateMyClinicHandler(svc))
	})
	return r
}

func TestListClinicsHandler(t *testing.T) {
	repo := newStubDirectoryRepo()
	oslo := uuid.New()
	bergen := uuid.New()
	repo.clinics[oslo] = directory.Clinic{ID: oslo, Name: "Central Clinic", City: "Oslo"}
	repo.clinics[bergen] = directory.Clinic{ID: bergen, Name: "Annex Clinic", City: "Bergen"}

	router := clinicsRouter(directory.NewService(repo), Actor{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/clinics?city=Bergen", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count   int              `json:"count"`
		Clinics []ClinicResponse `json:"clinics"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "Annex Clinic", body.Clinics[0].Name)
}

func TestAddMyClinicHandler(t *testing.T) {
	repo := newStubDirectoryRepo()
	clinicID := uuid.New()
	repo.clinics[clinicID] = directory.Clinic{ID: clinicID, Name: "Central Clinic", City: "Oslo"}

	doctorID := uuid.New()
	router := clinicsRouter(directory.NewService(repo), Actor{ProfileID: doctorID, Role: directory.RoleDoctor})

	payload := `{"clinic_id":"` + clinicID.String() + `","consultation_fee":45000}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/my/clinics", strings.NewReader(payload)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var body DoctorClinicResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Central Clinic", body.Clinic.Name)
	require.NotNil(t, body.ConsultationFee)
	assert.Equal(t, int64(45000), *body.ConsultationFee)

	// Linking the same clinic again is a conflict.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/my/clinics", strings.NewReader(payload)))
	require.Equal(t, http.StatusConflict, rec.Code)

	var errBody ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errBody))
	assert.Equal(t, "clinic_already_assigned", errBody.Error)
}

func TestAddMyClinicHandlerValidation(t *testing.T) {
	repo := newStubDirectoryRepo()
	clinicID := uuid.New()
	repo.clinics[clinicID] = directory.Clinic{ID: clinicID, Name: "Central Clinic", City: "Oslo"}

	router := clinicsRouter(directory.NewService(repo), Actor{ProfileID: uuid.New(), Role: directory.RoleDoctor})

	cases := []struct {
		name       string
		payload    string
		wantStatus int
	}{
		{"bad clinic id", `{"clinic_id":"nope"}`, http.StatusBadRequest},
		{"negative fee", `{"clinic_id":"` + clinicID.String() + `","consultation_fee":-5}`, http.StatusBadRequest},
		{"unknown clinic", `{"clinic_id":"` + uuid.NewString() + `"}`, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/my/clinics", strings.NewReader(tc.payload)))
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestUpdateMyClinicHandler(t *testing.T) {
	repo := newStubDirectoryRepo()
	clinicID := uuid.New()
	repo.clinics[clinicID] = directory.Clinic{ID: clinicID, Name: "Central Clinic", City: "Oslo"}

	doctorID := uuid.New()
	repo.assignments[[2]uuid.UUID{doctorID, clinicID}] = directory.ClinicAssignment{
		ID: uuid.New(), DoctorID: doctorID, ClinicID: clinicID,
	}

	router := clinicsRouter(directory.NewService(repo), Actor{ProfileID: doctorID, Role: directory.RoleDoctor})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPatch, "/my/clinics/"+clinicID.String(), strings.NewReader(`{"consultation_fee":52500}`)))

	require.Equal(t, http.StatusOK, rec.Code)

	var body DoctorClinicResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.ConsultationFee)
	assert.Equal(t, int64(52500), *body.ConsultationFee)
}

func TestUpdateMyClinicHandlerNotAssigned(t *testing.T) {
	repo := newStubDirectoryRepo()
	clinicID := uuid.New()
	repo.clinics[clinicID] = directory.Clinic{ID: clinicID, Name: "Central Clinic", City: "Oslo"}

	router := clinicsRouter(directory.NewService(repo), Actor{ProfileID: uuid.New(), Role: directory.RoleDoctor})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(
		http.MethodPatch, "/my/clinics/"+clinicID.String(), strings.NewReader(`{"consultation_fee":52500}`)))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListMyClinicsHandler(t *testing.T) {
	repo := newStubDirectoryRepo()
	clinicID := uuid.New()
	repo.clinics[clinicID] = directory.Clinic{ID: clinicID, Name: "Central Clinic", City: "Oslo"}

	doctorID := uuid.New()
	repo.assignments[[2]uuid.UUID{doctorID, clinicID}] = directory.ClinicAssignment{
		ID: uuid.New(), DoctorID: doctorID, ClinicID: clinicID,
	}

	router := clinicsRouter(directory.NewService(repo), Actor{ProfileID: doctorID, Role: directory.RoleDoctor})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/my/clinics", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count   int                    `json:"count"`
		Clinics []DoctorClinicResponse `json:"clinics"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "Central Clinic", body.Clinics[0].Clinic.Name)
}
