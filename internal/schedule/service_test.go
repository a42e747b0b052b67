package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexmed/clinic-booking/internal/directory"
)

type memoryRepo struct {
	windows map[uuid.UUID]Window
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{windows: make(map[uuid.UUID]Window)}
}

func (m *memoryRepo) Create(ctx context.Context, w Window) (*Window, error) {
	w.ID = uuid.New()
	w.CreatedAt = time.Now()
	w.UpdatedAt = w.CreatedAt
	m.windows[w.ID] = w
	return &w, nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Window, error) {
	w, ok := m.windows[id]
	if !ok {
		return nil, ErrWindowNotFound
	}
	return &w, nil
}

func (m *memoryRepo) Update(ctx context.Context, w Window) (*Window, error) {
	if _, ok := m.windows[w.ID]; !ok {
		return nil, ErrWindowNotFound
	}
	w.UpdatedAt = time.Now()
	m.windows[w.ID] = w
	return &w, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id, doctorID uuid.UUID) error {
	w, ok := m.windows[id]
	if !ok || w.DoctorID != doctorID {
		return ErrWindowNotFound
	}
	delete(m.windows, id)
	return nil
}

func (m *memoryRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID, filter WindowFilter) ([]DayWindow, error) {
	var out []DayWindow
	for _, w := range m.windows {
		if w.DoctorID == doctorID {
			out = append(out, DayWindow{Window: w})
		}
	}
	return out, nil
}

func (m *memoryRepo) ListForDay(ctx context.Context, doctorID uuid.UUID, day time.Weekday, clinicID *uuid.UUID) ([]DayWindow, error) {
	var out []DayWindow
	for _, w := range m.windows {
		if w.DoctorID == doctorID && w.Day == day && w.Active {
			out = append(out, DayWindow{Window: w})
		}
	}
	return out, nil
}

type memoryAssignments struct {
	assignments map[[2]uuid.UUID]directory.ClinicAssignment
}

func newMemoryAssignments() *memoryAssignments {
	return &memoryAssignments{assignments: make(map[[2]uuid.UUID]directory.ClinicAssignment)}
}

func (m *memoryAssignments) add(doctorID, clinicID uuid.UUID) directory.ClinicAssignment {
	a := directory.ClinicAssignment{ID: uuid.New(), DoctorID: doctorID, ClinicID: clinicID}
	m.assignments[[2]uuid.UUID{doctorID, clinicID}] = a
	return a
}

func (m *memoryAssignments) GetAssignment(ctx context.Context, doctorID, clinicID uuid.UUID) (*directory.ClinicAssignment, error) {
	a, ok := m.assignments[[2]uuid.UUID{doctorID, clinicID}]
	if !ok {
		return nil, directory.ErrAssignmentNotFound
	}
	return &a, nil
}

func newTestService(repo Repository, assignments AssignmentSource) *Service {
	return NewService(repo, assignments, zerolog.Nop())
}

func TestCreateWindow(t *testing.T) {
	repo := newMemoryRepo()
	assignments := newMemoryAssignments()
	doctorID := uuid.New()
	clinicID := uuid.New()
	assignment := assignments.add(doctorID, clinicID)

	svc := newTestService(repo, assignments)

	w, err := svc.CreateWindow(context.Background(), doctorID, WindowInput{
		ClinicID: clinicID,
		Day:      time.Monday,
		Start:    mustTime(t, "09:00"),
		End:      mustTime(t, "17:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, doctorID, w.DoctorID)
	assert.Equal(t, assignment.ID, w.AssignmentID)
	assert.True(t, w.Active)
}

func TestCreateWindowRejectsInvertedTimes(t *testing.T) {
	doctorID := uuid.New()
	clinicID := uuid.New()
	assignments := newMemoryAssignments()
	assignments.add(doctorID, clinicID)

	svc := newTestService(newMemoryRepo(), assignments)

	_, err := svc.CreateWindow(context.Background(), doctorID, WindowInput{
		ClinicID: clinicID,
		Day:      time.Monday,
		Start:    mustTime(t, "17:00"),
		End:      mustTime(t, "09:00"),
	})

	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
}

func TestCreateWindowRejectsForeignClinic(t *testing.T) {
	svc := newTestService(newMemoryRepo(), newMemoryAssignments())

	_, err := svc.CreateWindow(context.Background(), uuid.New(), WindowInput{
		ClinicID: uuid.New(),
		Day:      time.Monday,
		Start:    mustTime(t, "09:00"),
		End:      mustTime(t, "17:00"),
	})

	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "you are not associated with this clinic", ruleErr.Reason)
}

func TestCreateWeekRejectsWholeBatchOnBadEntry(t *testing.T) {
	repo := newMemoryRepo()
	assignments := newMemoryAssignments()
	doctorID := uuid.New()
	clinicID := uuid.New()
	assignments.add(doctorID, clinicID)

	svc := newTestService(repo, assignments)

	_, err := svc.CreateWeek(context.Background(), doctorID, []WindowInput{
		{ClinicID: clinicID, Day: time.Monday, Start: mustTime(t, "09:00"), End: mustTime(t, "12:00")},
		{ClinicID: clinicID, Day: time.Tuesday, Start: mustTime(t, "12:00"), End: mustTime(t, "09:00")},
	})

	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Empty(t, repo.windows, "no window from the batch should have been created")
}

func TestCreateWeekRequiresEntries(t *testing.T) {
	svc := newTestService(newMemoryRepo(), newMemoryAssignments())

	_, err := svc.CreateWeek(context.Background(), uuid.New(), nil)

	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
}

func TestUpdateWindowHidesForeignWindows(t *testing.T) {
	repo := newMemoryRepo()
	assignments := newMemoryAssignments()
	owner := uuid.New()
	clinicID := uuid.New()
	assignments.add(owner, clinicID)

	svc := newTestService(repo, assignments)

	w, err := svc.CreateWindow(context.Background(), owner, WindowInput{
		ClinicID: clinicID,
		Day:      time.Monday,
		Start:    mustTime(t, "09:00"),
		End:      mustTime(t, "17:00"),
	})
	require.NoError(t, err)

	_, err = svc.UpdateWindow(context.Background(), uuid.New(), w.ID, WindowPatch{})
	assert.ErrorIs(t, err, ErrWindowNotFound)
}

func TestUpdateWindowPatchValidation(t *testing.T) {
	repo := newMemoryRepo()
	assignments := newMemoryAssignments()
	doctorID := uuid.New()
	clinicID := uuid.New()
	assignments.add(doctorID, clinicID)

	svc := newTestService(repo, assignments)

	w, err := svc.CreateWindow(context.Background(), doctorID, WindowInput{
		ClinicID: clinicID,
		Day:      time.Monday,
		Start:    mustTime(t, "09:00"),
		End:      mustTime(t, "17:00"),
	})
	require.NoError(t, err)

	// Moving the end before the start is rejected
	badEnd := mustTime(t, "08:00")
	_, err = svc.UpdateWindow(context.Background(), doctorID, w.ID, WindowPatch{End: &badEnd})
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)

	// A valid patch sticks
	newDay := time.Friday
	inactive := false
	updated, err := svc.UpdateWindow(context.Background(), doctorID, w.ID, WindowPatch{Day: &newDay, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, time.Friday, updated.Day)
	assert.False(t, updated.Active)
}

func TestDeleteWindow(t *testing.T) {
	repo := newMemoryRepo()
	assignments := newMemoryAssignments()
	doctorID := uuid.New()
	clinicID := uuid.New()
	assignments.add(doctorID, clinicID)

	svc := newTestService(repo, assignments)

	w, err := svc.CreateWindow(context.Background(), doctorID, WindowInput{
		ClinicID: clinicID,
		Day:      time.Monday,
		Start:    mustTime(t, "09:00"),
		End:      mustTime(t, "17:00"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteWindow(context.Background(), doctorID, w.ID))
	assert.ErrorIs(t, svc.DeleteWindow(context.Background(), doctorID, w.ID), ErrWindowNotFound)
}
