package main

import (
	"context"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/alexmed/clinic-booking/internal/db"
)

// Development fixture only, never a real credential.
const devPasswordHash = "$2a$10$seedseedseedseedseedseedseedseedseedseedseedseedseedse"

var log zerolog.Logger

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log = zerolog.New(os.Stdout).With().Timestamp().Str("service", "seed").Logger()
	log.Info().Msg("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal().Msg("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	clinicIDs, err := seedClinics(context.Background(), pool, 12)
	if err != nil {
		log.Fatal().Err(err).Msg("seed clinics")
	}
	doctorIDs, err := seedDoctors(context.Background(), pool, 100)
	if err != nil {
		log.Fatal().Err(err).Msg("seed doctors")
	}
	if err := seedAssignmentsAndWindows(context.Background(), pool, doctorIDs, clinicIDs); err != nil {
		log.Fatal().Err(err).Msg("seed assignments and windows")
	}
	if err := seedPatients(context.Background(), pool, 9000); err != nil {
		log.Fatal().Err(err).Msg("seed patients")
	}

	log.Info().Msg("seed complete")
}

func seedClinics(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Info().Int("count", count).Msg("seeding clinics")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		phone := gofakeit.Phone()

		_, err := tx.Exec(ctx, `
			INSERT INTO clinics (id, name, address, city, phone, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, id, gofakeit.Company()+" Clinic", gofakeit.Street(), gofakeit.City(), phone)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Info().Msg("clinics seeded")
	return ids, nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Info().Int("count", count).Msg("seeding doctors")

	specialties := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Endocrinology",
		"Neurology",
		"Pediatrics",
		"Psychiatry",
		"Ophthalmology",
		"ENT",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		userID := uuid.New()
		doctorID := uuid.New()
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		spec := specialties[gofakeit.Number(0, len(specialties)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, email, password_hash, role, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, 'DOCTOR', true, now(), now())
		`, userID, gofakeit.Email(), devPasswordHash)
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO doctors (id, user_id, first_name, last_name, specialty, bio, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		`, doctorID, userID, first, last, spec, gofakeit.Sentence(12))
		if err != nil {
			return nil, err
		}
		ids = append(ids, doctorID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Info().Msg("doctors seeded")
	return ids, nil
}

// seedAssignmentsAndWindows gives each doctor one or two clinics and a
// Monday-to-Friday set of consulting windows at each.
func seedAssignmentsAndWindows(ctx context.Context, pool *pgxpool.Pool, doctorIDs, clinicIDs []uuid.UUID) error {
	log.Info().Msg("seeding clinic assignments and schedule windows")

	blocks := [][2]int{
		{9 * 60, 12 * 60},
		{14 * 60, 17 * 60},
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, doctorID := range doctorIDs {
		clinicCount := gofakeit.Number(1, 2)
		used := map[int]bool{}

		for c := 0; c < clinicCount; c++ {
			ci := gofakeit.Number(0, len(clinicIDs)-1)
			if used[ci] {
				continue
			}
			used[ci] = true

			assignmentID := uuid.New()
			fee := int64(gofakeit.Number(3000, 20000))

			_, err := tx.Exec(ctx, `
				INSERT INTO clinic_assignments (id, doctor_id, clinic_id, consultation_fee, created_at)
				VALUES ($1, $2, $3, $4, now())
			`, assignmentID, doctorID, clinicIDs[ci], fee)
			if err != nil {
				return err
			}

			block := blocks[c%len(blocks)]
			for day := 1; day <= 5; day++ {
				_, err := tx.Exec(ctx, `
					INSERT INTO schedule_windows (id, doctor_id, assignment_id, day_of_week, start_minutes, end_minutes, is_active, created_at, updated_at)
					VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())
				`, uuid.New(), doctorID, assignmentID, day, block[0], block[1])
				if err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Info().Msg("assignments and windows seeded")
	return nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Info().Int("count", count).Msg("seeding patients")

	const batchSize = 500

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			userID := uuid.New()
			phone := gofakeit.Phone()

			_, err := tx.Exec(ctx, `
				INSERT INTO users (id, email, password_hash, role, is_active, created_at, updated_at)
				VALUES ($1, $2, $3, 'PATIENT', true, now(), now())
			`, userID, gofakeit.Email(), devPasswordHash)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO patients (id, user_id, first_name, last_name, phone, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, now(), now())
			`, uuid.New(), userID, gofakeit.FirstName(), gofakeit.LastName(), phone)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Info().Int("done", end).Int("total", count).Msg("patients seeded batch")
	}

	log.Info().Msg("patients seeded")
	return nil
}
