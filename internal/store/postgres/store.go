// Package postgres implements the storage collaborator on PostgreSQL. Each
// collection is one table whose unique constraint over the dedup key
// columns backs the atomic INSERT ... ON CONFLICT upsert.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/store"
)

// Store provides Postgres-backed persistence for canonical documents.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Upsert implements store.Storage. created_at is written only by the insert
// arm; the conflict arm replaces every canonical field and refreshes
// updated_at. xmax = 0 distinguishes a fresh insert from a conflict update.
func (s *Store) Upsert(ctx context.Context, doc domain.Document, now time.Time) (store.Outcome, error) {
	query, args, err := upsertStatement(doc, now)
	if err != nil {
		return "", err
	}

	var inserted bool
	var createdAt, updatedAt time.Time
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&inserted, &createdAt, &updatedAt); err != nil {
		return "", mapError(err)
	}

	doc.Stamp(createdAt.UTC(), updatedAt.UTC())
	if inserted {
		return store.OutcomeInserted, nil
	}
	return store.OutcomeUpdated, nil
}

// UserHeightMeters implements store.Storage.
func (s *Store) UserHeightMeters(ctx context.Context, userID string) (float64, error) {
	var height float64
	err := s.pool.QueryRow(ctx,
		`SELECT height_m FROM user_profiles WHERE user_id = $1`, userID,
	).Scan(&height)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, store.ErrNotFound
	}
	if err != nil {
		return 0, mapError(err)
	}
	return height, nil
}

func upsertStatement(doc domain.Document, now time.Time) (string, []any, error) {
	var (
		table            string
		keyCols, setCols []string
		args             []any
	)

	switch d := doc.(type) {
	case *domain.Activity:
		table = "activity_summaries"
		keyCols = []string{"user_id", "recorded_at"}
		setCols = []string{"step_count", "step_goal", "calories", "active_minutes", "step_goal_achieved"}
		args = []any{d.UserID, d.Timestamp, d.StepCount, d.StepGoal, d.Calories, d.ActiveMinutes, d.StepGoalAchieved, now}
	case *domain.BloodGlucose:
		table = "blood_glucose_readings"
		keyCols = []string{"user_id", "recorded_at"}
		setCols = []string{"reading_id", "bg_value", "bg_type", "bg_type_label", "hba1c"}
		args = []any{d.UserID, d.Timestamp, d.ReadingID, d.Value, d.TypeCode, d.TypeLabel, d.HbA1c, now}
	case *domain.BloodPressure:
		table = "blood_pressure_readings"
		keyCols = []string{"user_id", "recorded_at"}
		setCols = []string{"systolic", "diastolic", "pulse_rate", "bp_category"}
		args = []any{d.UserID, d.Timestamp, d.Systolic, d.Diastolic, d.PulseRate, d.Category, now}
	case *domain.BodyComposition:
		table = "body_compositions"
		keyCols = []string{"user_id", "recorded_at"}
		setCols = []string{"weight_lbs", "weight_kg", "height_m", "bmi", "bmi_category"}
		args = []any{d.UserID, d.Timestamp, d.WeightLbs, d.WeightKg, d.HeightMeters, d.BMI, d.BMICategory, now}
	case *domain.HeartRate:
		table = "heart_rate_summaries"
		keyCols = []string{"user_id", "summary_date"}
		setCols = []string{"avg_heart_rate", "min_heart_rate", "max_heart_rate", "resting_heart_rate"}
		args = []any{d.UserID, d.Date, d.Avg, d.Min, d.Max, d.Resting, now}
	case *domain.SleepSession:
		table = "sleep_sessions"
		keyCols = []string{"user_id", "sleep_id"}
		setCols = []string{"sleep_start", "sleep_end", "duration_hours"}
		args = []any{d.UserID, d.SleepID, d.Start, d.End, d.DurationHours, now}
	case *domain.UserProfile:
		table = "user_profiles"
		keyCols = []string{"user_id"}
		setCols = []string{"age", "gender", "height_cm", "height_m", "weight_unit", "height_unit"}
		args = []any{d.UserID, d.Age, d.Gender, d.HeightCm, d.HeightMeters, d.WeightUnit, d.HeightUnit, now}
	default:
		return "", nil, fmt.Errorf("unsupported document type %T", doc)
	}

	query, queryArgs := buildUpsert(table, keyCols, setCols, args)
	return query, queryArgs, nil
}

// buildUpsert renders the shared upsert shape. args carries the key column
// values, then the set column values, then the write time as the final
// argument.
func buildUpsert(table string, keyCols, setCols []string, args []any) (string, []any) {
	all := append(append([]string{}, keyCols...), setCols...)

	placeholders := make([]string, 0, len(all)+2)
	for i := range all {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
	}
	nowPlaceholder := fmt.Sprintf("$%d", len(all)+1)
	placeholders = append(placeholders, nowPlaceholder, nowPlaceholder)

	assignments := make([]string, 0, len(setCols)+1)
	for _, col := range setCols {
		assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	assignments = append(assignments, "updated_at = EXCLUDED.updated_at")

	query := fmt.Sprintf(
		`INSERT INTO %s (%s, created_at, updated_at) VALUES (%s)
         ON CONFLICT (%s) DO UPDATE SET %s
         RETURNING (xmax = 0), created_at, updated_at`,
		table,
		strings.Join(all, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(keyCols, ", "),
		strings.Join(assignments, ", "),
	)
	return query, args
}

// mapError folds pgx failures into the storage error taxonomy. Context
// expiry passes through untouched so callers can report timeouts
// distinctly.
func mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return fmt.Errorf("%w: %s", store.ErrConstraint, pgErr.Message)
	}
	return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
}
