package postgres

import (
	"context"
	"database/sql"
	"errors"

	"transit/internal/domain"
	"transit/internal/repository"
)

// RatingRepository is a PostgreSQL implementation of repository.RatingRepository.
type RatingRepository struct {
	q Querier
}

// NewRatingRepository creates a new PostgreSQL rating repository.
func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{q: db}
}

const ratingColumns = `id, viaje_id, pasajero_id, conductor_id, rating_general, rating_puntualidad, rating_vehiculo, rating_conduccion, rating_amabilidad, comentario, recomendaria, created_at`

// Create persists a new rating. The UNIQUE (viaje_id, pasajero_id) constraint
// makes the one-rating-per-trip rule atomic; violations map to ErrDuplicate.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO calificaciones (id, viaje_id, pasajero_id, conductor_id, rating_general,
			rating_puntualidad, rating_vehiculo, rating_conduccion, rating_amabilidad,
			comentario, recomendaria, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		rating.ID,
		rating.TripID,
		rating.PassengerID,
		rating.DriverID,
		rating.Overall,
		nullInt(rating.Punctuality),
		nullInt(rating.Vehicle),
		nullInt(rating.Driving),
		nullInt(rating.Friendliness),
		nullString(rating.Comment),
		rating.Recommend,
		rating.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}

	return nil
}

// GetByID retrieves a rating by ID.
func (r *RatingRepository) GetByID(ctx context.Context, id string) (*domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM calificaciones WHERE id = $1`

	rating, err := scanRating(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return rating, nil
}

// ListByDriver retrieves a driver's ratings, newest first.
func (r *RatingRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM calificaciones WHERE conductor_id = $1 ORDER BY created_at DESC`
	return r.queryRatings(ctx, query, driverID)
}

// ListLowRated retrieves recent ratings at or below the threshold.
func (r *RatingRepository) ListLowRated(ctx context.Context, threshold, limit int) ([]*domain.Rating, error) {
	query := `
		SELECT ` + ratingColumns + ` FROM calificaciones
		WHERE rating_general <= $1
		ORDER BY created_at DESC LIMIT $2
	`
	return r.queryRatings(ctx, query, threshold, limit)
}

// CreateResponse persists the driver's reply to a rating. The UNIQUE
// constraint on calificacion_id enforces one response per rating.
func (r *RatingRepository) CreateResponse(ctx context.Context, resp *domain.RatingResponse) error {
	query := `
		INSERT INTO respuestas_calificaciones (id, calificacion_id, conductor_id, respuesta, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		resp.ID,
		resp.RatingID,
		resp.DriverID,
		resp.Reply,
		resp.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}

	return nil
}

// GetResponse retrieves the response attached to a rating, if any.
func (r *RatingRepository) GetResponse(ctx context.Context, ratingID string) (*domain.RatingResponse, error) {
	query := `
		SELECT id, calificacion_id, conductor_id, respuesta, created_at
		FROM respuestas_calificaciones WHERE calificacion_id = $1
	`

	var resp domain.RatingResponse
	err := r.q.QueryRowContext(ctx, query, ratingID).Scan(
		&resp.ID,
		&resp.RatingID,
		&resp.DriverID,
		&resp.Reply,
		&resp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &resp, nil
}

// Aggregate computes rating aggregates for a driver.
func (r *RatingRepository) Aggregate(ctx context.Context, driverID string) (*domain.DriverStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(AVG(rating_general), 0),
		       COALESCE(AVG(rating_puntualidad), 0),
		       COALESCE(AVG(rating_vehiculo), 0),
		       COALESCE(AVG(rating_conduccion), 0),
		       COALESCE(AVG(rating_amabilidad), 0),
		       COALESCE(AVG(CASE WHEN recomendaria THEN 100.0 ELSE 0.0 END), 0),
		       COUNT(*) FILTER (WHERE rating_general = 1),
		       COUNT(*) FILTER (WHERE rating_general = 2),
		       COUNT(*) FILTER (WHERE rating_general = 3),
		       COUNT(*) FILTER (WHERE rating_general = 4),
		       COUNT(*) FILTER (WHERE rating_general = 5)
		FROM calificaciones WHERE conductor_id = $1
	`

	stats := domain.DriverStats{DriverID: driverID}
	err := r.q.QueryRowContext(ctx, query, driverID).Scan(
		&stats.RatingCount,
		&stats.AvgOverall,
		&stats.AvgPunctuality,
		&stats.AvgVehicle,
		&stats.AvgDriving,
		&stats.AvgFriendliness,
		&stats.RecommendPct,
		&stats.Distribution[0],
		&stats.Distribution[1],
		&stats.Distribution[2],
		&stats.Distribution[3],
		&stats.Distribution[4],
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// Ranking retrieves the top drivers by average rating, then completed trips.
func (r *RatingRepository) Ranking(ctx context.Context, limit int) ([]*domain.RankingEntry, error) {
	query := `
		SELECT c.id, c.nombre,
		       COALESCE(AVG(ca.rating_general), 0) AS promedio,
		       COUNT(ca.id) AS calificaciones,
		       (SELECT COUNT(*) FROM viajes v WHERE v.conductor_id = c.id AND v.estado = 'completado') AS viajes
		FROM conductores c
		LEFT JOIN calificaciones ca ON ca.conductor_id = c.id
		GROUP BY c.id, c.nombre
		ORDER BY promedio DESC, viajes DESC
		LIMIT $1
	`

	rows, err := r.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.RankingEntry
	for rows.Next() {
		var e domain.RankingEntry
		if err := rows.Scan(&e.DriverID, &e.Name, &e.AvgRating, &e.RatingCount, &e.TripsCompleted); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

func (r *RatingRepository) queryRatings(ctx context.Context, query string, args ...any) ([]*domain.Rating, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*domain.Rating
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}

	return ratings, rows.Err()
}

func scanRating(row rowScanner) (*domain.Rating, error) {
	var rating domain.Rating
	var punctuality, vehicle, driving, friendliness sql.NullInt64
	var comment sql.NullString

	err := row.Scan(
		&rating.ID,
		&rating.TripID,
		&rating.PassengerID,
		&rating.DriverID,
		&rating.Overall,
		&punctuality,
		&vehicle,
		&driving,
		&friendliness,
		&comment,
		&rating.Recommend,
		&rating.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rating.Punctuality = int(punctuality.Int64)
	rating.Vehicle = int(vehicle.Int64)
	rating.Driving = int(driving.Int64)
	rating.Friendliness = int(friendliness.Int64)
	rating.Comment = comment.String

	return &rating, nil
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

// Ensure RatingRepository implements repository.RatingRepository.
var _ repository.RatingRepository = (*RatingRepository)(nil)
