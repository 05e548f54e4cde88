package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/caredispatch/backend/internal/domain/entities"
	"github.com/caredispatch/backend/internal/domain/repositories"
	"github.com/caredispatch/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/caredispatch/backend/pkg/errors"
)

// FacilityAdapter implements the FacilityRepository interface
type FacilityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFacilityAdapter creates a new facility adapter
func NewFacilityAdapter(client *postgres.Client) repositories.FacilityRepository {
	return &FacilityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new facility
func (a *FacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	record := goqu.Record{
		"name":         facility.Name,
		"address":      facility.Address,
		"phone_number": facility.PhoneNumber,
		"latitude":     locationLat(facility.Location),
		"longitude":    locationLon(facility.Location),
		"verified":     facility.Verified,
		"created_at":   facility.CreatedAt,
		"updated_at":   facility.UpdatedAt,
	}

	query, args, err := a.db.Insert("facilities").Rows(record).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&facility.ID); err != nil {
		return apperrors.NewInternalError("failed to create facility", err)
	}

	return nil
}

// GetByID retrieves a facility by ID, annotated with its current wait
func (a *FacilityAdapter) GetByID(ctx context.Context, id int64) (*entities.Facility, error) {
	facilities, err := a.list(ctx, goqu.Ex{"f.id": id})
	if err != nil {
		return nil, err
	}
	if len(facilities) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with id %d not found", id))
	}
	return facilities[0], nil
}

// Update updates a facility's profile
func (a *FacilityAdapter) Update(ctx context.Context, facility *entities.Facility) error {
	facility.UpdatedAt = time.Now()

	record := goqu.Record{
		"name":         facility.Name,
		"address":      facility.Address,
		"phone_number": facility.PhoneNumber,
		"latitude":     locationLat(facility.Location),
		"longitude":    locationLon(facility.Location),
		"verified":     facility.Verified,
		"updated_at":   facility.UpdatedAt,
	}

	query, args, err := a.db.Update("facilities").
		Set(record).
		Where(goqu.Ex{"id": facility.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update facility", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check update result", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %d not found", facility.ID))
	}

	return nil
}

// ListEligible returns verified facilities with coordinates, each carrying
// its freshly computed queue wait in minutes.
func (a *FacilityAdapter) ListEligible(ctx context.Context) ([]*entities.Facility, error) {
	return a.list(ctx,
		goqu.Ex{"f.verified": true},
		goqu.I("f.latitude").IsNotNull(),
		goqu.I("f.longitude").IsNotNull(),
	)
}

// ListPublic returns verified facilities for the public map view.
func (a *FacilityAdapter) ListPublic(ctx context.Context) ([]*entities.Facility, error) {
	return a.list(ctx, goqu.Ex{"f.verified": true})
}

// list runs the annotated facility query. The wait subquery sums active
// queue entries at query time; facility load is never cached because the
// queue changes continuously.
func (a *FacilityAdapter) list(ctx context.Context, conditions ...goqu.Expression) ([]*entities.Facility, error) {
	loadSub := a.db.From("queue_entries").
		Select(
			goqu.C("facility_id"),
			goqu.SUM("estimated_service_minutes").As("wait_minutes"),
		).
		Where(goqu.C("status").In(entities.ActiveQueueStatuses)).
		GroupBy("facility_id").
		As("load")

	query, args, err := a.db.From(goqu.T("facilities").As("f")).
		LeftJoin(loadSub, goqu.On(goqu.Ex{"load.facility_id": goqu.I("f.id")})).
		Select(
			goqu.I("f.id"),
			goqu.I("f.name"),
			goqu.I("f.address"),
			goqu.I("f.phone_number"),
			goqu.I("f.latitude"),
			goqu.I("f.longitude"),
			goqu.I("f.verified"),
			goqu.I("f.created_at"),
			goqu.I("f.updated_at"),
			goqu.COALESCE(goqu.I("load.wait_minutes"), 0).As("current_wait_minutes"),
		).
		Where(conditions...).
		Order(goqu.I("f.id").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build facility query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list facilities", err)
	}
	defer rows.Close()

	var facilities []*entities.Facility
	for rows.Next() {
		facility := &entities.Facility{}
		var lat, lon sql.NullFloat64

		err := rows.Scan(
			&facility.ID,
			&facility.Name,
			&facility.Address,
			&facility.PhoneNumber,
			&lat,
			&lon,
			&facility.Verified,
			&facility.CreatedAt,
			&facility.UpdatedAt,
			&facility.CurrentWaitMinutes,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility", err)
		}

		if lat.Valid && lon.Valid {
			facility.Location = &entities.Location{Latitude: lat.Float64, Longitude: lon.Float64}
		}

		facilities = append(facilities, facility)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate facilities", err)
	}

	return facilities, nil
}

func locationLat(l *entities.Location) sql.NullFloat64 {
	if l == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: l.Latitude, Valid: true}
}

func locationLon(l *entities.Location) sql.NullFloat64 {
	if l == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: l.Longitude, Valid: true}
}
