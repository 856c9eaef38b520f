package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"car_dealership/internal/model"

	"github.com/jackc/pgx/v5"
)

// CarRepository defines operations for the car catalog
type CarRepository interface {
	Create(ctx context.Context, car *model.Car) error
	FindByID(ctx context.Context, id int64) (*model.Car, error)
	List(ctx context.Context, filters model.CarFilters) ([]model.Car, error)
	Update(ctx context.Context, car *model.Car) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type carRepository struct {
	db DB
}

// NewCarRepository creates a new CarRepository
func NewCarRepository(db DB) CarRepository {
	return &carRepository{db: db}
}

const carColumns = `id, brand, model, year, price::text, images, description, mileage,
	fuel_type, transmission, color, available, created_at, updated_at`

func scanCar(row pgx.Row) (*model.Car, error) {
	c := &model.Car{}
	var price, fuel, transmission string
	var images []byte
	if err := row.Scan(&c.ID, &c.Brand, &c.Model, &c.Year, &price, &images, &c.Description, &c.Mileage,
		&fuel, &transmission, &c.Color, &c.Available, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	p, err := model.NewPrice(price)
	if err != nil {
		return nil, fmt.Errorf("invalid stored price %q: %w", price, err)
	}
	c.Price = p
	c.FuelType = model.FuelType(fuel)
	c.Transmission = model.Transmission(transmission)
	c.Images = []string{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &c.Images); err != nil {
			return nil, fmt.Errorf("invalid stored images: %w", err)
		}
	}
	return c, nil
}

func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	b, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("failed to encode images: %w", err)
	}
	return string(b), nil
}

// Create inserts a new car; created_at and updated_at are set by the database
func (r *carRepository) Create(ctx context.Context, c *model.Car) error {
	images, err := encodeImages(c.Images)
	if err != nil {
		return err
	}
	sql := `INSERT INTO cars (brand, model, year, price, images, description, mileage, fuel_type, transmission, color, available)
            VALUES ($1, $2, $3, $4::numeric, $5::jsonb, $6, $7, $8, $9, $10, $11) RETURNING id, created_at, updated_at`
	err = r.db.QueryRow(ctx, sql, c.Brand, c.Model, c.Year, c.Price.StringFixed(model.PriceScale), images, c.Description,
		c.Mileage, string(c.FuelType), string(c.Transmission), c.Color, c.Available).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

// FindByID retrieves a car by its ID; a missing car yields (nil, nil)
func (r *carRepository) FindByID(ctx context.Context, id int64) (*model.Car, error) {
	sql := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	c, err := scanCar(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find car by ID: %w", err)
	}
	return c, nil
}

// carOrderBy maps a sort option to its ORDER BY clause. The id tie-breaker follows the
// direction of the primary key so that opposite sorts are exact reverses of each other.
func carOrderBy(sort model.CarSort) string {
	switch sort {
	case model.SortPriceAsc:
		return "price ASC, id ASC"
	case model.SortPriceDesc:
		return "price DESC, id DESC"
	case model.SortYearDesc:
		return "year DESC, id DESC"
	case model.SortYearAsc:
		return "year ASC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}

// buildCarListQuery composes the catalog query; every set filter is ANDed.
func buildCarListQuery(filters model.CarFilters) (string, []any) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + carColumns + ` FROM cars`)

	args := []any{}
	var conditions []string
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Brand != nil && *filters.Brand != "" {
		conditions = append(conditions, "brand ILIKE "+next(containsPattern(*filters.Brand)))
	}
	if filters.Year != nil {
		conditions = append(conditions, "year = "+next(*filters.Year))
	}
	if filters.MinPrice != nil {
		conditions = append(conditions, "price >= "+next(filters.MinPrice.String())+"::numeric")
	}
	if filters.MaxPrice != nil {
		conditions = append(conditions, "price <= "+next(filters.MaxPrice.String())+"::numeric")
	}
	if filters.Search != nil && *filters.Search != "" {
		p := next(containsPattern(*filters.Search))
		conditions = append(conditions, "(brand ILIKE "+p+" OR model ILIKE "+p+")")
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY ")
	queryBuilder.WriteString(carOrderBy(filters.Sort))
	return queryBuilder.String(), args
}

// List retrieves cars matching filters
func (r *carRepository) List(ctx context.Context, filters model.CarFilters) ([]model.Car, error) {
	sql, args := buildCarListQuery(filters)
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cars: %w", err)
	}
	defer rows.Close()

	cars := []model.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan car row: %w", err)
		}
		cars = append(cars, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating car rows: %w", err)
	}
	return cars, nil
}

// Update overwrites the client-editable columns of a car
func (r *carRepository) Update(ctx context.Context, c *model.Car) error {
	images, err := encodeImages(c.Images)
	if err != nil {
		return err
	}
	sql := `UPDATE cars
            SET brand = $1, model = $2, year = $3, price = $4::numeric, images = $5::jsonb, description = $6,
                mileage = $7, fuel_type = $8, transmission = $9, color = $10, available = $11
            WHERE id = $12 RETURNING updated_at`
	err = r.db.QueryRow(ctx, sql, c.Brand, c.Model, c.Year, c.Price.StringFixed(model.PriceScale), images, c.Description,
		c.Mileage, string(c.FuelType), string(c.Transmission), c.Color, c.Available, c.ID).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("car %d not found for update", c.ID)
		}
		return fmt.Errorf("failed to update car: %w", err)
	}
	return nil
}

// Delete removes a car. Messages referencing it keep a NULL car_id (ON DELETE SET NULL).
func (r *carRepository) Delete(ctx context.Context, id int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete car: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}
