package rental

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с арендами.
// Аренда хранится в rentals плюс развёрнутые диапазоны в rental_ranges;
// наружу отдаётся собранный domain.Rental с вложенными продуктами.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория аренд
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает аренду вместе с занятыми диапазонами
func (r *Repository) Create(ctx context.Context, rental *domain.Rental) (*domain.Rental, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("rentals").
		Columns("user_id", "approved_by", "status", "discounts", "penalty").
		Values(rental.UserID, rental.ApprovedBy, rental.Status, rental.Discounts, rental.Penalty).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rental.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	rental.CreatedAt = createdAt.Time
	rental.UpdatedAt = updatedAt.Time

	if err := r.insertRanges(ctx, executor, rental.ID, rental.Products); err != nil {
		return nil, err
	}

	return rental, nil
}

// GetByID получает аренду по ID вместе с занятыми диапазонами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "user_id", "approved_by", "status", "discounts", "penalty",
		"created_at", "updated_at",
	).
		From("rentals").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rental, err := scanRental(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRentalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rental: %v", ErrScanRow, err)
	}

	if err := r.loadRanges(ctx, executor, []*domain.Rental{rental}); err != nil {
		return nil, err
	}

	return rental, nil
}

// GetWithFilter получает список аренд по фильтру.
// OnlyConsuming отбирает ready и active аренды — именно они занимают
// доступность экземпляров при расчете rentability.
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.RentalFilter) ([]*domain.Rental, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id", "user_id", "approved_by", "status", "discounts", "penalty",
		"created_at", "updated_at",
	).
		From("rentals").
		OrderBy("id")

	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.ExcludeRentalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeRentalID})
	}
	if filter.OnlyConsuming {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.RentalClosed})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit).Offset(filter.Offset)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var rentals []*domain.Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWithFilter - scan rental: %v", ErrScanRow, err)
		}
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - iterate rows: %v", ErrExecQuery, err)
	}

	if err := r.loadRanges(ctx, executor, rentals); err != nil {
		return nil, err
	}

	return rentals, nil
}

// Update обновляет аренду, полностью заменяя занятые диапазоны
func (r *Repository) Update(ctx context.Context, rental *domain.Rental) (*domain.Rental, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("rentals").
		Set("user_id", rental.UserID).
		Set("approved_by", rental.ApprovedBy).
		Set("status", rental.Status).
		Set("discounts", rental.Discounts).
		Set("penalty", rental.Penalty).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rental.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRentalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}
	rental.CreatedAt = createdAt.Time
	rental.UpdatedAt = updatedAt.Time

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("rental_ranges").
		Where(squirrel.Eq{"rental_id": rental.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return nil, fmt.Errorf("%w: Update - delete old ranges: %v", ErrExecQuery, err)
	}

	if err := r.insertRanges(ctx, executor, rental.ID, rental.Products); err != nil {
		return nil, err
	}

	return rental, nil
}

// Delete удаляет аренду; связанные диапазоны каскадируются
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("rentals").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrRentalNotFound
	}

	return nil
}

func (r *Repository) insertRanges(ctx context.Context, executor DBExecutor, rentalID int64, products map[int64]domain.ProductRental) error {
	builder := psqlbuilder.Insert("rental_ranges").
		Columns("rental_id", "product_id", "instance_id", "date_from", "date_to", "price", "discounts")
	hasRows := false

	for productID, productRental := range products {
		for instanceID, instanceRental := range productRental.Instances {
			for _, dateRange := range instanceRental.DateRanges {
				builder = builder.Values(
					rentalID, productID, instanceID,
					dateRange.From, dateRange.To,
					dateRange.Price, dateRange.Discounts,
				)
				hasRows = true
			}
		}
	}

	if !hasRows {
		return nil
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertRanges - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertRanges - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// loadRanges подгружает диапазоны и собирает вложенную структуру Products
func (r *Repository) loadRanges(ctx context.Context, executor DBExecutor, rentals []*domain.Rental) error {
	if len(rentals) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Rental, len(rentals))
	ids := make([]int64, 0, len(rentals))
	for _, rental := range rentals {
		rental.Products = make(map[int64]domain.ProductRental)
		byID[rental.ID] = rental
		ids = append(ids, rental.ID)
	}

	query, args, err := psqlbuilder.Select("rental_id", "product_id", "instance_id", "date_from", "date_to", "price", "discounts").
		From("rental_ranges").
		Where(squirrel.Eq{"rental_id": ids}).
		OrderBy("rental_id", "product_id", "instance_id", "date_from").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadRanges - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadRanges - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rentalID, productID int64
			instanceID          string
			dateRange           domain.DateRange
		)
		if err := rows.Scan(&rentalID, &productID, &instanceID,
			&dateRange.From, &dateRange.To, &dateRange.Price, &dateRange.Discounts); err != nil {
			return fmt.Errorf("%w: loadRanges - scan range: %v", ErrScanRow, err)
		}

		rental := byID[rentalID]
		productRental, ok := rental.Products[productID]
		if !ok {
			productRental = domain.ProductRental{Instances: make(map[string]domain.InstanceRental)}
		}
		instanceRental := productRental.Instances[instanceID]
		instanceRental.DateRanges = append(instanceRental.DateRanges, dateRange)
		productRental.Instances[instanceID] = instanceRental
		rental.Products[productID] = productRental
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadRanges - iterate rows: %v", ErrExecQuery, err)
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	var (
		rental               domain.Rental
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&rental.ID,
		&rental.UserID,
		&rental.ApprovedBy,
		&rental.Status,
		&rental.Discounts,
		&rental.Penalty,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rental.CreatedAt = createdAt.Time
	rental.UpdatedAt = updatedAt.Time

	return &rental, nil
}
