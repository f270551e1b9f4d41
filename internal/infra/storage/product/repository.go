package product

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с каталогом продуктов.
// Продукт хранится в трёх таблицах: products, product_instances и
// availability_ranges; наружу отдаётся собранный domain.Product.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория продуктов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает продукт вместе с экземплярами и их доступностью.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("products").
		Columns("name", "description", "stars", "cover_image", "other_images", "discounts").
		Values(
			product.Name,
			product.Description,
			product.Stars,
			product.CoverImage,
			pq.Array(product.OtherImages),
			product.Discounts,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&product.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	product.CreatedAt = createdAt.Time
	product.UpdatedAt = updatedAt.Time

	if err := r.insertInstances(ctx, executor, product.ID, product.Instances); err != nil {
		return nil, err
	}

	return product, nil
}

// GetByID получает продукт по ID вместе с экземплярами и доступностью
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "name", "description", "stars", "cover_image", "other_images", "discounts",
		"created_at", "updated_at",
	).
		From("products").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	product, err := scanProduct(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan product: %v", ErrScanRow, err)
	}

	if err := r.loadInstances(ctx, executor, []*domain.Product{product}); err != nil {
		return nil, err
	}

	return product, nil
}

// List получает список продуктов с фильтрацией по названию и пагинацией
func (r *Repository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id", "name", "description", "stars", "cover_image", "other_images", "discounts",
		"created_at", "updated_at",
	).
		From("products").
		OrderBy("id")

	if filter.Name != nil {
		selectBuilder = selectBuilder.Where(squirrel.ILike{"name": "%" + *filter.Name + "%"})
	}
	if len(filter.Keywords) > 0 {
		or := make(squirrel.Or, 0, len(filter.Keywords)*2)
		for _, keyword := range filter.Keywords {
			pattern := "%" + keyword + "%"
			or = append(or,
				squirrel.ILike{"name": pattern},
				squirrel.ILike{"description": pattern},
			)
		}
		selectBuilder = selectBuilder.Where(or)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = domain.DefaultPageSize
	}
	selectBuilder = selectBuilder.Limit(limit).Offset(filter.Offset)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan product: %v", ErrScanRow, err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %v", ErrExecQuery, err)
	}

	if err := r.loadInstances(ctx, executor, products); err != nil {
		return nil, err
	}

	return products, nil
}

// Update обновляет продукт, полностью заменяя экземпляры и доступность
func (r *Repository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("products").
		Set("name", product.Name).
		Set("description", product.Description).
		Set("stars", product.Stars).
		Set("cover_image", product.CoverImage).
		Set("other_images", pq.Array(product.OtherImages)).
		Set("discounts", product.Discounts).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": product.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}
	product.CreatedAt = createdAt.Time
	product.UpdatedAt = updatedAt.Time

	// Экземпляры заменяются целиком: availability меняется только
	// административными обновлениями, дифф здесь не нужен
	deleteQuery, deleteArgs, err := psqlbuilder.Delete("product_instances").
		Where(squirrel.Eq{"product_id": product.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return nil, fmt.Errorf("%w: Update - delete old instances: %v", ErrExecQuery, err)
	}

	if err := r.insertInstances(ctx, executor, product.ID, product.Instances); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete удаляет продукт; связанные экземпляры и диапазоны каскадируются
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("products").
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
		return ErrProductNotFound
	}

	return nil
}

func (r *Repository) insertInstances(ctx context.Context, executor DBExecutor, productID int64, instances map[string]domain.Instance) error {
	if len(instances) == 0 {
		return nil
	}

	instanceBuilder := psqlbuilder.Insert("product_instances").
		Columns("product_id", "instance_id", "status", "discounts", "logs")

	rangeBuilder := psqlbuilder.Insert("availability_ranges").
		Columns("product_id", "instance_id", "date_from", "date_to", "price", "discounts")
	hasRanges := false

	for instanceID, instance := range instances {
		status := instance.Status
		if status == "" {
			status = domain.InstanceInStock
		}
		instanceBuilder = instanceBuilder.Values(productID, instanceID, status, instance.Discounts, instance.Logs)

		for _, dateRange := range instance.Availability {
			rangeBuilder = rangeBuilder.Values(
				productID, instanceID,
				dateRange.From, dateRange.To,
				dateRange.Price, dateRange.Discounts,
			)
			hasRanges = true
		}
	}

	query, args, err := instanceBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertInstances - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertInstances - execute insert: %v", ErrExecQuery, err)
	}

	if !hasRanges {
		return nil
	}

	query, args, err = rangeBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertInstances - build ranges query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertInstances - execute ranges insert: %v", ErrExecQuery, err)
	}

	return nil
}

// loadInstances подгружает экземпляры и их доступность для набора продуктов
func (r *Repository) loadInstances(ctx context.Context, executor DBExecutor, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Product, len(products))
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		p.Instances = make(map[string]domain.Instance)
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	query, args, err := psqlbuilder.Select("product_id", "instance_id", "status", "discounts", "logs").
		From("product_instances").
		Where(squirrel.Eq{"product_id": ids}).
		OrderBy("product_id", "instance_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadInstances - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadInstances - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID  int64
			instanceID string
			instance   domain.Instance
		)
		if err := rows.Scan(&productID, &instanceID, &instance.Status, &instance.Discounts, &instance.Logs); err != nil {
			return fmt.Errorf("%w: loadInstances - scan instance: %v", ErrScanRow, err)
		}
		instance.ID = instanceID
		byID[productID].Instances[instanceID] = instance
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadInstances - iterate rows: %v", ErrExecQuery, err)
	}

	return r.loadAvailability(ctx, executor, byID, ids)
}

func (r *Repository) loadAvailability(ctx context.Context, executor DBExecutor, byID map[int64]*domain.Product, ids []int64) error {
	query, args, err := psqlbuilder.Select("product_id", "instance_id", "date_from", "date_to", "price", "discounts").
		From("availability_ranges").
		Where(squirrel.Eq{"product_id": ids}).
		OrderBy("product_id", "instance_id", "date_from").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadAvailability - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadAvailability - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID  int64
			instanceID string
			dateRange  domain.DateRange
		)
		if err := rows.Scan(&productID, &instanceID,
			&dateRange.From, &dateRange.To, &dateRange.Price, &dateRange.Discounts); err != nil {
			return fmt.Errorf("%w: loadAvailability - scan range: %v", ErrScanRow, err)
		}

		instance, ok := byID[productID].Instances[instanceID]
		if !ok {
			continue
		}
		instance.Availability = append(instance.Availability, dateRange)
		byID[productID].Instances[instanceID] = instance
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadAvailability - iterate rows: %v", ErrExecQuery, err)
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		product              domain.Product
		otherImages          pq.StringArray
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Stars,
		&product.CoverImage,
		&otherImages,
		&product.Discounts,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.OtherImages = otherImages
	product.CreatedAt = createdAt.Time
	product.UpdatedAt = updatedAt.Time

	return &product, nil
}
