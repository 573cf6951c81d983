package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/furiarock-backend/internal/repo"
	"github.com/angelmondragon/furiarock-backend/pkg/db/models"
	"github.com/angelmondragon/furiarock-backend/pkg/pagination"
)

type repository struct {
	repo.Base
}

// NewRepository constructs an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.first(r.DB(ctx).Where("id = ?", id))
}

func (r *repository) FindByReference(ctx context.Context, reference string) (*models.Order, error) {
	return r.first(r.DB(ctx).Where("reference = ?", reference))
}

// LockByID reads the order with a row lock. Only meaningful inside a transaction.
func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.first(r.DB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

// LockByReference reads the order with a row lock. Only meaningful inside a transaction.
func (r *repository) LockByReference(ctx context.Context, reference string) (*models.Order, error) {
	return r.first(r.DB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("reference = ?", reference))
}

func (r *repository) first(query *gorm.DB) (*models.Order, error) {
	var order models.Order
	ok, err := repo.FirstOrNil(query, &order)
	if err != nil || !ok {
		return nil, err
	}
	return &order, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.DB(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// ClaimPaidNotification marks the order as notified unless someone already did.
// Exactly one caller per order observes true.
func (r *repository) ClaimPaidNotification(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.DB(ctx).Model(&models.Order{}).
		Where("id = ? AND paid_notified_at IS NULL", id).
		UpdateColumn("paid_notified_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Order, int64, error) {
	params = params.Normalize()
	query := r.DB(ctx).Model(&models.Order{})

	if len(filters.Statuses) > 0 {
		query = query.Where("status IN ?", filters.Statuses)
	}
	if len(filters.TrackingStatuses) > 0 {
		query = query.Where("tracking_status IN ?", filters.TrackingStatuses)
	}
	if name := strings.TrimSpace(filters.CustomerName); name != "" {
		query = query.Where("LOWER(customer_name) LIKE ?", likePattern(name))
	}
	if email := strings.TrimSpace(filters.CustomerEmail); email != "" {
		query = query.Where("LOWER(customer_email) LIKE ?", likePattern(email))
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if filters.SortAscending {
		order = "created_at ASC"
	}
	var rows []models.Order
	err := query.Order(order).Order("id").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func likePattern(value string) string {
	replacer := strings.NewReplacer(`%`, "", `_`, "")
	return "%" + strings.ToLower(replacer.Replace(value)) + "%"
}
