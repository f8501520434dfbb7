package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     pgtype.Text
	Password  string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type ServiceCategory struct {
	ID          uuid.UUID
	Name        string
	Description pgtype.Text
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type Service struct {
	ID              uuid.UUID
	CategoryID      uuid.UUID
	Name            string
	Description     pgtype.Text
	BasePrice       pgtype.Numeric
	DiscountedPrice pgtype.Numeric
	GstPercentage   pgtype.Numeric
	IsActive        bool
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
}

type CartLine struct {
	ID         uuid.UUID
	OwnerKind  string
	OwnerID    uuid.UUID
	ServiceID  uuid.UUID
	VariantID  uuid.NullUUID
	CategoryID uuid.UUID
	Quantity   int32
	UnitPrice  pgtype.Numeric
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
}

type Coupon struct {
	ID                    uuid.UUID
	Code                  string
	DiscountType          string
	DiscountValue         pgtype.Numeric
	MinimumOrderAmount    pgtype.Numeric
	MaximumDiscountAmount pgtype.Numeric
	ValidFrom             pgtype.Timestamptz
	ValidUntil            pgtype.Timestamptz
	UsageLimit            pgtype.Int4
	UsageLimitPerUser     pgtype.Int4
	UsageCount            int32
	FirstTimeUsersOnly    bool
	ApplicableCategories  []uuid.UUID
	ApplicableServices    []uuid.UUID
	IsActive              bool
	CreatedAt             pgtype.Timestamptz
	UpdatedAt             pgtype.Timestamptz
}

type AppliedCoupon struct {
	OwnerKind      string
	OwnerID        uuid.UUID
	Code           string
	DiscountAmount pgtype.Numeric
	AppliedAt      pgtype.Timestamptz
}
