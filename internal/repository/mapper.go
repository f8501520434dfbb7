package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	cartResponse "github.com/servease/servease/cart/pkg/response"
	catalogResponse "github.com/servease/servease/catalog/pkg/response"
	userResponse "github.com/servease/servease/user/pkg/response"
)

func NumericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		Int:              d.Coefficient(),
		NaN:              false,
		Valid:            true,
	}
}

func DecimalFromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func (s Service) Response() catalogResponse.Service {
	var discounted *decimal.Decimal
	if s.DiscountedPrice.Valid {
		d := DecimalFromNumeric(s.DiscountedPrice)
		discounted = &d
	}
	return catalogResponse.Service{
		ID:              s.ID,
		CategoryId:      s.CategoryID,
		Name:            s.Name,
		Description:     s.Description.String,
		BasePrice:       DecimalFromNumeric(s.BasePrice),
		DiscountedPrice: discounted,
		GstPercentage:   DecimalFromNumeric(s.GstPercentage),
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt.Time,
		UpdatedAt:       s.UpdatedAt.Time,
	}
}

func (s ServiceCategory) Response() catalogResponse.Category {
	return catalogResponse.Category{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description.String,
		CreatedAt:   s.CreatedAt.Time,
		UpdatedAt:   s.UpdatedAt.Time,
	}
}

func (cpn Coupon) Response() catalogResponse.Coupon {
	var maxDiscount *decimal.Decimal
	if cpn.MaximumDiscountAmount.Valid {
		d := DecimalFromNumeric(cpn.MaximumDiscountAmount)
		maxDiscount = &d
	}
	var usageLimit, usageLimitPerUser *int32
	if cpn.UsageLimit.Valid {
		usageLimit = &cpn.UsageLimit.Int32
	}
	if cpn.UsageLimitPerUser.Valid {
		usageLimitPerUser = &cpn.UsageLimitPerUser.Int32
	}
	return catalogResponse.Coupon{
		ID:                    cpn.ID,
		Code:                  cpn.Code,
		DiscountType:          cpn.DiscountType,
		DiscountValue:         DecimalFromNumeric(cpn.DiscountValue),
		MinimumOrderAmount:    DecimalFromNumeric(cpn.MinimumOrderAmount),
		MaximumDiscountAmount: maxDiscount,
		ValidFrom:             cpn.ValidFrom.Time,
		ValidUntil:            cpn.ValidUntil.Time,
		UsageLimit:            usageLimit,
		UsageLimitPerUser:     usageLimitPerUser,
		UsageCount:            cpn.UsageCount,
		FirstTimeUsersOnly:    cpn.FirstTimeUsersOnly,
		ApplicableCategories:  cpn.ApplicableCategories,
		ApplicableServices:    cpn.ApplicableServices,
		IsActive:              cpn.IsActive,
	}
}

func (cl CartLine) Response() cartResponse.CartLine {
	var variantId *uuid.UUID
	if cl.VariantID.Valid {
		v := cl.VariantID.UUID
		variantId = &v
	}
	unitPrice := DecimalFromNumeric(cl.UnitPrice)
	return cartResponse.CartLine{
		ID:         cl.ID,
		ServiceId:  cl.ServiceID,
		VariantId:  variantId,
		CategoryId: cl.CategoryID,
		Quantity:   cl.Quantity,
		UnitPrice:  unitPrice,
		LineTotal:  unitPrice.Mul(decimal.NewFromInt32(cl.Quantity)),
		CreatedAt:  cl.CreatedAt.Time,
	}
}

func (cl FindCartLineDetailsByOwnerRow) Response() cartResponse.CartLine {
	var variantId *uuid.UUID
	if cl.VariantID.Valid {
		v := cl.VariantID.UUID
		variantId = &v
	}
	unitPrice := DecimalFromNumeric(cl.UnitPrice)
	return cartResponse.CartLine{
		ID:         cl.ID,
		ServiceId:  cl.ServiceID,
		VariantId:  variantId,
		CategoryId: cl.CategoryID,
		Quantity:   cl.Quantity,
		UnitPrice:  unitPrice,
		LineTotal:  unitPrice.Mul(decimal.NewFromInt32(cl.Quantity)),
		CreatedAt:  cl.CreatedAt.Time,
	}
}

func (u User) Response() userResponse.User {
	return userResponse.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone.String,
		CreatedAt: u.CreatedAt.Time,
	}
}
