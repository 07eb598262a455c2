package settings

import (
	"context"

	"github.com/Urbanera/Quotation-sub001/internal/quotations"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (*Settings, error) {
	return s.repo.Get(ctx)
}

func (s *Service) Update(ctx context.Context, req UpdateSettingsRequest) (*Settings, error) {
	updates := make(map[string]interface{})
	if req.CompanyName != nil {
		updates["company_name"] = *req.CompanyName
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.GSTNumber != nil {
		updates["gst_number"] = *req.GSTNumber
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.CurrencyCode != nil {
		updates["currency_code"] = *req.CurrencyCode
	}
	if req.DefaultGlobalDiscount != nil {
		updates["default_global_discount"] = *req.DefaultGlobalDiscount
	}
	if req.DefaultGSTPercentage != nil {
		updates["default_gst_percentage"] = *req.DefaultGSTPercentage
	}
	if req.DefaultTerms != nil {
		updates["default_terms"] = *req.DefaultTerms
	}
	if req.QuotationValidityDays != nil {
		updates["quotation_validity_days"] = *req.QuotationValidityDays
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx)
}

// QuotationDefaults satisfies the quotation service's defaults dependency.
func (s *Service) QuotationDefaults(ctx context.Context) (quotations.Defaults, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		return quotations.Defaults{}, err
	}
	return quotations.Defaults{
		GlobalDiscount: row.DefaultGlobalDiscount,
		GSTPercentage:  row.DefaultGSTPercentage,
		Terms:          row.DefaultTerms,
		ValidityDays:   row.QuotationValidityDays,
	}, nil
}
