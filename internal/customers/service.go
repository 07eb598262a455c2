package customers

import (
	"context"
	"errors"
	"fmt"
)

var ErrInvalidStage = errors.New("invalid pipeline stage")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	customer := Customer{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		Stage:      StageNew,
		LeadSource: req.LeadSource,
		GSTNumber:  req.GSTNumber,
		IsActive:   true,
		Notes:      req.Notes,
	}

	var id int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		id, err = repo.Create(ctx, customer)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.LeadSource != nil {
		updates["lead_source"] = *req.LeadSource
	}
	if req.GSTNumber != nil {
		updates["gst_number"] = *req.GSTNumber
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) == 0 {
		return existing, nil
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.Update(ctx, id, updates)
	})
	if err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) ChangeStage(ctx context.Context, id int64, stage Stage) (*Customer, error) {
	if !ValidStage(stage) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStage, stage)
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if err := s.repo.UpdateStage(ctx, id, stage); err != nil {
		return nil, fmt.Errorf("update stage: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a customer, unless quotations reference them; referenced
// customers are deactivated instead of hard-deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.CountQuotations(ctx, id)
	if err != nil {
		return fmt.Errorf("count quotations: %w", err)
	}
	if n > 0 {
		err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
			return repo.Update(ctx, id, map[string]interface{}{"is_active": false})
		})
		if err != nil {
			return fmt.Errorf("deactivate customer: %w", err)
		}
		return fmt.Errorf("%w: deactivated instead", ErrReferenced)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

func (s *Service) AddFollowUp(ctx context.Context, customerID int64, req CreateFollowUpRequest) (*FollowUp, error) {
	if _, err := s.repo.Get(ctx, customerID); err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}

	followUp := FollowUp{
		CustomerID:      customerID,
		InteractionType: req.InteractionType,
		Notes:           req.Notes,
		NextFollowUpOn:  req.NextFollowUpOn,
	}
	id, err := s.repo.InsertFollowUp(ctx, followUp)
	if err != nil {
		return nil, fmt.Errorf("insert follow-up: %w", err)
	}
	followUp.ID = id
	return &followUp, nil
}

func (s *Service) ListFollowUps(ctx context.Context, customerID int64) ([]FollowUp, error) {
	return s.repo.ListFollowUps(ctx, customerID)
}

func (s *Service) CompleteFollowUp(ctx context.Context, id int64) error {
	return s.repo.CompleteFollowUp(ctx, id)
}

// DueFollowUps lists incomplete follow-ups whose reminder date has passed.
// Used by the background reminder job.
func (s *Service) DueFollowUps(ctx context.Context) ([]FollowUp, error) {
	return s.repo.ListDueFollowUps(ctx)
}
