package orders

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ErrInvalidStatus signals a transition outside the fulfilment chain.
type ErrInvalidStatus struct {
	From SalesOrderStatus
	To   SalesOrderStatus
}

func (e *ErrInvalidStatus) Error() string {
	return fmt.Sprintf("sales order cannot move from %s to %s", e.From, e.To)
}

func (s *Service) Get(ctx context.Context, id int64) (*SalesOrder, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListSalesOrdersRequest) ([]SalesOrderWithDetails, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateSalesOrderRequest) (*SalesOrder, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status.terminal() {
		return nil, &ErrInvalidStatus{From: existing.Status, To: existing.Status}
	}

	updates := make(map[string]interface{})
	if req.ExpectedDeliveryDate != nil {
		updates["expected_delivery_date"] = *req.ExpectedDeliveryDate
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) ChangeStatus(ctx context.Context, id int64, to SalesOrderStatus) (*SalesOrder, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Status.CanTransition(to) {
		return nil, &ErrInvalidStatus{From: existing.Status, To: to}
	}
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}
