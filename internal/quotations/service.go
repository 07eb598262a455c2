package quotations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Urbanera/Quotation-sub001/internal/customers"
)

var (
	ErrInvalidStatus        = errors.New("invalid status transition")
	ErrNotEditable          = errors.New("only DRAFT quotations can be modified")
	ErrDiscountExceedsPrice = errors.New("discounted price cannot exceed selling price")
)

// Defaults carries quotation creation defaults sourced from settings,
// injected rather than read from ambient state.
type Defaults struct {
	GlobalDiscount float64
	GSTPercentage  float64
	Terms          *string
	ValidityDays   int
}

// DefaultsProvider supplies quotation defaults, typically the settings service.
type DefaultsProvider interface {
	QuotationDefaults(ctx context.Context) (Defaults, error)
}

// Notifier is notified when a quotation is sent to the customer. Implemented
// by the background job client; may be nil.
type Notifier interface {
	QuotationSent(ctx context.Context, q *Quotation) error
}

type Service struct {
	repo         Repository
	customerRepo customers.Repository
	defaults     DefaultsProvider
	notifier     Notifier
	logger       *slog.Logger
}

func NewService(repo Repository, customerRepo customers.Repository, defaults DefaultsProvider, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		customerRepo: customerRepo,
		defaults:     defaults,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *Service) Create(ctx context.Context, req CreateQuotationRequest) (*Quotation, error) {
	if _, err := s.customerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("verify customer: %w", err)
	}

	defaults, err := s.defaults.QuotationDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	quoteDate := time.Now()
	if req.QuoteDate != nil {
		quoteDate = *req.QuoteDate
	}
	validUntil := quoteDate.AddDate(0, 0, defaults.ValidityDays)
	if req.ValidUntil != nil {
		validUntil = *req.ValidUntil
	}
	if validUntil.Before(quoteDate) {
		return nil, fmt.Errorf("%w: valid_until must be after quote_date", ErrInvalidStatus)
	}

	globalDiscount := defaults.GlobalDiscount
	if req.GlobalDiscount != nil {
		globalDiscount = *req.GlobalDiscount
	}
	gstPercentage := defaults.GSTPercentage
	if req.GSTPercentage != nil {
		gstPercentage = *req.GSTPercentage
	}
	terms := defaults.Terms
	if req.Terms != nil {
		terms = req.Terms
	}

	docNumber, err := s.repo.GenerateNumber(ctx, quoteDate)
	if err != nil {
		return nil, fmt.Errorf("generate doc number: %w", err)
	}

	quotation := Quotation{
		DocNumber:            docNumber,
		CustomerID:           req.CustomerID,
		QuoteDate:            quoteDate,
		ValidUntil:           validUntil,
		Status:               StatusDraft,
		GlobalDiscount:       globalDiscount,
		InstallationHandling: req.InstallationHandling,
		GSTPercentage:        gstPercentage,
		Terms:                terms,
		Notes:                req.Notes,
	}

	var id int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err = repo.Create(ctx, quotation)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateQuotationRequest) (*Quotation, error) {
	if _, err := s.ensureEditable(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.QuoteDate != nil {
		updates["quote_date"] = *req.QuoteDate
	}
	if req.ValidUntil != nil {
		updates["valid_until"] = *req.ValidUntil
	}
	if req.GlobalDiscount != nil {
		updates["global_discount"] = *req.GlobalDiscount
	}
	if req.InstallationHandling != nil {
		updates["installation_handling"] = *req.InstallationHandling
	}
	if req.GSTPercentage != nil {
		updates["gst_percentage"] = *req.GSTPercentage
	}
	if req.Terms != nil {
		updates["terms"] = *req.Terms
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if len(updates) > 0 {
			if err := repo.Update(ctx, id, updates); err != nil {
				return err
			}
		}
		return s.recomputeQuotation(ctx, repo, id)
	})
	if err != nil {
		return nil, fmt.Errorf("update quotation: %w", err)
	}

	return s.repo.Get(ctx, id)
}

// ChangeStatus validates the requested transition against the state machine
// and persists it. On guard failure the quotation is left untouched and the
// returned error carries every collected validation issue.
func (s *Service) ChangeStatus(ctx context.Context, id int64, to QuotationStatus) (*Quotation, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}

	from := q.Status
	if terr := Transition(q, to); terr != nil {
		return nil, terr
	}

	// CAS against the status the guard saw, so a concurrent conversion or
	// another transition cannot be silently overwritten.
	if err := s.repo.UpdateStatus(ctx, id, from, to); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	if to == StatusSent && s.notifier != nil {
		if err := s.notifier.QuotationSent(ctx, q); err != nil {
			s.logger.Warn("enqueue quotation sent notification", slog.Any("error", err))
		}
	}

	return s.repo.Get(ctx, id)
}

// Validate runs the save-gate checks without changing anything.
func (s *Service) Validate(ctx context.Context, id int64) ([]ValidationIssue, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	return ValidateForSave(q), nil
}

// Delete removes a quotation and all of its rooms. Permitted only in DRAFT.
func (s *Service) Delete(ctx context.Context, id int64) error {
	q, err := s.repo.GetHeader(ctx, id)
	if err != nil {
		return fmt.Errorf("get quotation: %w", err)
	}
	if q.Status != StatusDraft {
		return fmt.Errorf("%w: only DRAFT quotations can be deleted", ErrInvalidStatus)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Quotation, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListQuotationsRequest) ([]QuotationWithDetails, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

// ExpireStale marks every SENT quotation whose validity lapsed before now as
// EXPIRED. Used by the background sweep.
func (s *Service) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	stale, err := s.repo.ListExpirable(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list expirable: %w", err)
	}

	expired := 0
	for i := range stale {
		q := stale[i]
		from := q.Status
		if terr := Transition(&q, StatusExpired); terr != nil {
			continue
		}
		err := s.repo.UpdateStatus(ctx, q.ID, from, StatusExpired)
		if errors.Is(err, ErrStatusConflict) {
			// Converted or otherwise moved on since the listing; leave it.
			continue
		}
		if err != nil {
			return expired, fmt.Errorf("expire quotation %d: %w", q.ID, err)
		}
		expired++
	}
	return expired, nil
}

func (s *Service) AddRoom(ctx context.Context, quotationID int64, req RoomRequest) (*Quotation, error) {
	if _, err := s.ensureEditable(ctx, quotationID); err != nil {
		return nil, err
	}

	room := Room{
		QuotationID: quotationID,
		Name:        req.Name,
		Description: req.Description,
		Position:    req.Position,
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if _, err := repo.InsertRoom(ctx, room); err != nil {
			return fmt.Errorf("insert room: %w", err)
		}
		return s.recomputeQuotation(ctx, repo, quotationID)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, quotationID)
}

func (s *Service) UpdateRoom(ctx context.Context, roomID int64, req RoomRequest) (*Quotation, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ensureEditable(ctx, room.QuotationID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":     req.Name,
		"position": req.Position,
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.UpdateRoom(ctx, roomID, updates)
	})
	if err != nil {
		return nil, fmt.Errorf("update room: %w", err)
	}

	return s.repo.Get(ctx, room.QuotationID)
}

func (s *Service) DeleteRoom(ctx context.Context, roomID int64) (*Quotation, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ensureEditable(ctx, room.QuotationID); err != nil {
		return nil, err
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := repo.DeleteRoom(ctx, roomID); err != nil {
			return err
		}
		return s.recomputeQuotation(ctx, repo, room.QuotationID)
	})
	if err != nil {
		return nil, fmt.Errorf("delete room: %w", err)
	}

	return s.repo.Get(ctx, room.QuotationID)
}

func (s *Service) AddProduct(ctx context.Context, roomID int64, req LineItemRequest) (*Quotation, error) {
	if err := validateLineItem(req); err != nil {
		return nil, err
	}
	room, err := s.editableRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	product := Product{
		RoomID:          roomID,
		Name:            req.Name,
		Description:     req.Description,
		Quantity:        req.Quantity,
		SellingPrice:    req.SellingPrice,
		DiscountedPrice: req.DiscountedPrice,
		Position:        req.Position,
	}

	return s.mutateLines(ctx, room, func(ctx context.Context, repo Repository) error {
		_, err := repo.InsertProduct(ctx, product)
		return err
	})
}

func (s *Service) UpdateProduct(ctx context.Context, roomID, productID int64, req LineItemRequest) (*Quotation, error) {
	if err := validateLineItem(req); err != nil {
		return nil, err
	}
	room, err := s.editableRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	product := Product{
		Name:            req.Name,
		Description:     req.Description,
		Quantity:        req.Quantity,
		SellingPrice:    req.SellingPrice,
		DiscountedPrice: req.DiscountedPrice,
		Position:        req.Position,
	}

	return s.mutateLines(ctx, room, func(ctx context.Context, repo Repository) error {
		return repo.UpdateProduct(ctx, room.ID, productID, product)
	})
}

func (s *Service) DeleteProduct(ctx context.Context, roomID, productID int64) (*Quotation, error) {
	room, err := s.editableRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.mutateLines(ctx, room, func(ctx context.Context, repo Repository) error {
		return repo.DeleteProduct(ctx, room.ID, productID)
	})
}

func (s *Service) AddAccessory(ctx context.Context, roomID int64, req LineItemRequest) (*Quotation, error) {
	if err := validateLineItem(req); err != nil {
		return nil, err
	}
	room, err := s.editableRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	accessory := Accessory{
		RoomID:          roomID,
		CatalogItemID:   req.CatalogItemID,
		Name:            req.Name,
		Quantity:        req.Quantity,
		SellingPrice:    req.SellingPrice,
		DiscountedPrice: req.DiscountedPrice,
		Position:        req.Position,
	}

	return s.mutateLines(ctx, room, func(ctx context.Context, repo Repository) error {
		_, err := repo.InsertAccessory(ctx, accessory)
		return err
	})
}

func (s *Service) UpdateAccessory(ctx context.Context, roomID, accessoryID int64, req LineItemRequest) (*Quotation, error) {
	if err := validateLineItem(req); err != nil {
		return nil, err
	}
	room, err := s.editableRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	accessory := Accessory{
		Name:            req.Name,
		Quantity:        req.Quantity,
		SellingPrice:    req.SellingPrice,
		DiscountedPrice: req.DiscountedPrice,
		Position:        req.Position,
	}

	return s.mutateLines(ctx, room, func(ctx context.Context, repo Repository) error {
		return repo.UpdateAccessory(ctx, room.ID, accessoryID, accessory)
	})
}

func (s *Service) DeleteAccessory(ctx context.Context, roomID, accessoryID int64) (*Quotation, error) {
	room, err := s.editableRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.mutateLines(ctx, room, func(ctx context.Context, repo Repository) error {
		return repo.DeleteAccessory(ctx, room.ID, accessoryID)
	})
}

func (s *Service) AddInstallationCharge(ctx context.Context, roomID int64, req InstallationChargeRequest) (*Quotation, error) {
	room, err := s.editableRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	charge := InstallationCharge{
		RoomID:      roomID,
		Description: req.Description,
		Amount:      req.Amount,
	}

	// Installation charges do not feed the room rollup, but keep a single
	// mutation path so quotation totals stay consistent.
	return s.mutateLines(ctx, room, func(ctx context.Context, repo Repository) error {
		_, err := repo.InsertInstallationCharge(ctx, charge)
		return err
	})
}

func (s *Service) DeleteInstallationCharge(ctx context.Context, roomID, chargeID int64) (*Quotation, error) {
	room, err := s.editableRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.mutateLines(ctx, room, func(ctx context.Context, repo Repository) error {
		return repo.DeleteInstallationCharge(ctx, room.ID, chargeID)
	})
}

func (s *Service) AddRoomImage(ctx context.Context, roomID int64, req RoomImageRequest) (*Quotation, error) {
	room, err := s.editableRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	img := RoomImage{RoomID: roomID, URL: req.URL, Caption: req.Caption}
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		_, err := repo.InsertRoomImage(ctx, img)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("add room image: %w", err)
	}
	return s.repo.Get(ctx, room.QuotationID)
}

func (s *Service) DeleteRoomImage(ctx context.Context, roomID, imageID int64) (*Quotation, error) {
	room, err := s.editableRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteRoomImage(ctx, room.ID, imageID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, room.QuotationID)
}

// mutateLines runs fn and the cascading rollup recomputation in one
// transaction: room rollup first, then the quotation header totals.
func (s *Service) mutateLines(ctx context.Context, room *Room, fn func(context.Context, Repository) error) (*Quotation, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if err := fn(ctx, repo); err != nil {
			return err
		}
		if err := s.recomputeRoom(ctx, repo, room.ID); err != nil {
			return err
		}
		return s.recomputeQuotation(ctx, repo, room.QuotationID)
	})
	if err != nil {
		return nil, fmt.Errorf("mutate room %d: %w", room.ID, err)
	}
	return s.repo.Get(ctx, room.QuotationID)
}

func (s *Service) recomputeRoom(ctx context.Context, repo Repository, roomID int64) error {
	room, err := repo.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	return repo.UpdateRoomTotals(ctx, roomID, ComputeRoomTotals(room.Products, room.Accessories))
}

func (s *Service) recomputeQuotation(ctx context.Context, repo Repository, quotationID int64) error {
	q, err := repo.GetHeader(ctx, quotationID)
	if err != nil {
		return err
	}
	rooms, err := repo.ListRooms(ctx, quotationID)
	if err != nil {
		return err
	}
	totals := ComputeQuotationTotals(rooms, q.GlobalDiscount, q.InstallationHandling, q.GSTPercentage)
	return repo.UpdateTotals(ctx, quotationID, totals)
}

func (s *Service) ensureEditable(ctx context.Context, quotationID int64) (*Quotation, error) {
	q, err := s.repo.GetHeader(ctx, quotationID)
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	if q.Status != StatusDraft {
		return nil, ErrNotEditable
	}
	return q, nil
}

func (s *Service) editableRoom(ctx context.Context, roomID int64) (*Room, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ensureEditable(ctx, room.QuotationID); err != nil {
		return nil, err
	}
	return room, nil
}

func validateLineItem(req LineItemRequest) error {
	if req.DiscountedPrice > req.SellingPrice {
		return ErrDiscountExceedsPrice
	}
	return nil
}
