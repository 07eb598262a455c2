package quotations

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urbanera/Quotation-sub001/internal/customers"
)

type fakeRepository struct {
	quotations map[int64]*Quotation
	rooms      map[int64]*Room
	products   map[int64]*Product
	accs       map[int64]*Accessory
	charges    map[int64]*InstallationCharge
	images     map[int64]*RoomImage
	nextID     int64
	seq        int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		quotations: make(map[int64]*Quotation),
		rooms:      make(map[int64]*Room),
		products:   make(map[int64]*Product),
		accs:       make(map[int64]*Accessory),
		charges:    make(map[int64]*InstallationCharge),
		images:     make(map[int64]*RoomImage),
	}
}

func (f *fakeRepository) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, f)
}

func (f *fakeRepository) Get(ctx context.Context, id int64) (*Quotation, error) {
	q, ok := f.quotations[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *q
	out.Rooms = nil
	rooms, _ := f.ListRooms(ctx, id)
	for i := range rooms {
		room, _ := f.GetRoom(ctx, rooms[i].ID)
		out.Rooms = append(out.Rooms, *room)
	}
	return &out, nil
}

func (f *fakeRepository) GetHeader(ctx context.Context, id int64) (*Quotation, error) {
	q, ok := f.quotations[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *q
	out.Rooms = nil
	return &out, nil
}

func (f *fakeRepository) List(ctx context.Context, req ListQuotationsRequest) ([]QuotationWithDetails, int, error) {
	var out []QuotationWithDetails
	for _, q := range f.quotations {
		if req.Status != nil && q.Status != *req.Status {
			continue
		}
		out = append(out, QuotationWithDetails{Quotation: *q})
	}
	return out, len(out), nil
}

func (f *fakeRepository) ListExpirable(ctx context.Context, before time.Time) ([]Quotation, error) {
	var out []Quotation
	for _, q := range f.quotations {
		if (q.Status == StatusSent || q.Status == StatusApproved) && q.ValidUntil.Before(before) {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeRepository) Create(ctx context.Context, q Quotation) (int64, error) {
	q.ID = f.id()
	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	f.quotations[q.ID] = &q
	return q.ID, nil
}

func (f *fakeRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	q, ok := f.quotations[id]
	if !ok {
		return ErrNotFound
	}
	for col, v := range updates {
		switch col {
		case "quote_date":
			q.QuoteDate = v.(time.Time)
		case "valid_until":
			q.ValidUntil = v.(time.Time)
		case "global_discount":
			q.GlobalDiscount = v.(float64)
		case "installation_handling":
			q.InstallationHandling = v.(float64)
		case "gst_percentage":
			q.GSTPercentage = v.(float64)
		case "terms":
			s := v.(string)
			q.Terms = &s
		case "notes":
			s := v.(string)
			q.Notes = &s
		}
	}
	return nil
}

func (f *fakeRepository) UpdateStatus(ctx context.Context, id int64, from, to QuotationStatus) error {
	q, ok := f.quotations[id]
	if !ok {
		return ErrNotFound
	}
	if q.Status != from {
		return ErrStatusConflict
	}
	q.Status = to
	return nil
}

func (f *fakeRepository) UpdateTotals(ctx context.Context, id int64, totals QuotationTotals) error {
	q, ok := f.quotations[id]
	if !ok {
		return ErrNotFound
	}
	q.TotalSellingPrice = totals.TotalSellingPrice
	q.TotalDiscountedPrice = totals.TotalDiscountedPrice
	q.GSTAmount = totals.GSTAmount
	q.FinalPrice = totals.FinalPrice
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := f.quotations[id]; !ok {
		return ErrNotFound
	}
	delete(f.quotations, id)
	return nil
}

func (f *fakeRepository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	f.seq++
	return fmt.Sprintf("QT-%s-%04d", date.Format("200601"), f.seq), nil
}

func (f *fakeRepository) GetRoom(ctx context.Context, roomID int64) (*Room, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	out := *room
	out.Products, out.Accessories = nil, nil
	out.InstallationCharges, out.Images = nil, nil
	for _, p := range f.products {
		if p.RoomID == roomID {
			out.Products = append(out.Products, *p)
		}
	}
	for _, a := range f.accs {
		if a.RoomID == roomID {
			out.Accessories = append(out.Accessories, *a)
		}
	}
	for _, c := range f.charges {
		if c.RoomID == roomID {
			out.InstallationCharges = append(out.InstallationCharges, *c)
		}
	}
	for _, img := range f.images {
		if img.RoomID == roomID {
			out.Images = append(out.Images, *img)
		}
	}
	return &out, nil
}

func (f *fakeRepository) ListRooms(ctx context.Context, quotationID int64) ([]Room, error) {
	var out []Room
	for _, room := range f.rooms {
		if room.QuotationID == quotationID {
			out = append(out, *room)
		}
	}
	return out, nil
}

func (f *fakeRepository) InsertRoom(ctx context.Context, room Room) (int64, error) {
	room.ID = f.id()
	f.rooms[room.ID] = &room
	return room.ID, nil
}

func (f *fakeRepository) UpdateRoom(ctx context.Context, roomID int64, updates map[string]interface{}) error {
	room, ok := f.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	for col, v := range updates {
		switch col {
		case "name":
			room.Name = v.(string)
		case "position":
			room.Position = v.(int)
		case "description":
			s := v.(string)
			room.Description = &s
		}
	}
	return nil
}

func (f *fakeRepository) UpdateRoomTotals(ctx context.Context, roomID int64, totals RoomTotals) error {
	room, ok := f.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	room.SellingPrice = totals.SellingPrice
	room.DiscountedPrice = totals.DiscountedPrice
	return nil
}

func (f *fakeRepository) DeleteRoom(ctx context.Context, roomID int64) error {
	if _, ok := f.rooms[roomID]; !ok {
		return ErrRoomNotFound
	}
	delete(f.rooms, roomID)
	for id, p := range f.products {
		if p.RoomID == roomID {
			delete(f.products, id)
		}
	}
	for id, a := range f.accs {
		if a.RoomID == roomID {
			delete(f.accs, id)
		}
	}
	return nil
}

func (f *fakeRepository) InsertProduct(ctx context.Context, p Product) (int64, error) {
	p.ID = f.id()
	f.products[p.ID] = &p
	return p.ID, nil
}

func (f *fakeRepository) UpdateProduct(ctx context.Context, roomID, id int64, p Product) error {
	existing, ok := f.products[id]
	if !ok || existing.RoomID != roomID {
		return ErrLineNotFound
	}
	p.ID = id
	p.RoomID = existing.RoomID
	f.products[id] = &p
	return nil
}

func (f *fakeRepository) DeleteProduct(ctx context.Context, roomID, id int64) error {
	p, ok := f.products[id]
	if !ok || p.RoomID != roomID {
		return ErrLineNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeRepository) InsertAccessory(ctx context.Context, a Accessory) (int64, error) {
	a.ID = f.id()
	f.accs[a.ID] = &a
	return a.ID, nil
}

func (f *fakeRepository) UpdateAccessory(ctx context.Context, roomID, id int64, a Accessory) error {
	existing, ok := f.accs[id]
	if !ok || existing.RoomID != roomID {
		return ErrLineNotFound
	}
	a.ID = id
	a.RoomID = existing.RoomID
	f.accs[id] = &a
	return nil
}

func (f *fakeRepository) DeleteAccessory(ctx context.Context, roomID, id int64) error {
	a, ok := f.accs[id]
	if !ok || a.RoomID != roomID {
		return ErrLineNotFound
	}
	delete(f.accs, id)
	return nil
}

func (f *fakeRepository) InsertInstallationCharge(ctx context.Context, c InstallationCharge) (int64, error) {
	c.ID = f.id()
	f.charges[c.ID] = &c
	return c.ID, nil
}

func (f *fakeRepository) DeleteInstallationCharge(ctx context.Context, roomID, id int64) error {
	c, ok := f.charges[id]
	if !ok || c.RoomID != roomID {
		return ErrLineNotFound
	}
	delete(f.charges, id)
	return nil
}

func (f *fakeRepository) InsertRoomImage(ctx context.Context, img RoomImage) (int64, error) {
	img.ID = f.id()
	f.images[img.ID] = &img
	return img.ID, nil
}

func (f *fakeRepository) DeleteRoomImage(ctx context.Context, roomID, id int64) error {
	img, ok := f.images[id]
	if !ok || img.RoomID != roomID {
		return ErrLineNotFound
	}
	delete(f.images, id)
	return nil
}

type fakeCustomerRepo struct {
	customers map[int64]*customers.Customer
}

func (f *fakeCustomerRepo) WithTx(ctx context.Context, fn func(context.Context, customers.Repository) error) error {
	return fn(ctx, f)
}

func (f *fakeCustomerRepo) Get(ctx context.Context, id int64) (*customers.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, customers.ErrNotFound
	}
	return c, nil
}

func (f *fakeCustomerRepo) List(ctx context.Context, req customers.ListCustomersRequest) ([]customers.Customer, int, error) {
	return nil, 0, nil
}

func (f *fakeCustomerRepo) Create(ctx context.Context, c customers.Customer) (int64, error) {
	return 0, nil
}

func (f *fakeCustomerRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	return nil
}

func (f *fakeCustomerRepo) UpdateStage(ctx context.Context, id int64, stage customers.Stage) error {
	return nil
}

func (f *fakeCustomerRepo) CountQuotations(ctx context.Context, id int64) (int, error) {
	return 0, nil
}

func (f *fakeCustomerRepo) Delete(ctx context.Context, id int64) error { return nil }

func (f *fakeCustomerRepo) InsertFollowUp(ctx context.Context, fu customers.FollowUp) (int64, error) {
	return 0, nil
}

func (f *fakeCustomerRepo) ListFollowUps(ctx context.Context, customerID int64) ([]customers.FollowUp, error) {
	return nil, nil
}

func (f *fakeCustomerRepo) ListDueFollowUps(ctx context.Context) ([]customers.FollowUp, error) {
	return nil, nil
}

func (f *fakeCustomerRepo) CompleteFollowUp(ctx context.Context, id int64) error { return nil }

type staticDefaults struct{}

func (staticDefaults) QuotationDefaults(ctx context.Context) (Defaults, error) {
	return Defaults{GlobalDiscount: 0, GSTPercentage: 18, ValidityDays: 30}, nil
}

type recordingNotifier struct {
	sent []int64
}

func (n *recordingNotifier) QuotationSent(ctx context.Context, q *Quotation) error {
	n.sent = append(n.sent, q.ID)
	return nil
}

func newTestService() (*Service, *fakeRepository, *recordingNotifier) {
	repo := newFakeRepository()
	custRepo := &fakeCustomerRepo{customers: map[int64]*customers.Customer{
		1: {ID: 1, Name: "Asha Verma"},
	}}
	notifier := &recordingNotifier{}
	svc := NewService(repo, custRepo, staticDefaults{}, notifier, slog.Default())
	return svc, repo, notifier
}

func buildSaveableQuotation(t *testing.T, svc *Service) *Quotation {
	t.Helper()
	ctx := context.Background()

	q, err := svc.Create(ctx, CreateQuotationRequest{CustomerID: 1, InstallationHandling: 500})
	require.NoError(t, err)

	q, err = svc.AddRoom(ctx, q.ID, RoomRequest{Name: "Living Room"})
	require.NoError(t, err)
	roomID := q.Rooms[0].ID

	q, err = svc.AddProduct(ctx, roomID, LineItemRequest{
		Name: "TV Unit", Quantity: 1, SellingPrice: 10000, DiscountedPrice: 9000,
	})
	require.NoError(t, err)
	q, err = svc.AddAccessory(ctx, roomID, LineItemRequest{
		Name: "Handles", Quantity: 4, SellingPrice: 250, DiscountedPrice: 250,
	})
	require.NoError(t, err)
	q, err = svc.AddInstallationCharge(ctx, roomID, InstallationChargeRequest{
		Description: "carpentry", Amount: 1200,
	})
	require.NoError(t, err)
	return q
}

func TestCreateQuotationAppliesDefaults(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	q, err := svc.Create(ctx, CreateQuotationRequest{CustomerID: 1, InstallationHandling: 500})
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, q.Status)
	assert.Equal(t, 18.0, q.GSTPercentage)
	assert.Contains(t, q.DocNumber, "QT-")
	assert.Equal(t, q.QuoteDate.AddDate(0, 0, 30).Format("2006-01-02"), q.ValidUntil.Format("2006-01-02"))
}

func TestCreateQuotationUnknownCustomer(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateQuotationRequest{CustomerID: 99})
	require.ErrorIs(t, err, customers.ErrNotFound)
}

func TestLineMutationsRecomputeTotals(t *testing.T) {
	svc, _, _ := newTestService()
	q := buildSaveableQuotation(t, svc)

	// product 1x9000 + accessory 4x250 = 10000 discounted; +500 handling,
	// 18% GST on 10500.
	require.Len(t, q.Rooms, 1)
	assert.InDelta(t, 11000.0, q.Rooms[0].SellingPrice, 1e-9)
	assert.InDelta(t, 10000.0, q.Rooms[0].DiscountedPrice, 1e-9)
	assert.InDelta(t, 10000.0, q.TotalDiscountedPrice, 1e-9)
	assert.InDelta(t, 1890.0, q.GSTAmount, 1e-9)
	assert.InDelta(t, 12390.0, q.FinalPrice, 1e-9)
}

func TestDeleteProductRecomputesTotals(t *testing.T) {
	svc, _, _ := newTestService()
	q := buildSaveableQuotation(t, svc)
	roomID := q.Rooms[0].ID
	productID := q.Rooms[0].Products[0].ID

	q, err := svc.DeleteProduct(context.Background(), roomID, productID)
	require.NoError(t, err)

	assert.InDelta(t, 1000.0, q.Rooms[0].DiscountedPrice, 1e-9)
	assert.InDelta(t, 1770.0, q.FinalPrice, 1e-9)
}

func TestAddProductRejectsDiscountAboveSellingPrice(t *testing.T) {
	svc, _, _ := newTestService()
	q := buildSaveableQuotation(t, svc)

	_, err := svc.AddProduct(context.Background(), q.Rooms[0].ID, LineItemRequest{
		Name: "Shelf", Quantity: 1, SellingPrice: 100, DiscountedPrice: 150,
	})
	require.ErrorIs(t, err, ErrDiscountExceedsPrice)
}

func TestChangeStatusRunsSaveGate(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	q, err := svc.Create(ctx, CreateQuotationRequest{CustomerID: 1, InstallationHandling: 500})
	require.NoError(t, err)
	q, err = svc.AddRoom(ctx, q.ID, RoomRequest{Name: "Kitchen"})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, q.ID, StatusSaved)
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.NotEmpty(t, terr.Issues)

	got, err := svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, got.Status)
}

func TestChangeStatusSentNotifies(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()
	q := buildSaveableQuotation(t, svc)

	q, err := svc.ChangeStatus(ctx, q.ID, StatusSaved)
	require.NoError(t, err)
	q, err = svc.ChangeStatus(ctx, q.ID, StatusSent)
	require.NoError(t, err)

	assert.Equal(t, StatusSent, q.Status)
	assert.Equal(t, []int64{q.ID}, notifier.sent)
}

func TestEditLockedOutsideDraft(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	q := buildSaveableQuotation(t, svc)

	_, err := svc.ChangeStatus(ctx, q.ID, StatusSaved)
	require.NoError(t, err)

	_, err = svc.AddRoom(ctx, q.ID, RoomRequest{Name: "Balcony"})
	require.ErrorIs(t, err, ErrNotEditable)

	_, err = svc.AddProduct(ctx, q.Rooms[0].ID, LineItemRequest{
		Name: "Shelf", Quantity: 1, SellingPrice: 100, DiscountedPrice: 90,
	})
	require.ErrorIs(t, err, ErrNotEditable)
}

func TestDeleteOnlyInDraft(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	q := buildSaveableQuotation(t, svc)

	_, err := svc.ChangeStatus(ctx, q.ID, StatusSaved)
	require.NoError(t, err)

	err = svc.Delete(ctx, q.ID)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestExpireStale(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	now := time.Now()

	repo.quotations[100] = &Quotation{ID: 100, Status: StatusSent, ValidUntil: now.AddDate(0, 0, -1)}
	repo.quotations[101] = &Quotation{ID: 101, Status: StatusSent, ValidUntil: now.AddDate(0, 0, 5)}
	repo.quotations[102] = &Quotation{ID: 102, Status: StatusDraft, ValidUntil: now.AddDate(0, 0, -10)}

	expired, err := svc.ExpireStale(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 1, expired)
	assert.Equal(t, StatusExpired, repo.quotations[100].Status)
	assert.Equal(t, StatusSent, repo.quotations[101].Status)
	assert.Equal(t, StatusDraft, repo.quotations[102].Status)
}

type statusFlippingRepo struct {
	*fakeRepository
	flipTo QuotationStatus
	armed  bool
}

func (r *statusFlippingRepo) Get(ctx context.Context, id int64) (*Quotation, error) {
	q, err := r.fakeRepository.Get(ctx, id)
	if err == nil && r.armed {
		r.armed = false
		r.quotations[id].Status = r.flipTo
	}
	return q, err
}

func (r *statusFlippingRepo) ListExpirable(ctx context.Context, before time.Time) ([]Quotation, error) {
	stale, err := r.fakeRepository.ListExpirable(ctx, before)
	if err == nil && r.armed {
		r.armed = false
		for i := range stale {
			r.quotations[stale[i].ID].Status = r.flipTo
		}
	}
	return stale, err
}

func TestChangeStatusLosesRaceToConversion(t *testing.T) {
	repo := newFakeRepository()
	custRepo := &fakeCustomerRepo{customers: map[int64]*customers.Customer{
		1: {ID: 1, Name: "Asha Verma"},
	}}
	racing := &statusFlippingRepo{fakeRepository: repo, flipTo: StatusConverted}
	svc := NewService(racing, custRepo, staticDefaults{}, &recordingNotifier{}, slog.Default())
	ctx := context.Background()

	q := buildSaveableQuotation(t, svc)
	_, err := svc.ChangeStatus(ctx, q.ID, StatusSaved)
	require.NoError(t, err)

	// Another writer converts the quotation between the guard's read and
	// the status write.
	racing.armed = true
	_, err = svc.ChangeStatus(ctx, q.ID, StatusApproved)

	require.ErrorIs(t, err, ErrStatusConflict)
	assert.Equal(t, StatusConverted, repo.quotations[q.ID].Status)
}

func TestExpireStaleSkipsConcurrentlyConverted(t *testing.T) {
	repo := newFakeRepository()
	custRepo := &fakeCustomerRepo{customers: map[int64]*customers.Customer{
		1: {ID: 1, Name: "Asha Verma"},
	}}
	racing := &statusFlippingRepo{fakeRepository: repo, flipTo: StatusConverted}
	svc := NewService(racing, custRepo, staticDefaults{}, &recordingNotifier{}, slog.Default())
	now := time.Now()

	repo.quotations[100] = &Quotation{ID: 100, Status: StatusSent, ValidUntil: now.AddDate(0, 0, -1)}

	// The flip lands after the expirable listing handed out a stale copy.
	racing.armed = true
	expired, err := svc.ExpireStale(context.Background(), now)

	require.NoError(t, err)
	assert.Zero(t, expired)
	assert.Equal(t, StatusConverted, repo.quotations[100].Status)
}

func TestDeleteProductScopedToRoom(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	q := buildSaveableQuotation(t, svc)
	livingRoomID := q.Rooms[0].ID

	q, err := svc.AddRoom(ctx, q.ID, RoomRequest{Name: "Kitchen"})
	require.NoError(t, err)
	var kitchenID int64
	for _, r := range q.Rooms {
		if r.Name == "Kitchen" {
			kitchenID = r.ID
		}
	}
	q, err = svc.AddProduct(ctx, kitchenID, LineItemRequest{
		Name: "Island Counter", Quantity: 1, SellingPrice: 20000, DiscountedPrice: 18000,
	})
	require.NoError(t, err)

	var kitchenProductID int64
	for _, r := range q.Rooms {
		if r.ID == kitchenID {
			kitchenProductID = r.Products[0].ID
		}
	}
	before := q.FinalPrice

	_, err = svc.DeleteProduct(ctx, livingRoomID, kitchenProductID)
	require.ErrorIs(t, err, ErrLineNotFound)

	got, err := svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, before, got.FinalPrice)
	for _, r := range got.Rooms {
		if r.ID == kitchenID {
			require.Len(t, r.Products, 1)
			totals := ComputeRoomTotals(r.Products, r.Accessories)
			assert.Equal(t, totals.DiscountedPrice, r.DiscountedPrice)
		}
	}
}

func TestUpdateAccessoryScopedToRoom(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	q := buildSaveableQuotation(t, svc)
	livingRoomID := q.Rooms[0].ID
	accessoryID := q.Rooms[0].Accessories[0].ID

	q, err := svc.AddRoom(ctx, q.ID, RoomRequest{Name: "Kitchen"})
	require.NoError(t, err)
	var kitchenID int64
	for _, r := range q.Rooms {
		if r.Name == "Kitchen" {
			kitchenID = r.ID
		}
	}

	_, err = svc.UpdateAccessory(ctx, kitchenID, accessoryID, LineItemRequest{
		Name: "Handles", Quantity: 10, SellingPrice: 250, DiscountedPrice: 250,
	})
	require.ErrorIs(t, err, ErrLineNotFound)

	got, err := svc.Get(ctx, q.ID)
	require.NoError(t, err)
	for _, r := range got.Rooms {
		if r.ID == livingRoomID {
			assert.Equal(t, 4.0, r.Accessories[0].Quantity)
		}
	}
}
