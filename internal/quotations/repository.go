package quotations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Urbanera/Quotation-sub001/internal/platform/db"
)

var (
	ErrNotFound       = errors.New("quotation not found")
	ErrRoomNotFound   = errors.New("room not found")
	ErrLineNotFound   = errors.New("line item not found")
	ErrStatusConflict = errors.New("quotation status changed concurrently")
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error

	Get(ctx context.Context, id int64) (*Quotation, error)
	GetHeader(ctx context.Context, id int64) (*Quotation, error)
	List(ctx context.Context, req ListQuotationsRequest) ([]QuotationWithDetails, int, error)
	ListExpirable(ctx context.Context, before time.Time) ([]Quotation, error)
	Create(ctx context.Context, q Quotation) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	UpdateStatus(ctx context.Context, id int64, from, to QuotationStatus) error
	UpdateTotals(ctx context.Context, id int64, totals QuotationTotals) error
	Delete(ctx context.Context, id int64) error
	GenerateNumber(ctx context.Context, date time.Time) (string, error)

	GetRoom(ctx context.Context, roomID int64) (*Room, error)
	ListRooms(ctx context.Context, quotationID int64) ([]Room, error)
	InsertRoom(ctx context.Context, room Room) (int64, error)
	UpdateRoom(ctx context.Context, roomID int64, updates map[string]interface{}) error
	UpdateRoomTotals(ctx context.Context, roomID int64, totals RoomTotals) error
	DeleteRoom(ctx context.Context, roomID int64) error

	InsertProduct(ctx context.Context, p Product) (int64, error)
	UpdateProduct(ctx context.Context, roomID, id int64, p Product) error
	DeleteProduct(ctx context.Context, roomID, id int64) error
	InsertAccessory(ctx context.Context, a Accessory) (int64, error)
	UpdateAccessory(ctx context.Context, roomID, id int64, a Accessory) error
	DeleteAccessory(ctx context.Context, roomID, id int64) error
	InsertInstallationCharge(ctx context.Context, c InstallationCharge) (int64, error)
	DeleteInstallationCharge(ctx context.Context, roomID, id int64) error
	InsertRoomImage(ctx context.Context, img RoomImage) (int64, error)
	DeleteRoomImage(ctx context.Context, roomID, id int64) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const quotationColumns = `id, doc_number, customer_id, quote_date, valid_until, status,
	global_discount, installation_handling, gst_percentage,
	total_selling_price, total_discounted_price, gst_amount, final_price,
	terms, notes, created_at, updated_at`

func scanQuotation(row pgx.Row) (*Quotation, error) {
	var q Quotation
	err := row.Scan(
		&q.ID, &q.DocNumber, &q.CustomerID, &q.QuoteDate, &q.ValidUntil, &q.Status,
		&q.GlobalDiscount, &q.InstallationHandling, &q.GSTPercentage,
		&q.TotalSellingPrice, &q.TotalDiscountedPrice, &q.GSTAmount, &q.FinalPrice,
		&q.Terms, &q.Notes, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) GetHeader(ctx context.Context, id int64) (*Quotation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, id)
	return scanQuotation(row)
}

func (r *repository) Get(ctx context.Context, id int64) (*Quotation, error) {
	q, err := r.GetHeader(ctx, id)
	if err != nil {
		return nil, err
	}

	rooms, err := r.ListRooms(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		if err := r.loadRoomChildren(ctx, &rooms[i]); err != nil {
			return nil, err
		}
	}
	q.Rooms = rooms
	return q, nil
}

func (r *repository) List(ctx context.Context, req ListQuotationsRequest) ([]QuotationWithDetails, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("q.customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("q.status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("q.quote_date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("q.quote_date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	whereClause := ""
	for i, cond := range conditions {
		if i == 0 {
			whereClause = "WHERE " + cond
		} else {
			whereClause += " AND " + cond
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM quotations q %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT q.id, q.doc_number, q.customer_id, q.quote_date, q.valid_until, q.status,
		       q.global_discount, q.installation_handling, q.gst_percentage,
		       q.total_selling_price, q.total_discounted_price, q.gst_amount, q.final_price,
		       q.terms, q.notes, q.created_at, q.updated_at,
		       c.name AS customer_name, c.email AS customer_email
		FROM quotations q
		JOIN customers c ON q.customer_id = c.id
		%s
		ORDER BY q.quote_date DESC, q.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []QuotationWithDetails
	for rows.Next() {
		var q QuotationWithDetails
		err := rows.Scan(
			&q.ID, &q.DocNumber, &q.CustomerID, &q.QuoteDate, &q.ValidUntil, &q.Status,
			&q.GlobalDiscount, &q.InstallationHandling, &q.GSTPercentage,
			&q.TotalSellingPrice, &q.TotalDiscountedPrice, &q.GSTAmount, &q.FinalPrice,
			&q.Terms, &q.Notes, &q.CreatedAt, &q.UpdatedAt,
			&q.CustomerName, &q.CustomerEmail,
		)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, q)
	}
	return out, total, rows.Err()
}

func (r *repository) ListExpirable(ctx context.Context, before time.Time) ([]Quotation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+quotationColumns+` FROM quotations WHERE status = $1 AND valid_until < $2`,
		StatusSent, before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, q Quotation) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO quotations (doc_number, customer_id, quote_date, valid_until, status,
			global_discount, installation_handling, gst_percentage,
			total_selling_price, total_discounted_price, gst_amount, final_price,
			terms, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`, q.DocNumber, q.CustomerID, q.QuoteDate, q.ValidUntil, q.Status,
		q.GlobalDiscount, q.InstallationHandling, q.GSTPercentage,
		q.TotalSellingPrice, q.TotalDiscountedPrice, q.GSTAmount, q.FinalPrice,
		q.Terms, q.Notes).Scan(&id)
	return id, err
}

var quotationUpdateColumns = []string{
	"quote_date", "valid_until", "global_discount", "installation_handling",
	"gst_percentage", "terms", "notes",
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE quotations SET updated_at = NOW()"
	var args []interface{}
	argPos := 1

	for _, col := range quotationUpdateColumns {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus flips the status only if the row still holds from. A zero
// row count means another writer got there first, most likely a conversion.
func (r *repository) UpdateStatus(ctx context.Context, id int64, from, to QuotationStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE quotations SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		to, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (r *repository) UpdateTotals(ctx context.Context, id int64, totals QuotationTotals) error {
	_, err := r.db.Exec(ctx, `
		UPDATE quotations
		SET total_selling_price = $1, total_discounted_price = $2,
		    gst_amount = $3, final_price = $4, updated_at = NOW()
		WHERE id = $5
	`, totals.TotalSellingPrice, totals.TotalDiscountedPrice, totals.GSTAmount, totals.FinalPrice, id)
	return err
}

// Delete removes a quotation. Rooms and their children cascade at the
// schema level.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	var seq int64
	period := date.Format("200601")
	err := r.db.QueryRow(ctx, `
		INSERT INTO document_sequences (doc_type, period, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, period)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq
	`, "QT", period).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("QT-%s-%04d", date.Format("0601"), seq), nil
}

const roomColumns = `id, quotation_id, name, description, selling_price, discounted_price, position, created_at, updated_at`

func scanRoom(row pgx.Row) (*Room, error) {
	var room Room
	err := row.Scan(&room.ID, &room.QuotationID, &room.Name, &room.Description,
		&room.SellingPrice, &room.DiscountedPrice, &room.Position, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *repository) GetRoom(ctx context.Context, roomID int64) (*Room, error) {
	room, err := scanRoom(r.db.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, roomID))
	if err != nil {
		return nil, err
	}
	if err := r.loadRoomChildren(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (r *repository) ListRooms(ctx context.Context, quotationID int64) ([]Room, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE quotation_id = $1 ORDER BY position, id`, quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

func (r *repository) loadRoomChildren(ctx context.Context, room *Room) error {
	prodRows, err := r.db.Query(ctx, `
		SELECT id, room_id, name, description, quantity, selling_price, discounted_price, position, created_at, updated_at
		FROM room_products WHERE room_id = $1 ORDER BY position, id`, room.ID)
	if err != nil {
		return err
	}
	defer prodRows.Close()
	for prodRows.Next() {
		var p Product
		if err := prodRows.Scan(&p.ID, &p.RoomID, &p.Name, &p.Description, &p.Quantity,
			&p.SellingPrice, &p.DiscountedPrice, &p.Position, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		room.Products = append(room.Products, p)
	}
	if err := prodRows.Err(); err != nil {
		return err
	}

	accRows, err := r.db.Query(ctx, `
		SELECT id, room_id, catalog_item_id, name, quantity, selling_price, discounted_price, position, created_at, updated_at
		FROM room_accessories WHERE room_id = $1 ORDER BY position, id`, room.ID)
	if err != nil {
		return err
	}
	defer accRows.Close()
	for accRows.Next() {
		var a Accessory
		if err := accRows.Scan(&a.ID, &a.RoomID, &a.CatalogItemID, &a.Name, &a.Quantity,
			&a.SellingPrice, &a.DiscountedPrice, &a.Position, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return err
		}
		room.Accessories = append(room.Accessories, a)
	}
	if err := accRows.Err(); err != nil {
		return err
	}

	chargeRows, err := r.db.Query(ctx, `
		SELECT id, room_id, description, amount, created_at
		FROM room_installation_charges WHERE room_id = $1 ORDER BY id`, room.ID)
	if err != nil {
		return err
	}
	defer chargeRows.Close()
	for chargeRows.Next() {
		var c InstallationCharge
		if err := chargeRows.Scan(&c.ID, &c.RoomID, &c.Description, &c.Amount, &c.CreatedAt); err != nil {
			return err
		}
		room.InstallationCharges = append(room.InstallationCharges, c)
	}
	if err := chargeRows.Err(); err != nil {
		return err
	}

	imgRows, err := r.db.Query(ctx, `
		SELECT id, room_id, url, caption, created_at
		FROM room_images WHERE room_id = $1 ORDER BY id`, room.ID)
	if err != nil {
		return err
	}
	defer imgRows.Close()
	for imgRows.Next() {
		var img RoomImage
		if err := imgRows.Scan(&img.ID, &img.RoomID, &img.URL, &img.Caption, &img.CreatedAt); err != nil {
			return err
		}
		room.Images = append(room.Images, img)
	}
	return imgRows.Err()
}

func (r *repository) InsertRoom(ctx context.Context, room Room) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO rooms (quotation_id, name, description, selling_price, discounted_price, position)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
	`, room.QuotationID, room.Name, room.Description, room.SellingPrice, room.DiscountedPrice, room.Position).Scan(&id)
	return id, err
}

func (r *repository) UpdateRoom(ctx context.Context, roomID int64, updates map[string]interface{}) error {
	query := "UPDATE rooms SET updated_at = NOW()"
	var args []interface{}
	argPos := 1
	for _, col := range []string{"name", "description", "position"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}
	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, roomID)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (r *repository) UpdateRoomTotals(ctx context.Context, roomID int64, totals RoomTotals) error {
	_, err := r.db.Exec(ctx, `
		UPDATE rooms SET selling_price = $1, discounted_price = $2, updated_at = NOW() WHERE id = $3
	`, totals.SellingPrice, totals.DiscountedPrice, roomID)
	return err
}

func (r *repository) DeleteRoom(ctx context.Context, roomID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, roomID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (r *repository) InsertProduct(ctx context.Context, p Product) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO room_products (room_id, name, description, quantity, selling_price, discounted_price, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id
	`, p.RoomID, p.Name, p.Description, p.Quantity, p.SellingPrice, p.DiscountedPrice, p.Position).Scan(&id)
	return id, err
}

// Line writes are scoped to the room from the request path so an id from
// another room cannot be touched through the wrong URL.
func (r *repository) UpdateProduct(ctx context.Context, roomID, id int64, p Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE room_products
		SET name = $1, description = $2, quantity = $3, selling_price = $4,
		    discounted_price = $5, position = $6, updated_at = NOW()
		WHERE id = $7 AND room_id = $8
	`, p.Name, p.Description, p.Quantity, p.SellingPrice, p.DiscountedPrice, p.Position, id, roomID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *repository) DeleteProduct(ctx context.Context, roomID, id int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM room_products WHERE id = $1 AND room_id = $2`, id, roomID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *repository) InsertAccessory(ctx context.Context, a Accessory) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO room_accessories (room_id, catalog_item_id, name, quantity, selling_price, discounted_price, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id
	`, a.RoomID, a.CatalogItemID, a.Name, a.Quantity, a.SellingPrice, a.DiscountedPrice, a.Position).Scan(&id)
	return id, err
}

func (r *repository) UpdateAccessory(ctx context.Context, roomID, id int64, a Accessory) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE room_accessories
		SET name = $1, quantity = $2, selling_price = $3, discounted_price = $4,
		    position = $5, updated_at = NOW()
		WHERE id = $6 AND room_id = $7
	`, a.Name, a.Quantity, a.SellingPrice, a.DiscountedPrice, a.Position, id, roomID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *repository) DeleteAccessory(ctx context.Context, roomID, id int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM room_accessories WHERE id = $1 AND room_id = $2`, id, roomID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *repository) InsertInstallationCharge(ctx context.Context, c InstallationCharge) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO room_installation_charges (room_id, description, amount)
		VALUES ($1, $2, $3) RETURNING id
	`, c.RoomID, c.Description, c.Amount).Scan(&id)
	return id, err
}

func (r *repository) DeleteInstallationCharge(ctx context.Context, roomID, id int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM room_installation_charges WHERE id = $1 AND room_id = $2`, id, roomID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *repository) InsertRoomImage(ctx context.Context, img RoomImage) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO room_images (room_id, url, caption)
		VALUES ($1, $2, $3) RETURNING id
	`, img.RoomID, img.URL, img.Caption).Scan(&id)
	return id, err
}

func (r *repository) DeleteRoomImage(ctx context.Context, roomID, id int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM room_images WHERE id = $1 AND room_id = $2`, id, roomID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLineNotFound
	}
	return nil
}
