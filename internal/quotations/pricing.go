package quotations

// RoomTotals is the rollup of a room's product and accessory lines.
type RoomTotals struct {
	SellingPrice    float64
	DiscountedPrice float64
}

// QuotationTotals holds the derived header amounts of a quotation.
type QuotationTotals struct {
	TotalSellingPrice    float64
	TotalDiscountedPrice float64
	GSTAmount            float64
	FinalPrice           float64
}

// ComputeRoomTotals sums product and accessory lines into the room-level
// selling and discounted prices. It is a total function over its inputs.
func ComputeRoomTotals(products []Product, accessories []Accessory) RoomTotals {
	var t RoomTotals
	for _, p := range products {
		t.SellingPrice += p.SellingPrice * p.Quantity
		t.DiscountedPrice += p.DiscountedPrice * p.Quantity
	}
	for _, a := range accessories {
		t.SellingPrice += a.SellingPrice * a.Quantity
		t.DiscountedPrice += a.DiscountedPrice * a.Quantity
	}
	return t
}

// ComputeQuotationTotals rolls up all rooms' prices, applies the global
// discount, adds the installation/handling fee and computes GST on the
// post-discount base:
//
//	base          = sum(room.discountedPrice)
//	afterDiscount = base - base*globalDiscount/100
//	taxable       = afterDiscount + installationHandling
//	gst           = taxable*gstPercentage/100
//	final         = taxable + gst
func ComputeQuotationTotals(rooms []Room, globalDiscount, installationHandling, gstPercentage float64) QuotationTotals {
	var totalSelling, base float64
	for _, room := range rooms {
		totalSelling += room.SellingPrice
		base += room.DiscountedPrice
	}

	afterDiscount := base - base*globalDiscount/100
	taxable := afterDiscount + installationHandling
	gst := taxable * gstPercentage / 100

	return QuotationTotals{
		TotalSellingPrice:    totalSelling,
		TotalDiscountedPrice: afterDiscount,
		GSTAmount:            gst,
		FinalPrice:           taxable + gst,
	}
}
