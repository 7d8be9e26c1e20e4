package models

// Order mirrors one row of the order spreadsheet. Orders are not stored in the
// database: the sheet is the system of record, and the in-memory list is rebuilt
// from a CSV refetch after every remote-affecting mutation.
type Order struct {
	// ID is the external order code (column A). The sheet may leave it empty,
	// in which case ingestion synthesizes a "_gen_" placeholder so the UI has
	// a stable key. Placeholders are never written back to the sheet.
	ID string `json:"id"`
	// RowIndex is the 1-based sheet position including the header row, so the
	// first data row is 2. It is the only reliable handle for update/delete.
	// Zero means the order has not been observed in the sheet yet.
	RowIndex int `json:"row_index,omitempty"`

	TrackingCode  string `json:"tracking_code"`
	Carrier       string `json:"carrier"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Address       string `json:"address"`

	Status      string      `json:"status"`
	Items       []OrderItem `json:"items"`
	TotalAmount int64       `json:"total_amount"`
	CreatedAt   string      `json:"created_at"`

	PaymentMethod    string `json:"payment_method"`
	Platform         string `json:"platform"`
	Note             string `json:"note"`
	DeliveryDeadline string `json:"delivery_deadline"`
	TemplateStatus   string `json:"template_status"`
}

// OrderItem is a line item. Ingestion always produces exactly one synthetic item
// from the product column; the write path joins items back into a display string.
type OrderItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

// Persisted reports whether the order has a known sheet row. Freshly created
// orders stay unpersisted until the next full refetch assigns their row index.
func (o *Order) Persisted() bool {
	return o.RowIndex > 0
}
