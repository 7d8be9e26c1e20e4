package services

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/hienmauto/internal/models"
)

// GeneratedIDPrefix marks order ids synthesized for rows whose id cell is
// empty. Generated ids exist only for local identification and are replaced
// with an empty string on every write path.
const GeneratedIDPrefix = "_gen_"

// SheetColumnCount is the fixed width of an order row (columns A..N).
const SheetColumnCount = 14

// Default values substituted for optional cells.
const (
	defaultSheetStatus   = "Đã in bill"
	defaultWebhookStatus = "Đã in đơn"
	defaultDeadline      = "Trước 23h59p"
	defaultTemplate      = "Có mẫu"
	defaultCustomerName  = "Khách lẻ"
	defaultProductName   = "Sản phẩm"
)

type platformRule struct {
	keyword string
	label   string
}

// SheetCodec converts between positional sheet rows, Order records and the
// Vietnamese-keyed JSON shape the n8n webhooks consume. Platform matching is an
// ordered keyword table built from the configured platform list; the first
// configured platform is the fallback label.
type SheetCodec struct {
	mu       sync.RWMutex
	fallback string
	rules    []platformRule
}

// NewSheetCodec builds a codec for the given platform labels. An empty list
// falls back to the default platform set.
func NewSheetCodec(platforms []string) *SheetCodec {
	c := &SheetCodec{}
	c.SetPlatforms(platforms)
	return c
}

// SetPlatforms rebuilds the platform keyword table. Safe for concurrent use.
func (c *SheetCodec) SetPlatforms(platforms []string) {
	if len(platforms) == 0 {
		platforms = models.DefaultPlatforms
	}

	rules := make([]platformRule, 0, len(platforms)+1)
	for _, label := range platforms[1:] {
		rules = append(rules, platformRule{keyword: strings.ToLower(label), label: label})
		// "fb" is a common shorthand in the sheet.
		if strings.EqualFold(label, "Facebook") {
			rules = append(rules, platformRule{keyword: "fb", label: label})
		}
	}

	c.mu.Lock()
	c.fallback = platforms[0]
	c.rules = rules
	c.mu.Unlock()
}

// MatchPlatform normalizes a free-text platform cell against the configured
// labels, falling back to the first configured platform.
func (c *SheetCodec) MatchPlatform(raw string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return c.fallback
	}
	for _, rule := range c.rules {
		if strings.Contains(s, rule.keyword) {
			return rule.label
		}
	}
	return c.fallback
}

// DecodeRow converts a sheet row into an Order. Missing cells degrade to
// defaults; an entirely empty row is skipped (ok=false). rowIndex is the
// 1-based sheet position including the header row.
func (c *SheetCodec) DecodeRow(cells []string, rowIndex int) (models.Order, bool) {
	empty := true
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			empty = false
			break
		}
	}
	if empty {
		return models.Order{}, false
	}

	cell := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}

	price := ParseCurrency(cell(9))

	status := cell(10)
	if status == "" {
		status = defaultSheetStatus
	}

	productName := cell(7)
	if productName == "" {
		productName = defaultProductName
	}

	id := cell(0)
	if id == "" {
		id = GeneratedIDPrefix + strconv.Itoa(rowIndex)
	}

	customerName := cell(4)
	if customerName == "" {
		customerName = defaultCustomerName
	}

	createdAt := cleanDate(cell(3))
	if createdAt == "" {
		createdAt = LocalTimeString()
	}

	deadline := cell(11)
	if deadline == "" {
		deadline = defaultDeadline
	}

	template := cell(13)
	if template == "" {
		template = defaultTemplate
	}

	return models.Order{
		ID:            id,
		RowIndex:      rowIndex,
		TrackingCode:  cell(1),
		Carrier:       cell(2),
		CustomerName:  customerName,
		CustomerPhone: cell(5),
		Address:       cell(6),
		Status:        status,
		Items: []models.OrderItem{{
			ProductID:   "SHEET_ITEM",
			ProductName: productName,
			Quantity:    1,
			Price:       price,
		}},
		TotalAmount:      price,
		CreatedAt:        createdAt,
		PaymentMethod:    "COD",
		Platform:         c.MatchPlatform(cell(8)),
		Note:             cell(12),
		DeliveryDeadline: deadline,
		TemplateStatus:   template,
	}, true
}

// EncodeRow converts an Order into the 14-cell row shape the write proxy
// expects. The price cell is numeric; everything else is text. Generated ids
// are written back as empty strings.
func (c *SheetCodec) EncodeRow(order models.Order) []any {
	status := order.Status
	if status == "" {
		status = defaultSheetStatus
	}

	deadline := order.DeliveryDeadline
	if deadline == "" {
		deadline = defaultDeadline
	}

	note := order.Note
	if note == "" {
		note = "Đơn thường"
	}

	template := order.TemplateStatus
	if template == "" {
		template = defaultTemplate
	}

	createdAt := order.CreatedAt
	if createdAt == "" {
		createdAt = LocalTimeString()
	}

	platform := order.Platform
	if platform == "" {
		c.mu.RLock()
		platform = c.fallback
		c.mu.RUnlock()
	}

	return []any{
		externalID(order.ID),        // A: order code
		order.TrackingCode,          // B: tracking code
		order.Carrier,               // C: carrier
		createdAt,                   // D: date
		order.CustomerName,          // E: customer name
		order.CustomerPhone,         // F: customer phone
		order.Address,               // G: address
		ItemsDisplay(order.Items),   // H: product
		platform,                    // I: platform
		order.TotalAmount,           // J: price
		status,                      // K: status
		deadline,                    // L: delivery deadline
		note,                        // M: note
		template,                    // N: template
	}
}

// WebhookPayload maps an Order to the n8n JSON shape. Key names are matched by
// the automation pipeline and must not change. Empty phone and tracking code
// are sent as null, per the consumer's schema.
func (c *SheetCodec) WebhookPayload(order models.Order) map[string]any {
	status := order.Status
	if status == "" {
		status = defaultWebhookStatus
	}

	deadline := order.DeliveryDeadline
	if deadline == "" {
		deadline = defaultDeadline
	}

	template := order.TemplateStatus
	if template == "" {
		template = defaultTemplate
	}

	createdAt := order.CreatedAt
	if createdAt == "" {
		createdAt = LocalTimeString()
	}

	platform := order.Platform
	if platform == "" {
		platform = "shopee"
	}

	var phone any
	if order.CustomerPhone != "" {
		phone = order.CustomerPhone
	}

	var tracking any
	if order.TrackingCode != "" {
		tracking = order.TrackingCode
	}

	return map[string]any{
		"Thời gian giao hàng": deadline,
		"Sản phẩm":            ItemsDisplay(order.Items),
		"Tên khách":           order.CustomerName,
		"Sđt khách":           phone,
		"Mã vận chuyển":       tracking,
		"Nền tảng":            strings.ToLower(platform),
		"Mẫu":                 template,
		"Mã đơn hàng":         externalID(order.ID),
		"Ngày":                createdAt,
		"Note":                order.Note,
		"Địa chỉ":             order.Address,
		"Trạng thái":          status,
		"Đơn vị vận chuyển":   order.Carrier,
		"Giá":                 order.TotalAmount,
	}
}

// ItemsDisplay joins line items into the single product cell. A lone item is
// written as its bare name; multiple items carry their quantities, e.g.
// "X (SL: 2) + Y". The sheet cannot hold structured items, so this is lossy.
func ItemsDisplay(items []models.OrderItem) string {
	if len(items) == 0 {
		return ""
	}
	if len(items) == 1 {
		return items[0].ProductName
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item.Quantity > 1 {
			parts = append(parts, item.ProductName+" (SL: "+strconv.Itoa(item.Quantity)+")")
		} else {
			parts = append(parts, item.ProductName)
		}
	}
	return strings.Join(parts, " + ")
}

// ParseCurrency strips every non-digit character and parses the rest.
// Unparsable cells yield 0, never an error.
func ParseCurrency(raw string) int64 {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	value, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0
	}
	return value
}

// LocalTimeString renders the sheet's local date convention "HH:mm dd-MM".
func LocalTimeString() string {
	return time.Now().Format("15:04 02-01")
}

// externalID converts a generated placeholder id back to the empty string used
// in the persisted row.
func externalID(id string) string {
	if strings.HasPrefix(id, GeneratedIDPrefix) {
		return ""
	}
	return id
}

func cleanDate(raw string) string {
	return strings.Map(func(r rune) rune {
		if r == '\'' || r == '"' {
			return -1
		}
		return r
	}, raw)
}
