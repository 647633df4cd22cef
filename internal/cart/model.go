package cart

// Item is one cart line. UnitPrice is the price at the moment the line was
// first added; later catalog changes do not touch it.
type Item struct {
	ID          string   `json:"id"`
	ProductID   string   `json:"product_id"`
	VariantID   string   `json:"variant_id"`
	Quantity    int      `json:"quantity"`
	UnitPrice   int64    `json:"unit_price"`
	SKU         string   `json:"sku,omitempty"`
	ProductName string   `json:"product_name"`
	ProductSlug string   `json:"product_slug"`
	OptionNames []string `json:"option_names,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

func (i *Item) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// StoreRef identifies the store a sub-cart belongs to.
type StoreRef struct {
	ID       string `json:"store_id"`
	Name     string `json:"store_name"`
	Slug     string `json:"store_slug"`
	WhatsApp string `json:"whatsapp"`
}

type StoreCart struct {
	StoreRef
	Items    []*Item `json:"items"`
	Subtotal int64   `json:"subtotal"`
}

// Cart groups lines per store. Totals are derived from the lines and are
// recomputed after every change.
type Cart struct {
	Stores      []*StoreCart `json:"stores"`
	TotalItems  int          `json:"total_items"`
	TotalAmount int64        `json:"total_amount"`
}

func (c *Cart) Store(storeID string) *StoreCart {
	for _, sc := range c.Stores {
		if sc.ID == storeID {
			return sc
		}
	}
	return nil
}

func (c *Cart) Empty() bool {
	return len(c.Stores) == 0
}

type AddItemInput struct {
	ProductID string `json:"product_id"`
	// VariantID picks the variant directly; otherwise Selection is resolved.
	VariantID string            `json:"variant_id,omitempty"`
	Selection map[string]string `json:"selection,omitempty"`
	Quantity  int               `json:"quantity"`
}

// Customer holds the checkout form fields passed through to the order.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Note    string `json:"note"`
}

type OrderLine struct {
	Name      string `json:"name"`
	SKU       string `json:"sku,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

// OrderSummary is the finalized per-store order handed to a Notifier.
type OrderSummary struct {
	OrderNumber   string      `json:"order_number"`
	StoreID       string      `json:"store_id"`
	StoreName     string      `json:"store_name"`
	StoreWhatsApp string      `json:"store_whatsapp"`
	Lines         []OrderLine `json:"lines"`
	Subtotal      int64       `json:"subtotal"`
	Customer      Customer    `json:"customer"`
}
