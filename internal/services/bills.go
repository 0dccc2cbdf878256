package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"provision-store/internal/logging"
	"provision-store/internal/metrics"
	"provision-store/internal/models"
)

const billNumberPrefix = "BILL-"

// BillItemInput is one line of a bill request. ProductName and UnitPrice are
// taken from the product when omitted; any client-sent totalPrice is ignored.
type BillItemInput struct {
	ProductID   string            `json:"productId"`
	ProductName string            `json:"productName,omitempty"`
	Quantity    models.FlexInt    `json:"quantity"`
	UnitPrice   *models.FlexFloat `json:"unitPrice,omitempty"`
}

// BillInput is the JSON body of bill create and update requests. Totals are
// always recomputed from the items.
type BillInput struct {
	CustomerName  *string          `json:"customerName,omitempty"`
	CustomerPhone *string          `json:"customerPhone,omitempty"`
	Items         *[]BillItemInput `json:"items,omitempty"`
	PaymentStatus *string          `json:"paymentStatus,omitempty"`
	PaymentMethod *string          `json:"paymentMethod,omitempty"`
}

type BillService struct {
	bills    BillStore
	products ProductStore
	tx       TxRunner
	cache    StatsCache
	now      func() time.Time
}

func NewBillService(bills BillStore, products ProductStore, tx TxRunner, cache StatsCache) *BillService {
	return &BillService{
		bills:    bills,
		products: products,
		tx:       tx,
		cache:    cacheOrNoop(cache),
		now:      time.Now,
	}
}

// FormatBillNumber renders a sequence number as BILL-000042.
func FormatBillNumber(seq int64) string {
	return fmt.Sprintf("%s%06d", billNumberPrefix, seq)
}

func (s *BillService) List(ctx context.Context) ([]models.Bill, error) {
	bills, err := s.bills.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.attachProducts(ctx, bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (s *BillService) Get(ctx context.Context, id primitive.ObjectID) (models.Bill, error) {
	bill, err := s.bills.FindByID(ctx, id)
	if err != nil {
		return models.Bill{}, err
	}

	bills := []models.Bill{bill}
	if err := s.attachProducts(ctx, bills); err != nil {
		return models.Bill{}, err
	}
	return bills[0], nil
}

// Create allocates a bill number, stores the bill and takes the sold
// quantities off each product's units. With an atomic TxRunner the three
// steps commit together; otherwise a failed unit decrement is logged and the
// bill is kept.
func (s *BillService) Create(ctx context.Context, input BillInput) (models.Bill, error) {
	if input.CustomerName == nil || strings.TrimSpace(*input.CustomerName) == "" {
		return models.Bill{}, invalid("customerName", "customerName required")
	}
	if input.Items == nil || len(*input.Items) == 0 {
		return models.Bill{}, invalid("items", "at least one item is required")
	}

	status := models.PaymentStatusPending
	if input.PaymentStatus != nil && strings.TrimSpace(*input.PaymentStatus) != "" {
		status = strings.TrimSpace(*input.PaymentStatus)
	}
	if !models.IsPaymentStatus(status) {
		return models.Bill{}, invalid("paymentStatus", "invalid paymentStatus: %s", status)
	}

	method := models.PaymentMethodCash
	if input.PaymentMethod != nil && strings.TrimSpace(*input.PaymentMethod) != "" {
		method = strings.TrimSpace(*input.PaymentMethod)
	}
	if !models.IsPaymentMethod(method) {
		return models.Bill{}, invalid("paymentMethod", "invalid paymentMethod: %s", method)
	}

	items, total, err := s.buildItems(ctx, *input.Items, true)
	if err != nil {
		return models.Bill{}, err
	}

	now := s.now()
	bill := models.Bill{
		CustomerName:  strings.TrimSpace(*input.CustomerName),
		Items:         items,
		TotalAmount:   total,
		PaymentStatus: status,
		PaymentMethod: method,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.CustomerPhone != nil {
		bill.CustomerPhone = strings.TrimSpace(*input.CustomerPhone)
	}

	log := logging.WithCtx(ctx)
	atomic := s.tx.Atomic()

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		bill.ID = primitive.NilObjectID

		seq, err := s.bills.NextSequence(ctx)
		if err != nil {
			return fmt.Errorf("allocate bill number: %w", err)
		}
		bill.BillNumber = FormatBillNumber(seq)

		if err := s.bills.Insert(ctx, &bill); err != nil {
			return fmt.Errorf("insert bill: %w", err)
		}

		for _, item := range bill.Items {
			if err := s.products.AdjustUnits(ctx, item.ProductID, -item.Quantity); err != nil {
				if atomic {
					return fmt.Errorf("adjust units for product %s: %w", item.ProductID.Hex(), err)
				}
				metrics.StockAdjustmentFailures.Inc()
				log.Error("unit decrement failed after bill insert",
					"bill_number", bill.BillNumber,
					"product_id", item.ProductID.Hex(),
					"quantity", item.Quantity,
					"error", err,
				)
			}
		}
		return nil
	})
	if err != nil {
		return models.Bill{}, err
	}

	metrics.BillsCreated.Inc()
	metrics.BillRevenue.Add(bill.TotalAmount)
	log.Info("bill created",
		"bill_id", bill.ID.Hex(),
		"bill_number", bill.BillNumber,
		"items", len(bill.Items),
		"total", bill.TotalAmount,
		"atomic", atomic,
	)
	s.cache.Invalidate(ctx)

	return s.Get(ctx, bill.ID)
}

// Update replaces the provided fields. Product units are not touched, even
// when the items change.
func (s *BillService) Update(ctx context.Context, id primitive.ObjectID, input BillInput) (models.Bill, error) {
	var patch models.BillPatch
	fields := 0

	if input.CustomerName != nil {
		name := strings.TrimSpace(*input.CustomerName)
		if name == "" {
			return models.Bill{}, invalid("customerName", "customerName cannot be empty")
		}
		patch.CustomerName = &name
		fields++
	}
	if input.CustomerPhone != nil {
		phone := strings.TrimSpace(*input.CustomerPhone)
		patch.CustomerPhone = &phone
		fields++
	}
	if input.PaymentStatus != nil {
		status := strings.TrimSpace(*input.PaymentStatus)
		if !models.IsPaymentStatus(status) {
			return models.Bill{}, invalid("paymentStatus", "invalid paymentStatus: %s", status)
		}
		patch.PaymentStatus = &status
		fields++
	}
	if input.PaymentMethod != nil {
		method := strings.TrimSpace(*input.PaymentMethod)
		if !models.IsPaymentMethod(method) {
			return models.Bill{}, invalid("paymentMethod", "invalid paymentMethod: %s", method)
		}
		patch.PaymentMethod = &method
		fields++
	}
	if input.Items != nil {
		if len(*input.Items) == 0 {
			return models.Bill{}, invalid("items", "at least one item is required")
		}
		items, total, err := s.buildItems(ctx, *input.Items, false)
		if err != nil {
			return models.Bill{}, err
		}
		patch.Items = items
		patch.TotalAmount = &total
		fields++
	}

	if fields == 0 {
		return models.Bill{}, invalid("", "no fields to update")
	}
	patch.UpdatedAt = s.now()

	updated, err := s.bills.Update(ctx, id, patch)
	if err != nil {
		return models.Bill{}, err
	}

	s.cache.Invalidate(ctx)

	bills := []models.Bill{updated}
	if err := s.attachProducts(ctx, bills); err != nil {
		return models.Bill{}, err
	}
	return bills[0], nil
}

// Delete removes the bill. Sold units are not returned to stock.
func (s *BillService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.bills.Delete(ctx, id); err != nil {
		return err
	}

	logging.WithCtx(ctx).Info("bill deleted", "bill_id", id.Hex())
	s.cache.Invalidate(ctx)
	return nil
}

// buildItems validates the requested lines and computes their totals. When
// requireProducts is false, a line whose product no longer exists is kept as
// long as it carries its own name and unit price.
func (s *BillService) buildItems(ctx context.Context, inputs []BillItemInput, requireProducts bool) ([]models.BillItem, float64, error) {
	ids := make([]primitive.ObjectID, 0, len(inputs))
	seen := make(map[primitive.ObjectID]struct{}, len(inputs))
	parsed := make([]primitive.ObjectID, len(inputs))

	for i, input := range inputs {
		raw := strings.TrimSpace(input.ProductID)
		if raw == "" {
			return nil, 0, invalid("items", "item %d: productId required", i+1)
		}
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, 0, invalid("items", "item %d: invalid productId: %s", i+1, raw)
		}
		if input.Quantity < 1 {
			return nil, 0, invalid("items", "item %d: quantity must be at least 1", i+1)
		}
		if input.UnitPrice != nil && (!models.IsFinite(float64(*input.UnitPrice)) || *input.UnitPrice < 0) {
			return nil, 0, invalid("items", "item %d: unitPrice must be zero or greater", i+1)
		}

		parsed[i] = id
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve bill products: %w", err)
	}
	byID := make(map[primitive.ObjectID]models.Product, len(found))
	for _, product := range found {
		byID[product.ID] = product
	}

	items := make([]models.BillItem, 0, len(inputs))
	totals := make([]float64, 0, len(inputs))

	for i, input := range inputs {
		id := parsed[i]
		product, ok := byID[id]
		name := strings.TrimSpace(input.ProductName)

		if !ok && (requireProducts || name == "" || input.UnitPrice == nil) {
			return nil, 0, invalid("items", "product not found: %s", id.Hex())
		}

		if name == "" {
			name = product.Name
		}
		unitPrice := product.Price
		if input.UnitPrice != nil {
			unitPrice = float64(*input.UnitPrice)
		}
		if !models.IsFinite(unitPrice) {
			return nil, 0, invalid("items", "item %d: unitPrice must be zero or greater", i+1)
		}
		unitPrice = roundMoney(unitPrice)

		quantity := int(input.Quantity)
		item := models.BillItem{
			ProductID:   id,
			ProductName: name,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			TotalPrice:  lineTotal(quantity, unitPrice),
		}
		items = append(items, item)
		totals = append(totals, item.TotalPrice)
	}

	return items, sumMoney(totals...), nil
}

// attachProducts resolves every item's product reference with one lookup.
// Items whose product has been deleted keep a nil Product.
func (s *BillService) attachProducts(ctx context.Context, bills []models.Bill) error {
	seen := make(map[primitive.ObjectID]struct{})
	ids := make([]primitive.ObjectID, 0)
	for _, bill := range bills {
		for _, item := range bill.Items {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve bill products: %w", err)
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	for b := range bills {
		for i := range bills[b].Items {
			if product, ok := byID[bills[b].Items[i].ProductID]; ok {
				p := product
				bills[b].Items[i].Product = &p
			}
		}
	}
	return nil
}
