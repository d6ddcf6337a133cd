package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-ops/kds"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentService handles billing at the cashier desk.
type PaymentService struct {
	db       *gorm.DB
	notifier *Notifier
	now      func() time.Time
}

func NewPaymentService(db *gorm.DB, notifier *Notifier) *PaymentService {
	return &PaymentService{db: db, notifier: notifier, now: time.Now}
}

type BillLine struct {
	MenuItemID uint            `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type Bill struct {
	OrderID       uint            `json:"order_id"`
	TableID       uint            `json:"table_id"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Items         []BillLine      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	TotalDisplay  string          `json:"total_display"`
}

type TableBill struct {
	TableID  uint  `json:"table_id"`
	Capacity int   `json:"capacity"`
	Bill     *Bill `json:"bill"`
}

func buildBill(order models.Order) *Bill {
	bill := &Bill{
		OrderID:       order.ID,
		TableID:       order.TableID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Items:         make([]BillLine, 0, len(order.Items)),
		Total:         decimal.Zero,
	}
	for _, item := range order.Items {
		line := BillLine{
			MenuItemID: item.MenuItemID,
			Name:       item.MenuItem.Name,
			UnitPrice:  item.Price,
			Quantity:   item.Quantity,
			Subtotal:   item.Subtotal(),
		}
		bill.Items = append(bill.Items, line)
		bill.Total = bill.Total.Add(line.Subtotal)
	}
	bill.TotalDisplay = utils.FormatRupees(bill.Total)
	return bill
}

func (s *PaymentService) GetBill(ctx context.Context, orderID uint) (*Bill, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items.MenuItem").First(&order, orderID).Error; err != nil {
		return nil, utils.DBError(err, "find order")
	}
	return buildBill(order), nil
}

// OccupiedTableBills lists every occupied table with the bill of the order
// currently seated there.
func (s *PaymentService) OccupiedTableBills(ctx context.Context) ([]TableBill, error) {
	db := s.db.WithContext(ctx)

	var tables []models.Table
	err := db.Where("status = ? AND current_order_id IS NOT NULL", models.TableOccupied).
		Order("id").Find(&tables).Error
	if err != nil {
		return nil, utils.DBError(err, "list occupied tables")
	}
	if len(tables) == 0 {
		return []TableBill{}, nil
	}

	orderIDs := make([]uint, 0, len(tables))
	for _, t := range tables {
		orderIDs = append(orderIDs, *t.CurrentOrderID)
	}
	var orders []models.Order
	if err := db.Preload("Items.MenuItem").Where("id IN ?", orderIDs).Find(&orders).Error; err != nil {
		return nil, utils.DBError(err, "load current orders")
	}
	byID := make(map[uint]models.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}

	result := make([]TableBill, 0, len(tables))
	for _, t := range tables {
		tb := TableBill{TableID: t.ID, Capacity: t.Capacity}
		if o, ok := byID[*t.CurrentOrderID]; ok {
			tb.Bill = buildBill(o)
		}
		result = append(result, tb)
	}
	return result, nil
}

// ProcessPayment settles an order. The order becomes Completed and Paid and
// its table is released in the same transaction.
func (s *PaymentService) ProcessPayment(ctx context.Context, orderID uint, method string) (*models.Order, error) {
	if !models.IsPaymentMethod(method) {
		return nil, utils.Invalidf("unsupported payment method %q", method)
	}

	var order models.Order
	var table models.Table
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items.MenuItem").First(&order, orderID).Error
		if err != nil {
			return utils.DBError(err, "find order")
		}
		if order.PaymentStatus == models.PaymentPaid || order.Status == models.OrderCompleted {
			return utils.Conflictf("order %d is already settled", order.ID)
		}

		total := buildBill(order).Total
		paidAt := s.now().UTC()
		err = tx.Model(&order).Omit(clause.Associations).Updates(map[string]interface{}{
			"status":         models.OrderCompleted,
			"payment_status": models.PaymentPaid,
			"payment_method": method,
			"total_amount":   total,
			"paid_at":        paidAt,
		}).Error
		if err != nil {
			return utils.DBError(err, "settle order")
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, order.TableID).Error; err != nil {
			return utils.DBError(err, "find table")
		}
		err = tx.Model(&table).Updates(map[string]interface{}{
			"status":           models.TableAvailable,
			"current_order_id": nil,
		}).Error
		if err != nil {
			return utils.DBError(err, "release table")
		}

		order.Status = models.OrderCompleted
		order.PaymentStatus = models.PaymentPaid
		order.PaymentMethod = &method
		order.TotalAmount = total
		order.PaidAt = &paidAt
		table.Status = models.TableAvailable
		table.CurrentOrderID = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"order_id": order.ID,
		"table_id": table.ID,
		"method":   method,
		"total":    order.TotalAmount.StringFixed(2),
	}).Info("payment processed")
	s.notifier.Notify(ctx, kds.EventOrderPaid, order)
	s.notifier.Notify(ctx, kds.EventTableUpdate, table)
	return &order, nil
}
