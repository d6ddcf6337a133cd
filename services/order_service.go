package services

import (
	"context"

	"github.com/yeremiapane/restaurant-ops/kds"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewOrderService(db *gorm.DB, notifier *Notifier) *OrderService {
	return &OrderService{db: db, notifier: notifier}
}

// OrderLine is one menu item and how many of it to add.
type OrderLine struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required"`
}

// PlaceOrder adds items to the table's open order, or opens a new Pending
// order and marks the table Occupied. Prices are copied from the menu at the
// time of ordering.
func (s *OrderService) PlaceOrder(ctx context.Context, tableID uint, staffID *uint, lines []OrderLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, utils.Invalidf("order must contain at least one item")
	}
	quantities := make(map[uint]int, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, utils.Invalidf("quantity for menu item %d must be at least 1", l.MenuItemID)
		}
		quantities[l.MenuItemID] += l.Quantity
	}

	var order models.Order
	var table models.Table
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, tableID).Error; err != nil {
			return utils.DBError(err, "find table")
		}

		ids := make([]uint, 0, len(quantities))
		for id := range quantities {
			ids = append(ids, id)
		}
		var menu []models.MenuItem
		if err := tx.Where("id IN ?", ids).Find(&menu).Error; err != nil {
			return utils.DBError(err, "load menu items")
		}
		if len(menu) != len(ids) {
			return utils.NotFoundf("one or more menu items do not exist")
		}

		if table.HasOpenOrder() {
			if err := tx.First(&order, *table.CurrentOrderID).Error; err != nil {
				return utils.DBError(err, "find current order")
			}
			// New items go back to the kitchen.
			if order.Status == models.OrderReady {
				if err := tx.Model(&order).Update("status", models.OrderPending).Error; err != nil {
					return utils.DBError(err, "reopen order")
				}
			}
		} else {
			order = models.Order{
				TableID:       table.ID,
				StaffID:       staffID,
				Status:        models.OrderPending,
				PaymentStatus: models.PaymentPending,
			}
			if err := tx.Create(&order).Error; err != nil {
				return utils.DBError(err, "create order")
			}
			created = true

			err := tx.Model(&table).Updates(map[string]interface{}{
				"status":           models.TableOccupied,
				"current_order_id": order.ID,
			}).Error
			if err != nil {
				return utils.DBError(err, "occupy table")
			}
		}

		items := make([]models.OrderItem, 0, len(menu))
		for _, m := range menu {
			items = append(items, models.OrderItem{
				OrderID:    order.ID,
				MenuItemID: m.ID,
				Quantity:   quantities[m.ID],
				Price:      m.Price,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return utils.DBError(err, "add order items")
		}

		return tx.Preload("Items.MenuItem").First(&order, order.ID).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(map[string]interface{}{
		"order_id": order.ID,
		"table_id": order.TableID,
		"new":      created,
	}).Info("order placed")
	s.notifier.Notify(ctx, kds.EventOrderPlaced, order)
	if created {
		table.Status = models.TableOccupied
		table.CurrentOrderID = &order.ID
		s.notifier.Notify(ctx, kds.EventTableUpdate, table)
	}
	return &order, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items.MenuItem").First(&order, id).Error; err != nil {
		return nil, utils.DBError(err, "find order")
	}
	return &order, nil
}

// ListOpen returns every order not yet completed, oldest first.
func (s *OrderService) ListOpen(ctx context.Context) ([]models.Order, error) {
	return s.listByStatus(ctx, "status <> ?", models.OrderCompleted)
}

// ListPending is the kitchen queue.
func (s *OrderService) ListPending(ctx context.Context) ([]models.Order, error) {
	return s.listByStatus(ctx, "status = ?", models.OrderPending)
}

func (s *OrderService) listByStatus(ctx context.Context, query string, status string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Items.MenuItem").
		Where(query, status).
		Order("created_at, id").
		Find(&orders).Error
	if err != nil {
		return nil, utils.DBError(err, "list orders")
	}
	return orders, nil
}

// MarkReady moves a Pending order to Ready.
func (s *OrderService) MarkReady(ctx context.Context, id uint) (*models.Order, error) {
	db := s.db.WithContext(ctx)
	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, models.OrderPending).
		Update("status", models.OrderReady)
	if res.Error != nil {
		return nil, utils.DBError(res.Error, "mark order ready")
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, utils.Conflictf("order %d is %s, only Pending orders can be marked Ready", id, order.Status)
	}

	utils.InfoLogger.WithField("order_id", id).Info("order ready")
	s.notifier.Notify(ctx, kds.EventOrderReady, order)
	return order, nil
}
