package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/utils"
	"gorm.io/gorm"
)

// ReportService runs the manager's aggregate queries. The SQL sticks to
// functions shared by MySQL and SQLite.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) bounds() (time.Time, time.Time) {
	from := time.Date(r.From.Year(), r.From.Month(), r.From.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(r.To.Year(), r.To.Month(), r.To.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return from, to
}

func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return utils.Invalidf("from and to dates are required")
	}
	if r.To.Before(r.From) {
		return utils.Invalidf("to date %s is before from date %s", r.To.Format("2006-01-02"), r.From.Format("2006-01-02"))
	}
	return nil
}

type DailySales struct {
	Day     string          `json:"date"`
	Orders  int64           `json:"total_orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type InventoryUsage struct {
	ItemName     string `json:"item_name"`
	CurrentStock int    `json:"current_stock"`
	ReorderLevel int    `json:"reorder_level"`
	TimesOrdered int64  `json:"times_ordered"`
}

type StaffPerformance struct {
	StaffID       uint            `json:"staff_id"`
	Username      string          `json:"username"`
	Role          string          `json:"role"`
	OrdersHandled int64           `json:"orders_handled"`
	TotalSales    decimal.Decimal `json:"total_sales"`
}

type CategoryRevenue struct {
	Day      string          `json:"date"`
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type Dashboard struct {
	OccupiedTables int64                  `json:"occupied_tables"`
	TotalTables    int64                  `json:"total_tables"`
	OpenOrders     int64                  `json:"open_orders"`
	Tables         []models.Table         `json:"tables"`
	LowStock       []models.InventoryItem `json:"low_stock"`
}

// normalizeDay trims driver specific DATE() output (MySQL returns a
// timestamp when parseTime is on) to YYYY-MM-DD.
func normalizeDay(day string) string {
	if len(day) > 10 {
		return day[:10]
	}
	return day
}

func (s *ReportService) Sales(ctx context.Context, r DateRange) ([]DailySales, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	from, to := r.bounds()

	var rows []DailySales
	err := s.db.WithContext(ctx).Raw(`
		SELECT DATE(o.created_at) AS day,
		       COUNT(DISTINCT o.id) AS orders,
		       COALESCE(SUM(oi.price * oi.quantity), 0) AS revenue
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.created_at >= ? AND o.created_at < ?
		GROUP BY DATE(o.created_at)
		ORDER BY day`, from, to).Scan(&rows).Error
	if err != nil {
		return nil, utils.DBError(err, "sales report")
	}
	for i := range rows {
		rows[i].Day = normalizeDay(rows[i].Day)
	}
	return rows, nil
}

// InventoryUsage matches inventory items to menu items by name and counts
// how often each was ordered in the range.
func (s *ReportService) InventoryUsage(ctx context.Context, r DateRange) ([]InventoryUsage, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	from, to := r.bounds()

	var rows []InventoryUsage
	err := s.db.WithContext(ctx).Raw(`
		SELECT i.item_name, i.current_stock, i.reorder_level,
		       COUNT(o.id) AS times_ordered
		FROM inventory i
		LEFT JOIN menu_items mi ON mi.name = i.item_name
		LEFT JOIN order_items oi ON oi.menu_item_id = mi.id
		LEFT JOIN orders o ON o.id = oi.order_id AND o.created_at >= ? AND o.created_at < ?
		GROUP BY i.id, i.item_name, i.current_stock, i.reorder_level
		ORDER BY times_ordered DESC, i.item_name`, from, to).Scan(&rows).Error
	if err != nil {
		return nil, utils.DBError(err, "inventory report")
	}
	return rows, nil
}

func (s *ReportService) StaffPerformance(ctx context.Context, r DateRange) ([]StaffPerformance, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	from, to := r.bounds()

	var rows []StaffPerformance
	err := s.db.WithContext(ctx).Raw(`
		SELECT s.id AS staff_id, s.username, s.role,
		       COUNT(DISTINCT o.id) AS orders_handled,
		       COALESCE(SUM(oi.price * oi.quantity), 0) AS total_sales
		FROM staffs s
		LEFT JOIN orders o ON o.staff_id = s.id AND o.created_at >= ? AND o.created_at < ?
		LEFT JOIN order_items oi ON oi.order_id = o.id
		GROUP BY s.id, s.username, s.role
		ORDER BY total_sales DESC, s.username`, from, to).Scan(&rows).Error
	if err != nil {
		return nil, utils.DBError(err, "staff performance report")
	}
	return rows, nil
}

func (s *ReportService) RevenueByCategory(ctx context.Context, r DateRange) ([]CategoryRevenue, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	from, to := r.bounds()

	var rows []CategoryRevenue
	err := s.db.WithContext(ctx).Raw(`
		SELECT DATE(o.created_at) AS day, mi.category,
		       COALESCE(SUM(oi.price * oi.quantity), 0) AS revenue
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN menu_items mi ON mi.id = oi.menu_item_id
		WHERE o.created_at >= ? AND o.created_at < ?
		GROUP BY DATE(o.created_at), mi.category
		ORDER BY day, mi.category`, from, to).Scan(&rows).Error
	if err != nil {
		return nil, utils.DBError(err, "revenue report")
	}
	for i := range rows {
		rows[i].Day = normalizeDay(rows[i].Day)
	}
	return rows, nil
}

// LowStock lists items at or below their reorder level, most depleted first.
func (s *ReportService) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.db.WithContext(ctx).
		Where("current_stock <= reorder_level").
		Order("CASE WHEN reorder_level = 0 THEN 0 ELSE current_stock * 1.0 / reorder_level END, id").
		Find(&items).Error
	if err != nil {
		return nil, utils.DBError(err, "low stock")
	}
	return items, nil
}

func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	db := s.db.WithContext(ctx)
	dash := &Dashboard{}

	if err := db.Order("id").Find(&dash.Tables).Error; err != nil {
		return nil, utils.DBError(err, "list tables")
	}
	dash.TotalTables = int64(len(dash.Tables))
	for _, t := range dash.Tables {
		if t.Status == models.TableOccupied {
			dash.OccupiedTables++
		}
	}

	if err := db.Model(&models.Order{}).Where("status <> ?", models.OrderCompleted).Count(&dash.OpenOrders).Error; err != nil {
		return nil, utils.DBError(err, "count open orders")
	}

	lowStock, err := s.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	dash.LowStock = lowStock
	return dash, nil
}
