package services

import (
	"bytes"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/yeremiapane/restaurant-ops/utils"
)

const revenueChartImage = "revenue-chart"

// WriteSalesReportPDF renders the sales report as an A4 document with a
// table of daily totals and, when there are at least two days, a revenue
// bar chart.
func WriteSalesReportPDF(w io.Writer, r DateRange, rows []DailySales) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Sales Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Sales Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	period := fmt.Sprintf("%s to %s", r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))
	pdf.CellFormat(0, 8, period, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(60, 8, "Date", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 8, "Orders", "1", 0, "R", true, 0, "")
	pdf.CellFormat(70, 8, "Revenue", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	var totalOrders int64
	totalRevenue := decimal.Zero
	for _, row := range rows {
		pdf.CellFormat(60, 7, row.Day, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, fmt.Sprintf("%d", row.Orders), "1", 0, "R", false, 0, "")
		pdf.CellFormat(70, 7, utils.FormatRupees(row.Revenue), "1", 1, "R", false, 0, "")
		totalOrders += row.Orders
		totalRevenue = totalRevenue.Add(row.Revenue)
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, fmt.Sprintf("%d", totalOrders), "1", 0, "R", false, 0, "")
	pdf.CellFormat(70, 8, utils.FormatRupees(totalRevenue), "1", 1, "R", false, 0, "")

	if len(rows) >= 2 {
		png, err := renderRevenueChart(rows)
		if err != nil {
			return err
		}
		pdf.Ln(6)
		pdf.RegisterImageOptionsReader(revenueChartImage, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pdf.ImageOptions(revenueChartImage, 15, pdf.GetY(), 180, 0, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "write pdf")
	}
	return nil
}

func renderRevenueChart(rows []DailySales) ([]byte, error) {
	bars := make([]chart.Value, 0, len(rows))
	top := 1.0
	for _, row := range rows {
		v := row.Revenue.InexactFloat64()
		if v > top {
			top = v
		}
		bars = append(bars, chart.Value{Value: v, Label: row.Day})
	}

	graph := chart.BarChart{
		Title:    "Revenue per day",
		Height:   400,
		Width:    900,
		BarWidth: 40,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrap(err, "render revenue chart")
	}
	return buf.Bytes(), nil
}
