// Package export renders analytics reports as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/ukydev/sitefleet/internal/analytics"
	"github.com/ukydev/sitefleet/internal/models"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the workbooks written by WriteXLSX.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	recordsSheet = "Records"
	summarySheet = "Summary"
)

type sheet struct {
	name   string
	header []string
	rows   [][]interface{}
}

// Filename suggests a download name for a report.
func Filename(vehicleID string, kind analytics.ReportKind) string {
	return fmt.Sprintf("%s-%s.xlsx", vehicleID, kind)
}

// WriteXLSX encodes report as a workbook with a records sheet and a summary sheet.
func WriteXLSX(w io.Writer, report analytics.Report) error {
	f, err := Workbook(report)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// Workbook builds the workbook of report.
func Workbook(report analytics.Report) (*excelize.File, error) {
	sheets, err := sheetsFor(report)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			f.Close()
			return nil, err
		}
		if err := writeSheet(f, s, bold); err != nil {
			f.Close()
			return nil, fmt.Errorf("export sheet %s: %w", s.name, err)
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	header := make([]interface{}, len(s.header))
	for i, h := range s.header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(s.name, 1, 1, headerStyle); err != nil {
		return err
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}
	last, err := excelize.ColumnNumberToName(len(s.header))
	if err != nil {
		return err
	}
	return f.SetColWidth(s.name, "A", last, 18)
}

func sheetsFor(report analytics.Report) ([]sheet, error) {
	switch r := report.(type) {
	case analytics.FuelConsumptionReport:
		return fuelSheets(r), nil
	case analytics.UsageAnalysisReport:
		return usageSheets(r), nil
	case analytics.MileageTrackingReport:
		return mileageSheets(r), nil
	case analytics.CostAnalysisReport:
		return costSheets(r), nil
	}
	return nil, fmt.Errorf("export: unsupported report type %T", report)
}

// num leaves undefined metrics as empty cells.
func num(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func date(t time.Time) string {
	return t.Format(models.DateLayout)
}

func datePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return date(*t)
}

func windowRows(vehicleID string, w models.Window) [][]interface{} {
	return [][]interface{}{
		{"Vehicle", vehicleID},
		{"Start date", datePtr(w.Start)},
		{"End date", datePtr(w.End)},
	}
}

func fuelSheets(r analytics.FuelConsumptionReport) []sheet {
	records := sheet{
		name: recordsSheet,
		header: []string{"Date", "Odometer", "Fuel Amount", "Fuel Cost", "Cost/Liter", "Fuel Type", "Station",
			"Previous Date", "Previous Odometer", "Mileage Between", "Fuel Efficiency"},
	}
	for _, rec := range r.Records {
		records.rows = append(records.rows, []interface{}{
			date(rec.RefuelingDate), rec.Odometer, rec.FuelAmount, rec.FuelCost, num(rec.CostPerLiter),
			rec.FuelType, rec.StationName, datePtr(rec.PreviousDate), num(rec.PreviousOdometer),
			num(rec.MileageBetween), num(rec.FuelEfficiency),
		})
	}

	s := r.Summary
	summary := sheet{name: summarySheet, header: []string{"Metric", "Value"}, rows: windowRows(r.VehicleID, r.Window)}
	summary.rows = append(summary.rows,
		[]interface{}{"Total Refuels", s.TotalRefuels},
		[]interface{}{"Total Fuel", s.TotalFuel},
		[]interface{}{"Total Cost", s.TotalCost},
		[]interface{}{"Avg Cost/Liter", num(s.AvgCostPerLiter)},
		[]interface{}{"First Refuel", datePtr(s.FirstRefuel)},
		[]interface{}{"Last Refuel", datePtr(s.LastRefuel)},
		[]interface{}{"Total Mileage", num(s.TotalMileage)},
		[]interface{}{"Avg Fuel Efficiency", num(s.AvgFuelEfficiency)},
	)
	return []sheet{records, summary}
}

func usageSheets(r analytics.UsageAnalysisReport) []sheet {
	records := sheet{
		name: recordsSheet,
		header: []string{"Date", "Start Odometer", "End Odometer", "Distance", "Fuel Consumed", "Fuel Efficiency",
			"Cost/Liter", "Estimated Cost", "Purpose", "Driver", "From", "To"},
	}
	for _, rec := range r.Records {
		records.rows = append(records.rows, []interface{}{
			date(rec.UsageDate), rec.StartOdometer, rec.EndOdometer, rec.Distance, rec.FuelConsumed,
			num(rec.FuelEfficiency), num(rec.CostPerLiter), num(rec.EstimatedFuelCost),
			rec.Purpose, rec.DriverName, rec.StartLocation, rec.EndLocation,
		})
	}

	s := r.Summary
	summary := sheet{name: summarySheet, header: []string{"Metric", "Value"}, rows: windowRows(r.VehicleID, r.Window)}
	summary.rows = append(summary.rows,
		[]interface{}{"Total Trips", s.TotalTrips},
		[]interface{}{"Total Distance", s.TotalDistance},
		[]interface{}{"Total Fuel Consumed", s.TotalFuelConsumed},
		[]interface{}{"Total Estimated Cost", s.TotalEstimatedCost},
		[]interface{}{"Trips Without Estimate", s.UnestimatedTrips},
	)
	return []sheet{records, summary}
}

func mileageSheets(r analytics.MileageTrackingReport) []sheet {
	records := sheet{
		name:   recordsSheet,
		header: []string{"Date", "Odometer", "Fuel Amount", "Previous Odometer", "Mileage Gap", "Efficiency", "Rating"},
	}
	for _, rec := range r.Records {
		var rating interface{}
		if rec.Rating != nil {
			rating = string(*rec.Rating)
		}
		records.rows = append(records.rows, []interface{}{
			date(rec.RefuelingDate), rec.Odometer, rec.FuelAmount, num(rec.PreviousOdometer),
			num(rec.MileageGap), num(rec.Efficiency), rating,
		})
	}

	summary := sheet{name: summarySheet, header: []string{"Metric", "Value"}, rows: windowRows(r.VehicleID, r.Window)}
	summary.rows = append(summary.rows,
		[]interface{}{string(analytics.RatingGood), r.Ratings.Good},
		[]interface{}{string(analytics.RatingNormal), r.Ratings.Normal},
		[]interface{}{string(analytics.RatingPoor), r.Ratings.Poor},
	)
	return []sheet{records, summary}
}

func costSheets(r analytics.CostAnalysisReport) []sheet {
	months := sheet{
		name:   "Months",
		header: []string{"Month", "Refuels", "Total Fuel", "Total Cost", "Avg Cost/Liter", "Min Cost/Liter", "Max Cost/Liter"},
	}
	for _, m := range r.Months {
		months.rows = append(months.rows, []interface{}{
			m.Month, m.Refuels, m.TotalFuel, m.TotalCost,
			num(m.AvgCostPerLiter), num(m.MinCostPerLiter), num(m.MaxCostPerLiter),
		})
	}

	summary := sheet{name: summarySheet, header: []string{"Metric", "Value"}, rows: windowRows(r.VehicleID, r.Window)}
	summary.rows = append(summary.rows,
		[]interface{}{"Total Fuel", r.TotalFuel},
		[]interface{}{"Total Cost", r.TotalCost},
	)
	return []sheet{months, summary}
}
