package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/pkg/ctxutil"
	"github.com/voltcert/voltcert-backend/internal/pkg/faults"
	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
	"github.com/voltcert/voltcert-backend/internal/repos"
)

// ScheduleExportService produces a circuit schedule workbook for site use:
// inspectors fill paper or tablet copies from it while testing.
type ScheduleExportService interface {
	Export(ctx context.Context, testID uuid.UUID) (*bytes.Buffer, string, error)
}

type scheduleExportService struct {
	db       *gorm.DB
	log      *logger.Logger
	testRepo repos.TestRepo
}

func NewScheduleExportService(db *gorm.DB, log *logger.Logger, testRepo repos.TestRepo) ScheduleExportService {
	serviceLog := log.With("service", "ScheduleExportService")
	return &scheduleExportService{db: db, log: serviceLog, testRepo: testRepo}
}

var scheduleHeaders = []string{
	"No.", "Reference", "Location", "Class", "Device", "Rating (A)",
	"Conductor", "R1+R2 (Ohm)", "IR (MOhm)", "Zs (Ohm)", "RCD (ms)", "Polarity", "Verdict",
}

func (s *scheduleExportService) Export(ctx context.Context, testID uuid.UUID) (*bytes.Buffer, string, error) {
	const op = "ScheduleExportService.Export"

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TenantID == uuid.Nil {
		return nil, "", faults.InvalidArgument(op, "tenant context required")
	}

	test, err := s.testRepo.GetByID(ctx, nil, rd.TenantID, testID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Circuit Schedule"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err != nil {
		return nil, "", faults.New(faults.CodeInternal, op, "workbook style", err)
	}

	for col, h := range scheduleHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(scheduleHeaders), 1)
	f.SetCellStyle(sheet, "A1", endHeader, headerStyle)
	f.SetColWidth(sheet, "B", "C", 22)
	f.SetColWidth(sheet, "E", "E", 16)

	for i := range test.Circuits {
		c := &test.Circuits[i]
		byType := c.MeasurementByType()
		row := i + 2
		values := []any{
			c.Position,
			c.Reference,
			c.Location,
			string(c.Class),
			c.ProtectiveDeviceType,
			c.ProtectiveDeviceRating,
			c.ConductorSize,
			exportReading(byType[domain.MeasurementContinuity]),
			exportReading(byType[domain.MeasurementInsulation]),
			exportReading(byType[domain.MeasurementEarthLoop]),
			exportReading(byType[domain.MeasurementRCDTripTime]),
			formatPolarity(byType[domain.MeasurementPolarity]),
			verdictLabel(c.Verdict),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	if test.Type == domain.TestTypeConditionReport && len(test.Observations) > 0 {
		if err := writeObservationSheet(f, headerStyle, test.Observations); err != nil {
			return nil, "", faults.New(faults.CodeInternal, op, "observation sheet", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", faults.New(faults.CodeInternal, op, "workbook serialize", err)
	}

	filename := fmt.Sprintf("schedule-%s.xlsx", test.ID.String())
	return buf, filename, nil
}

// exportReading leaves the cell empty for untested values so the sheet can be
// filled in on site.
func exportReading(m *domain.Measurement) any {
	if m == nil {
		return ""
	}
	return m.Value
}

func writeObservationSheet(f *excelize.File, headerStyle int, observations []domain.Observation) error {
	const sheet = "Observations"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"No.", "Code", "Classification", "Detail", "Location"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", endHeader, headerStyle)
	f.SetColWidth(sheet, "C", "D", 40)

	for i, o := range observations {
		row := i + 2
		values := []any{o.Position, string(o.Code), o.Code.Description(), o.Detail, o.Location}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}
	return nil
}
