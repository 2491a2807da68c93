package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/pkg/faults"
	"github.com/voltcert/voltcert-backend/internal/render"
)

const bsStandardsReference = "BS 7671:2018+A2:2022"

var certificateNumberPrefix = map[domain.TestType]string{
	domain.TestTypeInstallation:      "EIC",
	domain.TestTypeConditionReport:   "EICR",
	domain.TestTypeMinorWorks:        "MW",
	domain.TestTypePortableAppliance: "PAT",
}

// FormatCertificateNumber builds the human-facing certificate number from the
// per-(tenant, type) sequence, e.g. EIC-000042.
func FormatCertificateNumber(t domain.TestType, sequence int) string {
	prefix, ok := certificateNumberPrefix[t]
	if !ok {
		prefix = "CERT"
	}
	return fmt.Sprintf("%s-%06d", prefix, sequence)
}

// AssembleCertificateData flattens a completed test into the renderer's data
// model. Pure function of its inputs: no clock reads, no store access, so the
// same test always assembles to the same document.
func AssembleCertificateData(test *domain.Test, certificateNumber string, issueDate time.Time) (*render.Data, error) {
	const op = "AssembleCertificateData"

	if test == nil {
		return nil, faults.AssemblyError(op, "test is nil")
	}
	if test.Status != domain.StatusCompleted {
		return nil, faults.AssemblyError(op, "test is not completed")
	}
	if strings.TrimSpace(test.ClientName) == "" {
		return nil, faults.AssemblyError(op, "client name missing")
	}
	if strings.TrimSpace(test.InstallationAddress) == "" {
		return nil, faults.AssemblyError(op, "installation address missing")
	}
	if test.Outcome == nil {
		return nil, faults.AssemblyError(op, "test outcome missing")
	}
	if strings.TrimSpace(test.InspectorName) == "" {
		return nil, faults.AssemblyError(op, "inspector name missing")
	}

	header := render.Header{
		IssuerName:         test.InspectorName,
		IssuerRegistration: test.InspectorRegistration,
		CertificateNumber:  certificateNumber,
		IssueDate:          issueDate,
		StandardsReference: bsStandardsReference,
	}
	details := render.InstallationDetails{
		ClientName:          test.ClientName,
		ClientAddress:       test.ClientAddress,
		InstallationAddress: test.InstallationAddress,
		PremisesType:        string(test.PremisesType),
		Description:         test.Description,
	}

	switch test.Type {
	case domain.TestTypeInstallation:
		return assembleInstallation(test, header, details)
	case domain.TestTypeConditionReport:
		return assembleConditionReport(test, header, details)
	case domain.TestTypeMinorWorks:
		return assembleMinorWorks(test, header, details)
	case domain.TestTypePortableAppliance:
		return nil, faults.AssemblyError(op, "portable appliance tests have no certificate template")
	default:
		return nil, faults.AssemblyError(op, fmt.Sprintf("unknown test type %q", test.Type))
	}
}

func assembleInstallation(test *domain.Test, header render.Header, details render.InstallationDetails) (*render.Data, error) {
	const op = "AssembleCertificateData"

	if strings.TrimSpace(test.DesignerName) == "" {
		return nil, faults.AssemblyError(op, "designer name missing for installation certificate")
	}
	inspections, err := decodeInspections(test.Checklist)
	if err != nil {
		return nil, err
	}
	if len(inspections) == 0 {
		return nil, faults.AssemblyError(op, "inspection checklist missing for installation certificate")
	}

	date := header.IssueDate.Format("02 Jan 2006")
	return &render.Data{
		Kind: render.KindInstallation,
		Installation: &render.InstallationData{
			Header:  header,
			Details: details,
			Narrative: render.Narrative{
				Extent:              test.ExtentOfInspection,
				ComplianceStatement: "I being the person responsible for the design, construction, inspection and testing of the electrical installation, certify that the said work for which I have been responsible is to the best of my knowledge and belief in accordance with " + bsStandardsReference + ".",
				Limitations:         test.AgreedLimitations,
			},
			Results:     resultRows(test.Circuits),
			Inspections: inspections,
			Designer: render.Declaration{
				Role:         "Designer",
				Name:         test.DesignerName,
				Registration: test.DesignerRegistration,
				Date:         date,
			},
			Installer: render.Declaration{
				Role:         "Installer / Inspector",
				Name:         test.InspectorName,
				Registration: test.InspectorRegistration,
				Date:         date,
			},
			NextInspectionMonths: nextInspectionMonths(test),
		},
	}, nil
}

func assembleConditionReport(test *domain.Test, header render.Header, details render.InstallationDetails) (*render.Data, error) {
	const op = "AssembleCertificateData"

	if strings.TrimSpace(test.ExtentOfInspection) == "" {
		return nil, faults.AssemblyError(op, "extent of inspection missing for condition report")
	}
	inspections, err := decodeInspections(test.Checklist)
	if err != nil {
		return nil, err
	}
	if len(inspections) == 0 {
		return nil, faults.AssemblyError(op, "inspection checklist missing for condition report")
	}

	satisfactory := *test.Outcome == domain.OutcomeSatisfactory
	banner := "SATISFACTORY"
	if !satisfactory {
		banner = "UNSATISFACTORY"
		if *test.Outcome == domain.OutcomeRequiresImprovement {
			banner = "IMPROVEMENT REQUIRED"
		}
	}

	return &render.Data{
		Kind: render.KindConditionReport,
		ConditionReport: &render.ConditionReportData{
			Header:  header,
			Details: details,
			Narrative: render.Narrative{
				Extent:      test.ExtentOfInspection,
				Limitations: test.AgreedLimitations,
			},
			Results:       resultRows(test.Circuits),
			Inspections:   inspections,
			Observations:  observationEntries(test.Observations),
			OutcomeBanner: banner,
			Satisfactory:  satisfactory,
			Inspector: render.Declaration{
				Role:         "Inspector",
				Name:         test.InspectorName,
				Registration: test.InspectorRegistration,
				Date:         header.IssueDate.Format("02 Jan 2006"),
			},
			NextInspectionMonths: nextInspectionMonths(test),
		},
	}, nil
}

func assembleMinorWorks(test *domain.Test, header render.Header, details render.InstallationDetails) (*render.Data, error) {
	const op = "AssembleCertificateData"

	if len(test.Circuits) != 1 {
		return nil, faults.AssemblyError(op, fmt.Sprintf("minor works certificate requires exactly one circuit, got %d", len(test.Circuits)))
	}
	rows := resultRows(test.Circuits)
	return &render.Data{
		Kind: render.KindMinorWorks,
		MinorWorks: &render.MinorWorksData{
			Header:      header,
			Details:     details,
			Description: test.Description,
			Result:      rows[0],
			Signer: render.Declaration{
				Role:         "Inspector",
				Name:         test.InspectorName,
				Registration: test.InspectorRegistration,
				Date:         header.IssueDate.Format("02 Jan 2006"),
			},
		},
	}, nil
}

func nextInspectionMonths(test *domain.Test) int {
	if test.NextInspectionMonths != nil && *test.NextInspectionMonths > 0 {
		return *test.NextInspectionMonths
	}
	return domain.DefaultNextInspectionMonths(test.PremisesType)
}

// resultRows preformats one schedule row per circuit. Missing readings render
// as "N/T" (not tested) rather than being dropped.
func resultRows(circuits []domain.Circuit) []render.CircuitResultRow {
	rows := make([]render.CircuitResultRow, 0, len(circuits))
	for i := range circuits {
		c := &circuits[i]
		byType := c.MeasurementByType()
		device := strings.TrimSpace(c.ProtectiveDeviceType)
		if c.ProtectiveDeviceRating > 0 {
			device = strings.TrimSpace(fmt.Sprintf("%s %gA", device, c.ProtectiveDeviceRating))
		}
		rows = append(rows, render.CircuitResultRow{
			Reference:     c.Reference,
			Location:      c.Location,
			Device:        device,
			ConductorSize: c.ConductorSize,
			Continuity:    formatReading(byType[domain.MeasurementContinuity]),
			Insulation:    formatReading(byType[domain.MeasurementInsulation]),
			LoopImpedance: formatReading(byType[domain.MeasurementEarthLoop]),
			Polarity:      formatPolarity(byType[domain.MeasurementPolarity]),
			Verdict:       verdictLabel(c.Verdict),
		})
	}
	return rows
}

func formatReading(m *domain.Measurement) string {
	if m == nil {
		return "N/T"
	}
	return fmt.Sprintf("%g", m.Value)
}

func formatPolarity(m *domain.Measurement) string {
	if m == nil {
		return "N/T"
	}
	if m.Value == 0 {
		return "X"
	}
	return "OK"
}

func verdictLabel(v domain.CircuitVerdict) string {
	switch v {
	case domain.VerdictSatisfactory:
		return "Pass"
	case domain.VerdictUnsatisfactory:
		return "Fail"
	default:
		return "N/T"
	}
}

// observationEntries orders findings by severity (C1 first) then by recorded
// position, and attaches the regulatory wording for each code.
func observationEntries(observations []domain.Observation) []render.ObservationEntry {
	sorted := make([]domain.Observation, len(observations))
	copy(sorted, observations)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Code.SeverityRank() != sorted[j].Code.SeverityRank() {
			return sorted[i].Code.SeverityRank() < sorted[j].Code.SeverityRank()
		}
		return sorted[i].Position < sorted[j].Position
	})

	out := make([]render.ObservationEntry, 0, len(sorted))
	for _, o := range sorted {
		out = append(out, render.ObservationEntry{
			Code:     string(o.Code),
			Severity: o.Code.Description(),
			Detail:   o.Detail,
			Location: o.Location,
		})
	}
	return out
}

// decodeInspections rebuilds the grouped schedule of inspections from the JSON
// checklist stored on the test, preserving first-seen category order.
func decodeInspections(raw []byte) ([]render.InspectionGroup, error) {
	const op = "AssembleCertificateData"

	if len(raw) == 0 {
		return nil, nil
	}
	var items []domain.ChecklistItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, faults.AssemblyError(op, "stored checklist is not valid JSON")
	}

	order := []string{}
	grouped := map[string][]render.InspectionItem{}
	for _, item := range items {
		cat := item.Category
		if cat == "" {
			cat = "General"
		}
		if _, seen := grouped[cat]; !seen {
			order = append(order, cat)
		}
		grouped[cat] = append(grouped[cat], render.InspectionItem{
			Item:   item.Item,
			Result: item.Result,
			Notes:  item.Notes,
		})
	}

	groups := make([]render.InspectionGroup, 0, len(order))
	for _, cat := range order {
		groups = append(groups, render.InspectionGroup{Category: cat, Items: grouped[cat]})
	}
	return groups, nil
}
