package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/pkg/faults"
	"github.com/voltcert/voltcert-backend/internal/render"
)

func outcomePtr(o domain.TestOutcome) *domain.TestOutcome { return &o }

func checklistJSON(t *testing.T) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal([]domain.ChecklistItem{
		{Category: "Consumer unit", Item: "Condition of enclosure", Result: "acceptable"},
		{Category: "Consumer unit", Item: "Security of fixing", Result: "acceptable"},
		{Category: "Wiring", Item: "Condition of visible cables", Result: "acceptable", Notes: "minor discolouration"},
	})
	require.NoError(t, err)
	return datatypes.JSON(raw)
}

func completedTest(t *testing.T, typ domain.TestType) *domain.Test {
	t.Helper()
	circuit := domain.Circuit{
		ID:                     uuid.New(),
		Position:               1,
		Reference:              "C1",
		Location:               "Kitchen",
		Class:                  domain.CircuitClassRingFinal,
		ProtectiveDeviceType:   "MCB Type B",
		ProtectiveDeviceRating: 32,
		NominalVoltage:         230,
		ConductorSize:          "2.5mm",
		Verdict:                domain.VerdictSatisfactory,
		Measurements: []domain.Measurement{
			{Type: domain.MeasurementContinuity, Value: 0.04, Unit: "Ohm"},
			{Type: domain.MeasurementInsulation, Value: 200, Unit: "MOhm"},
			{Type: domain.MeasurementPolarity, Value: 1},
		},
	}
	return &domain.Test{
		ID:                    uuid.New(),
		Type:                  typ,
		Status:                domain.StatusCompleted,
		Outcome:               outcomePtr(domain.OutcomeSatisfactory),
		PremisesType:          domain.PremisesDomestic,
		ClientName:            "A Client",
		ClientAddress:         "1 Client Road",
		InstallationAddress:   "2 Install Street",
		Description:           "Full rewire",
		ExtentOfInspection:    "Whole installation",
		InspectorName:         "J Sparks",
		InspectorRegistration: "NICEIC 12345",
		DesignerName:          "D Draft",
		DesignerRegistration:  "NICEIC 67890",
		Checklist:             checklistJSON(t),
		Circuits:              []domain.Circuit{circuit},
	}
}

func TestFormatCertificateNumber(t *testing.T) {
	require.Equal(t, "EIC-000042", FormatCertificateNumber(domain.TestTypeInstallation, 42))
	require.Equal(t, "EICR-000001", FormatCertificateNumber(domain.TestTypeConditionReport, 1))
	require.Equal(t, "MW-000007", FormatCertificateNumber(domain.TestTypeMinorWorks, 7))
	require.Equal(t, "PAT-000100", FormatCertificateNumber(domain.TestTypePortableAppliance, 100))
}

func TestAssembleInstallation(t *testing.T) {
	test := completedTest(t, domain.TestTypeInstallation)
	issue := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	data, err := AssembleCertificateData(test, "EIC-000001", issue)
	require.NoError(t, err)
	require.Equal(t, render.KindInstallation, data.Kind)
	require.NotNil(t, data.Installation)

	d := data.Installation
	require.Equal(t, "EIC-000001", d.Header.CertificateNumber)
	require.Equal(t, "J Sparks", d.Header.IssuerName)
	require.Len(t, d.Results, 1)
	require.Equal(t, "C1", d.Results[0].Reference)
	require.Equal(t, "MCB Type B 32A", d.Results[0].Device)
	require.Equal(t, "0.04", d.Results[0].Continuity)
	require.Equal(t, "N/T", d.Results[0].LoopImpedance)
	require.Equal(t, "OK", d.Results[0].Polarity)
	require.Equal(t, "Pass", d.Results[0].Verdict)

	// Checklist grouped by category in first-seen order.
	require.Len(t, d.Inspections, 2)
	require.Equal(t, "Consumer unit", d.Inspections[0].Category)
	require.Len(t, d.Inspections[0].Items, 2)

	require.Equal(t, "D Draft", d.Designer.Name)
	require.Equal(t, "J Sparks", d.Installer.Name)
	require.Equal(t, "14 Mar 2026", d.Designer.Date)

	// Domestic default interval applies when no override is set.
	require.Equal(t, 120, d.NextInspectionMonths)
}

func TestAssembleConditionReport(t *testing.T) {
	test := completedTest(t, domain.TestTypeConditionReport)
	test.Outcome = outcomePtr(domain.OutcomeUnsatisfactory)
	test.Observations = []domain.Observation{
		{Position: 1, Code: domain.ObservationC3, Detail: "No RCD on lighting"},
		{Position: 2, Code: domain.ObservationC1, Detail: "Exposed live busbar", Location: "Garage"},
		{Position: 3, Code: domain.ObservationC2, Detail: "Damaged socket front"},
	}
	months := 60
	test.NextInspectionMonths = &months

	data, err := AssembleCertificateData(test, "EICR-000002", time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, render.KindConditionReport, data.Kind)

	d := data.ConditionReport
	require.False(t, d.Satisfactory)
	require.Equal(t, "UNSATISFACTORY", d.OutcomeBanner)
	require.Equal(t, 60, d.NextInspectionMonths)

	// Severity order: C1 before C2 before C3.
	require.Len(t, d.Observations, 3)
	require.Equal(t, "C1", d.Observations[0].Code)
	require.Equal(t, "C2", d.Observations[1].Code)
	require.Equal(t, "C3", d.Observations[2].Code)
	require.NotEmpty(t, d.Observations[0].Severity)
}

func TestAssembleConditionReportBanner(t *testing.T) {
	test := completedTest(t, domain.TestTypeConditionReport)
	test.Outcome = outcomePtr(domain.OutcomeRequiresImprovement)

	data, err := AssembleCertificateData(test, "EICR-000003", time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, "IMPROVEMENT REQUIRED", data.ConditionReport.OutcomeBanner)
	require.False(t, data.ConditionReport.Satisfactory)
}

func TestAssembleMinorWorks(t *testing.T) {
	test := completedTest(t, domain.TestTypeMinorWorks)

	data, err := AssembleCertificateData(test, "MW-000001", time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, render.KindMinorWorks, data.Kind)
	require.Equal(t, "C1", data.MinorWorks.Result.Reference)
	require.Equal(t, "J Sparks", data.MinorWorks.Signer.Name)

	// Minor works covers exactly one circuit.
	test.Circuits = append(test.Circuits, domain.Circuit{Reference: "C2"})
	_, err = AssembleCertificateData(test, "MW-000002", time.Now().UTC())
	require.True(t, faults.IsCode(err, faults.CodeAssemblyError))
}

func TestAssembleRejectsIncompleteData(t *testing.T) {
	issue := time.Now().UTC()

	for name, mutate := range map[string]func(*domain.Test){
		"not completed":     func(tt *domain.Test) { tt.Status = domain.StatusInProgress },
		"missing client":    func(tt *domain.Test) { tt.ClientName = "" },
		"missing address":   func(tt *domain.Test) { tt.InstallationAddress = "" },
		"missing outcome":   func(tt *domain.Test) { tt.Outcome = nil },
		"missing inspector": func(tt *domain.Test) { tt.InspectorName = "" },
		"missing designer":  func(tt *domain.Test) { tt.DesignerName = "" },
		"missing checklist": func(tt *domain.Test) { tt.Checklist = nil },
	} {
		t.Run(name, func(t *testing.T) {
			test := completedTest(t, domain.TestTypeInstallation)
			mutate(test)
			_, err := AssembleCertificateData(test, "EIC-000009", issue)
			require.Error(t, err)
			require.True(t, faults.IsCode(err, faults.CodeAssemblyError), "got %v", err)
		})
	}
}

func TestAssemblePortableApplianceHasNoTemplate(t *testing.T) {
	test := completedTest(t, domain.TestTypePortableAppliance)
	_, err := AssembleCertificateData(test, "PAT-000001", time.Now().UTC())
	require.True(t, faults.IsCode(err, faults.CodeAssemblyError))
}

func TestAssembleEICRRequiresExtent(t *testing.T) {
	test := completedTest(t, domain.TestTypeConditionReport)
	test.ExtentOfInspection = ""
	_, err := AssembleCertificateData(test, "EICR-000004", time.Now().UTC())
	require.True(t, faults.IsCode(err, faults.CodeAssemblyError))
}
