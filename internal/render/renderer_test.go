package render

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleHeader() Header {
	return Header{
		IssuerName:         "J Sparks",
		IssuerRegistration: "NICEIC 12345",
		CertificateNumber:  "EIC-000001",
		IssueDate:          time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		StandardsReference: "BS 7671:2018+A2:2022",
	}
}

func sampleDetails() InstallationDetails {
	return InstallationDetails{
		ClientName:          "A Client",
		ClientAddress:       "1 Client Road",
		InstallationAddress: "2 Install Street",
		PremisesType:        "domestic",
		Description:         "Full rewire",
	}
}

func sampleRow(ref string) CircuitResultRow {
	return CircuitResultRow{
		Reference:     ref,
		Location:      "Kitchen",
		Device:        "MCB Type B 32A",
		ConductorSize: "2.5mm",
		Continuity:    "0.04",
		Insulation:    "200",
		LoopImpedance: "0.35",
		Polarity:      "OK",
		Verdict:       "Pass",
	}
}

func sampleInstallation(rows int) *InstallationData {
	results := make([]CircuitResultRow, 0, rows)
	for i := 0; i < rows; i++ {
		results = append(results, sampleRow(fmt.Sprintf("C%d", i+1)))
	}
	return &InstallationData{
		Header:    sampleHeader(),
		Details:   sampleDetails(),
		Narrative: Narrative{Extent: "Whole installation", ComplianceStatement: "Certified."},
		Results:   results,
		Inspections: []InspectionGroup{
			{Category: "Consumer unit", Items: []InspectionItem{
				{Item: "Condition of enclosure", Result: "acceptable"},
				{Item: "Security of fixing", Result: "acceptable", Notes: "resecured"},
			}},
		},
		Designer:             Declaration{Role: "Designer", Name: "D Draft", Registration: "NICEIC 67890", Date: "14 Mar 2026"},
		Installer:            Declaration{Role: "Installer / Inspector", Name: "J Sparks", Registration: "NICEIC 12345", Date: "14 Mar 2026"},
		NextInspectionMonths: 120,
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	doc, err := r.Render(context.Background(), Data{Kind: KindInstallation, Installation: sampleInstallation(3)})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(doc, []byte("%PDF-1.4")))
	require.True(t, bytes.HasSuffix(doc, []byte("%%EOF\n")))
}

// Identical input must produce byte-identical output; the document bytes feed
// content-addressed storage and golden comparisons.
func TestRenderDeterministic(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	data := Data{Kind: KindInstallation, Installation: sampleInstallation(5)}
	first, err := r.Render(context.Background(), data)
	require.NoError(t, err)
	second, err := r.Render(context.Background(), data)
	require.NoError(t, err)
	require.True(t, bytes.Equal(first, second))
}

func TestRenderPaginatesLongSchedules(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	short, err := r.Render(context.Background(), Data{Kind: KindInstallation, Installation: sampleInstallation(2)})
	require.NoError(t, err)
	long, err := r.Render(context.Background(), Data{Kind: KindInstallation, Installation: sampleInstallation(80)})
	require.NoError(t, err)

	shortPages := bytes.Count(short, []byte("/Type /Page "))
	longPages := bytes.Count(long, []byte("/Type /Page "))
	require.GreaterOrEqual(t, shortPages, 1)
	require.Greater(t, longPages, shortPages)
}

func TestRenderRejectsMismatchedVariant(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, err = r.Render(context.Background(), Data{Kind: KindConditionReport})
	require.Error(t, err)

	_, err = r.Render(context.Background(), Data{Kind: "unknown"})
	require.Error(t, err)
}

func TestRenderMinorWorks(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	doc, err := r.Render(context.Background(), Data{
		Kind: KindMinorWorks,
		MinorWorks: &MinorWorksData{
			Header:      sampleHeader(),
			Details:     sampleDetails(),
			Description: "Replaced damaged socket front in hallway",
			Result:      sampleRow("C1"),
			Signer:      Declaration{Role: "Inspector", Name: "J Sparks", Registration: "NICEIC 12345", Date: "14 Mar 2026"},
		},
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(doc, []byte("%PDF-1.4")))
}

func TestRenderConditionReport(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	inst := sampleInstallation(3)
	doc, err := r.Render(context.Background(), Data{
		Kind: KindConditionReport,
		ConditionReport: &ConditionReportData{
			Header:      sampleHeader(),
			Details:     sampleDetails(),
			Narrative:   Narrative{Extent: "Whole installation"},
			Results:     inst.Results,
			Inspections: inst.Inspections,
			Observations: []ObservationEntry{
				{Code: "C1", Severity: "Danger present", Detail: "Exposed live busbar", Location: "Garage"},
				{Code: "C3", Severity: "Improvement recommended", Detail: "No RCD on lighting"},
			},
			OutcomeBanner:        "UNSATISFACTORY",
			Satisfactory:         false,
			Inspector:            Declaration{Role: "Inspector", Name: "J Sparks", Date: "14 Mar 2026"},
			NextInspectionMonths: 60,
		},
	})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(doc, []byte("%PDF-1.4")))
}
