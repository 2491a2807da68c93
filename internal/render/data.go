package render

import "time"

// Kind tags the certificate data variant. The renderer dispatches on this tag;
// each variant carries exactly the sections its document type needs.
type Kind string

const (
	KindInstallation    Kind = "installation_certificate"
	KindConditionReport Kind = "condition_report"
	KindMinorWorks      Kind = "minor_works"
)

// Data is the assembled certificate data model. Exactly one variant pointer is
// set, matching Kind.
type Data struct {
	Kind            Kind
	Installation    *InstallationData
	ConditionReport *ConditionReportData
	MinorWorks      *MinorWorksData
}

type Header struct {
	IssuerName           string
	IssuerRegistration   string
	CertificateNumber    string
	IssueDate            time.Time
	StandardsReference   string
}

type InstallationDetails struct {
	ClientName          string
	ClientAddress       string
	InstallationAddress string
	PremisesType        string
	Description         string
}

type Narrative struct {
	Extent              string
	ComplianceStatement string
	Departures          string
	Limitations         string
}

// CircuitResultRow is one row of the tabular test results. Values are
// preformatted by the assembler; the renderer only lays them out.
type CircuitResultRow struct {
	Reference     string
	Location      string
	Device        string
	ConductorSize string
	Continuity    string
	Insulation    string
	LoopImpedance string
	Polarity      string
	Verdict       string
}

type InspectionGroup struct {
	Category string
	Items    []InspectionItem
}

type InspectionItem struct {
	Item   string
	Result string
	Notes  string
}

type ObservationEntry struct {
	Code        string
	Severity    string
	Detail      string
	Location    string
}

type Declaration struct {
	Role         string
	Name         string
	Registration string
	Date         string
}

// InstallationData backs a full installation certificate: circuit schedule,
// inspection checklist and dual declaration blocks (designer and installer,
// which may be the same person).
type InstallationData struct {
	Header               Header
	Details              InstallationDetails
	Narrative            Narrative
	Results              []CircuitResultRow
	Inspections          []InspectionGroup
	Designer             Declaration
	Installer            Declaration
	NextInspectionMonths int
}

// ConditionReportData backs a condition report: schedule, checklist,
// severity-classified observations and a top-level outcome banner driven by
// the test's attested outcome, never recomputed here.
type ConditionReportData struct {
	Header               Header
	Details              InstallationDetails
	Narrative            Narrative
	Results              []CircuitResultRow
	Inspections          []InspectionGroup
	Observations         []ObservationEntry
	OutcomeBanner        string
	Satisfactory         bool
	Inspector            Declaration
	NextInspectionMonths int
}

// MinorWorksData backs a minor works certificate: a single circuit's results
// and a simplified single-signer declaration.
type MinorWorksData struct {
	Header      Header
	Details     InstallationDetails
	Description string
	Result      CircuitResultRow
	Signer      Declaration
}
