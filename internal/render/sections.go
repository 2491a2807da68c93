package render

import "fmt"

const (
	noticeRetention = "This certificate should be retained by the person ordering the work and made available to any person inspecting or undertaking further work on the electrical installation in the future."
	noticeValidity  = "This certificate is valid only when issued with the schedule of inspections and the schedule of test results to which it relates. Certificates with missing schedules are invalid."
	noticeCopy      = "Original certificates are issued to the person ordering the work. A duplicate may only be issued by the original certifying body and must be marked as such."
)

var resultColumns = []tableColumn{
	{Title: "Ref", Weight: 0.7},
	{Title: "Location", Weight: 1.6},
	{Title: "Device", Weight: 1.2},
	{Title: "Cond. size", Weight: 0.9},
	{Title: "R1+R2 (Ohm)", Weight: 1.0},
	{Title: "IR (MOhm)", Weight: 0.9},
	{Title: "Zs (Ohm)", Weight: 0.9},
	{Title: "Polarity", Weight: 0.8},
	{Title: "Result", Weight: 0.9},
}

func drawDocumentHeader(l *layout, title string, h Header) {
	l.dc.SetFontFace(l.faces.title)
	l.dc.DrawString(title, marginX, l.y+42)
	l.y += 64

	l.dc.SetFontFace(l.faces.body)
	l.dc.DrawString(h.IssuerName, marginX, l.y+20)
	right := fmt.Sprintf("Certificate no. %s", h.CertificateNumber)
	tw, _ := l.dc.MeasureString(right)
	l.dc.DrawString(right, pageWidth-marginX-tw, l.y+20)
	l.y += 30

	if h.IssuerRegistration != "" {
		l.dc.SetFontFace(l.faces.small)
		l.dc.DrawString(fmt.Sprintf("Registration: %s", h.IssuerRegistration), marginX, l.y+16)
	}
	l.dc.SetFontFace(l.faces.small)
	date := fmt.Sprintf("Date of issue: %s", h.IssueDate.Format("02 January 2006"))
	tw, _ = l.dc.MeasureString(date)
	l.dc.DrawString(date, pageWidth-marginX-tw, l.y+16)
	l.y += 26

	if h.StandardsReference != "" {
		l.dc.SetFontFace(l.faces.small)
		l.dc.DrawString(h.StandardsReference, marginX, l.y+16)
		l.y += 24
	}
	l.rule()
	l.spacer(8)
}

func drawDetails(l *layout, d InstallationDetails) {
	l.heading("Details of the client and installation")
	l.keyVal("Client", d.ClientName)
	l.keyVal("Client address", d.ClientAddress)
	l.keyVal("Installation address", d.InstallationAddress)
	l.keyVal("Premises", d.PremisesType)
	if d.Description != "" {
		l.keyVal("Description", d.Description)
	}
	l.spacer(12)
}

func drawNarrative(l *layout, n Narrative) {
	if n.Extent != "" {
		l.heading("Extent of the installation covered")
		l.para(l.faces.body, n.Extent, 28)
		l.spacer(12)
	}
	if n.ComplianceStatement != "" {
		l.heading("Compliance")
		l.para(l.faces.body, n.ComplianceStatement, 28)
		l.spacer(12)
	}
	if n.Departures != "" {
		l.heading("Departures from the wiring standard")
		l.para(l.faces.body, n.Departures, 28)
		l.spacer(12)
	}
	if n.Limitations != "" {
		l.heading("Agreed limitations")
		l.para(l.faces.body, n.Limitations, 28)
		l.spacer(12)
	}
}

func drawResults(l *layout, rows []CircuitResultRow) {
	l.heading("Schedule of test results")
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.Reference, r.Location, r.Device, r.ConductorSize,
			r.Continuity, r.Insulation, r.LoopImpedance, r.Polarity, r.Verdict,
		})
	}
	l.table(resultColumns, tableRows)
}

func drawInspections(l *layout, groups []InspectionGroup) {
	l.heading("Schedule of inspections")
	cols := []tableColumn{
		{Title: "Item", Weight: 3.0},
		{Title: "Result", Weight: 0.6},
		{Title: "Notes", Weight: 1.4},
	}
	for _, g := range groups {
		l.ensure(60)
		l.dc.SetFontFace(l.faces.bodyBold)
		l.dc.DrawString(g.Category, marginX, l.y+22)
		l.y += 32
		rows := make([][]string, 0, len(g.Items))
		for _, item := range g.Items {
			rows = append(rows, []string{item.Item, item.Result, item.Notes})
		}
		l.table(cols, rows)
	}
}

func drawObservations(l *layout, entries []ObservationEntry) {
	l.heading("Observations and recommendations")
	cols := []tableColumn{
		{Title: "Code", Weight: 0.5},
		{Title: "Classification", Weight: 1.6},
		{Title: "Observation", Weight: 2.4},
		{Title: "Location", Weight: 1.0},
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Code, e.Severity, e.Detail, e.Location})
	}
	l.table(cols, rows)
}

func drawDeclaration(l *layout, d Declaration) {
	const blockHeight = 150.0
	l.ensure(blockHeight)
	top := l.y
	l.dc.SetLineWidth(1)
	l.dc.DrawRectangle(marginX, top, l.contentWidth(), blockHeight)
	l.dc.Stroke()

	l.dc.SetFontFace(l.faces.bodyBold)
	l.dc.DrawString(d.Role, marginX+14, top+30)

	name := d.Name
	if name == "" {
		name = "______________________________"
	}
	reg := d.Registration
	if reg == "" {
		reg = "____________________"
	}
	date := d.Date
	if date == "" {
		date = "____________"
	}
	l.dc.SetFontFace(l.faces.body)
	l.dc.DrawString(fmt.Sprintf("Name: %s", name), marginX+14, top+64)
	l.dc.DrawString(fmt.Sprintf("Registration: %s", reg), marginX+14, top+94)
	l.dc.DrawString(fmt.Sprintf("Signature: ______________________________    Date: %s", date), marginX+14, top+124)
	l.y += blockHeight + 14
}

func drawNextInspection(l *layout, months int) {
	if months <= 0 {
		return
	}
	l.ensure(40)
	l.dc.SetFontFace(l.faces.bodyBold)
	l.dc.DrawString(fmt.Sprintf("Recommended date of next inspection: not more than %d months from the date of this certificate.", months), marginX, l.y+22)
	l.y += 36
}

func drawNotices(l *layout) {
	l.heading("Notes for the recipient")
	for _, notice := range []string{noticeRetention, noticeValidity, noticeCopy} {
		l.para(l.faces.small, notice, 24)
		l.spacer(10)
	}
}
