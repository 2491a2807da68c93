package render

import (
	"context"
	"fmt"
	"image"
)

// Renderer is a pure function from assembled certificate data to a paginated
// binary document. Output is deterministic for identical input, which keeps
// golden-file testing possible; nothing here touches the database or clock.
type Renderer struct {
	faces *faceSet
}

func NewRenderer() (*Renderer, error) {
	faces, err := newFaceSet()
	if err != nil {
		return nil, err
	}
	return &Renderer{faces: faces}, nil
}

// Render lays out the document for the data's kind, applies the page-N-of-M
// footer once total page count is known, and frames the pages into a PDF.
// Malformed assembled data fails loudly here, before any storage write.
func (r *Renderer) Render(ctx context.Context, d Data) ([]byte, error) {
	l := newLayout(r.faces)

	var number string
	switch d.Kind {
	case KindInstallation:
		if d.Installation == nil {
			return nil, fmt.Errorf("installation certificate data missing")
		}
		number = d.Installation.Header.CertificateNumber
		r.renderInstallation(l, d.Installation)
	case KindConditionReport:
		if d.ConditionReport == nil {
			return nil, fmt.Errorf("condition report data missing")
		}
		number = d.ConditionReport.Header.CertificateNumber
		r.renderConditionReport(l, d.ConditionReport)
	case KindMinorWorks:
		if d.MinorWorks == nil {
			return nil, fmt.Errorf("minor works data missing")
		}
		number = d.MinorWorks.Header.CertificateNumber
		r.renderMinorWorks(l, d.MinorWorks)
	default:
		return nil, fmt.Errorf("unknown certificate kind %q", d.Kind)
	}

	r.applyFooters(l, number)

	pages := make([]*image.RGBA, len(l.pages))
	for i, dc := range l.pages {
		rgba, ok := dc.Image().(*image.RGBA)
		if !ok {
			return nil, fmt.Errorf("page %d: unexpected image type", i+1)
		}
		pages[i] = rgba
	}
	return writePDF(ctx, pages)
}

func (r *Renderer) renderInstallation(l *layout, d *InstallationData) {
	drawDocumentHeader(l, "Electrical Installation Certificate", d.Header)
	drawDetails(l, d.Details)
	drawNarrative(l, d.Narrative)
	drawResults(l, d.Results)
	drawInspections(l, d.Inspections)
	drawNextInspection(l, d.NextInspectionMonths)
	l.heading("Declarations")
	drawDeclaration(l, d.Designer)
	drawDeclaration(l, d.Installer)
	drawNotices(l)
}

func (r *Renderer) renderConditionReport(l *layout, d *ConditionReportData) {
	drawDocumentHeader(l, "Electrical Installation Condition Report", d.Header)
	l.banner(d.OutcomeBanner, d.Satisfactory)
	drawDetails(l, d.Details)
	drawNarrative(l, d.Narrative)
	drawResults(l, d.Results)
	drawInspections(l, d.Inspections)
	if len(d.Observations) > 0 {
		drawObservations(l, d.Observations)
	}
	drawNextInspection(l, d.NextInspectionMonths)
	l.heading("Declaration")
	drawDeclaration(l, d.Inspector)
	drawNotices(l)
}

func (r *Renderer) renderMinorWorks(l *layout, d *MinorWorksData) {
	drawDocumentHeader(l, "Minor Electrical Installation Works Certificate", d.Header)
	drawDetails(l, d.Details)
	if d.Description != "" {
		l.heading("Description of the minor works")
		l.para(l.faces.body, d.Description, 28)
		l.spacer(12)
	}
	drawResults(l, []CircuitResultRow{d.Result})
	l.heading("Declaration")
	drawDeclaration(l, d.Signer)
	drawNotices(l)
}

// applyFooters runs as a final pass: total page count is not knowable until
// layout completes.
func (r *Renderer) applyFooters(l *layout, certificateNumber string) {
	total := len(l.pages)
	for i, dc := range l.pages {
		dc.SetFontFace(r.faces.small)
		dc.SetRGB(0, 0, 0)
		footer := fmt.Sprintf("Page %d of %d", i+1, total)
		tw, _ := dc.MeasureString(footer)
		dc.DrawString(footer, (pageWidth-tw)/2, pageHeight-34)
		if certificateNumber != "" {
			dc.DrawString(certificateNumber, marginX, pageHeight-34)
		}
	}
}
