package domain

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to TestStatus }{
		{StatusDraft, StatusScheduled},
		{StatusDraft, StatusInProgress},
		{StatusScheduled, StatusInProgress},
		{StatusInProgress, StatusCompleted},
	}
	for _, c := range allowed {
		if !CanTransition(c.from, c.to) {
			t.Fatalf("expected %s -> %s to be allowed", c.from, c.to)
		}
	}

	denied := []struct{ from, to TestStatus }{
		{StatusDraft, StatusCompleted},
		{StatusScheduled, StatusCompleted},
		{StatusScheduled, StatusDraft},
		{StatusCompleted, StatusInProgress},
		{StatusCompleted, StatusDraft},
		{StatusInProgress, StatusScheduled},
	}
	for _, c := range denied {
		if CanTransition(c.from, c.to) {
			t.Fatalf("expected %s -> %s to be denied", c.from, c.to)
		}
	}
}

func TestRequiresFullCoverage(t *testing.T) {
	for _, typ := range []TestType{TestTypeInstallation, TestTypeConditionReport, TestTypeMinorWorks} {
		if !RequiresFullCoverage(typ) {
			t.Fatalf("expected %s to require full coverage", typ)
		}
	}
	if RequiresFullCoverage(TestTypePortableAppliance) {
		t.Fatalf("expected pat to be exempt from coverage")
	}
}

func TestDefaultNextInspectionMonths(t *testing.T) {
	cases := map[PremisesType]int{
		PremisesDomestic:   120,
		PremisesCommercial: 60,
		PremisesIndustrial: 12,
		PremisesOther:      12,
	}
	for premises, want := range cases {
		if got := DefaultNextInspectionMonths(premises); got != want {
			t.Fatalf("%s: expected %d months, got %d", premises, want, got)
		}
	}
}

func TestObservationCodeSeverityRank(t *testing.T) {
	if !(ObservationC1.SeverityRank() < ObservationC2.SeverityRank() &&
		ObservationC2.SeverityRank() < ObservationC3.SeverityRank() &&
		ObservationC3.SeverityRank() < ObservationFI.SeverityRank()) {
		t.Fatalf("severity ranks out of order")
	}
	if ObservationCode("C9").SeverityRank() <= ObservationFI.SeverityRank() {
		t.Fatalf("unknown code should rank last")
	}
	if ObservationC1.Description() == "" || ObservationFI.Description() == "" {
		t.Fatalf("known codes must carry descriptions")
	}
	if ObservationCode("C9").Description() != "" {
		t.Fatalf("unknown code must have empty description")
	}
}
