package standards

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voltcert/voltcert-backend/internal/domain"
)

func f64(v float64) *float64 { return &v }

func cls(c domain.CircuitClass) *domain.CircuitClass { return &c }

func TestResolvePrecedence(t *testing.T) {
	rows := []domain.Standard{
		{
			MeasurementType: domain.MeasurementEarthLoop,
			MaxAcceptable:   f64(5),
			ReferenceLabel:  "generic",
		},
		{
			MeasurementType: domain.MeasurementEarthLoop,
			CircuitClass:    cls(domain.CircuitClassShower),
			MaxAcceptable:   f64(2),
			ReferenceLabel:  "class",
		},
		{
			MeasurementType: domain.MeasurementEarthLoop,
			CircuitClass:    cls(domain.CircuitClassShower),
			CircuitRating:   f64(40),
			MaxAcceptable:   f64(1),
			ReferenceLabel:  "class+rating",
		},
	}
	r := NewResolver(rows)
	require.Equal(t, 3, r.Len())

	std, ok := r.Resolve(domain.MeasurementEarthLoop, domain.CircuitClassShower, 40)
	require.True(t, ok)
	require.Equal(t, "class+rating", std.ReferenceLabel)

	// Rating mismatch falls back to the class-only row, not the rated one.
	std, ok = r.Resolve(domain.MeasurementEarthLoop, domain.CircuitClassShower, 32)
	require.True(t, ok)
	require.Equal(t, "class", std.ReferenceLabel)

	std, ok = r.Resolve(domain.MeasurementEarthLoop, domain.CircuitClassLighting, 6)
	require.True(t, ok)
	require.Equal(t, "generic", std.ReferenceLabel)
}

func TestResolveNoMatch(t *testing.T) {
	r := NewResolver([]domain.Standard{
		{
			MeasurementType: domain.MeasurementEarthLoop,
			CircuitClass:    cls(domain.CircuitClassShower),
			MaxAcceptable:   f64(2),
			ReferenceLabel:  "class",
		},
	})

	_, ok := r.Resolve(domain.MeasurementEarthLoop, domain.CircuitClassLighting, 6)
	require.False(t, ok)

	_, ok = r.Resolve(domain.MeasurementProspectiveFault, domain.CircuitClassShower, 40)
	require.False(t, ok)
}

func TestParseSeed(t *testing.T) {
	raw := []byte(`
standards:
  - table_version: "2022.1"
    measurement_type: earth_loop_impedance
    circuit_class: shower
    circuit_rating: 40
    max_acceptable: 1.09
    reference_label: "BS 7671 Table 41.3"
  - table_version: "2022.1"
    measurement_type: prospective_fault_current
    min_acceptable: 0.5
    max_acceptable: 16
    reference_label: "PFC window"
`)
	rows, err := ParseSeed(raw)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, domain.MeasurementEarthLoop, rows[0].MeasurementType)
	require.NotNil(t, rows[0].CircuitClass)
	require.Equal(t, domain.CircuitClassShower, *rows[0].CircuitClass)
	require.Equal(t, 1.09, *rows[0].MaxAcceptable)
	require.Nil(t, rows[1].CircuitClass)
}

func TestParseSeedRejectsInvalidRows(t *testing.T) {
	_, err := ParseSeed([]byte(`
standards:
  - table_version: "2022.1"
    reference_label: "missing type"
    max_acceptable: 1
`))
	require.Error(t, err)

	_, err = ParseSeed([]byte(`
standards:
  - table_version: "2022.1"
    measurement_type: continuity
    reference_label: "no bounds"
`))
	require.Error(t, err)
}
