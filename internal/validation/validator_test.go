package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/standards"
)

func f64(v float64) *float64 { return &v }

func cls(c domain.CircuitClass) *domain.CircuitClass { return &c }

func newTestValidator() *Validator {
	rows := []domain.Standard{
		{
			TableVersion:    "test",
			MeasurementType: domain.MeasurementEarthLoop,
			MaxAcceptable:   f64(1.44),
			ReferenceLabel:  "BS 7671 Table 41.3 (generic)",
		},
		{
			TableVersion:    "test",
			MeasurementType: domain.MeasurementEarthLoop,
			CircuitClass:    cls(domain.CircuitClassShower),
			MaxAcceptable:   f64(1.09),
			ReferenceLabel:  "BS 7671 Table 41.3 (shower)",
		},
		{
			TableVersion:    "test",
			MeasurementType: domain.MeasurementProspectiveFault,
			MinAcceptable:   f64(0.5),
			MaxAcceptable:   f64(16),
			ReferenceLabel:  "PFC window",
		},
	}
	return NewValidator(standards.NewResolver(rows))
}

func TestValidateInsulation(t *testing.T) {
	v := newTestValidator()
	mains := CircuitContext{Class: domain.CircuitClassRingFinal, NominalVoltage: 230}

	res := v.Validate(Reading{Type: domain.MeasurementInsulation, Value: 0.45, Unit: "MOhm"}, mains)
	require.Equal(t, StatusFail, res.Status)
	require.False(t, res.Pass)

	res = v.Validate(Reading{Type: domain.MeasurementInsulation, Value: 1.5, Unit: "MOhm"}, mains)
	require.Equal(t, StatusWarning, res.Status)
	require.True(t, res.Pass)

	res = v.Validate(Reading{Type: domain.MeasurementInsulation, Value: 2.5, Unit: "MOhm"}, mains)
	require.Equal(t, StatusPass, res.Status)

	// SELV circuits use the lower floor.
	selv := CircuitContext{Class: domain.CircuitClassOther, NominalVoltage: 12}
	res = v.Validate(Reading{Type: domain.MeasurementInsulation, Value: 0.6, Unit: "MOhm"}, selv)
	require.Equal(t, StatusWarning, res.Status)
	require.True(t, res.Pass)

	res = v.Validate(Reading{Type: domain.MeasurementInsulation, Value: 0.4, Unit: "MOhm"}, selv)
	require.Equal(t, StatusFail, res.Status)
}

func TestValidateRCDTripTime(t *testing.T) {
	v := newTestValidator()
	cc := CircuitContext{Class: domain.CircuitClassSocket}

	res := v.Validate(Reading{Type: domain.MeasurementRCDTripTime, Value: 250, Unit: "ms", Multiplier: 1}, cc)
	require.Equal(t, StatusPass, res.Status)

	res = v.Validate(Reading{Type: domain.MeasurementRCDTripTime, Value: 280, Unit: "ms", Multiplier: 1}, cc)
	require.Equal(t, StatusWarning, res.Status)
	require.True(t, res.Pass)

	res = v.Validate(Reading{Type: domain.MeasurementRCDTripTime, Value: 310, Unit: "ms", Multiplier: 1}, cc)
	require.Equal(t, StatusFail, res.Status)

	res = v.Validate(Reading{Type: domain.MeasurementRCDTripTime, Value: 35, Unit: "ms", Multiplier: 5}, cc)
	require.Equal(t, StatusPass, res.Status)

	res = v.Validate(Reading{Type: domain.MeasurementRCDTripTime, Value: 38, Unit: "ms", Multiplier: 5}, cc)
	require.Equal(t, StatusWarning, res.Status)

	res = v.Validate(Reading{Type: domain.MeasurementRCDTripTime, Value: 45, Unit: "ms", Multiplier: 5}, cc)
	require.Equal(t, StatusFail, res.Status)
}

func TestValidateSupplyVoltage(t *testing.T) {
	v := newTestValidator()
	cc := CircuitContext{}

	// Window edges are inclusive and carry no warning band.
	for _, val := range []float64{216.2, 230, 253.0} {
		res := v.Validate(Reading{Type: domain.MeasurementSupplyVoltage, Value: val, Unit: "V"}, cc)
		require.Equal(t, StatusPass, res.Status, "value %g", val)
	}
	for _, val := range []float64{216.1, 254} {
		res := v.Validate(Reading{Type: domain.MeasurementSupplyVoltage, Value: val, Unit: "V"}, cc)
		require.Equal(t, StatusFail, res.Status, "value %g", val)
	}
}

func TestValidateContinuityPerClass(t *testing.T) {
	v := newTestValidator()

	cases := []struct {
		class  domain.CircuitClass
		value  float64
		status Status
	}{
		{domain.CircuitClassRingFinal, 0.04, StatusPass},
		{domain.CircuitClassRingFinal, 0.07, StatusWarning},
		{domain.CircuitClassRingFinal, 0.12, StatusFail},
		{domain.CircuitClassLighting, 0.25, StatusPass},
		{domain.CircuitClassLighting, 0.45, StatusWarning},
		{domain.CircuitClassLighting, 0.7, StatusFail},
		{domain.CircuitClassRadial, 0.35, StatusPass},
		{domain.CircuitClassSocket, 0.5, StatusWarning},
		{domain.CircuitClassCooker, 0.45, StatusPass},
		{domain.CircuitClassCooker, 1.2, StatusFail},
	}
	for _, c := range cases {
		res := v.Validate(Reading{Type: domain.MeasurementContinuity, Value: c.value, Unit: "Ohm"}, CircuitContext{Class: c.class})
		require.Equal(t, c.status, res.Status, "class %s value %g", c.class, c.value)
	}
}

func TestValidatePolarity(t *testing.T) {
	v := newTestValidator()
	cc := CircuitContext{}

	res := v.Validate(Reading{Type: domain.MeasurementPolarity, Value: 0}, cc)
	require.Equal(t, StatusFail, res.Status)

	res = v.Validate(Reading{Type: domain.MeasurementPolarity, Value: 1}, cc)
	require.Equal(t, StatusPass, res.Status)
}

func TestValidateAgainstTable(t *testing.T) {
	v := newTestValidator()

	// Shower row is more specific than the generic earth loop row.
	res := v.Validate(Reading{Type: domain.MeasurementEarthLoop, Value: 1.2, Unit: "Ohm"},
		CircuitContext{Class: domain.CircuitClassShower})
	require.Equal(t, StatusFail, res.Status)
	require.Equal(t, "BS 7671 Table 41.3 (shower)", res.Reference)

	res = v.Validate(Reading{Type: domain.MeasurementEarthLoop, Value: 1.2, Unit: "Ohm"},
		CircuitContext{Class: domain.CircuitClassRadial})
	require.Equal(t, StatusPass, res.Status)
	require.Equal(t, "BS 7671 Table 41.3 (generic)", res.Reference)

	// Inclusive max, then a warning inside 10% of it.
	res = v.Validate(Reading{Type: domain.MeasurementEarthLoop, Value: 1.44, Unit: "Ohm"},
		CircuitContext{Class: domain.CircuitClassRadial})
	require.Equal(t, StatusWarning, res.Status)
	require.True(t, res.Pass)

	res = v.Validate(Reading{Type: domain.MeasurementEarthLoop, Value: 1.45, Unit: "Ohm"},
		CircuitContext{Class: domain.CircuitClassRadial})
	require.Equal(t, StatusFail, res.Status)

	// Warning near the minimum bound as well.
	res = v.Validate(Reading{Type: domain.MeasurementProspectiveFault, Value: 0.52, Unit: "kA"},
		CircuitContext{})
	require.Equal(t, StatusWarning, res.Status)

	res = v.Validate(Reading{Type: domain.MeasurementProspectiveFault, Value: 6, Unit: "kA"},
		CircuitContext{})
	require.Equal(t, StatusPass, res.Status)
}

func TestValidateUnknownWhenNoStandardMatches(t *testing.T) {
	v := newTestValidator()

	res := v.Validate(Reading{Type: "unheard_of_measurement", Value: 1}, CircuitContext{})
	require.Equal(t, StatusUnknown, res.Status)
	require.False(t, res.Pass)
	require.NotEmpty(t, res.Message)
}

func TestValidateAllKeepsOrder(t *testing.T) {
	v := newTestValidator()
	cc := CircuitContext{Class: domain.CircuitClassRingFinal, NominalVoltage: 230}

	results := v.ValidateAll([]Reading{
		{Type: domain.MeasurementContinuity, Value: 0.04, Unit: "Ohm"},
		{Type: domain.MeasurementInsulation, Value: 5, Unit: "MOhm"},
		{Type: domain.MeasurementPolarity, Value: 1},
	}, cc)
	require.Len(t, results, 3)
	require.Equal(t, domain.MeasurementContinuity, results[0].Type)
	require.Equal(t, domain.MeasurementInsulation, results[1].Type)
	require.Equal(t, domain.MeasurementPolarity, results[2].Type)
}
