package validation

import (
	"fmt"

	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/standards"
)

// Status classifies one reading against the applicable standard. A warning
// still counts as a pass for aggregation; unknown means no standard matched and
// indicates a data gap rather than a safety finding.
type Status string

const (
	StatusPass    Status = "pass"
	StatusWarning Status = "warning"
	StatusFail    Status = "fail"
	StatusUnknown Status = "unknown"
)

// Result is first-class data returned to the caller, never an error: the system
// records unsafe readings, it does not refuse them.
type Result struct {
	Type      domain.MeasurementType `json:"measurement_type"`
	Status    Status                 `json:"status"`
	Pass      bool                   `json:"pass"`
	Message   string                 `json:"message,omitempty"`
	Reference string                 `json:"reference_label,omitempty"`
	Min       *float64               `json:"min,omitempty"`
	Max       *float64               `json:"max,omitempty"`
	Actual    float64                `json:"actual"`
}

// Reading is one measured value with the context needed to pick a limit.
type Reading struct {
	Type       domain.MeasurementType
	Value      float64
	Unit       string
	Multiplier int // RCD rated-current multiple; 0 means 1x
}

// CircuitContext carries the circuit attributes that select the applicable
// standard for a reading.
type CircuitContext struct {
	Class          domain.CircuitClass
	DeviceRating   float64
	NominalVoltage float64
}

// Fixed domain constants. These are first-class regulatory rules, not
// configuration, and must be preserved exactly.
const (
	insulationMinLowVoltage  = 0.5 // MOhm, nominal voltage <= 50 V
	insulationMinMains       = 1.0 // MOhm
	insulationGoodCondition  = 2.0 // MOhm advisory threshold
	lowVoltageThreshold      = 50.0
	rcdMaxTripMs1x           = 300.0
	rcdMaxTripMs5x           = 40.0
	supplyVoltageMin         = 216.2 // UK nominal 230 V -6%
	supplyVoltageMax         = 253.0 // UK nominal 230 V +10%
	continuityCeilingRing    = 0.05
	continuityCeilingLights  = 0.3
	continuityCeilingRadial  = 0.4
	continuityCeilingDefault = 0.5
	warningBandFraction      = 0.1
)

type Validator struct {
	resolver *standards.Resolver
}

func NewValidator(resolver *standards.Resolver) *Validator {
	return &Validator{resolver: resolver}
}

// Validate classifies one reading. Special-cased measurement types apply fixed
// domain rules; everything else falls through to the standards table.
func (v *Validator) Validate(r Reading, cc CircuitContext) Result {
	switch r.Type {
	case domain.MeasurementPolarity:
		return validatePolarity(r)
	case domain.MeasurementInsulation:
		return validateInsulation(r, cc)
	case domain.MeasurementRCDTripTime:
		return validateRCDTripTime(r)
	case domain.MeasurementSupplyVoltage:
		return validateSupplyVoltage(r)
	case domain.MeasurementContinuity:
		return validateContinuity(r, cc)
	}
	return v.validateAgainstTable(r, cc)
}

// ValidateAll classifies every reading in the slice with the same context.
func (v *Validator) ValidateAll(readings []Reading, cc CircuitContext) []Result {
	out := make([]Result, 0, len(readings))
	for _, r := range readings {
		out = append(out, v.Validate(r, cc))
	}
	return out
}

func (v *Validator) validateAgainstTable(r Reading, cc CircuitContext) Result {
	std, ok := v.resolver.Resolve(r.Type, cc.Class, cc.DeviceRating)
	if !ok {
		return Result{
			Type:    r.Type,
			Status:  StatusUnknown,
			Message: fmt.Sprintf("no standard matched %s for class %q rating %g", r.Type, cc.Class, cc.DeviceRating),
			Actual:  r.Value,
		}
	}

	res := Result{
		Type:      r.Type,
		Reference: std.ReferenceLabel,
		Min:       std.MinAcceptable,
		Max:       std.MaxAcceptable,
		Actual:    r.Value,
	}

	// Bounds are inclusive: a value exactly at min or max passes.
	if std.MinAcceptable != nil && r.Value < *std.MinAcceptable {
		res.Status = StatusFail
		res.Message = fmt.Sprintf("%g %s below minimum %g (%s)", r.Value, r.Unit, *std.MinAcceptable, std.ReferenceLabel)
		return res
	}
	if std.MaxAcceptable != nil && r.Value > *std.MaxAcceptable {
		res.Status = StatusFail
		res.Message = fmt.Sprintf("%g %s above maximum %g (%s)", r.Value, r.Unit, *std.MaxAcceptable, std.ReferenceLabel)
		return res
	}
	if std.MinAcceptable != nil && r.Value < *std.MinAcceptable*(1+warningBandFraction) {
		res.Status = StatusWarning
		res.Pass = true
		res.Message = fmt.Sprintf("%g %s within 10%% of minimum %g", r.Value, r.Unit, *std.MinAcceptable)
		return res
	}
	if std.MaxAcceptable != nil && r.Value > *std.MaxAcceptable*(1-warningBandFraction) {
		res.Status = StatusWarning
		res.Pass = true
		res.Message = fmt.Sprintf("%g %s within 10%% of maximum %g", r.Value, r.Unit, *std.MaxAcceptable)
		return res
	}
	res.Status = StatusPass
	res.Pass = true
	return res
}

// Binary polarity check: incorrect polarity is an automatic fail with no
// numeric validation. Value 1 records correct polarity, 0 incorrect.
func validatePolarity(r Reading) Result {
	res := Result{Type: r.Type, Reference: "BS 7671 643.6", Actual: r.Value}
	if r.Value == 0 {
		res.Status = StatusFail
		res.Message = "polarity incorrect"
		return res
	}
	res.Status = StatusPass
	res.Pass = true
	return res
}

func validateInsulation(r Reading, cc CircuitContext) Result {
	min := insulationMinMains
	if cc.NominalVoltage > 0 && cc.NominalVoltage <= lowVoltageThreshold {
		min = insulationMinLowVoltage
	}
	res := Result{
		Type:      r.Type,
		Reference: "BS 7671 Table 64",
		Min:       ptr(min),
		Actual:    r.Value,
	}
	if r.Value < min {
		res.Status = StatusFail
		res.Message = fmt.Sprintf("%g MOhm below minimum insulation resistance %g MOhm", r.Value, min)
		return res
	}
	if r.Value < insulationGoodCondition {
		res.Status = StatusWarning
		res.Pass = true
		res.Message = fmt.Sprintf("%g MOhm above minimum but below good-condition threshold %g MOhm", r.Value, insulationGoodCondition)
		return res
	}
	res.Status = StatusPass
	res.Pass = true
	return res
}

func validateRCDTripTime(r Reading) Result {
	max := rcdMaxTripMs1x
	ref := "BS 7671 643.8 (1x In)"
	if r.Multiplier >= 5 {
		max = rcdMaxTripMs5x
		ref = "BS 7671 643.8 (5x In)"
	}
	res := Result{Type: r.Type, Reference: ref, Max: ptr(max), Actual: r.Value}
	if r.Value > max {
		res.Status = StatusFail
		res.Message = fmt.Sprintf("trip time %g ms exceeds maximum %g ms", r.Value, max)
		return res
	}
	if r.Value > max*(1-warningBandFraction) {
		res.Status = StatusWarning
		res.Pass = true
		res.Message = fmt.Sprintf("trip time %g ms within 10%% of maximum %g ms", r.Value, max)
		return res
	}
	res.Status = StatusPass
	res.Pass = true
	return res
}

// UK nominal 230 V window is -6%/+10%. Outside is a fail; no warning band.
func validateSupplyVoltage(r Reading) Result {
	res := Result{
		Type:      r.Type,
		Reference: "ESQCR nominal voltage",
		Min:       ptr(supplyVoltageMin),
		Max:       ptr(supplyVoltageMax),
		Actual:    r.Value,
	}
	if r.Value < supplyVoltageMin || r.Value > supplyVoltageMax {
		res.Status = StatusFail
		res.Message = fmt.Sprintf("supply voltage %g V outside %g-%g V window", r.Value, supplyVoltageMin, supplyVoltageMax)
		return res
	}
	res.Status = StatusPass
	res.Pass = true
	return res
}

func continuityCeiling(class domain.CircuitClass) float64 {
	switch class {
	case domain.CircuitClassRingFinal:
		return continuityCeilingRing
	case domain.CircuitClassLighting:
		return continuityCeilingLights
	case domain.CircuitClassRadial, domain.CircuitClassSocket:
		return continuityCeilingRadial
	default:
		return continuityCeilingDefault
	}
}

func validateContinuity(r Reading, cc CircuitContext) Result {
	ceiling := continuityCeiling(cc.Class)
	res := Result{
		Type:      r.Type,
		Reference: "R1+R2 expected ceiling",
		Max:       ptr(ceiling),
		Actual:    r.Value,
	}
	switch {
	case r.Value > 2*ceiling:
		res.Status = StatusFail
		res.Message = fmt.Sprintf("R1+R2 %g Ohm above twice expected ceiling %g Ohm", r.Value, ceiling)
	case r.Value > ceiling:
		res.Status = StatusWarning
		res.Pass = true
		res.Message = fmt.Sprintf("R1+R2 %g Ohm above expected ceiling %g Ohm", r.Value, ceiling)
	default:
		res.Status = StatusPass
		res.Pass = true
	}
	return res
}

func ptr(v float64) *float64 { return &v }
