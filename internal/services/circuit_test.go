package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/pkg/ctxutil"
	"github.com/voltcert/voltcert-backend/internal/pkg/faults"
	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
	"github.com/voltcert/voltcert-backend/internal/validation"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	return log
}

func tenantCtx() context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
	})
}

func TestComputeVerdict(t *testing.T) {
	pass := validation.Result{Status: validation.StatusPass, Pass: true}
	warning := validation.Result{Status: validation.StatusWarning, Pass: true}
	fail := validation.Result{Status: validation.StatusFail}
	unknown := validation.Result{Status: validation.StatusUnknown}

	cases := []struct {
		name    string
		results []validation.Result
		want    domain.CircuitVerdict
	}{
		{"empty", nil, domain.VerdictNotTested},
		{"all pass", []validation.Result{pass, pass}, domain.VerdictSatisfactory},
		{"warning still satisfactory", []validation.Result{pass, warning}, domain.VerdictSatisfactory},
		{"one fail dominates", []validation.Result{pass, warning, fail}, domain.VerdictUnsatisfactory},
		{"fail beats unknown", []validation.Result{unknown, fail}, domain.VerdictUnsatisfactory},
		{"unknown blocks satisfactory", []validation.Result{pass, unknown}, domain.VerdictNotTested},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, ComputeVerdict(c.results))
		})
	}
}

func TestApplyMeasurementsGuards(t *testing.T) {
	svc := NewCircuitService(nil, testLogger(t), nil, nil, nil, nil)

	// Missing tenant context.
	_, _, err := svc.ApplyMeasurements(context.Background(), uuid.New(), ApplyMeasurementsInput{
		Readings: []validation.Reading{{Type: domain.MeasurementPolarity, Value: 1}},
	})
	require.Error(t, err)
	require.True(t, faults.IsCode(err, faults.CodeInvalidArgument))

	// Empty batch.
	_, _, err = svc.ApplyMeasurements(tenantCtx(), uuid.New(), ApplyMeasurementsInput{})
	require.Error(t, err)
	require.True(t, faults.IsCode(err, faults.CodeInvalidArgument))
}

func TestDefectNotes(t *testing.T) {
	results := []validation.Result{
		{Status: validation.StatusFail, Message: "polarity incorrect"},
		{Status: validation.StatusPass},
		{Status: validation.StatusFail, Message: "trip time too slow"},
	}
	extra := "  rcd casing cracked  "
	got := defectNotes(results, &extra)
	require.Equal(t, "polarity incorrect; trip time too slow; rcd casing cracked", got)

	require.Equal(t, "", defectNotes(nil, nil))
}
