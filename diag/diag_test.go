package diag_test

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathsentinel/icc/diag"
	"github.com/pathsentinel/icc/ir"
)

func TestCollector_CountKind(t *testing.T) {
	var c diag.Collector
	c.Report(diag.Diagnostic{Kind: diag.ResolutionIncomplete, Detail: "a"})
	c.Report(diag.Diagnostic{Kind: diag.ResolutionIncomplete, Detail: "b"})
	c.Report(diag.Diagnostic{Kind: diag.MissingBody, Detail: "c"})

	assert.Equal(t, 2, c.CountKind(diag.ResolutionIncomplete))
	assert.Equal(t, 1, c.CountKind(diag.MissingBody))
	assert.Equal(t, 0, c.CountKind(diag.BoundExceeded))
	assert.Len(t, c.Diagnostics, 3)
}

func TestNopSink_DiscardsEverything(t *testing.T) {
	assert.NotPanics(t, func() {
		diag.NopSink{}.Report(diag.Diagnostic{Kind: diag.MissingBody})
	})
}

func TestInvariantViolation_Error(t *testing.T) {
	err := &diag.InvariantViolation{Detail: "bridge method had no body"}
	assert.Contains(t, err.Error(), "bridge method had no body")
}

func TestLogrusSink_ReportsOneEntryPerDiagnosticWithFields(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sink := diag.NewLogrusSink(logger)

	m := ir.NewMethod("onReceive", "void", "android.content.Intent")
	m.DeclaringClass = ir.NewClass("com.example.Receiver", ir.OriginApplication)
	stmt := &ir.Statement{Index: 3}

	sink.Report(diag.Diagnostic{Kind: diag.ResolutionIncomplete, Method: m, Stmt: stmt, Detail: "could not resolve intent"})

	require.Len(t, hook.Entries, 1)
	entry := hook.Entries[0]
	assert.Equal(t, "could not resolve intent", entry.Message)
	assert.Equal(t, diag.ResolutionIncomplete, entry.Data["kind"])
	assert.Equal(t, m.Ref().String(), entry.Data["method"])
	assert.Equal(t, 3, entry.Data["stmt"])
}

func TestLogrusSink_BoundExceededLogsAtWarn(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sink := diag.NewLogrusSink(logger)

	sink.Report(diag.Diagnostic{Kind: diag.BoundExceeded, Detail: "depth bound hit"})

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, hook.Entries[0].Level.String(), "warning")
}
