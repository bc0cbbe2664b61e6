package icc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathsentinel/icc/icc"
	"github.com/pathsentinel/icc/ir"
)

func TestSummaryTable_AddCaller_DedupsByIdentity(t *testing.T) {
	table := icc.NewSummaryTable()
	caller := ir.NewMethod("run", "void")
	stmt := &ir.Statement{Index: 3}

	info := icc.IntentCaller{CallerMethod: caller, Stmt: stmt}
	table.Component("com.example.TestService").AddCaller(icc.ChannelICC, info)
	table.Component("com.example.TestService").AddCaller(icc.ChannelICC, info)

	callers := table.Component("com.example.TestService").Callers(icc.ChannelICC)
	require.Len(t, callers, 1, "re-adding the same call site must not double-count it")
}

func TestSummaryTable_ChannelsAreIndependent(t *testing.T) {
	table := icc.NewSummaryTable()
	caller := ir.NewMethod("run", "void")
	stmt := &ir.Statement{Index: 0}

	table.Component("com.example.Handler").AddCaller(icc.ChannelICC, icc.MessengerCaller{CallerMethod: caller, Stmt: stmt, What: "1"})

	assert.Len(t, table.Component("com.example.Handler").Callers(icc.ChannelICC), 1)
	assert.Empty(t, table.Component("com.example.Handler").Callers(icc.ChannelRPC))
}

func TestSummaryTable_ComponentIsCreatedOnFirstAccess(t *testing.T) {
	table := icc.NewSummaryTable()
	assert.Empty(t, table.Components())

	table.Component("com.example.Foo")
	require.Len(t, table.Components(), 1)
	assert.Equal(t, "com.example.Foo", table.Components()[0].Name)
}
