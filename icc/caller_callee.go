// Package icc implements ICCCallerInfo/ICCCalleeInfo and the per-component
// summary table of spec.md §4.2: once a dispatch site's target has been
// resolved (via intent.ExtractIntentContents or a messenger what-tag scan),
// it is recorded here so patchers can later look up, per component and
// channel, who calls into it and what it calls out to.
package icc

import (
	"fmt"

	"github.com/pathsentinel/icc/intent"
	"github.com/pathsentinel/icc/ir"
)

// Channel distinguishes the ICC delivery mechanisms a component summary
// tracks separately, per spec.md §4.2.
type Channel string

const (
	ChannelICC     Channel = "ICC"
	ChannelRPC     Channel = "RPC"
	ChannelStorage Channel = "STORAGE"
	ChannelStatic  Channel = "STATIC"
)

// CallerInfo is the sealed set of ICCCallerInfo variants.
type CallerInfo interface {
	Method() *ir.Method
	callerMarker()
}

// CalleeInfo is the sealed set of ICCCalleeInfo variants.
type CalleeInfo interface {
	Method() *ir.Method
	calleeMarker()
}

// IntentCaller records a dispatch site whose message object was an Intent,
// together with the content recovered for it by the intent package.
type IntentCaller struct {
	CallerMethod *ir.Method
	Stmt         *ir.Statement
	Content      *intent.Content
}

func (c IntentCaller) Method() *ir.Method { return c.CallerMethod }
func (IntentCaller) callerMarker()        {}

func (c IntentCaller) identity() string {
	return fmt.Sprintf("intent:%s@%d", c.CallerMethod.Ref().String(), c.Stmt.Index)
}

// MessengerCaller records a send-side dispatch site tagged with a Message
// `what` value.
type MessengerCaller struct {
	CallerMethod *ir.Method
	Stmt         *ir.Statement
	What         string
}

func (c MessengerCaller) Method() *ir.Method { return c.CallerMethod }
func (MessengerCaller) callerMarker()        {}

func (c MessengerCaller) identity() string {
	return fmt.Sprintf("messenger:%s@%d", c.CallerMethod.Ref().String(), c.Stmt.Index)
}

// IntentCallee records a component reached via a resolved (or manifest
// fallback) target class, together with the manifest-declared facts
// spec.md §3 requires alongside it: whether the component is exported, the
// permissions guarding it, and any IntentFilter it was reached through
// (populated for dynamic receiver registration; empty for manifest lookups
// that don't expose filter data at this layer).
type IntentCallee struct {
	CalleeMethod *ir.Method
	Component    string
	Exported     bool
	Permissions  []string
	Filters      []intent.IntentFilter
}

func (c IntentCallee) Method() *ir.Method { return c.CalleeMethod }
func (IntentCallee) calleeMarker()        {}

func (c IntentCallee) identity() string {
	return fmt.Sprintf("intent:%s:%s", c.Component, c.CalleeMethod.Ref().String())
}

// MessengerCallee records a handleMessage entry point, either reached via a
// `what`-tagged dispatch or recorded standalone for any body implementing
// Handler.handleMessage regardless of whether a send site resolved to it
// (spec.md §4.2's MessengerPatcher "handleMessage" match).
type MessengerCallee struct {
	CalleeMethod *ir.Method
	What         string
	Exported     bool
	Permissions  []string
}

func (c MessengerCallee) Method() *ir.Method { return c.CalleeMethod }
func (MessengerCallee) calleeMarker()        {}

func (c MessengerCallee) identity() string {
	return fmt.Sprintf("messenger:%s:%s", c.What, c.CalleeMethod.Ref().String())
}

type identifiable interface{ identity() string }
