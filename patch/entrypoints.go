package patch

import "github.com/pathsentinel/icc/ir"

// Entry-point subsignatures recognized on target component classes. These
// mirror the Android component lifecycle callbacks a dispatch ultimately
// reaches; a bridge method's body is a single INVOKE of whichever of these
// the target class actually declares.
const (
	activityOnCreateSub  = "void onCreate(android.os.Bundle)"
	serviceOnStartSub    = "int onStartCommand(android.content.Intent,int,int)"
	serviceOnBindSub     = "android.os.IBinder onBind(android.content.Intent)"
	receiverOnReceiveSub = "void onReceive(android.content.Context,android.content.Intent)"
	handleMessageSub     = "void handleMessage(android.os.Message)"
	asyncTaskDoInBackSub = "java.lang.Object doInBackground(java.lang.Object[])"
	runnableRunSub       = "void run()"
)

// firstEntryPoint returns the first method in cls matching one of
// candidates, preferring earlier entries over later ones.
func firstEntryPoint(cls *ir.Class, candidates ...string) (*ir.Method, bool) {
	for _, sub := range candidates {
		if m, ok := cls.Method(sub); ok {
			return m, true
		}
	}
	return nil, false
}
