package payment

// AttemptStatus is the canonical state of one payment attempt at a connector.
type AttemptStatus string

const (
	AttemptStatusStarted               AttemptStatus = "started"
	AttemptStatusAuthenticationPending AttemptStatus = "authentication_pending"
	AttemptStatusAuthorized            AttemptStatus = "authorized"
	AttemptStatusCharged               AttemptStatus = "charged"
	AttemptStatusVoided                AttemptStatus = "voided"
	AttemptStatusCaptureInitiated      AttemptStatus = "capture_initiated"
	AttemptStatusPartialCharged        AttemptStatus = "partial_charged"
	AttemptStatusPending               AttemptStatus = "pending"
	AttemptStatusFailure               AttemptStatus = "failure"
	AttemptStatusAuthorizationFailed   AttemptStatus = "authorization_failed"
	AttemptStatusCaptureFailed         AttemptStatus = "capture_failed"
	AttemptStatusVoidFailed            AttemptStatus = "void_failed"
	AttemptStatusRouterDeclined        AttemptStatus = "router_declined"
)

// AttemptStatuses lists every canonical attempt status.
var AttemptStatuses = []AttemptStatus{
	AttemptStatusStarted,
	AttemptStatusAuthenticationPending,
	AttemptStatusAuthorized,
	AttemptStatusCharged,
	AttemptStatusVoided,
	AttemptStatusCaptureInitiated,
	AttemptStatusPartialCharged,
	AttemptStatusPending,
	AttemptStatusFailure,
	AttemptStatusAuthorizationFailed,
	AttemptStatusCaptureFailed,
	AttemptStatusVoidFailed,
	AttemptStatusRouterDeclined,
}

// RefundStatus is the canonical state of a refund at a connector.
type RefundStatus string

const (
	RefundStatusPending RefundStatus = "pending"
	RefundStatusSuccess RefundStatus = "success"
	RefundStatusFailure RefundStatus = "failure"
)

var RefundStatuses = []RefundStatus{
	RefundStatusPending,
	RefundStatusSuccess,
	RefundStatusFailure,
}

// CaptureMethod says when funds move after authorization. The zero value is
// "unspecified" and behaves as CaptureMethodAutomatic.
type CaptureMethod string

const (
	CaptureMethodAutomatic      CaptureMethod = "automatic"
	CaptureMethodManual         CaptureMethod = "manual"
	CaptureMethodManualMultiple CaptureMethod = "manual_multiple"
	CaptureMethodScheduled      CaptureMethod = "scheduled"
)

var CaptureMethods = []CaptureMethod{
	CaptureMethodAutomatic,
	CaptureMethodManual,
	CaptureMethodManualMultiple,
	CaptureMethodScheduled,
}

// OrDefault resolves the unspecified value.
func (m CaptureMethod) OrDefault() CaptureMethod {
	if m == "" {
		return CaptureMethodAutomatic
	}
	return m
}

func (m CaptureMethod) IsValid() bool {
	for _, v := range CaptureMethods {
		if m.OrDefault() == v {
			return true
		}
	}
	return false
}

// Flow identifies one connector operation.
type Flow string

const (
	FlowAuthorize          Flow = "authorize"
	FlowCapture            Flow = "capture"
	FlowVoid               Flow = "void"
	FlowPSync              Flow = "psync"
	FlowRefund             Flow = "refund"
	FlowRSync              Flow = "rsync"
	FlowSession            Flow = "session"
	FlowAccessToken        Flow = "access_token"
	FlowSetupMandate       Flow = "setup_mandate"
	FlowPaymentMethodToken Flow = "payment_method_token"
)

var Flows = []Flow{
	FlowAuthorize,
	FlowCapture,
	FlowVoid,
	FlowPSync,
	FlowRefund,
	FlowRSync,
	FlowSession,
	FlowAccessToken,
	FlowSetupMandate,
	FlowPaymentMethodToken,
}

// CurrencyUnit is the amount representation a connector expects on the wire.
type CurrencyUnit string

const (
	// CurrencyUnitMinor is an integer count of the currency's minor unit (cents).
	CurrencyUnitMinor CurrencyUnit = "minor"
	// CurrencyUnitBase is a fixed-scale decimal in the major unit (dollars).
	CurrencyUnitBase CurrencyUnit = "base"
)
