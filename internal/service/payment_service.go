package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cassiomorais/connectors/internal/connector"
	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/cassiomorais/connectors/internal/domain/payment"
	"github.com/cassiomorais/connectors/internal/infrastructure/observability"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var validate = validator.New()

// CredentialStore resolves a merchant's credentials for one connector.
type CredentialStore interface {
	Credentials(ctx context.Context, merchantID, connectorID string) (payment.ConnectorAuth, error)
}

// PaymentService routes payment and refund operations to connector adapters.
type PaymentService struct {
	registry    *connector.Registry
	credentials CredentialStore
	transport   connector.Transport
	settings    connector.Settings
	metrics     *observability.Metrics
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	registry *connector.Registry,
	credentials CredentialStore,
	transport connector.Transport,
	settings connector.Settings,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		registry:    registry,
		credentials: credentials,
		transport:   transport,
		settings:    settings,
		metrics:     metrics,
		logger:      logger,
		tracer:      otel.Tracer("github.com/cassiomorais/connectors/internal/service"),
	}
}

func (s *PaymentService) Authorize(ctx context.Context, req AuthorizeRequest) (*PaymentResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := req.Amount.Validate(); err != nil {
		return nil, err
	}
	if err := req.PaymentMethod.Validate(); err != nil {
		return nil, err
	}
	if req.CaptureMethod != "" && !req.CaptureMethod.IsValid() {
		return nil, domainErrors.NewValidationError("capture_method", fmt.Sprintf("unknown capture method %q", req.CaptureMethod))
	}

	conn, err := s.registry.Get(req.Connector)
	if err != nil {
		return nil, err
	}
	integ := conn.Authorize()
	if err := s.supported(conn.ID(), payment.FlowAuthorize); err != nil {
		return nil, err
	}
	if err := conn.ValidateCaptureMethod(req.CaptureMethod); err != nil {
		return nil, err
	}
	auth, err := s.credentials.Credentials(ctx, req.MerchantID, conn.ID())
	if err != nil {
		return nil, err
	}

	data := &payment.RouterData[payment.AuthorizeData, payment.PaymentsResponseData]{
		Flow:          payment.FlowAuthorize,
		MerchantID:    req.MerchantID,
		Connector:     conn.ID(),
		PaymentID:     orNewID(req.PaymentID, "pay_"),
		AttemptID:     uuid.NewString(),
		Status:        payment.AttemptStatusStarted,
		PaymentMethod: req.PaymentMethod.Type,
		ConnectorAuth: auth,
		Description:   req.Description,
		Request: payment.AuthorizeData{
			Amount:              req.Amount,
			PaymentMethodData:   req.PaymentMethod,
			CaptureMethod:       req.CaptureMethod,
			Email:               req.Email,
			StatementDescriptor: req.StatementDescriptor,
		},
	}

	out, err := execute(ctx, s, integ, data)
	if err != nil {
		return nil, err
	}
	return paymentResult(out, payment.AttemptStatusAuthorizationFailed), nil
}

func (s *PaymentService) Capture(ctx context.Context, req CaptureRequest) (*PaymentResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := req.Amount.Validate(); err != nil {
		return nil, err
	}

	conn, err := s.registry.Get(req.Connector)
	if err != nil {
		return nil, err
	}
	integ := conn.Capture()
	if err := s.supported(conn.ID(), payment.FlowCapture); err != nil {
		return nil, err
	}
	auth, err := s.credentials.Credentials(ctx, req.MerchantID, conn.ID())
	if err != nil {
		return nil, err
	}

	data := &payment.RouterData[payment.CaptureData, payment.PaymentsResponseData]{
		Flow:          payment.FlowCapture,
		MerchantID:    req.MerchantID,
		Connector:     conn.ID(),
		PaymentID:     req.PaymentID,
		AttemptID:     uuid.NewString(),
		Status:        payment.AttemptStatusAuthorized,
		ConnectorAuth: auth,
		Request: payment.CaptureData{
			AmountToCapture:        req.Amount,
			ConnectorTransactionID: req.ConnectorTransactionID,
		},
	}

	out, err := execute(ctx, s, integ, data)
	if err != nil {
		return nil, err
	}
	return paymentResult(out, payment.AttemptStatusCaptureFailed), nil
}

func (s *PaymentService) Void(ctx context.Context, req VoidRequest) (*PaymentResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	conn, err := s.registry.Get(req.Connector)
	if err != nil {
		return nil, err
	}
	integ := conn.Void()
	if err := s.supported(conn.ID(), payment.FlowVoid); err != nil {
		return nil, err
	}
	auth, err := s.credentials.Credentials(ctx, req.MerchantID, conn.ID())
	if err != nil {
		return nil, err
	}

	data := &payment.RouterData[payment.CancelData, payment.PaymentsResponseData]{
		Flow:          payment.FlowVoid,
		MerchantID:    req.MerchantID,
		Connector:     conn.ID(),
		PaymentID:     req.PaymentID,
		AttemptID:     uuid.NewString(),
		Status:        payment.AttemptStatusAuthorized,
		ConnectorAuth: auth,
		Request: payment.CancelData{
			ConnectorTransactionID: req.ConnectorTransactionID,
			CancellationReason:     req.CancellationReason,
		},
	}

	out, err := execute(ctx, s, integ, data)
	if err != nil {
		return nil, err
	}
	return paymentResult(out, payment.AttemptStatusVoidFailed), nil
}

// Sync asks the connector for the current state of a payment. A processor
// error leaves the status at pending.
func (s *PaymentService) Sync(ctx context.Context, req SyncRequest) (*PaymentResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	conn, err := s.registry.Get(req.Connector)
	if err != nil {
		return nil, err
	}
	integ := conn.PSync()
	if err := s.supported(conn.ID(), payment.FlowPSync); err != nil {
		return nil, err
	}
	auth, err := s.credentials.Credentials(ctx, req.MerchantID, conn.ID())
	if err != nil {
		return nil, err
	}

	data := &payment.RouterData[payment.SyncData, payment.PaymentsResponseData]{
		Flow:          payment.FlowPSync,
		MerchantID:    req.MerchantID,
		Connector:     conn.ID(),
		PaymentID:     req.PaymentID,
		AttemptID:     uuid.NewString(),
		Status:        payment.AttemptStatusPending,
		ConnectorAuth: auth,
		Request: payment.SyncData{
			ConnectorTransactionID: req.ConnectorTransactionID,
			CaptureMethod:          req.CaptureMethod,
		},
	}

	out, err := execute(ctx, s, integ, data)
	if err != nil {
		return nil, err
	}
	return paymentResult(out, payment.AttemptStatusPending), nil
}

func (s *PaymentService) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := req.RefundAmount.Validate(); err != nil {
		return nil, err
	}
	if req.PaymentAmount.Minor != 0 {
		if err := req.PaymentAmount.Validate(); err != nil {
			return nil, err
		}
		if req.PaymentAmount.Currency != req.RefundAmount.Currency {
			return nil, domainErrors.NewValidationError("refund_amount.currency", "must match the payment currency")
		}
		if req.RefundAmount.Minor > req.PaymentAmount.Minor {
			return nil, domainErrors.NewValidationError("refund_amount", "must not exceed the payment amount")
		}
	}

	conn, err := s.registry.Get(req.Connector)
	if err != nil {
		return nil, err
	}
	integ := conn.Refund()
	if err := s.supported(conn.ID(), payment.FlowRefund); err != nil {
		return nil, err
	}
	auth, err := s.credentials.Credentials(ctx, req.MerchantID, conn.ID())
	if err != nil {
		return nil, err
	}

	data := &payment.RouterData[payment.RefundsData, payment.RefundsResponseData]{
		Flow:          payment.FlowRefund,
		MerchantID:    req.MerchantID,
		Connector:     conn.ID(),
		PaymentID:     req.PaymentID,
		AttemptID:     uuid.NewString(),
		Status:        payment.AttemptStatusCharged,
		ConnectorAuth: auth,
		Request: payment.RefundsData{
			RefundID:               orNewID(req.RefundID, "ref_"),
			ConnectorTransactionID: req.ConnectorTransactionID,
			PaymentAmount:          req.PaymentAmount,
			RefundAmount:           req.RefundAmount,
			Reason:                 req.Reason,
		},
	}

	out, err := execute(ctx, s, integ, data)
	if err != nil {
		return nil, err
	}
	return refundResult(out, payment.RefundStatusFailure), nil
}

// RefundSync asks the connector for the current state of a refund.
func (s *PaymentService) RefundSync(ctx context.Context, req RefundSyncRequest) (*RefundResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	conn, err := s.registry.Get(req.Connector)
	if err != nil {
		return nil, err
	}
	integ := conn.RSync()
	if err := s.supported(conn.ID(), payment.FlowRSync); err != nil {
		return nil, err
	}
	auth, err := s.credentials.Credentials(ctx, req.MerchantID, conn.ID())
	if err != nil {
		return nil, err
	}

	data := &payment.RouterData[payment.RefundsData, payment.RefundsResponseData]{
		Flow:          payment.FlowRSync,
		MerchantID:    req.MerchantID,
		Connector:     conn.ID(),
		AttemptID:     uuid.NewString(),
		ConnectorAuth: auth,
		Request: payment.RefundsData{
			RefundID:               req.RefundID,
			ConnectorTransactionID: req.ConnectorTransactionID,
			ConnectorRefundID:      req.ConnectorRefundID,
		},
	}

	out, err := execute(ctx, s, integ, data)
	if err != nil {
		return nil, err
	}
	return refundResult(out, payment.RefundStatusPending), nil
}

// Connectors lists every registered adapter with the flows it implements.
func (s *PaymentService) Connectors() []ConnectorInfo {
	ids := s.registry.IDs()
	infos := make([]ConnectorInfo, 0, len(ids))
	for _, id := range ids {
		flows, err := s.registry.Capabilities(id)
		if err != nil {
			continue
		}
		infos = append(infos, ConnectorInfo{ID: id, Flows: flows})
	}
	return infos
}

// execute runs one connector call inside a span and records its outcome.
func execute[Req, Res any](
	ctx context.Context,
	s *PaymentService,
	integ connector.Integration[Req, Res],
	data *payment.RouterData[Req, Res],
) (*payment.RouterData[Req, Res], error) {
	flow := string(data.Flow)

	ctx, span := s.tracer.Start(ctx, "connector."+flow, trace.WithAttributes(
		attribute.String("connector.id", data.Connector),
		attribute.String("connector.flow", flow),
		attribute.String("payment.id", data.PaymentID),
		attribute.String("attempt.id", data.AttemptID),
	))
	defer span.End()

	logger := observability.ForCall(s.logger, data.Connector, flow, data.PaymentID, data.AttemptID)
	ctx = logger.WithContext(ctx)

	start := time.Now()
	out, err := connector.Execute(ctx, s.transport, integ, data, s.settings)
	s.metrics.ConnectorRequestDuration.WithLabelValues(data.Connector, flow).Observe(time.Since(start).Seconds())

	if err != nil {
		kind := errorKind(err)
		s.metrics.ConnectorRequestsTotal.WithLabelValues(data.Connector, flow, "error").Inc()
		s.metrics.ConnectorErrors.WithLabelValues(data.Connector, flow, kind).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		logger.Warn().Err(err).Str("kind", kind).Msg("connector call failed")
		return nil, err
	}

	if out.Error != nil {
		s.metrics.ConnectorRequestsTotal.WithLabelValues(data.Connector, flow, "declined").Inc()
		span.SetAttributes(
			attribute.Int("connector.status_code", out.Error.StatusCode),
			attribute.String("connector.error_code", out.Error.Code),
		)
		logger.Info().
			Int("status_code", out.Error.StatusCode).
			Str("error_code", out.Error.Code).
			Msg("connector returned an error response")
		return out, nil
	}

	s.metrics.ConnectorRequestsTotal.WithLabelValues(data.Connector, flow, "success").Inc()
	span.SetAttributes(attribute.String("payment.status", string(out.Status)))
	logger.Info().Str("status", string(out.Status)).Msg("connector call completed")
	return out, nil
}

func paymentResult[Req any](
	data *payment.RouterData[Req, payment.PaymentsResponseData],
	onError payment.AttemptStatus,
) *PaymentResult {
	result := &PaymentResult{
		PaymentID: data.PaymentID,
		AttemptID: data.AttemptID,
		Connector: data.Connector,
		Status:    data.Status,
	}
	if data.Error != nil {
		result.Status = onError
		result.Error = data.Error
		return result
	}
	if res := data.Response; res != nil {
		result.ConnectorTransactionID = res.ResourceID
		result.ConnectorReference = res.ConnectorResponseReferenceID
		result.ConnectorMetadata = res.ConnectorMetadata
	}
	return result
}

func refundResult(
	data *payment.RouterData[payment.RefundsData, payment.RefundsResponseData],
	onError payment.RefundStatus,
) *RefundResult {
	result := &RefundResult{
		RefundID:  data.Request.RefundID,
		Connector: data.Connector,
	}
	if data.Error != nil {
		result.Status = onError
		result.Error = data.Error
		return result
	}
	if data.Response != nil {
		result.Status = data.Response.RefundStatus
		result.ConnectorRefundID = data.Response.ConnectorRefundID
	}
	return result
}

func (s *PaymentService) supported(connectorID string, flow payment.Flow) error {
	if !s.registry.Supports(connectorID, flow) {
		return domainErrors.NotImplemented(connectorID, string(flow))
	}
	return nil
}

func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domainErrors.NewValidationError(verrs[0].Field(), fmt.Sprintf("failed on %s", verrs[0].Tag()))
		}
		return domainErrors.NewValidationError("request", err.Error())
	}
	return nil
}

func orNewID(id, prefix string) string {
	if id != "" {
		return id
	}
	return prefix + uuid.NewString()
}

// errorKind names the failure class of err for metrics and spans.
func errorKind(err error) string {
	kinds := []struct {
		target error
		name   string
	}{
		{domainErrors.ErrConnectorUnavailable, "unavailable"},
		{domainErrors.ErrTransportFailed, "transport"},
		{domainErrors.ErrResponseDeserializationFailed, "deserialization"},
		{domainErrors.ErrRequestEncodingFailed, "encoding"},
		{domainErrors.ErrFailedToObtainAuthType, "auth_type"},
		{domainErrors.ErrMissingRequiredField, "missing_field"},
		{domainErrors.ErrInvalidDataFormat, "invalid_data"},
		{domainErrors.ErrNotImplemented, "not_implemented"},
		{domainErrors.ErrNotSupported, "not_supported"},
		{context.DeadlineExceeded, "timeout"},
		{context.Canceled, "canceled"},
	}
	for _, k := range kinds {
		if errors.Is(err, k.target) {
			return k.name
		}
	}
	return "unknown"
}
