package boundary

import (
	"context"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/keeper/internal/apperr"
	"github.com/dmitrijs2005/keeper/internal/common"
	"github.com/dmitrijs2005/keeper/internal/logging"
)

// Renderer logs and renders errors at an exit edge.
type Renderer struct {
	logger logging.Logger
}

func NewRenderer(logger logging.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// With returns a Renderer whose log records carry the given key-value pairs.
func (r *Renderer) With(args ...any) *Renderer {
	return &Renderer{logger: r.logger.With(args...)}
}

// LogIfNotable records server-side failures. Client errors are expected
// traffic and stay silent.
func (r *Renderer) LogIfNotable(ctx context.Context, e apperr.Error) {
	switch e.Kind() {
	case apperr.KindServerMisconfigured, apperr.KindInternalError:
		r.logger.Error(ctx, e.Error(), "code", e.Code(), "detail", e.Detail())
	case apperr.KindNotImplemented:
		r.logger.Warn(ctx, e.Error(), "code", e.Code())
	case apperr.KindUnauthenticated,
		apperr.KindUnauthorized,
		apperr.KindCredentialsInvalid,
		apperr.KindHandleAlreadyExists,
		apperr.KindTokenMalformed,
		apperr.KindTokenExpired,
		apperr.KindTokenInvalid,
		apperr.KindProtocolInitInvalidShape,
		apperr.KindProtocolInitTokenInvalidType,
		apperr.KindRequestMalformed:
	}
}

// Render classifies err, logs it once and returns the HTTP status and body.
// err must not be nil.
func (r *Renderer) Render(ctx context.Context, err error) (int, ErrorEnvelope) {
	e, ok := apperr.Classify(err)
	if !ok {
		e = apperr.Internal("boundary: render called without an error")
	}
	r.LogIfNotable(ctx, e)
	return StatusOf(e.Kind()), EnvelopeOf(e)
}

// Status is Render for the gRPC edge. It returns nil for a nil err.
func (r *Renderer) Status(ctx context.Context, err error) error {
	e, ok := apperr.Classify(err)
	if !ok {
		return nil
	}
	r.LogIfNotable(ctx, e)

	st := status.New(CodeOf(e.Kind()), e.Error())
	withInfo, derr := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   e.Code(),
		Domain:   common.ErrorDomain,
		Metadata: map[string]string{"http_status": strconv.Itoa(StatusOf(e.Kind()))},
	})
	if derr != nil {
		return st.Err()
	}
	return withInfo.Err()
}
