// Package boundary переводит доменные ошибки в коды транспорта.
package boundary

import (
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

// GenericMessage: сообщение для внутренних ошибок вне режима разработки.
const GenericMessage = "Something went wrong!"

// Problem: ошибка, подготовленная для ответа клиенту.
type Problem struct {
	Kind    domain.ErrorKind
	HTTP    int
	Code    codes.Code
	Message string
	// Detail заполняется только в режиме разработки.
	Detail string
}

// Translator переводит ошибки движка заказов в HTTP-статусы и gRPC-коды.
type Translator struct {
	dev bool
}

// NewTranslator создаёт транслятор. В режиме dev клиент видит причину внутренних ошибок.
func NewTranslator(dev bool) Translator {
	return Translator{dev: dev}
}

// Translate классифицирует ошибку.
func (t Translator) Translate(err error) Problem {
	kind := domain.KindOf(err)
	p := Problem{
		Kind:    kind,
		HTTP:    HTTPStatus(kind),
		Code:    GRPCCode(kind),
		Message: domain.PublicMessage(err),
	}
	if kind == domain.KindInternal {
		p.Message = GenericMessage
		if t.dev && err != nil {
			p.Detail = err.Error()
		}
	}
	return p
}

// GRPCError возвращает ошибку со статусом gRPC. Уже готовые статусы пропускаются как есть.
func (t Translator) GRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	p := t.Translate(err)
	msg := p.Message
	if p.Detail != "" {
		msg = p.Message + ": " + p.Detail
	}
	return status.Error(p.Code, msg)
}

// HTTPStatus возвращает HTTP-статус для вида ошибки.
func HTTPStatus(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindState:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindPayment:
		return http.StatusPaymentRequired
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GRPCCode возвращает gRPC-код для вида ошибки.
func GRPCCode(kind domain.ErrorKind) codes.Code {
	switch kind {
	case domain.KindValidation:
		return codes.InvalidArgument
	case domain.KindNotFound:
		return codes.NotFound
	case domain.KindState, domain.KindPayment:
		return codes.FailedPrecondition
	case domain.KindConflict:
		return codes.Aborted
	default:
		return codes.Internal
	}
}
