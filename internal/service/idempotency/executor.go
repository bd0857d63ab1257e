// Package idempotency повторяет ответ на запрос с тем же idempotency-key вместо повторного выполнения.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/vladislavdragonenkov/pharmacy-oms/internal/domain"
)

// Операции, ключи которых хранятся раздельно.
const (
	OperationCreateOrder = "create_order"
	OperationCancelOrder = "cancel_order"
)

// DefaultTTL: срок хранения ответа по ключу.
const DefaultTTL = 24 * time.Hour

var (
	// ErrInProgress: запрос с тем же ключом ещё выполняется.
	ErrInProgress = errors.New("request with the same idempotency key is in progress")
)

type failurePayload struct {
	Message string `json:"message"`
}

// Executor оборачивает операцию движка заказов проверкой ключа идемпотентности.
type Executor struct {
	repo   domain.IdempotencyRepository
	ttl    time.Duration
	now    func() time.Time
	logger *log.Entry
}

// NewExecutor создаёт исполнитель. Без репозитория операции выполняются напрямую.
func NewExecutor(repo domain.IdempotencyRepository, ttl time.Duration, logger *log.Entry) *Executor {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.WithField("component", "idempotency")
	}
	return &Executor{
		repo:   repo,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// Key строит ключ хранилища: операция, пользователь и клиентский ключ.
func Key(operation, userID, clientKey string) string {
	return operation + ":" + userID + ":" + strings.TrimSpace(clientKey)
}

// Execute выполняет fn не более одного раза на ключ. Пустой clientKey отключает проверку.
//
// Успешный ответ и бизнес-ошибки (validation, not_found, state, payment) сохраняются и
// возвращаются повторно. После internal и conflict ключ освобождается, чтобы клиент мог повторить.
func Execute[T any](
	ctx context.Context,
	e *Executor,
	operation, userID, clientKey string,
	request any,
	fn func(context.Context) (T, error),
) (T, error) {
	var zero T
	if e == nil || e.repo == nil || strings.TrimSpace(clientKey) == "" {
		return fn(ctx)
	}

	key := Key(operation, userID, clientKey)
	hash, err := requestHash(operation, request)
	if err != nil {
		return zero, domain.InternalError(err, "hash idempotent request")
	}

	record, err := e.repo.CreateProcessing(ctx, key, hash, e.now().Add(e.ttl))
	if err != nil {
		return replay[T](e, key, record, err)
	}

	result, runErr := fn(ctx)
	if runErr != nil {
		e.storeFailure(ctx, key, runErr)
		return zero, runErr
	}

	body, err := encodeResponse(result)
	if err != nil {
		e.logger.WithError(err).WithField("idempotency_key", key).Warn("encode idempotent response failed")
		e.release(ctx, key)
		return result, nil
	}
	if err := e.repo.MarkDone(ctx, key, body); err != nil {
		e.logger.WithError(err).WithField("idempotency_key", key).Warn("store idempotent response failed")
	}
	return result, nil
}

func replay[T any](e *Executor, key string, record domain.IdempotencyRecord, createErr error) (T, error) {
	var zero T

	switch {
	case errors.Is(createErr, domain.ErrIdempotencyHashMismatch):
		return zero, &domain.Error{
			Kind:    domain.KindConflict,
			Message: "Idempotency key is already used with a different request",
			Err:     createErr,
		}
	case errors.Is(createErr, domain.ErrIdempotencyKeyAlreadyExists):
	default:
		return zero, domain.InternalError(createErr, "reserve idempotency key")
	}

	switch record.Status {
	case domain.IdempotencyStatusDone:
		result, err := decodeResponse[T](record.ResponseBody)
		if err != nil {
			e.logger.WithError(err).WithField("idempotency_key", key).Warn("decode cached response failed")
			return zero, domain.InternalError(err, "decode cached response")
		}
		return result, nil
	case domain.IdempotencyStatusProcessing:
		return zero, &domain.Error{
			Kind:    domain.KindConflict,
			Message: "Request with the same idempotency key is still processing",
			Err:     ErrInProgress,
		}
	case domain.IdempotencyStatusFailed:
		return zero, decodeFailure(record)
	default:
		return zero, domain.InternalError(fmt.Errorf("unknown idempotency status %q", record.Status), "replay request")
	}
}

func (e *Executor) storeFailure(ctx context.Context, key string, runErr error) {
	kind := domain.KindOf(runErr)
	if kind == domain.KindInternal || kind == domain.KindConflict {
		e.release(ctx, key)
		return
	}

	body, err := json.Marshal(failurePayload{Message: domain.PublicMessage(runErr)})
	if err != nil {
		e.release(ctx, key)
		return
	}
	if err := e.repo.MarkFailed(ctx, key, body, kind); err != nil {
		e.logger.WithError(err).WithField("idempotency_key", key).Warn("store idempotent failure failed")
	}
}

func (e *Executor) release(ctx context.Context, key string) {
	if err := e.repo.Release(ctx, key); err != nil {
		e.logger.WithError(err).WithField("idempotency_key", key).Warn("release idempotency key failed")
	}
}

func decodeFailure(record domain.IdempotencyRecord) error {
	var payload failurePayload
	if len(record.ResponseBody) > 0 {
		_ = json.Unmarshal(record.ResponseBody, &payload)
	}
	if payload.Message == "" {
		payload.Message = "Previous request with the same idempotency key failed"
	}
	kind := record.ErrorKind
	if kind == "" {
		kind = domain.KindInternal
	}
	return &domain.Error{Kind: kind, Message: payload.Message}
}

// Ответы gRPC хранятся через protojson: обычный encoding/json не знает про oneof, enum и Timestamp.
func encodeResponse(result any) ([]byte, error) {
	if m, ok := result.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(result)
}

func decodeResponse[T any](body []byte) (T, error) {
	var result T
	if m, ok := any(result).(proto.Message); ok {
		msg := m.ProtoReflect().New().Interface()
		if err := protojson.Unmarshal(body, msg); err != nil {
			return result, err
		}
		return msg.(T), nil
	}
	err := json.Unmarshal(body, &result)
	return result, err
}

// requestHash хеширует запрос. Сообщения protobuf сериализуются детерминированно: порядок ключей map фиксирован.
func requestHash(operation string, request any) (string, error) {
	var (
		data []byte
		err  error
	)
	if m, ok := request.(proto.Message); ok {
		data, err = proto.MarshalOptions{Deterministic: true}.Marshal(m)
	} else {
		data, err = json.Marshal(request)
	}
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(append([]byte(operation+":"), data...))
	return hex.EncodeToString(sum[:]), nil
}
