package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsVersionConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "version conflict error", err: ErrOrderVersionConflict, want: true},
		{name: "wrapped version conflict error", err: fmt.Errorf("save: %w", ErrOrderVersionConflict), want: true},
		{name: "other error", err: ErrOrderNotFound, want: false},
		{name: "nil error", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVersionConflict(tt.err); got != tt.want {
				t.Errorf("IsVersionConflict() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsIdempotencyConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "already exists", err: ErrIdempotencyKeyAlreadyExists, want: true},
		{name: "hash mismatch", err: ErrIdempotencyHashMismatch, want: true},
		{name: "joined", err: errors.Join(ErrIdempotencyHashMismatch, errors.New("extra context")), want: true},
		{name: "not found", err: ErrIdempotencyKeyNotFound, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsIdempotencyConflict(tt.err); got != tt.want {
				t.Errorf("IsIdempotencyConflict() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "typed validation", err: ValidationError(ErrEmptyCart, "Cannot create order with empty cart"), want: KindValidation},
		{name: "typed wrapped", err: fmt.Errorf("create: %w", StateError(ErrOrderCancelled, "cancelled")), want: KindState},
		{name: "bare not found", err: ErrOrderNotFound, want: KindNotFound},
		{name: "bare conflict", err: fmt.Errorf("save: %w", ErrOrderVersionConflict), want: KindConflict},
		{name: "bare payment", err: ErrPaymentFailed, want: KindPayment},
		{name: "unknown", err: errors.New("disk full"), want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrapKeepsSentinel(t *testing.T) {
	err := PaymentError(ErrPaymentFailed, "Payment failed: %s", "card declined")
	if !errors.Is(err, ErrPaymentFailed) {
		t.Fatalf("typed error must unwrap to sentinel")
	}
	if got := PublicMessage(err); got != "Payment failed: card declined" {
		t.Fatalf("public message = %q", got)
	}
	if got := err.Error(); got != "Payment failed: card declined: payment failed" {
		t.Fatalf("error string = %q", got)
	}
}

func TestInsufficientStockError(t *testing.T) {
	err := error(&InsufficientStockError{ProductID: "p1", Name: "Amoxicillin", Requested: 3, Available: 1})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("must unwrap to ErrInsufficientStock")
	}
	if err.Error() != "insufficient stock for Amoxicillin" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
