package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
)

var (
	// ErrInvalidInput signals the request violated an entity invariant or referenced a missing record.
	ErrInvalidInput = errors.New("invalid input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidInput) {
		return err
	}
	if domain.IsValidation(err) ||
		errors.Is(err, ports.ErrUnknownReference) ||
		errors.Is(err, ports.ErrAlreadyExists) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
