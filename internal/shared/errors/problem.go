// Package errors turns point-of-sale failures into typed, caller-renderable problems.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Apurer/boba-pos/internal/domains/pos/application"
	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
)

// Kind is the error class a caller renders.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConnectivity
	KindTransaction
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConnectivity:
		return "connectivity"
	case KindTransaction:
		return "transaction"
	default:
		return "unknown"
	}
}

// Classify maps any error returned by the core onto a Kind. A rolled-back order
// is a transaction failure even when the cause was a lost connection.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ports.ErrTransactionFailed):
		return KindTransaction
	case errors.Is(err, ports.ErrConnectivity):
		return KindConnectivity
	case errors.Is(err, ports.ErrNotFound):
		return KindNotFound
	case errors.Is(err, application.ErrInvalidInput),
		domain.IsValidation(err),
		errors.Is(err, ports.ErrUnknownReference),
		errors.Is(err, ports.ErrAlreadyExists),
		errors.Is(err, ports.ErrUnknownCollection):
		return KindValidation
	default:
		return KindUnknown
	}
}

// Problem types as URI references.
const (
	TypeValidation   = "/problems/validation-error"
	TypeNotFound     = "/problems/not-found"
	TypeConnectivity = "/problems/store-unreachable"
	TypeTransaction  = "/problems/transaction-failed"
	TypeInternal     = "/problems/internal-error"
)

// Problem is the rendered form of a failure, shaped after RFC 7807.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
	// ExitCode is the process status a command-line caller should exit with.
	ExitCode int `json:"-"`
}

func (p Problem) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p Problem) WithDetail(detail string) Problem {
	p.Detail = detail
	return p
}

var templates = map[Kind]Problem{
	KindValidation:   {Type: TypeValidation, Title: "Invalid Input", ExitCode: 2},
	KindNotFound:     {Type: TypeNotFound, Title: "Record Not Found", ExitCode: 3},
	KindConnectivity: {Type: TypeConnectivity, Title: "Store Unreachable", ExitCode: 4},
	KindTransaction:  {Type: TypeTransaction, Title: "Order Not Saved", ExitCode: 5},
	KindUnknown:      {Type: TypeInternal, Title: "Internal Error", ExitCode: 1},
}

// FromError converts err into a Problem. A Problem already in the chain is returned as is.
func FromError(err error) Problem {
	var problem Problem
	if errors.As(err, &problem) {
		return problem
	}
	kind := Classify(err)
	problem = templates[kind]
	problem.Kind = kind.String()
	if err != nil {
		problem.Detail = err.Error()
	}
	return problem
}

// Render writes err as a JSON problem document and returns the exit code to use.
func Render(w io.Writer, err error) int {
	problem := FromError(err)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(problem)
	return problem.ExitCode
}
