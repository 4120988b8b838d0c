package errors

import (
	"fmt"
)

// ErrorCode represents different categories of errors
type ErrorCode string

const (
	// ErrCodeOracleDataMissing indicates the oracle replied without the configured speed
	ErrCodeOracleDataMissing ErrorCode = "ORACLE_DATA_MISSING"

	// ErrCodeNetwork indicates transport-level failures talking to the oracle
	ErrCodeNetwork ErrorCode = "NETWORK"

	// ErrCodeParse indicates a malformed oracle payload
	ErrCodeParse ErrorCode = "PARSE"

	// ErrCodeChainQuery indicates the bridge contract query failed
	ErrCodeChainQuery ErrorCode = "CHAIN_QUERY"

	// ErrCodeUnrecognizedChain indicates a chain id other than home or foreign
	ErrCodeUnrecognizedChain ErrorCode = "UNRECOGNIZED_CHAIN"

	// ErrCodeValidation indicates input validation errors
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeConfig indicates configuration errors
	ErrCodeConfig ErrorCode = "CONFIG"

	// ErrCodeInternal indicates internal system errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Severity represents the severity level of an error
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

// ChainError represents an error tied to one of the bridged chains
type ChainError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Chain    string                 `json:"chain,omitempty"`
	Severity Severity               `json:"severity"`
	Cause    error                  `json:"-"`
	Context  map[string]interface{} `json:"context,omitempty"`
}

// NewChainError creates a new ChainError
func NewChainError(code ErrorCode, chain, message string, cause error) *ChainError {
	return &ChainError{
		Code:     code,
		Message:  message,
		Chain:    chain,
		Severity: determineSeverity(code),
		Cause:    cause,
		Context:  make(map[string]interface{}),
	}
}

// Error implements the error interface
func (e *ChainError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Chain != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Chain, e.Code, msg)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying cause
func (e *ChainError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *ChainError) WithContext(key string, value interface{}) *ChainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity overrides the default severity
func (e *ChainError) WithSeverity(severity Severity) *ChainError {
	e.Severity = severity
	return e
}

// IsRetryable returns true if the error is worth retrying
func (e *ChainError) IsRetryable() bool {
	switch e.Code {
	case ErrCodeNetwork, ErrCodeChainQuery:
		return true
	default:
		return false
	}
}

// determineSeverity determines the default severity based on error code
func determineSeverity(code ErrorCode) Severity {
	switch code {
	case ErrCodeInternal:
		return SeverityCritical
	case ErrCodeUnrecognizedChain:
		return SeverityHigh
	case ErrCodeChainQuery:
		return SeverityHigh
	case ErrCodeNetwork, ErrCodeParse, ErrCodeOracleDataMissing:
		return SeverityMedium
	case ErrCodeValidation, ErrCodeConfig:
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// NewOracleDataMissingError reports an oracle payload without the configured speed
func NewOracleDataMissingError(chain, speedKey string) *ChainError {
	return NewChainError(
		ErrCodeOracleDataMissing,
		chain,
		fmt.Sprintf("response from oracle didn't include gas price for %s type", speedKey),
		nil,
	).WithContext("speed_type", speedKey)
}

// NewNetworkError creates a network error
func NewNetworkError(chain, message string, cause error) *ChainError {
	return NewChainError(ErrCodeNetwork, chain, message, cause)
}

// NewParseError creates a payload parse error
func NewParseError(chain, message string, cause error) *ChainError {
	return NewChainError(ErrCodeParse, chain, message, cause)
}

// NewChainQueryError creates a bridge contract query error
func NewChainQueryError(chain, message string, cause error) *ChainError {
	return NewChainError(ErrCodeChainQuery, chain, message, cause)
}

// NewUnrecognizedChainError reports a chain id that is neither home nor foreign
func NewUnrecognizedChainError(chain string) *ChainError {
	return NewChainError(ErrCodeUnrecognizedChain, "", fmt.Sprintf("unrecognized chain id '%s'", chain), nil)
}

// NewValidationError creates a validation error
func NewValidationError(chain, message string) *ChainError {
	return NewChainError(ErrCodeValidation, chain, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(chain, message string) *ChainError {
	return NewChainError(ErrCodeConfig, chain, message, nil)
}

// NewInternalError creates an internal error
func NewInternalError(chain, message string, cause error) *ChainError {
	return NewChainError(ErrCodeInternal, chain, message, cause)
}
