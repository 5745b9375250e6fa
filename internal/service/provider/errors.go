package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Classification 上游错误的归一化分类。适配层保证所有失败在离开适配器
// 之前都已归入这些类别，原始 provider 异常不会外泄。
type Classification string

const (
	Unauthorized          Classification = "unauthorized"
	RateLimited           Classification = "rate_limited"
	Timeout               Classification = "timeout"
	Transport             Classification = "transport"
	MalformedResponse     Classification = "malformed_response"
	CapabilityUnavailable Classification = "capability_unavailable"
	Unknown               Classification = "unknown"
)

// Error is the classified failure adapters hand to the orchestrator.
type Error struct {
	Class    Classification
	Provider string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Class, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Class)
}

func (e *Error) Unwrap() error { return e.Err }

// ClassOf extracts the classification from any error, Unknown otherwise.
func ClassOf(err error) Classification {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Class
	}
	return Unknown
}

// classifyStatus maps an HTTP status code onto the taxonomy.
func classifyStatus(provider string, status int, detail string) *Error {
	e := &Error{Provider: provider, Status: status, Err: errors.New(detail)}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Class = Unauthorized
	case status == http.StatusTooManyRequests:
		e.Class = RateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		e.Class = Timeout
	case status >= 500:
		e.Class = Transport
	default:
		e.Class = Unknown
	}
	return e
}

// classifyErr maps a transport-level or SDK error onto the taxonomy.
// SDK errors arrive as opaque strings, so status hints are matched textually.
func classifyErr(provider string, err error) *Error {
	e := &Error{Provider: provider, Err: err}

	if errors.Is(err, context.DeadlineExceeded) {
		e.Class = Timeout
		return e
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			e.Class = Timeout
		} else {
			e.Class = Transport
		}
		return e
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "invalid api key") || strings.Contains(msg, "authentication"):
		e.Class = Unauthorized
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		e.Class = RateLimited
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		e.Class = Timeout
	case strings.Contains(msg, "connection") || strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "eof"):
		e.Class = Transport
	case strings.Contains(msg, "unmarshal") || strings.Contains(msg, "decode") ||
		strings.Contains(msg, "unexpected end"):
		e.Class = MalformedResponse
	default:
		e.Class = Unknown
	}
	return e
}
