// Package paysera implements the wire protocol of the Paysera payment
// gateway: request signing, URL-safe base64 framing and validation of
// inbound callback payloads.
//
// Official API documentation: https://developers.paysera.com/en/payments/current
package paysera

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/booklytrip/booking/internal/domain"
)

// Server URL for payment requests.
const PayURL = "https://www.paysera.com/pay"

var (
	// ErrMissingParameters is returned when a callback lacks the data or
	// ss1 fields, or when no gateway settings are configured.
	ErrMissingParameters = errors.New("signature verification requires data, ss1 and settings parameters")

	// ErrSignatureMismatch is returned when the callback signature does
	// not match the shared secret. Callers must not acknowledge the
	// callback on this error, or the gateway stops retrying.
	ErrSignatureMismatch = errors.New("request signature doesn't match")

	// ErrProjectIDMissing is returned when the decoded payload carries no
	// project id.
	ErrProjectIDMissing = errors.New("project ID not provided")

	// ErrProjectIDMismatch is returned when the decoded project id differs
	// from the configured one.
	ErrProjectIDMismatch = errors.New("project ID mismatch")
)

// Request is a signed outbound payload.
type Request struct {
	Data string
	Sign string
}

// Response is the raw inbound callback query.
type Response struct {
	Data    string
	SS1     string
	Project string
}

// Signature computes the gateway signature for the given data: the hex MD5
// of the data concatenated with the shared secret. Always 32 hex characters.
func Signature(data, password string) string {
	sum := md5.Sum([]byte(data + password))
	return hex.EncodeToString(sum[:])
}

var (
	encodeReplacer = strings.NewReplacer("+", "-", "/", "_")
	decodeReplacer = strings.NewReplacer("-", "+", "_", "/")
)

// EncodeSafeURLBase64 encodes a string as url-safe-base64: standard base64
// with + replaced by - and / by _. All occurrences are substituted; the
// legacy gateway client substituted only the first one, which corrupts
// payloads with repeated characters.
func EncodeSafeURLBase64(value string) string {
	return encodeReplacer.Replace(base64.StdEncoding.EncodeToString([]byte(value)))
}

// DecodeSafeURLBase64 reverses EncodeSafeURLBase64.
func DecodeSafeURLBase64(encoded string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(decodeReplacer.Replace(encoded))
	if err != nil {
		return "", fmt.Errorf("decode url-safe base64: %w", err)
	}
	return string(decoded), nil
}

// BuildRequest serializes the fields as a query string, encodes them into the
// data parameter and signs it.
func BuildRequest(fields url.Values, settings domain.PayseraSettings) Request {
	data := EncodeSafeURLBase64(fields.Encode())
	return Request{
		Data: data,
		Sign: Signature(data, settings.Password),
	}
}

// CheckSignature reports whether the response signature matches the shared
// secret.
func CheckSignature(response Response, settings domain.PayseraSettings) (bool, error) {
	if response.Data == "" || response.SS1 == "" || settings.Password == "" {
		return false, ErrMissingParameters
	}
	return Signature(response.Data, settings.Password) == response.SS1, nil
}

// ValidateAndParseResponse verifies the callback signature, decodes the data
// payload and checks that it belongs to the configured project. Returns the
// decoded key/value fields.
func ValidateAndParseResponse(response Response, settings domain.PayseraSettings) (url.Values, error) {
	ok, err := CheckSignature(response, settings)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSignatureMismatch
	}

	decoded, err := DecodeSafeURLBase64(response.Data)
	if err != nil {
		return nil, err
	}
	fields, err := url.ParseQuery(decoded)
	if err != nil {
		return nil, fmt.Errorf("parse callback data: %w", err)
	}

	projectID := fields.Get("projectid")
	if projectID == "" {
		return nil, ErrProjectIDMissing
	}
	if projectID != settings.ID {
		return nil, fmt.Errorf("%w: expected %s, received %s", ErrProjectIDMismatch, settings.ID, projectID)
	}

	return fields, nil
}
