// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// the caller identity, query parameters shared by the report endpoints and
// JSON request bodies.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"jizhang/internal/core"
	"jizhang/internal/ledger"
	"jizhang/internal/period"
)

// HeaderUserID carries the opaque user id set by the login gateway.
const HeaderUserID = "X-User-ID"

const (
	maxBodyBytes = 64 << 10
	maxTopN      = 100
)

var (
	ErrBadRequest  = errors.New("bad request")
	ErrMissingUser = errors.New("missing " + HeaderUserID + " header")

	validUserID = regexp.MustCompile(`^[A-Za-z0-9_.@:-]{1,128}$`)
)

// PeriodParams holds the period selection of a report request.
type PeriodParams struct {
	Kind period.Kind
	Date core.Date
}

// UserID returns the caller's user id.
func UserID(r *http.Request) (string, error) {
	user := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if user == "" {
		return "", ErrMissingUser
	}
	if !validUserID.MatchString(user) {
		return "", fmt.Errorf("%w: malformed %s", ErrBadRequest, HeaderUserID)
	}
	return user, nil
}

// ParsePeriodParams reads kind (default month) and date (default today).
func ParsePeriodParams(query url.Values, today core.Date) (PeriodParams, error) {
	params := PeriodParams{Kind: period.Month, Date: today}

	if v := strings.TrimSpace(query.Get("kind")); v != "" {
		k, err := period.ParseKind(v)
		if err != nil {
			return PeriodParams{}, err
		}
		params.Kind = k
	}
	if v := strings.TrimSpace(query.Get("date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return PeriodParams{}, err
		}
		params.Date = d
	}
	return params, nil
}

// ParseRecordKind reads the record kind from key, falling back to def.
func ParseRecordKind(query url.Values, key string, def core.Kind) (core.Kind, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return def, nil
	}
	return core.ParseKind(v)
}

// ParseGrouping reads the bucket grouping, day by default.
func ParseGrouping(query url.Values) (ledger.Grouping, error) {
	v := strings.TrimSpace(query.Get("group"))
	if v == "" {
		return ledger.ByDay, nil
	}
	g, err := ledger.ParseGrouping(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return g, nil
}

// ParseTop reads the ranking size. Absent means the configured default (0).
func ParseTop(query url.Values) (int, error) {
	v := strings.TrimSpace(query.Get("top"))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > maxTopN {
		return 0, fmt.Errorf("%w: top must be between 1 and %d", ErrBadRequest, maxTopN)
	}
	return n, nil
}

// ParseYear reads a calendar year, falling back to def.
func ParseYear(query url.Values, def int) (int, error) {
	v := strings.TrimSpace(query.Get("year"))
	if v == "" {
		return def, nil
	}
	y, err := strconv.Atoi(v)
	if err != nil || y < 1 || y > 9999 {
		return 0, fmt.Errorf("%w: invalid year %q", ErrBadRequest, v)
	}
	return y, nil
}

// DecodeJSON decodes a single JSON object from the request body into dst.
// Unknown fields and trailing data are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", ErrBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("%w: body must hold a single JSON object", ErrBadRequest)
	}
	return nil
}
