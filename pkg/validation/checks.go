package validation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/commhealth/recordkit/pkg/docstore"
)

// runCheck dispatches a resolved spec to its check handler. Specs without a
// check are valid by definition at this stage.
func (v *Validator) runCheck(ctx context.Context, attrs map[string]any, rs resolvedSpec) (bool, error) {
	switch rs.kind {
	case checkUnique:
		return v.checkUnique(ctx, attrs, rs)
	case checkUniqueWithin:
		return v.checkUniqueWithin(ctx, attrs, rs)
	case checkExists:
		return v.checkExists(ctx, attrs, rs)
	case checkISOWeek:
		return v.checkISOWeek(ctx, attrs, rs)
	default:
		return true, nil
	}
}

// checkUnique passes when no other error-free document shares the values of
// every listed field. Arguments are field names; the compound key must match
// the same document across all of them.
func (v *Validator) checkUnique(ctx context.Context, attrs map[string]any, rs resolvedSpec) (bool, error) {
	fields, err := stringArgs(rs.args)
	if err != nil {
		return false, err
	}
	if len(fields) == 0 {
		return false, errors.Join(ErrBadCheckArgs, errors.New("unique: no fields given"))
	}

	keys, ok := fieldKeys(attrs, fields)
	if !ok {
		// Nothing to compare: a missing value cannot collide.
		v.log.DebugContext(ctx, "unique: field missing from document, skipping", "property", rs.Property)
		return true, nil
	}

	docs, err := v.matchingDocs(ctx, ownDocID(attrs), keys)
	if err != nil {
		return false, err
	}
	for _, doc := range docs {
		if !doc.HasErrors() {
			return false, nil
		}
	}
	return true, nil
}

// checkUniqueWithin is checkUnique restricted to duplicates reported within
// a trailing window. The last argument is the window, e.g. "7 days".
func (v *Validator) checkUniqueWithin(ctx context.Context, attrs map[string]any, rs resolvedSpec) (bool, error) {
	args, err := stringArgs(rs.args)
	if err != nil {
		return false, err
	}
	if len(args) < 2 {
		return false, errors.Join(ErrBadCheckArgs, errors.New("uniqueWithin: need fields and a window"))
	}
	fields, window := args[:len(args)-1], args[len(args)-1]

	start, err := windowStart(v.now(), window)
	if err != nil {
		return false, err
	}

	keys, ok := fieldKeys(attrs, fields)
	if !ok {
		v.log.DebugContext(ctx, "uniqueWithin: field missing from document, skipping", "property", rs.Property)
		return true, nil
	}

	docs, err := v.matchingDocs(ctx, ownDocID(attrs), keys)
	if err != nil {
		return false, err
	}
	for _, doc := range docs {
		if !doc.HasErrors() && !doc.ReportedDate.Before(start) {
			return false, nil
		}
	}
	return true, nil
}

// checkExists passes when at least one other error-free document carries the
// validated field's value and the given form tag — a cross-form existence
// check, e.g. "a registration for this patient exists".
func (v *Validator) checkExists(ctx context.Context, attrs map[string]any, rs resolvedSpec) (bool, error) {
	args, err := stringArgs(rs.args)
	if err != nil {
		return false, err
	}
	if len(args) != 1 {
		return false, errors.Join(ErrBadCheckArgs, errors.New("exists: need exactly one form name"))
	}
	form := args[0]

	keys, ok := fieldKeys(attrs, []string{rs.field})
	if !ok {
		// No value to look up means the referenced document cannot be found.
		v.log.DebugContext(ctx, "exists: field missing from document", "property", rs.Property)
		return false, nil
	}
	keys = append(keys, docstore.FormKey(form))

	docs, err := v.matchingDocs(ctx, ownDocID(attrs), keys)
	if err != nil {
		return false, err
	}
	for _, doc := range docs {
		if !doc.HasErrors() {
			return true, nil
		}
	}
	return false, nil
}

var (
	weekPattern = regexp.MustCompile(`^\d{1,2}$`)
	yearPattern = regexp.MustCompile(`^\d{4}$`)
)

// checkISOWeek passes when the designated week field holds a 1-2 digit
// number between 1 and the ISO week count of the designated (or current)
// year. Missing or malformed fields fail the check without raising an error:
// incomplete data is a validation failure, not a system fault.
func (v *Validator) checkISOWeek(ctx context.Context, attrs map[string]any, rs resolvedSpec) (bool, error) {
	args, err := stringArgs(rs.args)
	if err != nil {
		return false, err
	}
	if len(args) == 0 || len(args) > 2 {
		return false, errors.Join(ErrBadCheckArgs, errors.New("isISOWeek: need a week field and optionally a year field"))
	}

	rawWeek, ok := attrs[args[0]]
	if !ok || rawWeek == nil {
		v.log.DebugContext(ctx, "isISOWeek: week field missing from document", "field", args[0])
		return false, nil
	}
	week := strings.TrimSpace(fmt.Sprint(rawWeek))
	if !weekPattern.MatchString(week) {
		v.log.DebugContext(ctx, "isISOWeek: week value is not a 1-2 digit number", "value", week)
		return false, nil
	}

	year := v.now().Year()
	if len(args) == 2 {
		rawYear, ok := attrs[args[1]]
		if !ok || rawYear == nil {
			v.log.DebugContext(ctx, "isISOWeek: year field missing from document", "field", args[1])
			return false, nil
		}
		ys := strings.TrimSpace(fmt.Sprint(rawYear))
		if !yearPattern.MatchString(ys) {
			v.log.DebugContext(ctx, "isISOWeek: year value is not a 4 digit number", "value", ys)
			return false, nil
		}
		year, _ = strconv.Atoi(ys)
	}

	n, _ := strconv.Atoi(week)
	return n >= 1 && n <= isoWeeksInYear(year), nil
}

// isoWeeksInYear returns 52 or 53 per the ISO-8601 week calendar. December
// 28th always falls in the year's last ISO week.
func isoWeeksInYear(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// windowStart parses a "<integer> <unit>" window and returns now minus that
// span. Day-and-larger units use calendar arithmetic.
func windowStart(now time.Time, window string) (time.Time, error) {
	parts := strings.Fields(window)
	if len(parts) != 2 {
		return time.Time{}, errors.Join(ErrBadWindow, fmt.Errorf("window %q: want \"<integer> <unit>\"", window))
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil || n < 0 {
		return time.Time{}, errors.Join(ErrBadWindow, fmt.Errorf("window %q: bad amount", window))
	}

	switch strings.TrimSuffix(strings.ToLower(parts[1]), "s") {
	case "second":
		return now.Add(-time.Duration(n) * time.Second), nil
	case "minute":
		return now.Add(-time.Duration(n) * time.Minute), nil
	case "hour":
		return now.Add(-time.Duration(n) * time.Hour), nil
	case "day":
		return now.AddDate(0, 0, -n), nil
	case "week":
		return now.AddDate(0, 0, -7*n), nil
	case "month":
		return now.AddDate(0, -n, 0), nil
	case "year":
		return now.AddDate(-n, 0, 0), nil
	}
	return time.Time{}, errors.Join(ErrBadWindow, fmt.Errorf("window %q: unknown unit", window))
}

func stringArgs(args []any) ([]string, error) {
	out := make([]string, len(args))
	for i, arg := range args {
		s, ok := arg.(string)
		if !ok {
			return nil, errors.Join(ErrBadCheckArgs, fmt.Errorf("argument %d is %T, want string", i, arg))
		}
		out[i] = s
	}
	return out, nil
}
