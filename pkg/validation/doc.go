// Package validation runs declarative per-field validation rules against
// incoming record documents and reduces the outcome to a localized error
// list.
//
// A rule is an expr-lang expression over the document's flattened attributes.
// Rules may instead invoke one of a fixed set of database-backed checks —
// unique, uniqueWithin, exists, isISOWeek — which cannot be expressed in the
// expression grammar because they consult the record store.
//
// # Pipeline
//
// Validate runs four stages in order:
//
//  1. Resolution: every rule is parsed; rules invoking a known check are
//     rewritten onto a synthetic property name ("<property>_<check>") so a
//     sibling rule on the same field keeps its own result slot. Resolution
//     is a pure transform; the caller's specs are never mutated. Any parse
//     failure aborts the call with a *RuleError carrying every failure.
//  2. Synchronous evaluation: each rule is compiled (check names bound as
//     always-true stubs) and run against the attribute map, producing an
//     insertion-ordered ResultSet.
//  3. Checks: database-backed checks run strictly one at a time, in
//     declaration order. A check returning false downgrades its property in
//     the ResultSet; a check can never flip a false back to true. The first
//     check error aborts the call.
//  4. Reduction: every property still false and not ignored becomes an
//     Error{Code: "invalid_<property>"} with its localized message.
//
// # Usage
//
//	v := validation.New(store, validation.WithLogger(log))
//	errs, err := v.Validate(ctx, doc, specs)
//	if err != nil {
//	    // system fault: unparseable rules or store failure
//	}
//	if len(errs) > 0 {
//	    // the document is invalid; errs lists every failed property
//	}
//
// A failing rule is not an error: Validate returns the failures as a list
// and a nil error. Only grammar failures and store I/O surface as errors.
package validation
