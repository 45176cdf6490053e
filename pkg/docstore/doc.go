// Package docstore provides read access to the platform's record database
// for the validation pipeline.
//
// The pipeline needs exactly two operations: a keyed lookup against the
// attribute index (QueryView) and a multi-get of full documents (FetchDocs).
// Two backends implement them:
//
//   - MongoStore queries a records collection whose documents carry a
//     derived search_keys array, one "<field>:<lowercased value>" entry per
//     indexed attribute.
//   - OpenSearchStore runs a term query against the same keys in an
//     OpenSearch index, for deployments that already index records for the
//     platform's search screens.
//
// Both backends return Row and Doc values; callers consume them through an
// interface they define themselves.
package docstore
