package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Form records the form code under the key "form".
func Form(code string) slog.Attr {
	if code == "" {
		return slog.Attr{}
	}
	return slog.String("form", code)
}

// DocID records the document identifier under the key "doc_id".
func DocID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("doc_id", id)
}
