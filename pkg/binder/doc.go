// Package binder populates request structs from URL query parameters.
//
// Fields are matched by the `query` struct tag:
//
//	type request struct {
//	    Filename string   `query:"filename,required"`
//	    Limit    *int     `query:"limit"`   // optional
//	    Tags     []string `query:"tags"`    // ?tags=a&tags=b or ?tags=a,b
//	    Internal string   `query:"-"`       // skipped
//	}
//
// A `required` option rejects a request whose parameter is absent or empty with
// ErrMissingParam. Conversion failures wrap ErrInvalidQuery. Both messages name the
// parameter and never echo its value.
package binder
