// Package errors provides the classified error primitives used across eventsite.
//
// A ClassifiedError carries a category (config, content, store, render, ...), a
// severity and a retry strategy next to the message and wrapped cause. Errors are
// built with the fluent ErrorBuilder:
//
//	err := errors.WrapError(cause, errors.CategoryContent, "failed to query events").
//		WithContext("stage", "create_pages").
//		Build()
//
// The CLIErrorAdapter maps categories to process exit codes for the command line.
package errors
