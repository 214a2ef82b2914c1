package model

import "errors"

var (
	// ErrReportNotFound indicates that the requested report does not exist.
	ErrReportNotFound = errors.New("report not found")
	// ErrInvalidReportType indicates an unknown report type.
	ErrInvalidReportType = errors.New("invalid report type")
	// ErrNoRecipients indicates that a summary has nobody to go to.
	ErrNoRecipients = errors.New("no recipients for summary")
)
