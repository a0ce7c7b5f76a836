// Package http implements the HTTP request handlers of the analysis service.
// Handlers stay thin: they parse the request, delegate to internal/services and
// translate service errors into responses.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → dataprocessing
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Analysis
//
// POST /analyze accepts multipart/form-data with one or more parts in the
// "files" field and an optional integer top_n (query string or form field).
// A successful analysis answers 200 with the result payload. When no uploaded
// file yields rows the answer is still 200, with {"error": "No readable data found"}.
//
// # Error Handling
//
// Request errors follow RFC 7807 Problem Details and are produced by
// errors.ErrorHandler:
//
//	{
//	    "type": "/errors/validation",
//	    "title": "Bad Request",
//	    "status": 400,
//	    "detail": "Request validation failed",
//	    "instance": "/analyze",
//	    "error_code": "VALIDATION_FAILED",
//	    "details": {"field": "top_n", "message": "top_n must be between 0 and 1000"}
//	}
//
// # Testing
//
// Handlers are tested with httptest against a testify mock of the service.
package http
