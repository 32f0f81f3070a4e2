package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 11000-11999: Submission intake errors
// 12000-12999: Judge & backend errors
// 13000-13999: Contest & standings errors

const (
	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	ServiceUnavailable  ErrorCode = 10004

	// Database errors (10100-10199)
	DatabaseError  ErrorCode = 10100
	RecordNotFound ErrorCode = 10101

	// Cache errors (10200-10299)
	CacheError ErrorCode = 10200
	CacheMiss  ErrorCode = 10201

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	RequiredFieldEmpty ErrorCode = 10301

	// Submission intake (11000-11099)
	SubmissionNotFound   ErrorCode = 11000
	DuplicateSolution    ErrorCode = 11001
	UnknownProblem       ErrorCode = 11002
	LanguageNotSupported ErrorCode = 11003
	SourceEmpty          ErrorCode = 11004

	// Judge & backend (12000-12099)
	JudgeBackendError  ErrorCode = 12000
	VerdictParseError  ErrorCode = 12001
	ProjectLayoutError ErrorCode = 12002

	// Contest & standings (13000-13099)
	ContestNotStarted ErrorCode = 13000
)

var errorMessages = map[ErrorCode]string{
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	ServiceUnavailable:  "Service unavailable",

	DatabaseError:  "Database operation failed",
	RecordNotFound: "Record not found",

	CacheError: "Cache operation failed",
	CacheMiss:  "Cache miss",

	ValidationFailed:   "Validation failed",
	RequiredFieldEmpty: "Required field is empty",

	SubmissionNotFound:   "Submission not found",
	DuplicateSolution:    "Solution already exists",
	UnknownProblem:       "Problem does not exist",
	LanguageNotSupported: "Language is not supported",
	SourceEmpty:          "Solution source is empty",

	JudgeBackendError:  "Judge backend invocation failed",
	VerdictParseError:  "Judge verdict output could not be parsed",
	ProjectLayoutError: "Contest project layout is invalid",

	ContestNotStarted: "Contest has not started",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus maps the error code to an HTTP status code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == NotFound, c == RecordNotFound, c == SubmissionNotFound, c == UnknownProblem:
		return 404
	case c == DuplicateSolution:
		return 409
	case c == ServiceUnavailable:
		return 503
	case c >= 10300 && c < 10400: // Validation errors
		return 400
	case c == InvalidParams, c == LanguageNotSupported, c == SourceEmpty:
		return 400
	default:
		return 500
	}
}
