package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Configuration errors
	CodeConfigurationMissing Code = "CONFIGURATION_MISSING"

	// Backend errors
	CodeBackendUnavailable       Code = "BACKEND_UNAVAILABLE"
	CodeBackendRejected          Code = "BACKEND_REJECTED"
	CodeBackendMalformedResponse Code = "BACKEND_MALFORMED_RESPONSE"

	// Query errors
	CodeUnknownAttribute Code = "UNKNOWN_ATTRIBUTE"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"

	// Rendering errors
	CodeRenderUnavailable Code = "RENDER_UNAVAILABLE"

	// Codec errors
	CodeCodecInvalidInput Code = "CODEC_INVALID_INPUT"
)

// Metadata keys shared between error producers and message templates.
const (
	MetadataStatus      = "status"
	MetadataAttributeID = "attribute_id"
	MetadataEndpoint    = "endpoint"
	MetadataArgument    = "argument"
	MetadataExpected    = "expected"
)

// Transient reports whether a refresh failing with this code may succeed
// later and therefore qualifies for serving a stale cached value.
func (c Code) Transient() bool {
	switch c {
	case CodeBackendUnavailable,
		CodeBackendRejected,
		CodeBackendMalformedResponse:
		return true
	default:
		return false
	}
}
