package i18n

var enUSMessages = map[Code]string{
	CodeUnknown:                  "An unexpected error occurred, please try again later",
	CodeConfigurationMissing:     "The API base URL is not configured",
	CodeBackendUnavailable:       "The data service is unreachable, please try again later",
	CodeBackendRejected:          "The data service rejected the request (status {{.status}})",
	CodeBackendMalformedResponse: "The data service returned an unreadable response",
	CodeUnknownAttribute:         "No attribute with id {{.attribute_id}}; use /ar_attr ls to list attributes",
	CodeInvalidArgument:          "Invalid argument '{{.argument}}', expected {{.expected}}",
	CodeRenderUnavailable:        "This attribute has no relations to draw",
	CodeCodecInvalidInput:        "Error: content is not valid {{.expected}}",
}
