package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown                  = "UNKNOWN"
	CodeConfigurationMissing     = "CONFIGURATION_MISSING"
	CodeBackendUnavailable       = "BACKEND_UNAVAILABLE"
	CodeBackendRejected          = "BACKEND_REJECTED"
	CodeBackendMalformedResponse = "BACKEND_MALFORMED_RESPONSE"
	CodeUnknownAttribute         = "UNKNOWN_ATTRIBUTE"
	CodeInvalidArgument          = "INVALID_ARGUMENT"
	CodeRenderUnavailable        = "RENDER_UNAVAILABLE"
	CodeCodecInvalidInput        = "CODEC_INVALID_INPUT"
)

var zhHansMessages = map[Code]string{
	CodeUnknown:                  "处理命令时发生未知错误，请稍后重试",
	CodeConfigurationMissing:     "❌ API 基础地址未配置，请在插件设置中配置",
	CodeBackendUnavailable:       "❌ 无法连接数据服务，请稍后重试",
	CodeBackendRejected:          "❌ 数据服务拒绝了请求 (状态码 {{.status}})",
	CodeBackendMalformedResponse: "❌ 数据服务返回了无法解析的数据",
	CodeUnknownAttribute:         "❌ 未找到 ID 为 {{.attribute_id}} 的属性，使用 /ar_attr ls 查看属性列表",
	CodeInvalidArgument:          "❌ 参数 '{{.argument}}' 无效，应为{{.expected}}",
	CodeRenderUnavailable:        "❌ 该属性没有可绘制的克制关系",
	CodeCodecInvalidInput:        "错误：内容不是有效的{{.expected}}格式",
}
