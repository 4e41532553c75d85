package common

const (
	ErrorDetailBind   = "bind request failed: "
	ErrorDetailDecode = "decode request failed: "

	// AcknowledgeMessageMaxLen 与 acknowledges.message 列宽一致
	AcknowledgeMessageMaxLen = 255
)
