package orchestrator

import "github.com/nightsky-edu/astrolearn/backend/internal/service/provider"

// friendlyMessage maps an error classification onto the fixed user-facing
// text. Raw provider errors never reach the conversation log.
func friendlyMessage(class provider.Classification) string {
	switch class {
	case provider.Unauthorized:
		return "API密钥无效或已过期，请在设置中检查密钥配置。"
	case provider.RateLimited:
		return "请求过于频繁，请稍等片刻再试。"
	case provider.Timeout:
		return "AI服务响应超时，请稍后重试。"
	case provider.Transport:
		return "网络连接出现问题，请检查网络后重试。"
	case provider.MalformedResponse:
		return "AI服务返回了异常结果，请重新发送一次。"
	case provider.CapabilityUnavailable:
		return "当前没有配置图像理解服务，暂时无法分析图片。请先在设置中配置 OpenAI、Gemini 或 Claude 的API密钥。"
	default:
		return "抱歉，遇到了未知错误，请稍后重试。"
	}
}
