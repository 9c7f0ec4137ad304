package respond

import (
	"regexp"
)

var (
	// Apps Script デプロイID（URLを知っていれば誰でも書き込める）
	scriptDeploymentPattern = regexp.MustCompile(`/macros/s/[A-Za-z0-9_-]+`)

	// URL内の認証情報
	urlCredentialPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)

	// item data parameter (base64 payload of a write)
	dataParamPattern = regexp.MustCompile(`([?&]data=)[^&\s"]+`)
)

// SanitizeError は機密情報をマスクしたエラーメッセージを返す
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = scriptDeploymentPattern.ReplaceAllString(msg, "/macros/s/****")
	msg = urlCredentialPattern.ReplaceAllString(msg, "://$1:****@")
	msg = dataParamPattern.ReplaceAllString(msg, "${1}****")
	return msg
}
