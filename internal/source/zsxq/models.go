package zsxq

import "zsxq_sync/internal/domain"

// apiResponse is the envelope every ZSXQ endpoint returns. Some
// responses omit succeeded and signal failure through code instead.
type apiResponse struct {
	Succeeded *bool    `json:"succeeded"`
	Code      int      `json:"code"`
	Msg       string   `json:"msg"`
	Error     string   `json:"error"`
	RespData  respData `json:"resp_data"`
}

type respData struct {
	Topics []domain.Topic `json:"topics"`
	Topic  *domain.Topic  `json:"topic"`
}

func (r *apiResponse) ok() bool {
	if r.Code == authErrorCode {
		return false
	}
	return r.Succeeded == nil || *r.Succeeded
}

func (r *apiResponse) errorMessage() string {
	if r.Msg != "" {
		return r.Msg
	}
	if r.Error != "" {
		return r.Error
	}
	return "unknown error"
}
