package metadomain

// Códigos de erro da Graph API usados na classificação de retentativas
const (
	ErrorCodeUnknown             = 1
	ErrorCodeTransient           = 2   // erro genérico temporário da API
	ErrorCodeAppRateLimited      = 4
	ErrorCodeUserRateLimited     = 17
	ErrorCodeInvalidParameter    = 100
	ErrorCodeAccessToken         = 190
	ErrorCodePermission          = 200
	ErrorCodeNonexistentEndpoint = 803
	ErrorCodeAdAccountRateLimit  = 80004

	// Subcódigo de limite de requisições da conta de anúncios
	ErrorSubcodeAccountRateLimited = 2446079
)

// ErrorResponse representa a estrutura de erro da API do Meta
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails contém os detalhes de erro da API do Meta
type ErrorDetails struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode,omitempty"`
	UserTitle    string `json:"error_user_title,omitempty"`
	UserMessage  string `json:"error_user_msg,omitempty"`
	FBTraceID    string `json:"fbtrace_id"`
}

// IsTokenExpired verifica se o erro é de token expirado
func (e ErrorDetails) IsTokenExpired() bool {
	// Possíveis subcódigos relacionados a problemas de token: 460, 463, 467
	return e.Code == ErrorCodeAccessToken ||
		(e.Type == "OAuthException" && (e.ErrorSubcode == 460 || e.ErrorSubcode == 463 || e.ErrorSubcode == 467))
}

// IsFatal indica erros que nunca devem ser retentados
func (e ErrorDetails) IsFatal() bool {
	switch e.Code {
	case ErrorCodeInvalidParameter, ErrorCodePermission, ErrorCodeNonexistentEndpoint:
		return true
	}
	return false
}

// IsAccountRateLimited indica que a conta inteira atingiu o limite de chamadas
func (e ErrorDetails) IsAccountRateLimited() bool {
	return e.ErrorSubcode == ErrorSubcodeAccountRateLimited &&
		(e.Code == ErrorCodeAdAccountRateLimit || e.Code == ErrorCodeUserRateLimited)
}

func (e ErrorDetails) IsTransient() bool {
	return e.Code == ErrorCodeTransient
}
