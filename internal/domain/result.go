package domain

// Result é o retorno de comandos que podem falhar parcialmente (criação e
// exclusão); é repassado sem alteração pela camada HTTP
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func Fail[T any](message string, data T) Result[T] {
	return Result[T]{Success: false, Message: message, Data: data}
}

// DeleteSummary descreve uma exclusão em lote. Skipped são ids que não foram
// enviados à API porque o objeto ou o pai já estava removido; Failed são os
// ids cuja sub-resposta falhou na última tentativa.
type DeleteSummary struct {
	IDs      []string     `json:"ids"`
	Status   ObjectStatus `json:"status"`
	Skipped  []string     `json:"skipped,omitempty"`
	Failed   []string     `json:"failed,omitempty"`
	Attempts int          `json:"attempts"`
	Cascaded int64        `json:"cascaded"`
}
