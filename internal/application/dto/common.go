package dto

// DeleteRequest lote de ids a borrar. El API acepta siempre una lista,
// aunque la mayoría de llamadas envíe un solo elemento.
type DeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// DeleteResponse ids que el servidor borró efectivamente. Puede ser un
// subconjunto de lo pedido; el servidor es la fuente de verdad.
type DeleteResponse struct {
	IDs []int64 `json:"ids"`
}

// ErrorResponse error estructurado del backend.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
