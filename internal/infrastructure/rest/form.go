package rest

import (
	"bytes"
	"io"
	"mime/multipart"

	"github.com/pkg/errors"
)

// Form cuerpo multipart/form-data en construcción. El Client lo detecta y lo
// envía sin serializar a JSON, con el Content-Type (y boundary) del writer.
type Form struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	closed bool
}

// NewForm crea un formulario multipart vacío.
func NewForm() *Form {
	f := &Form{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

// Field añade un campo de texto.
func (f *Form) Field(name, value string) error {
	if f.closed {
		return errors.New("rest: formulario ya cerrado")
	}
	return f.writer.WriteField(name, value)
}

// File añade un archivo binario.
func (f *Form) File(name, filename string, content []byte) error {
	if f.closed {
		return errors.New("rest: formulario ya cerrado")
	}
	part, err := f.writer.CreateFormFile(name, filename)
	if err != nil {
		return err
	}
	_, err = part.Write(content)
	return err
}

// ContentType devuelve "multipart/form-data; boundary=...". Cierra el formulario.
func (f *Form) ContentType() string {
	f.close()
	return f.writer.FormDataContentType()
}

// Reader devuelve el cuerpo listo para enviar. Cierra el formulario.
func (f *Form) Reader() io.Reader {
	f.close()
	return &f.buf
}

func (f *Form) close() {
	if !f.closed {
		_ = f.writer.Close()
		f.closed = true
	}
}
