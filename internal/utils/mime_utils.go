package utils

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
)

// ExtractTextFromMessage extracts the plain text content from a parsed email.
// Multipart messages are walked for text/plain parts; anything else falls back
// to the raw body.
func (tp *TextProcessor) ExtractTextFromMessage(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return tp.readBody(msg.Body, params["charset"], msg.Header.Get("Content-Transfer-Encoding"))
	}

	boundary, ok := params["boundary"]
	if !ok {
		return tp.readBody(msg.Body, params["charset"], msg.Header.Get("Content-Transfer-Encoding"))
	}

	mr := multipart.NewReader(msg.Body, boundary)

	var textContent bytes.Buffer
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		partType, partParams, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil || partType != "text/plain" {
			continue
		}

		text, err := tp.readBody(part, partParams["charset"], part.Header.Get("Content-Transfer-Encoding"))
		if err != nil {
			continue
		}
		textContent.WriteString(text)
		textContent.WriteString("\n")
	}

	if textContent.Len() > 0 {
		return textContent.String(), nil
	}
	return "", nil
}

// readBody decodes the transfer encoding and charset of a single body part
func (tp *TextProcessor) readBody(r io.Reader, charset, transferEncoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(transferEncoding)) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}
	return tp.DecodeCharset(r, charset)
}
