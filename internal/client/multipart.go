package client

import (
	"bytes"
	"io"
	"mime/multipart"

	"go-medscan/internal/progress"
	"go-medscan/pkg/models"
)

// encodeMultipart builds the multipart body for an upload. The backend's
// endpoints disagree on the field name ("file" vs "image"), so it is a
// parameter rather than a constant.
func encodeMultipart(fieldName string, req *models.UploadRequest) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile(fieldName, req.Filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.Content); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

// progressReader counts bytes as the HTTP transport drains the request body
// and surfaces transmission percentage without blocking the transfer.
// Once the final byte has been handed to the transport it reports the
// Processing phase, held at 100 until the request resolves.
type progressReader struct {
	r           io.Reader
	total       int64
	read        int64
	lastPercent int
	report      progress.Reporter
	done        bool
}

func newProgressReader(r io.Reader, total int64, report progress.Reporter) *progressReader {
	return &progressReader{r: r, total: total, lastPercent: -1, report: report}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.emit()
	}
	return n, err
}

func (p *progressReader) emit() {
	if p.report == nil || p.total <= 0 || p.done {
		return
	}

	percent := int(p.read * 100 / p.total)
	if percent > 100 {
		percent = 100
	}
	if percent > p.lastPercent {
		p.lastPercent = percent
		p.report(progress.PhaseUploading, percent)
	}
	if p.read >= p.total {
		p.done = true
		p.report(progress.PhaseProcessing, 100)
	}
}
