package notification

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// QRRenderer renders ticket codes as PNG QR images and keeps a copy on disk
// when dir is set.
type QRRenderer struct {
	dir  string
	size int
	log  *zap.Logger
}

func NewQRRenderer(dir string, size int, log *zap.Logger) *QRRenderer {
	if size <= 0 {
		size = 256
	}
	return &QRRenderer{
		dir:  dir,
		size: size,
		log:  log.With(zap.String("component", "qr_renderer")),
	}
}

// Render only fails when encoding fails. A copy that cannot be written to
// disk is logged and the PNG is still returned.
func (q *QRRenderer) Render(code string) ([]byte, error) {
	png, err := qrcode.Encode(code, qrcode.Medium, q.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr %s: %w", code, err)
	}

	if q.dir == "" {
		return png, nil
	}

	if err := q.save(code, png); err != nil {
		q.log.Warn("Failed to keep QR copy on disk",
			zap.Error(err),
			zap.String("ticket_code", code),
			zap.String("dir", q.dir))
	}

	return png, nil
}

func (q *QRRenderer) save(code string, png []byte) error {
	if err := os.MkdirAll(q.dir, 0o755); err != nil {
		return fmt.Errorf("create qr dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(q.dir, code+".png"), png, 0o644); err != nil {
		return fmt.Errorf("write qr %s: %w", code, err)
	}
	return nil
}
