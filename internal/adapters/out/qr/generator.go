// Package qr renders and removes the QR artifacts couriers scan to open
// their delivery page. One PNG per active delivery token, named after the
// token itself, so revoking a token maps to deleting one file.
package qr

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skip2/go-qrcode"
)

const artifactSize = 256

// FileGenerator writes QR PNGs into a local artifact directory. The encoded
// content is the public delivery page URL carrying the token.
type FileGenerator struct {
	artifactDir     string
	deliveryBaseURL string
}

// NewFileGenerator creates a generator writing into artifactDir.
// The directory is created on first use.
func NewFileGenerator(artifactDir, deliveryBaseURL string) *FileGenerator {
	return &FileGenerator{
		artifactDir:     artifactDir,
		deliveryBaseURL: deliveryBaseURL,
	}
}

// GenerateForToken renders the QR PNG for one delivery token.
func (g *FileGenerator) GenerateForToken(token string) error {
	if err := os.MkdirAll(g.artifactDir, 0o755); err != nil {
		return fmt.Errorf("create qr artifact dir: %w", err)
	}

	pageURL := fmt.Sprintf("%s/%s", g.deliveryBaseURL, token)
	return qrcode.WriteFile(pageURL, qrcode.Medium, artifactSize, g.artifactPath(token))
}

// RemoveForToken deletes the QR PNG of a revoked token. A missing file is
// not an error; the artifact may never have been rendered.
func (g *FileGenerator) RemoveForToken(token string) error {
	err := os.Remove(g.artifactPath(token))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (g *FileGenerator) artifactPath(token string) string {
	return filepath.Join(g.artifactDir, token+".png")
}
