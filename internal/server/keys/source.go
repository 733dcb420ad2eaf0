// Package keys supplies the RSA key pairs used to sign and verify tokens.
// Each token purpose has its own pair, stored as PEM under
// private_<purpose>.pem and public_<purpose>.pem.
package keys

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gophauth/internal/filex"
)

// Source returns raw PEM bytes for a named key file.
type Source interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// Sink stores PEM bytes under a key file name.
type Sink interface {
	Write(ctx context.Context, name string, data []byte) error
}

// PrivateKeyName is the file name of the private key for purpose.
func PrivateKeyName(purpose string) string {
	return "private_" + purpose + ".pem"
}

// PublicKeyName is the file name of the public key for purpose.
func PublicKeyName(purpose string) string {
	return "public_" + purpose + ".pem"
}

// FileSource reads and writes keys in a local directory.
type FileSource struct {
	Dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Read(_ context.Context, name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("read key file %s: %w", name, err)
	}
	return b, nil
}

// Write creates the directory when missing and replaces name atomically.
// Key files are readable by the owner only.
func (s *FileSource) Write(_ context.Context, name string, data []byte) error {
	dir, err := filex.EnsureDir(s.Dir, 0o700)
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(filepath.Join(dir, name), data, 0o600)
}
