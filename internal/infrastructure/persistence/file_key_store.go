package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
	"github.com/AastromSecurity/Crypto/internal/domain/keys"
	"github.com/AastromSecurity/Crypto/internal/infrastructure/persistence/models"
	"github.com/AastromSecurity/Crypto/internal/pkg/logger"
)

// Layout of the key directory
const (
	PublicDirName      = "public"
	PrivateDirName     = "private"
	PublicKeyFile      = "public_key"
	PublicExponentFile = "public_exponent"
	PrivateKeyFile     = "private_key"

	keyDirPerm  = 0700
	keyFilePerm = 0600
)

// fileKeyPairStore keeps one key pair as hex text files below keyDir.
type fileKeyPairStore struct {
	keyDir          string
	defaultExponent *big.Int
	logger          logger.Logger
}

// NewFileKeyPairStore creates a file based KeyPairStore rooted at keyDir.
// defaultExponent is reported when a key directory has no public_exponent file.
func NewFileKeyPairStore(keyDir string, defaultExponent *big.Int, logger logger.Logger) (keys.KeyPairStore, error) {
	if keyDir == "" {
		return nil, fmt.Errorf("key directory cannot be empty")
	}
	if defaultExponent == nil || defaultExponent.Sign() <= 0 {
		return nil, fmt.Errorf("default public exponent must be positive")
	}

	return &fileKeyPairStore{
		keyDir:          keyDir,
		defaultExponent: new(big.Int).Set(defaultExponent),
		logger:          logger,
	}, nil
}

func (s *fileKeyPairStore) publicPath(name string) string {
	return filepath.Join(s.keyDir, PublicDirName, name)
}

func (s *fileKeyPairStore) privatePath(name string) string {
	return filepath.Join(s.keyDir, PrivateDirName, name)
}

// Save writes n and e below public/ and d below private/, replacing earlier files.
// When a file cannot be replaced, the files already swapped in are rolled back.
func (s *fileKeyPairStore) Save(ctx context.Context, keyPair *cryptoalg.KeyPair) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if keyPair == nil {
		return fmt.Errorf("%w: key pair cannot be nil", cryptoalg.ErrInvalidParameters)
	}
	if err := keyPair.Validate(); err != nil {
		return fmt.Errorf("%w: %v", cryptoalg.ErrInvalidParameters, err)
	}

	for _, dir := range []string{filepath.Join(s.keyDir, PublicDirName), filepath.Join(s.keyDir, PrivateDirName)} {
		if err := os.MkdirAll(dir, keyDirPerm); err != nil {
			return fmt.Errorf("failed to create key directory %s: %w", dir, err)
		}
	}

	files := []struct {
		path  string
		value *big.Int
	}{
		{s.publicPath(PublicKeyFile), keyPair.N},
		{s.publicPath(PublicExponentFile), keyPair.E},
		{s.privatePath(PrivateKeyFile), keyPair.D},
	}

	// Every file is staged before the first one is replaced.
	staged := make([]stagedKeyFile, 0, len(files))
	defer func() {
		for _, f := range staged {
			_ = os.Remove(f.tmp)
		}
	}()
	for _, f := range files {
		file, err := stageKeyFile(f.path, models.FormatHexInteger(f.value))
		if err != nil {
			return err
		}
		staged = append(staged, file)
	}

	for i, f := range staged {
		if err := renameFile(f.tmp, f.path); err != nil {
			err = fmt.Errorf("failed to replace key file %s: %w", f.path, err)
			if restoreErr := restoreKeyFiles(staged[:i]); restoreErr != nil {
				s.logger.Error("Key directory ", s.keyDir, " holds a mixed key pair: ", restoreErr)
				return errors.Join(err, restoreErr)
			}
			return err
		}
	}

	s.logger.Info("Stored RSA key pair in ", s.keyDir)
	return nil
}

// LoadPublicKey reads (n, e).
func (s *fileKeyPairStore) LoadPublicKey(ctx context.Context) (*cryptoalg.PublicKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n, err := readKeyFile(s.publicPath(PublicKeyFile))
	if err != nil {
		return nil, err
	}

	e, err := readKeyFile(s.publicPath(PublicExponentFile))
	if errors.Is(err, cryptoalg.ErrMissingKeys) {
		s.logger.Debug("No public exponent stored, using ", s.defaultExponent)
		e, err = new(big.Int).Set(s.defaultExponent), nil
	}
	if err != nil {
		return nil, err
	}

	return &cryptoalg.PublicKey{N: n, E: e}, nil
}

// LoadPrivateKey reads (n, d).
func (s *fileKeyPairStore) LoadPrivateKey(ctx context.Context) (*cryptoalg.PrivateKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n, err := readKeyFile(s.publicPath(PublicKeyFile))
	if err != nil {
		return nil, err
	}
	d, err := readKeyFile(s.privatePath(PrivateKeyFile))
	if err != nil {
		return nil, err
	}

	return &cryptoalg.PrivateKey{N: n, D: d}, nil
}

// renameFile is os.Rename; tests swap it to simulate a failing replace.
var renameFile = os.Rename

// stagedKeyFile is a key file written next to its target but not yet swapped in.
type stagedKeyFile struct {
	path     string
	tmp      string
	previous []byte
	existed  bool
}

// stageKeyFile writes text to a 0600 temporary file beside path and remembers the
// current content of path so the replace can be undone.
func stageKeyFile(path, text string) (stagedKeyFile, error) {
	staged := stagedKeyFile{path: path}

	previous, err := os.ReadFile(path)
	switch {
	case err == nil:
		staged.previous, staged.existed = previous, true
	case !errors.Is(err, fs.ErrNotExist):
		return staged, fmt.Errorf("failed to read key file %s: %w", path, err)
	}

	tmp, err := writeTempKeyFile(path, []byte(text+"\n"))
	if err != nil {
		return staged, err
	}
	staged.tmp = tmp
	return staged, nil
}

// restoreKeyFiles puts back what the already replaced files held before the save.
func restoreKeyFiles(replaced []stagedKeyFile) error {
	var errs []error
	for _, f := range replaced {
		if !f.existed {
			if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, fmt.Errorf("failed to remove key file %s: %w", f.path, err))
			}
			continue
		}

		tmp, err := writeTempKeyFile(f.path, f.previous)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := renameFile(tmp, f.path); err != nil {
			_ = os.Remove(tmp)
			errs = append(errs, fmt.Errorf("failed to restore key file %s: %w", f.path, err))
		}
	}
	return errors.Join(errs...)
}

func writeTempKeyFile(path string, content []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create key file %s: %w", path, err)
	}

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write key file %s: %w", path, err)
	}
	if err := tmp.Chmod(keyFilePerm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to set permissions on key file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close key file %s: %w", path, err)
	}
	return tmp.Name(), nil
}

func readKeyFile(path string) (*big.Int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", cryptoalg.ErrMissingKeys, path)
		}
		return nil, fmt.Errorf("failed to read key file %s: %w", path, err)
	}

	v, err := models.ParseHexInteger(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
