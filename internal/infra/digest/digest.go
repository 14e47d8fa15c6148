package digest

import (
	"context"
	"crypto/sha512"
	"errors"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// SHA512 streams files through crypto/sha512, matching the content identity
// used for duplicate skipping.
type SHA512 struct{}

func (SHA512) Sum(ctx context.Context, path string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := sha512.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// IndexTree digests every regular file under root. Files named skipName and
// unreadable entries are left out; an unreadable file in the destination is
// no reason to abort the whole run.
func (d SHA512) IndexTree(ctx context.Context, root, skipName string) (map[string]struct{}, error) {
	seen := make(map[string]struct{})

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if walkErr != nil {
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() || entry.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if entry.Name() == skipName {
			return nil
		}
		sum, sumErr := d.Sum(ctx, path)
		if sumErr != nil {
			if errors.Is(sumErr, context.Canceled) || errors.Is(sumErr, context.DeadlineExceeded) {
				return sumErr
			}
			return nil
		}
		seen[sum] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seen, nil
}
