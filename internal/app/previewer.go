package app

import (
	"context"

	"extidy/internal/domain"
)

// Previewer materializes a scan into a TransferPlan without touching the
// filesystem. Calling it twice over an unchanged tree yields the same plan.
type Previewer struct {
	Scanner *Scanner
}

func (p *Previewer) Preview(ctx context.Context, sourceDir, destDir string, exts domain.ExtensionSet, recursive, copyMode bool) (domain.TransferPlan, error) {
	entries, err := p.Scanner.Scan(ctx, sourceDir, exts, recursive)
	if err != nil {
		return domain.TransferPlan{}, err
	}
	return domain.TransferPlan{
		SourceDir:  sourceDir,
		DestDir:    destDir,
		Extensions: exts,
		Recursive:  recursive,
		Copy:       copyMode,
		Entries:    entries,
	}, nil
}
