package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/altronvault/altron/internal/common"
)

// PromptProvider picks folders by asking the user for a path on the CLI.
// An empty answer aborts the pick.
type PromptProvider struct {
	reader *bufio.Reader
	w      io.Writer
}

func NewPromptProvider(reader *bufio.Reader, w io.Writer) *PromptProvider {
	return &PromptProvider{reader: reader, w: w}
}

func (p *PromptProvider) Pick(ctx context.Context) (Binding, error) {
	if _, err := fmt.Fprint(p.w, "Enter vault folder path (empty to cancel)\n> "); err != nil {
		return nil, err
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	path := strings.TrimSpace(line)
	if path == "" {
		return nil, common.ErrorAborted
	}

	return NewDirBinding(path)
}

func (p *PromptProvider) Restore(ctx context.Context, ref string) (Binding, error) {
	b, err := NewDirBinding(ref)
	if err != nil {
		return nil, common.ErrorPermission
	}
	if err := b.Reacquire(ctx); err != nil {
		return nil, err
	}
	return b, nil
}
