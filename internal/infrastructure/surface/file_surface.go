// Package surface renders the badge to files a status bar or launcher can read.
package surface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/infrastructure/filesystem"
	"github.com/bnema/geobadge/internal/logging"
)

const (
	IconFileName  = "icon.png"
	BadgeFileName = "badge.json"
)

// State is the content of badge.json.
type State struct {
	// IconPath is the asset shown, empty when a composed image is shown.
	IconPath  string    `json:"icon_path,omitempty"`
	IconFile  string    `json:"icon_file"`
	Text      string    `json:"text"`
	TextColor string    `json:"text_color,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type assetReader interface {
	ReadFile(path string) ([]byte, error)
}

// FileSurface implements port.BadgeSurface by writing icon.png and badge.json into dir.
type FileSurface struct {
	dir    string
	assets assetReader
	now    func() time.Time

	mu    sync.Mutex
	state State
}

var _ port.BadgeSurface = (*FileSurface)(nil)

func NewFileSurface(dir string, assets assetReader) *FileSurface {
	return &FileSurface{
		dir:    dir,
		assets: assets,
		now:    time.Now,
		state:  State{IconFile: filepath.Join(dir, IconFileName)},
	}
}

func (s *FileSurface) Dir() string {
	return s.dir
}

func (s *FileSurface) SetIconPath(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IconPath == path {
		return nil
	}
	data, err := s.assets.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read icon %s: %w", path, err)
	}
	if err := s.writeIcon(data); err != nil {
		return err
	}
	s.state.IconPath = path

	logging.FromContext(ctx).Trace().Str("icon", path).Msg("surface icon set")
	return s.writeStateLocked()
}

func (s *FileSurface) SetIconImage(ctx context.Context, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode icon: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeIcon(buf.Bytes()); err != nil {
		return err
	}
	s.state.IconPath = ""

	logging.FromContext(ctx).Trace().Int("bytes", buf.Len()).Msg("surface icon image set")
	return s.writeStateLocked()
}

func (s *FileSurface) SetBadgeText(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Text == text && !s.state.UpdatedAt.IsZero() {
		return nil
	}
	s.state.Text = text
	return s.writeStateLocked()
}

func (s *FileSurface) SetBadgeTextColor(_ context.Context, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.TextColor == color && !s.state.UpdatedAt.IsZero() {
		return nil
	}
	s.state.TextColor = color
	return s.writeStateLocked()
}

// State returns what was last written.
func (s *FileSurface) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *FileSurface) writeIcon(data []byte) error {
	if err := filesystem.WriteFileAtomic(filepath.Join(s.dir, IconFileName), data, filesystem.FilePerm); err != nil {
		return fmt.Errorf("write icon: %w", err)
	}
	return nil
}

func (s *FileSurface) writeStateLocked() error {
	s.state.UpdatedAt = s.now().UTC()
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode badge state: %w", err)
	}
	if err := filesystem.WriteFileAtomic(filepath.Join(s.dir, BadgeFileName), data, filesystem.FilePerm); err != nil {
		return fmt.Errorf("write badge state: %w", err)
	}
	return nil
}

// ErrNoBadge is returned by ReadState when the daemon has not rendered yet.
var ErrNoBadge = errors.New("no badge rendered yet")

// ReadState reads badge.json from dir.
func ReadState(dir string) (State, error) {
	data, err := os.ReadFile(filepath.Join(dir, BadgeFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, ErrNoBadge
	}
	if err != nil {
		return State{}, fmt.Errorf("read badge state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("decode badge state: %w", err)
	}
	return st, nil
}
