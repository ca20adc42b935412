package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dhowden/tag"

	"github.com/desertthunder/seedify/internal/models"
	"github.com/desertthunder/seedify/internal/shared"
)

// ParseAudioFile reads the artist and title tags of one audio file. An
// untagged file becomes the unknown sentinels when its bytes look like audio;
// unreadable or unrecognised files return an error.
func ParseAudioFile(path string) (models.Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Descriptor{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		if !looksLikeAudio(f) {
			return models.Descriptor{}, fmt.Errorf("%w: %s has no recognisable audio data", shared.ErrUnsupportedFileType, path)
		}
		return models.NewDescriptor("", ""), nil
	}
	if err != nil {
		return models.Descriptor{}, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}
	return models.NewDescriptor(m.Artist(), m.Title()), nil
}

// ParseAudioFolder walks root and parses every supported audio file in walk
// order. Unreadable files and directories are returned as skipped.
func ParseAudioFolder(root string) ([]models.Descriptor, []Skipped) {
	var (
		out     []models.Descriptor
		skipped []Skipped
	)

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			skipped = append(skipped, Skipped{Path: path, Err: err})
			return nil
		}
		if d.IsDir() || !IsAudioFile(path) {
			return nil
		}

		desc, err := ParseAudioFile(path)
		if err != nil {
			skipped = append(skipped, Skipped{Path: path, Err: err})
			return nil
		}
		out = append(out, desc)
		return nil
	})
	return out, skipped
}

// looksLikeAudio sniffs the start of an untagged file.
func looksLikeAudio(r io.ReadSeeker) bool {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return false
	}
	if _, _, err := tag.Identify(r); err == nil {
		return true
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return false
	}

	head := make([]byte, 12)
	n, _ := io.ReadFull(r, head)
	head = head[:n]
	switch {
	case len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		// MPEG audio frame sync; ADTS headers share the prefix.
		return true
	case len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WAVE")):
		return true
	case len(head) >= 4 && (bytes.Equal(head[:4], []byte("fLaC")) || bytes.Equal(head[:4], []byte("OggS"))):
		return true
	}
	return false
}
