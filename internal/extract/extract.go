// Package extract turns an M3U playlist, a tagged audio file or a folder of
// audio files into an ordered list of (artist, title) descriptors.
package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/desertthunder/seedify/internal/models"
	"github.com/desertthunder/seedify/internal/shared"
)

// Source identifies how an input path was classified.
type Source int

const (
	SourceUnknown Source = iota
	SourcePlaylist
	SourceAudioFile
	SourceFolder
)

func (s Source) String() string {
	switch s {
	case SourcePlaylist:
		return "playlist"
	case SourceAudioFile:
		return "audio file"
	case SourceFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// AudioExtensions lists the audio file extensions read for tags.
var AudioExtensions = []string{".mp3", ".flac", ".wav", ".m4a", ".aac", ".ogg"}

var playlistExtensions = []string{".m3u", ".m3u8"}

// Skipped is a file that produced no descriptor.
type Skipped struct {
	Path string
	Err  error
}

// Result holds the descriptors extracted from one input path.
type Result struct {
	Path        string
	Source      Source
	Descriptors []models.Descriptor
	Skipped     []Skipped
}

// IsAudioFile reports whether path has a supported audio extension.
func IsAudioFile(path string) bool {
	return slices.Contains(AudioExtensions, strings.ToLower(filepath.Ext(path)))
}

// IsPlaylist reports whether path has an M3U extension.
func IsPlaylist(path string) bool {
	return slices.Contains(playlistExtensions, strings.ToLower(filepath.Ext(path)))
}

// Extract classifies path and extracts its descriptors.
//
// A missing path returns [shared.ErrPathNotFound] and an unsupported file
// returns [shared.ErrUnsupportedFileType]; the result is empty but non-nil in
// both cases. Files that cannot be read are listed in [Result.Skipped].
func Extract(path string) (*Result, error) {
	res := &Result{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return res, fmt.Errorf("%w: %s", shared.ErrPathNotFound, path)
		}
		return res, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	switch {
	case info.IsDir():
		res.Source = SourceFolder
		res.Descriptors, res.Skipped = ParseAudioFolder(path)
	case IsPlaylist(path):
		res.Source = SourcePlaylist
		f, err := os.Open(path)
		if err != nil {
			return res, fmt.Errorf("failed to open playlist: %w", err)
		}
		defer f.Close()

		res.Descriptors, err = ParseM3U(f)
		if err != nil {
			return res, fmt.Errorf("failed to read playlist %s: %w", path, err)
		}
	case IsAudioFile(path):
		res.Source = SourceAudioFile
		d, err := ParseAudioFile(path)
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Path: path, Err: err})
		} else {
			res.Descriptors = append(res.Descriptors, d)
		}
	default:
		return res, fmt.Errorf("%w: %s", shared.ErrUnsupportedFileType, filepath.Ext(path))
	}
	return res, nil
}
