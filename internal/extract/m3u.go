package extract

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/desertthunder/seedify/internal/models"
)

const extinfPrefix = "#EXTINF:"

// The greedy first group splits on the last " - " of the display title.
var extinfPattern = regexp.MustCompile(`^[\d-]+,(.*) - (.*)`)

// ParseM3U reads an extended M3U playlist.
//
// Each #EXTINF line yields one descriptor. When its display title carries no
// "Artist - Title" pair, the following line is consumed as the file reference
// and its file name (without extension) is split instead. A consumed line is
// never parsed again.
func ParseM3U(r io.Reader) ([]models.Descriptor, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	var out []models.Descriptor
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		info, ok := strings.CutPrefix(line, extinfPrefix)
		if !ok {
			continue
		}

		d := parseExtinf(info)
		if d.Unknown() {
			i++
			if i < len(lines) {
				d = descriptorFromFilename(strings.TrimSpace(lines[i]))
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func parseExtinf(info string) models.Descriptor {
	if m := extinfPattern.FindStringSubmatch(info); m != nil {
		return models.NewDescriptor(m[1], m[2])
	}

	display := info
	if _, after, ok := strings.Cut(info, ","); ok {
		display = after
	}
	if artist, title, ok := strings.Cut(display, " - "); ok {
		return models.NewDescriptor(artist, title)
	}
	return models.NewDescriptor("", "")
}

func descriptorFromFilename(ref string) models.Descriptor {
	stem := baseName(ref)
	if artist, title, ok := strings.Cut(stem, " - "); ok {
		return models.NewDescriptor(artist, title)
	}
	return models.NewDescriptor("", stem)
}

// baseName strips directories (either separator) and the extension from ref.
func baseName(ref string) string {
	if idx := strings.LastIndexAny(ref, `/\`); idx >= 0 {
		ref = ref[idx+1:]
	}
	if idx := strings.LastIndex(ref, "."); idx > 0 {
		ref = ref[:idx]
	}
	return ref
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(lines) > 0 {
		lines[0] = strings.TrimPrefix(lines[0], "\ufeff")
	}
	return lines, nil
}
