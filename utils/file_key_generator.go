package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileKeyGenerator produces bucket object keys laid out by upload date, so
// archived PDFs stay browsable in the bucket console.
type FileKeyGenerator struct {
	prefix     string
	maxNameLen int
}

func NewFileKeyGenerator(prefix string) *FileKeyGenerator {
	return &FileKeyGenerator{
		prefix:     prefix,
		maxNameLen: 50,
	}
}

// GenerateFileKey returns a key like "pdfs/2026/08/31/a1b2c3d4_paper.pdf".
func (fkg *FileKeyGenerator) GenerateFileKey(filename string) string {
	now := time.Now()
	year := now.Format("2006")
	month := now.Format("01")
	day := now.Format("02")

	uid := uuid.New().String()[:8]
	cleanName := fkg.cleanFilename(filename)

	return fmt.Sprintf("%s/%s/%s/%s/%s_%s", fkg.prefix, year, month, day, uid, cleanName)
}

func (fkg *FileKeyGenerator) cleanFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	baseName := strings.TrimSuffix(filename, filepath.Ext(filename))

	cleanBase := fkg.sanitizeFilename(baseName)

	if len(cleanBase) > fkg.maxNameLen {
		cleanBase = cleanBase[:fkg.maxNameLen]
		cleanBase = fkg.ensureValidUTF8End(cleanBase)
	}

	if cleanBase == "" || cleanBase == "_" {
		cleanBase = "document"
	}

	return cleanBase + ext
}

func (fkg *FileKeyGenerator) sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "_")

	// keep letters, digits, underscore, hyphen, dot
	safePattern := regexp.MustCompile(`[^\p{L}\p{N}_\-.]`)
	name = safePattern.ReplaceAllString(name, "_")

	name = regexp.MustCompile(`[_\-.]{2,}`).ReplaceAllString(name, "_")
	name = strings.Trim(name, "_-.")

	return name
}

// ensureValidUTF8End trims a possibly split multi-byte rune off the end.
func (fkg *FileKeyGenerator) ensureValidUTF8End(s string) string {
	if len(s) == 0 {
		return s
	}
	for i := len(s) - 1; i >= 0 && i >= len(s)-4; i-- {
		if s[i]&0x80 == 0 {
			return s
		}
		if s[i]&0xC0 == 0xC0 {
			return s[:i]
		}
	}
	return s
}
