// Package phrases reads phrase files and lays out the output folders of a batch run.
package phrases

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/randomart/pkg/domain"
)

// MaxFolderRunes caps the length of a folder name derived from a phrase.
const MaxFolderRunes = 30

// ErrNoPhraseFile is returned when none of the candidate files holds any text.
var ErrNoPhraseFile = errors.New("no text file found")

// Candidates lists the files tried for root, in order: root/text, root/text.txt, root itself.
func Candidates(root string) []string {
	return []string{
		filepath.Join(root, "text"),
		filepath.Join(root, "text.txt"),
		root,
	}
}

// Read returns the non-empty lines of the first candidate file with content.
func Read(root string) ([]string, string, error) {
	for _, path := range Candidates(root) {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, path, fmt.Errorf("failed to read phrases: %w", err)
		}
		if len(data) == 0 {
			continue
		}
		return Split(string(data)), path, nil
	}
	return nil, "", fmt.Errorf("%w in %s", ErrNoPhraseFile, root)
}

// Split breaks text into normalized phrases, one per line, dropping blank lines.
func Split(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = domain.NormalizePhrase(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// DataDir resolves target against the phrase path. An absolute target is used as is;
// otherwise it lives next to the phrase file, or inside the phrase directory.
func DataDir(phrasesPath, target string) (string, error) {
	if filepath.IsAbs(target) {
		return target, nil
	}
	root, err := filepath.Abs(phrasesPath)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(root); err == nil && info.Mode().IsRegular() {
		root = filepath.Dir(root)
	}
	return filepath.Join(root, target), nil
}

// FolderName keeps letters, digits and whitespace of phrase, truncated to MaxFolderRunes.
func FolderName(phrase string) string {
	var b strings.Builder
	n := 0
	for _, r := range phrase {
		if n == MaxFolderRunes {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
			n++
		}
	}
	return b.String()
}

// CreateFolder makes a fresh folder for phrase under dataDir, appending _1, _2, …
// when the name is taken. It returns the folder's path.
func CreateFolder(dataDir, phrase string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data dir: %w", err)
	}

	name := FolderName(phrase)
	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate += "_" + strconv.Itoa(i)
		}
		path := filepath.Join(dataDir, candidate)
		err := os.Mkdir(path, 0o755)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("failed to create folder for %q: %w", phrase, err)
		}
	}
}
