package requirements

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/portablesource/portablesource/pkg/util/files"
)

const RequirementsFile = "requirements.txt"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*`)

// ReadRequirements returns the requirement lines of a requirements.txt-style file with comments,
// blank lines and line continuations resolved.
func ReadRequirements(fs afero.Fs, path string) ([]string, error) {
	fh, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	requirements := []string{}
	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	current := ""
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if current != "" {
			line = strings.TrimLeft(line, " \t")
		}
		if strings.HasSuffix(line, `\`) {
			current += strings.TrimSuffix(line, `\`)
			continue
		}
		current += line
		if req := stripComment(current); req != "" {
			requirements = append(requirements, req)
		}
		current = ""
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if req := stripComment(current); req != "" {
		requirements = append(requirements, req)
	}
	return requirements, nil
}

// WriteRequirements writes lines as a requirements file, leaving the file untouched when it already
// has the same content.
func WriteRequirements(fs afero.Fs, path string, lines []string) error {
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	return files.WriteIfDifferent(fs, path, content)
}

func stripComment(line string) string {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return ""
	}
	if strings.Contains(line, "://") {
		// URLs may carry #egg= fragments, only whitespace-prefixed hashes start a comment
		if i := strings.Index(line, " #"); i >= 0 {
			line = line[:i]
		}
	} else if i := strings.Index(line, "#"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Name returns the normalized distribution name a requirement line refers to, or "" for option
// lines such as "-f <url>" and bare URLs. Direct references ("name @ url") keep their name.
func Name(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "-") {
		return ""
	}
	if name, _, ok := strings.Cut(line, "@"); ok && !strings.Contains(name, "://") {
		return NormalizeName(namePattern.FindString(strings.TrimSpace(name)))
	}
	if strings.Contains(line, "://") {
		return ""
	}
	return NormalizeName(namePattern.FindString(line))
}

// DirectURL returns the URL of a direct reference such as "torch @ https://...whl", or "".
func DirectURL(line string) string {
	name, ref, ok := strings.Cut(strings.TrimSpace(line), "@")
	if !ok || strings.Contains(name, "://") {
		return ""
	}
	ref, _, _ = strings.Cut(ref, ";")
	return strings.TrimSpace(ref)
}

// NormalizeName lower-cases a distribution name and collapses runs of '-', '_' and '.' into '-'.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	var b strings.Builder
	sep := false
	for _, r := range name {
		if r == '-' || r == '_' || r == '.' {
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('-')
		}
		sep = false
		b.WriteRune(r)
	}
	return b.String()
}

// Filter returns lines without requirements for any of the named packages.
func Filter(lines []string, names ...string) []string {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[NormalizeName(n)] = true
	}
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if drop[Name(line)] {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

// Mentions reports whether any line requires one of the named packages.
func Mentions(lines []string, names ...string) bool {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[NormalizeName(n)] = true
	}
	for _, line := range lines {
		if want[Name(line)] {
			return true
		}
	}
	return false
}
